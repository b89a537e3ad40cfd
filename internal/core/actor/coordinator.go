package actor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/berfenger/lovense2mqtt/internal/config"
	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/internal/core/events"
	"github.com/berfenger/lovense2mqtt/internal/core/service"
	. "github.com/berfenger/lovense2mqtt/internal/util/actorutil"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"github.com/asynkron/protoactor-go/scheduler"
	"go.uber.org/zap"
)

const (
	PAIRING_STATE_UNPAIRED          = "unpaired"
	PAIRING_STATE_AWAITING_CALLBACK = "awaiting_callback"
	PAIRING_STATE_PAIRED            = "paired"
)

// CoordinatorActor owns the desired state of every toy and the pairing
// lifecycle. Commands are merged into the state store and the merged
// state is translated into a single vendor command. Pairing is driven
// exclusively by callbacks: refresh ticks keep requesting QR codes, but
// only a callback carrying endpoint details reaches the paired state.
type CoordinatorActor struct {
	ActorWithStates
	scheduler   *scheduler.TimerScheduler
	stash       *Stash
	toysActor   *actor.PID
	config      *config.Config
	eventStream *eventstream.EventStream
	store       *service.StateStore
	endpoint    *lovense.Endpoint
	toys        lovense.ToyMap
	lastQr      *lovense.QrCode
	logger      *zap.Logger
}

type refreshTick struct {
}

func NewCoordinatorActor(config *config.Config, toysActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *CoordinatorActor {
	act := &CoordinatorActor{
		config:      config,
		toysActor:   toysActor,
		stash:       &Stash{},
		eventStream: eventStream,
		store:       service.NewStateStore(),
		toys:        lovense.ToyMap{},
		logger:      ActorLogger(domain.ACTOR_ID_COORDINATOR, logger),
		ActorWithStates: ActorWithStates{
			Behavior: actor.NewBehavior(),
		},
	}
	act.Become(CoordStartingState{
		actor: act,
	})
	return act
}

func (state *CoordinatorActor) Receive(context actor.Context) {
	state.Behavior.Receive(context)
}

func (state *CoordinatorActor) refreshInterval() time.Duration {
	seconds := state.config.Lovense.RefreshIntervalSeconds
	if seconds == 0 {
		seconds = 30
	}
	return time.Duration(seconds) * time.Second
}

func (state *CoordinatorActor) requestTimeout() time.Duration {
	seconds := state.config.Lovense.RequestTimeoutSeconds
	if seconds == 0 {
		seconds = 10
	}
	return time.Duration(seconds)*time.Second + 2*time.Second
}

// Starting state

type CoordStartingState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordStartingState) Name() string {
	return "starting"
}

func (state CoordStartingState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.actor.logger.Debug("coordinator@starting started")

		state.actor.scheduler = scheduler.NewTimerScheduler(ctx)

		// trigger the first refresh immediately
		ctx.Send(ctx.Self(), refreshTick{})
		state.actor.Become(CoordUnpairedState{
			actor: state.actor,
		}.OnEnter(ctx))
		state.actor.stash.UnstashAll(ctx)
	case *actor.Restarting:
	default:
		state.actor.logger.Debug("coordinator@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

// Unpaired state

type CoordUnpairedState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordUnpairedState) Name() string {
	return PAIRING_STATE_UNPAIRED
}

func (state CoordUnpairedState) OnEnter(ctx actor.Context) CoordUnpairedState {
	state.actor.publishPairingState(state.Name())
	return state
}

func (state CoordUnpairedState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("coordinator@unpaired: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   state.Name(),
		})
	case refreshTick:
		state.actor.logger.Debug("coordinator@unpaired refreshTick")
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
		state.actor.BecomeStacked(CoordAwaitQrState{
			actor: state.actor,
		}.OnEnterAction(ctx))
	case domain.PairingCallbackRequest:
		state.actor.handlePairingCallback(ctx, msg)
	case domain.GetPairingQrRequest:
		ctx.Respond(domain.GetPairingQrResponse{
			QrCode:       state.actor.lastQr,
			PairingState: state.Name(),
		})
	case domain.ToyControlRequest:
		state.actor.handleToyCommandUnpaired(ctx, msg)
	case domain.PushToyCommandRequest:
		state.actor.handleToyPushUnpaired(ctx, msg)
	default:
		state.actor.logger.Debug("coordinator@unpaired: recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// Awaiting callback state

type CoordAwaitingCallbackState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordAwaitingCallbackState) Name() string {
	return PAIRING_STATE_AWAITING_CALLBACK
}

func (state CoordAwaitingCallbackState) OnEnter(ctx actor.Context) CoordAwaitingCallbackState {
	state.actor.publishPairingState(state.Name())
	return state
}

func (state CoordAwaitingCallbackState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("coordinator@awaitingCallback: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   state.Name(),
		})
	case refreshTick:
		// keep the QR code fresh until a callback arrives
		state.actor.logger.Debug("coordinator@awaitingCallback refreshTick")
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
		state.actor.BecomeStacked(CoordAwaitQrState{
			actor: state.actor,
		}.OnEnterAction(ctx))
	case domain.PairingCallbackRequest:
		state.actor.handlePairingCallback(ctx, msg)
	case domain.GetPairingQrRequest:
		ctx.Respond(domain.GetPairingQrResponse{
			QrCode:       state.actor.lastQr,
			PairingState: state.Name(),
		})
	case domain.ToyControlRequest:
		state.actor.handleToyCommandUnpaired(ctx, msg)
	case domain.PushToyCommandRequest:
		state.actor.handleToyPushUnpaired(ctx, msg)
	default:
		state.actor.logger.Debug("coordinator@awaitingCallback: recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// Paired state

type CoordPairedState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordPairedState) Name() string {
	return PAIRING_STATE_PAIRED
}

func (state CoordPairedState) OnEnter(ctx actor.Context) CoordPairedState {
	state.actor.publishPairingState(state.Name())
	return state
}

func (state CoordPairedState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.actor.logger.Debug("coordinator@paired: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      domain.ACTOR_ID_COORDINATOR,
			Healthy: true,
			State:   state.Name(),
		})
	case refreshTick:
		state.actor.logger.Debug("coordinator@paired refreshTick")
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
		state.actor.BecomeStacked(CoordAwaitInventoryState{
			actor: state.actor,
		}.OnEnterAction(ctx))
	case domain.ToyControlRequest:
		state.actor.handleToyCommand(ctx, msg)
	case domain.PushToyCommandRequest:
		state.actor.handleToyPush(ctx, msg)
	case domain.PairingCallbackRequest:
		// a new callback may carry a changed endpoint or inventory
		state.actor.handlePairingCallback(ctx, msg)
	case domain.GetPairingQrRequest:
		ctx.Respond(domain.GetPairingQrResponse{
			QrCode:       state.actor.lastQr,
			PairingState: state.Name(),
		})
	case domain.SendToyCommandResponse:
		// can be received after an await state timed out
		ctx.SetReceiveTimeout(0)
		if msg.HasResponseError() {
			state.actor.logger.Error("coordinator@paired: late SendToyCommandResponse error", zap.Error(msg.GetResponseError()))
		}
	case domain.SendRawToyCommandResponse:
		ctx.SetReceiveTimeout(0)
		if msg.HasResponseError() {
			state.actor.logger.Error("coordinator@paired: late SendRawToyCommandResponse error", zap.Error(msg.GetResponseError()))
		}
	default:
		state.actor.logger.Debug("coordinator@paired: recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

// Await QR response state

type CoordAwaitQrState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordAwaitQrState) Name() string {
	return "awaitQrReceive"
}

func (state CoordAwaitQrState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetQrCodeResponse:
		ctx.SetReceiveTimeout(0)
		state.actor.UnbecomeStacked()
		if msg.HasResponseError() {
			state.actor.logger.Warn("coordinator@awaitQrReceive: GetQrCodeResponse error, will retry on next tick",
				zap.Error(msg.GetResponseError()))
		} else {
			state.actor.lastQr = msg.QrCode
			state.actor.logger.Info("coordinator@awaitQrReceive: pairing QR code ready",
				zap.String("qr", msg.QrCode.Qr))
			state.actor.Become(CoordAwaitingCallbackState{
				actor: state.actor,
			}.OnEnter(ctx))
		}
		state.actor.stash.UnstashAll(ctx)
	case *actor.ReceiveTimeout:
		ctx.SetReceiveTimeout(0)
		state.actor.logger.Warn("coordinator@awaitQrReceive: ReceiveTimeout")
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case refreshTick:
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
	default:
		state.actor.logger.Debug("coordinator@awaitQrReceive: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

func (state CoordAwaitQrState) OnEnterAction(ctx actor.Context) CoordAwaitQrState {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.toysActor,
		domain.GetQrCodeRequest{}, state.actor.requestTimeout()),
		func(err error) any {
			return domain.GetQrCodeResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
	ctx.SetReceiveTimeout(state.actor.requestTimeout() + time.Second)
	return state
}

// Await inventory response state

type CoordAwaitInventoryState struct {
	ActorState
	actor *CoordinatorActor
}

func (state CoordAwaitInventoryState) Name() string {
	return "awaitInventoryReceive"
}

func (state CoordAwaitInventoryState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.GetToysResponse:
		ctx.SetReceiveTimeout(0)
		state.actor.UnbecomeStacked()
		if msg.HasResponseError() {
			// keep the last known inventory, a failed refresh never unpairs
			state.actor.logger.Warn("coordinator@awaitInventoryReceive: GetToysResponse error",
				zap.Error(msg.GetResponseError()))
		} else {
			state.actor.replaceInventory(msg.Toys)
		}
		state.actor.stash.UnstashAll(ctx)
	case *actor.ReceiveTimeout:
		ctx.SetReceiveTimeout(0)
		state.actor.logger.Warn("coordinator@awaitInventoryReceive: ReceiveTimeout")
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case refreshTick:
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
	default:
		state.actor.logger.Debug("coordinator@awaitInventoryReceive: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

func (state CoordAwaitInventoryState) OnEnterAction(ctx actor.Context) CoordAwaitInventoryState {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.toysActor,
		domain.GetToysRequest{Endpoint: state.actor.endpoint}, state.actor.requestTimeout()),
		func(err error) any {
			return domain.GetToysResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
	ctx.SetReceiveTimeout(state.actor.requestTimeout() + time.Second)
	return state
}

// Await command response state

type CoordAwaitCommandState struct {
	ActorState
	actor   *CoordinatorActor
	replyTo *actor.PID
	merged  domain.DesiredState
}

func (state CoordAwaitCommandState) Name() string {
	return "awaitCommandReceive"
}

func (state CoordAwaitCommandState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.SendToyCommandResponse:
		ctx.SetReceiveTimeout(0)
		if msg.HasResponseError() {
			// command failures never unpair, the endpoint may just be busy
			state.actor.logger.Error("coordinator@awaitCommandReceive: SendToyCommandResponse error",
				zap.Error(msg.GetResponseError()))
		}
		if state.replyTo != nil {
			ctx.Send(state.replyTo, domain.ApplyToySettingsResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: msg.GetResponseError(),
				},
				State: state.merged,
			})
		}
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case *actor.ReceiveTimeout:
		ctx.SetReceiveTimeout(0)
		state.actor.logger.Warn("coordinator@awaitCommandReceive: ReceiveTimeout")
		if state.replyTo != nil {
			ctx.Send(state.replyTo, domain.ApplyToySettingsResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: errors.New("receive timeout"),
				},
				State: state.merged,
			})
		}
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case refreshTick:
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
	default:
		state.actor.logger.Debug("coordinator@awaitCommandReceive: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

func (state CoordAwaitCommandState) OnEnterAction(ctx actor.Context, command lovense.Command) CoordAwaitCommandState {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.toysActor,
		domain.SendToyCommandRequest{Endpoint: *state.actor.endpoint, Command: command}, state.actor.requestTimeout()),
		func(err error) any {
			return domain.SendToyCommandResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
	ctx.SetReceiveTimeout(state.actor.requestTimeout() + time.Second)
	return state
}

// Await raw command response state

type CoordAwaitRawCommandState struct {
	ActorState
	actor   *CoordinatorActor
	replyTo *actor.PID
}

func (state CoordAwaitRawCommandState) Name() string {
	return "awaitRawCommandReceive"
}

func (state CoordAwaitRawCommandState) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.SendRawToyCommandResponse:
		ctx.SetReceiveTimeout(0)
		if msg.HasResponseError() {
			state.actor.logger.Error("coordinator@awaitRawCommandReceive: SendRawToyCommandResponse error",
				zap.Error(msg.GetResponseError()))
		}
		if state.replyTo != nil {
			ctx.Send(state.replyTo, domain.PushToyCommandResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: msg.GetResponseError(),
				},
			})
		}
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case *actor.ReceiveTimeout:
		ctx.SetReceiveTimeout(0)
		state.actor.logger.Warn("coordinator@awaitRawCommandReceive: ReceiveTimeout")
		if state.replyTo != nil {
			ctx.Send(state.replyTo, domain.PushToyCommandResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: errors.New("receive timeout"),
				},
			})
		}
		state.actor.UnbecomeStacked()
		state.actor.stash.UnstashAll(ctx)
	case refreshTick:
		state.actor.scheduler.RequestOnce(state.actor.refreshInterval(), ctx.Self(), refreshTick{})
	default:
		state.actor.logger.Debug("coordinator@awaitRawCommandReceive: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.actor.stash.Stash(ctx, msg)
	}
}

func (state CoordAwaitRawCommandState) OnEnterAction(ctx actor.Context, payload map[string]any) CoordAwaitRawCommandState {
	PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.actor.toysActor,
		domain.SendRawToyCommandRequest{Endpoint: *state.actor.endpoint, Payload: payload}, state.actor.requestTimeout()),
		func(err error) any {
			return domain.SendRawToyCommandResponse{
				ActorResponseMixIn: domain.ActorResponseMixIn{
					ResponseError: err,
				},
			}
		})
	ctx.SetReceiveTimeout(state.actor.requestTimeout() + time.Second)
	return state
}

// Other actor function helpers

func (state *CoordinatorActor) handlePairingCallback(ctx actor.Context, msg domain.PairingCallbackRequest) {
	payload := msg.Payload
	state.logger.Info("coordinator: pairing callback received",
		zap.String("uid", payload.Uid), zap.Int("toys", len(payload.Toys)))

	if payload.Toys != nil {
		state.replaceInventory(payload.Toys)
	}
	ForRequest(msg).Respond(ctx, domain.PairingCallbackResponse{})

	if endpoint := payload.Endpoint(); endpoint != nil {
		state.endpoint = endpoint
		state.Become(CoordPairedState{
			actor: state,
		}.OnEnter(ctx))
	} else {
		state.logger.Warn("coordinator: pairing callback without endpoint details, staying unpaired")
	}
}

// handleToyCommand merges the command into the desired state and pushes
// the translated command to the local endpoint.
func (state *CoordinatorActor) handleToyCommand(ctx actor.Context, cmd domain.ToyControlRequest) {
	toyId, partial := state.partialForCommand(cmd)
	merged := state.store.Merge(toyId, partial)
	state.publishSettingsEvents(toyId, merged)

	var replyTo *actor.PID
	if apply, ok := cmd.(domain.ApplyToySettingsRequest); ok {
		replyTo = ForRequest(apply).ReplyTo(ctx)
	}
	command := service.Translate(toyId, merged)
	state.BecomeStacked(CoordAwaitCommandState{
		actor:   state,
		replyTo: replyTo,
		merged:  merged,
	}.OnEnterAction(ctx, command))
}

// handleToyCommandUnpaired still merges so the desired state is applied
// once pairing completes, but the push fails without a local endpoint.
func (state *CoordinatorActor) handleToyCommandUnpaired(ctx actor.Context, cmd domain.ToyControlRequest) {
	toyId, partial := state.partialForCommand(cmd)
	merged := state.store.Merge(toyId, partial)
	state.publishSettingsEvents(toyId, merged)

	err := errors.New("no local endpoint: bridge is not paired")
	if apply, ok := cmd.(domain.ApplyToySettingsRequest); ok {
		ForRequest(apply).Respond(ctx, domain.ApplyToySettingsResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
			State: merged,
		})
	} else {
		state.logger.Warn("coordinator: dropping command push", zap.String("toy", toyId), zap.Error(err))
	}
}

// handleToyPush forwards a raw command payload to the local endpoint
// without touching the desired state store. The resolved toy id is
// injected so callers can use entity-cased ids.
func (state *CoordinatorActor) handleToyPush(ctx actor.Context, msg domain.PushToyCommandRequest) {
	payload := make(map[string]any, len(msg.Payload)+1)
	for key, value := range msg.Payload {
		payload[key] = value
	}
	payload["toy"] = state.resolveToyId(msg.ToyId)

	state.BecomeStacked(CoordAwaitRawCommandState{
		actor:   state,
		replyTo: ForRequest(msg).ReplyTo(ctx),
	}.OnEnterAction(ctx, payload))
}

func (state *CoordinatorActor) handleToyPushUnpaired(ctx actor.Context, msg domain.PushToyCommandRequest) {
	err := errors.New("no local endpoint: bridge is not paired")
	state.logger.Warn("coordinator: dropping raw command push", zap.String("toy", msg.ToyId), zap.Error(err))
	ForRequest(msg).Respond(ctx, domain.PushToyCommandResponse{
		ActorResponseMixIn: domain.ActorResponseMixIn{
			ResponseError: err,
		},
	})
}

func (state *CoordinatorActor) partialForCommand(cmd domain.ToyControlRequest) (string, domain.PartialSettings) {
	toyId := state.resolveToyId(cmd.TargetToy())
	current := state.store.Get(toyId)
	switch c := cmd.(type) {
	case domain.ToySetVibrationRequest:
		return toyId, domain.PartialSettings{Vibration: &c.Level}
	case domain.ToySetThrustingRequest:
		return toyId, domain.PartialSettings{Thrusting: &c.Level}
	case domain.ToySetPositionRequest:
		return toyId, domain.PartialSettings{Position: &c.Position}
	case domain.ToyClearPositionRequest:
		return toyId, domain.PartialSettings{ClearPosition: true}
	case domain.ToySetStrokeBottomRequest:
		stroke := currentStroke(current)
		stroke.Low = domain.ClampPosition(c.Value)
		if stroke.Low >= stroke.High {
			// nudge the other bound to keep the range valid
			if stroke.Low >= domain.PositionMax {
				stroke.Low = domain.PositionMax - 1
			}
			stroke.High = stroke.Low + 1
		}
		return toyId, domain.PartialSettings{Stroke: &stroke}
	case domain.ToySetStrokeTopRequest:
		stroke := currentStroke(current)
		stroke.High = domain.ClampPosition(c.Value)
		if stroke.High <= stroke.Low {
			if stroke.High <= domain.PositionMin {
				stroke.High = domain.PositionMin + 1
			}
			stroke.Low = stroke.High - 1
		}
		return toyId, domain.PartialSettings{Stroke: &stroke}
	case domain.ToyPositionModeRequest:
		if c.Enable {
			position := domain.DefaultPosition
			if current.Position != nil {
				position = *current.Position
			}
			return toyId, domain.PartialSettings{Position: &position}
		}
		return toyId, domain.PartialSettings{ClearPosition: true}
	case domain.ToyActiveRequest:
		if !c.Enable {
			zero := 0
			return toyId, domain.PartialSettings{
				Vibration:     &zero,
				Thrusting:     &zero,
				ClearPosition: true,
				ClearStroke:   true,
			}
		}
		// switching active on re-pushes the current desired state
		return toyId, domain.PartialSettings{}
	case domain.ApplyToySettingsRequest:
		return toyId, c.Settings
	}
	return toyId, domain.PartialSettings{}
}

// resolveToyId maps an entity-derived toy id back to the inventory's
// casing. Entity ids are lowercased, so a case-insensitive match is
// needed to keep state keys and outbound payloads aligned with the
// vendor id.
func (state *CoordinatorActor) resolveToyId(toyId string) string {
	if _, ok := state.toys[toyId]; ok {
		return toyId
	}
	for id := range state.toys {
		if strings.EqualFold(id, toyId) {
			return id
		}
	}
	return toyId
}

func currentStroke(state domain.DesiredState) domain.StrokeRange {
	if state.Stroke != nil {
		return *state.Stroke
	}
	return domain.StrokeRange{Low: domain.DefaultStrokeLow, High: domain.DefaultStrokeTop}
}

// replaceInventory swaps the whole inventory and publishes per-toy
// sensor updates. Discovery for newly seen toys is triggered through
// the event stream.
func (state *CoordinatorActor) replaceInventory(toys lovense.ToyMap) {
	var hasNew bool
	for id := range toys {
		if _, known := state.toys[id]; !known {
			hasNew = true
			break
		}
	}
	state.toys = toys

	if hasNew {
		state.eventStream.Publish(events.InventoryUpdatedEvent{Toys: toys})
	}
	for _, toy := range toys {
		for _, event := range events.ToyInfoToUpdateEvents(toy) {
			state.eventStream.Publish(event)
		}
	}
}

func (state *CoordinatorActor) publishSettingsEvents(toyId string, merged domain.DesiredState) {
	for _, event := range events.ToySettingsToUpdateEvents(toyId, merged) {
		state.eventStream.Publish(event)
	}
}

func (state *CoordinatorActor) publishPairingState(pairingState string) {
	state.eventStream.Publish(events.PairingStateUpdateEvent(pairingState))
}
