package actor

import (
	"context"
	"fmt"
	"time"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/internal/core/port"
	"github.com/berfenger/lovense2mqtt/internal/util/actorutil"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/reugn/go-quartz/logger"
	"go.uber.org/zap"
)

const (
	TOYS_ACTOR_ID = "toys"
)

// ToysActor wraps the blocking Lovense API calls. Requests run as
// background tasks so the mailbox stays responsive; incoming requests
// are stashed while a task is in flight.
type ToysActor struct {
	behavior actor.Behavior
	stash    *actorutil.Stash
	service  port.ToyService
	timeout  time.Duration
	logger   *zap.Logger
}

type backgroundTaskResult struct {
	message any
	replyTo *actor.PID
}

var _ port.ToyService = (*lovense.Client)(nil)

func NewToysActor(service port.ToyService, timeout time.Duration, logger *zap.Logger) *ToysActor {
	act := &ToysActor{
		service:  service,
		timeout:  timeout,
		behavior: actor.NewBehavior(),
		stash:    &actorutil.Stash{},
		logger:   actorutil.ActorLogger("toys", logger),
	}
	act.behavior.Become(act.DefaultReceive)
	return act
}

func (state *ToysActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *ToysActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthRequest:
		state.logger.Debug("toys@default: ActorHealthRequest")
		ctx.Respond(domain.ActorHealthResponse{
			Id:      TOYS_ACTOR_ID,
			Healthy: true,
			State:   "idle",
		})
	case domain.GetQrCodeRequest:
		state.logger.Debug("toys@default: GetQrCodeRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, state.getQrCode),
			mapTaskResult[domain.GetQrCodeResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetQrCodeResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingService)
	case domain.GetToysRequest:
		state.logger.Debug("toys@default: GetToysRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		endpoint := msg.Endpoint
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTask(ctx, func() (*domain.GetToysResponse, error) {
			return state.getToys(endpoint)
		}),
			mapTaskResult[domain.GetToysResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.GetToysResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingService)
	case domain.SendToyCommandRequest:
		state.logger.Debug("toys@default: SendToyCommandRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		endpoint := msg.Endpoint
		command := msg.Command
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, func() *domain.SendToyCommandResponse {
			a := state.sendCommand(endpoint, command)
			return &a
		}),
			mapTaskResult[domain.SendToyCommandResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SendToyCommandResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingService)
	case domain.SendRawToyCommandRequest:
		state.logger.Debug("toys@default: SendRawToyCommandRequest")
		sender := actorutil.ForRequest(msg).ReplyTo(ctx)
		endpoint := msg.Endpoint
		payload := msg.Payload
		actorutil.MapBackgroundTask(actorutil.NewBackgroundTaskNoError(ctx, func() *domain.SendRawToyCommandResponse {
			a := state.sendRawCommand(endpoint, payload)
			return &a
		}),
			mapTaskResult[domain.SendRawToyCommandResponse](sender)).Recover(func(err error) backgroundTaskResult {
			return backgroundTaskResult{
				message: domain.SendRawToyCommandResponse{
					ActorResponseMixIn: domain.ActorResponseMixIn{
						ResponseError: err,
					},
				},
				replyTo: sender,
			}
		}).WithTimeout(state.taskTimeout()).PipeTo(ctx.Self())
		state.behavior.BecomeStacked(state.WaitingService)
	default:
		state.logger.Debug("toys@default default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *ToysActor) WaitingService(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case backgroundTaskResult:
		state.logger.Debug("toys@waiting backgroundTaskResult", zap.String("type", fmt.Sprintf("%T", msg.message)))
		ctx.Send(msg.replyTo, msg.message)
		state.behavior.UnbecomeStacked()
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("toys@waiting stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (a *ToysActor) getQrCode() (*domain.GetQrCodeResponse, error) {
	qr, err := a.service.GetQrCode(context.Background())
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.GetQrCodeResponse{
		QrCode: qr,
	}, nil
}

func (a *ToysActor) getToys(endpoint *lovense.Endpoint) (*domain.GetToysResponse, error) {
	toys, err := a.service.GetToys(context.Background(), endpoint)
	if err != nil {
		logger.Error(err)
		return nil, err
	}
	return &domain.GetToysResponse{
		Toys: toys,
	}, nil
}

func (a *ToysActor) sendCommand(endpoint lovense.Endpoint, command lovense.Command) domain.SendToyCommandResponse {
	err := a.service.SendCommand(context.Background(), endpoint, command)
	if err != nil {
		logger.Error(err)
		return domain.SendToyCommandResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	}
	return domain.SendToyCommandResponse{}
}

func (a *ToysActor) sendRawCommand(endpoint lovense.Endpoint, payload map[string]any) domain.SendRawToyCommandResponse {
	err := a.service.SendRawCommand(context.Background(), endpoint, payload)
	if err != nil {
		logger.Error(err)
		return domain.SendRawToyCommandResponse{
			ActorResponseMixIn: domain.ActorResponseMixIn{
				ResponseError: err,
			},
		}
	}
	return domain.SendRawToyCommandResponse{}
}

func (a *ToysActor) taskTimeout() time.Duration {
	return a.timeout + 2*time.Second
}

func mapTaskResult[T any](sender *actor.PID) func(t *T) *backgroundTaskResult {
	return func(t *T) *backgroundTaskResult {
		return &backgroundTaskResult{
			message: *t,
			replyTo: sender,
		}
	}
}
