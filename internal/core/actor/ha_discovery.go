package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/berfenger/lovense2mqtt/internal/config"
	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/internal/core/events"
	"github.com/berfenger/lovense2mqtt/internal/util/actorutil"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/asynkron/protoactor-go/eventstream"
	"go.uber.org/zap"
)

// HADiscoveryActor publishes Home Assistant discovery documents. Bridge
// entities are announced once the MQTT actor is healthy, toy entities
// every time the inventory gains toys.
type HADiscoveryActor struct {
	config           *config.Config
	behavior         actor.Behavior
	stash            *actorutil.Stash
	mqttActor        *actor.PID
	eventStream      *eventstream.EventStream
	eventStreamSub   *eventstream.Subscription
	mqttActorHealthy bool

	logger *zap.Logger
}

type onEventStreamMessage struct {
	message any
}

func NewHADiscoveryActor(config *config.Config, mqttActor *actor.PID, eventStream *eventstream.EventStream, logger *zap.Logger) *HADiscoveryActor {
	act := &HADiscoveryActor{
		config:      config,
		mqttActor:   mqttActor,
		eventStream: eventStream,
		behavior:    actor.NewBehavior(),
		stash:       &actorutil.Stash{},
		logger:      actorutil.ActorLogger(domain.ACTOR_ID_HA_DISCOVERY, logger),
	}
	act.behavior.Become(act.StartingReceive)
	return act
}

func (state *HADiscoveryActor) Receive(context actor.Context) {
	state.behavior.Receive(context)
}

func (state *HADiscoveryActor) StartingReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Started:
		state.logger.Debug("hadiscovery@starting started")

		// Check MQTT actor healthy
		state.mqttActorHealthy = false
		actorutil.PipeToSelfWithRecover(ctx, ctx.RequestFuture(state.mqttActor, domain.ActorHealthRequest{}, 2*time.Second), func(err error) any {
			return domain.ActorHealthResponse{
				Id:      domain.ACTOR_ID_MQTT,
				Healthy: false,
			}
		})
		state.behavior.Become(state.WaitingHealthyReceive)
	case *actor.Restarting:
	default:
		state.logger.Debug("hadiscovery@starting: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) WaitingHealthyReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case domain.ActorHealthResponse:
		state.logger.Debug("hadiscovery@healthcheck ActorHealthResponse", zap.String("sender", msg.Id), zap.Bool("healthy", msg.Healthy))
		if msg.Id != domain.ACTOR_ID_MQTT {
			return
		}
		if !msg.Healthy {
			panic(errors.New("MQTT Actor is not healthy"))
		}
		state.mqttActorHealthy = true

		state.publishBridgeDiscovery(ctx)

		// toy discovery is driven by inventory updates
		state.eventStreamSub = state.eventStream.Subscribe(func(value any) {
			ctx.Send(ctx.Self(), onEventStreamMessage{message: value})
		})

		state.behavior.Become(state.DefaultReceive)
		state.stash.UnstashAll(ctx)
	default:
		state.logger.Debug("hadiscovery@healthcheck: stash", zap.String("type", fmt.Sprintf("%T", msg)))
		state.stash.Stash(ctx, msg)
	}
}

func (state *HADiscoveryActor) DefaultReceive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *actor.Stopping:
		state.stop()
	case onEventStreamMessage:
		if event, ok := msg.message.(events.InventoryUpdatedEvent); ok {
			state.logger.Debug("hadiscovery@default inventory update", zap.Int("toys", len(event.Toys)))
			state.publishToyDiscovery(ctx, event)
		}
	default:
		state.logger.Debug("hadiscovery@default: default recv", zap.String("type", fmt.Sprintf("%T", msg)))
	}
}

func (state *HADiscoveryActor) stop() {
	if state.eventStreamSub != nil {
		state.eventStream.Unsubscribe(state.eventStreamSub)
		state.eventStreamSub = nil
	}
}

func (state *HADiscoveryActor) publishBridgeDiscovery(ctx actor.Context) {
	bridgeDevice := domain.BridgeDevice(state.config.MQTT.BaseTopic)
	bridgeSensors := domain.BridgeSensors(bridgeDevice)

	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors: bridgeSensors,
	})
}

func (state *HADiscoveryActor) publishToyDiscovery(ctx actor.Context, event events.InventoryUpdatedEvent) {

	var sensors []domain.GenericSensor
	var switches []domain.GenericSwitch
	var inputNumbers []domain.GenericInputNumber

	bridgeDevice := domain.BridgeDevice(state.config.MQTT.BaseTopic)

	for _, toy := range event.Toys {
		toyDevice := domain.ToyDevice(bridgeDevice, toy)

		toySensors := domain.ToySensors(toyDevice, toy)
		for i := range toySensors {
			if i > 0 {
				toySensors[i].Device = domain.IdDevice(toyDevice)
			}
			sensors = append(sensors, toySensors[i])
		}
		switches = append(switches, domain.ToySwitches(domain.IdDevice(toyDevice), toy)...)
		inputNumbers = append(inputNumbers, domain.ToyInputNumbers(domain.IdDevice(toyDevice), toy)...)
	}

	ctx.Send(state.mqttActor, domain.PublishDiscoveryRequest{
		Sensors:      sensors,
		Switches:     switches,
		InputNumbers: inputNumbers,
	})
}
