package actorutil

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/internal/mqtt"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/lmittmann/tint"
	"go.uber.org/zap"
)

func PipeToSelfWithRecover(ctx actor.Context, future *actor.Future, mapFn func(error) any) {
	ctx.ReenterAfter(future, func(msg any, err error) {
		if err != nil {
			ctx.Send(ctx.Self(), mapFn(err))
			return
		}
		ctx.Send(ctx.Self(), msg)
	})
}

func NewActorSystemWithZapLogger(logger *zap.Logger) *actor.ActorSystem {
	stdOutLogger := zap.NewStdLog(logger)

	var slogLevel slog.Level = slog.LevelInfo

	switch logger.Level() {
	case zap.DebugLevel:
		slogLevel = slog.LevelDebug
	case zap.InfoLevel:
		slogLevel = slog.LevelInfo
	case zap.WarnLevel:
		slogLevel = slog.LevelWarn
	case zap.ErrorLevel:
		slogLevel = slog.LevelError
	case zap.PanicLevel:
		slogLevel = slog.LevelError
	}

	return actor.NewActorSystem(actor.WithLoggerFactory(func(system *actor.ActorSystem) *slog.Logger {

		// create a new logger
		return slog.New(tint.NewHandler(stdOutLogger.Writer(), &tint.Options{
			Level:      slogLevel,
			TimeFormat: time.DateTime,
		}))
	}))
}

func ActorLogger(actorName string, logger *zap.Logger) *zap.Logger {
	return logger.With(zap.String("actor", actorName))
}

// ParsedMQTTCommandToCommand maps an MQTT command on a per-toy entity to
// the matching toy control request. Unknown entities and unparsable
// payloads map to nil.
func ParsedMQTTCommandToCommand(cmd mqtt.ParsedMQTTCommand) (domain.ActorRequest, error) {
	toyId, suffix, ok := domain.ParseToyEntityId(cmd.DeviceId)
	if !ok {
		return nil, nil
	}
	mixin := domain.ToyControlRequestMixIn{ToyId: toyId}
	switch suffix {
	case domain.ENTITY_SUFFIX_VIBRATION:
		value, err := parseLevel(cmd.Payload, domain.VibrationMax)
		if err != nil {
			return nil, err
		}
		return domain.ToySetVibrationRequest{ToyControlRequestMixIn: mixin, Level: value}, nil
	case domain.ENTITY_SUFFIX_THRUSTING:
		value, err := parseLevel(cmd.Payload, domain.ThrustingMax)
		if err != nil {
			return nil, err
		}
		return domain.ToySetThrustingRequest{ToyControlRequestMixIn: mixin, Level: value}, nil
	case domain.ENTITY_SUFFIX_POSITION:
		value, err := parseLevel(cmd.Payload, domain.PositionMax)
		if err != nil {
			return nil, err
		}
		return domain.ToySetPositionRequest{ToyControlRequestMixIn: mixin, Position: value}, nil
	case domain.ENTITY_SUFFIX_STROKE_BOTTOM:
		value, err := parseLevel(cmd.Payload, domain.PositionMax)
		if err != nil {
			return nil, err
		}
		return domain.ToySetStrokeBottomRequest{ToyControlRequestMixIn: mixin, Value: value}, nil
	case domain.ENTITY_SUFFIX_STROKE_TOP:
		value, err := parseLevel(cmd.Payload, domain.PositionMax)
		if err != nil {
			return nil, err
		}
		return domain.ToySetStrokeTopRequest{ToyControlRequestMixIn: mixin, Value: value}, nil
	case domain.ENTITY_SUFFIX_POSITION_MODE:
		return domain.ToyPositionModeRequest{ToyControlRequestMixIn: mixin, Enable: cmd.Payload == "on"}, nil
	case domain.ENTITY_SUFFIX_ACTIVE:
		return domain.ToyActiveRequest{ToyControlRequestMixIn: mixin, Enable: cmd.Payload == "on"}, nil
	}
	return nil, nil
}

func parseLevel(payload string, max int) (int, error) {
	// HA number commands may carry a decimal point
	value, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return 0, err
	}
	level := int(value)
	if level < 0 {
		level = 0
	}
	if level > max {
		level = max
	}
	return level, nil
}
