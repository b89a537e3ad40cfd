package actor

import (
	"testing"
	"time"

	"github.com/berfenger/lovense2mqtt/internal/core/domain"
	"github.com/berfenger/lovense2mqtt/internal/util/actorutil"
	"github.com/berfenger/lovense2mqtt/pkg/lovense"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestGetToysToysActor(t *testing.T) {

	assert := assert.New(t)

	service := lovense.CreateTestToyService()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)

	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewToysActor(service, 2*time.Second, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetToysRequest{}
	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetToysResponse)

	assert.False(resp.HasResponseError())
	assert.Len(resp.Toys, 2)
	assert.Equal(resp.Toys["d290f1ee"].Name, "Solace Pro", "toy name")
	assert.True(resp.Toys["d290f1ee"].SupportsPositionControl(), "position control")
	assert.False(resp.Toys["aa11bb22"].SupportsPositionControl(), "no position control")

	context.Stop(pid)

	as.Shutdown()
}

func TestGetQrCodeToysActor(t *testing.T) {

	assert := assert.New(t)

	service := lovense.CreateTestToyService()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewToysActor(service, 2*time.Second, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	msg := domain.GetQrCodeRequest{}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.GetQrCodeResponse)

	assert.False(resp.HasResponseError())
	assert.NotNil(resp.QrCode)
	assert.NotEmpty(resp.QrCode.Qr, "QR url")

	context.Stop(pid)

	as.Shutdown()
}

func TestSendCommandToysActor(t *testing.T) {

	assert := assert.New(t)

	service := lovense.CreateTestToyService()

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewToysActor(service, 2*time.Second, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	zero := 0
	msg := domain.SendToyCommandRequest{
		Endpoint: lovense.Endpoint{Domain: "192-168-1-10.lovense.club", HttpsPort: 34568},
		Command: lovense.Command{
			Command: lovense.CommandFunction,
			Action:  "Vibrate:12",
			TimeSec: &zero,
			Toy:     "d290f1ee",
			ApiVer:  1,
		},
	}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SendToyCommandResponse)

	assert.False(resp.HasResponseError())
	commands := service.SentCommands()
	assert.Len(commands, 1)
	assert.Equal(commands[0].Action, "Vibrate:12", "command action")

	context.Stop(pid)

	as.Shutdown()
}

func TestSendCommandErrorToysActor(t *testing.T) {

	assert := assert.New(t)

	service := lovense.CreateTestToyService()
	service.CommandErr = &lovense.TransportError{Code: 402, Message: "Toy Not Connected"}

	logger := zap.Must(zap.NewDevelopment())

	as := actorutil.NewActorSystemWithZapLogger(logger)
	context := as.Root

	props := actor.PropsFromProducer(func() actor.Actor { return NewToysActor(service, 2*time.Second, logger) })
	pid := context.Spawn(props)

	time.Sleep(1 * time.Second)

	zero := 0
	msg := domain.SendToyCommandRequest{
		Endpoint: lovense.Endpoint{Domain: "192-168-1-10.lovense.club", HttpsPort: 34568},
		Command: lovense.Command{
			Command: lovense.CommandFunction,
			Action:  "Stop",
			TimeSec: &zero,
			Toy:     "d290f1ee",
			ApiVer:  1,
		},
	}

	result, err := context.RequestFuture(pid, msg, 15*time.Second).Result()
	if err != nil {
		t.Error(err)
		return
	}
	resp := result.(domain.SendToyCommandResponse)

	assert.True(resp.HasResponseError())
	assert.Contains(resp.GetResponseError().Error(), "Toy Not Connected")
	assert.Empty(service.SentCommands())

	context.Stop(pid)

	as.Shutdown()
}
