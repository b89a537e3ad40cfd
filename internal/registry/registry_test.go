package registry

import (
	"testing"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/stretchr/testify/assert"
)

func TestBridgeRegistry(t *testing.T) {

	assert := assert.New(t)

	reg := NewBridgeRegistry()

	assert.Nil(reg.Lookup("user1"))

	pid := actor.NewPID("local", "master")
	reg.Register("user1", pid)

	assert.Equal(pid, reg.Lookup("user1"))
	assert.Nil(reg.Lookup("user2"))

	reg.Unregister("user1")
	assert.Nil(reg.Lookup("user1"))
}
