package registry

import (
	"sync"

	"github.com/asynkron/protoactor-go/actor"
)

// BridgeRegistry maps Lovense user ids to their bridge master actor.
// Callbacks carry the user id, so the HTTP layer uses this to find the
// actor that must process them.
type BridgeRegistry struct {
	mu      sync.RWMutex
	bridges map[string]*actor.PID
}

func NewBridgeRegistry() *BridgeRegistry {
	return &BridgeRegistry{
		bridges: map[string]*actor.PID{},
	}
}

func (r *BridgeRegistry) Register(uid string, pid *actor.PID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bridges[uid] = pid
}

func (r *BridgeRegistry) Unregister(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.bridges, uid)
}

// Lookup returns the master actor for a user id, or nil if unknown.
func (r *BridgeRegistry) Lookup(uid string) *actor.PID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.bridges[uid]
}
