package runtime

import (
	"sync"

	"github.com/google/uuid"
)

// PayloadFactory lazily constructs named per-set mutable state (e.g.
// output stream buffers) on first access.
type PayloadFactory func() interface{}

// Context is the interpreter's execution context: the register file,
// the test-pause flag, and the payload registry keyed by
// (set-name, payload-name), owned for the context's lifetime.
type Context struct {
	Registers *RegisterFile
	RunID     uuid.UUID

	mu        sync.Mutex
	pauseFlag bool
	factories map[payloadKey]PayloadFactory
	payloads  map[payloadKey]interface{}
}

type payloadKey struct {
	set, name string
}

func NewContext() *Context {
	return &Context{
		Registers: NewRegisterFile(),
		RunID:     uuid.New(),
		factories: map[payloadKey]PayloadFactory{},
		payloads:  map[payloadKey]interface{}{},
	}
}

// RegisterPayload records a factory for (set, name); it is not
// invoked until first accessed via Payload.
func (c *Context) RegisterPayload(set, name string, f PayloadFactory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.factories[payloadKey{set, name}] = f
}

// Payload returns the (set, name) payload, instantiating it via its
// registered factory on first access.
func (c *Context) Payload(set, name string) interface{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := payloadKey{set, name}
	if p, ok := c.payloads[k]; ok {
		return p
	}
	f, ok := c.factories[k]
	if !ok {
		return nil
	}
	p := f()
	c.payloads[k] = p
	return p
}

// SetPause sets the "test pause" flag; the interpreter checks this
// flag after every executed command and returns control to the
// caller of More() when it is set.
func (c *Context) SetPause(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseFlag = v
}

func (c *Context) consumePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.pauseFlag
	c.pauseFlag = false
	return v
}
