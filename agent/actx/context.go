// Package actx is the per-tenant execution context of the agent and its
// resolver.
package actx

import (
	"errors"
	"sync"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/golang/glog"
)

// Context is the tenant's execution context. It owns the opened keystore and
// the optional ledger pool handle. Only the session state and the active
// connection can change after the creation.
type Context struct {
	TenantID string
	Wallet   ssi.Keystore
	Pool     ssi.Pool // nil if the tenant has no pool configured

	mu         sync.RWMutex
	state      map[string]any
	connection string
}

// New returns a new context. The resolver is the normal way to get one.
func New(tenantID string, wallet ssi.Keystore, pool ssi.Pool) *Context {
	return &Context{
		TenantID: tenantID,
		Wallet:   wallet,
		Pool:     pool,
		state:    make(map[string]any),
	}
}

func (c *Context) SetState(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state[key] = value
}

func (c *Context) State(key string) (value any, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok = c.state[key]
	return value, ok
}

func (c *Context) DeleteState(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.state, key)
}

// SetConnection sets the active connection ID of the session.
func (c *Context) SetConnection(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connection = id
}

// Connection returns the active connection ID, or the empty string.
func (c *Context) Connection() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connection
}

// close releases the keystore and the pool.
func (c *Context) close() error {
	glog.V(2).Infoln("closing agent context:", c.TenantID)
	var errs []error
	if c.Pool != nil {
		errs = append(errs, c.Pool.Close())
	}
	if c.Wallet != nil {
		errs = append(errs, c.Wallet.Close())
	}
	return errors.Join(errs...)
}
