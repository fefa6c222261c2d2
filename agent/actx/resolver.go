package actx

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned by Resolve after the resolver is closed.
var ErrClosed = errors.New("agent context resolver closed")

// Resolver resolves exactly one Context per tenant for its lifetime.
// Concurrent resolves of the same tenant share one keystore open. Failures
// aren't cached: the next resolve tries again.
type Resolver struct {
	provider ssi.Provider
	tenants  TenantSource

	group singleflight.Group

	mu       sync.Mutex
	contexts map[string]*Context
	closed   bool
}

func NewResolver(provider ssi.Provider, tenants TenantSource) *Resolver {
	return &Resolver{
		provider: provider,
		tenants:  tenants,
		contexts: make(map[string]*Context),
	}
}

func (r *Resolver) cached(tenantID string) (*Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	return r.contexts[tenantID], nil
}

// Resolve returns the context of the tenant. The empty tenantID is the
// default tenant. The open isn't canceled when ctx is: the caller only stops
// waiting and the other waiters still get the result.
func (r *Resolver) Resolve(ctx context.Context, tenantID string) (c *Context, err error) {
	c, err = r.cached(tenantID)
	if c != nil || err != nil {
		return c, err
	}

	ch := r.group.DoChan(tenantID, func() (any, error) {
		return r.open(context.WithoutCancel(ctx), tenantID)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Context), nil
	}
}

func (r *Resolver) open(ctx context.Context, tenantID string) (c *Context, err error) {
	defer err2.Handle(&err, func(err error) error {
		if errors.Is(err, ssi.ErrProvider) || errors.Is(err, ErrClosed) {
			return err
		}
		return ssi.ProviderError("resolve tenant "+tenantID, err)
	})

	// an earlier flight may have finished between the cache check and this
	if c = try.To1(r.cached(tenantID)); c != nil {
		return c, nil
	}

	cfg := try.To1(r.tenants.TenantConfig(tenantID))
	glog.V(1).Infoln("opening agent context:", tenantID)

	wallet := try.To1(r.provider.OpenKeystore(ctx, cfg.Wallet))
	var pool ssi.Pool
	if cfg.Pool != nil {
		pool, err = r.provider.OpenPool(ctx, *cfg.Pool)
		if err != nil {
			_ = wallet.Close()
			return nil, err
		}
	}
	c = New(tenantID, wallet, pool)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		_ = c.close()
		return nil, ErrClosed
	}
	r.contexts[tenantID] = c
	return c, nil
}

// Tenants returns the IDs of the resolved tenants in sorted order.
func (r *Resolver) Tenants() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.contexts))
	for id := range r.contexts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close disposes all of the contexts. Resolve fails with ErrClosed after it.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var errs []error
	for _, c := range r.contexts {
		errs = append(errs, c.close())
	}
	r.contexts = nil
	return errors.Join(errs...)
}
