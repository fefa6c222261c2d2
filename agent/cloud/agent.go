/*
Package cloud is the entry point of the agent core. Agent is the facade the
bootstrap layer builds once with the Builder and passes down. It resolves the
tenant contexts and offers the Connection and Credential orchestrators, which
run the protocol state transition first and only then dispatch the outbound
message. A failed dispatch doesn't roll back the state: the message stays in
the Outbox for a re-drive.
*/
package cloud

import (
	"context"
	"errors"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/comm"
	"github.com/findy-network/findy-agent-core/agent/endp"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/protocol/connection"
	"github.com/findy-network/findy-agent-core/protocol/issuecredential"
	"github.com/findy-network/findy-agent-core/protocol/provisioning"
	"github.com/golang/glog"
)

// Agent is the multi-tenant agent instance. The tenants' contexts live as
// long as the agent.
type Agent struct {
	resolver  *actx.Resolver
	store     record.Store
	messenger *comm.Messenger

	Connections  *Connections
	Credentials  *Credentials
	Outbox       *Outbox
	Provisioning *provisioning.Service
}

// Builder collects the collaborators of the Agent. The keystore provider,
// the tenant source and the record store are required.
type Builder struct {
	provider   ssi.Provider
	tenants    actx.TenantSource
	store      record.Store
	dispatcher *txp.Dispatcher
	cfg        connection.Config
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) WithProvider(p ssi.Provider) *Builder {
	b.provider = p
	return b
}

func (b *Builder) WithTenants(t actx.TenantSource) *Builder {
	b.tenants = t
	return b
}

func (b *Builder) WithStore(s record.Store) *Builder {
	b.store = s
	return b
}

// WithDispatcher sets the transport dispatcher. The default has HTTP and
// WebSocket transports.
func (b *Builder) WithDispatcher(d *txp.Dispatcher) *Builder {
	b.dispatcher = d
	return b
}

// WithLabel sets the label of our invitations and requests.
func (b *Builder) WithLabel(label string) *Builder {
	b.cfg.Label = label
	return b
}

// WithEndpoint sets the base address of our mailboxes, e.g.
// https://agent.example.com/a2a.
func (b *Builder) WithEndpoint(endpoint string, routingKeys ...string) *Builder {
	b.cfg.Endpoint = endpoint
	b.cfg.RoutingKeys = routingKeys
	return b
}

func (b *Builder) Build() (*Agent, error) {
	switch {
	case b.provider == nil:
		return nil, errors.New("agent builder: keystore provider missing")
	case b.tenants == nil:
		return nil, errors.New("agent builder: tenant source missing")
	case b.store == nil:
		return nil, errors.New("agent builder: record store missing")
	}
	if b.dispatcher == nil {
		b.dispatcher = txp.NewDefaultDispatcher()
	}
	cfg := b.cfg
	if cfg.Label == "" {
		cfg.Label = utils.Settings.Label()
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = endp.Join(utils.Settings.HostAddr(), utils.Settings.ServiceName())
	}

	messenger := comm.NewMessenger(b.dispatcher, b.store)
	connections := &Connections{
		service:   connection.NewService(b.store),
		messenger: messenger,
		cfg:       cfg,
	}
	provisionings := provisioning.NewService(b.store)
	a := &Agent{
		resolver:     actx.NewResolver(b.provider, b.tenants),
		store:        b.store,
		messenger:    messenger,
		Connections:  connections,
		Provisioning: provisionings,
		Credentials: &Credentials{
			service:      issuecredential.NewService(b.store),
			connections:  connections.service,
			provisioning: provisionings,
			messenger:    messenger,
		},
		Outbox: &Outbox{messenger: messenger},
	}
	glog.V(1).Infof("agent built, endpoint: %s", cfg.Endpoint)
	return a, nil
}

// Context resolves the tenant's context. The empty tenantID is the default
// tenant.
func (a *Agent) Context(ctx context.Context, tenantID string) (*actx.Context, error) {
	return a.resolver.Resolve(ctx, tenantID)
}

// Tenants returns the IDs of the tenants resolved so far.
func (a *Agent) Tenants() []string {
	return a.resolver.Tenants()
}

// RedeliverAll re-drives the outboxes of every resolved tenant once.
func (a *Agent) RedeliverAll(ctx context.Context) (delivered int, err error) {
	var errs []error
	for _, tenantID := range a.resolver.Tenants() {
		ac, err := a.resolver.Resolve(ctx, tenantID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		n, err := a.Outbox.RedeliverAll(ctx, ac)
		delivered += n
		errs = append(errs, err)
	}
	return delivered, errors.Join(errs...)
}

// Close disposes the tenant contexts and closes the record store.
func (a *Agent) Close() error {
	return errors.Join(a.resolver.Close(), a.store.Close())
}

func listLimit(limit int) int {
	if limit <= 0 {
		return utils.Settings.ListLimit()
	}
	return limit
}
