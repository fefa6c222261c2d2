package cloud

import (
	"context"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/comm"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/txp"
)

// Outbox re-drives the messages whose dispatch failed. It's caller driven:
// the orchestrators never retry by themselves.
type Outbox struct {
	messenger *comm.Messenger
}

// List returns the undelivered messages of the tenant.
func (o *Outbox) List(ctx context.Context, ac *actx.Context) ([]*record.OutboxRecord, error) {
	return o.messenger.Pending(ctx, ac, "")
}

// ListFor returns the undelivered messages of the connection or credential.
func (o *Outbox) ListFor(ctx context.Context, ac *actx.Context, recordID string) ([]*record.OutboxRecord, error) {
	return o.messenger.Pending(ctx, ac, recordID)
}

// Redeliver dispatches the message again without running the protocol step.
func (o *Outbox) Redeliver(ctx context.Context, ac *actx.Context, id string) (*txp.Envelope, error) {
	return o.messenger.Redeliver(ctx, ac, id)
}

// RedeliverAll tries every pending message of the tenant once.
func (o *Outbox) RedeliverAll(ctx context.Context, ac *actx.Context) (int, error) {
	return o.messenger.RedeliverAll(ctx, ac)
}

// Discard drops the message.
func (o *Outbox) Discard(ctx context.Context, ac *actx.Context, id string) error {
	return o.messenger.Discard(ctx, ac, id)
}
