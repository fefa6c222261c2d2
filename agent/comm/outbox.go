package comm

import (
	"context"
	"errors"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Pending returns the undelivered messages of the tenant, optionally only
// the ones of the record.
func (m *Messenger) Pending(ctx context.Context, ac *actx.Context, recordID string) (obs []*record.OutboxRecord, err error) {
	defer err2.Handle(&err, "pending messages")

	var q record.Query
	if recordID != "" {
		q = record.Eq(record.TagRecordID, recordID)
	}
	return m.outbox(ac).List(ctx, q, 0)
}

// Redeliver dispatches the outbox message again. The error of the dispatch
// is returned as is.
func (m *Messenger) Redeliver(ctx context.Context, ac *actx.Context, id string) (*txp.Envelope, error) {
	ob, err := m.outbox(ac).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return m.deliver(ctx, ac, ob)
}

// RedeliverAll tries to deliver every pending message once. It returns the
// count of delivered messages and all of the errors joined.
func (m *Messenger) RedeliverAll(ctx context.Context, ac *actx.Context) (delivered int, err error) {
	obs, err := m.Pending(ctx, ac, "")
	if err != nil {
		return 0, err
	}

	var errs []error
	for _, ob := range obs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := m.deliver(ctx, ac, ob); err != nil {
			errs = append(errs, err)
			continue
		}
		delivered++
	}
	glog.V(2).Infof("tenant %q: redelivered %d/%d", ac.TenantID, delivered, len(obs))
	return delivered, errors.Join(errs...)
}

// Discard removes the message from the outbox without delivering it.
func (m *Messenger) Discard(ctx context.Context, ac *actx.Context, id string) (err error) {
	defer err2.Handle(&err, "discard")

	try.To(m.outbox(ac).Delete(ctx, id))
	return nil
}
