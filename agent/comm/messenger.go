/*
Package comm sends the protocol messages to the other end of the connection.
The Messenger packs the message with the secure pipe of the connection,
stores it to the outbox and dispatches it. The outbox entry is removed only
after the successful dispatch, so that the failed deliveries can be re-driven
later without running the protocol step again.
*/
package comm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/sec"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

// ErrNoEndpoint is returned when the connection has no endpoint or
// recipient key to send to.
var ErrNoEndpoint = errors.New("connection has no endpoint")

// Outgoing is the protocol message to send.
type Outgoing struct {
	Msg  any
	Conn *record.ConnectionRecord

	// RecipientKey overrides the key of the connection's endpoint, e.g. the
	// invitation's key before the other end has sent its own.
	RecipientKey string

	// Record is the protocol record the message belongs to. The connection
	// is used if nil.
	Record record.Record
}

// Messenger sends the messages through the dispatcher. The records are
// stored to the tenant's scope of the store.
type Messenger struct {
	dispatcher *txp.Dispatcher
	store      record.Store
}

func NewMessenger(dispatcher *txp.Dispatcher, store record.Store) *Messenger {
	assert.NotNil(dispatcher)
	assert.INotNil(store)

	return &Messenger{dispatcher: dispatcher, store: store}
}

func (m *Messenger) outbox(ac *actx.Context) *record.Repo[*record.OutboxRecord] {
	return record.Outbox(record.Scoped(m.store, ac.TenantID))
}

// SendToConnection sends the message to the connection. The recipientKey
// overrides the connection's key when it isn't empty.
func (m *Messenger) SendToConnection(
	ctx context.Context,
	ac *actx.Context,
	msg any,
	conn *record.ConnectionRecord,
	recipientKey string,
) (*txp.Envelope, error) {
	return m.Send(ctx, ac, Outgoing{Msg: msg, Conn: conn, RecipientKey: recipientKey})
}

// Send packs the message, stores it to the outbox and dispatches it. The
// dispatch error is returned as is, and the message stays in the outbox.
func (m *Messenger) Send(ctx context.Context, ac *actx.Context, out Outgoing) (*txp.Envelope, error) {
	ob, err := m.prepare(ctx, ac, out)
	if err != nil {
		return nil, err
	}
	return m.deliver(ctx, ac, ob)
}

func (m *Messenger) prepare(ctx context.Context, ac *actx.Context, out Outgoing) (ob *record.OutboxRecord, err error) {
	defer err2.Handle(&err, "prepare message")

	assert.NotNil(out.Conn)

	addr := out.Conn.TheirEndpoint
	if out.RecipientKey != "" {
		addr.Key = out.RecipientKey
	}
	if addr.Endp == "" || addr.Key == "" {
		return nil, ErrNoEndpoint
	}

	payload := try.To1(json.Marshal(out.Msg))
	pipe := sec.Pipe{Wallet: ac.Wallet, In: out.Conn.MyVerKey, Out: addr}
	packed, _ := try.To2(pipe.Pack(ctx, payload))

	rec := out.Record
	if rec == nil {
		rec = out.Conn
	}
	ob = &record.OutboxRecord{
		ID:         utils.UUID(),
		RecordType: rec.Type(),
		RecordID:   rec.Key(),
		Endpoint:   addr.Endp,
		Payload:    packed,
	}
	try.To(m.outbox(ac).Add(ctx, ob))
	return ob, nil
}

// deliver dispatches the outbox message. The outbox bookkeeping isn't
// canceled with the ctx.
func (m *Messenger) deliver(ctx context.Context, ac *actx.Context, ob *record.OutboxRecord) (*txp.Envelope, error) {
	outbox := m.outbox(ac)
	bgCtx := context.WithoutCancel(ctx)

	ob.Attempts++
	reply, err := m.dispatcher.Dispatch(ctx, ob.Endpoint, *txp.NewPacked(ob.Payload))
	if err != nil {
		glog.Warningf("deliver %s of %s %s: %v", ob.ID, ob.RecordType, ob.RecordID, err)
		ob.LastError = err.Error()
		if uerr := outbox.Update(bgCtx, ob); uerr != nil {
			glog.Errorln("outbox update:", uerr)
		}
		return nil, err
	}

	if derr := outbox.Delete(bgCtx, ob.ID); derr != nil {
		glog.Errorln("outbox delete:", derr)
	}
	if reply != nil {
		glog.V(3).Infof("reply envelope of %d bytes from %s", len(reply.Payload), ob.Endpoint)
	}
	return reply, nil
}
