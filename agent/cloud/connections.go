package cloud

import (
	"context"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/comm"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/protocol/connection"
	"github.com/findy-network/findy-agent-core/std/didexchange/invitation"
	"github.com/golang/glog"
)

// Connections is the connection orchestrator.
type Connections struct {
	service   *connection.Service
	messenger *comm.Messenger
	cfg       connection.Config
}

// CreateInvitation returns a new invitation of a fresh key and mailbox.
// Nothing is stored or sent.
func (c *Connections) CreateInvitation(ctx context.Context, ac *actx.Context) (invitation.Invitation, error) {
	return c.service.CreateInvitation(ctx, ac, c.cfg)
}

// AcceptInvitation stores the new connection in state Negotiating and then
// sends the connection request to the inviter. The record is returned even
// when the sending fails. The connection reaches Connected when the
// inviter's response is processed.
func (c *Connections) AcceptInvitation(ctx context.Context, ac *actx.Context, inv invitation.Invitation) (*record.ConnectionRecord, error) {
	res, err := c.service.AcceptInvitation(ctx, ac, inv, c.cfg)
	if err != nil {
		return nil, err
	}

	_, err = c.messenger.Send(ctx, ac, comm.Outgoing{
		Msg:          res.Request,
		Conn:         res.Connection,
		RecipientKey: inv.RecipientKeys[0],
	})
	if err != nil {
		glog.Warningf("connection %s stays %s: %v", res.Connection.ID, res.Connection.State, err)
	}
	return res.Connection, err
}

// Get returns the connection or the error wrapping record.ErrNotFound.
func (c *Connections) Get(ctx context.Context, ac *actx.Context, id string) (*record.ConnectionRecord, error) {
	return c.service.Get(ctx, ac, id)
}

// List returns the connections matching the query. The nil query matches
// all, and limit <= 0 means the default limit.
func (c *Connections) List(ctx context.Context, ac *actx.Context, q record.Query, limit int) ([]*record.ConnectionRecord, error) {
	return c.service.List(ctx, ac, q, listLimit(limit))
}

// ListByState returns the connections in the state.
func (c *Connections) ListByState(ctx context.Context, ac *actx.Context, state record.ConnectionState) ([]*record.ConnectionRecord, error) {
	return c.List(ctx, ac, record.Eq(record.TagState, state.String()), 0)
}
