package cloud

import (
	"context"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/comm"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/protocol/connection"
	"github.com/findy-network/findy-agent-core/protocol/issuecredential"
	"github.com/findy-network/findy-agent-core/protocol/provisioning"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Credentials is the credential orchestrator.
type Credentials struct {
	service      *issuecredential.Service
	connections  *connection.Service
	provisioning *provisioning.Service
	messenger    *comm.Messenger
}

// SendOffer offers the credential of the definition to the connection. The
// Offered record is returned even when the sending fails.
func (c *Credentials) SendOffer(ctx context.Context, ac *actx.Context, credDefID, connectionID string) (*record.CredentialRecord, error) {
	return c.SendOfferValues(ctx, ac, credDefID, connectionID, nil)
}

// SendOfferValues is SendOffer with the offered attribute values.
func (c *Credentials) SendOfferValues(
	ctx context.Context,
	ac *actx.Context,
	credDefID, connectionID string,
	values map[string]string,
) (rec *record.CredentialRecord, err error) {
	conn, err := c.connections.Get(ctx, ac, connectionID)
	if err != nil {
		return nil, err
	}
	res, err := c.service.CreateOffer(ctx, ac, conn, credDefID, values)
	if err != nil {
		return nil, err
	}
	_, err = c.messenger.Send(ctx, ac, comm.Outgoing{
		Msg:    res.Offer,
		Conn:   conn,
		Record: res.Credential,
	})
	return res.Credential, err
}

// load returns the credential and its connection.
func (c *Credentials) load(ctx context.Context, ac *actx.Context, id string) (
	rec *record.CredentialRecord,
	conn *record.ConnectionRecord,
	err error,
) {
	defer err2.Handle(&err)

	rec = try.To1(c.service.Get(ctx, ac, id))
	conn = try.To1(c.connections.Get(ctx, ac, rec.ConnectionID))
	return rec, conn, nil
}

// AcceptOffer moves the credential to Requested and sends the request.
func (c *Credentials) AcceptOffer(ctx context.Context, ac *actx.Context, credentialID string) error {
	rec, conn, err := c.load(ctx, ac, credentialID)
	if err != nil {
		return err
	}
	res, err := c.service.AcceptOffer(ctx, ac, rec)
	if err != nil {
		return err
	}
	_, err = c.messenger.Send(ctx, ac, comm.Outgoing{
		Msg:    res.Request,
		Conn:   conn,
		Record: res.Credential,
	})
	return err
}

// IssueCredential issues the credential with the tenant's issuer identity
// and sends it. The tenant must be provisioned.
func (c *Credentials) IssueCredential(ctx context.Context, ac *actx.Context, credentialID string, values map[string]string) error {
	rec, conn, err := c.load(ctx, ac, credentialID)
	if err != nil {
		return err
	}
	prov, err := c.provisioning.Get(ctx, ac)
	if err != nil {
		return err
	}
	res, err := c.service.Issue(ctx, ac, rec, issuecredential.Issuer{
		DID:    prov.IssuerDID,
		VerKey: prov.IssuerVerKey,
	}, values)
	if err != nil {
		return err
	}
	_, err = c.messenger.Send(ctx, ac, comm.Outgoing{
		Msg:    res.Issue,
		Conn:   conn,
		Record: res.Credential,
	})
	return err
}

// RejectOffer marks the credential Rejected. Nothing is sent.
func (c *Credentials) RejectOffer(ctx context.Context, ac *actx.Context, credentialID string) (err error) {
	defer err2.Handle(&err)

	rec := try.To1(c.service.Get(ctx, ac, credentialID))
	return c.service.Reject(ctx, ac, rec)
}

// Get returns the credential or the error wrapping record.ErrNotFound.
func (c *Credentials) Get(ctx context.Context, ac *actx.Context, id string) (*record.CredentialRecord, error) {
	return c.service.Get(ctx, ac, id)
}

// List returns the credentials matching the query. The nil query matches
// all, and limit <= 0 means the default limit.
func (c *Credentials) List(ctx context.Context, ac *actx.Context, q record.Query, limit int) ([]*record.CredentialRecord, error) {
	return c.service.List(ctx, ac, q, listLimit(limit))
}

// ListByState returns the credentials in the state.
func (c *Credentials) ListByState(ctx context.Context, ac *actx.Context, state record.CredentialState) ([]*record.CredentialRecord, error) {
	return c.List(ctx, ac, record.Eq(record.TagState, state.String()), 0)
}
