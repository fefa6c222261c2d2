// Package credential includes the credential commands of the CLI.
package credential

import (
	"context"
	"errors"
	"io"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/cloud"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/cmds"
	"github.com/findy-network/findy-agent-core/protocol/provisioning"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// OfferCmd offers the credential to the connection.
type OfferCmd struct {
	cmds.Cmd
	CredDefID    string
	ConnectionID string
	Attrs        []string // name=value
}

func (c OfferCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.CredDefID == "" {
		return errors.New("credential definition id cannot be empty")
	}
	if c.ConnectionID == "" {
		return errors.New("connection id cannot be empty")
	}
	_, err := cmds.ParseAttrs(c.Attrs)
	return err
}

func (c OfferCmd) Exec(w io.Writer) (cmds.Result, error) {
	values, err := cmds.ParseAttrs(c.Attrs)
	if err != nil {
		return nil, err
	}
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (cmds.Result, error) {
		rec, err := a.Credentials.SendOfferValues(ctx, ac, c.CredDefID, c.ConnectionID, values)
		if rec == nil {
			return nil, err
		}
		return rec, err
	})
}

// IDCmd is the command which takes the credential ID.
type IDCmd struct {
	cmds.Cmd
	ID string
}

func (c IDCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("credential id cannot be empty")
	}
	return nil
}

// current returns the stored record after the operation even if the
// operation failed after the state transition.
func current(ctx context.Context, a *cloud.Agent, ac *actx.Context, id string, opErr error) (cmds.Result, error) {
	rec, err := a.Credentials.Get(ctx, ac, id)
	if err != nil {
		return nil, errors.Join(opErr, err)
	}
	return rec, opErr
}

// AcceptCmd accepts the credential offer.
type AcceptCmd struct {
	IDCmd
}

func (c AcceptCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (cmds.Result, error) {
		err := a.Credentials.AcceptOffer(ctx, ac, c.ID)
		if errors.Is(err, record.ErrNotFound) {
			return nil, err
		}
		return current(ctx, a, ac, c.ID, err)
	})
}

// IssueCmd issues the requested credential.
type IssueCmd struct {
	IDCmd
	Attrs []string // name=value, the offered values if empty
}

func (c IssueCmd) Exec(w io.Writer) (cmds.Result, error) {
	values, err := cmds.ParseAttrs(c.Attrs)
	if err != nil {
		return nil, err
	}
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (cmds.Result, error) {
		err := a.Credentials.IssueCredential(ctx, ac, c.ID, values)
		if errors.Is(err, record.ErrNotFound) {
			return nil, err
		}
		return current(ctx, a, ac, c.ID, err)
	})
}

// RejectCmd rejects the credential offer.
type RejectCmd struct {
	IDCmd
}

func (c RejectCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		try.To(a.Credentials.RejectOffer(ctx, ac, c.ID))
		return try.To1(a.Credentials.Get(ctx, ac, c.ID)), nil
	})
}

// GetCmd shows the credential.
type GetCmd struct {
	IDCmd
}

func (c GetCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		return try.To1(a.Credentials.Get(ctx, ac, c.ID)), nil
	})
}

// ListCmd lists the credentials, optionally only the ones in the state.
type ListCmd struct {
	cmds.Cmd
	State string
	Limit int
}

func (c ListCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.State != "" {
		if _, err := record.ParseCredentialState(c.State); err != nil {
			return err
		}
	}
	return nil
}

func (c ListCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		var q record.Query
		if c.State != "" {
			state := try.To1(record.ParseCredentialState(c.State))
			q = record.Eq(record.TagState, state.String())
		}
		return try.To1(a.Credentials.List(ctx, ac, q, c.Limit)), nil
	})
}

// ProvisionCmd creates the issuer identity of the tenant.
type ProvisionCmd struct {
	cmds.Cmd
	Seed string
}

func (c ProvisionCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	return cmds.ValidateSeed(c.Seed)
}

func (c ProvisionCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		return try.To1(a.Provisioning.Provision(ctx, ac, provisioning.Config{
			Label:    c.Label,
			Endpoint: c.Endpoint,
			Seed:     c.Seed,
		})), nil
	})
}
