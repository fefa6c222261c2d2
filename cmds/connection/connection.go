// Package connection includes the connection commands of the CLI.
package connection

import (
	"context"
	"errors"
	"io"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/cloud"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/cmds"
	"github.com/findy-network/findy-agent-core/std/didexchange/invitation"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// InvitationCmd creates a new invitation.
type InvitationCmd struct {
	cmds.Cmd
	URL bool // print the invitation as the c_i URL
}

type InvitationResult struct {
	Invitation invitation.Invitation `json:"invitation" yaml:"invitation"`
	URL        string                `json:"url,omitempty" yaml:"url,omitempty"`
}

func (c InvitationCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		r := InvitationResult{Invitation: try.To1(a.Connections.CreateInvitation(ctx, ac))}
		if c.URL {
			r.URL = try.To1(invitation.Build(r.Invitation))
		}
		return r, nil
	})
}

// ConnectCmd accepts the invitation. The invitation is JSON or URL.
type ConnectCmd struct {
	cmds.Cmd
	Invitation string
}

func (c ConnectCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.Invitation == "" {
		return errors.New("invitation cannot be empty")
	}
	return nil
}

func (c ConnectCmd) Exec(w io.Writer) (cmds.Result, error) {
	inv, err := invitation.Translate(c.Invitation)
	if err != nil {
		return nil, err
	}
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (cmds.Result, error) {
		rec, err := a.Connections.AcceptInvitation(ctx, ac, inv)
		if rec == nil {
			return nil, err
		}
		return rec, err
	})
}

// ListCmd lists the connections, optionally only the ones in the state.
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
		if _, err := record.ParseConnectionState(c.State); err != nil {
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
			state := try.To1(record.ParseConnectionState(c.State))
			q = record.Eq(record.TagState, state.String())
		}
		return try.To1(a.Connections.List(ctx, ac, q, c.Limit)), nil
	})
}

// GetCmd shows the connection.
type GetCmd struct {
	cmds.Cmd
	ID string
}

func (c GetCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("connection id cannot be empty")
	}
	return nil
}

func (c GetCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		return try.To1(a.Connections.Get(ctx, ac, c.ID)), nil
	})
}
