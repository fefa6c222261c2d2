// Package outbox includes the commands of the undelivered messages and the
// pull inbox.
package outbox

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/cloud"
	"github.com/findy-network/findy-agent-core/agent/endp"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/cmds"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// ListCmd lists the undelivered messages, optionally of one record.
type ListCmd struct {
	cmds.Cmd
	RecordID string
}

func (c ListCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (_ cmds.Result, err error) {
		defer err2.Handle(&err)

		return try.To1(a.Outbox.ListFor(ctx, ac, c.RecordID)), nil
	})
}

// RedeliverCmd re-drives one message, or all of them if ID is empty.
type RedeliverCmd struct {
	cmds.Cmd
	ID string
}

type RedeliverResult struct {
	Delivered int `json:"delivered" yaml:"delivered"`
}

func (c RedeliverCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (cmds.Result, error) {
		if c.ID != "" {
			if _, err := a.Outbox.Redeliver(ctx, ac, c.ID); err != nil {
				return nil, err
			}
			return RedeliverResult{Delivered: 1}, nil
		}
		n, err := a.Outbox.RedeliverAll(ctx, ac)
		return RedeliverResult{Delivered: n}, err
	})
}

// DiscardCmd drops the message.
type DiscardCmd struct {
	cmds.Cmd
	ID string
}

func (c DiscardCmd) Validate() error {
	if err := c.Cmd.Validate(); err != nil {
		return err
	}
	if c.ID == "" {
		return errors.New("message id cannot be empty")
	}
	return nil
}

func (c DiscardCmd) Exec(w io.Writer) (cmds.Result, error) {
	return c.Run(w, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (cmds.Result, error) {
		return nil, a.Outbox.Discard(ctx, ac, c.ID)
	})
}

// PullCmd reads the pull inbox of the mailbox. It needs no agent.
type PullCmd struct {
	URL    string // the mailbox endpoint, or the relay base when Box given
	Box    string
	Format string
}

type PullItem struct {
	Message string `json:"message" yaml:"message"`
	Packed  bool   `json:"packed" yaml:"packed"`
}

func (c PullCmd) Validate() error {
	if c.URL == "" {
		return errors.New("inbox url cannot be empty")
	}
	scheme, err := endp.Scheme(c.URL)
	if err != nil {
		return err
	}
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("%w: inbox %q", txp.ErrUnsupportedScheme, scheme)
	}
	return cmds.ValidateFormat(c.Format)
}

func (c PullCmd) Exec(w io.Writer) (r cmds.Result, err error) {
	defer err2.Handle(&err)

	ctx, cancel := context.WithTimeout(context.Background(), utils.Settings.Timeout())
	defer cancel()

	uri := endp.Join(c.URL, c.Box)
	envs := try.To1(txp.NewDefaultDispatcher().Consume(ctx, uri))
	items := make([]PullItem, len(envs))
	for i, env := range envs {
		items[i] = PullItem{Message: utils.EncodeB64(env.Payload), Packed: env.Packed}
	}
	try.To(cmds.Print(w, c.Format, items))
	return items, nil
}
