package server

import (
	"context"
	"errors"
	"sync"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const tagBox = "Box"

// item is the stored envelope of the mailbox.
type item struct {
	ID      string `json:"id"`
	Box     string `json:"box"`
	Payload []byte `json:"payload"`
	Packed  bool   `json:"packed"`
	record.Timestamps
}

func (i *item) Key() string             { return i.ID }
func (i *item) Type() string            { return pltype.RecordMailbox }
func (i *item) Tags() map[string]string { return map[string]string{tagBox: i.Box} }

// Mailbox keeps the received envelopes in the record store until the owner
// of the box pulls them. Any Store backend works: Redis allows several relay
// processes to share the boxes.
type Mailbox struct {
	repo *record.Repo[*item]

	mu sync.Mutex // serializes the drains of this process
}

func NewMailbox(store record.Store) *Mailbox {
	return &Mailbox{
		repo: record.NewRepo(record.Internal(store, "relay"), func() *item { return new(item) }),
	}
}

// Put adds the envelope to the end of the box.
func (m *Mailbox) Put(ctx context.Context, box string, env txp.Envelope) (err error) {
	defer err2.Handle(&err, "mailbox put")

	try.To(m.repo.Add(ctx, &item{
		ID:      utils.UUID(),
		Box:     box,
		Payload: env.Payload,
		Packed:  env.Packed,
	}))
	return nil
}

// Drain removes and returns the envelopes of the box in the arrival order.
func (m *Mailbox) Drain(ctx context.Context, box string) (envs []txp.Envelope, err error) {
	defer err2.Handle(&err, "mailbox drain")

	m.mu.Lock()
	defer m.mu.Unlock()

	items := try.To1(m.repo.List(ctx, record.Eq(tagBox, box), 0))
	envs = make([]txp.Envelope, 0, len(items))
	for _, it := range items {
		if err := m.repo.Delete(ctx, it.ID); err != nil {
			if errors.Is(err, record.ErrNotFound) {
				continue // drained by another relay
			}
			return nil, err
		}
		envs = append(envs, txp.Envelope{Payload: it.Payload, Packed: it.Packed})
	}
	return envs, nil
}

// Count returns the number of envelopes waiting in the box.
func (m *Mailbox) Count(ctx context.Context, box string) (int, error) {
	items, err := m.repo.List(ctx, record.Eq(tagBox, box), 0)
	return len(items), err
}
