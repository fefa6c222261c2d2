// Package connection is the state-transition service of the connection
// protocol.
package connection

import (
	"context"
	"fmt"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/endp"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/service"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/std/didexchange"
	"github.com/findy-network/findy-agent-core/std/didexchange/invitation"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

// Config is our side of the connection: the label shown to the other end and
// the base address of our mailboxes. Each new key gets its own mailbox under
// the base address.
type Config struct {
	Label       string
	Endpoint    string
	RoutingKeys []string
}

// AcceptResult is the outcome of the invitation acceptance: the stored
// record and the request to send to the inviter.
type AcceptResult struct {
	Connection *record.ConnectionRecord
	Request    *didexchange.Request
}

// Service is the default connection service.
type Service struct {
	store record.Store
}

func NewService(store record.Store) *Service {
	assert.INotNil(store)
	return &Service{store: store}
}

func (s *Service) repo(ac *actx.Context) *record.Repo[*record.ConnectionRecord] {
	return record.Connections(record.Scoped(s.store, ac.TenantID))
}

// newAddr creates a new key to the wallet and the mailbox endpoint of it.
func newAddr(ctx context.Context, ac *actx.Context, cfg Config) (did string, addr service.Addr, err error) {
	defer err2.Handle(&err, "new address")

	verkey := try.To1(ac.Wallet.CreateKey(ctx, ""))
	did = try.To1(kms.DID(verkey))
	return did, service.Addr{
		Endp:        endp.Join(cfg.Endpoint, did),
		Key:         verkey,
		RoutingKeys: cfg.RoutingKeys,
	}, nil
}

// CreateInvitation mints a new key and its mailbox endpoint for the
// invitation. Nothing is stored: the inviter has no connection before the
// invitee answers.
func (s *Service) CreateInvitation(ctx context.Context, ac *actx.Context, cfg Config) (inv invitation.Invitation, err error) {
	defer err2.Handle(&err, "create invitation")

	_, addr := try.To2(newAddr(ctx, ac, cfg))
	inv = invitation.New(cfg.Label, addr.Endp, []string{addr.Key}, addr.RoutingKeys)
	glog.V(1).Infof("tenant %q: invitation %s created", ac.TenantID, inv.ID)
	return inv, nil
}

// AcceptInvitation stores the new connection in state Negotiating and
// builds the connection request for the inviter.
func (s *Service) AcceptInvitation(ctx context.Context, ac *actx.Context, inv invitation.Invitation, cfg Config) (res AcceptResult, err error) {
	defer err2.Handle(&err, "accept invitation")

	try.To(inv.Validate())
	try.To(checkKeys(inv))

	did, addr := try.To2(newAddr(ctx, ac, cfg))
	rec := &record.ConnectionRecord{
		ID:         utils.UUID(),
		State:      record.ConnectionNegotiating,
		MyDID:      did,
		MyVerKey:   addr.Key,
		TheirLabel: inv.Label,
		TheirEndpoint: service.Addr{
			Endp:        inv.ServiceEndpoint,
			Key:         inv.RecipientKeys[0],
			RoutingKeys: inv.RoutingKeys,
		},
		InvitationID: inv.ID,
	}
	req := didexchange.NewRequest(rec.ID, cfg.Label, inv, &didexchange.Connection{
		DID:    did,
		DIDDoc: didexchange.NewDoc(did, addr),
	})

	try.To(s.repo(ac).Add(ctx, rec))
	glog.V(1).Infof("tenant %q: connection %s negotiating with %s",
		ac.TenantID, rec.ID, inv.ServiceEndpoint)

	return AcceptResult{Connection: rec, Request: req}, nil
}

// checkKeys verifies that every key of the invitation can be packed to.
// A connection whose request cannot be packed would never reach the outbox.
func checkKeys(inv invitation.Invitation) error {
	for _, keys := range [][]string{inv.RecipientKeys, inv.RoutingKeys} {
		for _, key := range keys {
			if err := kms.CheckKey(key); err != nil {
				return fmt.Errorf("%w: %w", invitation.ErrBadKey, err)
			}
		}
	}
	return nil
}

// Get returns the connection or the error wrapping record.ErrNotFound.
func (s *Service) Get(ctx context.Context, ac *actx.Context, id string) (*record.ConnectionRecord, error) {
	return s.repo(ac).Get(ctx, id)
}

// List returns the connections matching the query. The nil query matches
// all.
func (s *Service) List(ctx context.Context, ac *actx.Context, q record.Query, limit int) ([]*record.ConnectionRecord, error) {
	return s.repo(ac).List(ctx, q, limit)
}
