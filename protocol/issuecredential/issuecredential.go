/*
Package issuecredential is the state-transition service of the issue
credential protocol. The issued credential is a JSON document signed with the
issuer's key.
*/
package issuecredential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/std/decorator"
	"github.com/findy-network/findy-agent-core/std/issuecredential"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

// ErrState is returned when the record isn't in the state the transition
// starts from.
var ErrState = errors.New("invalid credential state")

// OfferResult is the stored Offered record and the offer message.
type OfferResult struct {
	Credential *record.CredentialRecord
	Offer      *issuecredential.Offer
}

// RequestResult is the stored Requested record and the request message.
type RequestResult struct {
	Credential *record.CredentialRecord
	Request    *issuecredential.Request
}

// IssueResult is the stored Issued record and the issue message.
type IssueResult struct {
	Credential *record.CredentialRecord
	Issue      *issuecredential.Issue
}

// Issuer is the identity the credentials are issued and signed with.
type Issuer struct {
	DID    string
	VerKey string
}

// Service is the default credential service.
type Service struct {
	store record.Store
	now   func() time.Time
}

func NewService(store record.Store) *Service {
	assert.INotNil(store)
	return &Service{store: store, now: time.Now}
}

func (s *Service) repo(ac *actx.Context) *record.Repo[*record.CredentialRecord] {
	return record.Credentials(record.Scoped(s.store, ac.TenantID))
}

func checkState(rec *record.CredentialRecord, want ...record.CredentialState) error {
	for _, st := range want {
		if rec.State == st {
			return nil
		}
	}
	return fmt.Errorf("%w: credential %s is %s", ErrState, rec.ID, rec.State)
}

// CreateOffer stores a new credential record in state Offered for the
// connection and builds the offer message. The values are the offered
// attributes, which can be nil.
func (s *Service) CreateOffer(
	ctx context.Context,
	ac *actx.Context,
	conn *record.ConnectionRecord,
	credDefID string,
	values map[string]string,
) (res OfferResult, err error) {
	defer err2.Handle(&err, "create offer")

	assert.NotNil(conn)
	assert.NotEmpty(credDefID)

	id := utils.UUID()
	rec := &record.CredentialRecord{
		ID:           id,
		ConnectionID: conn.ID,
		State:        record.CredentialOffered,
		CredDefID:    credDefID,
		ThreadID:     id,
		Attributes:   values,
	}
	attach := try.To1(json.Marshal(map[string]string{
		"cred_def_id": credDefID,
		"nonce":       utils.NewNonceStr(),
	}))
	offer := &issuecredential.Offer{
		ID:                id,
		Type:              pltype.IssueCredentialOffer,
		CredentialPreview: issuecredential.NewPreview(values),
		OffersAttach:      []decorator.Attachment{decorator.NewAttachment("libindy-cred-offer-0", attach)},
		Thread:            decorator.NewThread(id, ""),
	}

	try.To(s.repo(ac).Add(ctx, rec))
	glog.V(1).Infof("tenant %q: credential %s offered to %s", ac.TenantID, id, conn.ID)

	return OfferResult{Credential: rec, Offer: offer}, nil
}

// AcceptOffer moves the Offered record to Requested and builds the request
// message.
func (s *Service) AcceptOffer(ctx context.Context, ac *actx.Context, rec *record.CredentialRecord) (res RequestResult, err error) {
	defer err2.Handle(&err, "accept offer")

	try.To(checkState(rec, record.CredentialOffered))

	id := utils.UUID()
	attach := try.To1(json.Marshal(map[string]string{
		"cred_def_id": rec.CredDefID,
		"nonce":       utils.NewNonceStr(),
	}))
	req := &issuecredential.Request{
		ID:             id,
		Type:           pltype.IssueCredentialRequest,
		RequestsAttach: []decorator.Attachment{decorator.NewAttachment("libindy-cred-request-0", attach)},
		Thread:         decorator.Reply(&decorator.Thread{ID: rec.ThreadID}, id),
	}

	rec.State = record.CredentialRequested
	try.To(s.repo(ac).Update(ctx, rec))
	glog.V(1).Infof("tenant %q: credential %s requested", ac.TenantID, rec.ID)

	return RequestResult{Credential: rec, Request: req}, nil
}

// Issue signs the credential of the values with the issuer key, stores it to
// the record and moves the record to Issued. The record must be Requested.
func (s *Service) Issue(
	ctx context.Context,
	ac *actx.Context,
	rec *record.CredentialRecord,
	issuer Issuer,
	values map[string]string,
) (res IssueResult, err error) {
	defer err2.Handle(&err, "issue credential")

	try.To(checkState(rec, record.CredentialRequested))
	if issuer.DID == "" || issuer.VerKey == "" {
		return res, errors.New("issuer identity not provisioned")
	}
	if len(values) == 0 {
		values = rec.Attributes
	}

	cred := issuecredential.Credential{
		CredDefID:    rec.CredDefID,
		IssuerDID:    issuer.DID,
		SubjectID:    rec.ConnectionID,
		Values:       values,
		IssuedAt:     s.now().UTC(),
		SignerVerKey: issuer.VerKey,
	}
	cred.Signature = try.To1(ac.Wallet.Sign(ctx, try.To1(cred.SignedData()), issuer.VerKey))
	data := try.To1(json.Marshal(cred))

	id := utils.UUID()
	issue := &issuecredential.Issue{
		ID:                id,
		Type:              pltype.IssueCredentialIssue,
		CredentialsAttach: []decorator.Attachment{decorator.NewAttachment("libindy-cred-0", data)},
		Thread:            decorator.Reply(&decorator.Thread{ID: rec.ThreadID}, id),
	}

	rec.State = record.CredentialIssued
	rec.Attributes = values
	rec.Credential = data
	try.To(s.repo(ac).Update(ctx, rec))
	glog.V(1).Infof("tenant %q: credential %s issued by %s", ac.TenantID, rec.ID, issuer.DID)

	return IssueResult{Credential: rec, Issue: issue}, nil
}

// Reject moves the Offered or Requested record to Rejected. There is no
// message to send.
func (s *Service) Reject(ctx context.Context, ac *actx.Context, rec *record.CredentialRecord) (err error) {
	defer err2.Handle(&err, "reject credential")

	try.To(checkState(rec, record.CredentialOffered, record.CredentialRequested))
	rec.State = record.CredentialRejected
	try.To(s.repo(ac).Update(ctx, rec))
	return nil
}

// Verify checks the signature of the issued credential.
func Verify(ctx context.Context, ac *actx.Context, data []byte) (cred issuecredential.Credential, err error) {
	defer err2.Handle(&err, "verify credential")

	try.To(json.Unmarshal(data, &cred))
	ok := try.To1(ac.Wallet.Verify(ctx, try.To1(cred.SignedData()), cred.Signature, cred.SignerVerKey))
	if !ok {
		return cred, errors.New("invalid credential signature")
	}
	return cred, nil
}

// Get returns the credential or the error wrapping record.ErrNotFound.
func (s *Service) Get(ctx context.Context, ac *actx.Context, id string) (*record.CredentialRecord, error) {
	return s.repo(ac).Get(ctx, id)
}

// List returns the credentials matching the query. The nil query matches
// all.
func (s *Service) List(ctx context.Context, ac *actx.Context, q record.Query, limit int) ([]*record.CredentialRecord, error) {
	return s.repo(ac).List(ctx, q, limit)
}
