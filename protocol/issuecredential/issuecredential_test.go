package issuecredential

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/record/memdb"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/stretchr/testify/require"
)

func newContext(t *testing.T, tenant string) *actx.Context {
	t.Helper()
	w, err := kms.New(t.TempDir()).OpenKeystore(context.Background(),
		*ssi.NewRawWalletCfg(tenant, kms.GenerateRawKey()))
	require.NoError(t, err)
	t.Cleanup(func() { w.Close() })
	return actx.New(tenant, w, nil)
}

func TestService_Flow(t *testing.T) {
	ctx := context.Background()
	ac := newContext(t, "issuer")
	s := NewService(memdb.New())
	s.now = func() time.Time { return time.Unix(1700000000, 0) }

	conn := &record.ConnectionRecord{ID: "conn-1", State: record.ConnectionConnected}
	offered, err := s.CreateOffer(ctx, ac, conn, "cred-def-1", map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	rec := offered.Credential
	require.Equal(t, record.CredentialOffered, rec.State)
	require.Equal(t, "conn-1", rec.ConnectionID)
	require.Equal(t, pltype.IssueCredentialOffer, offered.Offer.Type)
	require.Equal(t, rec.ThreadID, offered.Offer.Thread.ID)
	require.Equal(t, "a@b.c", offered.Offer.CredentialPreview.Values()["email"])
	require.Len(t, offered.Offer.OffersAttach, 1)

	_, err = s.Issue(ctx, ac, rec, Issuer{DID: "x", VerKey: "y"}, nil)
	require.ErrorIs(t, err, ErrState)

	requested, err := s.AcceptOffer(ctx, ac, rec)
	require.NoError(t, err)
	require.Equal(t, record.CredentialRequested, requested.Credential.State)
	require.Equal(t, rec.ThreadID, requested.Request.Thread.ID)
	require.Equal(t, pltype.IssueCredentialRequest, requested.Request.Type)

	_, err = s.AcceptOffer(ctx, ac, rec)
	require.ErrorIs(t, err, ErrState)

	verkey, err := ac.Wallet.CreateKey(ctx, "")
	require.NoError(t, err)
	did, err := kms.DID(verkey)
	require.NoError(t, err)

	_, err = s.Issue(ctx, ac, rec, Issuer{}, nil)
	require.Error(t, err)

	issued, err := s.Issue(ctx, ac, rec, Issuer{DID: did, VerKey: verkey}, map[string]string{"email": "x@y.z"})
	require.NoError(t, err)
	require.Equal(t, record.CredentialIssued, issued.Credential.State)
	require.Equal(t, pltype.IssueCredentialIssue, issued.Issue.Type)

	stored, err := s.Get(ctx, ac, rec.ID)
	require.NoError(t, err)
	require.Equal(t, record.CredentialIssued, stored.State)
	require.Equal(t, "x@y.z", stored.Attributes["email"])

	cred, err := Verify(ctx, ac, stored.Credential)
	require.NoError(t, err)
	require.Equal(t, did, cred.IssuerDID)
	require.Equal(t, "cred-def-1", cred.CredDefID)

	attached, err := issued.Issue.CredentialsAttach[0].Fetch()
	require.NoError(t, err)
	require.JSONEq(t, string(stored.Credential), string(attached))

	cred.Values["email"] = "evil@y.z"
	tampered, err := json.Marshal(cred)
	require.NoError(t, err)
	_, err = Verify(ctx, ac, tampered)
	require.Error(t, err)
}

func TestService_Reject(t *testing.T) {
	ctx := context.Background()
	ac := newContext(t, "holder")
	s := NewService(memdb.New())

	res, err := s.CreateOffer(ctx, ac, &record.ConnectionRecord{ID: "c"}, "def", nil)
	require.NoError(t, err)
	require.NoError(t, s.Reject(ctx, ac, res.Credential))

	recs, err := s.List(ctx, ac, record.Eq(record.TagState, record.CredentialRejected.String()), 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)

	require.ErrorIs(t, s.Reject(ctx, ac, res.Credential), ErrState)
}
