package cloud

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/record/memdb"
	"github.com/findy-network/findy-agent-core/agent/service"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/protocol/provisioning"
	"github.com/stretchr/testify/require"
)

// relay is the other end's endpoint. It answers with the status and keeps
// the received payloads.
type relay struct {
	*httptest.Server
	status atomic.Int32

	mu       sync.Mutex
	received [][]byte
}

func newRelay(t *testing.T, status int) *relay {
	r := &relay{}
	r.status.Store(int32(status))
	r.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		if req.Header.Get("Content-Type") != pltype.AgentWireMessage {
			w.WriteHeader(http.StatusUnsupportedMediaType)
			return
		}
		r.mu.Lock()
		r.received = append(r.received, data)
		r.mu.Unlock()
		w.WriteHeader(int(r.status.Load()))
		if r.status.Load() >= 300 {
			fmt.Fprint(w, "bad gateway")
		}
	}))
	t.Cleanup(r.Close)
	return r
}

func (r *relay) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.received)
}

type testAgent struct {
	*Agent
	store *memdb.Store
}

func newAgent(t *testing.T) *testAgent {
	t.Helper()
	store := memdb.New()
	tenants := actx.StaticTenants{
		"alice": {Wallet: *ssi.NewRawWalletCfg("alice", kms.GenerateRawKey())},
		"bob":   {Wallet: *ssi.NewRawWalletCfg("bob", kms.GenerateRawKey())},
	}
	a, err := NewBuilder().
		WithProvider(kms.New(t.TempDir())).
		WithTenants(tenants).
		WithStore(store).
		WithDispatcher(txp.NewDispatcher(txp.NewHTTPTransport(nil))).
		WithLabel("test agent").
		WithEndpoint("http://localhost:8080/a2a").
		Build()
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return &testAgent{Agent: a, store: store}
}

func (a *testAgent) context(t *testing.T, tenant string) *actx.Context {
	t.Helper()
	ac, err := a.Context(context.Background(), tenant)
	require.NoError(t, err)
	return ac
}

// connect stores a Connected connection from the tenant to the relay.
func (a *testAgent) connect(t *testing.T, ac *actx.Context, r *relay) *record.ConnectionRecord {
	t.Helper()
	ctx := context.Background()
	my, err := ac.Wallet.CreateKey(ctx, "")
	require.NoError(t, err)
	their, err := ac.Wallet.CreateKey(ctx, "")
	require.NoError(t, err)

	conn := &record.ConnectionRecord{
		ID:            "conn-" + my[:8],
		State:         record.ConnectionConnected,
		MyVerKey:      my,
		TheirEndpoint: service.Addr{Endp: r.URL, Key: their},
	}
	require.NoError(t, record.Connections(record.Scoped(a.store, ac.TenantID)).Add(ctx, conn))
	return conn
}

func TestBuilder_Missing(t *testing.T) {
	_, err := NewBuilder().Build()
	require.Error(t, err)
	_, err = NewBuilder().WithProvider(kms.New(t.TempDir())).Build()
	require.Error(t, err)
}

func TestAcceptInvitation(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice, bob := a.context(t, "alice"), a.context(t, "bob")

	inv, err := a.Connections.CreateInvitation(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, "test agent", inv.Label)

	r := newRelay(t, http.StatusOK)
	inv.ServiceEndpoint = r.URL
	conn, err := a.Connections.AcceptInvitation(ctx, bob, inv)
	require.NoError(t, err)
	require.Equal(t, record.ConnectionNegotiating, conn.State)
	require.Equal(t, 1, r.count())

	// the inviter can open the request with the invitation key
	msg, sender, err := alice.Wallet.Unpack(ctx, r.received[0])
	require.NoError(t, err)
	require.Equal(t, conn.MyVerKey, sender)
	require.Contains(t, string(msg), pltype.AriesConnectionRequest)

	pending, err := a.Outbox.List(ctx, bob)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestAcceptInvitation_DispatchFails(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice, bob := a.context(t, "alice"), a.context(t, "bob")

	inv, err := a.Connections.CreateInvitation(ctx, alice)
	require.NoError(t, err)
	r := newRelay(t, http.StatusBadGateway)
	inv.ServiceEndpoint = r.URL

	conn, err := a.Connections.AcceptInvitation(ctx, bob, inv)
	var te *txp.TransmissionError
	require.ErrorAs(t, err, &te)
	require.Equal(t, http.StatusBadGateway, te.Status)
	require.Equal(t, "bad gateway", string(te.Body))
	require.NotNil(t, conn)

	stored, err := a.Connections.Get(ctx, bob, conn.ID)
	require.NoError(t, err)
	require.Equal(t, record.ConnectionNegotiating, stored.State)

	pending, err := a.Outbox.ListFor(ctx, bob, conn.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestAcceptInvitation_UnsupportedScheme(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice, bob := a.context(t, "alice"), a.context(t, "bob")

	inv, err := a.Connections.CreateInvitation(ctx, alice)
	require.NoError(t, err)
	inv.ServiceEndpoint = "ftp://example.com/a2a/box"

	conn, err := a.Connections.AcceptInvitation(ctx, bob, inv)
	require.ErrorIs(t, err, txp.ErrUnsupportedScheme)
	require.Equal(t, record.ConnectionNegotiating, conn.State)
}

func TestConnections_ListByState(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice := a.context(t, "alice")
	repo := record.Connections(record.Scoped(a.store, "alice"))

	states := []record.ConnectionState{
		record.ConnectionConnected, record.ConnectionInvited,
		record.ConnectionConnected, record.ConnectionNegotiating,
		record.ConnectionError, record.ConnectionConnected,
	}
	var want []string
	for i, st := range states {
		id := fmt.Sprintf("conn-%d", i)
		require.NoError(t, repo.Add(ctx, &record.ConnectionRecord{ID: id, State: st}))
		if st == record.ConnectionConnected {
			want = append(want, id)
		}
	}

	conns, err := a.Connections.ListByState(ctx, alice, record.ConnectionConnected)
	require.NoError(t, err)
	got := make([]string, len(conns))
	for i, c := range conns {
		require.Equal(t, record.ConnectionConnected, c.State)
		got[i] = c.ID
	}
	require.ElementsMatch(t, want, got)

	all, err := a.Connections.List(ctx, alice, nil, 0)
	require.NoError(t, err)
	require.Len(t, all, len(states))

	two, err := a.Connections.List(ctx, alice, nil, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)

	// tenants are isolated
	bobs, err := a.Connections.List(ctx, a.context(t, "bob"), nil, 0)
	require.NoError(t, err)
	require.Empty(t, bobs)
}

func TestConnections_DefaultLimit(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice := a.context(t, "alice")
	repo := record.Connections(record.Scoped(a.store, "alice"))

	for i := 0; i < 105; i++ {
		require.NoError(t, repo.Add(ctx, &record.ConnectionRecord{
			ID: fmt.Sprintf("conn-%03d", i), State: record.ConnectionConnected,
		}))
	}
	conns, err := a.Connections.List(ctx, alice, nil, 0)
	require.NoError(t, err)
	require.Len(t, conns, 100)

	_, err = a.Connections.Get(ctx, alice, "nobody")
	require.ErrorIs(t, err, record.ErrNotFound)
}

func TestSendOffer_BadGateway(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice := a.context(t, "alice")
	r := newRelay(t, http.StatusBadGateway)
	conn := a.connect(t, alice, r)

	cred, err := a.Credentials.SendOffer(ctx, alice, "defId", conn.ID)
	require.True(t, txp.IsTransmissionError(err))
	require.NotNil(t, cred)

	stored, err := a.Credentials.Get(ctx, alice, cred.ID)
	require.NoError(t, err)
	require.Equal(t, record.CredentialOffered, stored.State)
	require.Equal(t, "defId", stored.CredDefID)
	require.Equal(t, conn.ID, stored.ConnectionID)

	// retry the dispatch only
	pending, err := a.Outbox.ListFor(ctx, alice, cred.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	r.status.Store(http.StatusOK)
	_, err = a.Outbox.Redeliver(ctx, alice, pending[0].ID)
	require.NoError(t, err)
	require.Equal(t, 2, r.count())
	require.Equal(t, r.received[0], r.received[1])

	offered, err := a.Credentials.ListByState(ctx, alice, record.CredentialOffered)
	require.NoError(t, err)
	require.Len(t, offered, 1)
	pending, err = a.Outbox.List(ctx, alice)
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestSendOffer_ConnectionNotFound(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice := a.context(t, "alice")

	_, err := a.Credentials.SendOffer(ctx, alice, "defId", "connId")
	require.ErrorIs(t, err, record.ErrNotFound)

	creds, err := a.Credentials.List(ctx, alice, nil, 0)
	require.NoError(t, err)
	require.Empty(t, creds)
}

func TestCredentials_Flow(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice := a.context(t, "alice")
	r := newRelay(t, http.StatusOK)
	conn := a.connect(t, alice, r)

	cred, err := a.Credentials.SendOfferValues(ctx, alice, "defId", conn.ID, map[string]string{"email": "a@b.c"})
	require.NoError(t, err)
	require.NoError(t, a.Credentials.AcceptOffer(ctx, alice, cred.ID))
	require.ErrorIs(t, a.Credentials.AcceptOffer(ctx, alice, "nope"), record.ErrNotFound)

	// not provisioned yet
	err = a.Credentials.IssueCredential(ctx, alice, cred.ID, nil)
	require.ErrorIs(t, err, record.ErrNotFound)

	prov, err := a.Provisioning.Provision(ctx, alice, provisioning.Config{Label: "issuer"})
	require.NoError(t, err)
	require.NoError(t, a.Credentials.IssueCredential(ctx, alice, cred.ID, nil))
	require.Equal(t, 3, r.count())

	issued, err := a.Credentials.Get(ctx, alice, cred.ID)
	require.NoError(t, err)
	require.Equal(t, record.CredentialIssued, issued.State)
	require.Equal(t, "a@b.c", issued.Attributes["email"])
	require.Contains(t, string(issued.Credential), prov.IssuerDID)

	other, err := a.Credentials.SendOffer(ctx, alice, "defId", conn.ID)
	require.NoError(t, err)
	require.NoError(t, a.Credentials.RejectOffer(ctx, alice, other.ID))
	rejected, err := a.Credentials.ListByState(ctx, alice, record.CredentialRejected)
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	require.Equal(t, other.ID, rejected[0].ID)
}

func TestAgent_RedeliverAll(t *testing.T) {
	a := newAgent(t)
	ctx := context.Background()
	alice, bob := a.context(t, "alice"), a.context(t, "bob")
	r := newRelay(t, http.StatusServiceUnavailable)

	for _, ac := range []*actx.Context{alice, bob} {
		conn := a.connect(t, ac, r)
		_, err := a.Credentials.SendOffer(ctx, ac, "defId", conn.ID)
		require.Error(t, err)
	}

	n, err := a.RedeliverAll(ctx)
	require.Error(t, err)
	require.Equal(t, 0, n)

	r.status.Store(http.StatusAccepted)
	n, err = a.RedeliverAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []string{"alice", "bob"}, a.Tenants())
}
