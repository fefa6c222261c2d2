package provisioning

import (
	"context"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/record/memdb"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/stretchr/testify/require"
)

func TestService_Provision(t *testing.T) {
	ctx := context.Background()
	p := kms.New(t.TempDir())
	store := memdb.New()
	s := NewService(store)

	open := func(tenant string) *actx.Context {
		w, err := p.OpenKeystore(ctx, *ssi.NewRawWalletCfg(tenant, kms.GenerateRawKey()))
		require.NoError(t, err)
		t.Cleanup(func() { w.Close() })
		return actx.New(tenant, w, nil)
	}
	issuer := open("issuer")
	other := open("other")

	_, err := s.Get(ctx, issuer)
	require.ErrorIs(t, err, record.ErrNotFound)

	const seed = "000000000000000000000000Steward1"
	rec, err := s.Provision(ctx, issuer, Config{Label: "Issuer", Seed: seed})
	require.NoError(t, err)
	require.NotEmpty(t, rec.IssuerDID)
	require.True(t, issuer.Wallet.(*kms.Wallet).Has(rec.IssuerVerKey))

	got, err := s.Get(ctx, issuer)
	require.NoError(t, err)
	require.Equal(t, rec.IssuerDID, got.IssuerDID)
	require.Equal(t, "Issuer", got.Label)

	_, err = s.Provision(ctx, issuer, Config{})
	require.ErrorIs(t, err, ErrProvisioned)

	// the same seed gives the same identity in the other tenant
	rec2, err := s.Provision(ctx, other, Config{Seed: seed})
	require.NoError(t, err)
	require.Equal(t, rec.IssuerVerKey, rec2.IssuerVerKey)
}
