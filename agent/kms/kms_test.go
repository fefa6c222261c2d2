package kms

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/stretchr/testify/require"
)

func openTestWallet(t *testing.T, p *Provider, name string) *Wallet {
	t.Helper()
	k, err := p.OpenKeystore(context.Background(), *ssi.NewWalletCfg(name, "4Vwsj6Qcczmhk2Ak7H5GGvFE1cQCdRtWfW4jchahNUoE"))
	require.NoError(t, err)
	t.Cleanup(func() { k.Close() })
	return k.(*Wallet)
}

func TestProvider_OpenKeystore(t *testing.T) {
	p := New(t.TempDir())
	ctx := context.Background()
	cfg := *ssi.NewWalletCfg("alice", "secret")

	k, err := p.OpenKeystore(ctx, cfg)
	require.NoError(t, err)
	verkey, err := k.CreateKey(ctx, "")
	require.NoError(t, err)
	require.NoError(t, k.Close())

	k, err = p.OpenKeystore(ctx, cfg)
	require.NoError(t, err)
	require.True(t, k.(*Wallet).Has(verkey))
	require.NoError(t, k.Close())

	cfg.Key = "wrong"
	_, err = p.OpenKeystore(ctx, cfg)
	require.ErrorIs(t, err, ssi.ErrProvider)
	require.ErrorIs(t, err, ErrKeyMismatch)

	_, err = p.OpenKeystore(ctx, ssi.Wallet{ID: "no-key"})
	require.ErrorIs(t, err, ssi.ErrProvider)
}

func TestProvider_OpenKeystoreRaw(t *testing.T) {
	p := New(t.TempDir())
	ctx := context.Background()
	key := GenerateRawKey()

	k, err := p.OpenKeystore(ctx, *ssi.NewRawWalletCfg("raw", key))
	require.NoError(t, err)
	require.NoError(t, k.Close())

	_, err = p.OpenKeystore(ctx, *ssi.NewRawWalletCfg("raw", GenerateRawKey()))
	require.ErrorIs(t, err, ErrKeyMismatch)

	_, err = p.OpenKeystore(ctx, *ssi.NewWalletCfg("raw", key))
	require.ErrorIs(t, err, ErrKeyMismatch, "kdf changed")

	_, err = p.OpenKeystore(ctx, *ssi.NewRawWalletCfg("raw2", "not-base58-0OIl"))
	require.ErrorIs(t, err, ssi.ErrProvider)
}

func TestWallet_CreateKeySeed(t *testing.T) {
	w := openTestWallet(t, New(t.TempDir()), "seeded")
	ctx := context.Background()

	const seed = "000000000000000000000000Steward1"
	k1, err := w.CreateKey(ctx, seed)
	require.NoError(t, err)
	k2, err := w.CreateKey(ctx, seed)
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	_, err = w.CreateKey(ctx, "short")
	require.Error(t, err)
}

func TestWallet_SignVerify(t *testing.T) {
	w := openTestWallet(t, New(t.TempDir()), "signer")
	ctx := context.Background()

	verkey, err := w.CreateKey(ctx, "")
	require.NoError(t, err)
	data := []byte("data to sign")
	sig, err := w.Sign(ctx, data, verkey)
	require.NoError(t, err)

	ok, err := w.Verify(ctx, data, sig, verkey)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = w.Verify(ctx, []byte("other"), sig, verkey)
	require.NoError(t, err)
	require.False(t, ok)

	didKey, err := DIDKey(verkey)
	require.NoError(t, err)
	ok, err = w.Verify(ctx, data, sig, didKey)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = w.Sign(ctx, data, "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL")
	require.Error(t, err)
}

func TestPackUnpack(t *testing.T) {
	p := New(t.TempDir())
	ctx := context.Background()
	alice := openTestWallet(t, p, "alice")
	bob := openTestWallet(t, p, "bob")
	eve := openTestWallet(t, p, "eve")

	aliceKey, err := alice.CreateKey(ctx, "")
	require.NoError(t, err)
	bobKey, err := bob.CreateKey(ctx, "")
	require.NoError(t, err)
	_, err = eve.CreateKey(ctx, "")
	require.NoError(t, err)
	bobDIDKey, err := DIDKey(bobKey)
	require.NoError(t, err)

	msg := []byte(`{"@type":"test","content":"hello"}`)
	tests := []struct {
		name   string
		from   string
		to     []string
		sender string
	}{
		{"authcrypt", aliceKey, []string{bobKey}, aliceKey},
		{"anoncrypt", "", []string{bobKey}, ""},
		{"did:key recipient", aliceKey, []string{bobDIDKey}, aliceKey},
		{"many recipients", aliceKey, []string{aliceKey, bobKey}, aliceKey},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packed, err := alice.Pack(ctx, msg, tt.from, tt.to)
			require.NoError(t, err)
			require.NotContains(t, string(packed), "hello")

			got, sender, err := bob.Unpack(ctx, packed)
			require.NoError(t, err)
			require.Equal(t, msg, got)
			require.Equal(t, tt.sender, sender)

			_, _, err = eve.Unpack(ctx, packed)
			require.ErrorIs(t, err, ErrNoRecipient)
		})
	}
}

func TestPack_Errors(t *testing.T) {
	alice := openTestWallet(t, New(t.TempDir()), "alice")
	ctx := context.Background()

	_, err := alice.Pack(ctx, []byte("msg"), "", nil)
	require.Error(t, err)
	_, err = alice.Pack(ctx, []byte("msg"), "", []string{"bad key"})
	require.Error(t, err)
	_, err = alice.Pack(ctx, []byte("msg"), "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL",
		[]string{"GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL"})
	require.ErrorIs(t, err, err2.ErrNotFound, "sender key isn't ours")
	_, _, err = alice.Unpack(ctx, []byte("{not json"))
	require.Error(t, err)
}

func TestWallet_KeysPersist(t *testing.T) {
	p := New(t.TempDir())
	ctx := context.Background()
	cfg := *ssi.NewWalletCfg("persist", "secret")

	k, err := p.OpenKeystore(ctx, cfg)
	require.NoError(t, err)
	verkey, err := k.CreateKey(ctx, "")
	require.NoError(t, err)
	packed, err := k.Pack(ctx, []byte("stored"), verkey, []string{verkey})
	require.NoError(t, err)
	require.NoError(t, k.Close())

	k, err = p.OpenKeystore(ctx, cfg)
	require.NoError(t, err)
	defer k.Close()
	msg, sender, err := k.Unpack(ctx, packed)
	require.NoError(t, err)
	require.Equal(t, "stored", string(msg))
	require.Equal(t, verkey, sender)
}

func TestCheckKey(t *testing.T) {
	const verkey = "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL"
	didKey, err := DIDKey(verkey)
	require.NoError(t, err)

	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"verkey", verkey, false},
		{"did:key", didKey, false},
		{"not base58", "notbase58!!", true},
		{"short", "abc", true},
		{"bad did:key", "did:key:z6Mk", true},
		{"empty", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckKey(tt.key)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	const verkey = "GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL"
	didKey, err := DIDKey(verkey)
	assert.NoError(err)
	assert.That(len(didKey) > len(didKeyPrefix))

	vk, err := VerKey(didKey)
	assert.NoError(err)
	assert.Equal(vk, verkey)

	did, err := DID(verkey)
	assert.NoError(err)
	assert.NotEmpty(did)

	_, err = PublicKey("abc")
	assert.Error(err)
}

func TestOpenPool(t *testing.T) {
	dir := t.TempDir()
	genesis := filepath.Join(dir, "genesis.txn")
	require.NoError(t, os.WriteFile(genesis, []byte(
		`{"txn":{"data":{"alias":"Node1"}},"ver":"1"}`+"\n\n"+
			`{"txn":{"data":{"alias":"Node2"}},"ver":"1"}`+"\n"), 0600))
	empty := filepath.Join(dir, "empty.txn")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0600))
	broken := filepath.Join(dir, "broken.txn")
	require.NoError(t, os.WriteFile(broken, []byte("{txn"), 0600))

	tests := []struct {
		name    string
		cfg     ssi.PoolCfg
		wantErr bool
	}{
		{"ok", ssi.PoolCfg{Name: "von", GenesisFile: genesis}, false},
		{"missing", ssi.PoolCfg{Name: "von", GenesisFile: filepath.Join(dir, "nope")}, true},
		{"empty", ssi.PoolCfg{Name: "von", GenesisFile: empty}, true},
		{"broken", ssi.PoolCfg{Name: "von", GenesisFile: broken}, true},
		{"no name", ssi.PoolCfg{GenesisFile: genesis}, true},
	}
	p := New(dir)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool, err := p.OpenPool(context.Background(), tt.cfg)
			if tt.wantErr {
				require.ErrorIs(t, err, ssi.ErrProvider)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "von", pool.Name())
			require.EqualValues(t, DefaultProtocolVersion, pool.ProtocolVersion())
			require.Len(t, pool.(*Pool).Genesis(), 2)
			require.NoError(t, pool.Close())
		})
	}
}

func TestProvider_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(t.TempDir()).OpenKeystore(ctx, *ssi.NewWalletCfg("x", "y"))
	require.True(t, errors.Is(err, context.Canceled))
}
