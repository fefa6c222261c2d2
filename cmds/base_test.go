package cmds

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/cloud"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/stretchr/testify/require"
)

func testCmd(t *testing.T) Cmd {
	t.Helper()
	return Cmd{
		Config: Config{
			WalletDir: t.TempDir(),
			Label:     "tester",
			Endpoint:  "http://localhost:8080/a2a",
			Store:     StoreCfg{Backend: BackendMemory},
			Tenants: actx.StaticTenants{
				"acme": {Wallet: *ssi.NewRawWalletCfg("acme", kms.GenerateRawKey())},
			},
		},
		Tenant: "acme",
		Format: FormatYAML,
	}
}

func TestParseAttrs(t *testing.T) {
	values, err := ParseAttrs([]string{"email=alice@example.com", "note=a=b", "empty="})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"email": "alice@example.com",
		"note":  "a=b",
		"empty": "",
	}, values)

	values, err = ParseAttrs(nil)
	require.NoError(t, err)
	require.Nil(t, values)

	_, err = ParseAttrs([]string{"email"})
	require.ErrorIs(t, err, ErrInvalid)
	_, err = ParseAttrs([]string{"=value"})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestValidateSeed(t *testing.T) {
	require.NoError(t, ValidateSeed(""))
	require.NoError(t, ValidateSeed("00000000000000000000thisisa_test"))
	require.Error(t, ValidateSeed("short"))
}

func TestPrint(t *testing.T) {
	v := struct {
		ID    string `json:"id" yaml:"id"`
		Count int    `json:"count" yaml:"count"`
	}{ID: "1", Count: 2}

	var buf bytes.Buffer
	require.NoError(t, Print(&buf, FormatYAML, v))
	require.Equal(t, "id: \"1\"\ncount: 2\n", buf.String())

	buf.Reset()
	require.NoError(t, Print(&buf, "", v))
	require.JSONEq(t, `{"id":"1","count":2}`, strings.TrimSpace(buf.String()))

	require.NoError(t, ValidateFormat(FormatJSON))
	require.ErrorIs(t, ValidateFormat("xml"), ErrInvalid)
}

func TestConfig_Validate(t *testing.T) {
	c := testCmd(t)
	require.NoError(t, c.Validate())

	tests := []struct {
		name string
		edit func(c *Cmd)
	}{
		{"no tenants", func(c *Cmd) { c.Tenants = nil }},
		{"unknown tenant", func(c *Cmd) { c.Tenant = "other" }},
		{"wallet key", func(c *Cmd) {
			c.Tenants = actx.StaticTenants{"acme": {Wallet: ssi.Wallet{ID: "acme"}}}
		}},
		{"pool", func(c *Cmd) {
			c.Tenants = actx.StaticTenants{"acme": {
				Wallet: c.Tenants["acme"].Wallet,
				Pool:   &ssi.PoolCfg{},
			}}
		}},
		{"store backend", func(c *Cmd) { c.Store.Backend = "mongo" }},
		{"redis addr", func(c *Cmd) { c.Store.Backend = BackendRedis }},
		{"format", func(c *Cmd) { c.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCmd(t)
			tt.edit(&c)
			require.Error(t, c.Validate())
		})
	}
}

func TestCmd_Run(t *testing.T) {
	c := testCmd(t)
	var buf bytes.Buffer

	r, err := c.Run(&buf, func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (Result, error) {
		require.Equal(t, "acme", ac.TenantID)
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, r)
	require.Equal(t, "- a\n- b\n", buf.String())

	// the result is printed with the error
	buf.Reset()
	errOp := errors.New("operation")
	_, err = c.Run(&buf, func(context.Context, *cloud.Agent, *actx.Context) (Result, error) {
		return map[string]string{"state": "Negotiating"}, errOp
	})
	require.ErrorIs(t, err, errOp)
	require.Equal(t, "state: Negotiating\n", buf.String())

	buf.Reset()
	_, err = c.Run(&buf, func(context.Context, *cloud.Agent, *actx.Context) (Result, error) {
		return nil, errOp
	})
	require.ErrorIs(t, err, errOp)
	require.Empty(t, buf.String())
}

func TestStoreCfg_OpenBolt(t *testing.T) {
	c := testCmd(t)
	c.Store = StoreCfg{Backend: BackendBolt}
	c.SetRuntimeSettings()

	store, err := c.Store.Open()
	require.NoError(t, err)
	require.NoError(t, store.Close())
}
