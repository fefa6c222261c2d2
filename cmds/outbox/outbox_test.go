package outbox

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/record/memdb"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/cmds"
	"github.com/findy-network/findy-agent-core/server"
	"github.com/lainio/err2/assert"
)

func TestPullCmd(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	mailbox := server.NewMailbox(memdb.New())
	srv := httptest.NewServer(server.NewHandler("", mailbox, nil))
	defer srv.Close()

	ctx := context.Background()
	assert.NoError(mailbox.Put(ctx, "box1", *txp.NewPacked([]byte("packed"))))
	assert.NoError(mailbox.Put(ctx, "box1", txp.Envelope{Payload: []byte(`{"@type":"x"}`)}))

	c := PullCmd{URL: srv.URL + "/" + server.DefaultServiceName, Box: "box1", Format: cmds.FormatYAML}
	assert.NoError(c.Validate())

	var buf bytes.Buffer
	r, err := c.Exec(&buf)
	assert.NoError(err)
	items := r.([]PullItem)
	assert.Equal(len(items), 2)
	assert.Equal(items[0].Message, utils.EncodeB64([]byte("packed")))
	assert.That(items[0].Packed)
	assert.That(!items[1].Packed)
	assert.NotEmpty(buf.String())

	// the box is drained
	r, err = c.Exec(&buf)
	assert.NoError(err)
	assert.Equal(len(r.([]PullItem)), 0)
}

func TestPullCmd_Validate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	assert.Error(PullCmd{}.Validate())
	assert.Error(PullCmd{URL: "ws://localhost:8080/a2a"}.Validate())
	assert.Error(PullCmd{URL: "http://localhost:8080/a2a", Format: "xml"}.Validate())
	assert.NoError(PullCmd{URL: "http://localhost:8080/a2a"}.Validate())
}

func TestDiscardCmd_Validate(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c := DiscardCmd{Cmd: cmds.Cmd{Config: cmds.Config{
		Store: cmds.StoreCfg{Backend: cmds.BackendMemory},
		Tenants: actx.StaticTenants{
			"": {Wallet: *ssi.NewRawWalletCfg("w", kms.GenerateRawKey())},
		},
	}}}
	assert.Error(c.Validate())
	c.ID = "message-id"
	assert.NoError(c.Validate())
}

func TestRedeliverCmd(t *testing.T) {
	assert.PushTester(t)
	defer assert.PopTester()

	c := RedeliverCmd{Cmd: cmds.Cmd{
		Config: cmds.Config{
			WalletDir: t.TempDir(),
			Endpoint:  "http://localhost:8080/a2a",
			Store:     cmds.StoreCfg{Backend: cmds.BackendMemory},
			Tenants: actx.StaticTenants{
				"": {Wallet: *ssi.NewRawWalletCfg("w", kms.GenerateRawKey())},
			},
		},
	}}
	var buf bytes.Buffer
	r, err := c.Exec(&buf)
	assert.NoError(err)
	assert.Equal(r.(RedeliverResult).Delivered, 0)
	assert.That(strings.Contains(buf.String(), `"delivered":0`))
}
