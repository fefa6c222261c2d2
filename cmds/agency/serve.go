/*
Package agency includes the command which runs the agent as a service: the
relay endpoint of the tenants' mailboxes, the metrics and the periodic
re-drive of the outboxes.
*/
package agency

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-agent-core/cmds"
	"github.com/findy-network/findy-agent-core/server"
	"github.com/go-co-op/gocron"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/prometheus/client_golang/prometheus"
)

type Cmd struct {
	cmds.Config

	Port        uint
	HostAddr    string
	ServiceName string
	VersionInfo string

	// RedeliverInterval is how often the outboxes are re-driven, zero
	// disables it.
	RedeliverInterval time.Duration
}

func (c *Cmd) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Port == 0 {
		return errors.New("server port cannot be zero")
	}
	if c.RedeliverInterval < 0 {
		return errors.New("redeliver interval cannot be negative")
	}
	return nil
}

func (c *Cmd) Exec(_ io.Writer) (r cmds.Result, err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return nil, c.Run(ctx)
}

// Run serves until the ctx is done.
func (c *Cmd) Run(ctx context.Context) (err error) {
	defer err2.Handle(&err, "serve")

	c.setRuntimeSettings()
	store := try.To1(c.Store.Open())
	a, err := c.NewAgent(store)
	if err != nil {
		_ = store.Close()
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			glog.Warningln("close agent:", cerr)
		}
	}()

	// the outbox re-drive covers only the resolved tenants
	for id := range c.Tenants {
		if _, err := a.Context(ctx, id); err != nil {
			glog.Warningf("tenant %q: %v", id, err)
		}
	}

	reg := prometheus.NewRegistry()
	try.To(txp.RegisterMetrics(reg))
	reg.MustRegister(server.Collectors()...)

	cron := gocron.NewScheduler(time.Now().Location())
	if c.RedeliverInterval > 0 {
		glog.V(1).Infoln("outbox redeliver interval:", c.RedeliverInterval)
		_, err := cron.Every(c.RedeliverInterval).SingletonMode().Do(func() {
			redeliver(ctx, a)
		})
		if err != nil {
			glog.Warningln("outbox redeliver start error:", err)
		}
	}
	cron.StartAsync()
	defer cron.Stop()

	handler := server.NewHandler(c.ServiceName, server.NewMailbox(store), reg)
	return server.Serve(ctx, c.Port, handler)
}

type redeliverer interface {
	RedeliverAll(ctx context.Context) (int, error)
}

func redeliver(ctx context.Context, a redeliverer) {
	ctx, cancel := context.WithTimeout(ctx, 2*utils.Settings.Timeout())
	defer cancel()

	n, err := a.RedeliverAll(ctx)
	if err != nil {
		glog.Warningln("outbox redeliver:", err)
	}
	if n > 0 {
		glog.V(1).Infof("outbox redeliver: %d messages delivered", n)
	}
}

func (c *Cmd) setRuntimeSettings() {
	c.SetRuntimeSettings()
	if c.ServiceName != "" {
		utils.Settings.SetServiceName(c.ServiceName)
	}
	if c.HostAddr != "" {
		utils.Settings.SetHostAddr(c.HostAddr)
	}
	if c.VersionInfo != "" {
		utils.Settings.SetVersionInfo(c.VersionInfo)
	}
}
