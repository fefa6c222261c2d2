/*
Package cmds includes the command implementations of the CLI. The cobra
commands of the cmd package fill the command structs, validate them and call
Exec. Keeping the commands here makes it possible to run them without cobra,
e.g. in tests.
*/
package cmds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/findy-network/findy-agent-core/agent/actx"
	"github.com/findy-network/findy-agent-core/agent/cloud"
	"github.com/findy-network/findy-agent-core/agent/kms"
	"github.com/findy-network/findy-agent-core/agent/record"
	"github.com/findy-network/findy-agent-core/agent/record/boltdb"
	"github.com/findy-network/findy-agent-core/agent/record/memdb"
	"github.com/findy-network/findy-agent-core/agent/record/redisdb"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

var ErrInvalid = errors.New("invalid command, check arguments")

// Record store backends.
const (
	BackendMemory = "memory"
	BackendBolt   = "bolt"
	BackendRedis  = "redis"
)

// StoreCfg selects and configures the record store backend.
type StoreCfg struct {
	Backend       string `mapstructure:"backend"`
	Path          string `mapstructure:"path"`
	RedisAddr     string `mapstructure:"redis-addr"`
	RedisPassword string `mapstructure:"redis-password"`
	RedisDB       int    `mapstructure:"redis-db"`
}

func (s StoreCfg) Validate() error {
	switch s.Backend {
	case "", BackendMemory, BackendBolt:
	case BackendRedis:
		if s.RedisAddr == "" {
			return errors.New("redis address cannot be empty")
		}
	default:
		return fmt.Errorf("%w: unknown store backend %q", ErrInvalid, s.Backend)
	}
	return nil
}

// Open opens the record store. The bolt file is in the wallet directory if
// the path isn't given.
func (s StoreCfg) Open() (_ record.Store, err error) {
	defer err2.Handle(&err, "open record store")

	switch s.Backend {
	case BackendMemory:
		return memdb.New(), nil
	case BackendRedis:
		store := redisdb.New(s.RedisAddr, s.RedisPassword, s.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), utils.Settings.Timeout())
		defer cancel()
		try.To(store.Ping(ctx))
		return store, nil
	}
	path := s.Path
	if path == "" {
		path = filepath.Join(utils.Settings.WalletDir(), "records.bolt")
	}
	return boltdb.Open(path)
}

// Config is the agent configuration shared by all of the commands. It's
// read from the config file, the environment and the flags.
type Config struct {
	WalletDir string             `mapstructure:"wallet-dir"`
	Label     string             `mapstructure:"label"`
	Endpoint  string             `mapstructure:"endpoint"`
	Timeout   time.Duration      `mapstructure:"timeout"`
	Store     StoreCfg           `mapstructure:"store"`
	Tenants   actx.StaticTenants `mapstructure:"tenants"`
}

func (c Config) Validate() error {
	if len(c.Tenants) == 0 {
		return errors.New("no tenants configured")
	}
	for id, t := range c.Tenants {
		if err := t.Wallet.Validate(); err != nil {
			return fmt.Errorf("tenant %q: %w", id, err)
		}
		if t.Pool != nil {
			if err := t.Pool.Validate(); err != nil {
				return fmt.Errorf("tenant %q: %w", id, err)
			}
		}
	}
	return c.Store.Validate()
}

// SetRuntimeSettings writes the configuration to utils.Settings.
func (c Config) SetRuntimeSettings() {
	if c.WalletDir != "" {
		utils.Settings.SetWalletDir(c.WalletDir)
	}
	if c.Timeout > 0 {
		utils.Settings.SetTimeout(c.Timeout)
	}
	if c.Label != "" {
		utils.Settings.SetLabel(c.Label)
	}
}

// Build opens the record store and builds the agent of the configuration.
func (c Config) Build() (a *cloud.Agent, err error) {
	defer err2.Handle(&err, "build agent")

	c.SetRuntimeSettings()
	store := try.To1(c.Store.Open())
	a, err = c.NewAgent(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// NewAgent builds the agent over the opened store. The agent owns the store
// and closes it.
func (c Config) NewAgent(store record.Store) (*cloud.Agent, error) {
	a, err := cloud.NewBuilder().
		WithProvider(kms.New(utils.Settings.WalletDir())).
		WithTenants(c.Tenants).
		WithStore(store).
		WithLabel(c.Label).
		WithEndpoint(c.Endpoint).
		Build()
	if err != nil {
		return nil, err
	}
	glog.V(2).Infof("agent built with %d tenants, store: %s", len(c.Tenants), c.Store.Backend)
	return a, nil
}

// Cmd is the base of the agent commands: the configuration, the tenant the
// command is run for and the output format.
type Cmd struct {
	Config
	Tenant string
	Format string
}

func (c Cmd) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if _, ok := c.Tenants[c.Tenant]; !ok {
		return fmt.Errorf("tenant %q isn't configured", c.Tenant)
	}
	return ValidateFormat(c.Format)
}

// Result is the output of the command.
type Result any

// Command is the executable command of the CLI.
type Command interface {
	Validate() error
	Exec(w io.Writer) (Result, error)
}

// Run builds the agent, resolves the tenant and runs f. The result is
// printed to w.
func (c Cmd) Run(w io.Writer, f func(ctx context.Context, a *cloud.Agent, ac *actx.Context) (Result, error)) (r Result, err error) {
	a, err := c.Build()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			glog.Warningln("close agent:", cerr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*utils.Settings.Timeout())
	defer cancel()
	ac, err := a.Context(ctx, c.Tenant)
	if err != nil {
		return nil, err
	}

	r, err = f(ctx, a, ac)
	// the result is printed even with the error, e.g. the record which
	// stays in its state after the failed dispatch
	if r != nil && w != nil {
		if perr := Print(w, c.Format, r); perr != nil {
			return r, errors.Join(err, perr)
		}
	}
	return r, err
}

// ValidateSeed checks that the seed is empty or has the right length.
func ValidateSeed(seed string) error {
	if seed != "" && len(seed) != 32 {
		return errors.New("seed must be empty or length of 32")
	}
	return nil
}

// ParseAttrs parses the name=value pairs.
func ParseAttrs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: attribute %q isn't name=value", ErrInvalid, p)
		}
		values[name] = value
	}
	return values, nil
}
