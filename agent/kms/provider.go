/*
Package kms is a local keystore and ledger pool provider. Every tenant wallet
is its own bbolt file where private keys are sealed with a key derived from
the wallet credentials. The ledger pool is read from its genesis file only,
consensus isn't part of this package.
*/
package kms

import (
	"context"
	"os"
	"path/filepath"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Provider implements ssi.Provider with local wallet files.
type Provider struct {
	// Dir is the default directory for the wallet files which don't have
	// their own path.
	Dir string
}

// New returns a provider which stores wallets to dir. The empty dir means
// the default wallet directory of the settings.
func New(dir string) *Provider {
	return &Provider{Dir: dir}
}

// OpenKeystore opens the wallet file or creates it at the first time. All of
// the failures are ssi.ErrProvider errors.
func (p *Provider) OpenKeystore(ctx context.Context, cfg ssi.Wallet) (k ssi.Keystore, err error) {
	defer err2.Handle(&err, func(err error) error {
		return ssi.ProviderError("open keystore "+cfg.ID, err)
	})

	try.To(ctx.Err())
	try.To(cfg.Validate())

	if cfg.Path == "" && p.Dir != "" {
		cfg.Path = p.Dir
	}
	filename := cfg.Filename()
	try.To(os.MkdirAll(filepath.Dir(filename), 0700))

	glog.V(3).Infoln("opening wallet:", filename)
	return openWallet(filename, cfg)
}

// OpenPool opens the ledger pool by its genesis file.
func (p *Provider) OpenPool(ctx context.Context, cfg ssi.PoolCfg) (_ ssi.Pool, err error) {
	defer err2.Handle(&err, func(err error) error {
		return ssi.ProviderError("open pool "+cfg.Name, err)
	})

	try.To(ctx.Err())
	return OpenPool(cfg)
}
