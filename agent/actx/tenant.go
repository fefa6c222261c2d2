package actx

import (
	"fmt"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/lainio/err2"
)

// TenantConfig is what the context construction needs: the keystore
// configuration with its credentials and the optional ledger pool.
type TenantConfig struct {
	Wallet ssi.Wallet   `json:"wallet" mapstructure:"wallet"`
	Pool   *ssi.PoolCfg `json:"pool,omitempty" mapstructure:"pool"`
}

// TenantSource returns the configuration of the tenant.
type TenantSource interface {
	TenantConfig(tenantID string) (TenantConfig, error)
}

// StaticTenants is the TenantSource of the fixed tenant set, e.g. read from
// the config file.
type StaticTenants map[string]TenantConfig

func (s StaticTenants) TenantConfig(tenantID string) (TenantConfig, error) {
	cfg, ok := s[tenantID]
	if !ok {
		return cfg, fmt.Errorf("tenant %q: %w", tenantID, err2.ErrNotFound)
	}
	return cfg, nil
}

// TenantFunc adapts a function to TenantSource.
type TenantFunc func(tenantID string) (TenantConfig, error)

func (f TenantFunc) TenantConfig(tenantID string) (TenantConfig, error) {
	return f(tenantID)
}
