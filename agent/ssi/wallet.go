package ssi

import (
	"errors"
	"path/filepath"

	"github.com/findy-network/findy-agent-core/agent/utils"
)

// Key derivation methods of the wallet key.
const (
	KDFArgon2i = "ARGON2I_MOD"
	KDFRaw     = "RAW"
)

// Wallet is the tenant's keystore configuration and credentials. They are
// given to the Provider when the keystore is opened.
type Wallet struct {
	ID                  string `json:"id" mapstructure:"id"`
	Key                 string `json:"key" mapstructure:"key"`
	KeyDerivationMethod string `json:"key_derivation_method" mapstructure:"kdf"`
	Path                string `json:"path,omitempty" mapstructure:"path"`
}

func NewWalletCfg(name, key string) *Wallet {
	return &Wallet{
		ID:                  name,
		Key:                 key,
		KeyDerivationMethod: KDFArgon2i,
	}
}

func NewRawWalletCfg(name, key string) *Wallet {
	return &Wallet{
		ID:                  name,
		Key:                 key,
		KeyDerivationMethod: KDFRaw,
	}
}

// Validate checks that the wallet identification is complete.
func (w Wallet) Validate() error {
	if w.ID == "" {
		return errors.New("wallet name cannot be empty")
	}
	if w.Key == "" {
		return errors.New("wallet key cannot be empty")
	}
	switch w.KeyDerivationMethod {
	case "", KDFArgon2i, KDFRaw:
	default:
		return errors.New("unknown key derivation method: " + w.KeyDerivationMethod)
	}
	return nil
}

// KDF returns the key derivation method where the empty means ARGON2I_MOD.
func (w Wallet) KDF() string {
	if w.KeyDerivationMethod == "" {
		return KDFArgon2i
	}
	return w.KeyDerivationMethod
}

// Filename returns the wallet's file path. If Path isn't given the default
// wallet directory is used.
func (w Wallet) Filename() string {
	dir := w.Path
	if dir == "" {
		dir = utils.Settings.WalletDir()
	}
	return filepath.Join(dir, w.ID+".bolt")
}

// PoolCfg is the ledger pool configuration. It's optional for a tenant and
// used only when ledger access is needed.
type PoolCfg struct {
	Name            string `json:"name" mapstructure:"name"`
	GenesisFile     string `json:"genesis_file" mapstructure:"genesis"`
	ProtocolVersion uint64 `json:"protocol_version" mapstructure:"protocol"`
}

func (p PoolCfg) Validate() error {
	if p.Name == "" {
		return errors.New("pool name cannot be empty")
	}
	if p.GenesisFile == "" {
		return errors.New("pool genesis file cannot be empty")
	}
	return nil
}
