/*
Package ssi defines the contracts the agent core needs from the keystore and
ledger provider. The provider itself is an external capability: this package
only names what is consumed. The agent/kms package offers a local
implementation.
*/
package ssi

import (
	"context"
	"errors"
	"fmt"
)

// ErrProvider classifies keystore and ledger open failures like a bad wallet
// key or a missing genesis file. Callers check it with errors.Is.
var ErrProvider = errors.New("keystore provider")

// ProviderError wraps the underlying error and marks it as ErrProvider.
func ProviderError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrProvider, err)
}

// Keystore is an opened tenant keystore handle. The provider is responsible
// for its internal locking; the core uses it as an opaque capability.
type Keystore interface {
	// CreateKey creates a new ed25519 key pair. The seed can be empty for a
	// random key. It returns the base58 encoded verkey.
	CreateKey(ctx context.Context, seed string) (verkey string, err error)

	// Sign signs the data with the private key of the verkey.
	Sign(ctx context.Context, data []byte, verkey string) ([]byte, error)

	// Verify verifies the signature with the given verkey which can be
	// someone else's.
	Verify(ctx context.Context, data, signature []byte, verkey string) (bool, error)

	// Pack packs the message to the recipient keys. If fromVerKey is empty
	// the message is packed anonymously.
	Pack(ctx context.Context, msg []byte, fromVerKey string, toKeys []string) ([]byte, error)

	// Unpack unpacks the message packed to one of our keys. It returns the
	// sender's verkey which is empty for the anonymous messages.
	Unpack(ctx context.Context, packed []byte) (msg []byte, senderVerKey string, err error)

	Close() error
}

// Pool is an opened ledger pool handle.
type Pool interface {
	Name() string
	ProtocolVersion() uint64
	Close() error
}

// Provider opens tenant keystores and ledger pools.
type Provider interface {
	OpenKeystore(ctx context.Context, cfg Wallet) (Keystore, error)
	OpenPool(ctx context.Context, cfg PoolCfg) (Pool, error)
}

//go:generate mockgen -destination ssimock/provider_mock.go -package ssimock github.com/findy-network/findy-agent-core/agent/ssi Provider
