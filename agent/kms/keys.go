package kms

import (
	"crypto/ed25519"
	"fmt"
	"strings"

	"github.com/hyperledger/aries-framework-go/pkg/vdr/fingerprint"
	"github.com/mr-tron/base58"
	"github.com/teserakt-io/golang-ed25519/extra25519"
)

const didKeyPrefix = "did:key:"

// PublicKey decodes the verkey which can be a base58 encoded ed25519 public
// key or a did:key.
func PublicKey(verkey string) (ed25519.PublicKey, error) {
	var (
		pk  []byte
		err error
	)
	if strings.HasPrefix(verkey, didKeyPrefix) {
		pk, err = fingerprint.PubKeyFromDIDKey(verkey)
	} else {
		pk, err = base58.Decode(verkey)
	}
	if err != nil {
		return nil, fmt.Errorf("decode verkey %q: %w", verkey, err)
	}
	if len(pk) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("verkey %q: bad key length %d", verkey, len(pk))
	}
	return pk, nil
}

// VerKey returns the base58 verkey for the key which can be already a verkey
// or a did:key.
func VerKey(key string) (string, error) {
	pk, err := PublicKey(key)
	if err != nil {
		return "", err
	}
	return base58.Encode(pk), nil
}

// DIDKey returns the did:key of the verkey.
func DIDKey(verkey string) (string, error) {
	pk, err := PublicKey(verkey)
	if err != nil {
		return "", err
	}
	didKey, _ := fingerprint.CreateDIDKey(pk)
	return didKey, nil
}

// DID returns the legacy peer DID of the verkey, which is the base58 of its
// first 16 bytes.
func DID(verkey string) (string, error) {
	pk, err := PublicKey(verkey)
	if err != nil {
		return "", err
	}
	return base58.Encode(pk[:16]), nil
}

// CheckKey returns an error if the key isn't a valid ed25519 verkey or
// did:key which can be used as a DIDComm recipient.
func CheckKey(key string) error {
	pk, err := PublicKey(key)
	if err != nil {
		return err
	}
	_, err = curvePublic(pk)
	return err
}

func curvePublic(pk ed25519.PublicKey) (*[32]byte, error) {
	var edPub, curvePub [32]byte
	copy(edPub[:], pk)
	if !extra25519.PublicKeyToCurve25519(&curvePub, &edPub) {
		return nil, fmt.Errorf("verkey %s: not a curve25519 point", base58.Encode(pk))
	}
	return &curvePub, nil
}
