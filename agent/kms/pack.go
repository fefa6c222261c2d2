package kms

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	cryptoapi "github.com/hyperledger/aries-framework-go/pkg/crypto"
	"github.com/hyperledger/aries-framework-go/pkg/crypto/tinkcrypto"
	"github.com/hyperledger/aries-framework-go/pkg/didcomm/packer"
	anoncrypt "github.com/hyperledger/aries-framework-go/pkg/didcomm/packer/legacy/anoncrypt"
	authcrypt "github.com/hyperledger/aries-framework-go/pkg/didcomm/packer/legacy/authcrypt"
	"github.com/hyperledger/aries-framework-go/pkg/doc/util/jwkkid"
	vdrapi "github.com/hyperledger/aries-framework-go/pkg/framework/aries/api/vdr"
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/hyperledger/aries-framework-go/pkg/kms/localkms"
	"github.com/hyperledger/aries-framework-go/pkg/secretlock"
	"github.com/hyperledger/aries-framework-go/pkg/secretlock/noop"
	"github.com/hyperledger/aries-framework-go/spi/storage"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
)

// ErrNoRecipient is returned by Unpack when none of the recipients of the
// message is our key.
var ErrNoRecipient = errors.New("no recipient key found")

const primaryKeyURI = "local-lock://findy/wallet/"

// kmsStorage is the aries KMS provider of the wallet.
type kmsStorage struct {
	store    kms.Store
	noopLock secretlock.Service
}

func (k *kmsStorage) StorageProvider() kms.Store {
	return k.store
}

// SecretLock returns the no-op lock because keyStore seals the keysets
// itself with the wallet key.
func (k *kmsStorage) SecretLock() secretlock.Service {
	return k.noopLock
}

// packager holds the aries KMS and the legacy RFC 0019 packers of one
// wallet. Private keys are stored in the wallet file through keyStore.
type packager struct {
	km     kms.KeyManager
	crypto cryptoapi.Crypto

	auth *authcrypt.Packer
	anon *anoncrypt.Packer
}

func newPackager(store kms.Store) (p *packager, err error) {
	defer err2.Handle(&err, "new packager")

	p = &packager{
		km: try.To1(localkms.New(primaryKeyURI, &kmsStorage{
			store:    store,
			noopLock: &noop.NoLock{},
		})),
		crypto: try.To1(tinkcrypto.New()),
	}
	p.auth = authcrypt.New(p)
	p.anon = anoncrypt.New(p)
	return p, nil
}

func (p *packager) KMS() kms.KeyManager {
	return p.km
}

func (p *packager) Crypto() cryptoapi.Crypto {
	return p.crypto
}

// StorageProvider isn't used by the legacy packers.
func (p *packager) StorageProvider() storage.Provider {
	return nil
}

// VDRegistry isn't used by the legacy packers, recipients are raw keys.
func (p *packager) VDRegistry() vdrapi.Registry {
	return nil
}

// keyID returns the KMS key ID of the ed25519 public key. The legacy packers
// look the keys up with the same ID.
func keyID(pk []byte) (string, error) {
	return jwkkid.CreateKID(pk, kms.ED25519Type)
}

func (p *packager) pack(msg []byte, fromVerKey string, toKeys []string) (_ []byte, err error) {
	defer err2.Handle(&err)

	if len(toKeys) == 0 {
		return nil, errors.New("no recipient keys")
	}
	recipients := make([][]byte, 0, len(toKeys))
	for _, key := range toKeys {
		// packers skip the bad recipients, we don't
		try.To(CheckKey(key))
		recipients = append(recipients, try.To1(PublicKey(key)))
	}
	if fromVerKey == "" {
		return p.anon.Pack("", msg, nil, recipients)
	}
	return p.auth.Pack("", msg, try.To1(PublicKey(fromVerKey)), recipients)
}

// header is the part of the protected envelope header needed to select the
// packer.
type header struct {
	Alg        string `json:"alg"`
	Recipients []struct {
		Header struct {
			KID string `json:"kid"`
		} `json:"header"`
	} `json:"recipients"`
}

func readHeader(packed []byte) (h header, err error) {
	defer err2.Handle(&err, "envelope header")

	var env struct {
		Protected string `json:"protected"`
	}
	try.To(json.Unmarshal(packed, &env))
	try.To(json.Unmarshal(try.To1(base64.URLEncoding.DecodeString(env.Protected)), &h))
	return h, nil
}

func (p *packager) unpack(packed []byte, has func(verkey string) bool) (msg []byte, senderVerKey string, err error) {
	defer err2.Handle(&err)

	hdr := try.To1(readHeader(packed))
	found := false
	for _, r := range hdr.Recipients {
		if has(r.Header.KID) {
			found = true
			break
		}
	}
	if !found {
		return nil, "", ErrNoRecipient
	}

	var unpacker packer.Packer
	switch hdr.Alg {
	case pltype.AlgAuthcrypt:
		unpacker = p.auth
	case pltype.AlgAnoncrypt:
		unpacker = p.anon
	default:
		return nil, "", fmt.Errorf("unsupported alg: %s", hdr.Alg)
	}
	env := try.To1(unpacker.Unpack(packed))
	if len(env.FromKey) > 0 {
		senderVerKey = base58.Encode(env.FromKey)
	}
	return env.Message, senderVerKey, nil
}
