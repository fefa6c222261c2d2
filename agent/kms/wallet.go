package kms

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/golang/glog"
	"github.com/google/tink/go/keyset"
	"github.com/hyperledger/aries-framework-go/pkg/kms"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"github.com/mr-tron/base58"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

var (
	bucketMeta = []byte("meta")
	bucketKeys = []byte("keys")

	keySalt  = []byte("salt")
	keyCheck = []byte("check")
	keyKDF   = []byte("kdf")

	checkValue = []byte("findy-wallet")
)

// ErrKeyMismatch is returned when a wallet is opened with a wrong key.
var ErrKeyMismatch = errors.New("wallet key mismatch")

const (
	saltLen       = 16
	argonTime     = 2
	argonMemory   = 16 * 1024
	argonThreads  = 2
	openTimeout   = 2 * time.Second
	masterKeySize = chacha20poly1305.KeySize
)

// Wallet is an opened wallet file. bbolt serializes the writers so Wallet
// doesn't need its own lock.
type Wallet struct {
	db   *bolt.DB
	id   string
	pckr *packager
}

func openWallet(filename string, cfg ssi.Wallet) (w *Wallet, err error) {
	defer err2.Handle(&err)

	db := try.To1(bolt.Open(filename, 0600, &bolt.Options{Timeout: openTimeout}))
	defer func() {
		if err != nil {
			db.Close()
		}
	}()

	var masterKey []byte
	try.To(db.Update(func(tx *bolt.Tx) (err error) {
		defer err2.Handle(&err)

		meta := try.To1(tx.CreateBucketIfNotExists(bucketMeta))
		try.To1(tx.CreateBucketIfNotExists(bucketKeys))

		salt := meta.Get(keySalt)
		kdf := meta.Get(keyKDF)
		if salt == nil {
			salt = make([]byte, saltLen)
			try.To1(rand.Read(salt))
			try.To(meta.Put(keySalt, salt))
			kdf = []byte(cfg.KDF())
			try.To(meta.Put(keyKDF, kdf))
		}
		if string(kdf) != cfg.KDF() {
			return fmt.Errorf("%w: kdf %s != %s", ErrKeyMismatch, kdf, cfg.KDF())
		}
		masterKey = try.To1(deriveKey(cfg, salt))

		check := meta.Get(keyCheck)
		if check == nil {
			return meta.Put(keyCheck, try.To1(seal(masterKey, checkValue, keyCheck)))
		}
		plain, err := open(masterKey, check, keyCheck)
		if err != nil || !bytes.Equal(plain, checkValue) {
			return ErrKeyMismatch
		}
		return nil
	}))

	pckr := try.To1(newPackager(&keyStore{db: db, key: masterKey}))
	return &Wallet{db: db, id: cfg.ID, pckr: pckr}, nil
}

func deriveKey(cfg ssi.Wallet, salt []byte) ([]byte, error) {
	switch cfg.KDF() {
	case ssi.KDFRaw:
		k, err := base58.Decode(cfg.Key)
		if err != nil {
			return nil, fmt.Errorf("raw wallet key: %w", err)
		}
		if len(k) != masterKeySize {
			return nil, fmt.Errorf("raw wallet key length %d", len(k))
		}
		return k, nil
	default:
		return argon2.Key([]byte(cfg.Key), salt,
			argonTime, argonMemory, argonThreads, masterKeySize), nil
	}
}

// GenerateRawKey returns a new random base58 encoded key for the RAW key
// derivation method.
func GenerateRawKey() string {
	k := make([]byte, masterKeySize)
	try.To1(rand.Read(k))
	return base58.Encode(k)
}

func seal(key, plain, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plain)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plain, ad), nil
}

func open(key, sealed, ad []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < aead.NonceSize() {
		return nil, errors.New("sealed data too short")
	}
	nonce, data := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	return aead.Open(nil, nonce, data, ad)
}

func (w *Wallet) ID() string {
	return w.id
}

// keyStore is the kms.Store of the aries KMS. The keysets are sealed with
// the wallet key and the keyset ID as additional data.
type keyStore struct {
	db  *bolt.DB
	key []byte
}

func (s *keyStore) Put(keysetID string, keyset []byte) error {
	sealed, err := seal(s.key, keyset, []byte(keysetID))
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKeys).Put([]byte(keysetID), sealed)
	})
}

func (s *keyStore) Get(keysetID string) (keyset []byte, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		sealed := tx.Bucket(bucketKeys).Get([]byte(keysetID))
		if sealed == nil {
			return kms.ErrKeyNotFound
		}
		keyset, err = open(s.key, sealed, []byte(keysetID))
		return err
	})
	return keyset, err
}

func (s *keyStore) Delete(keysetID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketKeys).Delete([]byte(keysetID))
	})
}

func (w *Wallet) CreateKey(ctx context.Context, seed string) (verkey string, err error) {
	defer err2.Handle(&err, "create key")

	try.To(ctx.Err())

	var priv ed25519.PrivateKey
	if seed == "" {
		_, priv = try.To2(ed25519.GenerateKey(rand.Reader))
	} else {
		if len(seed) != ed25519.SeedSize {
			return "", fmt.Errorf("seed length must be %d", ed25519.SeedSize)
		}
		priv = ed25519.NewKeyFromSeed([]byte(seed))
	}
	pub := priv.Public().(ed25519.PublicKey)
	verkey = base58.Encode(pub)
	if w.Has(verkey) {
		return verkey, nil
	}

	kid := try.To1(keyID(pub))
	try.To2(w.pckr.km.ImportPrivateKey(priv, kms.ED25519Type, kms.WithKeyID(kid)))
	glog.V(5).Infoln("key created:", verkey)
	return verkey, nil
}

// keyHandle returns the tink keyset handle of the verkey's private key.
// kms.ErrKeyNotFound is returned if the wallet doesn't have the key.
func (w *Wallet) keyHandle(verkey string) (_ *keyset.Handle, err error) {
	defer err2.Handle(&err, "key handle")

	kid := try.To1(keyID(try.To1(PublicKey(verkey))))
	kh, ok := try.To1(w.pckr.km.Get(kid)).(*keyset.Handle)
	if !ok {
		return nil, fmt.Errorf("key %s: not a keyset handle", verkey)
	}
	return kh, nil
}

// Has tells if the wallet holds the private key of the verkey.
func (w *Wallet) Has(verkey string) bool {
	_, err := w.keyHandle(verkey)
	return err == nil
}

func (w *Wallet) Sign(ctx context.Context, data []byte, verkey string) (_ []byte, err error) {
	defer err2.Handle(&err, "sign")

	try.To(ctx.Err())
	kh := try.To1(w.keyHandle(verkey))
	return w.pckr.crypto.Sign(data, kh)
}

func (w *Wallet) Verify(ctx context.Context, data, signature []byte, verkey string) (_ bool, err error) {
	defer err2.Handle(&err, "verify")

	try.To(ctx.Err())
	pub := try.To1(PublicKey(verkey))
	return ed25519.Verify(pub, data, signature), nil
}

func (w *Wallet) Pack(ctx context.Context, msg []byte, fromVerKey string, toKeys []string) (_ []byte, err error) {
	defer err2.Handle(&err, "pack")

	try.To(ctx.Err())
	if fromVerKey != "" && !w.Has(fromVerKey) {
		return nil, fmt.Errorf("sender %s: %w", fromVerKey, err2.ErrNotFound)
	}
	return w.pckr.pack(msg, fromVerKey, toKeys)
}

func (w *Wallet) Unpack(ctx context.Context, packed []byte) (_ []byte, _ string, err error) {
	defer err2.Handle(&err, "unpack")

	try.To(ctx.Err())
	return w.pckr.unpack(packed, w.Has)
}

func (w *Wallet) Close() error {
	glog.V(3).Infoln("closing wallet:", w.id)
	return w.db.Close()
}
