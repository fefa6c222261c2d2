package utils

import (
	"crypto/rand"
	"math"
	"math/big"

	"github.com/google/uuid"
)

var maxNonce = big.NewInt(math.MaxInt64)

// NewNonceStr returns a random decimal nonce for the credential offers and
// requests.
func NewNonceStr() string {
	n, err := rand.Int(rand.Reader, maxNonce)
	if err != nil {
		panic("cannot create nonce: " + err.Error())
	}
	return n.String()
}

// UUID returns a new random UUID. All of the record and message IDs are
// UUIDs.
func UUID() string {
	return uuid.New().String()
}
