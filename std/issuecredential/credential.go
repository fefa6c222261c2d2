package issuecredential

import (
	"encoding/json"
	"time"
)

// Credential is the issued JSON credential which is delivered in the
// credentials~attach of the Issue message.
type Credential struct {
	CredDefID    string            `json:"cred_def_id"`
	IssuerDID    string            `json:"issuer_did"`
	SubjectID    string            `json:"subject_id,omitempty"`
	Values       map[string]string `json:"values"`
	IssuedAt     time.Time         `json:"issued_at"`
	SignerVerKey string            `json:"signer,omitempty"`
	Signature    []byte            `json:"signature,omitempty"`
}

// SignedData returns the bytes the issuer signs: the credential JSON without
// the signer and the signature.
func (c Credential) SignedData() ([]byte, error) {
	c.SignerVerKey = ""
	c.Signature = nil
	return json.Marshal(c)
}
