package didexchange

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"time"
)

// SignatureType is the type of the connection~sig decorator.
const SignatureType = "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec/signature/1.0/ed25519Sha512_single"

// SignedData returns the bytes to sign for the connection: 64-bit big endian
// timestamp followed by the connection JSON.
func SignedData(conn *Connection, ts time.Time) ([]byte, error) {
	data, err := json.Marshal(conn)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8, 8+len(data))
	binary.BigEndian.PutUint64(out, uint64(ts.Unix()))
	return append(out, data...), nil
}

// NewConnectionSignature builds the signature decorator.
func NewConnectionSignature(signedData, signature []byte, verkey string) *ConnectionSignature {
	return &ConnectionSignature{
		Type:       SignatureType,
		Signature:  base64.URLEncoding.EncodeToString(signature),
		SignedData: base64.URLEncoding.EncodeToString(signedData),
		SignVerKey: verkey,
	}
}

// Decode returns the signed data, the signature and the connection carried
// in the signed data.
func (cs *ConnectionSignature) Decode() (signedData, signature []byte, conn *Connection, err error) {
	if cs == nil {
		return nil, nil, nil, errors.New("no connection signature")
	}
	if signedData, err = base64.URLEncoding.DecodeString(cs.SignedData); err != nil {
		return nil, nil, nil, err
	}
	if signature, err = base64.URLEncoding.DecodeString(cs.Signature); err != nil {
		return nil, nil, nil, err
	}
	if len(signedData) < 8 {
		return nil, nil, nil, errors.New("signed data too short")
	}
	conn = new(Connection)
	if err = json.Unmarshal(signedData[8:], conn); err != nil {
		return nil, nil, nil, err
	}
	return signedData, signature, conn, nil
}
