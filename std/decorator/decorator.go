/*
Package decorator includes the Aries message decorators the agent uses. Taken
from aries-framework-go and heavily modified: only the fields we need are
kept.
*/
package decorator

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// Thread thread data
type Thread struct {
	ID             string         `json:"thid,omitempty"`
	PID            string         `json:"pthid,omitempty"`
	SenderOrder    int            `json:"sender_order,omitempty"`
	ReceivedOrders map[string]int `json:"received_orders,omitempty"`
}

// Attachment is intended to provide the possibility to include files, links
// or even JSON payload to the message.
// https://github.com/hyperledger/aries-rfcs/tree/master/concepts/0017-attachments
type Attachment struct {
	ID          string         `json:"@id,omitempty"`
	Description string         `json:"description,omitempty"`
	FileName    string         `json:"filename,omitempty"`
	MimeType    string         `json:"mime-type,omitempty"`
	Data        AttachmentData `json:"data,omitempty"`
}

// AttachmentData contains attachment payload.
type AttachmentData struct {
	Sha256 string          `json:"sha256,omitempty"`
	Base64 string          `json:"base64,omitempty"`
	JSON   json.RawMessage `json:"json,omitempty"`
}

const MimeTypeJSON = "application/json"

// NewAttachment returns a base64 attachment of the JSON data.
func NewAttachment(id string, data []byte) Attachment {
	return Attachment{
		ID:       id,
		MimeType: MimeTypeJSON,
		Data: AttachmentData{
			Base64: base64.StdEncoding.EncodeToString(data),
		},
	}
}

// Fetch returns the attached data from the base64 or from the JSON.
func (a Attachment) Fetch() ([]byte, error) {
	switch {
	case a.Data.Base64 != "":
		return base64.StdEncoding.DecodeString(a.Data.Base64)
	case len(a.Data.JSON) > 0:
		return a.Data.JSON, nil
	}
	return nil, errors.New("attachment has no data")
}
