// Package issuecredential includes the messages of the Aries issue
// credential protocol 1.0. Every message carries the thread decorator which
// binds it to the credential record of both parties.
package issuecredential

import "github.com/findy-network/findy-agent-core/std/decorator"

// Offer is sent by the issuer. The preview lists the offered attribute
// values and the attachment holds the offer data of the cred def.
type Offer struct {
	ID                string                 `json:"@id,omitempty"`
	Type              string                 `json:"@type,omitempty"`
	Comment           string                 `json:"comment,omitempty"`
	CredentialPreview PreviewCredential      `json:"credential_preview,omitempty"`
	OffersAttach      []decorator.Attachment `json:"offers~attach,omitempty"`
	Thread            *decorator.Thread      `json:"~thread,omitempty"`
}

// Request is the holder's answer to the offer.
type Request struct {
	ID             string                 `json:"@id,omitempty"`
	Type           string                 `json:"@type,omitempty"`
	Comment        string                 `json:"comment,omitempty"`
	RequestsAttach []decorator.Attachment `json:"requests~attach,omitempty"`
	Thread         *decorator.Thread      `json:"~thread,omitempty"`
}

// Issue carries the signed credential in its attachment.
type Issue struct {
	ID                string                 `json:"@id,omitempty"`
	Type              string                 `json:"@type,omitempty"`
	Comment           string                 `json:"comment,omitempty"`
	CredentialsAttach []decorator.Attachment `json:"credentials~attach,omitempty"`
	Thread            *decorator.Thread      `json:"~thread,omitempty"`
}

// Ack is sent by the holder after it has stored the credential.
type Ack struct {
	ID     string            `json:"@id,omitempty"`
	Type   string            `json:"@type,omitempty"`
	Status string            `json:"status,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
}

type PreviewCredential struct {
	Type       string      `json:"@type,omitempty"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

type Attribute struct {
	Name     string `json:"name,omitempty"`
	MimeType string `json:"mime-type,omitempty"`
	Value    string `json:"value,omitempty"`
}
