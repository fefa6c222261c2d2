// Taken from aries-framework-go, and heavily modified. The idea is to replace
// these with the aries-framework-go when it's ready. Until now we use our own
// minimalistic solution.

// Package didexchange is currently used for connection protocol implementation
package didexchange

import (
	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/service"
	"github.com/findy-network/findy-agent-core/std/decorator"
	"github.com/findy-network/findy-agent-core/std/didexchange/invitation"
)

const (
	didContext      = "https://w3id.org/did/v1"
	keyTypeEd25519  = "Ed25519VerificationKey2018"
	serviceTypeIndy = "IndyAgent"
)

// Request defines a2a DID exchange request
// https://github.com/hyperledger/aries-rfcs/tree/master/features/0160-connection-protocol#1-connection-request
type Request struct {
	Type       string            `json:"@type,omitempty"`
	ID         string            `json:"@id,omitempty"`
	Label      string            `json:"label,omitempty"`
	Connection *Connection       `json:"connection,omitempty"`
	Thread     *decorator.Thread `json:"~thread,omitempty"`
}

// Response defines a2a DID exchange response
// https://github.com/hyperledger/aries-rfcs/tree/master/features/0160-connection-protocol#2-connection-response
type Response struct {
	Type                string               `json:"@type,omitempty"`
	ID                  string               `json:"@id,omitempty"`
	ConnectionSignature *ConnectionSignature `json:"connection~sig,omitempty"`
	Thread              *decorator.Thread    `json:"~thread,omitempty"`

	Connection *Connection `json:"-"` // Actual data, to be signed or verified
}

// ConnectionSignature connection signature
type ConnectionSignature struct {
	Type       string `json:"@type,omitempty"`
	Signature  string `json:"signature,omitempty"`
	SignedData string `json:"sig_data,omitempty"`
	SignVerKey string `json:"signer,omitempty"`
}

// Connection is a connection definition
type Connection struct {
	DID    string `json:"DID,omitempty"`
	DIDDoc *Doc   `json:"DIDDoc,omitempty"`
}

// Doc is the minimal DID document the connection protocol exchanges.
type Doc struct {
	Context        string           `json:"@context,omitempty"`
	ID             string           `json:"id,omitempty"`
	PublicKey      []PublicKey      `json:"publicKey,omitempty"`
	Authentication []Authentication `json:"authentication,omitempty"`
	Service        []Service        `json:"service,omitempty"`
}

type PublicKey struct {
	ID              string `json:"id,omitempty"`
	Type            string `json:"type,omitempty"`
	Controller      string `json:"controller,omitempty"`
	PublicKeyBase58 string `json:"publicKeyBase58,omitempty"`
}

type Authentication struct {
	Type      string `json:"type,omitempty"`
	PublicKey string `json:"publicKey,omitempty"`
}

type Service struct {
	ID              string   `json:"id,omitempty"`
	Type            string   `json:"type,omitempty"`
	Priority        int      `json:"priority,omitempty"`
	RecipientKeys   []string `json:"recipientKeys,omitempty"`
	RoutingKeys     []string `json:"routingKeys,omitempty"`
	ServiceEndpoint string   `json:"serviceEndpoint,omitempty"`
}

// NewDoc builds the DID document for the DID, its verkey and the endpoint.
func NewDoc(did string, addr service.Addr) *Doc {
	keyID := did + "#1"
	return &Doc{
		Context: didContext,
		ID:      did,
		PublicKey: []PublicKey{{
			ID:              keyID,
			Type:            keyTypeEd25519,
			Controller:      did,
			PublicKeyBase58: addr.Key,
		}},
		Authentication: []Authentication{{
			Type:      keyTypeEd25519,
			PublicKey: keyID,
		}},
		Service: []Service{{
			ID:              did + ";indy",
			Type:            serviceTypeIndy,
			RecipientKeys:   []string{addr.Key},
			RoutingKeys:     addr.RoutingKeys,
			ServiceEndpoint: addr.Endp,
		}},
	}
}

// Addr returns the endpoint address of the first service of the document.
func (d *Doc) Addr() (addr service.Addr, ok bool) {
	if d == nil || len(d.Service) == 0 {
		return addr, false
	}
	s := d.Service[0]
	addr.Endp = s.ServiceEndpoint
	addr.RoutingKeys = s.RoutingKeys
	if len(s.RecipientKeys) > 0 {
		addr.Key = s.RecipientKeys[0]
	} else if len(d.PublicKey) > 0 {
		addr.Key = d.PublicKey[0].PublicKeyBase58
	}
	return addr, addr.Endp != "" && addr.Key != ""
}

// NewRequest builds the connection request for the invitation. The request
// is threaded by the invitation ID.
func NewRequest(id, label string, inv invitation.Invitation, conn *Connection) *Request {
	return &Request{
		Type:       pltype.AriesConnectionRequest,
		ID:         id,
		Label:      label,
		Connection: conn,
		Thread:     decorator.NewThread(id, inv.ID),
	}
}
