// Package common includes the Aries messages which are shared between the
// protocols.
package common

import (
	"encoding/json"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/utils"
)

// Forward route forward message.
// https://github.com/hyperledger/aries-rfcs/blob/main/concepts/0094-cross-domain-messaging/README.md#corerouting10forward
type Forward struct {
	Type string          `json:"@type,omitempty"`
	ID   string          `json:"@id,omitempty"`
	To   string          `json:"to,omitempty"`
	Msg  json.RawMessage `json:"msg,omitempty"`
}

// NewForward wraps the packed message to forward message addressed to the
// recipient key.
func NewForward(to string, packed []byte) *Forward {
	return &Forward{
		Type: pltype.RoutingForward,
		ID:   utils.UUID(),
		To:   to,
		Msg:  json.RawMessage(packed),
	}
}
