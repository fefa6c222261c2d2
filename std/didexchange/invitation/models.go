// Package invitation includes the connection invitation of the Aries
// connection protocol 1.0 and its URL form.
package invitation

import (
	"github.com/findy-network/findy-agent-core/std/decorator"
)

// Invitation is the out-of-band message which tells how to connect to the
// inviter: the endpoint, the recipient keys the request is packed for, and
// the optional mediator routing keys. The public DID form (DID instead of
// the keys) isn't supported.
type Invitation struct {
	ID              string            `json:"@id,omitempty"`
	Type            string            `json:"@type,omitempty"`
	Label           string            `json:"label,omitempty"`
	ImageURL        string            `json:"imageUrl,omitempty"`
	ServiceEndpoint string            `json:"serviceEndpoint,omitempty"`
	RecipientKeys   []string          `json:"recipientKeys,omitempty"`
	RoutingKeys     []string          `json:"routingKeys,omitempty"`
	DID             string            `json:"did,omitempty"`
	Thread          *decorator.Thread `json:"~thread,omitempty"`
}
