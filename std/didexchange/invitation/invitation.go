package invitation

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

const urlParam = "c_i"

var (
	ErrNoEndpoint = errors.New("invitation has no service endpoint")
	ErrNoKeys     = errors.New("invitation has no recipient keys")
	ErrBadKey     = errors.New("invitation has an invalid key")
)

// New returns a connection invitation with a new ID.
func New(label, endpoint string, recipientKeys, routingKeys []string) Invitation {
	return Invitation{
		ID:              utils.UUID(),
		Type:            pltype.AriesConnectionInvitation,
		Label:           label,
		ServiceEndpoint: endpoint,
		RecipientKeys:   recipientKeys,
		RoutingKeys:     routingKeys,
	}
}

// Validate checks that the invitation can be used to connect.
func (inv Invitation) Validate() error {
	if inv.ServiceEndpoint == "" {
		return ErrNoEndpoint
	}
	if len(inv.RecipientKeys) == 0 || inv.RecipientKeys[0] == "" {
		return ErrNoKeys
	}
	return nil
}

// Build returns the invitation as URL where the invitation JSON is in the
// c_i query parameter.
func Build(inv Invitation) (s string, err error) {
	defer err2.Handle(&err, "build invitation URL")

	base := inv.ServiceEndpoint
	if base == "" {
		return "", ErrNoEndpoint
	}
	u := try.To1(url.Parse(base))
	q := u.Query()
	q.Set(urlParam, base64.URLEncoding.EncodeToString(dto.ToJSONBytes(inv)))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Translate reads the invitation from the JSON string or from the invitation
// URL.
func Translate(s string) (inv Invitation, err error) {
	defer err2.Handle(&err, "translate invitation")

	s = strings.TrimSpace(s)
	data := []byte(s)
	if !strings.HasPrefix(s, "{") {
		u := try.To1(url.Parse(s))
		param := u.Query().Get(urlParam)
		if param == "" {
			return inv, errors.New("no " + urlParam + " parameter in URL")
		}
		data = try.To1(decodeParam(param))
	}
	try.To(json.Unmarshal(data, &inv))
	try.To(inv.Validate())
	return inv, nil
}

func decodeParam(param string) ([]byte, error) {
	if data, err := utils.DecodeB64(param); err == nil {
		return data, nil
	}
	return base64.StdEncoding.DecodeString(param)
}
