package record

import (
	"fmt"
	"strings"
)

// ConnectionState is the lifecycle state of the connection record.
type ConnectionState uint

const (
	ConnectionInvited ConnectionState = iota + 1
	ConnectionNegotiating
	ConnectionConnected
	ConnectionError
)

var connectionStates = map[ConnectionState]string{
	ConnectionInvited:     "Invited",
	ConnectionNegotiating: "Negotiating",
	ConnectionConnected:   "Connected",
	ConnectionError:       "Error",
}

func (s ConnectionState) String() string {
	if name, ok := connectionStates[s]; ok {
		return name
	}
	return "Unknown State"
}

func (s ConnectionState) MarshalText() ([]byte, error) {
	if _, ok := connectionStates[s]; !ok {
		return nil, fmt.Errorf("unknown connection state %d", s)
	}
	return []byte(s.String()), nil
}

func (s *ConnectionState) UnmarshalText(text []byte) error {
	for state, name := range connectionStates {
		if strings.EqualFold(name, string(text)) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown connection state %q", text)
}

// ParseConnectionState parses the state by its name, case-insensitively.
func ParseConnectionState(s string) (state ConnectionState, err error) {
	err = state.UnmarshalText([]byte(s))
	return state, err
}

// CredentialState is the lifecycle state of the credential record.
type CredentialState uint

const (
	CredentialOffered CredentialState = iota + 1
	CredentialRequested
	CredentialIssued
	CredentialRejected
)

var credentialStates = map[CredentialState]string{
	CredentialOffered:   "Offered",
	CredentialRequested: "Requested",
	CredentialIssued:    "Issued",
	CredentialRejected:  "Rejected",
}

func (s CredentialState) String() string {
	if name, ok := credentialStates[s]; ok {
		return name
	}
	return "Unknown State"
}

func (s CredentialState) MarshalText() ([]byte, error) {
	if _, ok := credentialStates[s]; !ok {
		return nil, fmt.Errorf("unknown credential state %d", s)
	}
	return []byte(s.String()), nil
}

func (s *CredentialState) UnmarshalText(text []byte) error {
	for state, name := range credentialStates {
		if strings.EqualFold(name, string(text)) {
			*s = state
			return nil
		}
	}
	return fmt.Errorf("unknown credential state %q", text)
}

func ParseCredentialState(s string) (state CredentialState, err error) {
	err = state.UnmarshalText([]byte(s))
	return state, err
}
