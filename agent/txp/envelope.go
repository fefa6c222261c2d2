package txp

import (
	"encoding/json"
	"fmt"
)

// Envelope is the transport container of a protocol message. Packed tells
// if the payload is cryptographically packed.
type Envelope struct {
	Payload []byte
	Packed  bool
}

// NewPacked returns an envelope of the packed payload.
func NewPacked(payload []byte) *Envelope {
	return &Envelope{Payload: payload, Packed: true}
}

// InboxItem is the wire form of an envelope in the pull inbox. The message is
// base64 in JSON.
type InboxItem struct {
	Message []byte `json:"message"`
	Packed  bool   `json:"packed"`
}

// DecodeInbox parses the pull inbox response to envelopes. Order is kept.
func DecodeInbox(data []byte) ([]Envelope, error) {
	var items []InboxItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode inbox: %w", err)
	}
	envs := make([]Envelope, len(items))
	for i, item := range items {
		envs[i] = Envelope{Payload: item.Message, Packed: item.Packed}
	}
	return envs, nil
}

// EncodeInbox is the counterpart of DecodeInbox for the relay server.
func EncodeInbox(envs []Envelope) ([]byte, error) {
	items := make([]InboxItem, len(envs))
	for i, env := range envs {
		items[i] = InboxItem{Message: env.Payload, Packed: env.Packed}
	}
	return json.Marshal(items)
}
