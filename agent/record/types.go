package record

import (
	"encoding/json"
	"strconv"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/service"
)

// Searchable tag names of the records.
const (
	TagState        = "State"
	TagInvitationID = "InvitationID"
	TagTheirDID     = "TheirDID"
	TagMyVerKey     = "MyVerKey"
	TagConnectionID = "ConnectionID"
	TagCredDefID    = "CredDefID"
	TagThreadID     = "ThreadID"
	TagRecordType   = "RecordType"
	TagRecordID     = "RecordID"
	TagAttempts     = "Attempts"
)

// ConnectionRecord is the pairwise connection with the other agent.
type ConnectionRecord struct {
	ID            string          `json:"id"`
	State         ConnectionState `json:"state"`
	MyDID         string          `json:"my_did,omitempty"`
	MyVerKey      string          `json:"my_verkey,omitempty"`
	TheirDID      string          `json:"their_did,omitempty"`
	TheirLabel    string          `json:"their_label,omitempty"`
	TheirEndpoint service.Addr    `json:"their_endpoint"`
	InvitationID  string          `json:"invitation_id,omitempty"`
	Timestamps
}

func (r *ConnectionRecord) Key() string  { return r.ID }
func (r *ConnectionRecord) Type() string { return pltype.RecordConnection }

func (r *ConnectionRecord) Tags() map[string]string {
	return map[string]string{
		TagState:        r.State.String(),
		TagInvitationID: r.InvitationID,
		TagTheirDID:     r.TheirDID,
		TagMyVerKey:     r.MyVerKey,
	}
}

// CredentialRecord is the credential exchange with the connection. The
// Attributes are the offered values which are replaced with the issued ones.
type CredentialRecord struct {
	ID           string            `json:"id"`
	ConnectionID string            `json:"connection_id"`
	State        CredentialState   `json:"state"`
	CredDefID    string            `json:"cred_def_id"`
	ThreadID     string            `json:"thread_id,omitempty"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	Credential   json.RawMessage   `json:"credential,omitempty"`
	Timestamps
}

func (r *CredentialRecord) Key() string  { return r.ID }
func (r *CredentialRecord) Type() string { return pltype.RecordCredential }

func (r *CredentialRecord) Tags() map[string]string {
	return map[string]string{
		TagState:        r.State.String(),
		TagConnectionID: r.ConnectionID,
		TagCredDefID:    r.CredDefID,
		TagThreadID:     r.ThreadID,
	}
}

// ProvisioningID is the ID of the tenant's only provisioning record.
const ProvisioningID = "provisioning"

// ProvisioningRecord is the tenant's issuer identity.
type ProvisioningRecord struct {
	IssuerDID    string `json:"issuer_did"`
	IssuerVerKey string `json:"issuer_verkey"`
	Label        string `json:"label,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	Timestamps
}

func (r *ProvisioningRecord) Key() string             { return ProvisioningID }
func (r *ProvisioningRecord) Type() string            { return pltype.RecordProvisioning }
func (r *ProvisioningRecord) Tags() map[string]string { return nil }

// OutboxRecord is a packed message waiting for its (re)delivery. It's stored
// before the dispatch and deleted after a successful one.
type OutboxRecord struct {
	ID         string `json:"id"`
	RecordType string `json:"record_type"`
	RecordID   string `json:"record_id"`
	Endpoint   string `json:"endpoint"`
	Payload    []byte `json:"payload"`
	Attempts   int    `json:"attempts"`
	LastError  string `json:"last_error,omitempty"`
	Timestamps
}

func (r *OutboxRecord) Key() string  { return r.ID }
func (r *OutboxRecord) Type() string { return pltype.RecordOutbox }

func (r *OutboxRecord) Tags() map[string]string {
	return map[string]string{
		TagRecordType: r.RecordType,
		TagRecordID:   r.RecordID,
		TagAttempts:   strconv.Itoa(r.Attempts),
	}
}
