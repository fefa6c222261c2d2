// Package pltype holds the protocol message type URIs and the media types of
// the agent wire messages.
package pltype

// Media types of the transport layer.
const (
	// AgentWireMessage is the content type of packed agent wire messages. It
	// tags the outbound requests and it's used to recognize packed replies.
	AgentWireMessage = "application/ssi-agent-wire"

	// JSON is used for the pull inbox responses.
	JSON = "application/json"
)

const (
	Aries       = "did:sov:BzCbsNYhMrjHiqZDTUASHg;spec" // This will be for all Aries protocols
	DIDOrgAries = "https://didcomm.org"
)

// Connection protocol constants
const (
	Invitation                = "invitation"
	HandlerRequest            = "request"
	HandlerResponse           = "response"
	AriesProtocolConnection   = "connections"
	AriesConnection           = Aries + "/" + AriesProtocolConnection
	AriesConnectionInvitation = AriesConnection + "/1.0/" + Invitation
	AriesConnectionRequest    = AriesConnection + "/1.0/" + HandlerRequest
	AriesConnectionResponse   = AriesConnection + "/1.0/" + HandlerResponse
)

// Issue Credential protocol constants
const (
	ProtocolIssueCredential          = "issue-credential"
	HandlerIssueCredentialOffer      = "offer-credential"
	HandlerIssueCredentialRequest    = "request-credential"
	HandlerIssueCredentialIssue      = "issue-credential"
	HandlerIssueCredentialACK        = "ack"
	ObjectTypeCredentialPreview      = "credential-preview"
	IssueCredential                  = Aries + "/" + ProtocolIssueCredential
	IssueCredentialOffer             = IssueCredential + "/1.0/" + HandlerIssueCredentialOffer
	IssueCredentialRequest           = IssueCredential + "/1.0/" + HandlerIssueCredentialRequest
	IssueCredentialIssue             = IssueCredential + "/1.0/" + HandlerIssueCredentialIssue
	IssueCredentialACK               = IssueCredential + "/1.0/" + HandlerIssueCredentialACK
	IssueCredentialCredentialPreview = IssueCredential + "/1.0/" + ObjectTypeCredentialPreview
)

// Routing protocol constants
const (
	ProtocolRouting      = "routing"
	HandlerForward       = "forward"
	RoutingForward       = Aries + "/" + ProtocolRouting + "/1.0/" + HandlerForward
	DIDOrgRoutingForward = DIDOrgAries + "/" + ProtocolRouting + "/1.0/" + HandlerForward
)

// Packing algorithms of the envelope's protected header.
const (
	AlgAuthcrypt = "Authcrypt"
	AlgAnoncrypt = "Anoncrypt"
	EncC20P      = "chacha20poly1305_ietf"
	TypJWM       = "JWM/1.0"
)

// Record types of the record store. Type names are used as the bucket or key
// prefix of the store backend.
const (
	RecordConnection   = "connection"
	RecordCredential   = "credential"
	RecordProvisioning = "provisioning"
	RecordOutbox       = "outbox"
	RecordMailbox      = "mailbox"
)
