package utils

import (
	"sync"
	"time"

	"github.com/golang/glog"
)

const (
	// HTTPReqTimeout is the default timeout for outbound agent transports.
	HTTPReqTimeout = 1 * time.Minute

	// DefaultListLimit is used when a record listing doesn't give a limit.
	DefaultListLimit = 100
)

// Version is the version of the agent core. It's shown by the CLI and the
// relay server's /version endpoint.
var Version = "0.1.0"

var Settings = &Hub{}

// Hub holds the process wide runtime settings. They are set once at startup
// by the bootstrap layer (CLI or service), and read by the core packages.
type Hub struct {
	l sync.RWMutex

	hostAddr    string        // public base address of our endpoint, e.g. https://agent.example.com
	serviceName string        // URL path of the relay/mailbox service
	label       string        // default label for our invitations
	versionInfo string        // version number etc. in free format as a string
	timeout     time.Duration // timeout setting for transport requests
	listLimit   int           // default limit for record listings
	walletDir   string        // directory where local wallets are stored

	localTestMode bool // tells if are running unit tests
}

func (h *Hub) LocalTestMode() bool {
	h.l.RLock()
	defer h.l.RUnlock()
	return h.localTestMode
}

func (h *Hub) SetLocalTestMode(localTestMode bool) {
	h.l.Lock()
	defer h.l.Unlock()
	h.localTestMode = localTestMode
}

// SetTimeout sets the default timeout for HTTP and WS requests.
func (h *Hub) SetTimeout(to time.Duration) {
	h.l.Lock()
	defer h.l.Unlock()
	h.timeout = to
}

func (h *Hub) Timeout() time.Duration {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

// SetListLimit sets the default limit for record listings. Zero resets to
// the DefaultListLimit.
func (h *Hub) SetListLimit(limit int) {
	h.l.Lock()
	defer h.l.Unlock()
	h.listLimit = limit
}

func (h *Hub) ListLimit() int {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.listLimit <= 0 {
		return DefaultListLimit
	}
	return h.listLimit
}

// SetServiceName sets the service name of the relay. Service name is used in
// the URLs and endpoint addresses.
func (h *Hub) SetServiceName(n string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.serviceName = n
}

func (h *Hub) ServiceName() string {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.serviceName == "" && glog.V(3) {
		glog.Info("warning service name is empty")
	}
	return h.serviceName
}

// SetHostAddr sets current host name of this agent. The host name is used in
// the endpoints we give in our invitations.
func (h *Hub) SetHostAddr(addr string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.hostAddr = addr
}

func (h *Hub) HostAddr() string {
	h.l.RLock()
	defer h.l.RUnlock()
	return h.hostAddr
}

func (h *Hub) SetLabel(label string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.label = label
}

func (h *Hub) Label() string {
	h.l.RLock()
	defer h.l.RUnlock()
	return h.label
}

// SetVersionInfo sets current version info of this agent. The info is shown
// in the certain API calls like /version.
func (h *Hub) SetVersionInfo(info string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.versionInfo = info
}

func (h *Hub) VersionInfo() string {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.versionInfo == "" {
		return Version
	}
	return h.versionInfo
}

func (h *Hub) SetWalletDir(dir string) {
	h.l.Lock()
	defer h.l.Unlock()
	h.walletDir = dir
}

// WalletDir returns the wallet directory. If it isn't set we use the
// default location under the user's home.
func (h *Hub) WalletDir() string {
	h.l.RLock()
	defer h.l.RUnlock()
	if h.walletDir == "" {
		return DefaultWalletDir()
	}
	return h.walletDir
}
