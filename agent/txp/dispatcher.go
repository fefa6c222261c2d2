/*
Package txp is the transport layer of the agent. The Dispatcher selects the
transport by the scheme of the endpoint URI and sends or receives opaque
envelopes with it. The dispatcher doesn't retry: the failures are returned to
the caller who owns the retry policy.
*/
package txp

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/findy-network/findy-agent-core/agent/endp"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// Transport sends and receives envelopes for its schemes.
type Transport interface {
	// Schemes returns the lower case URI schemes the transport handles.
	Schemes() []string

	// Send sends the envelope and returns the reply envelope if the other
	// end sent one, nil otherwise.
	Send(ctx context.Context, uri string, env Envelope) (*Envelope, error)

	// Receive reads the pull inbox.
	Receive(ctx context.Context, uri string) ([]Envelope, error)
}

// Dispatcher is the ordered registry of the transports. The first
// registered transport declaring the scheme wins.
type Dispatcher struct {
	mu         sync.RWMutex
	transports []Transport
}

// NewDispatcher returns the dispatcher with the transports in priority order.
func NewDispatcher(transports ...Transport) *Dispatcher {
	return &Dispatcher{transports: transports}
}

// NewDefaultDispatcher returns the dispatcher with HTTP and WebSocket
// transports.
func NewDefaultDispatcher() *Dispatcher {
	return NewDispatcher(NewHTTPTransport(nil), NewWSTransport())
}

// Register adds the transport to the end of the registry.
func (d *Dispatcher) Register(t Transport) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.transports = append(d.transports, t)
}

// Schemes returns all of the registered schemes.
func (d *Dispatcher) Schemes() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var schemes []string
	for _, t := range d.transports {
		for _, s := range t.Schemes() {
			if !slices.Contains(schemes, s) {
				schemes = append(schemes, s)
			}
		}
	}
	return schemes
}

// Transport returns the transport of the URI's scheme.
func (d *Dispatcher) Transport(uri string) (_ Transport, scheme string, err error) {
	scheme, err = endp.Scheme(uri)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedScheme, err)
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, t := range d.transports {
		if slices.Contains(t.Schemes(), scheme) {
			return t, scheme, nil
		}
	}
	return nil, scheme, fmt.Errorf("%w: %q", ErrUnsupportedScheme, scheme)
}

// Dispatch sends the envelope to the endpoint. It returns the reply envelope
// if there is one.
func (d *Dispatcher) Dispatch(ctx context.Context, uri string, env Envelope) (reply *Envelope, err error) {
	defer err2.Handle(&err, "dispatch")

	t, scheme := try.To2(d.Transport(uri))

	if glog.V(3) {
		glog.Infof("===== Outgoing %s TRANSPORT %d bytes =====", scheme, len(env.Payload))
		glog.Info(uri)
	}
	start := time.Now()
	reply, err = t.Send(ctx, uri, env)
	observe(scheme, start, err)
	try.To(err)

	return reply, nil
}

// Consume reads the pull inbox of the endpoint.
func (d *Dispatcher) Consume(ctx context.Context, uri string) (envs []Envelope, err error) {
	defer err2.Handle(&err, "consume")

	t, scheme := try.To2(d.Transport(uri))

	glog.V(3).Infoln("consuming inbox:", uri)
	start := time.Now()
	envs, err = t.Receive(ctx, uri)
	observe(scheme, start, err)
	try.To(err)

	return envs, nil
}
