// Package sec offers the secure pipe between our verkey and the other end of
// the DID connection.
package sec

import (
	"context"
	"errors"

	"github.com/findy-network/findy-agent-core/agent/service"
	"github.com/findy-network/findy-agent-core/agent/ssi"
	"github.com/findy-network/findy-agent-core/std/common"
	"github.com/findy-network/findy-common-go/dto"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/assert"
	"github.com/lainio/err2/try"
)

// Pipe is a secure way to transport data between DID connection. All agent to
// agent communication uses it. For its internal structure we must define the
// direction of the pipe.
type Pipe struct {
	Wallet ssi.Keystore

	// In is our verkey. The empty means an anonymous sender.
	In string

	// Out is the other end's recipient key and routing keys.
	Out service.Addr
}

// NewPipeByVerkey creates a new secure pipe by our verkey and other end's
// public key and its mediator routing keys.
func NewPipeByVerkey(wallet ssi.Keystore, in, verkey string, route []string) *Pipe {
	assert.INotNil(wallet)

	return &Pipe{
		Wallet: wallet,
		In:     in,
		Out:    service.Addr{Key: verkey, RoutingKeys: route},
	}
}

// Pack packs the byte slice and returns verification key as well. When the
// other end has routing keys the packed message is wrapped to forward
// messages, one per routing key, so that the last routing key is the
// outermost.
func (p Pipe) Pack(ctx context.Context, src []byte) (dst []byte, vk string, err error) {
	defer err2.Handle(&err, "sec pipe pack")

	if p.Out.Key == "" {
		return nil, "", errors.New("pipe has no recipient key")
	}
	dst = try.To1(p.Wallet.Pack(ctx, src, p.In, []string{p.Out.Key}))

	to := p.Out.Key
	for _, routingKey := range p.Out.RoutingKeys {
		fwd := common.NewForward(to, dst)
		dst = try.To1(p.Wallet.Pack(ctx, dto.ToJSONBytes(fwd), "", []string{routingKey}))
		to = routingKey
	}
	glog.V(5).Infof("packed %d bytes to %s, %d hops", len(dst), p.Out.Key, len(p.Out.RoutingKeys))

	return dst, p.In, nil
}

// Unpack unpacks the source bytes and returns the sender's verification key.
func (p Pipe) Unpack(ctx context.Context, src []byte) (dst []byte, vk string, err error) {
	defer err2.Handle(&err, "sec pipe unpack")

	dst, vk = try.To2(p.Wallet.Unpack(ctx, src))
	return dst, vk, nil
}

// Sign sings the message and returns the verification key.
func (p Pipe) Sign(ctx context.Context, src []byte) (dst []byte, vk string, err error) {
	defer err2.Handle(&err, "pipe sign")

	dst = try.To1(p.Wallet.Sign(ctx, src, p.In))
	return dst, p.In, nil
}

// Verify verifies signature of the message and returns the verification key.
func (p Pipe) Verify(ctx context.Context, msg, signature []byte) (yes bool, vk string, err error) {
	defer err2.Handle(&err, "pipe verify")

	yes = try.To1(p.Wallet.Verify(ctx, msg, signature, p.Out.Key))
	return yes, p.Out.Key, nil
}

// IsNull returns true if pipe is null.
func (p Pipe) IsNull() bool {
	return p.Wallet == nil
}
