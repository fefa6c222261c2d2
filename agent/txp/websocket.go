package txp

import (
	"context"

	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
	"golang.org/x/net/websocket"
)

// origin must be a valid URL but the other end doesn't check it.
const origin = "http://localhost/"

// WSTransport is a send-only WebSocket transport. Every envelope is sent with
// its own connection as one binary message.
type WSTransport struct{}

func NewWSTransport() *WSTransport {
	return &WSTransport{}
}

func (t *WSTransport) Schemes() []string {
	return []string{"ws", "wss"}
}

func (t *WSTransport) Send(ctx context.Context, uri string, env Envelope) (_ *Envelope, err error) {
	defer err2.Handle(&err, "ws send")

	try.To(ctx.Err())
	ws := try.To1(websocket.Dial(uri, "", origin))
	defer func() {
		if closeErr := ws.Close(); closeErr != nil {
			glog.V(3).Infoln("ws close:", closeErr)
		}
	}()

	if deadline, ok := ctx.Deadline(); ok {
		try.To(ws.SetWriteDeadline(deadline))
	}
	try.To(websocket.Message.Send(ws, env.Payload))
	return nil, nil
}

func (t *WSTransport) Receive(context.Context, string) ([]Envelope, error) {
	return nil, ErrNotSupported
}
