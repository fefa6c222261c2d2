package txp

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/websocket"
)

func TestWSTransport_Send(t *testing.T) {
	received := make(chan []byte, 1)
	ts := httptest.NewServer(websocket.Handler(func(ws *websocket.Conn) {
		var data []byte
		if err := websocket.Message.Receive(ws, &data); err == nil {
			received <- data
		}
	}))
	defer ts.Close()

	uri := "ws" + ts.URL[len("http"):]
	d := NewDefaultDispatcher()
	reply, err := d.Dispatch(context.Background(), uri, Envelope{Payload: []byte("packed"), Packed: true})
	require.NoError(t, err)
	require.Nil(t, reply)
	require.Equal(t, []byte("packed"), <-received)
}
