package txp_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/txp"
	"github.com/findy-network/findy-agent-core/agent/txp/txpmock"
	gomock "github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestDispatch_UnsupportedScheme(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTransport := txpmock.NewMockTransport(ctrl)
	mockTransport.EXPECT().Schemes().Return([]string{"http", "https"}).AnyTimes()
	// no Send or Receive expected

	d := txp.NewDispatcher(mockTransport)
	ctx := context.Background()

	_, err := d.Dispatch(ctx, "ftp://example.com/inbox", txp.Envelope{Payload: []byte("x")})
	require.ErrorIs(t, err, txp.ErrUnsupportedScheme)

	_, err = d.Consume(ctx, "ftp://example.com/inbox")
	require.ErrorIs(t, err, txp.ErrUnsupportedScheme)

	_, err = d.Dispatch(ctx, "no scheme at all", txp.Envelope{})
	require.ErrorIs(t, err, txp.ErrUnsupportedScheme)
}

func TestDispatch_FirstTransportWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	first := txpmock.NewMockTransport(ctrl)
	second := txpmock.NewMockTransport(ctrl)
	first.EXPECT().Schemes().Return([]string{"http"}).AnyTimes()
	second.EXPECT().Schemes().Return([]string{"http", "custom"}).AnyTimes()

	env := txp.Envelope{Payload: []byte("payload"), Packed: true}
	reply := txp.NewPacked([]byte("reply"))
	first.EXPECT().Send(gomock.Any(), "HTTP://example.com", env).Return(reply, nil)
	second.EXPECT().Send(gomock.Any(), "custom://x", env).Return(nil, nil)

	d := txp.NewDispatcher(first, second)
	ctx := context.Background()

	got, err := d.Dispatch(ctx, "HTTP://example.com", env)
	require.NoError(t, err)
	require.Equal(t, reply, got)

	got, err = d.Dispatch(ctx, "custom://x", env)
	require.NoError(t, err)
	require.Nil(t, got)

	require.Equal(t, []string{"http", "custom"}, d.Schemes())
}

func TestDispatch_NoRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := txpmock.NewMockTransport(ctrl)
	tr.EXPECT().Schemes().Return([]string{"http"}).AnyTimes()
	sendErr := &txp.TransmissionError{Op: "send", URL: "http://x", Status: 500}
	tr.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, sendErr).Times(1)

	d := txp.NewDispatcher(tr)
	_, err := d.Dispatch(context.Background(), "http://x", txp.Envelope{})
	var te *txp.TransmissionError
	require.True(t, errors.As(err, &te))
	require.Equal(t, 500, te.Status)
}

func TestDispatch_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tr := txpmock.NewMockTransport(ctrl)
	tr.EXPECT().Schemes().Return([]string{"mem"}).AnyTimes()
	tr.EXPECT().Receive(gomock.Any(), "mem://box").Return([]txp.Envelope{{Payload: []byte("1")}}, nil)

	d := txp.NewDispatcher()
	_, err := d.Consume(context.Background(), "mem://box")
	require.ErrorIs(t, err, txp.ErrUnsupportedScheme)

	d.Register(tr)
	envs, err := d.Consume(context.Background(), "mem://box")
	require.NoError(t, err)
	require.Len(t, envs, 1)
}

func TestHTTP_EchoRoundTrip(t *testing.T) {
	var gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", pltype.AgentWireMessage)
		_, _ = w.Write(body)
	}))
	defer ts.Close()

	d := txp.NewDefaultDispatcher()
	env := txp.Envelope{Payload: []byte(`{"protected":"abc"}`), Packed: false}
	reply, err := d.Dispatch(context.Background(), ts.URL+"/a2a/box", env)
	require.NoError(t, err)
	require.NotNil(t, reply)
	require.Equal(t, env.Payload, reply.Payload)
	require.True(t, reply.Packed)
	require.Equal(t, pltype.AgentWireMessage, gotContentType)
}

func TestHTTP_Send(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		contentType string
		body        string
		wantReply   bool
		wantStatus  int
	}{
		{"accepted no body", http.StatusAccepted, "", "", false, 0},
		{"ok other type", http.StatusOK, "text/plain; charset=utf-8", "hello", false, 0},
		{"ok agent wire empty", http.StatusOK, pltype.AgentWireMessage, "", false, 0},
		{"ok agent wire params", http.StatusOK, pltype.AgentWireMessage + "; charset=utf-8", "data", true, 0},
		{"bad gateway", http.StatusBadGateway, "text/plain", "upstream down", false, http.StatusBadGateway},
		{"not found", http.StatusNotFound, "", "", false, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			reply, err := txp.NewHTTPTransport(nil).Send(context.Background(), ts.URL, txp.Envelope{Payload: []byte("x")})
			if tt.wantStatus != 0 {
				var te *txp.TransmissionError
				require.ErrorAs(t, err, &te)
				require.Equal(t, tt.wantStatus, te.Status)
				require.Equal(t, tt.body, string(te.Body))
				require.Equal(t, ts.URL, te.URL)
				return
			}
			require.NoError(t, err)
			if tt.wantReply {
				require.Equal(t, tt.body, string(reply.Payload))
				require.True(t, reply.Packed)
			} else {
				require.Nil(t, reply)
			}
		})
	}
}

func TestHTTP_Consume(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", pltype.JSON)
		_, _ = w.Write([]byte(`[{"message":"AA==","packed":true},{"message":"","packed":false}]`))
	}))
	defer ts.Close()

	envs, err := txp.NewDefaultDispatcher().Consume(context.Background(), ts.URL)
	require.NoError(t, err)
	require.Len(t, envs, 2)
	require.Equal(t, []byte{0}, envs[0].Payload)
	require.True(t, envs[0].Packed)
	require.Empty(t, envs[1].Payload)
	require.False(t, envs[1].Packed)
}

func TestHTTP_ConsumeErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/broken" {
			_, _ = w.Write([]byte(`{"not":"a list"}`))
			return
		}
		http.Error(w, "no inbox", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	d := txp.NewDefaultDispatcher()
	_, err := d.Consume(context.Background(), ts.URL+"/inbox")
	require.True(t, txp.IsTransmissionError(err))

	_, err = d.Consume(context.Background(), ts.URL+"/broken")
	require.Error(t, err)
	require.False(t, txp.IsTransmissionError(err))
}

func TestWS_ReceiveNotSupported(t *testing.T) {
	_, err := txp.NewDefaultDispatcher().Consume(context.Background(), "ws://localhost:1/inbox")
	require.ErrorIs(t, err, txp.ErrNotSupported)
}

func TestTransmissionError(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	err := &txp.TransmissionError{Op: "send", URL: "http://x", Status: 502, Body: long}
	require.Len(t, err.Error(), len("send http://x: status 502: ")+80)
	require.Equal(t, "send http://x: status 404",
		(&txp.TransmissionError{Op: "send", URL: "http://x", Status: 404}).Error())
}
