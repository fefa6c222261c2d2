package txp

import (
	"bytes"
	"context"
	"io"
	"mime"
	"net/http"

	"github.com/findy-network/findy-agent-core/agent/pltype"
	"github.com/findy-network/findy-agent-core/agent/utils"
	"github.com/golang/glog"
	"github.com/lainio/err2"
	"github.com/lainio/err2/try"
)

// HTTPTransport sends the envelopes with POST and reads the pull inbox with
// GET.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport returns the transport using the client. The nil client
// means a default client. The request timeout comes from the settings.
func NewHTTPTransport(c *http.Client) *HTTPTransport {
	if c == nil {
		c = &http.Client{}
	}
	return &HTTPTransport{client: c}
}

func (t *HTTPTransport) Schemes() []string {
	return []string{"http", "https"}
}

func (t *HTTPTransport) Send(ctx context.Context, uri string, env Envelope) (reply *Envelope, err error) {
	defer err2.Handle(&err, "call http")

	ctx, cancel := context.WithTimeout(ctx, utils.Settings.Timeout())
	defer cancel()

	request := try.To1(http.NewRequestWithContext(ctx, http.MethodPost, uri,
		bytes.NewReader(env.Payload)))
	request.Close = true // deferred response.Body.Close isn't always enough
	request.Header.Set("Content-Type", pltype.AgentWireMessage)

	response, data := try.To2(t.do(request))
	try.To(checkHTTPStatus("send", uri, response, data))

	if len(data) > 0 && isAgentWire(response.Header.Get("Content-Type")) {
		glog.V(3).Infof("reply envelope %d bytes from %s", len(data), uri)
		return NewPacked(data), nil
	}
	return nil, nil
}

func (t *HTTPTransport) Receive(ctx context.Context, uri string) (envs []Envelope, err error) {
	defer err2.Handle(&err, "read http inbox")

	ctx, cancel := context.WithTimeout(ctx, utils.Settings.Timeout())
	defer cancel()

	request := try.To1(http.NewRequestWithContext(ctx, http.MethodGet, uri, nil))
	request.Header.Set("Accept", pltype.JSON)

	response, data := try.To2(t.do(request))
	try.To(checkHTTPStatus("receive", uri, response, data))

	return DecodeInbox(data)
}

func (t *HTTPTransport) do(request *http.Request) (_ *http.Response, data []byte, err error) {
	response, err := t.client.Do(request)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		closeErr := response.Body.Close()
		if closeErr != nil {
			glog.Warningln("body.Close: ", closeErr)
		}
	}()

	data, err = io.ReadAll(response.Body)
	return response, data, err
}

// checkHTTPStatus returns *TransmissionError for the non-success status.
func checkHTTPStatus(op, uri string, response *http.Response, data []byte) error {
	if response.StatusCode < 200 || response.StatusCode > 299 {
		glog.Warning("http code:", response.Status)
		return &TransmissionError{
			Op:     op,
			URL:    uri,
			Status: response.StatusCode,
			Body:   data,
		}
	}
	return nil
}

func isAgentWire(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == pltype.AgentWireMessage
}
