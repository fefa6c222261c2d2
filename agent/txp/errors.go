package txp

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedScheme is returned when no transport is registered for
	// the scheme of the endpoint.
	ErrUnsupportedScheme = errors.New("unsupported scheme")

	// ErrNotSupported is returned by a transport which doesn't support the
	// operation, e.g. pull inbox over WebSocket.
	ErrNotSupported = errors.New("operation not supported by transport")
)

// errorMessageMaxLength is the maximum length of the response body we will
// include into the generated error message
const errorMessageMaxLength = 80

// TransmissionError is returned when the remote endpoint answers with
// non-success status. Body is the whole response body.
type TransmissionError struct {
	Op     string
	URL    string
	Status int
	Body   []byte
}

func (e *TransmissionError) Error() string {
	body := e.Body
	if len(body) > errorMessageMaxLength {
		body = body[:errorMessageMaxLength]
	}
	if len(body) == 0 {
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.Status)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.Status, body)
}

// IsTransmissionError tells if err is or wraps *TransmissionError.
func IsTransmissionError(err error) bool {
	var te *TransmissionError
	return errors.As(err, &te)
}
