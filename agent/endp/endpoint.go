/*
Package endp handles endpoint addresses. An endpoint is the URI where the
other end's agent receives its wire messages, e.g. https://agent.example.com/a2a/box.
The transport dispatcher selects the transport by the URI's scheme.
*/
package endp

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmpty is returned when an endpoint address is empty.
var ErrEmpty = errors.New("endpoint address is empty")

/*
Addr is a parsed endpoint address. It carries the scheme in lower case which
is the key for the transport selection, and the original URL for the actual
request.
*/
type Addr struct {
	Scheme   string   // lower case scheme like http, https, ws
	Host     string   // host with the port if given
	BasePath string   // the base address of the URL: scheme://host
	Path     []string // path parts without the empty ones
	URL      *url.URL // the whole URL
}

// Parse parses endpoint string to Addr. The endpoint must be an absolute URI
// with a scheme.
func Parse(s string) (a *Addr, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmpty
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme == "" {
		return nil, fmt.Errorf("endpoint %q: missing scheme", s)
	}
	a = &Addr{
		Scheme: strings.ToLower(u.Scheme),
		Host:   u.Host,
		URL:    u,
	}
	a.BasePath = a.Scheme + "://" + u.Host
	for _, part := range strings.Split(u.Path, "/") {
		if part != "" {
			a.Path = append(a.Path, part)
		}
	}
	return a, nil
}

// Scheme returns the lower case scheme of the endpoint string.
func Scheme(s string) (string, error) {
	a, err := Parse(s)
	if err != nil {
		return "", err
	}
	return a.Scheme, nil
}

// Join builds a new endpoint address by adding path parts to the base
// address, e.g. Join("http://localhost:8080", "a2a", "box1").
func Join(base string, parts ...string) string {
	res := strings.TrimSuffix(base, "/")
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p == "" {
			continue
		}
		res += "/" + url.PathEscape(p)
	}
	return res
}

// Last returns the last path part, which is the mailbox name in our relay
// addresses.
func (a *Addr) Last() string {
	if len(a.Path) == 0 {
		return ""
	}
	return a.Path[len(a.Path)-1]
}

func (a *Addr) String() string {
	return a.URL.String()
}
