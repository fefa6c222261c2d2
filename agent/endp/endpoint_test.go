package endp

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		scheme   string
		basePath string
		path     []string
		wantErr  bool
	}{
		{"http", "http://localhost:8080/a2a/box", "http", "http://localhost:8080", []string{"a2a", "box"}, false},
		{"upper case", "HTTPS://agent.example.com/a2a", "https", "https://agent.example.com", []string{"a2a"}, false},
		{"ws", "ws://localhost/ws//box/", "ws", "ws://localhost", []string{"ws", "box"}, false},
		{"ftp", "ftp://files.example.com", "ftp", "ftp://files.example.com", nil, false},
		{"empty", "  ", "", "", nil, true},
		{"no scheme", "localhost/a2a", "", "", nil, true},
		{"broken", "http://[::1", "", "", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.s)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.scheme, got.Scheme)
			require.Equal(t, tt.basePath, got.BasePath)
			if !reflect.DeepEqual(got.Path, tt.path) {
				t.Errorf("Parse() path = %v, want %v", got.Path, tt.path)
			}
		})
	}
}

func TestScheme(t *testing.T) {
	s, err := Scheme("wss://relay.example.com/box")
	require.NoError(t, err)
	require.Equal(t, "wss", s)

	_, err = Scheme("")
	require.ErrorIs(t, err, ErrEmpty)
}

func TestJoin(t *testing.T) {
	tests := []struct {
		name  string
		base  string
		parts []string
		want  string
	}{
		{"plain", "http://localhost:8080", []string{"a2a", "box1"}, "http://localhost:8080/a2a/box1"},
		{"slashes", "http://localhost:8080/", []string{"/a2a/", "", "box1"}, "http://localhost:8080/a2a/box1"},
		{"escape", "http://localhost", []string{"a b"}, "http://localhost/a%20b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Join(tt.base, tt.parts...))
		})
	}
}

func TestAddr_Last(t *testing.T) {
	a, err := Parse("http://localhost/a2a/box1")
	require.NoError(t, err)
	require.Equal(t, "box1", a.Last())

	a, err = Parse("http://localhost")
	require.NoError(t, err)
	require.Equal(t, "", a.Last())
}
