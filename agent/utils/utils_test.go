package utils

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHub_Defaults(t *testing.T) {
	h := &Hub{}
	require.Equal(t, HTTPReqTimeout, h.Timeout())
	require.Equal(t, DefaultListLimit, h.ListLimit())
	require.Equal(t, Version, h.VersionInfo())

	h.SetTimeout(5 * time.Second)
	h.SetListLimit(10)
	h.SetVersionInfo("test")
	require.Equal(t, 5*time.Second, h.Timeout())
	require.Equal(t, 10, h.ListLimit())
	require.Equal(t, "test", h.VersionInfo())

	h.SetListLimit(-1)
	require.Equal(t, DefaultListLimit, h.ListLimit())
}

func TestNewNonceStr(t *testing.T) {
	n := NewNonceStr()
	require.NotEmpty(t, n)
	require.NotEqual(t, n, NewNonceStr())
	_, err := strconv.ParseUint(n, 10, 64)
	require.NoError(t, err)
}

func TestB64(t *testing.T) {
	data := []byte{0, 1, 2, 250, 251, 252}
	got, err := DecodeB64(EncodeB64(data))
	require.NoError(t, err)
	require.Equal(t, data, got)

	padded := "AAEC-vv8"
	got, err = DecodeB64(padded)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestUUID(t *testing.T) {
	require.NotEqual(t, UUID(), UUID())
	require.Len(t, UUID(), 36)
}
