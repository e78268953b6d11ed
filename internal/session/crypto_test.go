package session

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = bytes.Repeat([]byte{0x42}, 32)

func TestSealOpenRoundTrip(t *testing.T) {
	s, err := newSealer(testKey)
	require.NoError(t, err)

	plain := []byte("mtproto session blob")
	sealed, err := s.seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, plain, sealed)

	opened, err := s.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)
}

func TestSealRandomizesNonce(t *testing.T) {
	s, err := newSealer(testKey)
	require.NoError(t, err)

	a, err := s.seal([]byte("same input"))
	require.NoError(t, err)
	b, err := s.seal([]byte("same input"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestOpenRejectsTamperedBlob(t *testing.T) {
	s, err := newSealer(testKey)
	require.NoError(t, err)

	sealed, err := s.seal([]byte("payload"))
	require.NoError(t, err)
	sealed[len(sealed)-1] ^= 0xff

	_, err = s.open(sealed)
	assert.Error(t, err)
}

func TestOpenRejectsShortBlob(t *testing.T) {
	s, err := newSealer(testKey)
	require.NoError(t, err)

	_, err = s.open([]byte("short"))
	assert.Error(t, err)
}

func TestOpenRejectsWrongKey(t *testing.T) {
	s, err := newSealer(testKey)
	require.NoError(t, err)
	other, err := newSealer(bytes.Repeat([]byte{0x24}, 32))
	require.NoError(t, err)

	sealed, err := s.seal([]byte("payload"))
	require.NoError(t, err)

	_, err = other.open(sealed)
	assert.Error(t, err)
}

func TestNewSealerRejectsBadKeyLength(t *testing.T) {
	_, err := newSealer([]byte("too short"))
	assert.Error(t, err)
}
