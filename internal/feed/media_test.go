package feed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaHandleRoundTrip(t *testing.T) {
	handle := MediaHandle("123", 456)
	require.Equal(t, "123_456", handle)

	channelID, messageID, err := ParseMediaHandle(handle)
	require.NoError(t, err)
	assert.Equal(t, "123", channelID)
	assert.Equal(t, 456, messageID)
}

func TestMediaHandleNegativeChannelID(t *testing.T) {
	handle := MediaHandle("-1001234567890", 77)
	require.Equal(t, "-1001234567890_77", handle)

	channelID, messageID, err := ParseMediaHandle(handle)
	require.NoError(t, err)
	assert.Equal(t, "-1001234567890", channelID)
	assert.Equal(t, 77, messageID)
}

func TestParseMediaHandleMalformed(t *testing.T) {
	cases := []string{
		"abc",
		"",
		"_456",
		"123_",
		"123_abc",
		"123_-5",
		"123_0",
	}
	for _, handle := range cases {
		_, _, err := ParseMediaHandle(handle)
		assert.ErrorIs(t, err, ErrMalformedMediaHandle, "handle %q", handle)
	}
}

func TestParseMediaHandleRejectsTrailingGarbage(t *testing.T) {
	// The split happens on the first separator, so anything after it must
	// be a bare message id.
	_, _, err := ParseMediaHandle("123_456_789")
	assert.ErrorIs(t, err, ErrMalformedMediaHandle)
}
