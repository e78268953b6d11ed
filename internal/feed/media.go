package feed

import (
	"strconv"
	"strings"
)

const handleSeparator = "_"

// MediaHandle derives the composite identifier handed to the media endpoint
// for a message attachment: "<channelID>_<messageID>".
func MediaHandle(channelID string, messageID int) string {
	return channelID + handleSeparator + strconv.Itoa(messageID)
}

// ParseMediaHandle splits a composite handle on its first separator and
// returns the channel id and message id. ErrMalformedMediaHandle when the
// separator is missing or the message id is not a positive number.
func ParseMediaHandle(handle string) (string, int, error) {
	idx := strings.Index(handle, handleSeparator)
	if idx < 1 || idx == len(handle)-1 {
		return "", 0, ErrMalformedMediaHandle
	}
	messageID, err := strconv.Atoi(handle[idx+1:])
	if err != nil || messageID <= 0 {
		return "", 0, ErrMalformedMediaHandle
	}
	return handle[:idx], messageID, nil
}
