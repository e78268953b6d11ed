package feed

import "errors"

var (
	// ErrUpstreamUnavailable wraps any backend connect or call failure at
	// directory, folder, or single-channel-page granularity.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrChannelNotFound means the stable channel id is not in the current
	// directory snapshot.
	ErrChannelNotFound = errors.New("channel not found")
	// ErrMediaNotFound means the referenced message, attachment, or avatar
	// is absent.
	ErrMediaNotFound = errors.New("media not found")
	// ErrMalformedMediaHandle means a composite media handle failed to
	// parse.
	ErrMalformedMediaHandle = errors.New("malformed media handle")
)
