package models

// MediaKind classifies a message attachment.
type MediaKind string

const (
	MediaNone     MediaKind = "none"
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// Entity is a rich-text formatting span over the message body.
//
// Offsets and lengths follow Telegram's UTF-16 code unit semantics and
// entities arrive ordered by ascending offset, non-overlapping.
type Entity struct {
	Type   string `json:"type"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	URL    string `json:"url,omitempty"`
}

// Message is one channel post. The numeric ID is unique only within its
// channel; cross-channel ordering is by Date.
type Message struct {
	ID              int       `json:"id"`
	ChannelID       string    `json:"channel_id"`
	ChannelTitle    string    `json:"channel_title"`
	ChannelUsername string    `json:"channel_username,omitempty"`
	Text            string    `json:"text"`
	Date            int64     `json:"date"`
	Views           *int      `json:"views"`
	Forwards        *int      `json:"forwards"`
	Replies         *int      `json:"replies"`
	HasMedia        bool      `json:"has_media"`
	MediaType       MediaKind `json:"media_type"`
	MediaID         string    `json:"media_id,omitempty"`
	Entities        []Entity  `json:"entities"`
}
