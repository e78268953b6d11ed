package models

// Channel represents a broadcast channel the user is subscribed to.
//
// ID is the stable dialog-derived identifier used everywhere in the API
// (URLs, folder membership, media handles). It is not the raw Telegram
// channel id.
type Channel struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Username          string `json:"username,omitempty"`
	Photo             string `json:"photo,omitempty"`
	ParticipantsCount int    `json:"participants_count"`
	IsChannel         bool   `json:"is_channel"`
	IsGroup           bool   `json:"is_group"`
}
