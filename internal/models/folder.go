package models

// Folder is a user-defined named subset of channel subscriptions, sourced
// from Telegram dialog filters. ChannelIDs use the stable Channel identifier
// space, already translated from the raw filter peer ids.
type Folder struct {
	ID         int      `json:"id"`
	Title      string   `json:"title"`
	Emoticon   string   `json:"emoticon,omitempty"`
	ChannelIDs []string `json:"channel_ids"`
}
