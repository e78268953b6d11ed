// Package telegram wraps the MTProto client behind a narrow interface.
//
// Raw TL unions are decoded into the flat records below at this boundary and
// never propagate further into the application.
package telegram

import (
	"context"
	"io"
	"strconv"
)

// dialogBase is the offset between a raw channel id and its bot-API style
// dialog id (-100 prefix convention).
const dialogBase = 1000000000000

// Dialog is a normalized conversation from the user's dialog list.
type Dialog struct {
	// ID is the signed composite dialog id (-100<raw id>). Its decimal
	// string form is the stable channel identifier used in the API.
	ID int64
	// PeerID is the raw channel id, the numbering used by dialog filters.
	PeerID     int64
	AccessHash int64
	Title      string
	Username   string
	Broadcast  bool
	Megagroup  bool
	// Participants is zero when the server omits the count.
	Participants int
	// PhotoID is the id of the current profile photo, zero when unset.
	PhotoID int64
}

// StableID returns the dialog id in its canonical string form.
func (d Dialog) StableID() string {
	return strconv.FormatInt(d.ID, 10)
}

// DialogID converts a raw channel id to its composite dialog id.
func DialogID(peerID int64) int64 {
	return -(dialogBase + peerID)
}

// Entity is a rich-text span over a message body, offsets in UTF-16 code
// units per Telegram convention.
type Entity struct {
	Type   string
	Offset int
	Length int
	URL    string
}

// MediaKind tags the attachment carried by a message.
type MediaKind string

const (
	MediaNone     MediaKind = "none"
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
)

// Message is a normalized channel post.
type Message struct {
	ID       int
	Text     string
	Date     int64
	Views    *int
	Forwards *int
	Replies  *int
	Media    MediaKind
	Entities []Entity
}

// Filter is a normalized dialog filter (folder). Titles are already reduced
// to plain text and included peers narrowed to raw channel ids; users,
// groups and exclusion lists are dropped during decoding.
type Filter struct {
	ID             int
	Title          string
	Emoticon       string
	ChannelPeerIDs []int64
}

// HistoryRequest bounds one history fetch. Zero OffsetID/OffsetDate mean
// "from the newest message".
type HistoryRequest struct {
	Limit      int
	OffsetID   int
	OffsetDate int64
}

// Client is the per-connection surface consumed by the feed core. Every
// method maps to one remote call.
type Client interface {
	// Dialogs returns the user's conversation list in native dialog order.
	Dialogs(ctx context.Context) ([]Dialog, error)
	// History returns up to req.Limit messages strictly older than the
	// offset, newest first.
	History(ctx context.Context, ch Dialog, req HistoryRequest) ([]Message, error)
	// DialogFilters returns the user's folder definitions.
	DialogFilters(ctx context.Context) ([]Filter, error)
	// DownloadMedia streams a message's attachment into w and reports its
	// kind. ErrNoMedia when the message exists but carries no attachment,
	// ErrNotFound when the message is absent.
	DownloadMedia(ctx context.Context, ch Dialog, msgID int, w io.Writer) (MediaKind, error)
	// DownloadAvatar streams the channel's profile photo into w.
	// ErrNotFound when the channel has no photo.
	DownloadAvatar(ctx context.Context, ch Dialog, w io.Writer) error
}

// Connector opens a backend connection for the duration of fn and releases
// it on every exit path. The session blob is the serialized MTProto session
// from the session store.
type Connector interface {
	WithClient(ctx context.Context, sessionBlob []byte, fn func(ctx context.Context, client Client) error) error
}
