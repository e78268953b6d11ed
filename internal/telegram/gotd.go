package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gotd/td/session"
	tgclient "github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/downloader"
	"github.com/gotd/td/tg"

	"feed-service/internal/observability"
)

var ErrNotFound = errors.New("not found")
var ErrNoMedia = errors.New("message has no media")

// dialogPageLimit caps one dialog-list fetch. Subscriptions beyond this are
// not surfaced, same trade-off the feed fan-out already makes.
const dialogPageLimit = 100

// GotdConnector dials Telegram with gotd for the duration of one request.
// Every WithClient call opens its own connection and closes it when fn
// returns, errors included.
type GotdConnector struct {
	appID   int
	appHash string
}

// NewConnector builds a GotdConnector from the application credentials.
func NewConnector(appID int, appHash string) *GotdConnector {
	return &GotdConnector{appID: appID, appHash: appHash}
}

func (c *GotdConnector) newClient(ctx context.Context, sessionBlob []byte) (*tgclient.Client, *session.StorageMemory, error) {
	storage := &session.StorageMemory{}
	if len(sessionBlob) > 0 {
		if err := storage.StoreSession(ctx, sessionBlob); err != nil {
			return nil, nil, fmt.Errorf("load session blob: %w", err)
		}
	}

	client := tgclient.NewClient(c.appID, c.appHash, tgclient.Options{
		SessionStorage: storage,
		MaxRetries:     5,
		RetryInterval:  time.Second,
	})
	return client, storage, nil
}

// WithClient runs fn over a connected client.
func (c *GotdConnector) WithClient(ctx context.Context, sessionBlob []byte, fn func(ctx context.Context, client Client) error) error {
	client, _, err := c.newClient(ctx, sessionBlob)
	if err != nil {
		return err
	}
	return client.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, &gotdClient{api: client.API()})
	})
}

type gotdClient struct {
	api *tg.Client
}

func (g *gotdClient) Dialogs(ctx context.Context) ([]Dialog, error) {
	resp, err := g.api.MessagesGetDialogs(ctx, &tg.MessagesGetDialogsRequest{
		OffsetPeer: &tg.InputPeerEmpty{},
		Limit:      dialogPageLimit,
	})
	observability.IncTelegramCall("messages.getDialogs", err)
	if err != nil {
		return nil, fmt.Errorf("get dialogs: %w", err)
	}

	modified, ok := resp.AsModified()
	if !ok {
		return nil, fmt.Errorf("unexpected dialogs response %T", resp)
	}

	channels := make(map[int64]*tg.Channel)
	for _, chat := range modified.GetChats() {
		if ch, ok := chat.(*tg.Channel); ok {
			channels[ch.ID] = ch
		}
	}

	var out []Dialog
	for _, d := range modified.GetDialogs() {
		dlg, ok := d.(*tg.Dialog)
		if !ok {
			continue
		}
		if decoded, ok := decodeDialog(dlg, channels); ok {
			out = append(out, decoded)
		}
	}
	return out, nil
}

func (g *gotdClient) History(ctx context.Context, ch Dialog, req HistoryRequest) ([]Message, error) {
	resp, err := g.api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
		Peer:       inputPeer(ch),
		OffsetID:   req.OffsetID,
		OffsetDate: int(req.OffsetDate),
		Limit:      req.Limit,
	})
	observability.IncTelegramCall("messages.getHistory", err)
	if err != nil {
		return nil, fmt.Errorf("get history: %w", err)
	}

	modified, ok := resp.AsModified()
	if !ok {
		return nil, fmt.Errorf("unexpected history response %T", resp)
	}

	raw := modified.GetMessages()
	out := make([]Message, 0, len(raw))
	for _, m := range raw {
		// Service messages and holes are dropped, only real posts survive.
		if msg, ok := m.(*tg.Message); ok {
			out = append(out, decodeMessage(msg))
		}
	}
	return out, nil
}

func (g *gotdClient) DialogFilters(ctx context.Context) ([]Filter, error) {
	resp, err := g.api.MessagesGetDialogFilters(ctx)
	observability.IncTelegramCall("messages.getDialogFilters", err)
	if err != nil {
		return nil, fmt.Errorf("get dialog filters: %w", err)
	}

	out := make([]Filter, 0, len(resp.Filters))
	for _, f := range resp.Filters {
		// Default and chatlist variants carry no user folder data.
		df, ok := f.(*tg.DialogFilter)
		if !ok {
			continue
		}
		filter := Filter{ID: df.ID, Title: df.Title}
		if emoticon, ok := df.GetEmoticon(); ok {
			filter.Emoticon = emoticon
		}
		for _, p := range df.IncludePeers {
			if pc, ok := p.(*tg.InputPeerChannel); ok {
				filter.ChannelPeerIDs = append(filter.ChannelPeerIDs, pc.ChannelID)
			}
		}
		out = append(out, filter)
	}
	return out, nil
}

func (g *gotdClient) DownloadMedia(ctx context.Context, ch Dialog, msgID int, w io.Writer) (MediaKind, error) {
	resp, err := g.api.ChannelsGetMessages(ctx, &tg.ChannelsGetMessagesRequest{
		Channel: inputChannel(ch),
		ID:      []tg.InputMessageClass{&tg.InputMessageID{ID: msgID}},
	})
	observability.IncTelegramCall("channels.getMessages", err)
	if err != nil {
		return MediaNone, fmt.Errorf("get message: %w", err)
	}

	modified, ok := resp.AsModified()
	if !ok {
		return MediaNone, ErrNotFound
	}

	var target *tg.Message
	for _, m := range modified.GetMessages() {
		if msg, ok := m.(*tg.Message); ok && msg.ID == msgID {
			target = msg
			break
		}
	}
	if target == nil {
		return MediaNone, ErrNotFound
	}

	media, ok := target.GetMedia()
	if !ok {
		return MediaNone, ErrNoMedia
	}
	loc, ok := mediaLocation(media)
	if !ok {
		return MediaNone, ErrNoMedia
	}

	_, err = downloader.NewDownloader().Download(g.api, loc).Stream(ctx, w)
	observability.IncTelegramCall("upload.getFile", err)
	if err != nil {
		return MediaNone, fmt.Errorf("download media: %w", err)
	}
	return mediaKind(target), nil
}

func (g *gotdClient) DownloadAvatar(ctx context.Context, ch Dialog, w io.Writer) error {
	if ch.PhotoID == 0 {
		return ErrNotFound
	}

	loc := &tg.InputPeerPhotoFileLocation{
		Big:     true,
		Peer:    inputPeer(ch),
		PhotoID: ch.PhotoID,
	}
	_, err := downloader.NewDownloader().Download(g.api, loc).Stream(ctx, w)
	observability.IncTelegramCall("upload.getFile", err)
	if err != nil {
		return fmt.Errorf("download avatar: %w", err)
	}
	return nil
}

func inputPeer(ch Dialog) tg.InputPeerClass {
	return &tg.InputPeerChannel{ChannelID: ch.PeerID, AccessHash: ch.AccessHash}
}

func inputChannel(ch Dialog) tg.InputChannelClass {
	return &tg.InputChannel{ChannelID: ch.PeerID, AccessHash: ch.AccessHash}
}

func decodeDialog(d *tg.Dialog, channels map[int64]*tg.Channel) (Dialog, bool) {
	peer, ok := d.Peer.(*tg.PeerChannel)
	if !ok {
		return Dialog{}, false
	}
	ch, ok := channels[peer.ChannelID]
	if !ok {
		return Dialog{}, false
	}

	out := Dialog{
		ID:        DialogID(ch.ID),
		PeerID:    ch.ID,
		Title:     ch.Title,
		Broadcast: ch.Broadcast,
		Megagroup: ch.Megagroup,
	}
	if hash, ok := ch.GetAccessHash(); ok {
		out.AccessHash = hash
	}
	if username, ok := ch.GetUsername(); ok {
		out.Username = username
	}
	if count, ok := ch.GetParticipantsCount(); ok {
		out.Participants = count
	}
	if photo, ok := ch.Photo.(*tg.ChatPhoto); ok {
		out.PhotoID = photo.PhotoID
	}
	return out, true
}

func decodeMessage(m *tg.Message) Message {
	out := Message{
		ID:    m.ID,
		Text:  m.Message,
		Date:  int64(m.Date),
		Media: mediaKind(m),
	}
	if v, ok := m.GetViews(); ok {
		out.Views = &v
	}
	if v, ok := m.GetForwards(); ok {
		out.Forwards = &v
	}
	if r, ok := m.GetReplies(); ok {
		n := r.Replies
		out.Replies = &n
	}
	if entities, ok := m.GetEntities(); ok {
		for _, e := range entities {
			if decoded, ok := decodeEntity(e); ok {
				out.Entities = append(out.Entities, decoded)
			}
		}
	}
	return out
}

func decodeEntity(e tg.MessageEntityClass) (Entity, bool) {
	switch v := e.(type) {
	case *tg.MessageEntityBold:
		return Entity{Type: "bold", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityItalic:
		return Entity{Type: "italic", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityUnderline:
		return Entity{Type: "underline", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityStrike:
		return Entity{Type: "strikethrough", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityCode:
		return Entity{Type: "code", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityPre:
		return Entity{Type: "pre", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntitySpoiler:
		return Entity{Type: "spoiler", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityBlockquote:
		return Entity{Type: "blockquote", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityURL:
		return Entity{Type: "url", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityTextURL:
		return Entity{Type: "text_url", Offset: v.Offset, Length: v.Length, URL: v.URL}, true
	case *tg.MessageEntityMention:
		return Entity{Type: "mention", Offset: v.Offset, Length: v.Length}, true
	case *tg.MessageEntityHashtag:
		return Entity{Type: "hashtag", Offset: v.Offset, Length: v.Length}, true
	default:
		return Entity{}, false
	}
}

func mediaKind(m *tg.Message) MediaKind {
	media, ok := m.GetMedia()
	if !ok {
		return MediaNone
	}
	switch md := media.(type) {
	case *tg.MessageMediaPhoto:
		return MediaPhoto
	case *tg.MessageMediaDocument:
		docClass, ok := md.GetDocument()
		if !ok {
			return MediaDocument
		}
		doc, ok := docClass.AsNotEmpty()
		if !ok {
			return MediaDocument
		}
		for _, attr := range doc.Attributes {
			if _, ok := attr.(*tg.DocumentAttributeVideo); ok {
				return MediaVideo
			}
		}
		return MediaDocument
	default:
		return MediaNone
	}
}

func mediaLocation(media tg.MessageMediaClass) (tg.InputFileLocationClass, bool) {
	switch md := media.(type) {
	case *tg.MessageMediaPhoto:
		photoClass, ok := md.GetPhoto()
		if !ok {
			return nil, false
		}
		photo, ok := photoClass.AsNotEmpty()
		if !ok {
			return nil, false
		}
		return &tg.InputPhotoFileLocation{
			ID:            photo.ID,
			AccessHash:    photo.AccessHash,
			FileReference: photo.FileReference,
			ThumbSize:     largestPhotoSize(photo.Sizes),
		}, true
	case *tg.MessageMediaDocument:
		docClass, ok := md.GetDocument()
		if !ok {
			return nil, false
		}
		doc, ok := docClass.AsNotEmpty()
		if !ok {
			return nil, false
		}
		return &tg.InputDocumentFileLocation{
			ID:            doc.ID,
			AccessHash:    doc.AccessHash,
			FileReference: doc.FileReference,
		}, true
	default:
		return nil, false
	}
}

func largestPhotoSize(sizes []tg.PhotoSizeClass) string {
	best := ""
	bestSize := -1
	for _, s := range sizes {
		switch sz := s.(type) {
		case *tg.PhotoSize:
			if sz.Size > bestSize {
				bestSize = sz.Size
				best = sz.Type
			}
		case *tg.PhotoSizeProgressive:
			total := 0
			for _, b := range sz.Sizes {
				if b > total {
					total = b
				}
			}
			if total > bestSize {
				bestSize = total
				best = sz.Type
			}
		}
	}
	return best
}
