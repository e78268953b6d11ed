package feed

import (
	"context"
	"io"

	"feed-service/internal/models"
)

// API is the operation surface the HTTP layer consumes.
type API interface {
	ListChannels(ctx context.Context, sessionBlob []byte) ([]models.Channel, error)
	GetChannel(ctx context.Context, sessionBlob []byte, channelID string) (models.Channel, error)
	ChannelPage(ctx context.Context, sessionBlob []byte, channelID string, limit, offsetID int) ([]models.Message, int, error)
	FeedPage(ctx context.Context, sessionBlob []byte, limit int, before int64, filterIDs map[string]bool) ([]models.Message, int64, error)
	Folders(ctx context.Context, sessionBlob []byte) ([]models.Folder, error)
	Media(ctx context.Context, sessionBlob []byte, handle string, w io.Writer) (string, error)
	Avatar(ctx context.Context, sessionBlob []byte, channelID string, w io.Writer) error
}

var _ API = (*Service)(nil)
