package feed

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"

	"feed-service/internal/models"
	"feed-service/internal/telegram"
)

// Service executes feed operations. Every call opens its own backend
// connection through the connector and releases it before returning; no
// state survives between calls.
type Service struct {
	connector telegram.Connector
	policy    MergePolicy
}

// NewService builds a Service with the given fan-out policy.
func NewService(connector telegram.Connector, policy MergePolicy) *Service {
	return &Service{connector: connector, policy: policy}
}

// ListChannels returns the user's broadcast channels in dialog order.
func (s *Service) ListChannels(ctx context.Context, sessionBlob []byte) ([]models.Channel, error) {
	var out []models.Channel
	err := s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		out = make([]models.Channel, 0, len(dir.Channels()))
		for _, ch := range dir.Channels() {
			out = append(out, ChannelModel(ch))
		}
		return nil
	})
	return out, asUpstream(err)
}

// GetChannel looks up one channel by its stable id.
func (s *Service) GetChannel(ctx context.Context, sessionBlob []byte, channelID string) (models.Channel, error) {
	var out models.Channel
	err := s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		ch, ok := dir.Find(channelID)
		if !ok {
			return ErrChannelNotFound
		}
		out = ChannelModel(ch)
		return nil
	})
	return out, asUpstream(err)
}

// ChannelPage returns one page of a single channel's timeline.
func (s *Service) ChannelPage(ctx context.Context, sessionBlob []byte, channelID string, limit, offsetID int) ([]models.Message, int, error) {
	var (
		msgs []models.Message
		next int
	)
	err := s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		msgs, next, err = ChannelPage(ctx, client, dir, channelID, limit, offsetID)
		return err
	})
	return msgs, next, asUpstream(err)
}

// FeedPage returns one page of the merged cross-channel feed, optionally
// restricted to the channel ids in filterIDs.
func (s *Service) FeedPage(ctx context.Context, sessionBlob []byte, limit int, before int64, filterIDs map[string]bool) ([]models.Message, int64, error) {
	var (
		msgs []models.Message
		next int64
	)
	err := s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		ctx, span := otel.Tracer("feed-service/feed").Start(ctx, "feed.merge")
		defer span.End()

		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		msgs, next = MergeFeed(ctx, client, dir, s.policy, limit, before, filterIDs)
		return nil
	})
	return msgs, next, asUpstream(err)
}

// Folders returns the user's non-empty channel folders.
func (s *Service) Folders(ctx context.Context, sessionBlob []byte) ([]models.Folder, error) {
	var out []models.Folder
	err := s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		filters, err := client.DialogFilters(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		out = ResolveFolders(filters, dir)
		return nil
	})
	return out, asUpstream(err)
}

// Media resolves a composite media handle, streams the attachment bytes
// into w, and returns the content type to serve them under.
func (s *Service) Media(ctx context.Context, sessionBlob []byte, handle string, w io.Writer) (string, error) {
	channelID, messageID, err := ParseMediaHandle(handle)
	if err != nil {
		return "", err
	}

	var contentType string
	err = s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		ch, ok := dir.Find(channelID)
		if !ok {
			return ErrMediaNotFound
		}
		kind, err := client.DownloadMedia(ctx, ch, messageID, w)
		if err != nil {
			if errors.Is(err, telegram.ErrNotFound) || errors.Is(err, telegram.ErrNoMedia) {
				return ErrMediaNotFound
			}
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		contentType = ContentType(models.MediaKind(kind))
		return nil
	})
	return contentType, asUpstream(err)
}

// Avatar streams a channel's profile photo into w.
func (s *Service) Avatar(ctx context.Context, sessionBlob []byte, channelID string, w io.Writer) error {
	err := s.connector.WithClient(ctx, sessionBlob, func(ctx context.Context, client telegram.Client) error {
		dir, err := fetchDirectory(ctx, client)
		if err != nil {
			return err
		}
		ch, ok := dir.Find(channelID)
		if !ok {
			return ErrChannelNotFound
		}
		if err := client.DownloadAvatar(ctx, ch, w); err != nil {
			if errors.Is(err, telegram.ErrNotFound) {
				return ErrMediaNotFound
			}
			return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
		}
		return nil
	})
	return asUpstream(err)
}

// ContentType maps a media classification to the type its bytes are served
// under.
func ContentType(kind models.MediaKind) string {
	switch kind {
	case models.MediaPhoto:
		return "image/jpeg"
	case models.MediaVideo:
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}

func fetchDirectory(ctx context.Context, client telegram.Client) (*Directory, error) {
	dialogs, err := client.Dialogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	return BuildDirectory(dialogs), nil
}

// asUpstream folds connection-level failures into the upstream error class
// while letting the service's own sentinels through untouched.
func asUpstream(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrUpstreamUnavailable),
		errors.Is(err, ErrChannelNotFound),
		errors.Is(err, ErrMediaNotFound),
		errors.Is(err, ErrMalformedMediaHandle):
		return err
	}
	return fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
}
