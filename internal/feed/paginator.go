package feed

import (
	"context"
	"fmt"

	"feed-service/internal/models"
	"feed-service/internal/telegram"
)

// ChannelPage fetches one page of a single channel's history, newest first,
// strictly older than offsetID when given (zero means from the top).
//
// nextOffsetID is the id of the oldest message in the page, zero when the
// page is empty. A page shorter than limit signals exhaustion; requesting
// the next page with the returned cursor then yields nothing.
//
// Descending-id order is assumed to coincide with descending chronological
// order, which holds for append-only channel histories.
func ChannelPage(ctx context.Context, client telegram.Client, dir *Directory, channelID string, limit, offsetID int) ([]models.Message, int, error) {
	ch, ok := dir.Find(channelID)
	if !ok {
		return nil, 0, ErrChannelNotFound
	}

	raw, err := client.History(ctx, ch, telegram.HistoryRequest{
		Limit:    limit,
		OffsetID: offsetID,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	msgs := make([]models.Message, 0, len(raw))
	for _, m := range raw {
		msgs = append(msgs, buildMessage(m, ch))
	}

	nextOffsetID := 0
	if len(msgs) > 0 {
		nextOffsetID = msgs[len(msgs)-1].ID
	}
	return msgs, nextOffsetID, nil
}
