package feed

import (
	"context"
	"log"
	"sort"
	"sync"

	"feed-service/internal/models"
	"feed-service/internal/observability"
	"feed-service/internal/telegram"
)

// MergePolicy bounds the feed fan-out. With the defaults a feed page costs
// at most MaxChannels history calls regardless of subscription count, at
// most BatchSize of them in flight at once.
type MergePolicy struct {
	// MaxChannels caps how many channels contribute to a page; channels
	// beyond this rank in dialog order never appear in the merged feed.
	MaxChannels int
	// BatchSize is the concurrent fetch window. Batches run sequentially,
	// channels within a batch in parallel.
	BatchSize int
	// PerChannelLimit caps messages fetched per channel per page. A channel
	// posting more often than this since the cursor has older posts pushed
	// behind the next page.
	PerChannelLimit int
}

// DefaultMergePolicy mirrors the 15/5/5 bounds the service shipped with.
func DefaultMergePolicy() MergePolicy {
	return MergePolicy{MaxChannels: 15, BatchSize: 5, PerChannelLimit: 5}
}

// MergeFeed fans out over the directory's broadcast channels (optionally
// intersected with filterIDs), fetches each channel's most recent messages
// older than before (zero means newest), and merges everything into one
// date-descending page.
//
// A channel whose fetch fails contributes nothing; partial results are
// preferred over failing the page. Ties in the sort keep concatenation
// order: batch order, then per-channel fetch order.
//
// nextBefore is the timestamp of the oldest message in the page, zero when
// the page is empty.
func MergeFeed(ctx context.Context, client telegram.Client, dir *Directory, policy MergePolicy, limit int, before int64, filterIDs map[string]bool) ([]models.Message, int64) {
	selected := make([]telegram.Dialog, 0, policy.MaxChannels)
	for _, ch := range dir.Channels() {
		if filterIDs != nil && !filterIDs[ch.StableID()] {
			continue
		}
		selected = append(selected, ch)
		if len(selected) == policy.MaxChannels {
			break
		}
	}

	results := make([][]models.Message, len(selected))
	for start := 0; start < len(selected); start += policy.BatchSize {
		end := min(start+policy.BatchSize, len(selected))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				ch := selected[i]
				raw, err := client.History(ctx, ch, telegram.HistoryRequest{
					Limit:      policy.PerChannelLimit,
					OffsetDate: before,
				})
				if err != nil {
					observability.IncFeedChannelFailure()
					log.Printf("feed: skipping channel %s: %v", ch.StableID(), err)
					return
				}
				page := make([]models.Message, 0, len(raw))
				for _, m := range raw {
					page = append(page, buildMessage(m, ch))
				}
				results[i] = page
			}(i)
		}
		wg.Wait()
	}

	merged := make([]models.Message, 0, len(selected)*policy.PerChannelLimit)
	for _, page := range results {
		merged = append(merged, page...)
	}

	sort.SliceStable(merged, func(a, b int) bool {
		return merged[a].Date > merged[b].Date
	})
	if len(merged) > limit {
		merged = merged[:limit]
	}

	var nextBefore int64
	if len(merged) > 0 {
		nextBefore = merged[len(merged)-1].Date
	}
	return merged, nextBefore
}
