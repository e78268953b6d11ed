package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"feed-service/internal/feed"
)

// FeedHandler serves the merged cross-channel feed.
type FeedHandler struct {
	svc feed.API
}

// NewFeedHandler builds a FeedHandler.
func NewFeedHandler(svc feed.API) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// GetFeed returns one page of the merged feed, date descending. The
// `before` cursor restricts every channel to messages strictly older than
// that timestamp; `channelIds` narrows the fan-out to a folder's channels.
func (h *FeedHandler) GetFeed(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var before int64
	if raw := c.Query("before"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid before cursor"})
			return
		}
		before = parsed
	}

	var filterIDs map[string]bool
	if raw := c.Query("channelIds"); raw != "" {
		filterIDs = make(map[string]bool)
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				filterIDs[id] = true
			}
		}
	}

	msgs, nextBefore, err := h.svc.FeedPage(c.Request.Context(), sess.TelegramSession, pageLimit(c), before, filterIDs)
	if err != nil {
		c.JSON(statusForFeedError(err), gin.H{"error": "failed to load feed"})
		return
	}

	resp := gin.H{"messages": msgs, "next_before": nil}
	if nextBefore > 0 {
		resp["next_before"] = nextBefore
	}
	c.JSON(http.StatusOK, resp)
}
