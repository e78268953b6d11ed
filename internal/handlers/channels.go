package handlers

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"feed-service/internal/feed"
)

// ChannelHandler serves the channel directory and per-channel timelines.
type ChannelHandler struct {
	svc feed.API
}

// NewChannelHandler builds a ChannelHandler.
func NewChannelHandler(svc feed.API) *ChannelHandler {
	return &ChannelHandler{svc: svc}
}

// ListChannels returns the user's broadcast channels in dialog order.
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	channels, err := h.svc.ListChannels(c.Request.Context(), sess.TelegramSession)
	if err != nil {
		c.JSON(statusForFeedError(err), gin.H{"error": "failed to load channels"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}

// GetChannel returns one channel by its stable id.
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	channel, err := h.svc.GetChannel(c.Request.Context(), sess.TelegramSession, c.Param("id"))
	if err != nil {
		c.JSON(statusForFeedError(err), gin.H{"error": "channel not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channel": channel})
}

// GetChannelMessages returns one page of a channel's timeline, newest
// first, strictly older than the offsetId cursor when given.
func (h *ChannelHandler) GetChannelMessages(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	offsetID := 0
	if raw := c.Query("offsetId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid offsetId"})
			return
		}
		offsetID = parsed
	}

	msgs, nextOffsetID, err := h.svc.ChannelPage(c.Request.Context(), sess.TelegramSession, c.Param("id"), pageLimit(c), offsetID)
	if err != nil {
		c.JSON(statusForFeedError(err), gin.H{"error": "failed to load messages"})
		return
	}

	resp := gin.H{"messages": msgs, "next_offset_id": nil}
	if nextOffsetID > 0 {
		resp["next_offset_id"] = nextOffsetID
	}
	c.JSON(http.StatusOK, resp)
}

// GetChannelPhoto streams the channel's avatar.
func (h *ChannelHandler) GetChannelPhoto(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Avatar(c.Request.Context(), sess.TelegramSession, c.Param("id"), &buf); err != nil {
		c.Status(statusForFeedError(err))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, "image/jpeg", buf.Bytes())
}
