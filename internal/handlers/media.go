package handlers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-service/internal/feed"
)

// MediaHandler serves message attachments referenced by composite handles.
type MediaHandler struct {
	svc feed.API
}

// NewMediaHandler builds a MediaHandler.
func NewMediaHandler(svc feed.API) *MediaHandler {
	return &MediaHandler{svc: svc}
}

// GetMedia resolves a "<channelId>_<messageId>" handle and streams the
// attachment bytes under a content type derived from the media kind.
func (h *MediaHandler) GetMedia(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var buf bytes.Buffer
	contentType, err := h.svc.Media(c.Request.Context(), sess.TelegramSession, c.Param("mediaId"), &buf)
	if err != nil {
		c.Status(statusForFeedError(err))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
