package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-service/internal/feed"
)

// FolderHandler serves the user's channel folders.
type FolderHandler struct {
	svc feed.API
}

// NewFolderHandler builds a FolderHandler.
func NewFolderHandler(svc feed.API) *FolderHandler {
	return &FolderHandler{svc: svc}
}

// ListFolders returns the user's folders with members translated into the
// stable channel id space. Folders with no resolvable broadcast member are
// already pruned.
func (h *FolderHandler) ListFolders(c *gin.Context) {
	sess, ok := sessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	folders, err := h.svc.Folders(c.Request.Context(), sess.TelegramSession)
	if err != nil {
		c.JSON(statusForFeedError(err), gin.H{"error": "failed to load folders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"folders": folders})
}
