package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"feed-service/internal/feed"
	"feed-service/internal/middleware"
	"feed-service/internal/session"
)

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

const requestIDContextKey = "request_id"

func sessionFromContext(c *gin.Context) (session.Session, bool) {
	val, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := val.(session.Session)
	return sess, ok
}

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// pageLimit clamps the limit query parameter to [1, maxPageSize], falling
// back to the default on garbage.
func pageLimit(c *gin.Context) int {
	raw := c.DefaultQuery("limit", "")
	if raw == "" {
		return defaultPageSize
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

func statusForFeedError(err error) int {
	switch {
	case errors.Is(err, feed.ErrChannelNotFound), errors.Is(err, feed.ErrMediaNotFound):
		return http.StatusNotFound
	case errors.Is(err, feed.ErrMalformedMediaHandle):
		return http.StatusBadRequest
	case errors.Is(err, feed.ErrUpstreamUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
