package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-service/internal/session"
)

// CookieName carries the opaque session id.
const CookieName = "feed_session"

// SessionContextKey is where the resolved session lives in the gin context.
const SessionContextKey = "session"

// AuthMiddleware resolves the session cookie against the store and rejects
// anything not fully logged in before a single backend call is made.
func AuthMiddleware(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(CookieName)
		if err != nil || id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		sess, err := store.Get(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
			return
		}

		if !sess.LoggedIn || len(sess.TelegramSession) == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		c.Set(SessionContextKey, sess)
		c.Next()
	}
}
