package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"feed-service/internal/middleware"
	"feed-service/internal/session"
	"feed-service/internal/telegram"
	"feed-service/internal/telemetry"
)

// cookieMaxAge keeps the session cookie for 30 days.
const cookieMaxAge = 30 * 24 * 60 * 60

// AuthHandler manages the phone-number login flow.
type AuthHandler struct {
	store   session.Store
	auth    telegram.Authenticator
	emitter *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(store session.Store, auth telegram.Authenticator, emitter *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{store: store, auth: auth, emitter: emitter}
}

// SendCode asks Telegram to text a login code and parks the pending auth
// state in a fresh or existing session.
func (h *AuthHandler) SendCode(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "phone number required"})
		return
	}

	sess, err := h.loadOrCreateSession(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}

	codeHash, blob, err := h.auth.SendCode(c.Request.Context(), req.Phone)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	sess.Phone = req.Phone
	sess.PhoneCodeHash = codeHash
	sess.TelegramSession = blob
	sess.LoggedIn = false
	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// VerifyCode completes sign-in with the texted code, or reports that the
// account still needs its 2FA password.
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code required"})
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if sess.Phone == "" || sess.PhoneCodeHash == "" || len(sess.TelegramSession) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pending auth"})
		return
	}

	result, err := h.auth.VerifyCode(c.Request.Context(), sess.TelegramSession, sess.Phone, req.Code, sess.PhoneCodeHash)
	if err != nil {
		h.emitter.Emit(c.Request.Context(), "WARN", "login code rejected", requestIDFromContext(c), sess.ID, nil)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if result.NeedsPassword {
		sess.TelegramSession = result.SessionBlob
		sess.PhoneCodeHash = ""
		if err := h.store.Save(c.Request.Context(), sess); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "needs_password": true})
		return
	}

	h.completeLogin(c, sess, result)
}

// CheckPassword finishes a 2FA login.
func (h *AuthHandler) CheckPassword(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}

	sess, ok := h.loadSession(c)
	if !ok {
		return
	}
	if len(sess.TelegramSession) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pending auth"})
		return
	}

	result, err := h.auth.CheckPassword(c.Request.Context(), sess.TelegramSession, req.Password)
	if err != nil {
		h.emitter.Emit(c.Request.Context(), "WARN", "2fa password rejected", requestIDFromContext(c), sess.ID, nil)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	h.completeLogin(c, sess, result)
}

// Me reports the current login state.
func (h *AuthHandler) Me(c *gin.Context) {
	id, err := c.Cookie(middleware.CookieName)
	if err != nil || id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"is_logged_in": false})
		return
	}

	sess, err := h.store.Get(c.Request.Context(), id)
	if err != nil || !sess.LoggedIn {
		c.JSON(http.StatusUnauthorized, gin.H{"is_logged_in": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"is_logged_in": true,
		"user_id":      sess.UserID,
		"first_name":   sess.FirstName,
	})
}

// Logout destroys the server-side session.
func (h *AuthHandler) Logout(c *gin.Context) {
	id, err := c.Cookie(middleware.CookieName)
	if err == nil && id != "" {
		if err := h.store.Delete(c.Request.Context(), id); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete session"})
			return
		}
		h.emitter.Emit(c.Request.Context(), "INFO", "logout", requestIDFromContext(c), id, nil)
	}
	h.setCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) completeLogin(c *gin.Context, sess session.Session, result telegram.AuthResult) {
	sess.TelegramSession = result.SessionBlob
	sess.UserID = result.UserID
	sess.FirstName = result.FirstName
	sess.PhoneCodeHash = ""
	sess.LoggedIn = true
	if err := h.store.Save(c.Request.Context(), sess); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save session"})
		return
	}

	userID := result.UserID
	h.emitter.Emit(c.Request.Context(), "INFO", "login", requestIDFromContext(c), sess.ID, &userID)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": gin.H{"first_name": result.FirstName}})
}

// loadSession fetches the session named by the cookie, writing the error
// response itself when there is none.
func (h *AuthHandler) loadSession(c *gin.Context) (session.Session, bool) {
	id, err := c.Cookie(middleware.CookieName)
	if err != nil || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no pending auth"})
		return session.Session{}, false
	}

	sess, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no pending auth"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load session"})
		}
		return session.Session{}, false
	}
	return sess, true
}

func (h *AuthHandler) loadOrCreateSession(c *gin.Context) (session.Session, error) {
	if id, err := c.Cookie(middleware.CookieName); err == nil && id != "" {
		sess, err := h.store.Get(c.Request.Context(), id)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, session.ErrSessionNotFound) {
			return session.Session{}, err
		}
	}

	sess, err := h.store.Create(c.Request.Context())
	if err != nil {
		return session.Session{}, err
	}
	h.setCookie(c, sess.ID, cookieMaxAge)
	return sess, nil
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", false, true)
}
