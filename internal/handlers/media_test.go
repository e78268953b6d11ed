package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-service/internal/feed"
	"feed-service/internal/middleware"
	"feed-service/internal/mocks"
	"feed-service/internal/session"
)

func setupMediaRouter(handler *MediaHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, session.Session{
			LoggedIn:        true,
			TelegramSession: []byte("blob"),
		})
		c.Next()
	})
	r.GET("/media/:mediaId", handler.GetMedia)
	return r
}

func TestGetMediaSuccess(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupMediaRouter(NewMediaHandler(svc))

	svc.SetMediaBody("-1000000000100_77", []byte("video-bytes"))
	svc.On("Media", mock.Anything, []byte("blob"), "-1000000000100_77", mock.Anything).
		Return("video/mp4", nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/media/-1000000000100_77", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "video/mp4", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "video-bytes", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestGetMediaMalformedHandle(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupMediaRouter(NewMediaHandler(svc))

	svc.On("Media", mock.Anything, []byte("blob"), "garbage", mock.Anything).
		Return("", feed.ErrMalformedMediaHandle).Once()

	req := httptest.NewRequest(http.MethodGet, "/media/garbage", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetMediaNotFound(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupMediaRouter(NewMediaHandler(svc))

	svc.On("Media", mock.Anything, []byte("blob"), "-1000000000100_404", mock.Anything).
		Return("", feed.ErrMediaNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/media/-1000000000100_404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
