package handlers

import (
	"encoding/json"
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
	"feed-service/internal/models"
	"feed-service/internal/session"
)

func setupFeedRouter(handler *FeedHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, session.Session{
			LoggedIn:        true,
			TelegramSession: []byte("blob"),
		})
		c.Next()
	})
	r.GET("/feed", handler.GetFeed)
	return r
}

func TestGetFeedSuccess(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupFeedRouter(NewFeedHandler(svc))

	svc.On("FeedPage", mock.Anything, []byte("blob"), 20, int64(0), (map[string]bool)(nil)).
		Return([]models.Message{
			{ID: 90, ChannelID: "-1000000000100", Date: 300},
			{ID: 50, ChannelID: "-1000000000200", Date: 250},
		}, int64(250), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(250), resp["next_before"])
	assert.Len(t, resp["messages"], 2)
	svc.AssertExpectations(t)
}

func TestGetFeedPassesCursorAndFilter(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupFeedRouter(NewFeedHandler(svc))

	filter := map[string]bool{"-1000000000100": true, "-1000000000200": true}
	svc.On("FeedPage", mock.Anything, []byte("blob"), 10, int64(250), filter).
		Return([]models.Message{}, int64(0), nil).Once()

	req := httptest.NewRequest(http.MethodGet,
		"/feed?limit=10&before=250&channelIds=-1000000000100,-1000000000200", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Nil(t, resp["next_before"])
	svc.AssertExpectations(t)
}

func TestGetFeedBadCursor(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupFeedRouter(NewFeedHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/feed?before=yesterday", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "FeedPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetFeedUpstreamError(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupFeedRouter(NewFeedHandler(svc))

	svc.On("FeedPage", mock.Anything, []byte("blob"), 20, int64(0), (map[string]bool)(nil)).
		Return(([]models.Message)(nil), int64(0), feed.ErrUpstreamUnavailable).Once()

	req := httptest.NewRequest(http.MethodGet, "/feed", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	svc.AssertExpectations(t)
}
