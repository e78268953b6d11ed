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

func setupChannelRouter(handler *ChannelHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.SessionContextKey, session.Session{
			LoggedIn:        true,
			TelegramSession: []byte("blob"),
		})
		c.Next()
	})
	r.GET("/channels", handler.ListChannels)
	r.GET("/channels/:id", handler.GetChannel)
	r.GET("/channels/:id/messages", handler.GetChannelMessages)
	r.GET("/channels/:id/photo", handler.GetChannelPhoto)
	return r
}

func TestListChannelsSuccess(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("ListChannels", mock.Anything, []byte("blob")).
		Return([]models.Channel{{ID: "-1000000000100", Title: "news", IsChannel: true}}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Channels []models.Channel `json:"channels"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Channels, 1)
	assert.Equal(t, "news", resp.Channels[0].Title)
	svc.AssertExpectations(t)
}

func TestListChannelsUpstreamError(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("ListChannels", mock.Anything, []byte("blob")).
		Return(([]models.Channel)(nil), feed.ErrUpstreamUnavailable).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetChannelNotFound(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("GetChannel", mock.Anything, []byte("blob"), "-1000000000999").
		Return(models.Channel{}, feed.ErrChannelNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000999", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetChannelMessagesSuccess(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("ChannelPage", mock.Anything, []byte("blob"), "-1000000000100", 20, 0).
		Return([]models.Message{{ID: 30, ChannelID: "-1000000000100", Date: 300}}, 30, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000100/messages", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, float64(30), resp["next_offset_id"])
	svc.AssertExpectations(t)
}

func TestGetChannelMessagesPassesCursorAndLimit(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("ChannelPage", mock.Anything, []byte("blob"), "-1000000000100", 10, 30).
		Return([]models.Message{}, 0, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000100/messages?limit=10&offsetId=30", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	// An exhausted page carries no cursor.
	assert.Nil(t, resp["next_offset_id"])
	svc.AssertExpectations(t)
}

func TestGetChannelMessagesClampsLimit(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("ChannelPage", mock.Anything, []byte("blob"), "-1000000000100", 50, 0).
		Return([]models.Message{}, 0, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000100/messages?limit=500", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestGetChannelMessagesBadOffset(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000100/messages?offsetId=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "ChannelPage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetChannelPhoto(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.SetMediaBody("-1000000000100", []byte("jpeg-bytes"))
	svc.On("Avatar", mock.Anything, []byte("blob"), "-1000000000100", mock.Anything).
		Return(nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000100/photo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", rec.Header().Get("Cache-Control"))
	assert.Equal(t, "jpeg-bytes", rec.Body.String())
	svc.AssertExpectations(t)
}

func TestGetChannelPhotoMissing(t *testing.T) {
	svc := new(mocks.FeedServiceMock)
	router := setupChannelRouter(NewChannelHandler(svc))

	svc.On("Avatar", mock.Anything, []byte("blob"), "-1000000000100", mock.Anything).
		Return(feed.ErrMediaNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/channels/-1000000000100/photo", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	svc.AssertExpectations(t)
}
