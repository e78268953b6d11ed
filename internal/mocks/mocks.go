package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"feed-service/internal/models"
	"feed-service/internal/session"
	"feed-service/internal/telegram"
)

type FeedServiceMock struct {
	mock.Mock
	mediaBodies map[string][]byte
}

func (m *FeedServiceMock) ListChannels(ctx context.Context, sessionBlob []byte) ([]models.Channel, error) {
	args := m.Called(ctx, sessionBlob)
	var channels []models.Channel
	if val := args.Get(0); val != nil {
		channels = val.([]models.Channel)
	}
	return channels, args.Error(1)
}

func (m *FeedServiceMock) GetChannel(ctx context.Context, sessionBlob []byte, channelID string) (models.Channel, error) {
	args := m.Called(ctx, sessionBlob, channelID)
	var channel models.Channel
	if val := args.Get(0); val != nil {
		channel = val.(models.Channel)
	}
	return channel, args.Error(1)
}

func (m *FeedServiceMock) ChannelPage(ctx context.Context, sessionBlob []byte, channelID string, limit, offsetID int) ([]models.Message, int, error) {
	args := m.Called(ctx, sessionBlob, channelID, limit, offsetID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Int(1), args.Error(2)
}

func (m *FeedServiceMock) FeedPage(ctx context.Context, sessionBlob []byte, limit int, before int64, filterIDs map[string]bool) ([]models.Message, int64, error) {
	args := m.Called(ctx, sessionBlob, limit, before, filterIDs)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Get(1).(int64), args.Error(2)
}

func (m *FeedServiceMock) Folders(ctx context.Context, sessionBlob []byte) ([]models.Folder, error) {
	args := m.Called(ctx, sessionBlob)
	var folders []models.Folder
	if val := args.Get(0); val != nil {
		folders = val.([]models.Folder)
	}
	return folders, args.Error(1)
}

func (m *FeedServiceMock) Media(ctx context.Context, sessionBlob []byte, handle string, w io.Writer) (string, error) {
	args := m.Called(ctx, sessionBlob, handle, w)
	if body, ok := m.mediaBodies[handle]; ok && args.Error(1) == nil {
		_, _ = w.Write(body)
	}
	return args.String(0), args.Error(1)
}

// SetMediaBody makes the mock write body into the media writer for handle.
func (m *FeedServiceMock) SetMediaBody(handle string, body []byte) {
	if m.mediaBodies == nil {
		m.mediaBodies = map[string][]byte{}
	}
	m.mediaBodies[handle] = body
}

func (m *FeedServiceMock) Avatar(ctx context.Context, sessionBlob []byte, channelID string, w io.Writer) error {
	args := m.Called(ctx, sessionBlob, channelID, w)
	if body, ok := m.mediaBodies[channelID]; ok && args.Error(0) == nil {
		_, _ = w.Write(body)
	}
	return args.Error(0)
}

type SessionStoreMock struct {
	mock.Mock
}

func (m *SessionStoreMock) Create(ctx context.Context) (session.Session, error) {
	args := m.Called(ctx)
	var sess session.Session
	if val := args.Get(0); val != nil {
		sess = val.(session.Session)
	}
	return sess, args.Error(1)
}

func (m *SessionStoreMock) Get(ctx context.Context, id string) (session.Session, error) {
	args := m.Called(ctx, id)
	var sess session.Session
	if val := args.Get(0); val != nil {
		sess = val.(session.Session)
	}
	return sess, args.Error(1)
}

func (m *SessionStoreMock) Save(ctx context.Context, sess session.Session) error {
	args := m.Called(ctx, sess)
	return args.Error(0)
}

func (m *SessionStoreMock) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type AuthenticatorMock struct {
	mock.Mock
}

func (m *AuthenticatorMock) SendCode(ctx context.Context, phone string) (string, []byte, error) {
	args := m.Called(ctx, phone)
	var blob []byte
	if val := args.Get(1); val != nil {
		blob = val.([]byte)
	}
	return args.String(0), blob, args.Error(2)
}

func (m *AuthenticatorMock) VerifyCode(ctx context.Context, sessionBlob []byte, phone, code, codeHash string) (telegram.AuthResult, error) {
	args := m.Called(ctx, sessionBlob, phone, code, codeHash)
	var res telegram.AuthResult
	if val := args.Get(0); val != nil {
		res = val.(telegram.AuthResult)
	}
	return res, args.Error(1)
}

func (m *AuthenticatorMock) CheckPassword(ctx context.Context, sessionBlob []byte, password string) (telegram.AuthResult, error) {
	args := m.Called(ctx, sessionBlob, password)
	var res telegram.AuthResult
	if val := args.Get(0); val != nil {
		res = val.(telegram.AuthResult)
	}
	return res, args.Error(1)
}

// ConnectorMock hands fn the embedded Client unless an error is stubbed.
type ConnectorMock struct {
	mock.Mock
	Client telegram.Client
}

func (m *ConnectorMock) WithClient(ctx context.Context, sessionBlob []byte, fn func(ctx context.Context, client telegram.Client) error) error {
	args := m.Called(ctx, sessionBlob)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Client)
}

type ClientMock struct {
	mock.Mock
}

func (m *ClientMock) Dialogs(ctx context.Context) ([]telegram.Dialog, error) {
	args := m.Called(ctx)
	var dialogs []telegram.Dialog
	if val := args.Get(0); val != nil {
		dialogs = val.([]telegram.Dialog)
	}
	return dialogs, args.Error(1)
}

func (m *ClientMock) History(ctx context.Context, ch telegram.Dialog, req telegram.HistoryRequest) ([]telegram.Message, error) {
	args := m.Called(ctx, ch, req)
	var msgs []telegram.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]telegram.Message)
	}
	return msgs, args.Error(1)
}

func (m *ClientMock) DialogFilters(ctx context.Context) ([]telegram.Filter, error) {
	args := m.Called(ctx)
	var filters []telegram.Filter
	if val := args.Get(0); val != nil {
		filters = val.([]telegram.Filter)
	}
	return filters, args.Error(1)
}

func (m *ClientMock) DownloadMedia(ctx context.Context, ch telegram.Dialog, msgID int, w io.Writer) (telegram.MediaKind, error) {
	args := m.Called(ctx, ch, msgID, w)
	kind := telegram.MediaNone
	if val, ok := args.Get(0).(telegram.MediaKind); ok {
		kind = val
	}
	return kind, args.Error(1)
}

func (m *ClientMock) DownloadAvatar(ctx context.Context, ch telegram.Dialog, w io.Writer) error {
	args := m.Called(ctx, ch, w)
	return args.Error(0)
}
