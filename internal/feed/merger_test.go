package feed

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"feed-service/internal/mocks"
	"feed-service/internal/telegram"
)

func broadcastDialog(rawID int64, title string) telegram.Dialog {
	return telegram.Dialog{
		ID:        telegram.DialogID(rawID),
		PeerID:    rawID,
		Title:     title,
		Broadcast: true,
	}
}

func TestMergeFeedOrdersAcrossChannels(t *testing.T) {
	chA := broadcastDialog(100, "alpha")
	chB := broadcastDialog(200, "beta")
	dir := BuildDirectory([]telegram.Dialog{chA, chB})

	client := new(mocks.ClientMock)
	client.On("History", mock.Anything, chA, telegram.HistoryRequest{Limit: 5}).
		Return([]telegram.Message{
			{ID: 90, Text: "a-newest", Date: 300},
			{ID: 89, Text: "a-middle", Date: 200},
			{ID: 88, Text: "a-oldest", Date: 100},
		}, nil).Once()
	client.On("History", mock.Anything, chB, telegram.HistoryRequest{Limit: 5}).
		Return([]telegram.Message{
			{ID: 50, Text: "b-newest", Date: 250},
			{ID: 49, Text: "b-oldest", Date: 50},
		}, nil).Once()

	msgs, nextBefore := MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 3, 0, nil)

	require.Len(t, msgs, 3)
	assert.Equal(t, 90, msgs[0].ID)
	assert.Equal(t, chA.StableID(), msgs[0].ChannelID)
	assert.Equal(t, 50, msgs[1].ID)
	assert.Equal(t, chB.StableID(), msgs[1].ChannelID)
	assert.Equal(t, 89, msgs[2].ID)
	assert.Equal(t, int64(200), nextBefore)
	client.AssertExpectations(t)
}

func TestMergeFeedPropagatesCursor(t *testing.T) {
	ch := broadcastDialog(100, "alpha")
	dir := BuildDirectory([]telegram.Dialog{ch})

	client := new(mocks.ClientMock)
	client.On("History", mock.Anything, ch, telegram.HistoryRequest{Limit: 5, OffsetDate: 200}).
		Return([]telegram.Message{{ID: 88, Date: 100}}, nil).Once()

	msgs, nextBefore := MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 20, 200, nil)

	require.Len(t, msgs, 1)
	assert.Equal(t, int64(100), nextBefore)
	client.AssertExpectations(t)
}

func TestMergeFeedCapsChannelFanOut(t *testing.T) {
	dialogs := make([]telegram.Dialog, 0, 20)
	for i := 0; i < 20; i++ {
		dialogs = append(dialogs, broadcastDialog(int64(1000+i), fmt.Sprintf("ch-%d", i)))
	}
	dir := BuildDirectory(dialogs)

	client := new(mocks.ClientMock)
	for _, ch := range dialogs[:15] {
		client.On("History", mock.Anything, ch, mock.Anything).
			Return([]telegram.Message{}, nil).Once()
	}

	MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 20, 0, nil)

	// Channels past the cap are never fetched.
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "History", 15)
}

func TestMergeFeedSkipsFailedChannels(t *testing.T) {
	chA := broadcastDialog(100, "alpha")
	chB := broadcastDialog(200, "beta")
	chC := broadcastDialog(300, "gamma")
	dir := BuildDirectory([]telegram.Dialog{chA, chB, chC})

	client := new(mocks.ClientMock)
	client.On("History", mock.Anything, chA, mock.Anything).
		Return([]telegram.Message{{ID: 10, Date: 300}}, nil).Once()
	client.On("History", mock.Anything, chB, mock.Anything).
		Return(nil, errors.New("FLOOD_WAIT_30")).Once()
	client.On("History", mock.Anything, chC, mock.Anything).
		Return([]telegram.Message{{ID: 20, Date: 100}}, nil).Once()

	msgs, nextBefore := MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 20, 0, nil)

	require.Len(t, msgs, 2)
	assert.Equal(t, chA.StableID(), msgs[0].ChannelID)
	assert.Equal(t, chC.StableID(), msgs[1].ChannelID)
	assert.Equal(t, int64(100), nextBefore)
	client.AssertExpectations(t)
}

func TestMergeFeedFiltersBySelectedChannels(t *testing.T) {
	chA := broadcastDialog(100, "alpha")
	chB := broadcastDialog(200, "beta")
	dir := BuildDirectory([]telegram.Dialog{chA, chB})

	client := new(mocks.ClientMock)
	client.On("History", mock.Anything, chB, mock.Anything).
		Return([]telegram.Message{{ID: 50, Date: 250}}, nil).Once()

	msgs, _ := MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 20, 0,
		map[string]bool{chB.StableID(): true})

	require.Len(t, msgs, 1)
	assert.Equal(t, chB.StableID(), msgs[0].ChannelID)
	client.AssertExpectations(t)
	client.AssertNumberOfCalls(t, "History", 1)
}

func TestMergeFeedEmptyPage(t *testing.T) {
	ch := broadcastDialog(100, "alpha")
	dir := BuildDirectory([]telegram.Dialog{ch})

	client := new(mocks.ClientMock)
	client.On("History", mock.Anything, ch, mock.Anything).
		Return([]telegram.Message{}, nil).Once()

	msgs, nextBefore := MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 20, 0, nil)

	assert.NotNil(t, msgs)
	assert.Empty(t, msgs)
	assert.Zero(t, nextBefore)
}

func TestMergeFeedTruncatesToLimit(t *testing.T) {
	ch := broadcastDialog(100, "alpha")
	dir := BuildDirectory([]telegram.Dialog{ch})

	client := new(mocks.ClientMock)
	client.On("History", mock.Anything, ch, mock.Anything).
		Return([]telegram.Message{
			{ID: 5, Date: 500},
			{ID: 4, Date: 400},
			{ID: 3, Date: 300},
		}, nil).Once()

	msgs, nextBefore := MergeFeed(context.Background(), client, dir, DefaultMergePolicy(), 2, 0, nil)

	require.Len(t, msgs, 2)
	assert.Equal(t, 5, msgs[0].ID)
	assert.Equal(t, 4, msgs[1].ID)
	assert.Equal(t, int64(400), nextBefore)
}
