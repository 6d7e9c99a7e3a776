package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"classifieds_message_service/internal/message/domain"
)

func newSyncFixture() (*SyncUseCase, *MockConversationRepository, *MockUserRepository, *MockMessageRepository, *MockPresenceRepository) {
	mockConvRepo := new(MockConversationRepository)
	mockUserRepo := new(MockUserRepository)
	mockMsgRepo := new(MockMessageRepository)
	mockPresRepo := new(MockPresenceRepository)

	messageUC := NewMessageUseCase(mockConvRepo, mockMsgRepo, mockPresRepo, new(MockNotifier))
	presenceUC := NewPresenceUseCase(mockPresRepo)
	syncUC := NewSyncUseCase(mockConvRepo, mockUserRepo, messageUC, presenceUC)

	return syncUC, mockConvRepo, mockUserRepo, mockMsgRepo, mockPresRepo
}

// 測試初次載入：對方資料 + 全部歷史 + 對方 presence，並刷新自己的 heartbeat
func TestSyncUseCase_FetchConversationView(t *testing.T) {
	ctx := context.Background()
	conv := testConversation("user-alice", "user-bob")
	history := []domain.Message{
		{ID: "m1", ConversationID: conv.ID, SenderID: "user-alice", ReceiverID: "user-bob", Content: "hi"},
	}

	syncUC, mockConvRepo, mockUserRepo, mockMsgRepo, mockPresRepo := newSyncFixture()

	mockConvRepo.On("FindByID", ctx, conv.ID).Return(conv, nil)
	mockUserRepo.On("FindByUserID", ctx, "user-alice").Return(&domain.User{UserID: "user-alice", Nickname: "Alice"}, nil)
	mockMsgRepo.On("ListSince", ctx, conv.ID, (*domain.MessageCursor)(nil)).Return(history, nil)
	mockPresRepo.On("Find", ctx, "user-alice").Return(&domain.PresenceRecord{UserID: "user-alice", LastActivity: time.Now()}, nil)
	// 輪詢本身也算活動
	mockPresRepo.On("Upsert", ctx, mock.MatchedBy(func(rec domain.PresenceRecord) bool {
		return rec.UserID == "user-bob"
	})).Return(nil)

	view, err := syncUC.FetchConversationView(ctx, conv.ID, "user-bob")

	assert.NoError(t, err)
	assert.Equal(t, conv.ID, view.ConversationID)
	assert.Equal(t, "Alice", view.OtherUser.Nickname)
	assert.Equal(t, history, view.Messages)
	assert.True(t, view.Presence.Online)
	mockPresRepo.AssertExpectations(t)
}

// 測試輪詢：只回 cursor 之後的訊息，presence 形狀跟初次載入一致
func TestSyncUseCase_FetchDelta(t *testing.T) {
	ctx := context.Background()
	conv := testConversation("user-alice", "user-bob")
	cursor := &domain.MessageCursor{After: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), AfterID: "m1"}
	delta := []domain.Message{{ID: "m2", ConversationID: conv.ID, SenderID: "user-alice"}}

	syncUC, mockConvRepo, _, mockMsgRepo, mockPresRepo := newSyncFixture()

	mockConvRepo.On("FindByID", ctx, conv.ID).Return(conv, nil)
	mockMsgRepo.On("ListSince", ctx, conv.ID, cursor).Return(delta, nil)
	mockPresRepo.On("Find", ctx, "user-alice").Return(nil, nil)
	mockPresRepo.On("Upsert", ctx, mock.Anything).Return(nil)

	view, err := syncUC.FetchDelta(ctx, conv.ID, "user-bob", cursor)

	assert.NoError(t, err)
	assert.Equal(t, delta, view.NewMessages)
	assert.False(t, view.Presence.Online)
	assert.Equal(t, "never", view.Presence.LastSeenLabel)
}

// 測試非成員輪詢被拒絕
func TestSyncUseCase_FetchDelta_Forbidden(t *testing.T) {
	ctx := context.Background()
	conv := testConversation("user-alice", "user-bob")

	syncUC, mockConvRepo, _, _, _ := newSyncFixture()
	mockConvRepo.On("FindByID", ctx, conv.ID).Return(conv, nil)

	_, err := syncUC.FetchDelta(ctx, conv.ID, "user-mallory", nil)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// 測試對話不存在
func TestSyncUseCase_FetchConversationView_NotFound(t *testing.T) {
	ctx := context.Background()

	syncUC, mockConvRepo, _, _, _ := newSyncFixture()
	mockConvRepo.On("FindByID", ctx, "missing").Return(nil, nil)

	_, err := syncUC.FetchConversationView(ctx, "missing", "user-bob")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
