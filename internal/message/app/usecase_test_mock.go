package app

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"classifieds_message_service/internal/message/domain"
)

// MockConversationRepository Mock ConversationRepository
type MockConversationRepository struct {
	mock.Mock
}

// Insert moke insert conversation
func (m *MockConversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}

// FindByPair moke find conversation by canonical pair
func (m *MockConversationRepository) FindByPair(ctx context.Context, low, high string) (*domain.Conversation, error) {
	args := m.Called(ctx, low, high)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// FindByID moke find conversation by id
func (m *MockConversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}

// UpdateSummary moke update conversation summary pointer
func (m *MockConversationRepository) UpdateSummary(ctx context.Context, conversationID, lastMessageID string, updatedAt time.Time) error {
	args := m.Called(ctx, conversationID, lastMessageID, updatedAt)
	return args.Error(0)
}

// MockMessageRepository Mock MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

// Insert moke insert message
func (m *MockMessageRepository) Insert(ctx context.Context, msg *domain.Message) (bool, error) {
	args := m.Called(ctx, msg)
	return args.Bool(0), args.Error(1)
}

// FindByID moke find message by id
func (m *MockMessageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	args := m.Called(ctx, messageID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// ListSince moke list messages after cursor
func (m *MockMessageRepository) ListSince(ctx context.Context, conversationID string, cursor *domain.MessageCursor) ([]domain.Message, error) {
	args := m.Called(ctx, conversationID, cursor)
	if args.Get(0) != nil {
		return args.Get(0).([]domain.Message), args.Error(1)
	}
	return nil, args.Error(1)
}

// MarkRead moke flip unread to read
func (m *MockMessageRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	args := m.Called(ctx, conversationID, readerID)
	return args.Get(0).(int64), args.Error(1)
}

// MockUserRepository Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

// FindByUserID moke find user
func (m *MockUserRepository) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockPresenceRepository Mock PresenceRepository
type MockPresenceRepository struct {
	mock.Mock
}

// Upsert moke write heartbeat
func (m *MockPresenceRepository) Upsert(ctx context.Context, rec domain.PresenceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

// Find moke find heartbeat record
func (m *MockPresenceRepository) Find(ctx context.Context, userID string) (*domain.PresenceRecord, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.PresenceRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockNotifier Mock Notifier
type MockNotifier struct {
	mock.Mock
}

// NotifyNewMessage moke best-effort notify
func (m *MockNotifier) NotifyNewMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
