package unit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"classifieds_message_service/internal/message/app"
	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMain(m *testing.M) {
	logger.Log = logger.Initialize("message_service_unit", filepath.Join(os.TempDir(), "message_service_unit_logs"))
	os.Exit(m.Run())
}

// === 以下為假的 mock repository，用來做 TDD ===
type mockConvRepo struct {
	mock.Mock
}

func (m *mockConvRepo) Insert(ctx context.Context, conv *domain.Conversation) error {
	args := m.Called(ctx, conv)
	return args.Error(0)
}
func (m *mockConvRepo) FindByPair(ctx context.Context, low, high string) (*domain.Conversation, error) {
	args := m.Called(ctx, low, high)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockConvRepo) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.Conversation), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockConvRepo) UpdateSummary(ctx context.Context, conversationID, lastMessageID string, updatedAt time.Time) error {
	args := m.Called(ctx, conversationID, lastMessageID, updatedAt)
	return args.Error(0)
}

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) FindByUserID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) != nil {
		return args.Get(0).(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

// === 測試 FindOrCreate ===
func TestConversationUseCase_FindOrCreate(t *testing.T) {
	ctx := context.Background()

	userRepo := new(mockUserRepo)
	convRepo := new(mockConvRepo)
	usecase := app.NewConversationUseCase(userRepo, convRepo)

	low, high := domain.CanonicalPair("user-alice", "user-bob")
	existing := &domain.Conversation{
		ID:              "conv-1",
		ParticipantLow:  low,
		ParticipantHigh: high,
	}

	userRepo.On("FindByUserID", ctx, "user-alice").Return(&domain.User{UserID: "user-alice"}, nil)
	userRepo.On("FindByUserID", ctx, "user-bob").Return(&domain.User{UserID: "user-bob"}, nil)
	convRepo.On("FindByPair", ctx, low, high).Return(existing, nil)

	// 既有對話直接回傳
	id, err := usecase.FindOrCreate(ctx, "user-alice", "user-bob")
	assert.NoError(t, err)
	assert.Equal(t, "conv-1", id)

	// 自己跟自己開對話
	_, err = usecase.FindOrCreate(ctx, "user-alice", "user-alice")
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}
