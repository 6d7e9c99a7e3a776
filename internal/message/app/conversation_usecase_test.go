package app

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"classifieds_message_service/internal/message/domain"
)

// 測試 FindOrCreate 對調 pair 順序也拿到同一組對話
func TestConversationUseCase_FindOrCreate_PairOrderInsensitive(t *testing.T) {
	ctx := context.Background()
	userA := "user-alice"
	userB := "user-bob"
	low, high := domain.CanonicalPair(userA, userB)

	existing := &domain.Conversation{
		ID:              uuid.New().String(),
		ParticipantLow:  low,
		ParticipantHigh: high,
	}

	mockUserRepo := new(MockUserRepository)
	mockConvRepo := new(MockConversationRepository)

	mockUserRepo.On("FindByUserID", ctx, userA).Return(&domain.User{UserID: userA}, nil)
	mockUserRepo.On("FindByUserID", ctx, userB).Return(&domain.User{UserID: userB}, nil)
	// 兩個方向都查 canonical (low, high)
	mockConvRepo.On("FindByPair", ctx, low, high).Return(existing, nil)

	uc := NewConversationUseCase(mockUserRepo, mockConvRepo)

	id1, err := uc.FindOrCreate(ctx, userA, userB)
	assert.NoError(t, err)
	id2, err := uc.FindOrCreate(ctx, userB, userA)
	assert.NoError(t, err)

	assert.Equal(t, existing.ID, id1)
	assert.Equal(t, id1, id2)
	mockConvRepo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

// 測試第一次接觸會建立新對話
func TestConversationUseCase_FindOrCreate_CreatesWhenAbsent(t *testing.T) {
	ctx := context.Background()
	userA := "user-alice"
	userB := "user-bob"
	low, high := domain.CanonicalPair(userA, userB)

	mockUserRepo := new(MockUserRepository)
	mockConvRepo := new(MockConversationRepository)

	mockUserRepo.On("FindByUserID", ctx, userA).Return(&domain.User{UserID: userA}, nil)
	mockUserRepo.On("FindByUserID", ctx, userB).Return(&domain.User{UserID: userB}, nil)
	mockConvRepo.On("FindByPair", ctx, low, high).Return(nil, nil)
	mockConvRepo.On("Insert", ctx, mock.MatchedBy(func(conv *domain.Conversation) bool {
		return conv.ParticipantLow == low && conv.ParticipantHigh == high && conv.ID != ""
	})).Return(nil)

	uc := NewConversationUseCase(mockUserRepo, mockConvRepo)
	id, err := uc.FindOrCreate(ctx, userA, userB)

	assert.NoError(t, err)
	assert.NotEmpty(t, id)
	mockConvRepo.AssertExpectations(t)
}

// 測試併發建立撞 unique key 時改撈既有對話，不往外丟 conflict
func TestConversationUseCase_FindOrCreate_RecoversFromConcurrentCreate(t *testing.T) {
	ctx := context.Background()
	userA := "user-alice"
	userB := "user-bob"
	low, high := domain.CanonicalPair(userA, userB)

	winner := &domain.Conversation{
		ID:              uuid.New().String(),
		ParticipantLow:  low,
		ParticipantHigh: high,
	}

	mockUserRepo := new(MockUserRepository)
	mockConvRepo := new(MockConversationRepository)

	mockUserRepo.On("FindByUserID", ctx, mock.Anything).Return(&domain.User{}, nil)
	// 先查不到，insert 撞 unique key，重查拿到對方建立的那筆
	mockConvRepo.On("FindByPair", ctx, low, high).Return(nil, nil).Once()
	mockConvRepo.On("Insert", ctx, mock.Anything).Return(domain.ErrConflict)
	mockConvRepo.On("FindByPair", ctx, low, high).Return(winner, nil).Once()

	uc := NewConversationUseCase(mockUserRepo, mockConvRepo)
	id, err := uc.FindOrCreate(ctx, userA, userB)

	assert.NoError(t, err)
	assert.Equal(t, winner.ID, id)
	mockConvRepo.AssertExpectations(t)
}

// 測試自己跟自己開對話被拒絕
func TestConversationUseCase_FindOrCreate_RejectsSelfPair(t *testing.T) {
	ctx := context.Background()

	uc := NewConversationUseCase(new(MockUserRepository), new(MockConversationRepository))
	_, err := uc.FindOrCreate(ctx, "user-alice", "user-alice")

	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

// 測試對方帳號不存在
func TestConversationUseCase_FindOrCreate_UnknownUser(t *testing.T) {
	ctx := context.Background()

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("FindByUserID", ctx, "user-alice").Return(&domain.User{UserID: "user-alice"}, nil)
	mockUserRepo.On("FindByUserID", ctx, "user-ghost").Return(nil, nil)

	uc := NewConversationUseCase(mockUserRepo, new(MockConversationRepository))
	_, err := uc.FindOrCreate(ctx, "user-alice", "user-ghost")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
