package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/internal/message/repository"
	"classifieds_message_service/pkg/logger"
)

// ConversationUseCase 負責找出/建立兩個 user 間唯一的對話
type ConversationUseCase struct {
	userRepo repository.UserRepository
	convRepo repository.ConversationRepository
}

// NewConversationUseCase init conversation use case
func NewConversationUseCase(
	userRepo repository.UserRepository,
	convRepo repository.ConversationRepository,
) *ConversationUseCase {
	return &ConversationUseCase{
		userRepo: userRepo,
		convRepo: convRepo,
	}
}

// FindOrCreate 回傳 pair 的對話 id，不存在就建立，重複呼叫 idempotent
func (uc *ConversationUseCase) FindOrCreate(ctx context.Context, userA, userB string) (string, error) {
	if userA == userB {
		return "", fmt.Errorf("self conversation: %w", domain.ErrInvalidOperation)
	}

	// 1. 兩個帳號都要存在
	for _, userID := range []string{userA, userB} {
		user, err := uc.userRepo.FindByUserID(ctx, userID)
		if err != nil {
			return "", err
		}
		if user == nil {
			return "", fmt.Errorf("user %s: %w", userID, domain.ErrNotFound)
		}
	}

	// 2. pair 正規化成 (low, high) 再查，(A,B) 跟 (B,A) 會撈到同一筆
	low, high := domain.CanonicalPair(userA, userB)
	conv, err := uc.convRepo.FindByPair(ctx, low, high)
	if err != nil {
		return "", err
	}
	if conv != nil {
		return conv.ID, nil
	}

	// 3. 建立新對話，id 不帶 user 資訊
	conv = &domain.Conversation{
		ID:              uuid.New().String(),
		ParticipantLow:  low,
		ParticipantHigh: high,
		UpdatedAt:       time.Now().UTC(),
	}
	if err := uc.convRepo.Insert(ctx, conv); err != nil {
		// 雙方同時第一次開對話時，晚到的 insert 撞 unique key，
		// 這裡改撈對方剛建立的那筆，不把 conflict 丟給 caller
		if errors.Is(err, domain.ErrConflict) {
			logger.Log.Info(fmt.Sprintf("conversation pair (%s, %s) created concurrently, refetch", low, high))
			existing, ferr := uc.convRepo.FindByPair(ctx, low, high)
			if ferr != nil {
				return "", ferr
			}
			if existing == nil {
				return "", err
			}
			return existing.ID, nil
		}
		return "", err
	}

	return conv.ID, nil
}
