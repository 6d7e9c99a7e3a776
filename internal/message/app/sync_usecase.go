package app

import (
	"context"
	"fmt"

	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/internal/message/repository"
	"classifieds_message_service/pkg/logger"
)

// ConversationView 初次載入的完整回應
type ConversationView struct {
	ConversationID string                `json:"conversation_id"`
	OtherUser      domain.User           `json:"other_user"`
	Messages       []domain.Message      `json:"messages"`
	Presence       domain.PresenceStatus `json:"presence"`
}

// DeltaView 輪詢回應，presence 形狀跟初次載入一致，client 可以統一處理
type DeltaView struct {
	NewMessages []domain.Message      `json:"new_messages"`
	Presence    domain.PresenceStatus `json:"presence"`
}

// SyncUseCase client 輪詢的入口，組合 message/presence，不自己持有狀態
type SyncUseCase struct {
	convRepo   repository.ConversationRepository
	userRepo   repository.UserRepository
	messageUC  *MessageUseCase
	presenceUC *PresenceUseCase
}

// NewSyncUseCase init sync use case
func NewSyncUseCase(
	convRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	messageUC *MessageUseCase,
	presenceUC *PresenceUseCase,
) *SyncUseCase {
	return &SyncUseCase{
		convRepo:   convRepo,
		userRepo:   userRepo,
		messageUC:  messageUC,
		presenceUC: presenceUC,
	}
}

// FetchConversationView 初次載入：對方資料 + 全部歷史 + 對方 presence
func (uc *SyncUseCase) FetchConversationView(ctx context.Context, conversationID, requesterID string) (*ConversationView, error) {
	conv, other, err := uc.resolveOther(ctx, conversationID, requesterID)
	if err != nil {
		return nil, err
	}

	otherUser, err := uc.userRepo.FindByUserID(ctx, other)
	if err != nil {
		return nil, err
	}
	if otherUser == nil {
		return nil, fmt.Errorf("user %s: %w", other, domain.ErrNotFound)
	}

	messages, err := uc.messageUC.ListSince(ctx, conversationID, requesterID, nil)
	if err != nil {
		return nil, err
	}

	presence, err := uc.presenceUC.StatusOf(ctx, other)
	if err != nil {
		return nil, err
	}

	uc.touchRequester(ctx, requesterID)

	return &ConversationView{
		ConversationID: conv.ID,
		OtherUser:      *otherUser,
		Messages:       messages,
		Presence:       presence,
	}, nil
}

// FetchDelta 輪詢：cursor 之後的新訊息 + 對方 presence
func (uc *SyncUseCase) FetchDelta(ctx context.Context, conversationID, requesterID string, cursor *domain.MessageCursor) (*DeltaView, error) {
	_, other, err := uc.resolveOther(ctx, conversationID, requesterID)
	if err != nil {
		return nil, err
	}

	messages, err := uc.messageUC.ListSince(ctx, conversationID, requesterID, cursor)
	if err != nil {
		return nil, err
	}

	presence, err := uc.presenceUC.StatusOf(ctx, other)
	if err != nil {
		return nil, err
	}

	uc.touchRequester(ctx, requesterID)

	return &DeltaView{
		NewMessages: messages,
		Presence:    presence,
	}, nil
}

func (uc *SyncUseCase) resolveOther(ctx context.Context, conversationID, requesterID string) (*domain.Conversation, string, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, "", err
	}
	if conv == nil {
		return nil, "", fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	if !conv.HasParticipant(requesterID) {
		return nil, "", domain.ErrForbidden
	}
	return conv, conv.OtherParticipant(requesterID), nil
}

// touchRequester 有來輪詢就代表人在線上
func (uc *SyncUseCase) touchRequester(ctx context.Context, requesterID string) {
	if err := uc.presenceUC.Heartbeat(ctx, requesterID); err != nil {
		logger.Log.Warn(fmt.Sprintf("heartbeat on poll failed for %s: %v", requesterID, err))
	}
}
