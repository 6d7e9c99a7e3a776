package app

import (
	"context"
	"fmt"
	"time"

	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/internal/message/repository"
	"classifieds_message_service/pkg/logger"
)

// MessageUseCase 負責訊息的寫入、增量讀取與已讀狀態
type MessageUseCase struct {
	convRepo repository.ConversationRepository
	msgRepo  repository.MessageRepository
	presRepo repository.PresenceRepository
	notifier repository.Notifier

	nowFunc func() time.Time // 測試時可覆蓋
}

// NewMessageUseCase init message use case
func NewMessageUseCase(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	presRepo repository.PresenceRepository,
	notifier repository.Notifier,
) *MessageUseCase {
	return &MessageUseCase{
		convRepo: convRepo,
		msgRepo:  msgRepo,
		presRepo: presRepo,
		notifier: notifier,
		nowFunc:  time.Now,
	}
}

// Append 寫入一則訊息並回傳完整持久化結果
// clientMessageID 是 idempotency key：同一 id 重送回傳第一次寫入的那筆
func (uc *MessageUseCase) Append(ctx context.Context, conversationID, senderID, clientMessageID, content, imageURL string) (*domain.Message, error) {
	if clientMessageID == "" {
		return nil, fmt.Errorf("missing client message id: %w", domain.ErrInvalidOperation)
	}
	if content == "" && imageURL == "" {
		return nil, fmt.Errorf("empty message: %w", domain.ErrInvalidOperation)
	}

	// 1. 對話存在且 sender 是成員
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	if !conv.HasParticipant(senderID) {
		return nil, domain.ErrForbidden
	}

	// 2. 建立訊息，receiver 是對話中另一個人
	msg := &domain.Message{
		ID:             clientMessageID,
		ConversationID: conversationID,
		SenderID:       senderID,
		ReceiverID:     conv.OtherParticipant(senderID),
		Content:        content,
		ImageURL:       imageURL,
		IsRead:         false,
		CreatedAt:      uc.nowFunc().UTC(),
	}

	inserted, err := uc.msgRepo.Insert(ctx, msg)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// client 重送（timeout retry），回第一次寫入的結果
		existing, err := uc.msgRepo.FindByID(ctx, clientMessageID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, fmt.Errorf("message %s: %w", clientMessageID, domain.ErrNotFound)
		}
		return existing, nil
	}

	// 3. 更新對話摘要指標，雙方同時發訊息時 last-writer-wins
	if err := uc.convRepo.UpdateSummary(ctx, conversationID, msg.ID, msg.CreatedAt); err != nil {
		return nil, err
	}

	// 4. 發訊息代表人在線上，順手刷新 heartbeat
	if err := uc.presRepo.Upsert(ctx, domain.PresenceRecord{UserID: senderID, LastActivity: msg.CreatedAt}); err != nil {
		logger.Log.Warn(fmt.Sprintf("presence refresh failed for %s: %v", senderID, err))
	}

	// 5. 通知 receiver，best-effort，失敗不影響這次寫入
	if uc.notifier != nil {
		if err := uc.notifier.NotifyNewMessage(ctx, msg); err != nil {
			logger.Log.Warn(fmt.Sprintf("notify receiver %s failed: %v", msg.ReceiverID, err))
		}
	}

	return msg, nil
}

// ListSince 增量拉取，cursor 為 nil 回傳全部歷史
func (uc *MessageUseCase) ListSince(ctx context.Context, conversationID, requesterID string, cursor *domain.MessageCursor) ([]domain.Message, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	if !conv.HasParticipant(requesterID) {
		return nil, domain.ErrForbidden
	}

	return uc.msgRepo.ListSince(ctx, conversationID, cursor)
}

// MarkRead 把對話中寄給 reader 的未讀全部翻成已讀，回傳翻轉筆數
func (uc *MessageUseCase) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	conv, err := uc.convRepo.FindByID(ctx, conversationID)
	if err != nil {
		return 0, err
	}
	if conv == nil {
		return 0, fmt.Errorf("conversation %s: %w", conversationID, domain.ErrNotFound)
	}
	if !conv.HasParticipant(readerID) {
		return 0, domain.ErrForbidden
	}

	return uc.msgRepo.MarkRead(ctx, conversationID, readerID)
}
