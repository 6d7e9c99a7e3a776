package app

import (
	"context"
	"time"

	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/internal/message/repository"
)

// PresenceUseCase 記錄 heartbeat，online/offline 讀取時才推導
type PresenceUseCase struct {
	presRepo repository.PresenceRepository

	nowFunc func() time.Time // 測試時可覆蓋
}

// NewPresenceUseCase init presence use case
func NewPresenceUseCase(presRepo repository.PresenceRepository) *PresenceUseCase {
	return &PresenceUseCase{
		presRepo: presRepo,
		nowFunc:  time.Now,
	}
}

// Heartbeat upsert user 的 lastActivity = now
func (uc *PresenceUseCase) Heartbeat(ctx context.Context, userID string) error {
	return uc.presRepo.Upsert(ctx, domain.PresenceRecord{
		UserID:       userID,
		LastActivity: uc.nowFunc().UTC(),
	})
}

// StatusOf 查詢 user 的 presence，沒有 heartbeat 過回傳 never
func (uc *PresenceUseCase) StatusOf(ctx context.Context, userID string) (domain.PresenceStatus, error) {
	rec, err := uc.presRepo.Find(ctx, userID)
	if err != nil {
		return domain.PresenceStatus{}, err
	}
	if rec == nil {
		return domain.NeverSeenStatus(), nil
	}
	return rec.StatusAt(uc.nowFunc().UTC()), nil
}
