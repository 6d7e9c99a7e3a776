package repository

import (
	"context"
	"errors"

	"classifieds_message_service/internal/message/domain"
	"classifieds_message_service/pkg/database"
)

const presenceKeyPrefix = "presence:"

// PresenceRepository definition presence heartbeat storage
type PresenceRepository interface {
	// Upsert 寫入/覆寫 user 的 heartbeat，一個 user 只有一筆
	Upsert(ctx context.Context, rec domain.PresenceRecord) error
	// Find 查無回傳 nil
	Find(ctx context.Context, userID string) (*domain.PresenceRecord, error)
}

type presenceRepository struct {
	redisRepo database.RedisRepository[domain.PresenceRecord]
}

// NewPresenceRepository create a PresenceRepository over redis
func NewPresenceRepository(redisRepo database.RedisRepository[domain.PresenceRecord]) PresenceRepository {
	return &presenceRepository{redisRepo: redisRepo}
}

func (r *presenceRepository) Upsert(ctx context.Context, rec domain.PresenceRecord) error {
	// ttl = 0，紀錄不過期，online/offline 由讀取端用 LastActivity 推導
	return r.redisRepo.Set(ctx, presenceKeyPrefix+rec.UserID, rec, 0)
}

func (r *presenceRepository) Find(ctx context.Context, userID string) (*domain.PresenceRecord, error) {
	rec, err := r.redisRepo.Get(ctx, presenceKeyPrefix+userID)
	if err != nil {
		if errors.Is(err, database.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}
