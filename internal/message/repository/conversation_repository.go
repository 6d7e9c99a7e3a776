package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"classifieds_message_service/internal/message/domain"
)

// uniqueViolation PostgreSQL SQLSTATE for unique constraint violation
const uniqueViolation = "23505"

// ConversationRepository definition conversation storage
type ConversationRepository interface {
	// Insert 新增對話，同一 pair 已存在時回傳 domain.ErrConflict
	Insert(ctx context.Context, conv *domain.Conversation) error
	// FindByPair 用 canonical (low, high) 查詢，查無回傳 nil
	FindByPair(ctx context.Context, low, high string) (*domain.Conversation, error)
	FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error)
	// UpdateSummary 更新 last_message_id / updated_at，last-writer-wins
	UpdateSummary(ctx context.Context, conversationID, lastMessageID string, updatedAt time.Time) error
}

type conversationRepository struct {
	db *pgxpool.Pool
}

// NewConversationRepository create a ConversationRepository
func NewConversationRepository(db *pgxpool.Pool) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) Insert(ctx context.Context, conv *domain.Conversation) error {
	_, err := r.db.Exec(ctx,
		"INSERT INTO conversations(id, participant_low, participant_high, updated_at) VALUES ($1, $2, $3, $4)",
		conv.ID, conv.ParticipantLow, conv.ParticipantHigh, conv.UpdatedAt)
	if err != nil {
		// unique(participant_low, participant_high) 擋下同 pair 的併發建立
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("conversation pair (%s, %s): %w", conv.ParticipantLow, conv.ParticipantHigh, domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *conversationRepository) FindByPair(ctx context.Context, low, high string) (*domain.Conversation, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, participant_low, participant_high, last_message_id, updated_at FROM conversations WHERE participant_low = $1 AND participant_high = $2",
		low, high)
	return scanConversation(row)
}

func (r *conversationRepository) FindByID(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	row := r.db.QueryRow(ctx,
		"SELECT id, participant_low, participant_high, last_message_id, updated_at FROM conversations WHERE id = $1",
		conversationID)
	return scanConversation(row)
}

func (r *conversationRepository) UpdateSummary(ctx context.Context, conversationID, lastMessageID string, updatedAt time.Time) error {
	_, err := r.db.Exec(ctx,
		"UPDATE conversations SET last_message_id = $1, updated_at = $2 WHERE id = $3",
		lastMessageID, updatedAt, conversationID)
	return err
}

func scanConversation(row pgx.Row) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := row.Scan(&conv.ID, &conv.ParticipantLow, &conv.ParticipantHigh, &conv.LastMessageID, &conv.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &conv, nil
}
