package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"classifieds_message_service/internal/message/domain"
)

// MessageRepository definition message storage
type MessageRepository interface {
	// Insert 寫入一筆訊息，id 已存在時不覆寫，回傳 inserted = false
	Insert(ctx context.Context, msg *domain.Message) (bool, error)
	FindByID(ctx context.Context, messageID string) (*domain.Message, error)
	// ListSince 依 (created_at, id) 升冪排序；cursor 為 nil 回傳全部歷史
	ListSince(ctx context.Context, conversationID string, cursor *domain.MessageCursor) ([]domain.Message, error)
	// MarkRead 將對話中 receiver 的未讀訊息全部翻成已讀，回傳翻轉筆數
	MarkRead(ctx context.Context, conversationID, readerID string) (int64, error)
}

type messageRepository struct {
	db *pgxpool.Pool
}

// NewMessageRepository create a MessageRepository
func NewMessageRepository(db *pgxpool.Pool) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Insert(ctx context.Context, msg *domain.Message) (bool, error) {
	// ON CONFLICT DO NOTHING: 同一 idempotency key 重送時不產生第二筆
	tag, err := r.db.Exec(ctx,
		`INSERT INTO messages(id, conversation_id, sender_id, receiver_id, content, image_url, is_read, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO NOTHING`,
		msg.ID, msg.ConversationID, msg.SenderID, msg.ReceiverID, msg.Content, msg.ImageURL, msg.IsRead, msg.CreatedAt)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *messageRepository) FindByID(ctx context.Context, messageID string) (*domain.Message, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, conversation_id, sender_id, receiver_id, content, image_url, is_read, created_at
		 FROM messages WHERE id = $1`,
		messageID)
	var msg domain.Message
	err := row.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.ImageURL, &msg.IsRead, &msg.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepository) ListSince(ctx context.Context, conversationID string, cursor *domain.MessageCursor) ([]domain.Message, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if cursor == nil {
		rows, err = r.db.Query(ctx,
			`SELECT id, conversation_id, sender_id, receiver_id, content, image_url, is_read, created_at
			 FROM messages WHERE conversation_id = $1
			 ORDER BY created_at, id`,
			conversationID)
	} else {
		// (created_at, id) 的 tuple 比較，同 timestamp 用 id tie-break，
		// cursor 邊界上的同毫秒訊息不會漏也不會重複
		rows, err = r.db.Query(ctx,
			`SELECT id, conversation_id, sender_id, receiver_id, content, image_url, is_read, created_at
			 FROM messages WHERE conversation_id = $1 AND (created_at, id) > ($2, $3)
			 ORDER BY created_at, id`,
			conversationID, cursor.After, cursor.AfterID)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.SenderID, &msg.ReceiverID, &msg.Content, &msg.ImageURL, &msg.IsRead, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, conversationID, readerID string) (int64, error) {
	// is_read 只會 false -> true，重複呼叫翻轉 0 筆
	tag, err := r.db.Exec(ctx,
		"UPDATE messages SET is_read = TRUE WHERE conversation_id = $1 AND receiver_id = $2 AND is_read = FALSE",
		conversationID, readerID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
