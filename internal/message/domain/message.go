package domain

import "time"

// Message 表示一則私訊
// ID 由 client 提供，作為 idempotency key，重送同一 ID 不會產生第二筆
type Message struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	ReceiverID     string    `json:"receiver_id"`
	Content        string    `json:"content"`
	ImageURL       string    `json:"image_url,omitempty"`
	IsRead         bool      `json:"is_read"`
	CreatedAt      time.Time `json:"created_at"`
}

// MessageCursor 標記 client 已看過的邊界 (created_at, id)
type MessageCursor struct {
	After   time.Time
	AfterID string
}

// AfterCursor 判斷訊息是否在 cursor 之後
// 同一 timestamp 用 id 當 tie-break，避免漏掉同毫秒的訊息
func (m *Message) AfterCursor(cur *MessageCursor) bool {
	if cur == nil {
		return true
	}
	if m.CreatedAt.After(cur.After) {
		return true
	}
	return m.CreatedAt.Equal(cur.After) && m.ID > cur.AfterID
}

// MessageNotification 發給 receiver 的 new message event (best-effort)
type MessageNotification struct {
	MessageID      string `json:"message_id"`
	ConversationID string `json:"conversation_id"`
	SenderID       string `json:"sender_id"`
	ReceiverID     string `json:"receiver_id"`
	Content        string `json:"content"`
	Timestamp      int64  `json:"timestamp"`
}
