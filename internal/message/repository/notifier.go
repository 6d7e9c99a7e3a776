package repository

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"classifieds_message_service/internal/message/domain"
)

// Notifier best-effort new message notification
// 發送失敗只記 log，不影響訊息寫入
type Notifier interface {
	NotifyNewMessage(ctx context.Context, msg *domain.Message) error
}

type kafkaNotifier struct {
	writer *kafka.Writer
}

// NewKafkaNotifier create a Notifier over kafka
func NewKafkaNotifier(writer *kafka.Writer) Notifier {
	return &kafkaNotifier{writer: writer}
}

func (n *kafkaNotifier) NotifyNewMessage(ctx context.Context, msg *domain.Message) error {
	event := domain.MessageNotification{
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		SenderID:       msg.SenderID,
		ReceiverID:     msg.ReceiverID,
		Content:        msg.Content,
		Timestamp:      msg.CreatedAt.UnixMilli(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	// key 用 receiver，讓同一收件人的事件落在同一 partition
	return n.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ReceiverID),
		Value: data,
	})
}
