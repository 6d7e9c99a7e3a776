package domain

import (
	"strings"
	"time"

	"classifieds_message_service/pkg"
)

// Conversation 表示兩個使用者之間唯一的一組對話
// participant pair 無序，(A,B) 與 (B,A) 指向同一組對話
type Conversation struct {
	ID              string    `json:"id"`
	ParticipantLow  string    `json:"participant_low"`
	ParticipantHigh string    `json:"participant_high"`
	LastMessageID   *string   `json:"last_message_id,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CanonicalPair 將無序 pair 正規化為 (low, high)，作為唯一鍵
func CanonicalPair(userA, userB string) (string, string) {
	if strings.Compare(userA, userB) < 0 {
		return userA, userB
	}
	return userB, userA
}

// HasParticipant check user in conversation
func (c *Conversation) HasParticipant(userID string) bool {
	return pkg.Contains([]string{c.ParticipantLow, c.ParticipantHigh}, userID)
}

// OtherParticipant get the participant who is not userID
func (c *Conversation) OtherParticipant(userID string) string {
	if c.ParticipantLow == userID {
		return c.ParticipantHigh
	}
	return c.ParticipantLow
}
