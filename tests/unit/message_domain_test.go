package unit

import (
	"testing"
	"time"

	"classifieds_message_service/internal/message/domain"

	"github.com/stretchr/testify/assert"
)

func TestConversationPairIsUnordered(t *testing.T) {
	low1, high1 := domain.CanonicalPair("user-bob", "user-alice")
	low2, high2 := domain.CanonicalPair("user-alice", "user-bob")

	assert.Equal(t, low1, low2, "pair should normalize to the same low")
	assert.Equal(t, high1, high2, "pair should normalize to the same high")
}

func TestPresenceRecordOnline(t *testing.T) {
	now := time.Now().UTC()

	rec := domain.PresenceRecord{
		UserID:       "user-alice",
		LastActivity: now.Add(-2 * time.Minute),
	}

	assert.True(t, rec.StatusAt(now).Online, "heartbeat within 5 minutes should be online")

	rec.LastActivity = now.Add(-10 * time.Minute) // 超過門檻
	assert.False(t, rec.StatusAt(now).Online, "stale heartbeat should be offline")
}

func TestMessageCursorBoundaryExcluded(t *testing.T) {
	ts := time.Now().UTC()
	cur := &domain.MessageCursor{After: ts, AfterID: "m1"}

	boundary := domain.Message{ID: "m1", CreatedAt: ts}
	next := domain.Message{ID: "m2", CreatedAt: ts}

	assert.False(t, boundary.AfterCursor(cur), "cursor row itself should be excluded")
	assert.True(t, next.AfterCursor(cur), "same timestamp with higher id should be included")
}
