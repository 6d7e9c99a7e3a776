package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 測試 pair 正規化：順序對調結果相同
func TestCanonicalPair(t *testing.T) {
	low1, high1 := CanonicalPair("user-alice", "user-bob")
	low2, high2 := CanonicalPair("user-bob", "user-alice")

	assert.Equal(t, low1, low2)
	assert.Equal(t, high1, high2)
	assert.Equal(t, "user-alice", low1)
	assert.Equal(t, "user-bob", high1)
}

func TestConversationParticipants(t *testing.T) {
	conv := Conversation{
		ID:              "c1",
		ParticipantLow:  "user-alice",
		ParticipantHigh: "user-bob",
	}

	assert.True(t, conv.HasParticipant("user-alice"))
	assert.True(t, conv.HasParticipant("user-bob"))
	assert.False(t, conv.HasParticipant("user-mallory"))

	assert.Equal(t, "user-bob", conv.OtherParticipant("user-alice"))
	assert.Equal(t, "user-alice", conv.OtherParticipant("user-bob"))
}
