package domain

import (
	"fmt"
	"time"
)

// OnlineThreshold 最後活動在此區間內視為 online
const OnlineThreshold = 5 * time.Minute

// PresenceRecord 每個 user 一筆，heartbeat 時 upsert
type PresenceRecord struct {
	UserID       string    `json:"UserID"`
	LastActivity time.Time `json:"LastActivity"`
}

// PresenceStatus 由 lastActivity 推導出來的狀態，不另外存 online flag
type PresenceStatus struct {
	Online        bool   `json:"online"`
	LastSeenLabel string `json:"last_seen"`
}

// NeverSeenStatus status for user without any heartbeat
func NeverSeenStatus() PresenceStatus {
	return PresenceStatus{Online: false, LastSeenLabel: "never"}
}

// StatusAt 以 now 為基準推導 online 與 last seen 標籤
func (p *PresenceRecord) StatusAt(now time.Time) PresenceStatus {
	elapsed := now.Sub(p.LastActivity)
	return PresenceStatus{
		Online:        elapsed < OnlineThreshold,
		LastSeenLabel: lastSeenLabel(p.LastActivity, now),
	}
}

// lastSeenLabel 顯示用時間標籤，固定以 UTC 呈現，所有 client 看到一致
func lastSeenLabel(lastActivity, now time.Time) string {
	elapsed := now.Sub(lastActivity)
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%d min ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		hours := int(elapsed.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case elapsed < 48*time.Hour:
		return "yesterday"
	default:
		return lastActivity.In(time.UTC).Format("Jan 2, 2006")
	}
}
