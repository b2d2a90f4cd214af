package models

import "time"

// MissionStatus is the lifecycle state of a mission. Transitions are
// monotonic: active -> closed -> exported, never backwards.
type MissionStatus string

const (
	MissionActive   MissionStatus = "active"
	MissionClosed   MissionStatus = "closed"
	MissionExported MissionStatus = "exported"
)

// Mission represents one time-boxed call for submissions, scoped to a
// single Discord thread.
type Mission struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	ThreadID string        `json:"thread_id"` // unique, one mission per thread
	Deadline time.Time     `json:"deadline"`
	Status   MissionStatus `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	ExportedAt *time.Time `json:"exported_at,omitempty"`

	Brief string `json:"brief,omitempty"`

	// Announcement message posted when the mission was created via command,
	// edited to a closed marker by the sweep. Empty for auto-registered
	// missions.
	AnnounceChannelID string `json:"announce_channel_id,omitempty"`
	AnnounceMessageID string `json:"announce_message_id,omitempty"`

	// Cross-platform link for missions created from Telegram.
	TelegramChatID    int64 `json:"telegram_chat_id,omitempty"`
	TelegramMessageID int   `json:"telegram_message_id,omitempty"`
}

// Due reports whether the mission should be picked up by a sweep at t.
func (m Mission) Due(t time.Time) bool {
	return m.Status == MissionActive && !m.Deadline.After(t)
}
