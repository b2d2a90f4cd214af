package models

import "time"

// Submission origins.
const (
	OriginDiscord  = "discord"
	OriginTelegram = "telegram"
)

// Submission is one user-contributed entry linked to a mission. It is
// created from a URL-bearing message inside a mission thread and carries
// the votes judges have cast on it.
type Submission struct {
	ID        string `json:"id"`
	MessageID string `json:"message_id"` // source message, unique
	ChannelID string `json:"channel_id"`
	ThreadID  string `json:"thread_id"`
	MissionID string `json:"mission_id"`

	AuthorID  string   `json:"author_id"`
	AuthorTag string   `json:"author_tag"`
	Content   string   `json:"content"`
	URLs      []string `json:"urls"`

	Votes []Vote `json:"votes"`

	SubmittedAt time.Time `json:"submitted_at"`
	Exported    bool      `json:"exported"`
	Origin      string    `json:"origin"`
}

// Vote is one judge's score on one submission. A submission holds at most
// one vote per judge; re-voting replaces the entry in place.
type Vote struct {
	JudgeID   string    `json:"judge_id"`
	JudgeTag  string    `json:"judge_tag"`
	Score     int       `json:"score"` // 1..5, bounded by the reaction surface
	UpdatedAt time.Time `json:"updated_at"`
}

// VoteBy returns the vote cast by the given judge, if any.
func (s Submission) VoteBy(judgeID string) (Vote, bool) {
	for _, v := range s.Votes {
		if v.JudgeID == judgeID {
			return v, true
		}
	}
	return Vote{}, false
}

// AverageScore is the arithmetic mean of the submission's vote scores.
// The second return is false when no votes exist.
func (s Submission) AverageScore() (float64, bool) {
	if len(s.Votes) == 0 {
		return 0, false
	}
	total := 0
	for _, v := range s.Votes {
		total += v.Score
	}
	return float64(total) / float64(len(s.Votes)), true
}
