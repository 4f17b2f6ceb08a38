package models

import "time"

// Judgment is one entry in the recent-judgments feed shown on the
// tournament dashboard. Only the most recent entries are kept.
type Judgment struct {
	ID             string    `json:"id" db:"id"`
	TournamentID   string    `json:"tournament_id" db:"tournament_id"`
	TournamentName string    `json:"tournament_name" db:"tournament_name"`
	MatchID        string    `json:"match_id" db:"match_id"`
	JudgeName      string    `json:"judge_name" db:"judge_name"`
	Participant1   string    `json:"participant1" db:"participant1"`
	Participant2   string    `json:"participant2" db:"participant2"`
	Winner         string    `json:"winner" db:"winner"`
	Score          string    `json:"score" db:"score"`
	CreatedAt      time.Time `json:"timestamp" db:"created_at"`

	// Rendered at read time, not stored.
	TimeAgo string `json:"time_ago" db:"-"`
}
