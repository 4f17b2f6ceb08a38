package models

import "time"

// TrendDirection classifies recent performance against the preceding window.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// LeaderboardEntry is derived state: it is recomputed from match records on
// every read and never stored.
type LeaderboardEntry struct {
	Rank          int            `json:"rank"`
	Name          string         `json:"name"`
	SkillLevel    string         `json:"skill_level"`
	TotalPoints   int            `json:"total_points"`
	MatchesPlayed int            `json:"matches_played"`
	MatchesWon    int            `json:"matches_won"`
	WinRate       float64        `json:"win_rate"`
	Trend         TrendDirection `json:"trend"`
	TrendValue    int            `json:"trend_value"`
	JoinedAt      time.Time      `json:"-"`
	IsCurrentUser bool           `json:"is_current_user"`

	// Global leaderboard only.
	TournamentsParticipated int `json:"tournaments_participated,omitempty"`
	TournamentsWon          int `json:"tournaments_won,omitempty"`
}
