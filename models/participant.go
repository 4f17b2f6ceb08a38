package models

import "time"

// Participant is one entry in a tournament roster. The same person joining
// two tournaments produces two independent Participant records. Identity is
// immutable once the bracket has been generated.
type Participant struct {
	ID           int       `json:"id" db:"id"`
	TournamentID string    `json:"tournament_id" db:"tournament_id"`
	Name         string    `json:"name" db:"name"`
	SkillLevel   string    `json:"skill_level" db:"skill_level"`
	JoinedAt     time.Time `json:"joined_at" db:"joined_at"`
}
