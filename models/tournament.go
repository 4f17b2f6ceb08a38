package models

import "time"

// TournamentStatus represents tournament lifecycle states, matching the ENUM in the DB.
// Transitions are one-directional: registration -> active -> completed.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
)

// BracketType selects the bracket generator for a tournament.
type BracketType string

const (
	BracketSingleElimination BracketType = "single_elimination"
	BracketRoundRobin        BracketType = "round_robin"
)

// Tournament represents a debate tournament.
type Tournament struct {
	ID                   string           `json:"id" db:"id"`
	Name                 string           `json:"name" db:"name"`
	Slug                 string           `json:"slug" db:"slug"`
	DebateFormat         string           `json:"format" db:"debate_format"`
	BracketType          BracketType      `json:"tournament_type" db:"bracket_type"`
	SkillLevel           string           `json:"skill_level" db:"skill_level"`
	Description          string           `json:"description" db:"description"`
	MaxParticipants      int              `json:"max_participants" db:"max_participants"`
	PrizePool            int              `json:"prize_pool" db:"prize_pool"`
	RegistrationDeadline *time.Time       `json:"registration_deadline,omitempty" db:"registration_deadline"`
	Status               TournamentStatus `json:"status" db:"status"`
	CurrentRound         int              `json:"current_round" db:"current_round"`
	Champion             *string          `json:"champion,omitempty" db:"champion"`
	CreatedAt            time.Time        `json:"created_at" db:"created_at"`

	// Populated by services, not mapped directly.
	Participants []Participant `json:"participants,omitempty" db:"-"`
	Rounds       []Round       `json:"rounds,omitempty" db:"-"`
}

// MinParticipants returns the smallest roster that can start under the
// tournament's bracket type. A single-elimination tournament with a single
// participant completes immediately with that participant as champion.
func (t *Tournament) MinParticipants() int {
	if t.BracketType == BracketRoundRobin {
		return 2
	}
	return 1
}
