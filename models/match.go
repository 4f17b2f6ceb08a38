package models

import "time"

type MatchStatus string

const (
	// MatchStatusPending: both slots known, result not yet recorded.
	MatchStatusPending MatchStatus = "pending"
	// MatchStatusWaiting: the match belongs to a future round and at least
	// one slot is still to be determined.
	MatchStatusWaiting   MatchStatus = "waiting"
	MatchStatusActive    MatchStatus = "active"
	MatchStatusCompleted MatchStatus = "completed"
)

// ByeSlot is the sentinel opponent causing automatic advancement when a
// round has an odd number of survivors.
const ByeSlot = "BYE"

// MatchScores is the per-slot score pair of a completed match, keyed the
// way clients read it: participant1 scores slot 1, participant2 slot 2.
type MatchScores struct {
	Participant1 int `json:"participant1"`
	Participant2 int `json:"participant2"`
}

// Match is one debate inside a tournament bracket. IDs follow the
// r{round}_m{order} convention (rr_m{order} for round robin) and are unique
// per tournament, not globally. Slot1/Slot2 are nil while the feeding
// matches have not produced a winner. Winner and scores are write-once.
type Match struct {
	ID           string       `json:"id" db:"id"`
	TournamentID string       `json:"tournament_id" db:"tournament_id"`
	Round        int          `json:"round" db:"round"`
	OrderInRound int          `json:"order_in_round" db:"order_in_round"`
	Slot1        *string      `json:"participant1" db:"slot1"`
	Slot2        *string      `json:"participant2" db:"slot2"`
	Status       MatchStatus  `json:"status" db:"status"`
	Winner       *string      `json:"winner,omitempty" db:"winner"`
	Scores       *MatchScores `json:"scores,omitempty"`
	Motion       *string      `json:"motion,omitempty" db:"motion"`
	Feedback     *string      `json:"judge_feedback,omitempty" db:"judge_feedback"`
	// TranscriptKey points at the archived speeches in object storage.
	TranscriptKey *string    `json:"transcript_key,omitempty" db:"transcript_key"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// IsBye reports whether the match has the BYE sentinel in either slot.
func (m *Match) IsBye() bool {
	return (m.Slot1 != nil && *m.Slot1 == ByeSlot) || (m.Slot2 != nil && *m.Slot2 == ByeSlot)
}

// SlotsResolved reports whether both slots hold real participants.
func (m *Match) SlotsResolved() bool {
	return m.Slot1 != nil && m.Slot2 != nil && *m.Slot1 != ByeSlot && *m.Slot2 != ByeSlot
}

// HasSlot reports whether name occupies one of the two slots.
func (m *Match) HasSlot(name string) bool {
	return (m.Slot1 != nil && *m.Slot1 == name) || (m.Slot2 != nil && *m.Slot2 == name)
}

// Round groups the matches at one bracket depth. Match count and slot
// layout are immutable once generated; only winner/score fields change.
type Round struct {
	Number  int         `json:"round_number"`
	Name    string      `json:"name"`
	Status  MatchStatus `json:"status"`
	Matches []Match     `json:"matches"`
}
