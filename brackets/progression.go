package brackets

import (
	"errors"
	"sort"
	"time"

	"github.com/debatehub/debate-arena/models"
)

var (
	ErrMatchNotFound        = errors.New("match not found in bracket")
	ErrMatchCompleted       = errors.New("match result already recorded")
	ErrSlotsUnresolved      = errors.New("both participants must be determined before recording a result")
	ErrWinnerNotInMatch     = errors.New("winner must be one of the match participants")
	ErrByeMatchNotRecordable = errors.New("bye matches advance automatically and take no result")
)

// ValidateResult checks a submitted winner against the match's current
// state without mutating anything. On success the caller may apply the
// result; on failure the match must be left untouched.
func ValidateResult(m *models.Match, winner string) error {
	if m.Status == models.MatchStatusCompleted {
		return ErrMatchCompleted
	}
	if m.Status != models.MatchStatusPending && m.Status != models.MatchStatusActive {
		return ErrSlotsUnresolved
	}
	if m.IsBye() {
		return ErrByeMatchNotRecordable
	}
	if !m.SlotsResolved() {
		return ErrSlotsUnresolved
	}
	if !m.HasSlot(winner) || winner == models.ByeSlot {
		return ErrWinnerNotInMatch
	}
	return nil
}

// ApplyResult validates and records a result on the match. Winner and
// scores are write-once: a completed match rejects any further result.
func ApplyResult(m *models.Match, winner string, slot1Score, slot2Score int, motion string) error {
	if err := ValidateResult(m, winner); err != nil {
		return err
	}
	w := winner
	now := time.Now()
	m.Winner = &w
	m.Scores = &models.MatchScores{Participant1: slot1Score, Participant2: slot2Score}
	if motion != "" {
		m.Motion = &motion
	}
	m.Status = models.MatchStatusCompleted
	m.CompletedAt = &now
	return nil
}

// AdvanceRounds propagates winners through a single-elimination skeleton.
// For every round whose matches are all completed it fills the next
// round's slots with the winners in fixed pairing order, auto-completes
// any BYE match it thereby resolves, and cascades. It returns the matches
// it changed (for persistence and broadcast) and the champion's name once
// the final match is decided.
//
// The function is idempotent: running it again on the same rounds changes
// nothing, which gives the exactly-once guarantee for round generation as
// long as callers serialize access per tournament.
func AdvanceRounds(rounds []models.Round) (changed []*models.Match, champion *string) {
	now := time.Now()

	for r := 0; r < len(rounds)-1; r++ {
		if !roundCompleted(&rounds[r]) {
			break
		}

		winners := roundWinners(&rounds[r])
		rounds[r].Status = models.MatchStatusCompleted
		next := &rounds[r+1]

		for m := range next.Matches {
			match := &next.Matches[m]
			if match.Status == models.MatchStatusCompleted {
				continue
			}
			filled := false
			if match.Slot1 == nil && 2*m < len(winners) {
				match.Slot1 = &winners[2*m]
				filled = true
			}
			if match.Slot2 == nil && 2*m+1 < len(winners) {
				match.Slot2 = &winners[2*m+1]
				filled = true
			}
			if !filled {
				continue
			}
			if match.IsBye() && match.Slot1 != nil {
				completeBye(match, now)
			} else if match.SlotsResolved() {
				match.Status = models.MatchStatusPending
			}
			changed = append(changed, match)
		}
		if next.Status == models.MatchStatusWaiting {
			next.Status = models.MatchStatusPending
		}
	}

	final := &rounds[len(rounds)-1]
	if roundCompleted(final) {
		final.Status = models.MatchStatusCompleted
		if len(final.Matches) == 1 && final.Matches[0].Winner != nil {
			champion = final.Matches[0].Winner
		}
	}
	return changed, champion
}

// AllCompleted reports whether every match of every round is completed.
// It is the completion condition for round-robin tournaments.
func AllCompleted(rounds []models.Round) bool {
	for r := range rounds {
		if !roundCompleted(&rounds[r]) {
			return false
		}
	}
	return len(rounds) > 0
}

func roundCompleted(round *models.Round) bool {
	for m := range round.Matches {
		if round.Matches[m].Status != models.MatchStatusCompleted {
			return false
		}
	}
	return len(round.Matches) > 0
}

func roundWinners(round *models.Round) []string {
	winners := make([]string, 0, len(round.Matches))
	for m := range round.Matches {
		if w := round.Matches[m].Winner; w != nil {
			winners = append(winners, *w)
		}
	}
	return winners
}

// BuildRounds reassembles the round structure from a flat match list, as
// stored in the database. Matches must carry round and order numbers;
// participantCount drives the display names via the survivor-count chain.
func BuildRounds(matches []models.Match, bracketType models.BracketType, participantCount int) []models.Round {
	if len(matches) == 0 {
		return nil
	}

	byRound := make(map[int][]models.Match)
	maxRound := 0
	for _, m := range matches {
		byRound[m.Round] = append(byRound[m.Round], m)
		if m.Round > maxRound {
			maxRound = m.Round
		}
	}

	counts := survivorCounts(participantCount)
	rounds := make([]models.Round, 0, maxRound)
	for r := 1; r <= maxRound; r++ {
		roundMatches := byRound[r]
		sortMatchesByOrder(roundMatches)
		name := "Round Robin"
		if bracketType == models.BracketSingleElimination {
			survivors := 0
			if r-1 < len(counts) {
				survivors = counts[r-1]
			}
			name = eliminationRoundName(r, survivors)
		}
		rounds = append(rounds, models.Round{
			Number:  r,
			Name:    name,
			Status:  deriveRoundStatus(roundMatches),
			Matches: roundMatches,
		})
	}
	return rounds
}

func sortMatchesByOrder(matches []models.Match) {
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].OrderInRound < matches[j].OrderInRound
	})
}

func deriveRoundStatus(matches []models.Match) models.MatchStatus {
	completed := 0
	waiting := 0
	for i := range matches {
		switch matches[i].Status {
		case models.MatchStatusCompleted:
			completed++
		case models.MatchStatusWaiting:
			waiting++
		}
	}
	switch {
	case completed == len(matches):
		return models.MatchStatusCompleted
	case waiting == len(matches):
		return models.MatchStatusWaiting
	default:
		return models.MatchStatusPending
	}
}
