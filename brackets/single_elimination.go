package brackets

import (
	"context"
	"fmt"
	"time"

	"github.com/debatehub/debate-arena/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) GetName() string {
	return "SingleElimination"
}

// GenerateRounds builds the complete single-elimination skeleton up front.
//
// Survivor counts follow c0 = N, c[r+1] = ceil(c[r]/2) until one remains.
// Each round pairs survivors in fixed order (1v2, 3v4, ...); an odd count
// gives the last match a BYE in slot 2, so the first round always holds
// ceil(N/2) matches and BYEs appear only when N is not a power of two.
// Round one gets concrete slots and any BYE match completes immediately.
// Later rounds keep unset slots in "waiting" state until the prior round
// finishes and AdvanceRounds fills them.
func (g *SingleEliminationGenerator) GenerateRounds(ctx context.Context, params GenerateParams) ([]models.Round, error) {
	participants := params.Participants
	n := len(participants)

	if n == 0 {
		return nil, ErrNoParticipants
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: minimum 2 required for single elimination, found %d", ErrNotEnoughParticipants, n)
	}

	names := make([]string, n)
	for i, p := range participants {
		names[i] = p.Name
	}

	counts := survivorCounts(n)
	rounds := make([]models.Round, 0, len(counts))
	now := time.Now()

	for r, survivors := range counts {
		roundNumber := r + 1
		matchCount := (survivors + 1) / 2
		round := models.Round{
			Number:  roundNumber,
			Name:    eliminationRoundName(roundNumber, survivors),
			Status:  models.MatchStatusWaiting,
			Matches: make([]models.Match, 0, matchCount),
		}

		for m := 0; m < matchCount; m++ {
			match := models.Match{
				ID:           fmt.Sprintf("r%d_m%d", roundNumber, m+1),
				TournamentID: params.Tournament.ID,
				Round:        roundNumber,
				OrderInRound: m + 1,
				Status:       models.MatchStatusWaiting,
			}
			if survivors%2 == 1 && m == matchCount-1 {
				bye := models.ByeSlot
				match.Slot2 = &bye
			}
			round.Matches = append(round.Matches, match)
		}

		if roundNumber == 1 {
			round.Status = models.MatchStatusPending
			for m := range round.Matches {
				match := &round.Matches[m]
				match.Slot1 = &names[2*m]
				if 2*m+1 < n {
					match.Slot2 = &names[2*m+1]
				}
				if match.IsBye() {
					completeBye(match, now)
				} else {
					match.Status = models.MatchStatusPending
				}
			}
		}

		rounds = append(rounds, round)
	}

	return rounds, nil
}

// survivorCounts returns the number of live participants entering each
// round, starting at n and halving (rounded up) until one remains.
func survivorCounts(n int) []int {
	var counts []int
	for c := n; c > 1; c = (c + 1) / 2 {
		counts = append(counts, c)
	}
	return counts
}

func eliminationRoundName(roundNumber, survivors int) string {
	switch {
	case survivors == 2:
		return "Final"
	case survivors == 4:
		return "Semi-Final"
	case roundNumber == 1:
		return "First Round"
	default:
		return fmt.Sprintf("Round %d", roundNumber)
	}
}

// completeBye records the automatic advancement of the real slot.
func completeBye(m *models.Match, now time.Time) {
	winner := *m.Slot1
	m.Winner = &winner
	m.Status = models.MatchStatusCompleted
	completedAt := now
	m.CompletedAt = &completedAt
}
