package brackets

import (
	"context"
	"fmt"

	"github.com/debatehub/debate-arena/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) GetName() string {
	return "RoundRobin"
}

// GenerateRounds creates one match per unordered pair of participants in a
// single pass. Everything lands in a single conceptual round with no
// progression dependencies; the tournament completes when every match does.
func (g *RoundRobinGenerator) GenerateRounds(ctx context.Context, params GenerateParams) ([]models.Round, error) {
	participants := params.Participants
	n := len(participants)

	if n == 0 {
		return nil, ErrNoParticipants
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: minimum 2 required for round robin, found %d", ErrNotEnoughParticipants, n)
	}

	matches := make([]models.Match, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			p1 := participants[i].Name
			p2 := participants[j].Name
			matches = append(matches, models.Match{
				ID:           fmt.Sprintf("rr_m%d", len(matches)+1),
				TournamentID: params.Tournament.ID,
				Round:        1,
				OrderInRound: len(matches) + 1,
				Slot1:        &p1,
				Slot2:        &p2,
				Status:       models.MatchStatusPending,
			})
		}
	}

	return []models.Round{{
		Number:  1,
		Name:    "Round Robin",
		Status:  models.MatchStatusPending,
		Matches: matches,
	}}, nil
}
