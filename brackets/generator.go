package brackets

import (
	"context"
	"errors"

	"github.com/debatehub/debate-arena/models"
)

var (
	ErrNoParticipants         = errors.New("cannot generate bracket with zero participants")
	ErrNotEnoughParticipants  = errors.New("not enough participants to generate bracket")
	ErrUnsupportedBracketType = errors.New("unsupported bracket type")
)

type GenerateParams struct {
	Tournament   *models.Tournament
	Participants []*models.Participant
}

// Generator produces the full round structure for one bracket type.
// Generation is deterministic: participants are paired in roster order.
type Generator interface {
	GenerateRounds(ctx context.Context, params GenerateParams) ([]models.Round, error)

	GetName() string
}

// ForType returns the generator registered for the given bracket type.
func ForType(bt models.BracketType) (Generator, error) {
	switch bt {
	case models.BracketSingleElimination:
		return NewSingleEliminationGenerator(), nil
	case models.BracketRoundRobin:
		return NewRoundRobinGenerator(), nil
	default:
		return nil, ErrUnsupportedBracketType
	}
}
