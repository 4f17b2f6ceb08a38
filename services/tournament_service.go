package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/debatehub/debate-arena/brackets"
	"github.com/debatehub/debate-arena/models"
	"github.com/debatehub/debate-arena/repositories"
	"github.com/gosimple/slug"
)

const (
	defaultMaxParticipants = 16
	maxParticipantsCap     = 64
	codeGenAttempts        = 5
)

type CreateTournamentInput struct {
	Name                 string     `json:"name"`
	DebateFormat         string     `json:"format"`
	BracketType          string     `json:"tournament_type"`
	SkillLevel           string     `json:"skill_level"`
	Description          string     `json:"description"`
	MaxParticipants      int        `json:"max_participants"`
	PrizePool            int        `json:"prize_pool"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`

	// Creator is taken from the guest session, not the request body.
	CreatorName       string `json:"-"`
	CreatorSkillLevel string `json:"-"`
}

type JoinResult struct {
	Participant *models.Participant `json:"participant"`
	Tournament  *models.Tournament  `json:"tournament"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	List(ctx context.Context) ([]models.TournamentSummary, error)
	Get(ctx context.Context, id string) (*models.Tournament, error)
	Join(ctx context.Context, tournamentID, name, skillLevel string) (*JoinResult, error)
	Start(ctx context.Context, tournamentID string) (*models.Tournament, error)
	StartDueTournaments(ctx context.Context) (int, error)
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		hub:             hub,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if input.MaxParticipants == 0 {
		input.MaxParticipants = defaultMaxParticipants
	}
	if input.MaxParticipants < 2 || input.MaxParticipants > maxParticipantsCap {
		return nil, fmt.Errorf("%w: max_participants must be between 2 and %d", ErrValidationFailed, maxParticipantsCap)
	}
	if input.PrizePool < 0 {
		return nil, fmt.Errorf("%w: prize_pool cannot be negative", ErrValidationFailed)
	}

	bracketType := models.BracketType(input.BracketType)
	if bracketType == "" {
		bracketType = models.BracketSingleElimination
	}
	if _, err := brackets.ForType(bracketType); err != nil {
		return nil, fmt.Errorf("%w: unknown tournament_type %q", ErrValidationFailed, input.BracketType)
	}

	tournament := &models.Tournament{
		Name:                 input.Name,
		Slug:                 slug.Make(input.Name),
		DebateFormat:         input.DebateFormat,
		BracketType:          bracketType,
		SkillLevel:           input.SkillLevel,
		Description:          input.Description,
		MaxParticipants:      input.MaxParticipants,
		PrizePool:            input.PrizePool,
		RegistrationDeadline: input.RegistrationDeadline,
		Status:               models.StatusRegistration,
	}

	// Codes are random, so a collision just means we roll again.
	var err error
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		tournament.ID = generateCode(tournamentCodeLength)
		err = s.tournamentRepo.Create(ctx, nil, tournament)
		if !errors.Is(err, repositories.ErrTournamentCodeConflict) {
			break
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	// The creator takes the first seat.
	if creator := strings.TrimSpace(input.CreatorName); creator != "" {
		participant := &models.Participant{
			TournamentID: tournament.ID,
			Name:         creator,
			SkillLevel:   input.CreatorSkillLevel,
		}
		if err := s.participantRepo.Create(ctx, nil, participant); err != nil {
			return nil, fmt.Errorf("failed to register creator: %w", err)
		}
		tournament.Participants = []models.Participant{*participant}
	}

	s.logger.InfoContext(ctx, "tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("name", tournament.Name),
		slog.String("bracket_type", string(tournament.BracketType)))
	return tournament, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.TournamentSummary, error) {
	tournaments, err := s.tournamentRepo.List(ctx, repositories.ListTournamentsFilter{
		Statuses: []models.TournamentStatus{models.StatusRegistration, models.StatusActive},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}

	now := time.Now()
	summaries := make([]models.TournamentSummary, 0, len(tournaments))
	for i := range tournaments {
		t := tournaments[i]
		count, err := s.participantRepo.CountByTournament(ctx, nil, t.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to count participants for %s: %w", t.ID, err)
		}
		summaries = append(summaries, models.TournamentSummary{
			Tournament:        t,
			ParticipantsCount: count,
			CanJoin:           canJoin(&t, count, now),
		})
	}
	return summaries, nil
}

// admissionError decides a join against a row-locked tournament. A full
// tournament stays in registration until the host or the deadline sweep
// starts it, so the capacity rejection is observable: the join that takes
// the last seat succeeds and the next one fails. The deadline itself never
// rejects a join; the sweep flips status once it passes, and a join racing
// the sweep is still admitted while registration is open.
func admissionError(t *models.Tournament, participantCount int) error {
	if t.Status != models.StatusRegistration {
		return ErrRegistrationClosed
	}
	if participantCount >= t.MaxParticipants {
		return ErrCapacityExceeded
	}
	return nil
}

func canJoin(t *models.Tournament, participantCount int, now time.Time) bool {
	if t.Status != models.StatusRegistration {
		return false
	}
	if participantCount >= t.MaxParticipants {
		return false
	}
	if t.RegistrationDeadline != nil && now.After(*t.RegistrationDeadline) {
		return false
	}
	return true
}

func (s *tournamentService) Get(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to load tournament %s: %w", id, err)
	}
	return s.populate(ctx, tournament)
}

func (s *tournamentService) populate(ctx context.Context, tournament *models.Tournament) (*models.Tournament, error) {
	participants, err := s.participantRepo.ListByTournament(ctx, nil, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participants for %s: %w", tournament.ID, err)
	}
	tournament.Participants = dereferenceParticipants(participants)

	matches, err := s.matchRepo.ListByTournament(ctx, nil, tournament.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for %s: %w", tournament.ID, err)
	}
	tournament.Rounds = brackets.BuildRounds(dereferenceMatches(matches), tournament.BracketType, len(participants))
	return tournament, nil
}

func (s *tournamentService) Join(ctx context.Context, tournamentID, name, skillLevel string) (*JoinResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", ErrValidationFailed)
	}
	if strings.EqualFold(name, models.ByeSlot) {
		return nil, fmt.Errorf("%w: %q is a reserved name", ErrValidationFailed, name)
	}

	result := &JoinResult{}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %s: %w", tournamentID, err)
		}

		count, err := s.participantRepo.CountByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to count participants for %s: %w", tournamentID, err)
		}
		if err := admissionError(tournament, count); err != nil {
			return err
		}

		taken, err := s.participantRepo.NameTaken(ctx, tx, tournamentID, name)
		if err != nil {
			return fmt.Errorf("failed to check participant name: %w", err)
		}
		if taken {
			return ErrDuplicateParticipant
		}

		participant := &models.Participant{
			TournamentID: tournamentID,
			Name:         name,
			SkillLevel:   skillLevel,
		}
		if err := s.participantRepo.Create(ctx, tx, participant); err != nil {
			if errors.Is(err, repositories.ErrParticipantConflict) {
				return ErrDuplicateParticipant
			}
			return fmt.Errorf("failed to register participant: %w", err)
		}

		result.Participant = participant
		result.Tournament = tournament
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hub.Broadcast(brackets.Event{
		Type:    brackets.EventBracketUpdated,
		Topic:   brackets.TournamentTopic(tournamentID),
		Payload: map[string]string{"tournament_id": tournamentID, "joined": name},
	})
	s.logger.InfoContext(ctx, "participant joined",
		slog.String("tournament_id", tournamentID),
		slog.String("name", name))
	return result, nil
}

func (s *tournamentService) Start(ctx context.Context, tournamentID string) (*models.Tournament, error) {
	var tournament *models.Tournament
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		t, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %s: %w", tournamentID, err)
		}
		if t.Status != models.StatusRegistration {
			return ErrAlreadyStarted
		}
		if err := s.startLocked(ctx, tx, t); err != nil {
			return err
		}
		tournament = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcastStarted(tournament)
	return s.populate(ctx, tournament)
}

// startLocked transitions a row-locked tournament out of registration. The
// caller holds the FOR UPDATE lock, so concurrent starts serialize and the
// status check makes the transition happen exactly once.
func (s *tournamentService) startLocked(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) error {
	participants, err := s.participantRepo.ListByTournament(ctx, tx, tournament.ID)
	if err != nil {
		return fmt.Errorf("failed to load participants for %s: %w", tournament.ID, err)
	}
	if len(participants) < tournament.MinParticipants() {
		return ErrInsufficientEntrants
	}

	// A lone entrant in a knockout bracket wins by walkover.
	if len(participants) == 1 {
		champion := participants[0].Name
		if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusCompleted); err != nil {
			return fmt.Errorf("failed to complete tournament %s: %w", tournament.ID, err)
		}
		if err := s.tournamentRepo.SetChampion(ctx, tx, tournament.ID, champion); err != nil {
			return fmt.Errorf("failed to set champion for %s: %w", tournament.ID, err)
		}
		tournament.Status = models.StatusCompleted
		tournament.Champion = &champion
		return nil
	}

	generator, err := brackets.ForType(tournament.BracketType)
	if err != nil {
		return fmt.Errorf("no generator for %s: %w", tournament.BracketType, err)
	}
	rounds, err := generator.GenerateRounds(ctx, brackets.GenerateParams{
		Tournament:   tournament,
		Participants: participants,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) || errors.Is(err, brackets.ErrNoParticipants) {
			return ErrInsufficientEntrants
		}
		return fmt.Errorf("failed to generate bracket for %s: %w", tournament.ID, err)
	}

	if err := s.matchRepo.BatchCreate(ctx, tx, flattenRounds(rounds)); err != nil {
		return fmt.Errorf("failed to persist bracket for %s: %w", tournament.ID, err)
	}
	if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.StatusActive); err != nil {
		return fmt.Errorf("failed to activate tournament %s: %w", tournament.ID, err)
	}
	if err := s.tournamentRepo.UpdateCurrentRound(ctx, tx, tournament.ID, 1); err != nil {
		return fmt.Errorf("failed to set current round for %s: %w", tournament.ID, err)
	}
	tournament.Status = models.StatusActive
	tournament.CurrentRound = 1
	return nil
}

// StartDueTournaments starts every tournament whose registration deadline has
// passed and that has reached its minimum roster. It is invoked periodically
// by the scheduler and returns how many tournaments were started.
func (s *tournamentService) StartDueTournaments(ctx context.Context) (int, error) {
	due, err := s.tournamentRepo.ListPastDeadline(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list tournaments past deadline: %w", err)
	}

	started := 0
	for i := range due {
		id := due[i].ID
		if _, err := s.Start(ctx, id); err != nil {
			if errors.Is(err, ErrInsufficientEntrants) || errors.Is(err, ErrAlreadyStarted) {
				continue
			}
			s.logger.ErrorContext(ctx, "deadline sweep failed to start tournament",
				slog.String("tournament_id", id), slog.Any("error", err))
			continue
		}
		started++
	}
	return started, nil
}

func (s *tournamentService) broadcastStarted(tournament *models.Tournament) {
	eventType := brackets.EventTournamentStarted
	if tournament.Status == models.StatusCompleted {
		eventType = brackets.EventTournamentCompleted
	}
	s.hub.Broadcast(brackets.Event{
		Type:    eventType,
		Topic:   brackets.TournamentTopic(tournament.ID),
		Payload: map[string]interface{}{"tournament_id": tournament.ID, "status": tournament.Status},
	})
}

func flattenRounds(rounds []models.Round) []*models.Match {
	var flat []*models.Match
	for r := range rounds {
		for m := range rounds[r].Matches {
			match := rounds[r].Matches[m]
			flat = append(flat, &match)
		}
	}
	return flat
}

func dereferenceParticipants(slice []*models.Participant) []models.Participant {
	result := make([]models.Participant, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}

func dereferenceMatches(slice []*models.Match) []models.Match {
	result := make([]models.Match, 0, len(slice))
	for _, ptr := range slice {
		if ptr != nil {
			result = append(result, *ptr)
		}
	}
	return result
}
