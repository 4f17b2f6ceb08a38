package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/debatehub/debate-arena/brackets"
	"github.com/debatehub/debate-arena/models"
	"github.com/debatehub/debate-arena/repositories"
	"github.com/debatehub/debate-arena/storage"
	"github.com/google/uuid"
)

const defaultJudgeName = "AI Judge"

type RecordResultInput struct {
	Winner     string `json:"winner"`
	Slot1Score int    `json:"score1"`
	Slot2Score int    `json:"score2"`
	Motion     string `json:"motion"`
	Feedback   string `json:"feedback"`
	JudgeName  string `json:"judge_name"`
	Transcript string `json:"transcript"`
}

type RecordResultOutput struct {
	Match      *models.Match `json:"match"`
	Advanced   bool          `json:"advanced"`
	Champion   *string       `json:"champion,omitempty"`
	Completed  bool          `json:"tournament_completed"`
	Tournament string        `json:"tournament_id"`
}

type MatchService interface {
	RecordResult(ctx context.Context, tournamentID, matchID string, input RecordResultInput) (*RecordResultOutput, error)
}

type matchService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	judgmentRepo    repositories.JudgmentRepository
	uploader        storage.FileUploader
	hub             *brackets.Hub
	logger          *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	judgmentRepo repositories.JudgmentRepository,
	uploader storage.FileUploader,
	hub *brackets.Hub,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		judgmentRepo:    judgmentRepo,
		uploader:        uploader,
		hub:             hub,
		logger:          logger,
	}
}

// RecordResult records a match winner and cascades the consequences: later
// round slots fill in, BYE matches auto-complete, and the tournament closes
// once a champion is decided. Everything runs inside one transaction holding
// the tournament's row lock, so concurrent submissions for the same
// tournament serialize and round advancement happens exactly once.
func (s *matchService) RecordResult(ctx context.Context, tournamentID, matchID string, input RecordResultInput) (*RecordResultOutput, error) {
	input.Winner = strings.TrimSpace(input.Winner)
	if input.Winner == "" {
		return nil, fmt.Errorf("%w: winner is required", ErrValidationFailed)
	}

	out := &RecordResultOutput{Tournament: tournamentID}
	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, err := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				return ErrTournamentNotFound
			}
			return fmt.Errorf("failed to lock tournament %s: %w", tournamentID, err)
		}
		if tournament.Status != models.StatusActive {
			return ErrTournamentNotActive
		}

		participants, err := s.participantRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load participants for %s: %w", tournamentID, err)
		}
		stored, err := s.matchRepo.ListByTournament(ctx, tx, tournamentID)
		if err != nil {
			return fmt.Errorf("failed to load matches for %s: %w", tournamentID, err)
		}
		rounds := brackets.BuildRounds(dereferenceMatches(stored), tournament.BracketType, len(participants))

		match := findMatch(rounds, matchID)
		if match == nil {
			return ErrMatchNotFound
		}

		if err := brackets.ApplyResult(match, input.Winner, input.Slot1Score, input.Slot2Score, input.Motion); err != nil {
			return mapResultError(err)
		}
		if input.Feedback != "" {
			match.Feedback = &input.Feedback
		}
		if err := s.matchRepo.UpdateResult(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to persist result for %s/%s: %w", tournamentID, matchID, err)
		}
		out.Match = match

		if err := s.recordJudgment(ctx, tx, tournament, match, input); err != nil {
			return err
		}

		var champion *string
		if tournament.BracketType == models.BracketSingleElimination {
			var changed []*models.Match
			changed, champion = brackets.AdvanceRounds(rounds)
			for _, m := range changed {
				if err := s.matchRepo.UpdateSlots(ctx, tx, m); err != nil {
					return fmt.Errorf("failed to advance match %s: %w", m.ID, err)
				}
			}
			out.Advanced = len(changed) > 0
		} else if brackets.AllCompleted(rounds) {
			c := roundRobinChampion(participants, rounds)
			champion = &c
		}

		if current := currentRound(rounds); current > tournament.CurrentRound {
			if err := s.tournamentRepo.UpdateCurrentRound(ctx, tx, tournamentID, current); err != nil {
				return fmt.Errorf("failed to update current round for %s: %w", tournamentID, err)
			}
		}

		if champion != nil {
			if err := s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.StatusCompleted); err != nil {
				return fmt.Errorf("failed to complete tournament %s: %w", tournamentID, err)
			}
			if err := s.tournamentRepo.SetChampion(ctx, tx, tournamentID, *champion); err != nil {
				return fmt.Errorf("failed to set champion for %s: %w", tournamentID, err)
			}
			out.Champion = champion
			out.Completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.broadcast(out)
	s.archiveTranscript(ctx, tournamentID, matchID, input.Transcript)

	s.logger.InfoContext(ctx, "match result recorded",
		slog.String("tournament_id", tournamentID),
		slog.String("match_id", matchID),
		slog.String("winner", input.Winner),
		slog.Bool("completed", out.Completed))
	return out, nil
}

func (s *matchService) recordJudgment(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match, input RecordResultInput) error {
	judge := strings.TrimSpace(input.JudgeName)
	if judge == "" {
		judge = defaultJudgeName
	}
	judgment := &models.Judgment{
		ID:             uuid.NewString(),
		TournamentID:   tournament.ID,
		TournamentName: tournament.Name,
		MatchID:        match.ID,
		JudgeName:      judge,
		Participant1:   derefString(match.Slot1),
		Participant2:   derefString(match.Slot2),
		Winner:         input.Winner,
		Score:          fmt.Sprintf("%d-%d", input.Slot1Score, input.Slot2Score),
	}
	if err := s.judgmentRepo.Create(ctx, tx, judgment); err != nil {
		return fmt.Errorf("failed to record judgment: %w", err)
	}
	return nil
}

func (s *matchService) broadcast(out *RecordResultOutput) {
	topic := brackets.TournamentTopic(out.Tournament)
	s.hub.Broadcast(brackets.Event{
		Type:    brackets.EventMatchUpdated,
		Topic:   topic,
		Payload: out.Match,
	})
	if out.Advanced {
		s.hub.Broadcast(brackets.Event{
			Type:  brackets.EventBracketUpdated,
			Topic: topic,
		})
	}
	if out.Completed {
		s.hub.Broadcast(brackets.Event{
			Type:    brackets.EventTournamentCompleted,
			Topic:   topic,
			Payload: map[string]interface{}{"tournament_id": out.Tournament, "champion": out.Champion},
		})
	}
}

// archiveTranscript pushes the debate transcript to object storage after the
// result is committed. Archiving is best effort: a storage failure is logged
// and never unwinds a recorded result.
func (s *matchService) archiveTranscript(ctx context.Context, tournamentID, matchID, transcript string) {
	if transcript == "" {
		return
	}
	key := fmt.Sprintf("transcripts/%s/%s.txt", tournamentID, matchID)
	if _, err := s.uploader.Upload(ctx, key, "text/plain; charset=utf-8", strings.NewReader(transcript)); err != nil {
		s.logger.WarnContext(ctx, "transcript upload failed",
			slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.matchRepo.UpdateTranscriptKey(ctx, nil, tournamentID, matchID, key); err != nil {
		s.logger.WarnContext(ctx, "failed to store transcript key",
			slog.String("key", key), slog.Any("error", err))
	}
}

func findMatch(rounds []models.Round, matchID string) *models.Match {
	for r := range rounds {
		for m := range rounds[r].Matches {
			if rounds[r].Matches[m].ID == matchID {
				return &rounds[r].Matches[m]
			}
		}
	}
	return nil
}

func mapResultError(err error) error {
	switch {
	case errors.Is(err, brackets.ErrMatchCompleted):
		return ErrMatchAlreadyScored
	case errors.Is(err, brackets.ErrSlotsUnresolved), errors.Is(err, brackets.ErrByeMatchNotRecordable):
		return ErrMatchNotReady
	case errors.Is(err, brackets.ErrWinnerNotInMatch):
		return ErrWinnerNotInMatch
	default:
		return err
	}
}

// currentRound is the lowest round that still has an unfinished match, or
// the last round when everything is done.
func currentRound(rounds []models.Round) int {
	for r := range rounds {
		for m := range rounds[r].Matches {
			if rounds[r].Matches[m].Status != models.MatchStatusCompleted {
				return rounds[r].Number
			}
		}
	}
	if len(rounds) == 0 {
		return 0
	}
	return rounds[len(rounds)-1].Number
}

// roundRobinChampion is the rank-1 entry of the points leaderboard, under
// the same tie-break chain, so the champion never disagrees with the board
// shown to players.
func roundRobinChampion(participants []*models.Participant, rounds []models.Round) string {
	var completed []*models.Match
	for r := range rounds {
		for m := range rounds[r].Matches {
			if rounds[r].Matches[m].Status == models.MatchStatusCompleted {
				completed = append(completed, &rounds[r].Matches[m])
			}
		}
	}
	entries := BuildEntries(participants, completed)
	if len(entries) == 0 {
		return ""
	}
	RankEntries(entries, SortByPoints)
	return entries[0].Name
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
