package services

import (
	"context"
	"fmt"
	"time"

	"github.com/debatehub/debate-arena/models"
	"github.com/debatehub/debate-arena/repositories"
	"golang.org/x/sync/errgroup"
)

const recentJudgmentsShown = 10

// DashboardData is the aggregate payload behind GET /tournament/data.
type DashboardData struct {
	Stats             models.TournamentStats     `json:"stats"`
	ActiveTournaments []models.TournamentSummary `json:"active_tournaments"`
	AllTournaments    []models.TournamentRef     `json:"all_tournaments"`
	Leaderboard       []models.LeaderboardEntry  `json:"leaderboard"`
	RecentJudgments   []*models.Judgment         `json:"recent_judgments"`
}

type DashboardService interface {
	Data(ctx context.Context, currentUser string) (*DashboardData, error)
}

type dashboardService struct {
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	judgmentRepo    repositories.JudgmentRepository
	tournaments     TournamentService
	leaderboards    LeaderboardService
}

func NewDashboardService(
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
	judgmentRepo repositories.JudgmentRepository,
	tournaments TournamentService,
	leaderboards LeaderboardService,
) DashboardService {
	return &dashboardService{
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		judgmentRepo:    judgmentRepo,
		tournaments:     tournaments,
		leaderboards:    leaderboards,
	}
}

// Data assembles the dashboard in one round trip for the client. The five
// independent sections load concurrently.
func (s *dashboardService) Data(ctx context.Context, currentUser string) (*DashboardData, error) {
	data := &DashboardData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.stats(gctx)
		if err != nil {
			return err
		}
		data.Stats = *stats
		return nil
	})
	g.Go(func() error {
		summaries, err := s.tournaments.List(gctx)
		if err != nil {
			return err
		}
		data.ActiveTournaments = summaries
		return nil
	})
	g.Go(func() error {
		all, err := s.tournamentRepo.List(gctx, repositories.ListTournamentsFilter{})
		if err != nil {
			return fmt.Errorf("failed to list tournaments: %w", err)
		}
		refs := make([]models.TournamentRef, 0, len(all))
		for i := range all {
			refs = append(refs, models.TournamentRef{ID: all[i].ID, Name: all[i].Name})
		}
		data.AllTournaments = refs
		return nil
	})
	g.Go(func() error {
		board, err := s.leaderboards.Global(gctx, SortByPoints, currentUser)
		if err != nil {
			return err
		}
		data.Leaderboard = board.Entries
		return nil
	})
	g.Go(func() error {
		judgments, err := s.judgmentRepo.ListRecent(gctx, recentJudgmentsShown)
		if err != nil {
			return fmt.Errorf("failed to load recent judgments: %w", err)
		}
		now := time.Now()
		for _, j := range judgments {
			j.TimeAgo = timeAgo(j.CreatedAt, now)
		}
		data.RecentJudgments = judgments
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}

func (s *dashboardService) stats(ctx context.Context) (*models.TournamentStats, error) {
	active, err := s.tournamentRepo.CountByStatuses(ctx, []models.TournamentStatus{models.StatusActive})
	if err != nil {
		return nil, fmt.Errorf("failed to count active tournaments: %w", err)
	}
	participants, err := s.participantRepo.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count participants: %w", err)
	}
	completed, err := s.matchRepo.CountCompleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed matches: %w", err)
	}
	prizes, err := s.tournamentRepo.SumPrizePools(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum prize pools: %w", err)
	}
	return &models.TournamentStats{
		ActiveTournaments: active,
		TotalParticipants: participants,
		CompletedMatches:  completed,
		TotalPrizes:       prizes,
	}, nil
}
