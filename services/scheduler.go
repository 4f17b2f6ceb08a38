package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

const (
	deadlineSweepInterval = 30 * time.Second
	roomSweepInterval     = 10 * time.Minute
)

// Scheduler owns the periodic maintenance jobs: starting tournaments whose
// registration deadline has passed and dropping expired practice rooms.
type Scheduler struct {
	scheduler   gocron.Scheduler
	tournaments TournamentService
	rooms       *RoomService
	logger      *slog.Logger
}

func NewScheduler(tournaments TournamentService, rooms *RoomService, logger *slog.Logger) (*Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	return &Scheduler{
		scheduler:   sched,
		tournaments: tournaments,
		rooms:       rooms,
		logger:      logger,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(deadlineSweepInterval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), deadlineSweepInterval)
			defer cancel()

			started, err := s.tournaments.StartDueTournaments(ctx)
			if err != nil {
				s.logger.Error("deadline sweep failed", slog.Any("error", err))
				return
			}
			if started > 0 {
				s.logger.Info("deadline sweep started tournaments", slog.Int("count", started))
			}
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule deadline sweep: %w", err)
	}

	_, err = s.scheduler.NewJob(
		gocron.DurationJob(roomSweepInterval),
		gocron.NewTask(func() {
			s.rooms.SweepExpired()
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule room sweep: %w", err)
	}

	s.scheduler.Start()
	s.logger.Info("scheduler started",
		slog.Duration("deadline_sweep", deadlineSweepInterval),
		slog.Duration("room_sweep", roomSweepInterval))
	return nil
}

func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}
