package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/debatehub/debate-arena/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrParticipantConflict = errors.New("participant name already taken in this tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Participant, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) (int, error)
	NameTaken(ctx context.Context, exec SQLExecutor, tournamentID, name string) (bool, error)
	CountAll(ctx context.Context) (int, error)
	ListAll(ctx context.Context) ([]*models.Participant, error)
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO participants (tournament_id, name, skill_level)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := executor.QueryRowContext(ctx, query, p.TournamentID, p.Name, p.SkillLevel).
		Scan(&p.ID, &p.JoinedAt)

	// Unique index on (tournament_id, lower(name)).
	if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
		return ErrParticipantConflict
	}
	return err
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Participant, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, tournament_id, name, skill_level, joined_at
		FROM participants
		WHERE tournament_id = $1
		ORDER BY joined_at ASC, id ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanParticipants(rows)
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) (int, error) {
	executor := r.getExecutor(exec)
	var count int
	err := executor.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, tournamentID).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) NameTaken(ctx context.Context, exec SQLExecutor, tournamentID, name string) (bool, error) {
	executor := r.getExecutor(exec)
	var taken bool
	err := executor.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM participants WHERE tournament_id = $1 AND LOWER(name) = LOWER($2))`,
		tournamentID, name).Scan(&taken)
	return taken, err
}

func (r *postgresParticipantRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participants`).Scan(&count)
	return count, err
}

func (r *postgresParticipantRepository) ListAll(ctx context.Context) ([]*models.Participant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, name, skill_level, joined_at
		FROM participants
		ORDER BY joined_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanParticipants(rows)
}

func scanParticipants(rows *sql.Rows) ([]*models.Participant, error) {
	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if err := rows.Scan(&p.ID, &p.TournamentID, &p.Name, &p.SkillLevel, &p.JoinedAt); err != nil {
			return nil, err
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}
