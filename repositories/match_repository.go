package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/debatehub/debate-arena/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, tournamentID, matchID string) (*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Match, error)
	UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error
	UpdateSlots(ctx context.Context, exec SQLExecutor, m *models.Match) error
	UpdateTranscriptKey(ctx context.Context, exec SQLExecutor, tournamentID, matchID, key string) error
	CountCompleted(ctx context.Context) (int, error)
	ListCompletedAll(ctx context.Context) ([]*models.Match, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, tournament_id, round, order_in_round, slot1, slot2, status,
	winner, slot1_score, slot2_score, motion, feedback, transcript_key, completed_at`

func (r *postgresMatchRepository) BatchCreate(ctx context.Context, exec SQLExecutor, matches []*models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (id, tournament_id, round, order_in_round, slot1, slot2, status,
			winner, slot1_score, slot2_score, motion, feedback, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	for _, m := range matches {
		s1, s2 := scoreColumns(m)
		_, err := executor.ExecContext(ctx, query,
			m.ID, m.TournamentID, m.Round, m.OrderInRound, m.Slot1, m.Slot2, m.Status,
			m.Winner, s1, s2, m.Motion, m.Feedback, m.CompletedAt)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, tournamentID, matchID string) (*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 AND id = $2`

	m, err := scanMatch(executor.QueryRowContext(ctx, query, tournamentID, matchID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	return m, err
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID string) ([]*models.Match, error) {
	executor := r.getExecutor(exec)
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1
		ORDER BY round ASC, order_in_round ASC`

	rows, err := executor.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatches(rows)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET status = $1, winner = $2, slot1_score = $3, slot2_score = $4,
			motion = $5, feedback = $6, completed_at = $7
		WHERE tournament_id = $8 AND id = $9`

	s1, s2 := scoreColumns(m)
	result, err := executor.ExecContext(ctx, query,
		m.Status, m.Winner, s1, s2,
		m.Motion, m.Feedback, m.CompletedAt, m.TournamentID, m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateSlots(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches
		SET slot1 = $1, slot2 = $2, status = $3, winner = $4, completed_at = $5
		WHERE tournament_id = $6 AND id = $7`

	result, err := executor.ExecContext(ctx, query,
		m.Slot1, m.Slot2, m.Status, m.Winner, m.CompletedAt, m.TournamentID, m.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateTranscriptKey(ctx context.Context, exec SQLExecutor, tournamentID, matchID, key string) error {
	executor := r.getExecutor(exec)
	result, err := executor.ExecContext(ctx,
		`UPDATE matches SET transcript_key = $1 WHERE tournament_id = $2 AND id = $3`,
		key, tournamentID, matchID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) CountCompleted(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE status = $1`, models.MatchStatusCompleted).Scan(&count)
	return count, err
}

func (r *postgresMatchRepository) ListCompletedAll(ctx context.Context) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE status = $1
		ORDER BY completed_at ASC`

	rows, err := r.db.QueryContext(ctx, query, models.MatchStatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMatches(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatchInto(m *models.Match, s rowScanner) error {
	var s1, s2 *int
	err := s.Scan(&m.ID, &m.TournamentID, &m.Round, &m.OrderInRound, &m.Slot1, &m.Slot2,
		&m.Status, &m.Winner, &s1, &s2, &m.Motion, &m.Feedback,
		&m.TranscriptKey, &m.CompletedAt)
	if err != nil {
		return err
	}
	if s1 != nil && s2 != nil {
		m.Scores = &models.MatchScores{Participant1: *s1, Participant2: *s2}
	}
	return nil
}

// scoreColumns splits the scores pair into the two nullable columns.
func scoreColumns(m *models.Match) (s1, s2 *int) {
	if m.Scores != nil {
		s1, s2 = &m.Scores.Participant1, &m.Scores.Participant2
	}
	return s1, s2
}

func scanMatch(row *sql.Row) (*models.Match, error) {
	m := &models.Match{}
	if err := scanMatchInto(m, row); err != nil {
		return nil, err
	}
	return m, nil
}

func scanMatches(rows *sql.Rows) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if err := scanMatchInto(m, rows); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}
