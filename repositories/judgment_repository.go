package repositories

import (
	"context"
	"database/sql"

	"github.com/debatehub/debate-arena/models"
)

// judgmentFeedCap bounds how many judgments are kept per insert prune.
const judgmentFeedCap = 20

type JudgmentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, j *models.Judgment) error
	ListRecent(ctx context.Context, limit int) ([]*models.Judgment, error)
}

type postgresJudgmentRepository struct {
	db *sql.DB
}

func NewPostgresJudgmentRepository(db *sql.DB) JudgmentRepository {
	return &postgresJudgmentRepository{db: db}
}

func (r *postgresJudgmentRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresJudgmentRepository) Create(ctx context.Context, exec SQLExecutor, j *models.Judgment) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO judgments (id, tournament_id, tournament_name, match_id, judge_name,
			participant1, participant2, winner, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	err := executor.QueryRowContext(ctx, query,
		j.ID, j.TournamentID, j.TournamentName, j.MatchID, j.JudgeName,
		j.Participant1, j.Participant2, j.Winner, j.Score).Scan(&j.CreatedAt)
	if err != nil {
		return err
	}

	// Keep only the newest entries, the feed never pages further back.
	_, err = executor.ExecContext(ctx, `
		DELETE FROM judgments
		WHERE id NOT IN (
			SELECT id FROM judgments ORDER BY created_at DESC, id DESC LIMIT $1
		)`, judgmentFeedCap)
	return err
}

func (r *postgresJudgmentRepository) ListRecent(ctx context.Context, limit int) ([]*models.Judgment, error) {
	if limit <= 0 || limit > judgmentFeedCap {
		limit = judgmentFeedCap
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, tournament_id, tournament_name, match_id, judge_name,
			participant1, participant2, winner, score, created_at
		FROM judgments
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	judgments := make([]*models.Judgment, 0, limit)
	for rows.Next() {
		j := &models.Judgment{}
		if err := rows.Scan(&j.ID, &j.TournamentID, &j.TournamentName, &j.MatchID, &j.JudgeName,
			&j.Participant1, &j.Participant2, &j.Winner, &j.Score, &j.CreatedAt); err != nil {
			return nil, err
		}
		judgments = append(judgments, j)
	}
	return judgments, rows.Err()
}
