package preferences

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository defines database operations for survey answers
type Repository interface {
	GetAnswers(ctx context.Context, userID int64) ([]*Answer, error)
	UpsertAnswer(ctx context.Context, userID int64, questionID int, answer string) error
	HasAnswers(ctx context.Context, userID int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// GetAnswers retrieves all survey answers for a user
func (r *postgresRepository) GetAnswers(ctx context.Context, userID int64) ([]*Answer, error) {
	query := `
        SELECT userid, questionid, answer, created_at
        FROM userpreferences
        WHERE userid = $1
        ORDER BY questionid`

	var answers []*Answer
	err := r.db.SelectContext(ctx, &answers, query, userID)
	return answers, err
}

// UpsertAnswer stores one survey answer, replacing a previous answer
// to the same question
func (r *postgresRepository) UpsertAnswer(ctx context.Context, userID int64, questionID int, answer string) error {
	query := `
        INSERT INTO userpreferences (userid, questionid, answer)
        VALUES ($1, $2, $3)
        ON CONFLICT (userid, questionid) DO UPDATE SET answer = $3`

	_, err := r.db.ExecContext(ctx, query, userID, questionID, answer)
	return err
}

// HasAnswers checks whether the user has submitted any survey answers
func (r *postgresRepository) HasAnswers(ctx context.Context, userID int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM userpreferences WHERE userid = $1)`
	err := r.db.GetContext(ctx, &exists, query, userID)
	return exists, err
}
