package feedback

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository handles feedback persistence
type Repository interface {
	UpsertAlgorithmVote(ctx context.Context, vote *AlgorithmVote) error
	HasVoted(ctx context.Context, userID int64) (bool, error)
	UpsertWatchRating(ctx context.Context, userID, movieID int64, algorithm string, likelihood int) error
	GetWatchRatings(ctx context.Context, userID int64) ([]*watchRating, error)
}

type watchRating struct {
	MovieID    int64  `db:"movieid"`
	Algorithm  string `db:"algorithm"`
	Likelihood int    `db:"likelihood"`
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL feedback repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

// UpsertAlgorithmVote writes the user's vote for one movie pair, last write
// wins when the same pair is judged twice
func (r *postgresRepository) UpsertAlgorithmVote(ctx context.Context, vote *AlgorithmVote) error {
	query := `
		INSERT INTO algorithm_votes (userid, ncf_movieid, cf_movieid, preferred, ncf_rating, cf_rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (userid, ncf_movieid, cf_movieid)
		DO UPDATE SET
			preferred = EXCLUDED.preferred,
			ncf_rating = EXCLUDED.ncf_rating,
			cf_rating = EXCLUDED.cf_rating,
			updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query,
		vote.UserID, vote.NCFMovieID, vote.CFMovieID, vote.Preferred, vote.NCFRating, vote.CFRating)
	if err != nil {
		return fmt.Errorf("failed to save algorithm vote: %w", err)
	}
	return nil
}

func (r *postgresRepository) HasVoted(ctx context.Context, userID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM algorithm_votes WHERE userid = $1)`

	var voted bool
	err := r.db.GetContext(ctx, &voted, query, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check vote: %w", err)
	}
	return voted, nil
}

func (r *postgresRepository) UpsertWatchRating(ctx context.Context, userID, movieID int64, algorithm string, likelihood int) error {
	query := `
		INSERT INTO watch_ratings (userid, movieid, algorithm, likelihood)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (userid, movieid, algorithm)
		DO UPDATE SET likelihood = EXCLUDED.likelihood, updated_at = NOW()`

	_, err := r.db.ExecContext(ctx, query, userID, movieID, algorithm, likelihood)
	if err != nil {
		return fmt.Errorf("failed to save watch rating: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetWatchRatings(ctx context.Context, userID int64) ([]*watchRating, error) {
	query := `SELECT movieid, algorithm, likelihood FROM watch_ratings WHERE userid = $1`

	var ratings []*watchRating
	err := r.db.SelectContext(ctx, &ratings, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get watch ratings: %w", err)
	}
	return ratings, nil
}
