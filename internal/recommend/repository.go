package recommend

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jmoiron/sqlx"
)

// Repository reads the survey ratings the scorer is trained against
type Repository interface {
	GetSurveyRatings(ctx context.Context, userID int64) (map[string]int, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL recommend repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetSurveyRatings(ctx context.Context, userID int64) (map[string]int, error) {
	query := `SELECT movieid, rating FROM user_survey_ratings WHERE userid = $1`

	rows := []struct {
		MovieID int64 `db:"movieid"`
		Rating  int   `db:"rating"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get survey ratings: %w", err)
	}

	ratings := make(map[string]int, len(rows))
	for _, row := range rows {
		ratings[strconv.FormatInt(row.MovieID, 10)] = row.Rating
	}
	return ratings, nil
}
