package movies

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository handles catalog, exclusion and rating persistence
type Repository interface {
	// Catalog lookups
	GetMoviesByTMDBIDs(ctx context.Context, tmdbIDs []int64) ([]*Movie, error)
	GetMoviesByIDs(ctx context.Context, movieIDs []int64) ([]*Movie, error)
	GetTMDBID(ctx context.Context, movieID int64) (int64, error)
	MovieExists(ctx context.Context, movieID int64) (bool, error)
	SearchMovies(ctx context.Context, query string, limit int) ([]*Movie, error)

	// Local fallback selection
	GetPreferenceFallback(ctx context.Context, userID int64, genres []string, years []int, excludeIDs []int64, limit int) ([]*Movie, error)
	GetDiversityFallback(ctx context.Context, userID int64, preferredGenres []string, excludeIDs []int64, limit int) ([]*Movie, error)
	GetRandomFallback(ctx context.Context, userID int64, excludeIDs []int64) (*Movie, error)

	// Exclusion tracking
	ReplaceShownMovies(ctx context.Context, userID int64, generationID uuid.UUID, candidates []*CandidateMovie) error
	AppendShownMovie(ctx context.Context, userID int64, candidate *CandidateMovie) error
	GetShownMovieIDs(ctx context.Context, userID int64) ([]int64, error)
	ClearShownMovies(ctx context.Context, userID int64) error

	// Survey ratings
	SaveRatings(ctx context.Context, userID int64, ratings map[int64]int) error

	// Likes
	LikeMovie(ctx context.Context, userID, movieID int64) error
	UnlikeMovie(ctx context.Context, userID, movieID int64) error
	GetLikedMovies(ctx context.Context, userID int64) ([]*Movie, error)
	GetLikedMovieIDs(ctx context.Context, userID int64, movieIDs []int64) (map[int64]bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL movies repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetMoviesByTMDBIDs(ctx context.Context, tmdbIDs []int64) ([]*Movie, error) {
	if len(tmdbIDs) == 0 {
		return []*Movie{}, nil
	}

	query := `
		SELECT m.movieid, m.title, m.genres, l.tmdbid
		FROM movies m
		JOIN links l ON l.movieid = m.movieid
		WHERE l.tmdbid = ANY($1)`

	var movies []*Movie
	err := r.db.SelectContext(ctx, &movies, query, pq.Array(tmdbIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get movies by tmdb ids: %w", err)
	}
	return movies, nil
}

func (r *postgresRepository) GetMoviesByIDs(ctx context.Context, movieIDs []int64) ([]*Movie, error) {
	if len(movieIDs) == 0 {
		return []*Movie{}, nil
	}

	query := `
		SELECT movieid, title, genres
		FROM movies
		WHERE movieid = ANY($1)`

	var movies []*Movie
	err := r.db.SelectContext(ctx, &movies, query, pq.Array(movieIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get movies by ids: %w", err)
	}
	return movies, nil
}

func (r *postgresRepository) GetTMDBID(ctx context.Context, movieID int64) (int64, error) {
	query := `SELECT tmdbid FROM links WHERE movieid = $1`

	var tmdbID int64
	err := r.db.GetContext(ctx, &tmdbID, query, movieID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrMovieNotFound
		}
		return 0, fmt.Errorf("failed to get tmdb id: %w", err)
	}
	return tmdbID, nil
}

func (r *postgresRepository) MovieExists(ctx context.Context, movieID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM movies WHERE movieid = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, movieID)
	if err != nil {
		return false, fmt.Errorf("failed to check movie existence: %w", err)
	}
	return exists, nil
}

// SearchMovies matches the term against titles and genres, ranking title
// prefix matches ahead of title substring matches ahead of genre-only hits
func (r *postgresRepository) SearchMovies(ctx context.Context, search string, limit int) ([]*Movie, error) {
	query := `
		SELECT movieid, title, genres
		FROM movies
		WHERE title ILIKE $1 OR genres ILIKE $1
		ORDER BY
			CASE
				WHEN title ILIKE $2 THEN 0
				WHEN title ILIKE $1 THEN 1
				ELSE 2
			END,
			title
		LIMIT $3`

	var movies []*Movie
	err := r.db.SelectContext(ctx, &movies, query, "%"+search+"%", search+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search movies: %w", err)
	}
	return movies, nil
}

// GetPreferenceFallback selects random unseen catalog movies overlapping the
// user's genres within the preferred year span. Year membership is checked
// against the 4-digit year embedded in the title.
func (r *postgresRepository) GetPreferenceFallback(ctx context.Context, userID int64, genres []string, years []int, excludeIDs []int64, limit int) ([]*Movie, error) {
	if len(years) == 0 {
		return []*Movie{}, nil
	}
	yearFrom := years[0]
	yearTo := years[len(years)-1]
	// nil binds as SQL NULL, which makes the ANY() filter drop every row
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}

	query := `
		SELECT movieid, title, genres
		FROM movies m
		WHERE string_to_array(m.genres, '|') && $1::text[]
		  AND substring(m.title FROM '\((\d{4})\)')::int BETWEEN $2 AND $3
		  AND NOT (m.movieid = ANY($4))
		  AND NOT EXISTS (
			SELECT 1 FROM shown_movies s
			WHERE s.userid = $5 AND s.movieid = m.movieid
		  )
		ORDER BY RANDOM()
		LIMIT $6`

	var movies []*Movie
	err := r.db.SelectContext(ctx, &movies, query,
		pq.Array(genres), yearFrom, yearTo, pq.Array(excludeIDs), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference fallback movies: %w", err)
	}
	return movies, nil
}

// GetDiversityFallback selects random unseen movies sharing no genre with
// the user's preferred set
func (r *postgresRepository) GetDiversityFallback(ctx context.Context, userID int64, preferredGenres []string, excludeIDs []int64, limit int) ([]*Movie, error) {
	if preferredGenres == nil {
		preferredGenres = []string{}
	}
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}
	query := `
		SELECT movieid, title, genres
		FROM movies m
		WHERE NOT (string_to_array(m.genres, '|') && $1::text[])
		  AND NOT (m.movieid = ANY($2))
		  AND NOT EXISTS (
			SELECT 1 FROM shown_movies s
			WHERE s.userid = $3 AND s.movieid = m.movieid
		  )
		ORDER BY RANDOM()
		LIMIT $4`

	var movies []*Movie
	err := r.db.SelectContext(ctx, &movies, query,
		pq.Array(preferredGenres), pq.Array(excludeIDs), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get diversity fallback movies: %w", err)
	}
	return movies, nil
}

// GetRandomFallback picks one unseen movie with no constraints at all, the
// last resort of the replacement path
func (r *postgresRepository) GetRandomFallback(ctx context.Context, userID int64, excludeIDs []int64) (*Movie, error) {
	if excludeIDs == nil {
		excludeIDs = []int64{}
	}
	query := `
		SELECT movieid, title, genres
		FROM movies m
		WHERE NOT (m.movieid = ANY($1))
		  AND NOT EXISTS (
			SELECT 1 FROM shown_movies s
			WHERE s.userid = $2 AND s.movieid = m.movieid
		  )
		ORDER BY RANDOM()
		LIMIT 1`

	var movie Movie
	err := r.db.GetContext(ctx, &movie, query, pq.Array(excludeIDs), userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCatalogExhausted
		}
		return nil, fmt.Errorf("failed to get random fallback movie: %w", err)
	}
	return &movie, nil
}

// ReplaceShownMovies swaps the user's exclusion set for a fresh generation in
// a single transaction, so a concurrent reader never sees a half-built set
func (r *postgresRepository) ReplaceShownMovies(ctx context.Context, userID int64, generationID uuid.UUID, candidates []*CandidateMovie) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM shown_movies WHERE userid = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear shown movies: %w", err)
	}

	insert := `
		INSERT INTO shown_movies (userid, movieid, title, genres, generation_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (userid, movieid) DO NOTHING`

	for _, c := range candidates {
		_, err = tx.ExecContext(ctx, insert, userID, c.MovieID, c.Title, c.Genres, generationID)
		if err != nil {
			return fmt.Errorf("failed to record shown movie: %w", err)
		}
	}

	return tx.Commit()
}

// AppendShownMovie records a replacement candidate against the user's
// current generation, creating a new generation if none exists
func (r *postgresRepository) AppendShownMovie(ctx context.Context, userID int64, candidate *CandidateMovie) error {
	query := `
		INSERT INTO shown_movies (userid, movieid, title, genres, generation_id)
		VALUES ($1, $2, $3, $4, COALESCE(
			(SELECT generation_id FROM shown_movies
			 WHERE userid = $1 ORDER BY created_at DESC LIMIT 1),
			$5))
		ON CONFLICT (userid, movieid) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query,
		userID, candidate.MovieID, candidate.Title, candidate.Genres, uuid.New())
	if err != nil {
		return fmt.Errorf("failed to append shown movie: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetShownMovieIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT movieid FROM shown_movies WHERE userid = $1`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shown movie ids: %w", err)
	}
	return ids, nil
}

func (r *postgresRepository) ClearShownMovies(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM shown_movies WHERE userid = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear shown movies: %w", err)
	}
	return nil
}

// SaveRatings upserts the full batch inside one transaction. A single bad
// row rolls back the whole submission.
func (r *postgresRepository) SaveRatings(ctx context.Context, userID int64, ratings map[int64]int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO user_survey_ratings (userid, movieid, rating)
		VALUES ($1, $2, $3)
		ON CONFLICT (userid, movieid)
		DO UPDATE SET rating = EXCLUDED.rating, updated_at = NOW()`

	for movieID, rating := range ratings {
		_, err = tx.ExecContext(ctx, query, userID, movieID, rating)
		if err != nil {
			return fmt.Errorf("failed to save rating for movie %d: %w", movieID, err)
		}
	}

	return tx.Commit()
}

func (r *postgresRepository) LikeMovie(ctx context.Context, userID, movieID int64) error {
	query := `
		INSERT INTO liked_movies (userid, movieid)
		VALUES ($1, $2)
		ON CONFLICT (userid, movieid) DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to like movie: %w", err)
	}
	return nil
}

func (r *postgresRepository) UnlikeMovie(ctx context.Context, userID, movieID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM liked_movies WHERE userid = $1 AND movieid = $2`, userID, movieID)
	if err != nil {
		return fmt.Errorf("failed to unlike movie: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetLikedMovies(ctx context.Context, userID int64) ([]*Movie, error) {
	query := `
		SELECT m.movieid, m.title, m.genres
		FROM liked_movies lm
		JOIN movies m ON m.movieid = lm.movieid
		WHERE lm.userid = $1
		ORDER BY lm.created_at DESC`

	var movies []*Movie
	err := r.db.SelectContext(ctx, &movies, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get liked movies: %w", err)
	}
	return movies, nil
}

func (r *postgresRepository) GetLikedMovieIDs(ctx context.Context, userID int64, movieIDs []int64) (map[int64]bool, error) {
	liked := make(map[int64]bool)
	if len(movieIDs) == 0 {
		return liked, nil
	}

	query := `
		SELECT movieid FROM liked_movies
		WHERE userid = $1 AND movieid = ANY($2)`

	var ids []int64
	err := r.db.SelectContext(ctx, &ids, query, userID, pq.Array(movieIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to get liked movie ids: %w", err)
	}
	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
