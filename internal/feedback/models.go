package feedback

import "time"

// Algorithm labels accepted by the feedback endpoints
const (
	AlgorithmNCF = "ncf"
	AlgorithmCF  = "cf"
)

// AlgorithmPreferenceRequest records which of the two movies shown
// side-by-side the user preferred, with optional quality ratings for each
type AlgorithmPreferenceRequest struct {
	Preferred  string `json:"preferred" validate:"required,oneof=ncf cf"`
	NCFMovieID int64  `json:"ncfMovieId" validate:"required"`
	CFMovieID  int64  `json:"cfMovieId" validate:"required"`
	NCFRating  *int   `json:"ncfRating" validate:"omitempty,min=1,max=5"`
	CFRating   *int   `json:"cfRating" validate:"omitempty,min=1,max=5"`
}

// AlgorithmVote is the stored vote row, one per movie pair the user judged
type AlgorithmVote struct {
	UserID     int64     `json:"user_id" db:"userid"`
	NCFMovieID int64     `json:"ncf_movie_id" db:"ncf_movieid"`
	CFMovieID  int64     `json:"cf_movie_id" db:"cf_movieid"`
	Preferred  string    `json:"preferred" db:"preferred"`
	NCFRating  *int      `json:"ncf_rating" db:"ncf_rating"`
	CFRating   *int      `json:"cf_rating" db:"cf_rating"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// VotedStatus reports whether the user has already voted
type VotedStatus struct {
	Voted bool `json:"voted"`
}

// RateMovieRequest records how likely the user is to watch one recommended
// movie, per algorithm
type RateMovieRequest struct {
	MovieID         int64  `json:"movieId" validate:"required"`
	Algorithm       string `json:"algorithm" validate:"required,oneof=ncf cf"`
	WatchLikelihood int    `json:"watchLikelihood" validate:"required,min=1,max=10"`
}

// MovieRatings groups the user's watch-likelihood ratings by algorithm,
// keyed by movie id
type MovieRatings struct {
	NCF map[string]int `json:"ncf"`
	CF  map[string]int `json:"cf"`
}
