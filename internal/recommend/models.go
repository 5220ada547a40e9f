package recommend

// Source tags identify which model produced a recommendation
const (
	SourceNeuralCF = "neural_cf"
	SourceUserCF   = "user_cf"
)

// ScoredItem is one raw scorer prediction
type ScoredItem struct {
	ItemID     int64   `json:"itemID"`
	Prediction float64 `json:"prediction"`
}

// ScorerInput is everything the external scorer needs for one run. The
// decade preference travels as the expanded year list, not the raw label.
type ScorerInput struct {
	UserID  int64
	Ratings map[string]int
	Genres  []string
	Years   []int
}

// ScorerOutput is the single JSON document the scorer writes to stdout
type ScorerOutput struct {
	NCF []ScoredItem `json:"ncf_recommendations"`
	CF  []ScoredItem `json:"cf_recommendations"`
}

// RecommendationItem is a scored item enriched with catalog metadata and,
// when the user has rated it, their watch likelihood for this algorithm
type RecommendationItem struct {
	ItemID          int64   `json:"itemID"`
	Prediction      float64 `json:"prediction"`
	Title           string  `json:"title"`
	Genres          string  `json:"genres"`
	IsLiked         bool    `json:"isLiked"`
	WatchLikelihood *int    `json:"watchLikelihood,omitempty"`
	Source          string  `json:"source"`
}

// Recommendations holds both enriched model lists
type Recommendations struct {
	NCF []*RecommendationItem `json:"ncf_recommendations"`
	CF  []*RecommendationItem `json:"cf_recommendations"`
}
