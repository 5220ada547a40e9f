package recommend

import (
	"errors"
	"net/http"

	"github.com/movieduel/movieduel-backend/internal/common/utils"
	"github.com/movieduel/movieduel-backend/internal/preferences"
)

// Handler handles recommendation HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new recommend handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetRecommendations runs the scorer and returns both enriched lists.
// Scorer failures surface as 404 so the client falls back to the survey
// flow rather than retrying.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	recs, err := h.service.GetRecommendations(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, preferences.ErrPreferencesMissing):
			utils.RespondWithError(w, http.StatusNotFound, "User preferences not found")
		case errors.Is(err, ErrScorerFailed), errors.Is(err, ErrScorerOutputInvalid):
			utils.RespondWithError(w, http.StatusNotFound, "Recommendations unavailable")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch recommendations")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, recs)
}
