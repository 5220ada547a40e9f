package feedback

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/movieduel/movieduel-backend/internal/common/utils"
)

// Handler handles feedback HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new feedback handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SubmitAlgorithmVote records which recommendation list the user preferred
func (h *Handler) SubmitAlgorithmVote(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req AlgorithmPreferenceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.SubmitAlgorithmVote(r.Context(), userID, &req); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save vote")
		return
	}

	utils.MessageResponse(w, "Vote recorded.", http.StatusOK)
}

// CheckVoted reports whether the user already voted
func (h *Handler) CheckVoted(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	voted, err := h.service.HasVoted(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check vote")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, VotedStatus{Voted: voted})
}

// RateMovie records the watch likelihood of one recommended movie
func (h *Handler) RateMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RateMovieRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RateMovie(r.Context(), userID, &req); err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save rating")
		return
	}

	utils.MessageResponse(w, "Rating saved.", http.StatusOK)
}

// GetMovieRatings returns the user's watch-likelihood ratings per algorithm
func (h *Handler) GetMovieRatings(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ratings, err := h.service.GetMovieRatings(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch ratings")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ratings)
}
