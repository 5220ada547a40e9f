package movies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/movieduel/movieduel-backend/internal/common/utils"
	"github.com/movieduel/movieduel-backend/internal/preferences"
)

// Handler handles movie HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a new movies handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetMovies builds and returns a fresh candidate set for the survey
func (h *Handler) GetMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	candidates, err := h.service.BuildCandidateSet(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, preferences.ErrPreferencesMissing):
			utils.RespondWithError(w, http.StatusNotFound, "User preferences not found")
		case errors.Is(err, ErrCatalogExhausted):
			utils.RespondWithError(w, http.StatusNotFound, "No movies found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch movies")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, candidates)
}

// ChangeMovie swaps one candidate for a fresh unseen one
func (h *Handler) ChangeMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	movieID, err := strconv.ParseInt(r.URL.Query().Get("movieId"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}
	source := r.URL.Query().Get("source")

	replacement, err := h.service.ReplaceCandidate(r.Context(), userID, movieID, source)
	if err != nil {
		switch {
		case errors.Is(err, preferences.ErrPreferencesMissing):
			utils.RespondWithError(w, http.StatusNotFound, "User preferences not found")
		case errors.Is(err, ErrCatalogExhausted):
			utils.RespondWithError(w, http.StatusNotFound, "No replacement movie found")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch replacement movie")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, replacement)
}

// RateMovies saves a batch of survey ratings
func (h *Handler) RateMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req RateMoviesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RateMovies(r.Context(), userID, &req); err != nil {
		if errors.Is(err, ErrInvalidMovieID) {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID in ratings")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save ratings")
		return
	}

	utils.MessageResponse(w, "Ratings saved successfully.", http.StatusOK)
}

// GetLikedMovies lists the user's liked movies
func (h *Handler) GetLikedMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	liked, err := h.service.GetLikedMovies(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch liked movies")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, liked)
}

// LikeMovie marks a movie as liked
func (h *Handler) LikeMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	movieID, err := strconv.ParseInt(mux.Vars(r)["movieId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := h.service.LikeMovie(r.Context(), userID, movieID); err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to like movie")
		return
	}

	utils.MessageResponse(w, "Movie liked.", http.StatusOK)
}

// UnlikeMovie removes a like. Unliking a movie that was never liked is a
// no-op, not an error.
func (h *Handler) UnlikeMovie(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	movieID, err := strconv.ParseInt(mux.Vars(r)["movieId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	if err := h.service.UnlikeMovie(r.Context(), userID, movieID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to unlike movie")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SearchMovies searches catalog titles and genres, tagging each hit with
// its selection source
func (h *Handler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	search := r.URL.Query().Get("q")
	if search == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Search query is required")
		return
	}

	results, err := h.service.SearchMovies(r.Context(), userID, search)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to search movies")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, results)
}

// GetTMDBID resolves a catalog movie id to its TMDB id
func (h *Handler) GetTMDBID(w http.ResponseWriter, r *http.Request) {
	movieID, err := strconv.ParseInt(mux.Vars(r)["movieId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid movie ID")
		return
	}

	tmdbID, err := h.service.GetTMDBID(r.Context(), movieID)
	if err != nil {
		if errors.Is(err, ErrMovieNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "Movie not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch TMDB ID")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]int64{"tmdbId": tmdbID})
}

// ClearShownMovies resets the user's exclusion set
func (h *Handler) ClearShownMovies(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.service.ClearShownMovies(r.Context(), userID); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to clear shown movies")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
