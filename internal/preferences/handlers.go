package preferences

import (
	"encoding/json"
	"net/http"

	"github.com/movieduel/movieduel-backend/internal/common/utils"
)

// Handler exposes the survey answer endpoints
type Handler struct {
	service Service
}

// NewHandler creates a new preferences handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SubmitAnswers stores the questionnaire answers
func (h *Handler) SubmitAnswers(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	var req SubmitAnswersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if len(req.Answers) == 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "Answers required")
		return
	}

	if err := h.service.SubmitAnswers(r.Context(), userID, &req); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save answers")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"message": "Answers submitted successfully."})
}

// CheckAnswers reports whether the user has completed the survey
func (h *Handler) CheckAnswers(w http.ResponseWriter, r *http.Request) {
	userID := r.Context().Value("userID").(int64)

	status, err := h.service.Status(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to check answers")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}
