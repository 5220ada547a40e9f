// internal/auth/handlers.go

package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/movieduel/movieduel-backend/internal/common/utils"
)

const refreshCookieName = "jwt"

// Handler holds dependencies for auth endpoints
type Handler struct {
	service Service
	secure  bool
}

// NewHandler creates a new auth handler
func NewHandler(service Service, secureCookies bool) *Handler {
	return &Handler{
		service: service,
		secure:  secureCookies,
	}
}

// RegisterRoutes registers all auth routes with the router
func (h *Handler) RegisterRoutes(router *mux.Router, authMiddleware *Middleware) {
	api := router.PathPrefix("/api/v1/auth").Subrouter()

	api.HandleFunc("/register", h.Register).Methods("POST")
	api.HandleFunc("/login", h.Login).Methods("POST")
	api.HandleFunc("/refresh", h.Refresh).Methods("POST")
	api.HandleFunc("/logout", h.Logout).Methods("POST")

	protected := router.PathPrefix("/api/v1/auth").Subrouter()
	protected.Use(authMiddleware.Authenticate)
	protected.HandleFunc("/me", h.Me).Methods("GET")
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrUserExists:
			utils.RespondWithError(w, http.StatusConflict, "Username already taken")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create account")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{
		"success": "User " + user.Username + " created.",
	})
}

// Login authenticates a user and sets the refresh token cookie
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid credentials")
		case ErrTooManyAttempts:
			utils.RespondWithError(w, http.StatusTooManyRequests, "Too many login attempts")
		default:
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to sign in")
		}
		return
	}

	h.setRefreshCookie(w, result.RefreshToken, 24*time.Hour)

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"accessToken": result.AccessToken,
		"user": map[string]interface{}{
			"id":       result.User.ID,
			"username": result.User.Username,
		},
	})
}

// Refresh exchanges the refresh token cookie for a new access token
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Missing refresh token")
		return
	}

	accessToken, err := h.service.Refresh(r.Context(), cookie.Value)
	if err != nil {
		if err == ErrInvalidToken {
			utils.RespondWithError(w, http.StatusForbidden, "Invalid refresh token")
		} else {
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to refresh token")
		}
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// Logout clears the refresh token cookie and invalidates the stored token
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshCookieName)
	if err != nil || cookie.Value == "" {
		// No cookie means nothing to do
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to log out")
		return
	}

	h.setRefreshCookie(w, "", -time.Hour)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user's profile
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.service.GetUserByID(r.Context(), userID)
	if err != nil {
		if err == ErrUserNotFound {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, user)
}

// setRefreshCookie writes the httpOnly refresh cookie
func (h *Handler) setRefreshCookie(w http.ResponseWriter, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}
