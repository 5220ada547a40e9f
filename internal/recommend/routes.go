package recommend

import (
	"github.com/gorilla/mux"
	"github.com/movieduel/movieduel-backend/internal/auth"
)

// RegisterRoutes sets up the recommendation endpoint
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/recommendations").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetRecommendations).Methods("POST")
}
