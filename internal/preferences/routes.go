package preferences

import (
	"github.com/gorilla/mux"

	"github.com/movieduel/movieduel-backend/internal/auth"
)

// RegisterRoutes registers the survey answer routes
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/answers").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.SubmitAnswers).Methods("POST")
	api.HandleFunc("", handler.CheckAnswers).Methods("GET")
}
