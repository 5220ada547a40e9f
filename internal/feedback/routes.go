package feedback

import (
	"github.com/gorilla/mux"
	"github.com/movieduel/movieduel-backend/internal/auth"
)

// RegisterRoutes sets up the feedback endpoints
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/feedback").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/algorithm-preference", handler.SubmitAlgorithmVote).Methods("POST")
	api.HandleFunc("/voted", handler.CheckVoted).Methods("GET")
	api.HandleFunc("/rate-movie", handler.RateMovie).Methods("POST")
	api.HandleFunc("/movie-ratings", handler.GetMovieRatings).Methods("GET")
}
