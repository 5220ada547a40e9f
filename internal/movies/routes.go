package movies

import (
	"github.com/gorilla/mux"
	"github.com/movieduel/movieduel-backend/internal/auth"
)

// RegisterRoutes sets up the movie endpoints
func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/movies").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.GetMovies).Methods("GET")
	api.HandleFunc("/change", handler.ChangeMovie).Methods("GET")
	api.HandleFunc("/rate", handler.RateMovies).Methods("POST")
	api.HandleFunc("/liked", handler.GetLikedMovies).Methods("GET")
	api.HandleFunc("/like/{movieId}", handler.LikeMovie).Methods("POST")
	api.HandleFunc("/unlike/{movieId}", handler.UnlikeMovie).Methods("DELETE")
	api.HandleFunc("/search", handler.SearchMovies).Methods("GET")
	api.HandleFunc("/shown", handler.ClearShownMovies).Methods("DELETE")
	api.HandleFunc("/{movieId}/tmdb", handler.GetTMDBID).Methods("GET")
}
