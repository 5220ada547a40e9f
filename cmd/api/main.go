// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/movieduel/movieduel-backend/internal/auth"
	"github.com/movieduel/movieduel-backend/internal/common/database"
	"github.com/movieduel/movieduel-backend/internal/config"
	"github.com/movieduel/movieduel-backend/internal/feedback"
	"github.com/movieduel/movieduel-backend/internal/movies"
	"github.com/movieduel/movieduel-backend/internal/preferences"
	"github.com/movieduel/movieduel-backend/internal/recommend"
)

var startTime = time.Now()

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting MovieDuel API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	log.Println("✅ Configuration loaded")

	// 3. Validate configuration
	log.Println("\n✔️  Step 3: Validating configuration...")
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration is valid")

	// 4. Connect to PostgreSQL
	log.Println("\n🗄️  Step 4: Connecting to PostgreSQL...")
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 5. Connect to Redis (optional)
	log.Println("\n📮 Step 5: Connecting to Redis...")
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable: %v, continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 6. Run database migrations
	log.Println("\n🔨 Step 6: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Printf("❌ Migration error: %v", err)
		log.Fatal("Failed to run migrations")
	}
	log.Println("✅ Database migrations completed")

	// 7. Initialize Auth system
	log.Println("\n🔐 Step 7: Initializing authentication system...")

	authRepo := auth.NewPostgresRepository(db)
	authConfig := &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BCryptCost:         cfg.BCryptCost,
	}
	authService := auth.NewService(authRepo, redisClient, authConfig)
	authHandler := auth.NewHandler(authService, cfg.IsProduction())
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication system initialized")

	// 8. Initialize Preferences module
	log.Println("\n📝 Step 8: Initializing Preferences module...")

	prefsRepo := preferences.NewPostgresRepository(db)
	prefsService := preferences.NewService(prefsRepo)
	prefsHandler := preferences.NewHandler(prefsService)
	log.Println("✅ Preferences module initialized")

	// 9. Initialize Movies module
	log.Println("\n🎬 Step 9: Initializing Movies module...")

	moviesRepo := movies.NewPostgresRepository(db)
	tmdbClient := movies.NewTMDBClient(movies.TMDBConfig{
		BaseURL:  cfg.TMDBBaseURL,
		APIToken: cfg.TMDBAPIToken,
		MinVotes: cfg.TMDBMinVotes,
		Timeout:  cfg.TMDBHTTPTimeout,
	})
	selector := movies.NewSelector(moviesRepo, tmdbClient, movies.SelectorConfig{
		PreferenceTarget:    15,
		DiversityTarget:     5,
		MaxPreferencePages:  cfg.MaxPreferencePages,
		MaxDiversityPages:   cfg.MaxDiversityPages,
		MaxReplacementPages: cfg.MaxReplacementPages,
	})
	moviesService := movies.NewService(moviesRepo, selector, prefsService)
	moviesHandler := movies.NewHandler(moviesService)
	log.Println("✅ Movies module initialized")

	// 10. Initialize Feedback module
	log.Println("\n🗳️  Step 10: Initializing Feedback module...")

	feedbackRepo := feedback.NewPostgresRepository(db)
	feedbackService := feedback.NewService(feedbackRepo, moviesRepo)
	feedbackHandler := feedback.NewHandler(feedbackService)
	log.Println("✅ Feedback module initialized")

	// 11. Initialize Recommendation module
	log.Println("\n🤖 Step 11: Initializing Recommendation module...")

	recommendRepo := recommend.NewPostgresRepository(db)
	scorer := recommend.NewPythonScorer(cfg.ScorerPython, cfg.ScorerScript, cfg.ScorerTimeout)
	recommendService := recommend.NewService(recommendRepo, scorer, prefsService, moviesRepo, feedbackService)
	recommendHandler := recommend.NewHandler(recommendService)
	log.Printf("   - Scorer command: %s %s", cfg.ScorerPython, cfg.ScorerScript)
	log.Println("✅ Recommendation module initialized")

	// 12. Setup routes
	log.Println("\n🛣️  Step 12: Setting up routes...")
	router := mux.NewRouter()

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authHandler.RegisterRoutes(router, authMiddleware)
	log.Println("   ✅ Auth routes registered")

	preferences.RegisterRoutes(router, prefsHandler, authMiddleware)
	log.Println("   ✅ Preferences routes registered")

	movies.RegisterRoutes(router, moviesHandler, authMiddleware)
	log.Println("   ✅ Movies routes registered")

	recommend.RegisterRoutes(router, recommendHandler, authMiddleware)
	log.Println("   ✅ Recommendation routes registered")

	feedback.RegisterRoutes(router, feedbackHandler, authMiddleware)
	log.Println("   ✅ Feedback routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware(cfg.CORSOrigin))

	// 13. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 150 * time.Second, // scorer runs can take a while
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

// healthCheck returns server health status
func healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(startTime).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// Middleware functions

// loggingMiddleware logs all requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		log.Printf("→ %s %s from %s", r.Method, r.RequestURI, r.RemoteAddr)

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		log.Printf("← %s %s [%d] %v", r.Method, r.RequestURI, wrapped.statusCode, duration)
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// corsMiddleware handles CORS. Credentials are required because the refresh
// token travels in a cookie.
func corsMiddleware(origin string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Allow-Credentials", "true")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// runMigrations executes database migrations
func runMigrations(db *sqlx.DB) error {
	log.Println("   - Creating/updating tables...")

	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username VARCHAR(100) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			refresh_token TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS userpreferences (
			userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			questionid INTEGER NOT NULL,
			answer TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (userid, questionid)
		)`,

		// Catalog tables populated by the offline import
		`CREATE TABLE IF NOT EXISTS movies (
			movieid BIGINT PRIMARY KEY,
			title TEXT NOT NULL,
			genres TEXT NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS links (
			movieid BIGINT PRIMARY KEY REFERENCES movies(movieid) ON DELETE CASCADE,
			tmdbid BIGINT
		)`,

		`CREATE TABLE IF NOT EXISTS shown_movies (
			userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movieid BIGINT NOT NULL,
			title TEXT NOT NULL,
			genres TEXT NOT NULL DEFAULT '',
			generation_id UUID NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (userid, movieid)
		)`,

		`CREATE TABLE IF NOT EXISTS user_survey_ratings (
			userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movieid BIGINT NOT NULL,
			rating INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (userid, movieid)
		)`,

		`CREATE TABLE IF NOT EXISTS liked_movies (
			userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movieid BIGINT NOT NULL REFERENCES movies(movieid) ON DELETE CASCADE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (userid, movieid)
		)`,

		`CREATE TABLE IF NOT EXISTS algorithm_votes (
			userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			ncf_movieid BIGINT NOT NULL,
			cf_movieid BIGINT NOT NULL,
			preferred VARCHAR(10) NOT NULL,
			ncf_rating INTEGER,
			cf_rating INTEGER,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (userid, ncf_movieid, cf_movieid)
		)`,

		`CREATE TABLE IF NOT EXISTS watch_ratings (
			userid INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			movieid BIGINT NOT NULL,
			algorithm VARCHAR(10) NOT NULL,
			likelihood INTEGER NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (userid, movieid, algorithm)
		)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)`,
		`CREATE INDEX IF NOT EXISTS idx_users_refresh_token ON users(refresh_token)`,
		`CREATE INDEX IF NOT EXISTS idx_links_tmdbid ON links(tmdbid)`,
		`CREATE INDEX IF NOT EXISTS idx_movies_title ON movies(title)`,
		`CREATE INDEX IF NOT EXISTS idx_shown_movies_userid ON shown_movies(userid)`,
		`CREATE INDEX IF NOT EXISTS idx_survey_ratings_userid ON user_survey_ratings(userid)`,
		`CREATE INDEX IF NOT EXISTS idx_liked_movies_userid ON liked_movies(userid)`,
		`CREATE INDEX IF NOT EXISTS idx_watch_ratings_userid ON watch_ratings(userid)`,
	}

	for i, migration := range migrations {
		log.Printf("   - Running migration %d/%d...", i+1, len(migrations))
		if _, err := db.Exec(migration); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("migration %d failed: %w", i+1, err)
			}
			log.Printf("   - Migration %d skipped (already exists)", i+1)
		}
	}

	log.Println("   ✅ All migrations executed successfully")
	return nil
}
