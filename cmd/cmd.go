package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TanasubRat/travel-match-backend/internal/config"
	"github.com/TanasubRat/travel-match-backend/internal/handlers"
	"github.com/TanasubRat/travel-match-backend/internal/middleware"
	"github.com/TanasubRat/travel-match-backend/internal/repository"
	"github.com/TanasubRat/travel-match-backend/internal/services"
	"github.com/TanasubRat/travel-match-backend/migrations"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Test database connection
	if err := db.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Database connection established")

	// Run migrations
	if err := runMigrations(cfg.Database.DSN()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}
	log.Info().Msg("Migrations applied")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	placeRepo := repository.NewPlaceRepository(db)
	swipeRepo := repository.NewSwipeRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret, cfg.Auth.BetaCode)
	groupService := services.NewGroupService(groupRepo, userRepo, placeRepo, swipeRepo)
	placeService := services.NewPlaceService(placeRepo, groupRepo, rand.Float64)
	swipeService := services.NewSwipeService(swipeRepo, groupRepo, placeRepo)
	imageCache, err := services.NewImageCacheService(
		cfg.AWS.Region,
		cfg.AWS.S3Bucket,
		cfg.AWS.AccessKey,
		cfg.AWS.SecretKey,
		cfg.AWS.Endpoint,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create image cache service")
	}
	wsHub := services.NewWSHub()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	groupHandler := handlers.NewGroupHandler(groupService, placeService, wsHub)
	placeHandler := handlers.NewPlaceHandler(placeService)
	swipeHandler := handlers.NewSwipeHandler(swipeService)
	proxyHandler := handlers.NewProxyHandler(imageCache)
	wsHandler := handlers.NewWebSocketHandler(wsHub, userService, groupService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/places", placeHandler.Browse)
		r.Get("/places/{place_id}", placeHandler.Get)
		r.Get("/proxy/image", proxyHandler.Image)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Get("/auth/me", authHandler.Me)
			r.Patch("/auth/me", authHandler.UpdateMe)

			r.Post("/groups", groupHandler.Create)
			r.Post("/groups/join", groupHandler.Join)
			r.Post("/groups/invite", groupHandler.Invite)
			r.Get("/groups/code/{join_code}", groupHandler.Preview)
			r.Get("/groups/{group_id}", groupHandler.Get)
			r.Post("/groups/{group_id}/start", groupHandler.Start)
			r.Get("/groups/{group_id}/places", groupHandler.Candidates)
			r.Get("/groups/{group_id}/match", groupHandler.Match)
			r.Post("/groups/{group_id}/confirm", groupHandler.Confirm)
			r.Post("/groups/{group_id}/leave", groupHandler.Leave)
			r.Delete("/groups/{group_id}", groupHandler.Delete)

			r.Post("/swipes", swipeHandler.Create)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// runMigrations applies pending schema migrations. Goose needs a plain
// database/sql handle, so it opens its own short-lived connection through
// the pgx stdlib driver rather than sharing the pool.
func runMigrations(dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("failed to create migration provider: %w", err)
	}

	if _, err := provider.Up(context.Background()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
