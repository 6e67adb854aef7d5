package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/votesecure/platform/config"
	"github.com/votesecure/platform/internal/db"
	"github.com/votesecure/platform/internal/events"
	"github.com/votesecure/platform/internal/handlers"
	"github.com/votesecure/platform/internal/services"
	"github.com/votesecure/platform/internal/storage"
	"github.com/votesecure/platform/internal/store"
)

// Server wraps the HTTP server, router, and shared clients.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	db         *sql.DB
	events     *events.Bus
}

// New constructs a Server with basic middleware and defaults.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	dbConn, err := db.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	jwtSecret := strings.TrimSpace(cfg.JWT.Secret)
	if jwtSecret == "" {
		_ = dbConn.Close()
		return nil, errors.New("JWT_SECRET is required")
	}

	bus, err := events.FromConfig(ctx, cfg.Events)
	if err != nil {
		_ = dbConn.Close()
		return nil, err
	}

	objectStore, err := storage.FromConfig(ctx, cfg.Storage)
	if err != nil {
		_ = dbConn.Close()
		_ = bus.Close()
		return nil, err
	}
	if objectStore != nil {
		if err := objectStore.EnsureBucket(ctx); err != nil {
			_ = dbConn.Close()
			_ = bus.Close()
			return nil, err
		}
	}

	userRepo := store.NewUserRepository(dbConn)
	electionRepo := store.NewElectionRepository(dbConn)
	voteRepo := store.NewVoteRepository(dbConn)

	userService := services.NewUserService(userRepo)
	electionService := services.NewElectionService(electionRepo, voteRepo)
	voteService := services.NewVoteService(voteRepo, electionRepo, publisher(bus))
	statsService := services.NewStatsService(userRepo, electionRepo, voteRepo)

	tokenTTL := time.Duration(cfg.JWT.TTLHours) * time.Hour
	authHandler := handlers.NewAuthHandler(userService, publisher(bus), jwtSecret, tokenTTL)
	profileHandler := handlers.NewProfileHandler(userService, objectStore)
	electionHandler := handlers.NewElectionHandler(electionService, voteService, userService)
	adminHandler := handlers.NewAdminHandler(statsService, userService, electionService)

	authMiddleware := handlers.RequireAuth(jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/api", func(r chi.Router) {
		handlers.AuthRouter(r, authHandler)
		r.Route("/user", func(r chi.Router) {
			handlers.ProfileRouter(r, profileHandler, authMiddleware)
		})
		r.Route("/elections", func(r chi.Router) {
			handlers.ElectionRouter(r, electionHandler, authMiddleware)
		})
		r.Route("/admin", func(r chi.Router) {
			handlers.AdminRouter(r, adminHandler, authMiddleware)
		})
	})

	port := cfg.ServerPort
	if port == 0 {
		port = 8080
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		db:         dbConn,
		events:     bus,
	}, nil
}

// publisher narrows a possibly-nil bus to the services.Publisher interface
// without wrapping nil in a non-nil interface value.
func publisher(bus *events.Bus) services.Publisher {
	if bus == nil {
		return nil
	}
	return bus
}

// Router exposes the chi router for route registration.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown attempts a graceful shutdown.
func (s *Server) Shutdown() error {
	if s.db != nil {
		_ = s.db.Close()
	}
	_ = s.events.Close()
	return s.httpServer.Close()
}
