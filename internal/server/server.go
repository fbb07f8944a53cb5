package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/exitflow/apiserver/config"
	"github.com/exitflow/apiserver/internal/handlers"
	"github.com/exitflow/apiserver/internal/holiday"
	"github.com/exitflow/apiserver/internal/notify"
	"github.com/exitflow/apiserver/internal/services"
	"github.com/exitflow/apiserver/internal/store"
	"github.com/exitflow/apiserver/types"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

// Server wraps the HTTP server and router.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	notifier   *notify.Service
}

// New constructs a Server with stores, services, and routes wired.
func New(ctx context.Context, cfg config.Config) (*Server, error) {
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	jwtSecret := strings.TrimSpace(cfg.JWTSecret)
	if jwtSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	userStore := store.NewUserStore()
	resignationStore := store.NewResignationStore()
	interviewStore := store.NewExitInterviewStore()

	if cfg.SeedDemoData {
		if err := seedUsers(ctx, userStore); err != nil {
			return nil, fmt.Errorf("seed demo accounts: %w", err)
		}
		logger.Info("seeded demo accounts", "hr", "admin", "employees", "john.doe, jane.smith")
	}

	backend, err := notify.NewBackend(ctx, cfg.Notify)
	if err != nil {
		return nil, fmt.Errorf("init notify backend: %w", err)
	}
	notifier := notify.NewService(backend, cfg.Notify.HRInbox, logger)

	holidayService := holiday.New(holiday.Config{
		APIKey:  cfg.Holiday.APIKey,
		BaseURL: cfg.Holiday.BaseURL,
		Timeout: cfg.Holiday.Timeout,
	}, logger)

	userService := services.NewUserService(userStore)
	resignationService := services.NewResignationService(resignationStore, holidayService, notifier)
	interviewService := services.NewExitInterviewService(interviewStore, resignationStore)

	identity := handlers.RequireIdentity(userService, jwtSecret)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
		middleware.Timeout(60*time.Second),
	)
	router.Get("/healthz", handlers.Healthz)
	router.Route("/auth", func(r chi.Router) {
		handlers.AuthRouter(r, userService, jwtSecret)
	})
	router.Route("/resignations", func(r chi.Router) {
		handlers.ResignationRouter(r, resignationService, identity)
	})
	router.Route("/exit-interviews", func(r chi.Router) {
		handlers.ExitInterviewRouter(r, interviewService, identity)
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
		notifier:   notifier,
	}, nil
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
	if s.notifier != nil {
		_ = s.notifier.Close()
	}
	return s.httpServer.Close()
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	return slog.New(handler).With("service", "exitflow-apiserver")
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// seedUsers creates the demo accounts the original deployment shipped
// with: one HR admin and two employees on different holiday calendars.
func seedUsers(ctx context.Context, users *store.UserStore) error {
	adminHash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	employeeHash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	seed := []types.User{
		{
			Username:     "admin",
			Email:        "admin@company.com",
			Name:         "Admin User",
			Role:         types.RoleHR,
			Country:      "US",
			PasswordHash: string(adminHash),
		},
		{
			Username:     "john.doe",
			Email:        "john.doe@company.com",
			Name:         "John Doe",
			Role:         types.RoleEmployee,
			Country:      "US",
			PasswordHash: string(employeeHash),
		},
		{
			Username:     "jane.smith",
			Email:        "jane.smith@company.com",
			Name:         "Jane Smith",
			Role:         types.RoleEmployee,
			Country:      "IN",
			PasswordHash: string(employeeHash),
		},
	}

	for _, user := range seed {
		if _, err := users.Create(ctx, user); err != nil && !errors.Is(err, store.ErrConflict) {
			return err
		}
	}
	return nil
}
