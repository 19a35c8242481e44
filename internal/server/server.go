// Package server wires the router: middleware chain, route tree, and the
// dependency graph from database up to handlers. It owns the database
// connection and closes it on shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mveraz/citypulse/internal/auth"
	"github.com/mveraz/citypulse/internal/config"
	"github.com/mveraz/citypulse/internal/handler"
	"github.com/mveraz/citypulse/internal/mailer"
	"github.com/mveraz/citypulse/internal/middleware"
	"github.com/mveraz/citypulse/internal/provider"
	sqliteRepo "github.com/mveraz/citypulse/internal/repository/sqlite"
	"github.com/mveraz/citypulse/internal/service"
)

// Server holds the router and the resources it owns.
type Server struct {
	router *chi.Mux
	cfg    *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, token and password
// services, provider clients, services, handlers, routes. Everything is
// wired here — the composition root — so no package below reaches for
// globals.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router, primarily so tests can mount the
// whole application inside an httptest.Server.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's resources without going through Start.
func (s *Server) Close() error {
	return s.db.Close()
}

// DB exposes the underlying store. Integration tests use it to arrange
// fixtures that have no HTTP route, like marking an email confirmed without
// fishing the token out of the outbox.
func (s *Server) DB() *sqliteRepo.DB {
	return s.db
}

func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.cfg.JWTSecret)
	if err != nil {
		return err
	}
	passwords := auth.NewPasswordService()
	mail := mailer.NewLogMailer(s.logger)

	// Provider clients. A client built with an empty key serves
	// "unavailable" errors; the rest of the server works regardless.
	weather := provider.NewWeatherClient(s.cfg.OpenWeatherKey)
	github := provider.NewGitHubClient(s.cfg.GitHubToken)
	movies := provider.NewMovieClient(s.cfg.TMDBKey)
	geocode := provider.NewGeocodeClient(s.cfg.MapboxToken)

	authSvc := service.NewAuthService(s.db, s.db, passwords, tokens, mail, s.cfg.BaseURL, s.logger)
	profileSvc := service.NewProfileService(s.db, s.logger)
	locationSvc := service.NewLocationService(s.db, s.logger)
	historySvc := service.NewHistoryService(s.db, s.logger)
	reviewSvc := service.NewReviewService(s.db, s.logger)

	authHandler := handler.NewAuthHandler(authSvc, profileSvc)
	proxyHandler := handler.NewProxyHandler(weather, github, movies, geocode)
	profileHandler := handler.NewProfileHandler(profileSvc)
	locationHandler := handler.NewLocationHandler(locationSvc)
	historyHandler := handler.NewHistoryHandler(historySvc)
	reviewHandler := handler.NewReviewHandler(reviewSvc)

	metrics := middleware.NewMetrics()

	// Global middleware, in execution order.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)

	s.router.Handle("/metrics", metrics.Handler())

	// Account lifecycle.
	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.SignUp)
		r.Post("/signin", authHandler.SignIn)
		r.Post("/signout", authHandler.SignOut)
		r.Get("/confirm", authHandler.Confirm)
		r.Post("/reset-password", authHandler.ResetPassword)
		r.Post("/resend-confirmation", authHandler.ResendConfirmation)

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRecovery(tokens))
			r.Post("/update-password", authHandler.UpdatePassword)
		})
	})

	s.router.Route("/api", func(r chi.Router) {
		// Attribute usage rows to a user when a session is attached,
		// without requiring one.
		r.Use(auth.OptionalAuth(tokens))
		r.Use(middleware.APILog(s.db, s.logger))

		r.Get("/health", proxyHandler.Health)

		// Provider proxy namespaces, public.
		r.Route("/weather", func(r chi.Router) {
			r.Get("/coords/{lat}/{lon}", proxyHandler.WeatherByCoords)
			r.Get("/forecast/{city}", proxyHandler.Forecast)
			r.Get("/{city}", proxyHandler.WeatherByCity)
		})
		r.Route("/github", func(r chi.Router) {
			r.Get("/users/{location}", proxyHandler.GitHubUsers)
			r.Get("/repos/{location}", proxyHandler.GitHubRepos)
			r.Get("/user/{username}", proxyHandler.GitHubUser)
		})
		r.Route("/movies", func(r chi.Router) {
			r.Get("/search/{query}", proxyHandler.MovieSearch)
			r.Get("/popular", proxyHandler.MoviePopular)
			r.Get("/detail/{movieId}", proxyHandler.MovieDetail)
		})
		r.Route("/geocode", func(r chi.Router) {
			r.Get("/reverse/{lat}/{lon}", proxyHandler.GeocodeReverse)
			r.Get("/search/{query}", proxyHandler.GeocodeSearch)
		})

		// Public review browsing.
		r.Get("/reviews/city/{city}", reviewHandler.ListByCity)

		// Session-guarded data routes.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Get("/me", authHandler.Me)

			r.Get("/profile", profileHandler.Get)
			r.Patch("/profile", profileHandler.Update)

			r.Get("/locations", locationHandler.List)
			r.Post("/locations", locationHandler.Create)
			r.Delete("/locations/{id}", locationHandler.Delete)
			r.Post("/locations/{id}/favorite", locationHandler.Favorite)

			r.Get("/history", historyHandler.List)
			r.Post("/history", historyHandler.Create)

			r.Get("/reviews", reviewHandler.ListMine)
			r.Post("/reviews", reviewHandler.Create)
			r.Delete("/reviews/{id}", reviewHandler.Delete)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests (30s),
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.cfg.Port),
			slog.String("database", s.cfg.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
