package main

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/guestbook/internal/config"
	"github.com/crucial707/guestbook/internal/db"
	"github.com/crucial707/guestbook/internal/handlers"
	"github.com/crucial707/guestbook/internal/logger"
	"github.com/crucial707/guestbook/internal/middleware"
	"github.com/crucial707/guestbook/internal/repo"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := bootLogger(os.Stderr)
		boot.Fatal().Err(err).Msg("load config")
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The pool lives for the whole process and is shared by every request.
	database, err := db.Connect(ctx, cfg.DSN(), db.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()
	log.Info().Msg("connected to database")

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           newRouter(database, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown")
		}
	}()

	log.Info().Str("addr", srv.Addr).Str("cors_origin", cfg.CORSOrigin).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// bootLogger is used before the configured logger exists.
func bootLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

// newRouter wires middleware, handlers and operational endpoints around db.
func newRouter(database *sql.DB, cfg config.Config, log zerolog.Logger) http.Handler {
	users := &handlers.UserHandler{Repo: repo.NewUserRepo(database)}
	guestbooks := &handlers.GuestbookHandler{Repo: repo.NewGuestbookRepo(database)}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Prometheus)
	r.Use(middleware.CORS(cfg.CORSOrigin))
	r.Use(middleware.MaxBytes(cfg.MaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := database.PingContext(r.Context()); err != nil {
			handlers.TextError(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/users", func(r chi.Router) {
		r.Get("/", users.ListUsers)
		r.Post("/", users.CreateUser)
		r.Get("/most", users.MostGuestbooks)
		r.Get("/{id}", users.GetUser)
		r.Put("/{id}", users.UpdateUser)
		r.Delete("/{id}", users.DeleteUser)
		r.Get("/{user_id}/guestbooks", guestbooks.ListGuestbooksByUser)
	})

	r.Route("/guestbooks", func(r chi.Router) {
		r.Get("/", guestbooks.ListGuestbooks)
		r.Post("/", guestbooks.CreateGuestbook)
		r.Get("/{id}", guestbooks.GetGuestbook)
		r.Put("/{id}", guestbooks.UpdateGuestbook)
		r.Delete("/{id}", guestbooks.DeleteGuestbook)
	})

	return r
}
