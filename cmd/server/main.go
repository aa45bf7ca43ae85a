package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/concours-app/backend/internal/config"
	delivery "github.com/concours-app/backend/internal/delivery/http"
	"github.com/concours-app/backend/internal/middleware"
	"github.com/concours-app/backend/internal/repository/postgres"
	"github.com/concours-app/backend/internal/token"
	"github.com/concours-app/backend/internal/usecase"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting concours backend", "env", cfg.Env, "port", cfg.Server.Port)

	pool := connectWithRetry(cfg.Database.URL, logger)
	defer pool.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewRefreshTokenRepository(pool)
	eventRepo := postgres.NewAuthEventRepository(pool)
	memberRepo := postgres.NewMemberRepository(pool)
	facultyRepo := postgres.NewFacultyRepository(pool)
	departmentRepo := postgres.NewDepartmentRepository(pool)
	contestRepo := postgres.NewContestRepository(pool)
	specialtyRepo := postgres.NewSpecialtyRepository(pool)
	candidateRepo := postgres.NewCandidateRepository(pool)

	// Usecases
	codec := token.NewCodec(&cfg.JWT)
	authUsecase := usecase.NewAuthUsecase(userRepo, tokenRepo, eventRepo, codec, logger)
	userUsecase := usecase.NewUserUsecase(userRepo, tokenRepo, logger)

	// HTTP wiring
	handler := delivery.NewHandler(cfg, authUsecase, userUsecase,
		memberRepo, facultyRepo, departmentRepo, contestRepo, specialtyRepo, candidateRepo,
		eventRepo, logger)
	authMiddleware := middleware.NewAuthMiddleware(authUsecase)
	router := delivery.NewRouter(handler, authMiddleware, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}

func connectWithRetry(url string, logger *slog.Logger) *pgxpool.Pool {
	for attempt := 1; attempt <= 5; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		pool, err := pgxpool.New(ctx, url)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				cancel()
				logger.Info("connected to postgres")
				return pool
			} else {
				pool.Close()
				logger.Warn("database ping failed", "attempt", attempt, "error", pingErr)
			}
		} else {
			logger.Warn("database connect failed", "attempt", attempt, "error", err)
		}
		cancel()
		time.Sleep(time.Duration(attempt) * 2 * time.Second)
	}
	logger.Error("could not connect to database after 5 attempts")
	os.Exit(1)
	return nil
}
