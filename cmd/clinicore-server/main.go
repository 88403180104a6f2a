package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicore/clinicore/internal/config"
	"github.com/clinicore/clinicore/internal/domain/alert"
	"github.com/clinicore/clinicore/internal/domain/clinical"
	"github.com/clinicore/clinicore/internal/domain/patient"
	"github.com/clinicore/clinicore/internal/domain/risk"
	"github.com/clinicore/clinicore/internal/domain/safety"
	"github.com/clinicore/clinicore/internal/intelligence"
	"github.com/clinicore/clinicore/internal/platform/auth"
	"github.com/clinicore/clinicore/internal/platform/db"
	"github.com/clinicore/clinicore/internal/platform/middleware"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinicore-server",
		Short: "Clinical intelligence and safety API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			ctx := context.Background()
			pool, err := openPool(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func openPool(ctx context.Context) (*pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			SigningKey: []byte(cfg.JWTSigningKey),
		}))
	}

	// API group
	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Health check
	e.GET("/health", db.HealthHandler(pool))

	// -- Wire domains --

	calc := intelligence.NewCalculator()
	kb := intelligence.NewInteractionKB()
	logger.Info().Int("interactions", kb.Size()).Msg("drug interaction knowledge base loaded")

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	}

	// Alerts
	alertRepo := alert.NewRepoPG(pool)
	alertSvc := alert.NewService(alertRepo, inTx)
	alertHandler := alert.NewHandler(alertSvc)
	alertHandler.RegisterRoutes(apiV1)

	// Patients and visits
	patientRepo := patient.NewRepoPG(pool)
	visitRepo := patient.NewVisitRepoPG(pool)
	patientSvc := patient.NewService(patientRepo, visitRepo)
	patientHandler := patient.NewHandler(patientSvc)
	patientHandler.RegisterRoutes(apiV1)

	// Clinical chart
	vitalsRepo := clinical.NewVitalsRepoPG(pool)
	medicationRepo := clinical.NewMedicationRepoPG(pool)
	allergyRepo := clinical.NewAllergyRepoPG(pool)
	problemRepo := clinical.NewProblemRepoPG(pool)
	countsRepo := clinical.NewChartCountsRepoPG(pool)
	clinicalSvc := clinical.NewService(vitalsRepo, medicationRepo, allergyRepo, problemRepo, countsRepo)
	clinicalHandler := clinical.NewHandler(clinicalSvc)
	clinicalHandler.RegisterRoutes(apiV1)

	// Drug safety
	safetySvc := safety.NewService(kb, clinicalSvc, alertSvc)
	safetyHandler := safety.NewHandler(safetySvc)
	safetyHandler.RegisterRoutes(apiV1)

	// NEWS2 scoring and risk dashboard
	news2Svc := risk.NewNews2Service(calc, clinicalSvc, alertSvc)
	dashboardSvc := risk.NewDashboardService(calc, clinicalSvc, patientSvc, alertSvc, cfg.RiskFanOut)
	riskHandler := risk.NewHandler(news2Svc, dashboardSvc)
	riskHandler.RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Str("version", version).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}
	return nil
}
