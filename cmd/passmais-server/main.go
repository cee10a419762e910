package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/config"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/appointment"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/audit"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/availability"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/doctor"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/schedule"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slotbatch"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/domain/slots"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/apperror"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/db"
	"github.com/ArthurAugustinho/passmais-backend-sub000/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "passmais-server",
		Short: "Doctor scheduling API server",
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
		Short: "Start the scheduling API server",
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

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
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

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
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

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	loc, err := cfg.Location()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid timezone")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Repositories
	doctorRepo := doctor.NewRepoPG(pool)
	scheduleRepo := schedule.NewRepoPG(pool)
	slotRepo := slots.NewRepoPG(pool)
	rawSlotRepo := slotbatch.NewRepoPG(pool)
	auditRepo := audit.NewRepoPG(pool)
	appointmentRepo := appointment.NewRepoPG(pool)

	// Services
	txRunner := db.PoolRunner(pool)
	auditSvc := audit.NewService(auditRepo, logger)
	generator := slots.NewGenerator(scheduleRepo, slotRepo, appointmentRepo, loc, cfg.SlotHorizonDays, logger)
	doctorSvc := doctor.NewService(doctorRepo)
	scheduleSvc := schedule.NewService(scheduleRepo, doctorRepo, generator, auditSvc, txRunner, logger)
	batchSvc := slotbatch.NewService(rawSlotRepo, doctorRepo, auditSvc, txRunner, slotbatch.Options{
		MaxSlotsPerDay:     cfg.MaxSlotsPerDay,
		EnforceFutureSlots: cfg.EnforceFutureSlots,
		Location:           loc,
	}, logger)
	availabilitySvc := availability.NewService(slotRepo, rawSlotRepo, doctorRepo, availability.Options{
		WeekLengthDays: cfg.WeekLengthDays,
		MaxRangeDays:   cfg.MaxRangeDays,
		Location:       loc,
	}, logger)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apperror.HTTPErrorHandler(logger)

	e.Use(middleware.Recovery(logger))
	e.Use(echomw.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "X-Actor-ID"},
	}))
	e.Use(middleware.Actor(cfg.ActorJWTSecret))

	apiV1 := e.Group("/api/v1")
	doctor.NewHandler(doctorSvc).RegisterRoutes(apiV1)
	schedule.NewHandler(scheduleSvc).Register(apiV1)
	slotbatch.NewHandler(batchSvc).Register(apiV1)
	availability.NewHandler(availabilitySvc).Register(apiV1)
	audit.NewHandler(auditSvc).Register(apiV1)

	e.GET("/healthz", db.HealthHandler(pool))

	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
