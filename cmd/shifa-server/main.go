package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shifa/shifa/internal/config"
	"github.com/shifa/shifa/internal/domain/catalog"
	"github.com/shifa/shifa/internal/domain/doctors"
	"github.com/shifa/shifa/internal/domain/identity"
	"github.com/shifa/shifa/internal/domain/records"
	"github.com/shifa/shifa/internal/domain/scheduling"
	"github.com/shifa/shifa/internal/domain/triage"
	"github.com/shifa/shifa/internal/platform/assistant"
	"github.com/shifa/shifa/internal/platform/auth"
	"github.com/shifa/shifa/internal/platform/blobstore"
	"github.com/shifa/shifa/internal/platform/db"
	"github.com/shifa/shifa/internal/platform/middleware"
)

// assistantAdapter adapts the assistant HTTP client to the triage package's
// Assistant interface, avoiding a triage -> platform/assistant import cycle
// concern and keeping triage free of transport types.
type assistantAdapter struct {
	client *assistant.Client
}

func (a *assistantAdapter) Chat(ctx context.Context, message string) (*triage.ChatResult, error) {
	reply, err := a.client.Chat(ctx, message)
	if err != nil {
		return nil, err
	}
	return &triage.ChatResult{Text: reply.Text, Specialty: reply.Specialty}, nil
}

// doctorDirectoryAdapter exposes the doctors service to the scheduling
// package without a direct package dependency.
type doctorDirectoryAdapter struct {
	svc *doctors.Service
}

func (a *doctorDirectoryAdapter) Doctor(ctx context.Context, id uuid.UUID) (*scheduling.DoctorInfo, error) {
	profile, err := a.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, doctors.ErrNotFound) {
			return nil, scheduling.ErrNotFound
		}
		return nil, err
	}
	return &scheduling.DoctorInfo{
		ID:       profile.UserID,
		Name:     profile.Name,
		Verified: profile.Verified,
	}, nil
}

func (a *doctorDirectoryAdapter) Location(ctx context.Context, id uuid.UUID, hospital string) (*scheduling.LocationInfo, error) {
	loc, err := a.svc.Location(ctx, id, hospital)
	if err != nil {
		if errors.Is(err, doctors.ErrNotFound) {
			return nil, scheduling.ErrNotFound
		}
		return nil, err
	}
	return &scheduling.LocationInfo{
		Hospital:   loc.Hospital,
		Fee:        loc.Fee,
		TimeWindow: loc.TimeWindow,
	}, nil
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "shifa-server",
		Short: "Shifa appointment booking API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(adminCmd())

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

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if dir == "" {
				dir = cfg.MigrationsDir
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
	upCmd.Flags().String("dir", "", "Path to migrations directory")
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
			if dir == "" {
				dir = cfg.MigrationsDir
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
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
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
	statusCmd.Flags().String("dir", "", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			if name == "" || email == "" || password == "" {
				return fmt.Errorf("--name, --email and --password are required")
			}

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

			issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
			svc := identity.NewService(identity.NewRepoPG(pool), nil, issuer)

			user, err := svc.CreateAdmin(ctx, name, email, password)
			if err != nil {
				return err
			}
			fmt.Printf("Admin account created: %s (%s)\n", user.Email, user.ID)
			return nil
		},
	}
	createCmd.Flags().String("name", "", "Admin display name")
	createCmd.Flags().String("email", "", "Admin email")
	createCmd.Flags().String("password", "", "Admin password")
	cmd.AddCommand(createCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins(),
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.BodyLimit("12M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))

	// Health checks
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// API groups: pub is open, sec requires a valid session token.
	issuer := auth.NewIssuer(cfg.JWTSecret, time.Duration(cfg.TokenTTLHours)*time.Hour)
	pub := e.Group("/api")
	sec := e.Group("/api", auth.Middleware(issuer))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: float64(cfg.RateLimitRPS),
		BurstSize:         cfg.RateLimitRPS * 2,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	pub.Use(middleware.RateLimit(rateLimitCfg))
	sec.Use(middleware.RateLimit(rateLimitCfg))

	// External assistant (optional)
	assistantClient := assistant.NewClient(cfg.AssistantURL, logger)
	if !assistantClient.Enabled() {
		logger.Warn().Msg("ASSISTANT_URL not set; chat and external doctor listings are disabled")
	}

	// Specialty catalog
	cat := catalog.New()
	catalogHandler := catalog.NewHandler(cat)
	catalogHandler.RegisterRoutes(pub)

	// Symptom triage
	triageSvc := triage.NewService(&assistantAdapter{client: assistantClient})
	triageHandler := triage.NewHandler(triageSvc)
	triageHandler.RegisterRoutes(pub)

	// Doctors directory + admin management
	doctorsRepo := doctors.NewRepoPG(pool)
	doctorsSvc := doctors.NewService(doctorsRepo, cat, assistantClient, logger)
	doctorsHandler := doctors.NewHandler(doctorsSvc)
	doctorsHandler.RegisterRoutes(sec)

	// Accounts and sessions
	identityRepo := identity.NewRepoPG(pool)
	identitySvc := identity.NewService(identityRepo, doctorsSvc, issuer)
	identityHandler := identity.NewHandler(identitySvc)
	identityHandler.RegisterRoutes(pub, sec)

	// File uploads
	store := blobstore.NewInMemoryStore()
	blobHandler := blobstore.NewHandler(store, cfg.BaseURL)
	blobHandler.RegisterRoutes(sec)

	// Appointments
	schedulingRepo := scheduling.NewRepoPG(pool)
	schedulingSvc := scheduling.NewService(schedulingRepo, &doctorDirectoryAdapter{svc: doctorsSvc}, logger)
	schedulingHandler := scheduling.NewHandler(schedulingSvc)
	schedulingHandler.RegisterRoutes(sec)

	// Health records
	recordsRepo := records.NewRepoPG(pool)
	recordsSvc := records.NewService(recordsRepo, store, blobHandler.URL, logger)
	recordsHandler := records.NewHandler(recordsSvc)
	recordsHandler.RegisterRoutes(sec)

	// Start and wait for shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
		return err
	}
	return nil
}
