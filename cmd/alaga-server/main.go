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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/EMB-revenge/AlagaApp/internal/config"
	"github.com/EMB-revenge/AlagaApp/internal/domain/appointment"
	"github.com/EMB-revenge/AlagaApp/internal/domain/calendar"
	"github.com/EMB-revenge/AlagaApp/internal/domain/careprofile"
	"github.com/EMB-revenge/AlagaApp/internal/domain/healthrecord"
	"github.com/EMB-revenge/AlagaApp/internal/domain/medication"
	"github.com/EMB-revenge/AlagaApp/internal/domain/notification"
	"github.com/EMB-revenge/AlagaApp/internal/domain/reminder"
	"github.com/EMB-revenge/AlagaApp/internal/domain/subscription"
	"github.com/EMB-revenge/AlagaApp/internal/domain/user"
	"github.com/EMB-revenge/AlagaApp/internal/domain/vital"
	"github.com/EMB-revenge/AlagaApp/internal/platform/auth"
	"github.com/EMB-revenge/AlagaApp/internal/platform/blobstore"
	"github.com/EMB-revenge/AlagaApp/internal/platform/db"
	"github.com/EMB-revenge/AlagaApp/internal/platform/metrics"
	"github.com/EMB-revenge/AlagaApp/internal/platform/middleware"
	"github.com/EMB-revenge/AlagaApp/internal/platform/openapi"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "alaga-server",
		Short: "Alaga caregiving API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(indexesCmd())

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

func indexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "indexes",
		Short: "Ensure database indexes exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			client, err := db.Connect(ctx, cfg.MongoURI, 10*time.Second)
			if err != nil {
				return err
			}
			defer client.Disconnect(context.Background())

			if err := db.EnsureIndexes(ctx, client.Database(cfg.MongoDatabase)); err != nil {
				return err
			}
			fmt.Println("Indexes ensured on database:", cfg.MongoDatabase)
			return nil
		},
	}
}

// newLogger returns a JSON logger, or a console logger in development so the
// output stays readable while iterating.
func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func apiBaseURL(port string) string {
	return fmt.Sprintf("http://localhost:%s/api", port)
}

// newBlobStore picks the object-store backend: MinIO when an endpoint is
// configured, otherwise the in-memory store so uploads still work locally.
func newBlobStore(cfg *config.Config, logger zerolog.Logger) (blobstore.BlobStore, error) {
	if cfg.MinioEndpoint == "" {
		logger.Warn().Msg("MINIO_ENDPOINT not set; attachments are held in memory and lost on restart")
		return blobstore.NewInMemoryBlobStore(), nil
	}
	return blobstore.NewMinIOBlobStore(blobstore.MinIOConfig{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
}

func runServer() error {
	logger := newLogger(os.Getenv("ENV") != "production")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()
	client, err := db.Connect(ctx, cfg.MongoURI, 10*time.Second)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer client.Disconnect(context.Background())
	database := client.Database(cfg.MongoDatabase)
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to database")

	if err := db.EnsureIndexes(ctx, database); err != nil {
		logger.Fatal().Err(err).Msg("failed to ensure indexes")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	m := metrics.New()

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.SanitizeWithLogger(logger))
	e.Use(middleware.BodyLimit("1M", "12M"))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", "id_token"},
	}))
	e.Use(m.Middleware())

	// Auth middleware
	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware(auth.AuthSkipper))
	} else {
		e.Use(auth.JWTMiddleware(auth.JWTConfig{
			Issuer:     cfg.AuthIssuer,
			Audience:   cfg.AuthAudience,
			JWKSURL:    cfg.AuthJWKSURL,
			SigningKey: []byte(cfg.AuthSigningKey),
			Skipper:    auth.AuthSkipper,
		}))
	}

	e.Use(middleware.Audit(logger))

	// Repositories and services. The subscription service is built first
	// because care profile and reminder creation check plan limits.
	subRepo := subscription.NewMongoRepository(database)
	subSvc := subscription.NewService(subRepo)

	identityClient := auth.NewIdentityClient(cfg.IdentityAPIURL, cfg.IdentityAPIKey)
	userRepo := user.NewMongoRepository(database)
	userSvc := user.NewService(userRepo, identityClient)

	// DevAuthMiddleware authenticates every request as "dev-user"; seed its
	// document so RequireRecord lets development traffic through.
	if cfg.IsDev() {
		if ok, err := userSvc.Exists(ctx, "dev-user"); err == nil && !ok {
			_ = userRepo.Create(ctx, &user.User{
				ID:          "dev-user",
				Email:       "dev@localhost",
				FullName:    "Development User",
				IsCaregiver: true,
			})
		}
	}

	profileRepo := careprofile.NewMongoRepository(database)
	profileSvc := careprofile.NewService(profileRepo, subSvc)

	apptRepo := appointment.NewMongoRepository(database)
	apptSvc := appointment.NewService(apptRepo, profileSvc)

	medRepo := medication.NewMongoRepository(database)
	medSvc := medication.NewService(medRepo, profileSvc, cfg.LowInventoryThreshold)

	recordRepo := healthrecord.NewMongoRepository(database)
	recordSvc := healthrecord.NewService(recordRepo, profileSvc)

	vitalRepo := vital.NewMongoRepository(database)
	vitalSvc := vital.NewService(vitalRepo, profileSvc)

	calRepo := calendar.NewMongoRepository(database)
	calSvc := calendar.NewService(calRepo, profileSvc)

	remRepo := reminder.NewMongoRepository(database)
	remSvc := reminder.NewService(remRepo, profileSvc, subSvc)

	notifRepo := notification.NewMongoRepository(database)
	notifSvc := notification.NewService(notifRepo)

	store, err := newBlobStore(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize blob store")
	}

	// Callers without a user document get a 404 before reaching any domain
	// handler. Mounted after auth so the context carries the caller's UID.
	e.Use(user.RequireRecord(userSvc))

	api := e.Group("/api")

	// Rate limiting. A Redis-backed fixed window is shared across instances
	// when REDIS_URL is set; the in-process token bucket covers single-node
	// deployments. On top of either, per-user limits follow the caller's
	// subscription plan.
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("invalid REDIS_URL")
		}
		rdb := redis.NewClient(opts)
		limiter := middleware.NewRedisRateLimiter(rdb, int64(cfg.RateLimitRPS*60), time.Minute)
		api.Use(middleware.RedisRateLimit(limiter, logger))
		logger.Info().Msg("redis rate limiting enabled")
	} else {
		rateLimitCfg := middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimitRPS,
			BurstSize:         cfg.RateLimitBurst,
		}
		if rateLimitCfg.RequestsPerSecond <= 0 {
			rateLimitCfg = middleware.DefaultRateLimitConfig()
		}
		api.Use(middleware.RateLimit(rateLimitCfg))
	}

	userLimiter := middleware.NewUserRateLimiter(func(ctx context.Context, userID string) string {
		sub, err := subSvc.GetMine(ctx, userID)
		if err != nil {
			return string(subscription.TierFree)
		}
		return string(sub.Tier)
	})
	api.Use(middleware.UserRateLimitMiddleware(userLimiter))

	// Infrastructure endpoints
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})
	e.GET("/ready", db.HealthHandler(client))
	e.GET("/metrics", m.Handler())

	// Domain routes
	user.NewHandler(userSvc).RegisterRoutes(api)
	careprofile.NewHandler(profileSvc).RegisterRoutes(api)
	subscription.NewHandler(subSvc).RegisterRoutes(api)
	appointment.NewHandler(apptSvc).RegisterRoutes(api)
	medication.NewHandler(medSvc).RegisterRoutes(api)
	healthrecord.NewHandler(recordSvc).RegisterRoutes(api)
	vital.NewHandler(vitalSvc).RegisterRoutes(api)
	calendar.NewHandler(calSvc).RegisterRoutes(api)
	reminder.NewHandler(remSvc).RegisterRoutes(api)
	notification.NewHandler(notifSvc).RegisterRoutes(api)
	blobstore.NewHandler(store, profileSvc).RegisterRoutes(api)

	openapi.NewGenerator(openapi.DefaultResources(), version, apiBaseURL(cfg.Port)).RegisterRoutes(api)

	// Start and wait for a shutdown signal
	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()
	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	quit, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-quit.Done()

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	return nil
}
