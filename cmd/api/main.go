// Package main is the entrypoint for the MedYatra credential service.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/medyatra/credsvc/internal/booking"
	"github.com/medyatra/credsvc/internal/cache"
	"github.com/medyatra/credsvc/internal/config"
	"github.com/medyatra/credsvc/internal/handler"
	"github.com/medyatra/credsvc/internal/mailer"
	"github.com/medyatra/credsvc/internal/metrics"
	"github.com/medyatra/credsvc/internal/middleware"
	"github.com/medyatra/credsvc/internal/repository"
	"github.com/medyatra/credsvc/internal/scheduler"
	"github.com/medyatra/credsvc/internal/server"
	"github.com/medyatra/credsvc/internal/service"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	metricsRecorder := metrics.NewNoop()

	// Two independently configured providers: Brevo carries credential
	// email, Resend carries booking confirmations.
	httpClient := mailer.NewHTTPClient()
	brevo := mailer.NewBrevoProvider(cfg.BrevoAPIKey, cfg.BrevoAPIURL, httpClient)
	resend := mailer.NewResendProvider(cfg.ResendAPIKey, cfg.ResendAPIURL, httpClient)
	dispatcher := mailer.NewDispatcher(brevo, resend, mailer.Config{
		SenderName:  cfg.SenderName,
		SenderEmail: cfg.SenderEmail,
		LoginURL:    cfg.LoginURL,
	}, logger, metricsRecorder)

	issuanceService := service.NewIssuanceService(
		repo,
		dispatcher,
		cacheClient,
		cfg.PasswordLength,
		cfg.BatchConcurrency,
		logger,
		metricsRecorder,
	)
	notificationService := service.NewNotificationService(
		repo,
		repo,
		dispatcher,
		cfg.IncludePlaceholderCredentials,
		logger,
		metricsRecorder,
	)

	publisher := booking.NewPublisher(cacheClient.Client(), logger)
	worker := booking.NewWorker(
		cacheClient.Client(),
		notificationService,
		logger,
		booking.NewConsumerID(),
		metricsRecorder,
	)

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	credentialHandler := handler.NewCredentialHandler(issuanceService, logger)
	appointmentHandler := handler.NewAppointmentHandler(repo, publisher, notificationService, logger)
	testEmailHandler := handler.NewTestEmailHandler(dispatcher, logger)

	r := setupRouter(h, healthHandler, credentialHandler, appointmentHandler, testEmailHandler, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Workers registered first shut down last.
	srv.OnShutdown("booking-worker", worker.Shutdown)
	go func() {
		if err := worker.Run(ctx); err != nil && err != context.Canceled {
			logger.Error("booking worker exited", "error", err)
		}
	}()

	if cfg.ScheduleEnabled {
		sched, err := scheduler.New(issuanceService, logger, cfg.ScheduleTimezone)
		if err != nil {
			logger.Error("failed to initialize scheduler", "error", err)
			os.Exit(1)
		}
		srv.OnShutdown("scheduler", sched.Shutdown)
		go func() {
			if err := sched.Run(ctx); err != nil && err != context.Canceled {
				logger.Error("scheduler exited", "error", err)
			}
		}()
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"schedule_enabled", cfg.ScheduleEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	credentialHandler *handler.CredentialHandler,
	appointmentHandler *handler.AppointmentHandler,
	testEmailHandler *handler.TestEmailHandler,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	r.Get("/", h.Hello)

	adminAuth := middleware.AdminAuth(middleware.AdminAuthConfig{
		Logger:  logger,
		KeyHash: cfg.AdminAPIKeyHash,
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/credentials", func(r chi.Router) {
			r.With(adminAuth).Post("/run", credentialHandler.RunBatch)
			r.Post("/{userID}", credentialHandler.IssueForUser)
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Post("/", appointmentHandler.Create)
			r.Get("/{appointmentID}", appointmentHandler.Get)
			r.With(adminAuth).Post("/{appointmentID}/notify", appointmentHandler.Renotify)
		})

		r.With(adminAuth).Post("/test-email", testEmailHandler.SendTestEmail)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
