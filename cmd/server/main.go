// @title MarathonHub API
// @version 1.0
// @description Marathon listings and runner registrations.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Firebase ID token as "Bearer <token>"
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marathonhub/config"
	_ "marathonhub/docs"
	"marathonhub/internal/adapters/auth"
	"marathonhub/internal/adapters/email"
	httpdelivery "marathonhub/internal/delivery/http"
	"marathonhub/internal/delivery/http/controllers"
	"marathonhub/internal/delivery/http/middleware"
	"marathonhub/internal/domain"
	"marathonhub/internal/metrics"
	"marathonhub/internal/repository"
	"marathonhub/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := config.NewLogger()
	metrics.Register()

	repos := repository.Open(context.Background(), repository.Options{
		URI:            cfg.MongoURI,
		Database:       cfg.MongoDatabase,
		ConnectTimeout: cfg.MongoConnectTimeout,
	}, logger)
	metrics.StorageBackend.WithLabelValues(repos.Backend.String()).Set(1)
	logger.Info("storage backend selected", "backend", repos.Backend.String())

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.SESInsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		logger.Error("mailer setup failed", "err", err)
		os.Exit(1)
	}
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)

	userService := services.NewUserService(repos.Users, emailService, logger, cfg.RequestTimeout)
	marathonService := services.NewMarathonService(repos.Marathons, repos.Registrations, cfg.RequestTimeout)
	registrationService := services.NewRegistrationService(repos.Registrations, repos.Marathons, repos.Users, emailService, logger, cfg.RequestTimeout)

	authMiddleware, err := newAuthMiddleware(cfg, userService, logger)
	if err != nil {
		logger.Error("auth setup failed", "err", err)
		os.Exit(1)
	}

	router := httpdelivery.NewRouter(httpdelivery.RouterDeps{
		Logger:                 logger,
		AuthController:         controllers.NewAuthController(logger, userService),
		MarathonController:     controllers.NewMarathonController(logger, marathonService),
		RegistrationController: controllers.NewRegistrationController(logger, registrationService),
		Auth:                   authMiddleware,
		AllowedOrigins:         cfg.AllowedOrigins,
		Backend:                repos.Backend.String(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment, "auth_mode", cfg.AuthMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
	if err := repos.Close(shutdownCtx); err != nil {
		logger.Error("closing storage failed", "err", err)
	}
	logger.Info("server stopped")
}

// newAuthMiddleware builds the request authenticator for the configured auth mode.
// In demo mode the demo user is created if it does not exist yet.
func newAuthMiddleware(cfg *config.Config, users domain.UserService, logger *slog.Logger) (func(http.HandlerFunc) http.HandlerFunc, error) {
	if cfg.AuthMode == config.AuthModeDemo {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		demo := domain.NewUser(cfg.DemoSubject, cfg.DemoEmail, nil, nil, time.Time{})
		if _, _, err := users.Register(ctx, demo); err != nil {
			return nil, err
		}
		logger.Warn("demo auth enabled: every request acts as the demo user", "subject", cfg.DemoSubject)
		return middleware.DemoAuth(cfg.DemoSubject, users, logger), nil
	}
	verifier := auth.NewFirebaseVerifier(cfg.FirebaseProjectID, cfg.FirebaseCertsURL, nil)
	return middleware.RequireAuth(verifier, users, logger), nil
}
