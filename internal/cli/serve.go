package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-otp-auth/internal/application/notify"
	"github.com/go-otp-auth/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-otp-auth/internal/infrastructure/jwt"
	transporthttp "github.com/go-otp-auth/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

func runServe(parent context.Context, opts *options) error {
	cfg := loadConfig(opts.envFile)
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	comps := newComponents(cfg, logger)
	defer comps.close()

	dynamoClient, err := comps.dynamoClient(ctx)
	if err != nil {
		return err
	}
	if !opts.skipBootstrap {
		if err := dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables); err != nil {
			return fmt.Errorf("bootstrap tables: %w", err)
		}
	}

	signupCodes, err := comps.codeStore(ctx, cfg.SignupCodeStore)
	if err != nil {
		return fmt.Errorf("signup code store: %w", err)
	}
	resetCodes, err := comps.codeStore(ctx, cfg.ResetCodeStore)
	if err != nil {
		return fmt.Errorf("reset code store: %w", err)
	}
	mailer, err := comps.mailer(ctx)
	if err != nil {
		return fmt.Errorf("mail transport: %w", err)
	}

	// JWT provider is optional; session routes are disabled without keys.
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		logger.Warn("JWT provider not available", "err", err)
	}

	deps := &transporthttp.Deps{
		SignupCodes: signupCodes,
		ResetCodes:  resetCodes,
		UserRepo:    dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		DetailRepo:  dynamo.NewDetailRepo(dynamoClient, cfg.DynamoTables.Details),
		Notifier:    notify.NewEmailNotifier(mailer, cfg.AppBaseURL),
		JWTProvider: jwtProvider,
		Logger:      logger,
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			"port", cfg.AppPort,
			"env", cfg.AppEnv,
			"signup_store", cfg.SignupCodeStore,
			"reset_store", cfg.ResetCodeStore,
			"mail", cfg.MailTransport,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
