package cli

import (
	"context"
	"log/slog"

	"github.com/go-otp-auth/internal/infrastructure/dynamo"
)

func runBootstrap(ctx context.Context, opts *options) error {
	cfg := loadConfig(opts.envFile)
	logger := newLogger(cfg)
	slog.SetDefault(logger)

	comps := newComponents(cfg, logger)
	client, err := comps.dynamoClient(ctx)
	if err != nil {
		return err
	}
	if err := dynamo.Bootstrap(ctx, client, cfg.DynamoTables); err != nil {
		return err
	}
	logger.Info("tables ready",
		"users", cfg.DynamoTables.Users,
		"pending_codes", cfg.DynamoTables.PendingCodes,
		"details", cfg.DynamoTables.Details,
	)
	return nil
}
