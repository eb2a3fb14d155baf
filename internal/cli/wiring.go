package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-otp-auth/internal/application/notify"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/domain"
	"github.com/go-otp-auth/internal/infrastructure/dynamo"
	"github.com/go-otp-auth/internal/infrastructure/memory"
	redisinfra "github.com/go-otp-auth/internal/infrastructure/redis"
	"github.com/go-otp-auth/internal/infrastructure/smtp"
	"github.com/go-otp-auth/internal/infrastructure/sns"
	transporthttp "github.com/go-otp-auth/internal/transport/http"
	"github.com/redis/go-redis/v9"
)

type mailer interface {
	SendEmail(ctx context.Context, msg domain.EmailMessage) error
}

// components lazily builds shared infrastructure so that only the backings the
// configuration selects are ever connected.
type components struct {
	cfg    *config.Config
	logger *slog.Logger

	dynamo *dynamodb.Client
	redis  *redis.Client
	memory *memory.PendingCodeStore
}

func newComponents(cfg *config.Config, logger *slog.Logger) *components {
	return &components{cfg: cfg, logger: logger}
}

func (c *components) dynamoClient(ctx context.Context) (*dynamodb.Client, error) {
	if c.dynamo == nil {
		client, err := dynamo.NewClient(ctx, c.cfg)
		if err != nil {
			return nil, err
		}
		c.dynamo = client
	}
	return c.dynamo, nil
}

func (c *components) redisClient(ctx context.Context) (*redis.Client, error) {
	if c.redis == nil {
		client, err := redisinfra.NewClient(ctx, c.cfg)
		if err != nil {
			return nil, err
		}
		c.redis = client
	}
	return c.redis, nil
}

// codeStore returns the pending-code backing named by backing.
func (c *components) codeStore(ctx context.Context, backing string) (transporthttp.CodeStore, error) {
	switch backing {
	case config.StoreMemory:
		if c.memory == nil {
			c.memory = memory.NewPendingCodeStore()
		}
		return c.memory, nil
	case config.StoreRedis:
		client, err := c.redisClient(ctx)
		if err != nil {
			return nil, err
		}
		return redisinfra.NewPendingCodeStore(client, ""), nil
	case config.StoreDynamo:
		client, err := c.dynamoClient(ctx)
		if err != nil {
			return nil, err
		}
		return dynamo.NewPendingCodeRepo(client, c.cfg.DynamoTables.PendingCodes), nil
	default:
		return nil, fmt.Errorf("unknown code store %q (want %s, %s or %s)", backing, config.StoreMemory, config.StoreRedis, config.StoreDynamo)
	}
}

func (c *components) mailer(ctx context.Context) (mailer, error) {
	switch c.cfg.MailTransport {
	case config.MailSMTP:
		return smtp.NewMailer(c.cfg), nil
	case config.MailSNS:
		return sns.NewTopicMailer(ctx, c.cfg)
	case config.MailLog:
		if c.cfg.IsProduction() {
			c.logger.Warn("log mail transport in production, codes will only appear in logs")
		}
		return notify.NewLogMailer(c.logger), nil
	default:
		return nil, fmt.Errorf("unknown mail transport %q (want %s, %s or %s)", c.cfg.MailTransport, config.MailSMTP, config.MailSNS, config.MailLog)
	}
}

func (c *components) close() {
	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.logger.Warn("closing redis client", "err", err)
		}
	}
}
