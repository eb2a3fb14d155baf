package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/go-otp-auth/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type options struct {
	envFile       string
	skipBootstrap bool
}

// NewRootCommand returns the otp-auth command tree. Without a subcommand it serves HTTP.
func NewRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "otp-auth",
		Short:         "Email OTP signup, password reset and details API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to env file")
	cmd.Flags().BoolVar(&opts.skipBootstrap, "skip-bootstrap", false, "do not create DynamoDB tables on startup")

	cmd.AddCommand(newServeCommand(opts), newBootstrapCommand(opts))
	return cmd
}

func newServeCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.skipBootstrap, "skip-bootstrap", false, "do not create DynamoDB tables on startup")
	return cmd
}

func newBootstrapCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create DynamoDB tables and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBootstrap(cmd.Context(), opts)
		},
	}
}

// loadConfig reads envFile when present, then the process environment.
func loadConfig(envFile string) *config.Config {
	if err := godotenv.Load(envFile); err != nil {
		slog.Info("no env file found, reading from environment", "path", envFile)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
