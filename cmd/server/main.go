package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/geomic-server/internal/app"
	"github.com/vovakirdan/geomic-server/internal/config"
	"github.com/vovakirdan/geomic-server/internal/log"
)

var (
	cfgFile   string
	overrides config.Config
)

var rootCmd = &cobra.Command{
	Use:           "geomic-server",
	Short:         "Session coordination server for geomic ask-to-speak events",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          serve,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the resolved configuration and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, _, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "path to config.yaml (created with defaults if missing)")
	flags.StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&overrides.LogFormat, "log-format", "", "log format: console or json")
	flags.DurationVar(&overrides.AdminGrace, "admin-grace", 0, "how long a dropped admin may reconnect")
	flags.DurationVar(&overrides.ParticipantGrace, "participant-grace", 0, "how long a dropped speaker may reconnect")
	flags.BoolVar(&overrides.RequireApproval, "require-approval", false, "route every new participant through the admin")

	rootCmd.AddCommand(configCmd)
}

func loadConfig(cmd *cobra.Command) (config.Config, string, error) {
	bootstrap := log.New("info", "console")
	cfg, path, err := config.Load(bootstrap, cfgFile)
	if err != nil {
		return cfg, path, err
	}
	cfg.UpdateFrom(overrides)
	applyExplicitFlags(cmd, &cfg)
	return cfg, path, cfg.Validate()
}

// applyExplicitFlags copies flags whose zero value is meaningful. UpdateFrom
// skips zero and false, so "--admin-grace 0" or "--require-approval=false"
// only take effect here.
func applyExplicitFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("admin-grace") {
		cfg.AdminGrace = overrides.AdminGrace
	}
	if flags.Changed("participant-grace") {
		cfg.ParticipantGrace = overrides.ParticipantGrace
	}
	if flags.Changed("require-approval") {
		cfg.RequireApproval = overrides.RequireApproval
	}
}

func serve(cmd *cobra.Command, _ []string) error {
	cfg, path, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := log.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting geomic server")
	if err := application.Run(ctx); err != nil {
		return fmt.Errorf("server exited with error: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
