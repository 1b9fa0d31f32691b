// Package cmd contains the expurgate CLI commands.
package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/robmiller/expurgate/config"
	"github.com/robmiller/expurgate/utils/logger"
)

var (
	cfg     *config.Config
	version = "dev"
)

var rootCmd = &cobra.Command{
	Use:   "expurgate",
	Short: "Authenticated caching image proxy",
	Long: `expurgate serves remote images from a local cache. Each request carries
the image URL and an HMAC checksum of it, so only links minted with the
shared key are fetched.

Example usage:
  expurgate serve                         # Run the proxy (default)
  expurgate checksum https://x.test/a.png # Mint a checksum for a URL
  expurgate sweep                         # Expire and evict once, then exit`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string reported by the CLI and in traces.
func SetVersion(v string) {
	version = v
}

func initConfig(cmd *cobra.Command) error {
	if cmd.Name() == "version" {
		return nil
	}

	var err error
	cfg, err = config.NewConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// One-shot commands log to stderr; stdout carries only their output.
	if cmd.HasParent() && cmd.Name() != "serve" {
		slog.SetDefault(logger.NewLogger(cmd.ErrOrStderr(), cfg.Logging.Level, "text"))
	}
	return nil
}
