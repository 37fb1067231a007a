// Package cli provides the command-line interface for clinic-chat.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gbyperovo-dot/dental-clinic-bot/internal/api"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/config"
	"github.com/gbyperovo-dot/dental-clinic-bot/internal/store"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string

	// Global config and collaborators
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
	apiClient  *api.Client
	st         *store.Store
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "clinic-chat",
	Short: "Terminal client for the D-Space answering service",
	Long: `Clinic-chat is a terminal client for the D-Space answering service:
an interactive chat with voice input and playback, locally persisted
history, contextual follow-up suggestions, and a price calculator.`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		cfg = config.Load()

		// The chat screen owns the terminal, so its logger writes to
		// the file only.
		if cmd.Name() == "chat" || cmd.Parent() == nil {
			logger, logCleanup = config.SetupFileLogger(cfg.LogFile, cfg.LogLevel)
		} else {
			logger, logCleanup = config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		}
		slog.SetDefault(logger)

		apiClient = api.New(resolveServerURL())

		var err error
		st, err = store.New(cfg.DataDir, logger)
		if err != nil {
			return fmt.Errorf("open data dir: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare invocation starts the chat.
		return runChat(cmd, args)
	},
}

// resolveServerURL picks the answering-service address: the --server
// flag wins, otherwise the loaded config (env over file over default).
func resolveServerURL() string {
	if serverURL != "" {
		return serverURL
	}
	return cfg.ServerURL
}

// userID resolves the request identifier: config override first, then
// the persisted per-installation id.
func userID() string {
	if cfg.UserID != "" {
		return cfg.UserID
	}
	return st.UserID()
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "answering service URL (default from CLINIC_SERVER_URL)")

	// Add subcommands
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(priceCmd)
}
