// Package cli defines the command-line interface for crfetch.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/yohi/crfetch/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	Repo     string
	LogLevel logging.Level
}

// Execute builds the root command, runs it with the provided args and logger, and returns any error.
func Execute(args []string, logger *slog.Logger) error {
	if logger == nil {
		logger = logging.NewLogger(os.Stderr, logging.LevelInfo)
	}

	rootOpts := &Options{
		LogLevel: logging.LevelInfo,
	}

	rootCmd := newRootCommand(rootOpts, logger)
	rootCmd.SetArgs(args)

	return rootCmd.Execute()
}

// newRootCommand constructs the root cobra.Command with global flags and subcommands.
func newRootCommand(opts *Options, logger *slog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crfetch",
		Short: "crfetch analyzes CodeRabbit pull request comments for AI agents",
		Long:  "crfetch fetches the CodeRabbit review comments of a pull request, classifies them into a structured model, and renders that model into markdown, JSON or plain text optimized for consumption by a generative AI agent.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			base, err := loadBaseEnv()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("log-level") && base.LogLevel != "" {
				_ = cmd.Flags().Set("log-level", base.LogLevel)
			}
			if !cmd.Flags().Changed("repo") && base.Repo != "" {
				opts.Repo = base.Repo
			}

			level := logging.ParseLevel(cmd.Flag("log-level").Value.String())
			opts.LogLevel = level
			logger = logging.NewLogger(os.Stderr, level)
			cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
			logger.Debug("logger initialized", "level", level)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Repo, "repo", "", "Repository slug owner/repo (defaults to CRFETCH_REPO or GITHUB_REPOSITORY env)")
	cmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newAnalyzeCommand(opts),
		newRequestResolutionCommand(opts),
	)

	return cmd
}

// loggerKey is a private context key used to store a logger in command contexts.
type loggerKey struct{}

// LoggerFromContext extracts a logger from the context or falls back to a default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return logging.NewLogger(os.Stderr, logging.LevelInfo)
	}
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}
