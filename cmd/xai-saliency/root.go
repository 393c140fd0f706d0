package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/xai-saliency-mcp/internal/config"
	"github.com/ironsheep/xai-saliency-mcp/internal/logging"
)

// NewRootCmd creates the root command. Run bare, it serves MCP on stdio.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "xai-saliency",
		Short: "Evaluate saliency explanations of brain tumour classifiers",
		Long: `xai-saliency measures the fidelity of saliency explanations for MRI brain
tumour classification. It locates the tumour in each slice with a circle
Hough transform, classifies every explanation pixel as supporting or
opposing the decision, and reports precision, recall, accuracy and F1.

Without a sub-command it runs as an MCP server on stdin/stdout.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServeCmd,
	}

	cmd.PersistentFlags().StringP("config", "c", "",
		fmt.Sprintf("Configuration file (default: %s)", config.DefaultPath()))
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewLocateCmd())
	cmd.AddCommand(NewAnalyseCmd())
	cmd.AddCommand(NewEvaluateCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file (or the default one) and validates it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// newLogger builds the stderr logger for cfg and the --verbose flag.
func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	return logging.NewConsole(logging.ResolveLevel(cfg.LogLevel, verbose))
}
