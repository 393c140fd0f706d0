package main

import (
	"github.com/spf13/cobra"

	"github.com/ironsheep/xai-saliency-mcp/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP server. Requests are read from stdin one JSON-RPC message per
line and responses are written to stdout; logs go to stderr.

Set XAI_SALIENCY_LOG_LEVEL=debug to trace every request.`,
		Args: cobra.NoArgs,
		RunE: runServeCmd,
	}
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)
	logger.Debug().Str("version", getVersion()).Str("commit", getCommit()).Msg("starting MCP server")

	srv := server.New(
		server.WithLocator(cfg.Locator()),
		server.WithDetectorParams(cfg.Detector),
		server.WithHighlightColor(cfg.HighlightColor),
		server.WithVersion(getVersion()),
		server.WithLogger(logger),
	)
	return srv.Serve(cmd.InOrStdin(), cmd.OutOrStdout())
}
