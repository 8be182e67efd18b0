package main

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpserver "github.com/ylchen07/jira-estimate/internal/mcp"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the estimate tools over MCP stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.setup(); err != nil {
				return err
			}

			srv := mcpserver.NewServer(mcpserver.Dependencies{
				Client:  a.client,
				Version: version,
				Logger:  a.logger,
			})

			a.logger.Info("serving MCP over stdio", slog.String("site", a.cfg.Jira.Site), slog.String("backend", a.cfg.Jira.Backend))
			if err := server.ServeStdio(srv); err != nil {
				return fmt.Errorf("stdio server terminated: %w", err)
			}
			return nil
		},
	}
}
