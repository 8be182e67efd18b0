// Package mcp exposes the estimate workflow as Model Context Protocol tools.
package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/ylchen07/jira-estimate/internal/estimate"
)

// Dependencies bundles the services required for MCP server construction.
type Dependencies struct {
	Client  *estimate.Client
	Version string
	Logger  *slog.Logger
}

// NewServer builds an MCP server with the estimate tools registered.
func NewServer(deps Dependencies) *server.MCPServer {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}

	srv := server.NewMCPServer(
		"jira-estimate",
		deps.Version,
		server.WithToolCapabilities(true),
		server.WithInstructions("Tools for finding unestimated Jira issues and setting their story points and priority."),
		server.WithRecovery(),
	)

	if deps.Client != nil {
		NewEstimateTools(srv, deps.Client, deps.Logger)
	}

	return srv
}
