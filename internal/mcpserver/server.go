// Package mcpserver exposes the dashboard's read operations as MCP tools.
package mcpserver

import (
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/edvin/backupdash/internal/backend"
	"github.com/edvin/backupdash/internal/core"
)

const instructions = "Backup monitoring dashboard: read-only access to machines, backup runs, jobs, alerts and aggregate statistics."

// NewMCPServer builds the MCP server with every dashboard tool registered.
func NewMCPServer(services *core.Services, granularity backend.Granularity, days int) *server.MCPServer {
	return newMCPServer(Tools(services, granularity, days))
}

func newMCPServer(tools []server.ServerTool) *server.MCPServer {
	mcpSrv := server.NewMCPServer(
		"backupdash",
		"1.0.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(false),
	)
	mcpSrv.AddTools(tools...)
	return mcpSrv
}

// New returns a streamable HTTP handler serving the dashboard tools. It is
// mounted under a router prefix and answers on its root path.
func New(services *core.Services, granularity backend.Granularity, days int, logger zerolog.Logger) http.Handler {
	tools := Tools(services, granularity, days)
	logger.Info().Int("tools", len(tools)).Msg("mounted MCP tools")
	return server.NewStreamableHTTPServer(newMCPServer(tools), server.WithEndpointPath("/"))
}
