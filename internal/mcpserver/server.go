// Package mcpserver serves the alert tools over the Model Context Protocol.
package mcpserver

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/qiniu/karma-mcp/internal/alerts"
	"github.com/qiniu/karma-mcp/internal/config"
	"github.com/qiniu/karma-mcp/internal/version"
	"github.com/rs/zerolog/log"
)

// New builds the MCP server with every dispatch-table tool registered.
func New(svc *alerts.Service) *server.MCPServer {
	mcpServer := server.NewMCPServer(version.Name, version.Version)
	for _, spec := range svc.Tools() {
		mcpServer.AddTool(buildTool(spec), makeHandler(svc, spec))
	}
	return mcpServer
}

// Serve runs the MCP server on the configured transport, blocking.
func Serve(svc *alerts.Service, cfg *config.MCPConfig) error {
	mcpServer := New(svc)

	if cfg.Transport == "stdio" {
		log.Info().Msg("serving MCP over stdio")
		return server.ServeStdio(mcpServer)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	httpServer := server.NewStreamableHTTPServer(mcpServer, server.WithEndpointPath(cfg.Endpoint))
	log.Info().Str("addr", addr).Str("endpoint", cfg.Endpoint).Msg("serving MCP over streamable HTTP")
	return httpServer.Start(addr)
}
