package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/qiniu/karma-mcp/internal/alerts"
	"github.com/rs/zerolog/log"
)

// makeHandler routes a tool call through the shared dispatch table. Tool
// output is always text; only unknown tools or missing required parameters
// become tool errors.
func makeHandler(svc *alerts.Service, spec alerts.ToolSpec) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := map[string]any{}
		for _, p := range spec.Params {
			if v := req.GetString(p.Name, ""); v != "" {
				args[p.Name] = v
			}
		}

		result, err := svc.Invoke(ctx, spec.Name, args)
		if err != nil {
			log.Warn().Err(err).Str("tool", spec.Name).Msg("tool invocation rejected")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}
