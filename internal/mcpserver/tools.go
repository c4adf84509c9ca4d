package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/qiniu/karma-mcp/internal/alerts"
)

// buildTool converts one dispatch-table entry into an MCP tool definition.
// Every parameter in this API is a string, so only string options are needed.
func buildTool(spec alerts.ToolSpec) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(spec.Description)}
	for _, p := range spec.Params {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		if len(p.Enum) > 0 {
			propOpts = append(propOpts, mcp.Enum(p.Enum...))
		}
		opts = append(opts, mcp.WithString(p.Name, propOpts...))
	}
	return mcp.NewTool(spec.Name, opts...)
}
