// Package version carries the service identity shared by every surface.
package version

const (
	Name    = "karma-mcp"
	Version = "0.4.0"

	// ProtocolVersion is the MCP protocol revision answered to initialize.
	ProtocolVersion = "2025-06-18"
)
