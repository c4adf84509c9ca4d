package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/karma-mcp/internal/version"
	"github.com/rs/zerolog/log"
)

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      any    `json:"id"`
	Method  string `json:"method"`
	Params  struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	} `json:"params"`
}

func rpcError(id any, code int, message string) gin.H {
	return gin.H{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   gin.H{"code": code, "message": message},
	}
}

func rpcResult(id any, result any) gin.H {
	return gin.H{
		"jsonrpc": "2.0",
		"id":      id,
		"result":  result,
	}
}

// JSONRPC answers the MCP JSON-RPC envelope over plain HTTP POST for clients
// that speak the protocol directly instead of through an MCP transport.
func (s *Server) JSONRPC(c *gin.Context) {
	var req rpcRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusOK, rpcError(nil, -32700, "Parse error: "+err.Error()))
		return
	}

	switch {
	case req.Method == "initialize":
		c.JSON(http.StatusOK, rpcResult(req.ID, gin.H{
			"protocolVersion": version.ProtocolVersion,
			"capabilities":    gin.H{"tools": gin.H{}},
			"serverInfo":      gin.H{"name": version.Name, "version": version.Version},
		}))

	case req.Method == "tools/list":
		tools := make([]gin.H, 0)
		for _, t := range s.svc.Tools() {
			tools = append(tools, gin.H{
				"name":        t.Name,
				"description": t.Description,
				"inputSchema": t.InputSchema(),
			})
		}
		c.JSON(http.StatusOK, rpcResult(req.ID, gin.H{"tools": tools}))

	case req.Method == "tools/call":
		result, err := s.svc.Invoke(c.Request.Context(), req.Params.Name, req.Params.Arguments)
		if err != nil {
			c.JSON(http.StatusOK, rpcError(req.ID, -32000, err.Error()))
			return
		}
		c.JSON(http.StatusOK, rpcResult(req.ID, gin.H{
			"content": []gin.H{{"type": "text", "text": result}},
		}))

	case strings.HasPrefix(req.Method, "notifications/"):
		// Notifications carry no response body.
		c.Status(http.StatusAccepted)

	default:
		log.Debug().Str("method", req.Method).Msg("unknown JSON-RPC method")
		c.JSON(http.StatusOK, rpcError(req.ID, -32601, "Method not found: "+req.Method))
	}
}
