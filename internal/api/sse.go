package api

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qiniu/karma-mcp/internal/version"
	"github.com/rs/zerolog/log"
)

const heartbeatInterval = 30 * time.Second

// SSE streams connection info, the tool catalog and periodic heartbeats until
// the client disconnects.
func (s *Server) SSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	// Disable nginx buffering
	c.Header("X-Accel-Buffering", "no")

	c.SSEvent("", gin.H{
		"type":    "connection",
		"status":  "connected",
		"server":  version.Name,
		"version": version.Version,
	})

	tools := make([]gin.H, 0)
	for _, t := range s.svc.Tools() {
		tools = append(tools, gin.H{"name": t.Name, "description": t.Description})
	}
	c.SSEvent("", gin.H{"type": "tools", "tools": tools})
	c.Writer.Flush()

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			log.Debug().Msg("SSE client disconnected")
			return false
		case <-ticker.C:
			c.SSEvent("", gin.H{"type": "heartbeat", "timestamp": unixSeconds()})
			return true
		}
	})
}
