// Package api exposes the alert tools as a REST/SSE HTTP surface, plus a
// JSON-RPC endpoint speaking the MCP envelope for clients that POST it
// directly.
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qiniu/karma-mcp/internal/alerts"
	"github.com/qiniu/karma-mcp/internal/version"
)

// Response is the envelope every tool endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Data    string `json:"data"`
	Error   string `json:"error,omitempty"`
}

type ClusterRequest struct {
	ClusterName string `json:"cluster_name" binding:"required"`
}

type AlertDetailsRequest struct {
	AlertName string `json:"alert_name" binding:"required"`
}

type ContainerSearchRequest struct {
	ContainerName string `json:"container_name" binding:"required"`
	ClusterFilter string `json:"cluster_filter"`
}

type AlertSearchRequest struct {
	AlertName     string `json:"alert_name" binding:"required"`
	ClusterFilter string `json:"cluster_filter"`
}

type SilenceRequest struct {
	Cluster   string `json:"cluster" binding:"required"`
	Alertname string `json:"alertname" binding:"required"`
	Duration  string `json:"duration"`
	Comment   string `json:"comment"`
}

type DeleteSilenceRequest struct {
	SilenceID string `json:"silence_id" binding:"required"`
	Cluster   string `json:"cluster" binding:"required"`
}

// Server is the REST/SSE surface over the alert service.
type Server struct {
	svc    *alerts.Service
	engine *gin.Engine
}

func NewServer(svc *alerts.Service) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestID(), AccessLog(), Metrics())
	engine.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	s := &Server{svc: svc, engine: engine}
	s.setupRouters(engine)
	return s
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Run serves the API on addr, blocking.
func (s *Server) Run(addr string) error { return s.engine.Run(addr) }

func (s *Server) setupRouters(router *gin.Engine) {
	router.GET("/", s.Root)
	router.GET("/health", s.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/alerts", s.tool("list_alerts"))
	router.GET("/alerts/summary", s.tool("get_alerts_summary"))
	router.GET("/alerts/active", s.tool("list_active_alerts"))
	router.GET("/alerts/suppressed", s.tool("list_suppressed_alerts"))
	router.GET("/alerts/state/:state", s.AlertsByState)
	router.GET("/clusters", s.tool("list_clusters"))

	router.POST("/alerts/by-cluster", s.AlertsByCluster)
	router.POST("/alerts/details", s.AlertDetails)
	router.POST("/alerts/search/container", s.SearchByContainer)
	router.POST("/alerts/search/name", s.SearchByName)

	router.GET("/silences", s.ListSilences)
	router.POST("/silences", s.CreateSilence)
	router.DELETE("/silences", s.DeleteSilence)

	router.POST("/mcp/tools/:tool", s.GenericTool)
	router.POST("/mcp/execute", s.Execute)
	router.POST("/mcp/sse", s.JSONRPC)
	router.GET("/mcp/sse", s.SSE)
}

// Root returns the endpoint catalog.
func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Karma MCP HTTP Server",
		"version": version.Version,
		"endpoints": []string{
			"GET /health - Check Karma connectivity",
			"GET /alerts - List all alerts",
			"GET /alerts/summary - Get alerts summary",
			"GET /alerts/active - List active alerts",
			"GET /alerts/suppressed - List suppressed alerts",
			"GET /alerts/state/:state - List alerts by state",
			"GET /clusters - List all clusters",
			"POST /alerts/by-cluster - Get alerts by cluster",
			"POST /alerts/details - Get alert details",
			"POST /alerts/search/container - Search alerts by container name",
			"POST /alerts/search/name - Search alerts by name across clusters",
			"GET /silences - List all active silences",
			"POST /silences - Create a new silence",
			"DELETE /silences - Delete an existing silence",
			"GET /metrics - Prometheus metrics",
		},
	})
}

// Health reports connectivity to the Karma upstream. The probe itself is
// total, so the endpoint always answers 200 with a status field.
func (s *Server) Health(c *gin.Context) {
	result := s.svc.CheckConnection(c.Request.Context())
	if strings.HasPrefix(result, "✓") {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "karma": "connected", "message": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "degraded", "karma": "issues", "message": result})
}

// tool builds a handler for a parameterless tool.
func (s *Server) tool(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := s.svc.Invoke(c.Request.Context(), name, nil)
		if err != nil {
			c.JSON(http.StatusOK, Response{Success: false, Error: err.Error()})
			return
		}
		c.JSON(http.StatusOK, Response{Success: true, Data: result})
	}
}

func (s *Server) AlertsByState(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true, Data: s.svc.ByState(c.Request.Context(), c.Param("state"))})
}

func (s *Server) AlertsByCluster(c *gin.Context) {
	var req ClusterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "cluster_name parameter required"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: s.svc.ListByCluster(c.Request.Context(), req.ClusterName)})
}

func (s *Server) AlertDetails(c *gin.Context) {
	var req AlertDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "alert_name parameter required"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: s.svc.AlertDetails(c.Request.Context(), req.AlertName)})
}

func (s *Server) SearchByContainer(c *gin.Context) {
	var req ContainerSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "container_name parameter required"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true,
		Data: s.svc.SearchByContainer(c.Request.Context(), req.ContainerName, req.ClusterFilter)})
}

func (s *Server) SearchByName(c *gin.Context) {
	var req AlertSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "alert_name parameter required"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true,
		Data: s.svc.DetailsMultiCluster(c.Request.Context(), req.AlertName, req.ClusterFilter)})
}

func (s *Server) ListSilences(c *gin.Context) {
	c.JSON(http.StatusOK, Response{Success: true,
		Data: s.svc.ListSilences(c.Request.Context(), c.Query("cluster"))})
}

func (s *Server) CreateSilence(c *gin.Context) {
	var req SilenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "cluster and alertname are required"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true,
		Data: s.svc.CreateSilence(c.Request.Context(), req.Cluster, req.Alertname, req.Duration, req.Comment)})
}

func (s *Server) DeleteSilence(c *gin.Context) {
	var req DeleteSilenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "silence_id and cluster are required"})
		return
	}
	c.JSON(http.StatusOK, Response{Success: true,
		Data: s.svc.DeleteSilence(c.Request.Context(), req.SilenceID, req.Cluster)})
}

// GenericTool dispatches any tool by name with a JSON object of parameters.
func (s *Server) GenericTool(c *gin.Context) {
	params := map[string]any{}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&params); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON body"})
			return
		}
	}

	result, err := s.svc.Invoke(c.Request.Context(), c.Param("tool"), params)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// Execute runs a tool from a {tool, params} envelope and answers with a
// tool_result event payload.
func (s *Server) Execute(c *gin.Context) {
	var req struct {
		Tool   string         `json:"tool"`
		Params map[string]any `json:"params"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Tool == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Tool name required"})
		return
	}

	result, err := s.svc.Invoke(c.Request.Context(), req.Tool, req.Params)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"type":      "tool_result",
			"tool":      req.Tool,
			"success":   false,
			"error":     err.Error(),
			"timestamp": unixSeconds(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"type":      "tool_result",
		"tool":      req.Tool,
		"success":   true,
		"result":    result,
		"timestamp": unixSeconds(),
	})
}

func unixSeconds() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
