package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/qiniu/karma-mcp/internal/alerts"
	"github.com/qiniu/karma-mcp/internal/karma"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	snapshot  *karma.Snapshot
	healthErr error
}

func (f *fakeFetcher) FetchAlerts(ctx context.Context) (*karma.Snapshot, error) {
	return f.snapshot, nil
}
func (f *fakeFetcher) Health(ctx context.Context) error { return f.healthErr }
func (f *fakeFetcher) FetchSilences(ctx context.Context) ([]karma.Silence, error) {
	return nil, nil
}
func (f *fakeFetcher) BaseURL() string { return "http://karma.example:8080" }

func testServer() *Server {
	snapshot := &karma.Snapshot{
		Status: "success",
		Upstreams: karma.Upstreams{
			Instances: []karma.Instance{{Name: "alertmanager", Cluster: "teddy-prod", Version: "0.25.0"}},
		},
		Grids: []karma.Grid{{
			AlertGroups: []karma.AlertGroup{{
				Receiver: "web.hook",
				Labels: []karma.LabelPair{
					{Name: "alertname", Value: "KubePodCrashLooping"},
					{Name: "severity", Value: "critical"},
				},
				Alerts: []karma.Alert{{
					Labels:       []karma.LabelPair{{Name: "namespace", Value: "production"}},
					State:        "active",
					StartsAt:     "2025-09-04T09:30:00Z",
					Alertmanager: []karma.AlertmanagerRef{{Cluster: "teddy-prod", Name: "alertmanager"}},
				}},
			}},
		}},
	}
	return NewServer(alerts.NewService(&fakeFetcher{snapshot: snapshot}))
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Engine().ServeHTTP(rec, req)

	decoded := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "connected", body["karma"])
}

func TestHealthEndpointDegraded(t *testing.T) {
	srv := NewServer(alerts.NewService(&fakeFetcher{healthErr: &karma.StatusError{Code: 502}}))
	rec, body := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", body["status"])
}

func TestListAlertsEndpoint(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodGet, "/alerts", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["data"], "Found 1 alerts")
}

func TestAlertsByClusterValidation(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodPost, "/alerts/by-cluster", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["error"], "cluster_name")
}

func TestAlertsByClusterEndpoint(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodPost, "/alerts/by-cluster",
		map[string]string{"cluster_name": "teddy-prod"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body["data"], "Alerts in cluster 'teddy-prod'")
}

func TestGenericToolEndpoint(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodPost, "/mcp/tools/get_alert_details",
		map[string]string{"alert_name": "KubePodCrashLooping"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["result"], "Found 1 instance(s)")
}

func TestGenericToolUnknown(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodPost, "/mcp/tools/no_such_tool", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body["detail"], "unknown tool")
}

func TestExecuteEndpoint(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodPost, "/mcp/execute",
		map[string]any{"tool": "list_alerts"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tool_result", body["type"])
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["result"], "Found 1 alerts")
}

func TestExecuteMissingTool(t *testing.T) {
	srv := testServer()
	rec, _ := doJSON(t, srv, http.MethodPost, "/mcp/execute", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJSONRPCInitialize(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodPost, "/mcp/sse", map[string]any{
		"jsonrpc": "2.0", "id": 1, "method": "initialize",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2.0", body["jsonrpc"])

	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2025-06-18", result["protocolVersion"])

	serverInfo, ok := result["serverInfo"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "karma-mcp", serverInfo["name"])
}

func TestJSONRPCToolsList(t *testing.T) {
	srv := testServer()
	_, body := doJSON(t, srv, http.MethodPost, "/mcp/sse", map[string]any{
		"jsonrpc": "2.0", "id": 2, "method": "tools/list",
	})
	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	tools, ok := result["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, tools, 14)

	first, ok := tools[0].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, first["name"])
	assert.NotEmpty(t, first["inputSchema"])
}

func TestJSONRPCToolsCall(t *testing.T) {
	srv := testServer()
	_, body := doJSON(t, srv, http.MethodPost, "/mcp/sse", map[string]any{
		"jsonrpc": "2.0", "id": 3, "method": "tools/call",
		"params": map[string]any{
			"name":      "get_alerts_by_state",
			"arguments": map[string]any{"state": "active"},
		},
	})
	result, ok := body["result"].(map[string]any)
	require.True(t, ok)
	content, ok := result["content"].([]any)
	require.True(t, ok)
	require.Len(t, content, 1)

	text, ok := content[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "text", text["type"])
	assert.Contains(t, text["text"], "Total Active Alerts: 1")
}

func TestJSONRPCToolsCallMissingParam(t *testing.T) {
	srv := testServer()
	_, body := doJSON(t, srv, http.MethodPost, "/mcp/sse", map[string]any{
		"jsonrpc": "2.0", "id": 4, "method": "tools/call",
		"params": map[string]any{"name": "get_alert_details"},
	})
	rpcErr, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(-32000), rpcErr["code"])
	assert.Contains(t, rpcErr["message"], "alert_name")
}

func TestJSONRPCUnknownMethod(t *testing.T) {
	srv := testServer()
	_, body := doJSON(t, srv, http.MethodPost, "/mcp/sse", map[string]any{
		"jsonrpc": "2.0", "id": 5, "method": "resources/list",
	})
	rpcErr, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(-32601), rpcErr["code"])
}

func TestJSONRPCNotification(t *testing.T) {
	srv := testServer()
	rec, _ := doJSON(t, srv, http.MethodPost, "/mcp/sse", map[string]any{
		"jsonrpc": "2.0", "method": "notifications/initialized",
	})
	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestRootCatalog(t *testing.T) {
	srv := testServer()
	rec, body := doJSON(t, srv, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Karma MCP HTTP Server", body["service"])
	assert.NotEmpty(t, body["endpoints"])
}

func TestRequestIDHeader(t *testing.T) {
	srv := testServer()
	rec, _ := doJSON(t, srv, http.MethodGet, "/health", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
