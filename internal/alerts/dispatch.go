package alerts

import (
	"context"
	"fmt"
)

// ToolParam describes one string parameter of a tool.
type ToolParam struct {
	Name        string
	Description string
	Required    bool
	Enum        []string
}

// ToolSpec describes one callable tool. The same table backs the REST
// dispatch endpoints, the JSON-RPC tools/list response and the MCP tool
// registration, so the three surfaces cannot drift apart.
type ToolSpec struct {
	Name        string
	Description string
	Params      []ToolParam
}

// InputSchema renders the tool definition as a JSON-Schema object for
// tools/list responses.
func (t ToolSpec) InputSchema() map[string]any {
	properties := map[string]any{}
	required := []string{}
	for _, p := range t.Params {
		prop := map[string]any{
			"type":        "string",
			"description": p.Description,
		}
		if len(p.Enum) > 0 {
			prop["enum"] = p.Enum
		}
		properties[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

// Tools lists every operation this adapter exposes.
func (s *Service) Tools() []ToolSpec {
	return []ToolSpec{
		{Name: "check_karma", Description: "Check connection to Karma server"},
		{Name: "list_alerts", Description: "List all active alerts"},
		{Name: "get_alerts_summary", Description: "Get a summary of alerts grouped by severity and state"},
		{Name: "list_clusters", Description: "List all available Kubernetes clusters in Karma"},
		{Name: "list_alerts_by_cluster", Description: "List alerts filtered by specific cluster",
			Params: []ToolParam{
				{Name: "cluster_name", Description: "Name of the cluster to filter by (e.g., 'teddy-prod', 'edge-prod')", Required: true},
			}},
		{Name: "get_alert_details", Description: "Get detailed information about a specific alert",
			Params: []ToolParam{
				{Name: "alert_name", Description: "Name of the alert to get details for", Required: true},
			}},
		{Name: "list_active_alerts", Description: "List only active (non-suppressed) alerts"},
		{Name: "list_suppressed_alerts", Description: "List only suppressed alerts"},
		{Name: "get_alerts_by_state", Description: "Get alerts filtered by state (active, suppressed, or all)",
			Params: []ToolParam{
				{Name: "state", Description: "Alert state to filter by", Required: true, Enum: []string{"active", "suppressed", "all"}},
			}},
		{Name: "search_alerts_by_container", Description: "Search for alerts by container name across multiple clusters",
			Params: []ToolParam{
				{Name: "container_name", Description: "Name of the container to search for", Required: true},
				{Name: "cluster_filter", Description: "Optional cluster name filter. If empty, searches all clusters."},
			}},
		{Name: "get_alert_details_multi_cluster", Description: "Get detailed information about a specific alert across multiple clusters",
			Params: []ToolParam{
				{Name: "alert_name", Description: "Name of the alert to search for (e.g., 'KubePodCrashLooping')", Required: true},
				{Name: "cluster_filter", Description: "Optional cluster name filter. If empty, searches all clusters."},
			}},
		{Name: "list_silences", Description: "List all active silences, optionally filtered by cluster",
			Params: []ToolParam{
				{Name: "cluster", Description: "Optional cluster name filter"},
			}},
		{Name: "create_silence", Description: "Create a new silence for specific alerts (not supported, returns guidance)",
			Params: []ToolParam{
				{Name: "cluster", Description: "Cluster the silence applies to", Required: true},
				{Name: "alertname", Description: "Alert name to silence", Required: true},
				{Name: "duration", Description: "Silence duration, e.g. '2h'"},
				{Name: "comment", Description: "Silence comment"},
			}},
		{Name: "delete_silence", Description: "Delete an existing silence (not supported, returns guidance)",
			Params: []ToolParam{
				{Name: "silence_id", Description: "ID of the silence to delete", Required: true},
				{Name: "cluster", Description: "Cluster the silence belongs to", Required: true},
			}},
	}
}

// Invoke runs the named tool with string arguments taken from args. Unknown
// tools and missing required parameters are the only error cases; everything
// the tool itself does comes back as display text.
func (s *Service) Invoke(ctx context.Context, name string, args map[string]any) (string, error) {
	get := func(key string) string {
		if v, ok := args[key]; ok {
			if str, ok := v.(string); ok {
				return str
			}
		}
		return ""
	}
	require := func(key string) (string, error) {
		if v := get(key); v != "" {
			return v, nil
		}
		return "", fmt.Errorf("%s parameter required", key)
	}

	switch name {
	case "check_karma":
		return s.CheckConnection(ctx), nil
	case "list_alerts":
		return s.ListAll(ctx), nil
	case "get_alerts_summary":
		return s.Summary(ctx), nil
	case "list_clusters":
		return s.ListClusters(ctx), nil
	case "list_alerts_by_cluster":
		cluster, err := require("cluster_name")
		if err != nil {
			return "", err
		}
		return s.ListByCluster(ctx, cluster), nil
	case "get_alert_details":
		alertName, err := require("alert_name")
		if err != nil {
			return "", err
		}
		return s.AlertDetails(ctx, alertName), nil
	case "list_active_alerts":
		return s.ListActive(ctx), nil
	case "list_suppressed_alerts":
		return s.ListSuppressed(ctx), nil
	case "get_alerts_by_state":
		state, err := require("state")
		if err != nil {
			return "", err
		}
		return s.ByState(ctx, state), nil
	case "search_alerts_by_container":
		containerName, err := require("container_name")
		if err != nil {
			return "", err
		}
		return s.SearchByContainer(ctx, containerName, get("cluster_filter")), nil
	case "get_alert_details_multi_cluster":
		alertName, err := require("alert_name")
		if err != nil {
			return "", err
		}
		return s.DetailsMultiCluster(ctx, alertName, get("cluster_filter")), nil
	case "list_silences":
		return s.ListSilences(ctx, get("cluster")), nil
	case "create_silence":
		cluster, err := require("cluster")
		if err != nil {
			return "", err
		}
		alertname, err := require("alertname")
		if err != nil {
			return "", err
		}
		return s.CreateSilence(ctx, cluster, alertname, get("duration"), get("comment")), nil
	case "delete_silence":
		silenceID, err := require("silence_id")
		if err != nil {
			return "", err
		}
		cluster, err := require("cluster")
		if err != nil {
			return "", err
		}
		return s.DeleteSilence(ctx, silenceID, cluster), nil
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}
