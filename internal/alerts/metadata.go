package alerts

import "github.com/qiniu/karma-mcp/internal/karma"

// metadata is the canonical per-alert record derived from one group/alert
// pair. Every field is populated; placeholders stand in for missing labels.
type metadata struct {
	AlertName string
	Severity  string
	Namespace string
	Instance  string
	Pod       string
	Container string
	Cluster   string
	State     string
	StartsAt  string
	Receiver  string
}

// extractMeta resolves alert metadata with group labels taking precedence:
// alertname only exists at the group level, severity falls back from group to
// alert label, the cluster comes from the first alertmanager source.
func extractMeta(group *karma.AlertGroup, alert *karma.Alert) metadata {
	m := metadata{
		AlertName: karma.LabelValue(group.Labels, "alertname", "unknown"),
		Severity:  karma.LabelValue(group.Labels, "severity", ""),
		Namespace: karma.LabelValue(alert.Labels, "namespace", "N/A"),
		Instance:  karma.LabelValue(alert.Labels, "instance", "N/A"),
		Pod:       karma.LabelValue(alert.Labels, "pod", "N/A"),
		Container: karma.LabelValue(alert.Labels, "container", "N/A"),
		Cluster:   "unknown",
		State:     alert.State,
		StartsAt:  alert.StartsAt,
		Receiver:  alert.Receiver,
	}
	if m.Severity == "" {
		m.Severity = karma.LabelValue(alert.Labels, "severity", "unknown")
	}
	if m.State == "" {
		m.State = "unknown"
	}
	if m.StartsAt == "" {
		m.StartsAt = "N/A"
	}
	if len(alert.Alertmanager) > 0 {
		m.Cluster = alert.Alertmanager[0].Cluster
	}
	return m
}
