package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/qiniu/karma-mcp/internal/karma"
)

type clusterInfo struct {
	URI          string
	Version      string
	Status       string
	InstanceName string
}

// ListClusters joins the upstream instance list with per-cluster alert counts.
// The two collections are independent; a cluster known to only one of them
// still shows up, with a zero count or N/A details.
func (s *Service) ListClusters(ctx context.Context) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	clusters := map[string]clusterInfo{}
	for _, inst := range snapshot.Upstreams.Instances {
		name := inst.Cluster
		if name == "" {
			name = "unknown"
		}
		info := clusterInfo{
			URI:          valueOr(inst.PublicURI, "N/A"),
			Version:      valueOr(inst.Version, "N/A"),
			Status:       "healthy",
			InstanceName: valueOr(inst.Name, "N/A"),
		}
		if inst.Error != "" {
			info.Status = "error: " + inst.Error
		}
		clusters[name] = info
	}

	// Alert counts attribute one entry per (alert, source) pair.
	counts := map[string]int{}
	eachAlert(snapshot, func(_ *karma.AlertGroup, alert *karma.Alert) {
		for _, am := range alert.Alertmanager {
			cluster := am.Cluster
			if cluster == "" {
				cluster = "unknown"
			}
			counts[cluster]++
		}
	})

	// Clusters seen only on the alert side get an N/A placeholder entry.
	for cluster := range counts {
		if _, ok := clusters[cluster]; !ok {
			clusters[cluster] = clusterInfo{URI: "N/A", Version: "N/A", Status: "N/A", InstanceName: "N/A"}
		}
	}

	var b strings.Builder
	b.WriteString("Available Kubernetes Clusters\n")
	b.WriteString(rule(50) + "\n\n")

	totalInstances := 0
	for _, name := range sortedKeys(clusters) {
		info := clusters[name]
		fmt.Fprintf(&b, "📋 %s\n", name)
		fmt.Fprintf(&b, "   Instance: %s\n", info.InstanceName)
		fmt.Fprintf(&b, "   Status: %s\n", info.Status)
		fmt.Fprintf(&b, "   Alertmanager: %s\n", info.Version)
		fmt.Fprintf(&b, "   Active Alerts: %d\n", counts[name])
		fmt.Fprintf(&b, "   URI: %s\n\n", info.URI)
	}
	for _, n := range counts {
		totalInstances += n
	}

	fmt.Fprintf(&b, "Total Clusters: %d\n", len(clusters))
	fmt.Fprintf(&b, "Total Alert Instances: %d", totalInstances)
	return b.String()
}

// ListByCluster lists alerts attributed to one cluster by exact
// case-insensitive name match. Groups with no surviving alerts are dropped.
func (s *Service) ListByCluster(ctx context.Context, clusterName string) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	want := strings.ToLower(clusterName)
	var matches []match
	eachAlert(snapshot, func(group *karma.AlertGroup, alert *karma.Alert) {
		for i := range alert.Alertmanager {
			am := &alert.Alertmanager[i]
			if strings.ToLower(am.Cluster) != want {
				continue
			}
			meta := extractMeta(group, alert)
			meta.Cluster = am.Cluster
			matches = append(matches, match{meta: meta, labels: karma.LabelMap(alert.Labels)})
			return
		}
	})

	if len(matches) == 0 {
		return fmt.Sprintf("No alerts found for cluster: %s", clusterName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Alerts in cluster '%s'\n", clusterName)
	b.WriteString(rule(50) + "\n\n")
	fmt.Fprintf(&b, "Found %d alerts:\n\n", len(matches))

	for i, m := range matches {
		fmt.Fprintf(&b, "%2d. %s\n", i+1, m.meta.AlertName)
		fmt.Fprintf(&b, "    Severity: %s\n", m.meta.Severity)
		fmt.Fprintf(&b, "    State: %s\n", m.meta.State)
		fmt.Fprintf(&b, "    Namespace: %s\n", m.meta.Namespace)
		fmt.Fprintf(&b, "    Cluster: %s\n", m.meta.Cluster)
		if instance, ok := m.labels["instance"]; ok {
			fmt.Fprintf(&b, "    Instance: %s\n", instance)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
