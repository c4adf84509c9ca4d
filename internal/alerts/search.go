package alerts

import (
	"context"
	"fmt"
	"strings"

	"github.com/qiniu/karma-mcp/internal/karma"
)

// AlertDetails renders every instance of the alert whose group alertname
// matches name exactly (case-insensitive).
func (s *Service) AlertDetails(ctx context.Context, alertName string) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	want := strings.ToLower(alertName)
	var matches []match
	eachAlert(snapshot, func(group *karma.AlertGroup, alert *karma.Alert) {
		if strings.ToLower(karma.LabelValue(group.Labels, "alertname", "")) != want {
			return
		}
		matches = append(matches, match{
			meta:        extractMeta(group, alert),
			annotations: karma.LabelMap(alert.Annotations),
			labels:      karma.LabelMap(alert.Labels),
		})
	})

	if len(matches) == 0 {
		return fmt.Sprintf("No alert found with name: %s", alertName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d instance(s) of %s:\n\n", len(matches), alertName)

	for i, m := range matches {
		fmt.Fprintf(&b, "Instance %d:\n", i+1)
		fmt.Fprintf(&b, "  State: %s\n", m.meta.State)
		fmt.Fprintf(&b, "  Severity: %s\n", m.meta.Severity)
		if instance, ok := m.labels["instance"]; ok {
			fmt.Fprintf(&b, "  Instance: %s\n", instance)
		}
		if namespace, ok := m.labels["namespace"]; ok {
			fmt.Fprintf(&b, "  Namespace: %s\n", namespace)
		}
		if description, ok := m.annotations["description"]; ok {
			fmt.Fprintf(&b, "  Description: %s\n", truncate(description, 200))
		}
		if summary, ok := m.annotations["summary"]; ok {
			fmt.Fprintf(&b, "  Summary: %s\n", summary)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// DetailsMultiCluster searches one alert name across clusters, with an
// optional cluster substring filter, and renders a per-cluster breakdown.
func (s *Service) DetailsMultiCluster(ctx context.Context, alertName, clusterFilter string) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	want := strings.ToLower(alertName)
	c := newCollector(clusterFilter)
	eachAlert(snapshot, func(group *karma.AlertGroup, alert *karma.Alert) {
		if strings.ToLower(karma.LabelValue(group.Labels, "alertname", "")) != want {
			return
		}
		c.add(group, alert)
	})

	if len(c.matches) == 0 {
		return fmt.Sprintf("No instances of alert '%s' found%s", alertName,
			filterSuffix(clusterFilter, " across all clusters"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Alert Details: '%s'%s\n", alertName,
		filterSuffix(clusterFilter, " (multi-cluster search)"))
	b.WriteString(rule(60) + "\n\n")

	b.WriteString("📊 Summary:\n")
	fmt.Fprintf(&b, "   Alert Name: %s\n", alertName)
	fmt.Fprintf(&b, "   Severity: %s\n", c.matches[0].meta.Severity)
	fmt.Fprintf(&b, "   Total Instances: %d\n", len(c.matches))
	fmt.Fprintf(&b, "   Clusters Affected: %d\n\n", len(c.stats))

	b.WriteString("📈 Cluster Breakdown:\n")
	for _, cluster := range sortedKeys(c.stats) {
		st := c.stats[cluster]
		fmt.Fprintf(&b, "   %s: %d instances (%d active, %d suppressed)\n",
			cluster, st.Total, st.Active, st.Suppressed)
	}
	b.WriteString("\n")

	grouped := c.byCluster()
	for _, cluster := range sortedKeys(grouped) {
		items := grouped[cluster]
		fmt.Fprintf(&b, "🏗️  Cluster: %s\n", cluster)
		b.WriteString(strings.Repeat("-", 40) + "\n")

		shown := items
		if len(shown) > 10 {
			shown = shown[:10]
		}
		for i, m := range shown {
			fmt.Fprintf(&b, "  %d. %s %s\n", i+1, stateMarker(m.meta.State), m.meta.AlertName)
			fmt.Fprintf(&b, "      State: %s\n", m.meta.State)
			fmt.Fprintf(&b, "      Started: %s\n", m.meta.StartsAt)
			if m.meta.Namespace != "N/A" {
				fmt.Fprintf(&b, "      Namespace: %s\n", m.meta.Namespace)
			}
			if m.meta.Instance != "N/A" {
				fmt.Fprintf(&b, "      Instance: %s\n", m.meta.Instance)
			}
			if m.meta.Pod != "N/A" {
				fmt.Fprintf(&b, "      Pod: %s\n", m.meta.Pod)
			}
			if m.meta.Container != "N/A" {
				fmt.Fprintf(&b, "      Container: %s\n", m.meta.Container)
			}
			if description, ok := m.annotations["description"]; ok {
				fmt.Fprintf(&b, "      Description: %s\n", truncate(description, 150))
			}
			if summary, ok := m.annotations["summary"]; ok {
				fmt.Fprintf(&b, "      Summary: %s\n", summary)
			}
			var shownLabels []string
			for _, key := range []string{"job", "service", "deployment", "statefulset"} {
				if v, ok := m.labels[key]; ok {
					shownLabels = append(shownLabels, key+"="+v)
				}
			}
			if len(shownLabels) > 0 {
				fmt.Fprintf(&b, "      Labels: %s\n", strings.Join(shownLabels, ", "))
			}
			b.WriteString("\n")
		}
		if len(items) > 10 {
			fmt.Fprintf(&b, "      ... and %d more instances\n\n", len(items)-10)
		}
	}

	active, suppressed := 0, 0
	for _, m := range c.matches {
		switch strings.ToLower(m.meta.State) {
		case "active":
			active++
		case "suppressed":
			suppressed++
		}
	}
	fmt.Fprintf(&b, "📋 Total: %d instance%s (%d active, %d suppressed) across %d cluster%s",
		len(c.matches), plural(len(c.matches)), active, suppressed, len(c.stats), plural(len(c.stats)))

	return b.String()
}

// SearchByContainer finds alerts whose container label contains containerName
// (case-insensitive). An absent container label is treated as an empty string
// and never matches a non-empty query.
func (s *Service) SearchByContainer(ctx context.Context, containerName, clusterFilter string) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	want := strings.ToLower(containerName)
	c := newCollector(clusterFilter)
	eachAlert(snapshot, func(group *karma.AlertGroup, alert *karma.Alert) {
		container := karma.LabelValue(alert.Labels, "container", "")
		if !strings.Contains(strings.ToLower(container), want) {
			return
		}
		c.add(group, alert)
	})

	if len(c.matches) == 0 {
		return fmt.Sprintf("No alerts found for container '%s'%s", containerName,
			filterSuffix(clusterFilter, " across all clusters"))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Container Alert Search: '%s'%s\n", containerName,
		filterSuffix(clusterFilter, " (multi-cluster search)"))
	b.WriteString(rule(60) + "\n\n")

	b.WriteString("📊 Cluster Summary:\n")
	for _, cluster := range sortedKeys(c.stats) {
		st := c.stats[cluster]
		fmt.Fprintf(&b, "   %s: %d alerts (%d active, %d suppressed)\n",
			cluster, st.Total, st.Active, st.Suppressed)
	}
	b.WriteString("\n")

	// cluster → alert name → matches
	grouped := map[string]map[string][]match{}
	for _, m := range c.matches {
		if grouped[m.meta.Cluster] == nil {
			grouped[m.meta.Cluster] = map[string][]match{}
		}
		grouped[m.meta.Cluster][m.meta.AlertName] = append(grouped[m.meta.Cluster][m.meta.AlertName], m)
	}

	for _, cluster := range sortedKeys(grouped) {
		fmt.Fprintf(&b, "🏗️  Cluster: %s\n", cluster)
		b.WriteString(strings.Repeat("-", 40) + "\n")

		names := grouped[cluster]
		for _, name := range sortedKeys(names) {
			items := names[name]
			active, suppressed := 0, 0
			for _, m := range items {
				switch strings.ToLower(m.meta.State) {
				case "active":
					active++
				case "suppressed":
					suppressed++
				}
			}

			marker := "🔕"
			if active > 0 {
				marker = "🔥"
			}
			fmt.Fprintf(&b, "  %s %s (%d instance%s)\n", marker, name, len(items), plural(len(items)))
			fmt.Fprintf(&b, "      Severity: %s\n", items[0].meta.Severity)
			fmt.Fprintf(&b, "      States: %d active, %d suppressed\n", active, suppressed)

			seen := map[string]bool{}
			shown := items
			if len(shown) > 8 {
				shown = shown[:8]
			}
			for _, m := range shown {
				key := m.meta.Container + " (" + m.meta.Namespace + ")"
				if seen[key] {
					continue
				}
				seen[key] = true
				fmt.Fprintf(&b, "      %s Container: %s\n", stateMarker(m.meta.State), m.meta.Container)
				fmt.Fprintf(&b, "         Namespace: %s\n", m.meta.Namespace)
				if m.meta.Pod != "N/A" {
					fmt.Fprintf(&b, "         Pod: %s\n", m.meta.Pod)
				}
				if m.meta.Instance != "N/A" {
					fmt.Fprintf(&b, "         Instance: %s\n", m.meta.Instance)
				}
				b.WriteString("\n")
			}
			if len(items) > 8 {
				fmt.Fprintf(&b, "      ... and %d more instances\n", len(items)-len(seen))
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "📋 Total: %d alert instance%s across %d cluster%s",
		len(c.matches), plural(len(c.matches)), len(c.stats), plural(len(c.stats)))

	return b.String()
}

func stateMarker(state string) string {
	if strings.ToLower(state) == "active" {
		return "🔥"
	}
	return "🔕"
}

func filterSuffix(clusterFilter, noFilterText string) string {
	if clusterFilter != "" {
		return fmt.Sprintf(" in cluster '%s'", clusterFilter)
	}
	return noFilterText
}
