package alerts

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/qiniu/karma-mcp/internal/karma"
)

// ListAll renders every alert across all grids and groups, at most ten per
// group, preserving encounter order.
func (s *Service) ListAll(ctx context.Context) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}
	if len(snapshot.Grids) == 0 {
		return "No active alerts"
	}

	total := 0
	var b strings.Builder
	for gi := range snapshot.Grids {
		for ai := range snapshot.Grids[gi].AlertGroups {
			group := &snapshot.Grids[gi].AlertGroups[ai]
			total += len(group.Alerts)

			shown := group.Alerts
			if len(shown) > 10 {
				shown = shown[:10]
			}
			for i := range shown {
				meta := extractMeta(group, &shown[i])
				fmt.Fprintf(&b, "• %s\n", meta.AlertName)
				fmt.Fprintf(&b, "  Severity: %s\n", meta.Severity)
				fmt.Fprintf(&b, "  State: %s\n", meta.State)
				fmt.Fprintf(&b, "  Namespace: %s\n\n", meta.Namespace)
			}
		}
	}

	if total == 0 {
		return "No active alerts"
	}
	return fmt.Sprintf("Found %d alerts:\n\n%s", total, b.String())
}

// Summary aggregates the snapshot by state, severity and alert type.
func (s *Service) Summary(ctx context.Context) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	severityCounts := map[string]int{}
	stateCounts := map[string]int{"active": 0, "suppressed": 0}
	alertNames := map[string]bool{}
	typeCounts := map[string]int{}

	for gi := range snapshot.Grids {
		for ai := range snapshot.Grids[gi].AlertGroups {
			group := &snapshot.Grids[gi].AlertGroups[ai]
			alertname := karma.LabelValue(group.Labels, "alertname", "unknown")
			severity := karma.LabelValue(group.Labels, "severity", "unknown")
			alertNames[alertname] = true
			typeCounts[alertname] += len(group.Alerts)

			for i := range group.Alerts {
				severityCounts[severity]++
				state := group.Alerts[i].State
				if _, ok := stateCounts[state]; ok {
					stateCounts[state]++
				}
			}
		}
	}

	totalAlerts := stateCounts["active"] + stateCounts["suppressed"]
	pct := func(count int) float64 {
		if totalAlerts == 0 {
			return 0
		}
		return float64(count) / float64(totalAlerts) * 100
	}

	var b strings.Builder
	b.WriteString("Karma Alert Summary\n")
	b.WriteString(rule(50) + "\n\n")
	fmt.Fprintf(&b, "Total Alerts: %d\n", totalAlerts)
	fmt.Fprintf(&b, "Unique Alert Types: %d\n\n", len(alertNames))

	b.WriteString("By State:\n")
	for _, state := range []string{"active", "suppressed"} {
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", capitalize(state), stateCounts[state], pct(stateCounts[state]))
	}

	b.WriteString("\nBy Severity:\n")
	for _, severity := range sortedByCountDesc(severityCounts) {
		fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", capitalize(severity), severityCounts[severity], pct(severityCounts[severity]))
	}

	b.WriteString("\nTop Alert Types:\n")
	top := sortedByCountDesc(typeCounts)
	if len(top) > 10 {
		top = top[:10]
	}
	for _, name := range top {
		fmt.Fprintf(&b, "  %s: %d\n", name, typeCounts[name])
	}

	return b.String()
}

// sortedByCountDesc orders keys by descending count, ties broken by ascending
// name.
func sortedByCountDesc(counts map[string]int) []string {
	keys := sortedKeys(counts)
	sort.SliceStable(keys, func(i, j int) bool {
		return counts[keys[i]] > counts[keys[j]]
	})
	return keys
}

// stateRecord is one entry of an active/suppressed listing.
type stateRecord struct {
	meta metadata
}

// ListActive lists only alerts whose state is active.
func (s *Service) ListActive(ctx context.Context) string {
	return s.listByExactState(ctx, "active", "Active Alerts (Non-Suppressed)", "🔥",
		"No active alerts found.", "Total Active Alerts")
}

// ListSuppressed lists only alerts whose state is suppressed.
func (s *Service) ListSuppressed(ctx context.Context) string {
	return s.listByExactState(ctx, "suppressed", "Suppressed Alerts", "🔕",
		"No suppressed alerts found.", "Total Suppressed Alerts")
}

func (s *Service) listByExactState(ctx context.Context, state, title, marker, emptyText, totalLabel string) string {
	snapshot, errText := s.fetchSnapshot(ctx)
	if errText != "" {
		return errText
	}

	var records []stateRecord
	eachAlert(snapshot, func(group *karma.AlertGroup, alert *karma.Alert) {
		if strings.ToLower(alert.State) != state {
			return
		}
		records = append(records, stateRecord{meta: extractMeta(group, alert)})
	})

	if len(records) == 0 {
		return emptyText
	}

	groups := map[string][]stateRecord{}
	for _, r := range records {
		groups[r.meta.AlertName] = append(groups[r.meta.AlertName], r)
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(rule(50) + "\n\n")

	for _, name := range sortedKeys(groups) {
		items := groups[name]
		fmt.Fprintf(&b, "%s %s (%d instance%s)\n", marker, name, len(items), plural(len(items)))
		fmt.Fprintf(&b, "   Severity: %s\n", items[0].meta.Severity)

		shown := items
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, r := range shown {
			fmt.Fprintf(&b, "   • %s (%s)\n", r.meta.Instance, r.meta.Namespace)
		}
		if len(items) > 5 {
			fmt.Fprintf(&b, "   • ... and %d more\n", len(items)-5)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "%s: %d", totalLabel, len(records))
	return b.String()
}

// ByState dispatches to the listing matching state. Anything other than
// active, suppressed or all is a validation failure and triggers no fetch.
func (s *Service) ByState(ctx context.Context, state string) string {
	switch strings.ToLower(state) {
	case "active":
		return s.ListActive(ctx)
	case "suppressed":
		return s.ListSuppressed(ctx)
	case "all":
		return s.ListAll(ctx)
	default:
		return fmt.Sprintf("Invalid state '%s'. Valid options: active, suppressed, all", state)
	}
}
