package alerts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/qiniu/karma-mcp/internal/karma"
)

// ListSilences renders the silences currently known to Karma, optionally
// narrowed to clusters containing clusterFilter (case-insensitive).
func (s *Service) ListSilences(ctx context.Context, clusterFilter string) string {
	silences, err := s.karma.FetchSilences(ctx)
	if err != nil {
		var statusErr *karma.StatusError
		if errors.As(err, &statusErr) {
			return fmt.Sprintf("Error fetching silences: code %d", statusErr.Code)
		}
		return fmt.Sprintf("Error connecting to Karma: %s", err)
	}

	filter := strings.ToLower(clusterFilter)
	var b strings.Builder
	count := 0
	for _, sil := range silences {
		if filter != "" && !strings.Contains(strings.ToLower(sil.Cluster), filter) {
			continue
		}
		count++

		var matchers []string
		for _, m := range sil.Matchers {
			op := "="
			if m.IsRegex {
				op = "=~"
			}
			matchers = append(matchers, m.Name+op+m.Value)
		}

		fmt.Fprintf(&b, "%d. Silence %s\n", count, sil.ID)
		if sil.Cluster != "" {
			fmt.Fprintf(&b, "   Cluster: %s\n", sil.Cluster)
		}
		fmt.Fprintf(&b, "   Matchers: %s\n", strings.Join(matchers, ", "))
		fmt.Fprintf(&b, "   Created by: %s\n", sil.CreatedBy)
		if sil.Comment != "" {
			fmt.Fprintf(&b, "   Comment: %s\n", truncate(sil.Comment, 150))
		}
		fmt.Fprintf(&b, "   Ends at: %s\n\n", sil.EndsAt)
	}

	if count == 0 {
		if clusterFilter != "" {
			return fmt.Sprintf("No silences found for cluster: %s", clusterFilter)
		}
		return "No active silences found."
	}

	header := fmt.Sprintf("Active Silences\n%s\n\nFound %d silence%s:\n\n", rule(50), count, plural(count))
	return header + b.String()
}

// CreateSilence is an explicitly unsupported stub: no upstream mutation is
// performed, the returned text says so.
func (s *Service) CreateSilence(ctx context.Context, cluster, alertname, duration, comment string) string {
	if duration == "" {
		duration = "2h"
	}
	return fmt.Sprintf("Silence creation is not supported by this adapter; nothing was sent upstream. "+
		"Requested: alertname '%s' in cluster '%s' for %s (comment: %q). "+
		"Create the silence directly in Alertmanager.", alertname, cluster, duration, comment)
}

// DeleteSilence is an explicitly unsupported stub, mirroring CreateSilence.
func (s *Service) DeleteSilence(ctx context.Context, silenceID, cluster string) string {
	return fmt.Sprintf("Silence deletion is not supported by this adapter; nothing was sent upstream. "+
		"Requested: silence '%s' in cluster '%s'. Expire the silence directly in Alertmanager.",
		silenceID, cluster)
}
