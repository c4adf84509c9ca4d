package alerts

import (
	"sort"
	"strings"

	"github.com/qiniu/karma-mcp/internal/karma"
)

// eachAlert walks every alert of the snapshot in encounter order.
func eachAlert(snapshot *karma.Snapshot, fn func(group *karma.AlertGroup, alert *karma.Alert)) {
	for gi := range snapshot.Grids {
		grid := &snapshot.Grids[gi]
		for ai := range grid.AlertGroups {
			group := &grid.AlertGroups[ai]
			for i := range group.Alerts {
				fn(group, &group.Alerts[i])
			}
		}
	}
}

// match is one (alert, alertmanager source) attribution produced by a search.
type match struct {
	meta        metadata
	annotations map[string]string
	labels      map[string]string
	amName      string
}

// clusterStats tracks per-cluster totals keyed by alert state.
type clusterStats struct {
	Total      int
	Active     int
	Suppressed int
}

// collector accumulates matches with one entry per (alert, source) pair and a
// side aggregate of per-cluster state counts. An optional cluster filter is
// applied as a case-insensitive substring match.
type collector struct {
	clusterFilter string
	matches       []match
	stats         map[string]*clusterStats
}

func newCollector(clusterFilter string) *collector {
	return &collector{
		clusterFilter: strings.ToLower(clusterFilter),
		stats:         make(map[string]*clusterStats),
	}
}

// add attributes the alert to the first alertmanager source passing the
// cluster filter. Sources beyond the first accepted one are skipped so each
// alert counts once per search, matching one entry per (alert, source) pair.
func (c *collector) add(group *karma.AlertGroup, alert *karma.Alert) {
	for i := range alert.Alertmanager {
		am := &alert.Alertmanager[i]
		if c.clusterFilter != "" && !strings.Contains(strings.ToLower(am.Cluster), c.clusterFilter) {
			continue
		}

		cluster := am.Cluster
		if cluster == "" {
			cluster = "unknown"
		}
		st, ok := c.stats[cluster]
		if !ok {
			st = &clusterStats{}
			c.stats[cluster] = st
		}
		st.Total++
		switch strings.ToLower(alert.State) {
		case "active":
			st.Active++
		case "suppressed":
			st.Suppressed++
		}

		meta := extractMeta(group, alert)
		meta.Cluster = cluster
		c.matches = append(c.matches, match{
			meta:        meta,
			annotations: karma.LabelMap(alert.Annotations),
			labels:      karma.LabelMap(alert.Labels),
			amName:      am.Name,
		})
		return
	}
}

// byCluster groups the collected matches by cluster name.
func (c *collector) byCluster() map[string][]match {
	out := make(map[string][]match)
	for _, m := range c.matches {
		out[m.meta.Cluster] = append(out[m.meta.Cluster], m)
	}
	return out
}

// sortedKeys returns map keys in ascending lexicographic order; display code
// never relies on insertion order when it claims sorted output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
