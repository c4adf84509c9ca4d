package alerts

import (
	"context"

	"github.com/qiniu/karma-mcp/internal/karma"
)

// fakeFetcher substitutes the Karma client and counts upstream calls so tests
// can assert that validation failures never reach the network.
type fakeFetcher struct {
	snapshot   *karma.Snapshot
	silences   []karma.Silence
	fetchErr   error
	healthErr  error
	fetchCalls int
}

func (f *fakeFetcher) FetchAlerts(ctx context.Context) (*karma.Snapshot, error) {
	f.fetchCalls++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.snapshot, nil
}

func (f *fakeFetcher) Health(ctx context.Context) error { return f.healthErr }

func (f *fakeFetcher) FetchSilences(ctx context.Context) ([]karma.Silence, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.silences, nil
}

func (f *fakeFetcher) BaseURL() string { return "http://karma.example:8080" }

func pairs(kv ...string) []karma.LabelPair {
	out := make([]karma.LabelPair, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, karma.LabelPair{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

// crashLoopingGroup is the two-alert group from the canonical scenario: one
// active alert in production and one suppressed in staging, both on
// teddy-prod.
func crashLoopingGroup() karma.AlertGroup {
	return karma.AlertGroup{
		Receiver: "web.hook",
		Labels:   pairs("alertname", "KubePodCrashLooping", "severity", "critical"),
		Alerts: []karma.Alert{
			{
				Annotations: pairs("description", "Pod is crash looping", "summary", "Pod crash loop detected"),
				Labels:      pairs("instance", "10.1.1.1:8080", "namespace", "production", "pod", "app-pod-123"),
				StartsAt:    "2025-09-04T09:30:00Z",
				State:       "active",
				Alertmanager: []karma.AlertmanagerRef{
					{Cluster: "teddy-prod", Name: "alertmanager", State: "active"},
				},
				Receiver: "web.hook",
				ID:       "alert-1",
			},
			{
				Annotations: pairs("description", "Another pod crash looping", "summary", "Second pod crash loop"),
				Labels:      pairs("instance", "10.1.1.2:8080", "namespace", "staging", "pod", "app-pod-456"),
				StartsAt:    "2025-09-04T09:45:00Z",
				State:       "suppressed",
				Alertmanager: []karma.AlertmanagerRef{
					{Cluster: "teddy-prod", Name: "alertmanager", State: "suppressed"},
				},
				Receiver: "web.hook",
				ID:       "alert-2",
			},
		},
		ID:          "group-1",
		TotalAlerts: 2,
	}
}

func memoryGroup() karma.AlertGroup {
	return karma.AlertGroup{
		Receiver: "web.hook",
		Labels:   pairs("alertname", "HighMemoryUsage", "severity", "warning"),
		Alerts: []karma.Alert{
			{
				Annotations: pairs("description", "Memory usage above 90%"),
				Labels: pairs(
					"instance", "10.2.1.1:9100",
					"namespace", "monitoring",
					"pod", "nginx-pod-789",
					"container", "NGINX-Container",
				),
				StartsAt: "2025-09-04T08:00:00Z",
				State:    "active",
				Alertmanager: []karma.AlertmanagerRef{
					{Cluster: "edge-prod", Name: "alertmanager-edge", State: "active"},
				},
				Receiver: "web.hook",
				ID:       "alert-3",
			},
		},
		ID:          "group-2",
		TotalAlerts: 1,
	}
}

// scenarioSnapshot is one grid with the crash-looping group only.
func scenarioSnapshot() *karma.Snapshot {
	return &karma.Snapshot{
		Status:  "success",
		Version: "v0.120",
		Upstreams: karma.Upstreams{
			Counters: karma.UpstreamCounters{Healthy: 1},
			Instances: []karma.Instance{
				{Name: "alertmanager", Cluster: "teddy-prod",
					PublicURI: "http://alertmanager.monitoring.svc.cluster.local", Version: "0.25.0"},
			},
		},
		Grids: []karma.Grid{{AlertGroups: []karma.AlertGroup{crashLoopingGroup()}}},
	}
}

// fullSnapshot adds the edge-prod memory group and its upstream instance.
func fullSnapshot() *karma.Snapshot {
	s := scenarioSnapshot()
	s.Upstreams.Instances = append(s.Upstreams.Instances, karma.Instance{
		Name: "alertmanager-edge", Cluster: "edge-prod",
		PublicURI: "http://alertmanager.edge.svc.cluster.local", Version: "0.25.0",
	})
	s.Grids[0].AlertGroups = append(s.Grids[0].AlertGroups, memoryGroup())
	return s
}

func emptySnapshot() *karma.Snapshot {
	return &karma.Snapshot{Status: "success"}
}

func newTestService(snapshot *karma.Snapshot) (*Service, *fakeFetcher) {
	f := &fakeFetcher{snapshot: snapshot}
	return NewService(f), f
}
