package karma

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const sampleAlertsJSON = `{
	"status": "success",
	"version": "v0.120",
	"upstreams": {
		"counters": {"healthy": 1, "failed": 0},
		"instances": [
			{"name": "alertmanager", "cluster": "teddy-prod",
			 "publicURI": "http://alertmanager.monitoring.svc.cluster.local",
			 "version": "0.25.0", "error": ""}
		]
	},
	"grids": [{
		"labelName": "",
		"labelValue": "",
		"alertGroups": [{
			"receiver": "web.hook",
			"labels": [
				{"name": "alertname", "value": "KubePodCrashLooping"},
				{"name": "severity", "value": "critical"}
			],
			"alerts": [{
				"annotations": [{"name": "summary", "value": "Pod crash loop detected"}],
				"labels": [{"name": "namespace", "value": "production"}],
				"startsAt": "2025-09-04T09:30:00Z",
				"state": "active",
				"alertmanager": [{"cluster": "teddy-prod", "name": "alertmanager", "state": "active"}],
				"receiver": "web.hook",
				"id": "alert-1"
			}],
			"id": "group-1",
			"totalAlerts": 1
		}]
	}]
}`

func TestFetchAlerts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/alerts.json" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type: %s", ct)
		}
		w.Write([]byte(sampleAlertsJSON))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second})
	snapshot, err := client.FetchAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snapshot.Grids) != 1 {
		t.Fatalf("expected 1 grid, got %d", len(snapshot.Grids))
	}
	group := snapshot.Grids[0].AlertGroups[0]
	if got := LabelValue(group.Labels, "alertname", ""); got != "KubePodCrashLooping" {
		t.Fatalf("unexpected alertname: %q", got)
	}
	if snapshot.Upstreams.Instances[0].Cluster != "teddy-prod" {
		t.Fatalf("unexpected cluster: %q", snapshot.Upstreams.Instances[0].Cluster)
	}
}

func TestFetchAlertsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second})
	_, err := client.FetchAlerts(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", statusErr.Code)
	}
}

func TestFetchAlertsBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second})
	if _, err := client.FetchAlerts(context.Background()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFetchAlertsUnreachable(t *testing.T) {
	client := NewClient(&Config{BaseURL: "http://127.0.0.1:1", Timeout: 200 * time.Millisecond})
	if _, err := client.FetchAlerts(context.Background()); err == nil {
		t.Fatal("expected connection error")
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second})
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHealthBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second})
	err := client.Health(context.Background())
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 StatusError, got %v", err)
	}
}

func TestFetchSilences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/silences.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": "sil-1", "matchers": [{"name": "alertname", "value": "Foo", "isRegex": false}],
			"startsAt": "2025-09-04T09:00:00Z", "endsAt": "2025-09-04T11:00:00Z",
			"createdBy": "ops", "comment": "maintenance"}]`))
	}))
	defer srv.Close()

	client := NewClient(&Config{BaseURL: srv.URL, Timeout: time.Second})
	silences, err := client.FetchSilences(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(silences) != 1 || silences[0].ID != "sil-1" {
		t.Fatalf("unexpected silences: %#v", silences)
	}
}
