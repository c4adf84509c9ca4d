package karma

import "testing"

func TestLabelValuePresent(t *testing.T) {
	pairs := []LabelPair{
		{Name: "alertname", Value: "KubePodCrashLooping"},
		{Name: "severity", Value: "critical"},
	}
	if got := LabelValue(pairs, "severity", "unknown"); got != "critical" {
		t.Fatalf("expected critical, got %q", got)
	}
	if got := LabelValue(pairs, "alertname", "unknown"); got != "KubePodCrashLooping" {
		t.Fatalf("expected KubePodCrashLooping, got %q", got)
	}
}

func TestLabelValueAbsent(t *testing.T) {
	pairs := []LabelPair{{Name: "severity", Value: "critical"}}
	if got := LabelValue(pairs, "namespace", "N/A"); got != "N/A" {
		t.Fatalf("expected fallback, got %q", got)
	}
	if got := LabelValue(nil, "anything", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback on nil pairs, got %q", got)
	}
}

func TestLabelValueCaseSensitiveName(t *testing.T) {
	pairs := []LabelPair{{Name: "Severity", Value: "critical"}}
	if got := LabelValue(pairs, "severity", "none"); got != "none" {
		t.Fatalf("name match must be case-sensitive, got %q", got)
	}
}

func TestLabelValueDuplicateFirstWins(t *testing.T) {
	pairs := []LabelPair{
		{Name: "severity", Value: "critical"},
		{Name: "severity", Value: "warning"},
	}
	if got := LabelValue(pairs, "severity", "unknown"); got != "critical" {
		t.Fatalf("first occurrence should win, got %q", got)
	}
}

func TestLabelMapFirstWins(t *testing.T) {
	pairs := []LabelPair{
		{Name: "a", Value: "1"},
		{Name: "a", Value: "2"},
		{Name: "b", Value: "3"},
	}
	m := LabelMap(pairs)
	if m["a"] != "1" || m["b"] != "3" {
		t.Fatalf("unexpected map: %#v", m)
	}
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(m))
	}
}
