// Package karma holds the wire model for the Karma alert dashboard API and a
// thin HTTP client for it. Every type here is transient: a Snapshot is decoded
// from one fetch and discarded once the caller is done with it.
package karma

// LabelPair is one entry of an ordered label or annotation array. Karma ships
// labels as arrays of pairs, not maps.
type LabelPair struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AlertmanagerRef identifies the Alertmanager instance (and its cluster) that
// reported an alert. One alert may carry several of these.
type AlertmanagerRef struct {
	Cluster    string   `json:"cluster"`
	Name       string   `json:"name"`
	State      string   `json:"state"`
	SilencedBy []string `json:"silencedBy,omitempty"`
}

// Alert is a single firing or suppressed condition instance. The alert name
// lives on the enclosing group, not on the alert itself.
type Alert struct {
	Annotations  []LabelPair       `json:"annotations"`
	Labels       []LabelPair       `json:"labels"`
	StartsAt     string            `json:"startsAt"`
	State        string            `json:"state"`
	Alertmanager []AlertmanagerRef `json:"alertmanager"`
	Receiver     string            `json:"receiver"`
	ID           string            `json:"id"`
}

// AlertGroup is a set of alerts sharing group-level labels. The group labels
// always contain alertname and may contain severity.
type AlertGroup struct {
	Receiver    string      `json:"receiver"`
	Labels      []LabelPair `json:"labels"`
	Alerts      []Alert     `json:"alerts"`
	ID          string      `json:"id"`
	TotalAlerts int         `json:"totalAlerts"`
}

type Grid struct {
	LabelName   string       `json:"labelName"`
	LabelValue  string       `json:"labelValue"`
	AlertGroups []AlertGroup `json:"alertGroups"`
}

// Instance is one upstream Alertmanager known to Karma.
type Instance struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	PublicURI string `json:"publicURI"`
	Version   string `json:"version"`
	Error     string `json:"error"`
}

type UpstreamCounters struct {
	Healthy int `json:"healthy"`
	Failed  int `json:"failed"`
}

type Upstreams struct {
	Counters  UpstreamCounters `json:"counters"`
	Instances []Instance       `json:"instances"`
}

// Snapshot is the full response of POST /alerts.json.
type Snapshot struct {
	Status    string    `json:"status"`
	Timestamp string    `json:"timestamp"`
	Version   string    `json:"version"`
	Upstreams Upstreams `json:"upstreams"`
	Grids     []Grid    `json:"grids"`
}

// SilenceMatcher is one matcher of a silence rule.
type SilenceMatcher struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	IsRegex bool   `json:"isRegex"`
}

// Silence is a time-bounded suppression rule as returned by GET /silences.json.
type Silence struct {
	ID        string           `json:"id"`
	Cluster   string           `json:"cluster"`
	Matchers  []SilenceMatcher `json:"matchers"`
	StartsAt  string           `json:"startsAt"`
	EndsAt    string           `json:"endsAt"`
	CreatedBy string           `json:"createdBy"`
	Comment   string           `json:"comment"`
}
