package monitor

// Status categorizes a per-path finding.
type Status string

const (
	StatusOK                Status = "ok"
	StatusTooFewBackups     Status = "too_few_backups"
	StatusStale             Status = "stale"
	StatusIrregularInterval Status = "irregular_interval"
	StatusSizeAnomaly       Status = "size_anomaly"
	StatusNotFound          Status = "not_found"
)

// PathResult holds the findings for one monitored path. Statuses and
// Messages are parallel, in rule order; an empty Statuses slice means
// the path is healthy. AlarmOnLatest is true when the most recent
// backup set specifically triggered an alarm, as opposed to a gap in
// older history.
type PathResult struct {
	Path          string   `json:"path"`
	Statuses      []Status `json:"statuses,omitempty"`
	Messages      []string `json:"messages,omitempty"`
	AlarmOnLatest bool     `json:"alarm_on_latest"`
}

// OK reports whether no anomaly was recorded for the path.
func (r *PathResult) OK() bool {
	return len(r.Statuses) == 0
}

// Has reports whether the given status was recorded.
func (r *PathResult) Has(s Status) bool {
	for _, st := range r.Statuses {
		if st == s {
			return true
		}
	}
	return false
}

func (r *PathResult) add(s Status, msg string) {
	r.Statuses = append(r.Statuses, s)
	r.Messages = append(r.Messages, msg)
}
