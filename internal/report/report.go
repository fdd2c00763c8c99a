// Package report assembles per-path findings into a run report, renders
// it to text at the output boundary, and decides whether to notify.
package report

import (
	"fmt"
	"strings"
	"time"

	"backupwatch/internal/monitor"
)

// NotifyType selects when a report is pushed to the notifier.
type NotifyType string

const (
	// NotifyOff never notifies.
	NotifyOff NotifyType = "off"

	// NotifyAlarm notifies when any path has a finding.
	NotifyAlarm NotifyType = "alarm"

	// NotifyAlways notifies only when the run is clean, a periodic
	// all-clear ping. The original monitoring scripts inverted the
	// obvious reading of "always"; the observed behavior is kept so the
	// mode stays a clean-bill-of-health channel distinct from alarm
	// channels.
	NotifyAlways NotifyType = "always"

	// NotifyAlarmOnLastBackup notifies only when an alarm concerns the
	// most recent backup set of some path, not just older history.
	NotifyAlarmOnLastBackup NotifyType = "alarm_on_last_backup"
)

// ParseNotifyType validates a notify type string. The empty string maps
// to NotifyOff.
func ParseNotifyType(s string) (NotifyType, error) {
	switch NotifyType(s) {
	case "":
		return NotifyOff, nil
	case NotifyOff, NotifyAlarm, NotifyAlways, NotifyAlarmOnLastBackup:
		return NotifyType(s), nil
	}
	return "", fmt.Errorf("invalid notify type %q (expected %q, %q, %q or %q)",
		s, NotifyOff, NotifyAlarm, NotifyAlways, NotifyAlarmOnLastBackup)
}

// Report aggregates one run's results. It is produced fresh on every
// run and immutable after assembly.
type Report struct {
	ID           string               `json:"id"`
	GeneratedAt  time.Time            `json:"generated_at"`
	CheckedPaths []string             `json:"checked_paths"`
	Results      []monitor.PathResult `json:"results"`
}

// HasAlarm reports whether any path has a finding.
func (r *Report) HasAlarm() bool {
	for i := range r.Results {
		if !r.Results[i].OK() {
			return true
		}
	}
	return false
}

// AlarmOnLastBackup reports whether any alarm concerns a path's most
// recent backup set.
func (r *Report) AlarmOnLastBackup() bool {
	for i := range r.Results {
		if r.Results[i].AlarmOnLatest {
			return true
		}
	}
	return false
}

// Render produces the text artifact: a timestamp header, the checked
// paths, and either an ALARMS section with every finding or an explicit
// all-clear line.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "backupwatch report %s\n", r.ID)
	fmt.Fprintf(&b, "generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339))

	b.WriteString("checked paths:\n")
	for _, p := range r.CheckedPaths {
		fmt.Fprintf(&b, "  - %s\n", p)
	}
	b.WriteString("\n")

	if !r.HasAlarm() {
		b.WriteString("no failed backups\n")
		return b.String()
	}

	b.WriteString("ALARMS:\n")
	for i := range r.Results {
		res := &r.Results[i]
		for _, msg := range res.Messages {
			fmt.Fprintf(&b, "  %s: %s\n", res.Path, msg)
		}
	}
	return b.String()
}
