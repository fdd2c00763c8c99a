package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backupwatch/internal/monitor"
)

var reportNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeNotifier struct {
	subjects []string
	bodies   []string
	err      error
}

func (f *fakeNotifier) Send(subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	return nil
}

func cleanResult(path string) monitor.PathResult {
	return monitor.PathResult{Path: path}
}

func alarmResult(path string, onLatest bool) monitor.PathResult {
	return monitor.PathResult{
		Path:          path,
		Statuses:      []monitor.Status{monitor.StatusStale},
		Messages:      []string{"newest set is stale"},
		AlarmOnLatest: onLatest,
	}
}

func assemble(t *testing.T, nt NotifyType, n Notifier, results ...monitor.PathResult) (*Assembler, *Report) {
	t.Helper()
	a := NewAssembler(nt, n, WithClock(func() time.Time { return reportNow }))
	paths := make([]string, len(results))
	for i := range results {
		paths[i] = results[i].Path
	}
	return a, a.Assemble(paths, results)
}

func TestParseNotifyType(t *testing.T) {
	tests := []struct {
		in      string
		want    NotifyType
		wantErr bool
	}{
		{"", NotifyOff, false},
		{"off", NotifyOff, false},
		{"alarm", NotifyAlarm, false},
		{"always", NotifyAlways, false},
		{"alarm_on_last_backup", NotifyAlarmOnLastBackup, false},
		{"sometimes", "", true},
	}

	for _, tt := range tests {
		got, err := ParseNotifyType(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestReportDerivedFlags(t *testing.T) {
	_, clean := assemble(t, NotifyOff, nil, cleanResult("/a"), cleanResult("/b"))
	assert.False(t, clean.HasAlarm())
	assert.False(t, clean.AlarmOnLastBackup())

	_, oldAlarm := assemble(t, NotifyOff, nil, cleanResult("/a"), alarmResult("/b", false))
	assert.True(t, oldAlarm.HasAlarm())
	assert.False(t, oldAlarm.AlarmOnLastBackup())

	_, latestAlarm := assemble(t, NotifyOff, nil, alarmResult("/a", true))
	assert.True(t, latestAlarm.HasAlarm())
	assert.True(t, latestAlarm.AlarmOnLastBackup())
}

func TestShouldNotifyDecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		nt      NotifyType
		results []monitor.PathResult
		want    bool
	}{
		{"off clean", NotifyOff, []monitor.PathResult{cleanResult("/a")}, false},
		{"off alarm", NotifyOff, []monitor.PathResult{alarmResult("/a", true)}, false},
		{"alarm clean", NotifyAlarm, []monitor.PathResult{cleanResult("/a")}, false},
		{"alarm alarm", NotifyAlarm, []monitor.PathResult{alarmResult("/a", false)}, true},
		{"always clean", NotifyAlways, []monitor.PathResult{cleanResult("/a")}, true},
		{"always alarm", NotifyAlways, []monitor.PathResult{alarmResult("/a", false)}, false},
		{"latest-mode old alarm", NotifyAlarmOnLastBackup, []monitor.PathResult{alarmResult("/a", false)}, false},
		{"latest-mode latest alarm", NotifyAlarmOnLastBackup, []monitor.PathResult{alarmResult("/a", true)}, true},
		{"latest-mode clean", NotifyAlarmOnLastBackup, []monitor.PathResult{cleanResult("/a")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rep := assemble(t, tt.nt, nil, tt.results...)
			assert.Equal(t, tt.want, a.ShouldNotify(rep))
		})
	}
}

func TestRenderClean(t *testing.T) {
	_, rep := assemble(t, NotifyOff, nil, cleanResult("/backups/db"), cleanResult("/backups/files"))

	text := rep.Render()
	assert.Contains(t, text, "generated: 2024-06-01T12:00:00Z")
	assert.Contains(t, text, "- /backups/db")
	assert.Contains(t, text, "- /backups/files")
	assert.Contains(t, text, "no failed backups")
	assert.NotContains(t, text, "ALARMS")
}

func TestRenderAlarms(t *testing.T) {
	_, rep := assemble(t, NotifyOff, nil, cleanResult("/backups/db"), alarmResult("/backups/files", true))

	text := rep.Render()
	assert.Contains(t, text, "ALARMS:")
	assert.Contains(t, text, "/backups/files: newest set is stale")
	assert.NotContains(t, text, "no failed backups")
}

func TestDispatchSendsRenderedReport(t *testing.T) {
	n := &fakeNotifier{}
	a, rep := assemble(t, NotifyAlarm, n, alarmResult("/a", true))

	a.Dispatch(rep)

	require.Len(t, n.subjects, 1)
	assert.Equal(t, "backupwatch: backup alarm", n.subjects[0])
	assert.Equal(t, rep.Render(), n.bodies[0])
}

func TestDispatchCleanSubject(t *testing.T) {
	n := &fakeNotifier{}
	a, rep := assemble(t, NotifyAlways, n, cleanResult("/a"))

	a.Dispatch(rep)

	require.Len(t, n.subjects, 1)
	assert.Equal(t, "backupwatch: all backups healthy", n.subjects[0])
}

func TestDispatchRespectsDecision(t *testing.T) {
	n := &fakeNotifier{}
	a, rep := assemble(t, NotifyOff, n, alarmResult("/a", true))

	a.Dispatch(rep)
	assert.Empty(t, n.subjects)
}

func TestDispatchFailureLeavesReportIntact(t *testing.T) {
	n := &fakeNotifier{err: errors.New("connection refused")}
	a, rep := assemble(t, NotifyAlarm, n, alarmResult("/a", true))

	before := rep.Render()
	a.Dispatch(rep)
	assert.Equal(t, before, rep.Render())
	assert.True(t, rep.HasAlarm())
}
