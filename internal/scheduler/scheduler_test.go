package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"daily", "daily", false},
		{"hourly", "hourly", false},
		{"weekly", "weekly", false},
		{"every 1h", "every 1h", false},
		{"every 30m", "every 30m", false},
		{"cron midnight", "0 0 * * *", false},
		{"cron 2am", "0 2 * * *", false},
		{"invalid cron minute", "60 2 * * *", true},
		{"interval too short", "every 30s", true},
		{"unknown keyword", "sometimes", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSchedule(tt.expr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestScheduleNextRun(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	daily, err := ParseSchedule("daily")
	require.NoError(t, err)
	next := daily.NextRun(now)
	assert.Equal(t, 2, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(now))

	cron, err := ParseSchedule("30 3 * * *")
	require.NoError(t, err)
	next = cron.NextRun(now)
	assert.Equal(t, 3, next.Hour())
	assert.Equal(t, 30, next.Minute())
}

func TestScheduleInterval(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)

	sched, err := ParseSchedule("every 4h")
	require.NoError(t, err)
	assert.True(t, sched.NextRun(now).Equal(now.Add(4*time.Hour)))
}

func TestRunNowRecordsOutcome(t *testing.T) {
	var started, succeeded int
	s := NewScheduler(mustParse(t, "hourly"), func() error { return nil }, &Callbacks{
		OnCheckStart:   func() { started++ },
		OnCheckSuccess: func(time.Duration) { succeeded++ },
	})

	s.RunNow()

	assert.Equal(t, 1, started)
	assert.Equal(t, 1, succeeded)
	last, err := s.LastRun()
	assert.NoError(t, err)
	assert.False(t, last.IsZero())
}

func TestRunNowReportsFailure(t *testing.T) {
	checkErr := errors.New("walk failed")
	var failures []error
	s := NewScheduler(mustParse(t, "hourly"), func() error { return checkErr }, &Callbacks{
		OnCheckFailure: func(err error) { failures = append(failures, err) },
	})

	s.RunNow()

	require.Len(t, failures, 1)
	assert.ErrorIs(t, failures[0], checkErr)
	_, err := s.LastRun()
	assert.ErrorIs(t, err, checkErr)
}

func TestStartStopIdempotent(t *testing.T) {
	s := NewScheduler(mustParse(t, "every 1h"), func() error { return nil }, nil)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "30m", FormatDuration(30*time.Minute))
	assert.Equal(t, "2h", FormatDuration(2*time.Hour))
	assert.Equal(t, "1h30m", FormatDuration(90*time.Minute))
}

func mustParse(t *testing.T, expr string) *Schedule {
	t.Helper()
	s, err := ParseSchedule(expr)
	require.NoError(t, err)
	return s
}
