package report

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"backupwatch/internal/logging"
	"backupwatch/internal/monitor"
)

// Notifier delivers a subject/body pair to some external channel.
type Notifier interface {
	Send(subject, body string) error
}

// Assembler joins per-path results into a Report and drives the
// notification decision.
type Assembler struct {
	notifyType NotifyType
	notifier   Notifier
	now        func() time.Time
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithClock overrides the assembler's time source.
func WithClock(now func() time.Time) AssemblerOption {
	return func(a *Assembler) {
		a.now = now
	}
}

// NewAssembler creates an assembler. notifier may be nil when
// notifications are disabled.
func NewAssembler(notifyType NotifyType, notifier Notifier, opts ...AssemblerOption) *Assembler {
	a := &Assembler{notifyType: notifyType, notifier: notifier, now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Assemble builds the report for one run, preserving input-path order.
func (a *Assembler) Assemble(paths []string, results []monitor.PathResult) *Report {
	return &Report{
		ID:           uuid.NewString(),
		GeneratedAt:  a.now(),
		CheckedPaths: append([]string(nil), paths...),
		Results:      results,
	}
}

// ShouldNotify applies the notification decision table to a report.
func (a *Assembler) ShouldNotify(r *Report) bool {
	switch a.notifyType {
	case NotifyAlarm:
		return r.HasAlarm()
	case NotifyAlways:
		// Clean-run ping only; see the NotifyAlways doc comment.
		return !r.HasAlarm()
	case NotifyAlarmOnLastBackup:
		return r.HasAlarm() && r.AlarmOnLastBackup()
	default:
		return false
	}
}

// Dispatch sends the rendered report when the decision table says so.
// A notifier failure is logged and never alters the computed report.
func (a *Assembler) Dispatch(r *Report) {
	if a.notifier == nil || !a.ShouldNotify(r) {
		return
	}

	subject := "backupwatch: all backups healthy"
	if r.HasAlarm() {
		subject = "backupwatch: backup alarm"
	}

	if err := a.notifier.Send(subject, r.Render()); err != nil {
		logging.L().Error("notification failed",
			zap.String("report_id", r.ID), zap.Error(err))
		return
	}
	logging.L().Info("notification sent",
		zap.String("report_id", r.ID), zap.String("subject", subject))
}
