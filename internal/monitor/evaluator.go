// Package monitor implements the backup-set anomaly evaluator. Instead of
// absolute thresholds it derives tolerances from each path's own history
// (median interval, median size), so a nightly and an hourly backup job
// are both modeled correctly without per-path tuning.
package monitor

import (
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"backupwatch/internal/collector"
	"backupwatch/internal/logging"
	"backupwatch/internal/stats"
)

// Config holds the evaluator thresholds.
type Config struct {
	// MinBackupSets is the number of sets a path must accumulate before
	// it is considered established.
	MinBackupSets int

	// GraceWindow absorbs the "just provisioned, not enough history yet"
	// case: a path below MinBackupSets whose newest set is within this
	// window of now raises no alarm.
	GraceWindow time.Duration

	// StaleFactor scales the median interval; the gap between now and the
	// newest set may exceed the median by this factor before the path is
	// considered stale.
	StaleFactor float64

	// MaxDiscrepancyPct is the tolerated percentage difference between
	// consecutive backup intervals.
	MaxDiscrepancyPct float64

	// MinSizeRatio is the fraction of the historical median size below
	// which the newest set is flagged as collapsed.
	MinSizeRatio float64
}

// DefaultConfig returns the reference thresholds.
func DefaultConfig() Config {
	return Config{
		MinBackupSets:     5,
		GraceWindow:       25 * time.Hour,
		StaleFactor:       1.05,
		MaxDiscrepancyPct: 5,
		MinSizeRatio:      0.05,
	}
}

// Evaluator applies the anomaly rule chain to one path's backup sets.
type Evaluator struct {
	cfg Config
	now func() time.Time
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithClock overrides the evaluator's time source. Evaluation is fully
// deterministic for a fixed clock and a fixed item set.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

// NewEvaluator creates an evaluator with the given thresholds.
func NewEvaluator(cfg Config, opts ...Option) *Evaluator {
	e := &Evaluator{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NotFound builds the result for a path missing from the filesystem.
// No further rules apply to such a path.
func (e *Evaluator) NotFound(path string) PathResult {
	res := PathResult{Path: path}
	res.add(StatusNotFound, fmt.Sprintf("backup path %s does not exist", path))
	return res
}

// Evaluate applies the rule chain to the items discovered under path.
// Items may arrive in any order; the evaluator sorts them ascending by
// timestamp before analysis.
func (e *Evaluator) Evaluate(path string, items []collector.Item) PathResult {
	res := PathResult{Path: path}
	now := e.now()

	sorted := append([]collector.Item(nil), items...)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	if done := e.checkMinimumCount(&res, sorted, now); done {
		return res
	}

	deltas := intervalSeconds(sorted)
	e.checkStaleness(&res, sorted, deltas, now)
	e.checkRegularity(&res, sorted, deltas)
	e.checkLatestSize(&res, sorted)

	return res
}

// checkMinimumCount enforces the minimum-set gate. It returns true when
// evaluation for the path is finished.
func (e *Evaluator) checkMinimumCount(res *PathResult, items []collector.Item, now time.Time) bool {
	if len(items) >= e.cfg.MinBackupSets {
		return false
	}

	if len(items) == 0 {
		res.add(StatusTooFewBackups,
			fmt.Sprintf("no backup sets found (minimum %d)", e.cfg.MinBackupSets))
		res.AlarmOnLatest = true
		return true
	}

	newest := items[len(items)-1]
	if now.Sub(newest.Timestamp) <= e.cfg.GraceWindow {
		// Fresh system still accumulating history. Informational only,
		// no finding.
		logging.L().Info("backup path ramping up",
			zap.String("path", res.Path),
			zap.Int("sets", len(items)),
			zap.Int("minimum", e.cfg.MinBackupSets))
		return true
	}

	res.add(StatusTooFewBackups,
		fmt.Sprintf("only %d of %d required backup sets and newest set %q is older than the %s grace window",
			len(items), e.cfg.MinBackupSets, newest.Name, e.cfg.GraceWindow))
	res.AlarmOnLatest = true
	return true
}

// checkStaleness flags a path whose newest set is older than the median
// interval allows. Skipped when only one item exists (no deltas).
func (e *Evaluator) checkStaleness(res *PathResult, items []collector.Item, deltas []float64, now time.Time) {
	if len(deltas) == 0 {
		return
	}

	median, err := stats.Median(deltas)
	if err != nil {
		// Unreachable behind the minimum-count gate; fail loudly.
		logging.L().Error("median over empty delta sequence",
			zap.String("path", res.Path), zap.Error(err))
		return
	}

	logging.L().Debug("interval profile",
		zap.String("path", res.Path),
		zap.Float64("median_seconds", median),
		zap.Float64("mean_seconds", stats.Mean(deltas)),
		zap.Float64("stddev_seconds", stats.StdDev(deltas)))

	newest := items[len(items)-1]
	elapsed := now.Sub(newest.Timestamp).Seconds()
	if elapsed > median*e.cfg.StaleFactor {
		res.add(StatusStale,
			fmt.Sprintf("newest set %q is stale: %s elapsed against a median interval of %s",
				newest.Name, secondsDuration(elapsed), secondsDuration(median)))
		res.AlarmOnLatest = true
	}
}

// checkRegularity walks consecutive interval pairs and flags the first
// discrepancy beyond tolerance. The scan stops at the first hit; an
// exhaustive report would change which pair determines the latest-alarm
// flag. Zero-length intervals are skipped as divisor bases.
func (e *Evaluator) checkRegularity(res *PathResult, items []collector.Item, deltas []float64) {
	for i := 0; i+1 < len(deltas); i++ {
		if deltas[i] == 0 {
			continue
		}
		discrepancy := math.Round(math.Abs(deltas[i]-deltas[i+1]) / deltas[i] * 100)
		if discrepancy <= e.cfg.MaxDiscrepancyPct {
			continue
		}

		res.add(StatusIrregularInterval,
			fmt.Sprintf("irregular interval across %q, %q, %q: consecutive gaps differ by %.0f%% (tolerance %.0f%%)",
				items[i].Name, items[i+1].Name, items[i+2].Name,
				discrepancy, e.cfg.MaxDiscrepancyPct))
		if i == len(deltas)-2 {
			res.AlarmOnLatest = true
		}
		return
	}
}

// checkLatestSize compares the newest set's size with the median of all
// older sets. Never touches the latest-alarm flag. Skipped when the
// prior-size median is zero.
func (e *Evaluator) checkLatestSize(res *PathResult, items []collector.Item) {
	if len(items) < 2 {
		return
	}

	prior := make([]float64, 0, len(items)-1)
	for _, it := range items[:len(items)-1] {
		prior = append(prior, float64(it.SizeBytes))
	}

	median, err := stats.Median(prior)
	if err != nil || median == 0 {
		return
	}

	newest := items[len(items)-1]
	if float64(newest.SizeBytes) < median*e.cfg.MinSizeRatio {
		res.add(StatusSizeAnomaly,
			fmt.Sprintf("newest set %q is %d bytes, below %.0f%% of the %d byte median of earlier sets",
				newest.Name, newest.SizeBytes, e.cfg.MinSizeRatio*100, int64(median)))
	}
}

// intervalSeconds returns the consecutive timestamp gaps of a sorted
// item sequence, in seconds.
func intervalSeconds(items []collector.Item) []float64 {
	if len(items) < 2 {
		return nil
	}
	deltas := make([]float64, 0, len(items)-1)
	for i := 1; i < len(items); i++ {
		deltas = append(deltas, items[i].Timestamp.Sub(items[i-1].Timestamp).Seconds())
	}
	return deltas
}

func secondsDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second)).Round(time.Second)
}
