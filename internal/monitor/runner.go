package monitor

import (
	"errors"

	"go.uber.org/zap"

	"backupwatch/internal/collector"
	apperrors "backupwatch/internal/errors"
	"backupwatch/internal/logging"
)

// Runner binds the collector to the evaluator and checks every
// configured path in order. Each path's evaluation is independent: one
// bad path never prevents evaluation of the others.
type Runner struct {
	lister *collector.Lister
	eval   *Evaluator
}

// NewRunner creates a runner over the given lister and evaluator.
func NewRunner(lister *collector.Lister, eval *Evaluator) *Runner {
	return &Runner{lister: lister, eval: eval}
}

// CheckAll evaluates all paths and returns one result per path, in
// input order.
func (r *Runner) CheckAll(paths []string) []PathResult {
	results := make([]PathResult, 0, len(paths))
	for _, path := range paths {
		results = append(results, r.checkOne(path))
	}
	return results
}

func (r *Runner) checkOne(path string) PathResult {
	items, err := r.lister.List(path)
	if err != nil {
		if errors.Is(err, apperrors.ErrPathNotFound) {
			return r.eval.NotFound(path)
		}
		// The path exists but could not be listed. Keep the run going;
		// the minimum-count rule reports the empty set.
		logging.L().Warn("failed to list backup path",
			zap.String("path", path), zap.Error(err))
		items = nil
	}
	return r.eval.Evaluate(path, items)
}
