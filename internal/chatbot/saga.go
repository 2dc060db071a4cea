package chatbot

import (
	"fmt"
	"log/slog"
)

// sagaStep is one side effect in an ordered multi-store sequence. compensate
// undoes the effect when a later step fails; nil means the effect cannot be
// undone and is only logged.
type sagaStep struct {
	name       string
	run        func() error
	compensate func() error
}

// runSaga executes steps in order. On failure it runs the compensations of
// the already-completed steps in reverse, best effort, and returns the
// original error. The store offers no transactions, so a compensation that
// itself fails leaves a partial state; both outcomes are logged so the
// resulting state is at least known.
func runSaga(name string, steps []sagaStep) error {
	done := make([]sagaStep, 0, len(steps))
	for _, step := range steps {
		if err := step.run(); err != nil {
			slog.Error("saga step failed", "saga", name, "step", step.name, "error", err)
			for i := len(done) - 1; i >= 0; i-- {
				prev := done[i]
				if prev.compensate == nil {
					slog.Warn("saga step not compensatable", "saga", name, "step", prev.name)
					continue
				}
				if cerr := prev.compensate(); cerr != nil {
					slog.Error("saga compensation failed", "saga", name, "step", prev.name, "error", cerr)
				}
			}
			return fmt.Errorf("%s: %s: %w", name, step.name, err)
		}
		done = append(done, step)
	}
	return nil
}
