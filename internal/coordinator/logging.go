package coordinator

import (
	"context"
	"time"

	"makdo/internal/driver"
	"makdo/pkg/logging"
)

// loggedCoordinator is an explicit logging decorator around a Coordinator.
// It is constructed once at wiring time; implementations are never patched
// or wrapped dynamically.
type loggedCoordinator struct {
	next driver.Coordinator
}

// WithLogging wraps a coordinator so every invocation and outcome is logged
// with a result preview, without the inner implementation knowing about it.
func WithLogging(next driver.Coordinator) driver.Coordinator {
	return &loggedCoordinator{next: next}
}

func (l *loggedCoordinator) Analyze(ctx context.Context, cycle driver.Cycle) (string, error) {
	logging.Info("Coordinator", "Cycle %s: analyze requested (cluster %s, degraded=%t)",
		cycle.ID, cycle.ClusterName, cycle.Degraded)
	start := time.Now()

	result, err := l.next.Analyze(ctx, cycle)
	if err != nil {
		logging.Error("Coordinator", err, "Cycle %s: analyze failed after %s", cycle.ID, time.Since(start).Round(time.Millisecond))
		return result, err
	}

	preview := result
	if len(preview) > 300 {
		preview = preview[:300] + "..."
	}
	logging.Info("Coordinator", "Cycle %s: analyze completed in %s: %s",
		cycle.ID, time.Since(start).Round(time.Millisecond), preview)
	return result, nil
}
