package coordinator

import (
	"context"
	"fmt"

	"makdo/internal/diag"
	"makdo/internal/driver"
	"makdo/pkg/logging"
)

// DiagCoordinator is the built-in analysis collaborator: it runs a direct
// resource health sweep against the diagnostic aggregator. The full
// multi-agent LLM coordinator lives outside this repository; this
// implementation keeps the loop useful without it.
type DiagCoordinator struct {
	client *diag.Client
}

// NewDiagCoordinator wraps a connected diagnostic client.
func NewDiagCoordinator(client *diag.Client) *DiagCoordinator {
	return &DiagCoordinator{client: client}
}

// Analyze runs the pod health sweep for the cycle's cluster. In degraded
// mode (no session) it reports that the diagnostic calls were skipped rather
// than failing the cycle.
func (c *DiagCoordinator) Analyze(ctx context.Context, cycle driver.Cycle) (string, error) {
	if cycle.Degraded {
		logging.Warn("Coordinator", "Cycle %s: running degraded, diagnostic calls skipped", cycle.ID)
		return fmt.Sprintf("degraded: no cluster session for %s, diagnostic calls skipped", cycle.ClusterName), nil
	}

	message := diag.HealthMessage(cycle.SessionToken, "pod", diag.AllNamespaces)
	result, err := c.client.Call(ctx, diag.ToolResourceHealth, message)
	if err != nil {
		return "", fmt.Errorf("resource health sweep for %s failed: %w", cycle.ClusterName, err)
	}
	return result, nil
}
