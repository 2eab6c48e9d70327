package agent

import (
	"fmt"

	"makdo/internal/conversation"
	"makdo/internal/session"
	"makdo/pkg/logging"
)

// sessionContextTemplate is the block injected into each sub-agent before a
// health-check cycle. The call pattern is given literally because the
// sub-agent talks to the diagnostic service through natural-language tool
// invocations and has to reproduce the parameter syntax exactly.
const sessionContextTemplate = `K8s Cluster Session: You have been given access to the '%[1]s' Kubernetes cluster.

Session Token: %[2]s

When using the k8s diagnostic tools, format your message parameter as:
"kubernetes_resource_health: session_token=%[2]s, resource_type=pod, namespace=all"

CRITICAL: Always use namespace=all to check ALL namespaces, not just default!

Example:
- To check all pods: message="kubernetes_resource_health: session_token=%[2]s, resource_type=pod, namespace=all"
- To diagnose issue: message="kubernetes_diagnose_issue: session_token=%[2]s, issue_description=check pods not starting, namespace=all"

Always include the session_token and use namespace=all in your message.`

// SessionContext renders the injected block for a token and cluster.
func SessionContext(token, clusterName string) string {
	return fmt.Sprintf(sessionContextTemplate, clusterName, token)
}

// Injector places the current session token into sub-agent conversations at
// the start of every health-check cycle.
type Injector struct {
	pool *Pool
}

// NewInjector creates an injector over the given pool.
func NewInjector(pool *Pool) *Injector {
	return &Injector{pool: pool}
}

// Inject removes every previously injected session block from each target
// agent and appends a fresh one carrying the token. Stale tokens from prior
// cycles must never coexist with the new one, and re-running within a cycle
// replaces rather than duplicates.
//
// Returns the number of agents injected. Unknown targets are skipped and
// logged, never fatal.
func (i *Injector) Inject(token, clusterName string, targets []string) int {
	injected := 0
	for _, name := range targets {
		a := i.pool.Get(name)
		if a == nil {
			logging.Warn("TokenInjector", "Target agent %s not found, skipping", name)
			continue
		}

		if removed := a.Log.RemoveKind(conversation.KindSessionContext); removed > 0 {
			logging.Debug("TokenInjector", "Cleared %d stale session block(s) from %s", removed, name)
		}
		a.Log.Append(conversation.KindSessionContext, SessionContext(token, clusterName))

		logging.Info("TokenInjector", "Injected session %s into %s", session.TokenPreview(token), name)
		injected++
	}
	return injected
}
