package diag

import "fmt"

// AllNamespaces is the scope used unless a narrower one is explicitly
// requested. Defaulting to all namespaces is part of the contract with the
// diagnostic service: checking only "default" hides most real failures.
const AllNamespaces = "all"

// Diagnostic tool names exposed by the aggregator.
const (
	ToolResourceHealth = "kubernetes_resource_health"
	ToolDiagnoseIssue  = "kubernetes_diagnose_issue"
)

// HealthMessage formats the message parameter for a resource health check.
// The syntax must match the template injected into sub-agents verbatim.
func HealthMessage(token, resourceType, namespace string) string {
	if namespace == "" {
		namespace = AllNamespaces
	}
	return fmt.Sprintf("%s: session_token=%s, resource_type=%s, namespace=%s",
		ToolResourceHealth, token, resourceType, namespace)
}

// DiagnoseMessage formats the message parameter for an issue diagnosis call.
func DiagnoseMessage(token, issueDescription, namespace string) string {
	if namespace == "" {
		namespace = AllNamespaces
	}
	return fmt.Sprintf("%s: session_token=%s, issue_description=%s, namespace=%s",
		ToolDiagnoseIssue, token, issueDescription, namespace)
}
