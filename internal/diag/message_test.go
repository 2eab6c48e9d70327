package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthMessage(t *testing.T) {
	msg := HealthMessage("mkd_abc", "pod", "")
	assert.Equal(t, "kubernetes_resource_health: session_token=mkd_abc, resource_type=pod, namespace=all", msg)

	msg = HealthMessage("mkd_abc", "deployment", "kube-system")
	assert.Equal(t, "kubernetes_resource_health: session_token=mkd_abc, resource_type=deployment, namespace=kube-system", msg)
}

func TestDiagnoseMessage(t *testing.T) {
	msg := DiagnoseMessage("mkd_abc", "pods not starting", "")
	assert.Equal(t, "kubernetes_diagnose_issue: session_token=mkd_abc, issue_description=pods not starting, namespace=all", msg)
}
