package driver

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"makdo/internal/config"
	"makdo/pkg/logging"
)

// kubectlTimeout bounds the kubectl invocation used to extract a kubeconfig.
const kubectlTimeout = 15 * time.Second

// KubectlSource extracts a minified kubeconfig for a context by shelling out
// to kubectl, the same way the demo test harness provisions credentials.
type KubectlSource struct{}

// Kubeconfig runs `kubectl config view --minify --raw` for the cluster's
// context.
func (KubectlSource) Kubeconfig(ctx context.Context, cluster config.ClusterConfig) ([]byte, error) {
	execCtx, cancel := context.WithTimeout(ctx, kubectlTimeout)
	defer cancel()

	args := []string{"config", "view", "--minify", "--raw"}
	if cluster.Context != "" {
		args = append(args, "--context="+cluster.Context)
	}

	logging.Debug("CredSource", "Extracting kubeconfig for context %s", cluster.Context)
	out, err := exec.CommandContext(execCtx, "kubectl", args...).Output()
	if err != nil {
		return nil, fmt.Errorf("kubectl config view failed for context %q: %w", cluster.Context, err)
	}
	return out, nil
}

// FileSource reads the kubeconfig from the path named in the cluster config.
type FileSource struct{}

// Kubeconfig reads the cluster's kubeconfigPath.
func (FileSource) Kubeconfig(ctx context.Context, cluster config.ClusterConfig) ([]byte, error) {
	if cluster.KubeconfigPath == "" {
		return nil, fmt.Errorf("cluster %q has no kubeconfigPath configured", cluster.Name)
	}
	data, err := os.ReadFile(cluster.KubeconfigPath)
	if err != nil {
		return nil, fmt.Errorf("cannot read kubeconfig for cluster %q: %w", cluster.Name, err)
	}
	return data, nil
}

// SourceFor picks the credential source matching the cluster config:
// explicit kubeconfig path when given, kubectl extraction otherwise.
func SourceFor(cluster config.ClusterConfig) CredentialSource {
	if cluster.KubeconfigPath != "" {
		return FileSource{}
	}
	return KubectlSource{}
}
