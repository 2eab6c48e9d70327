package session

import (
	"fmt"

	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"makdo/internal/api"
)

// ClusterCredential is a parsed cluster access descriptor. It is immutable
// once accepted by the issuer; the registry owns it for the session's
// lifetime.
type ClusterCredential struct {
	// APIServer is the Kubernetes API endpoint resolved from the kubeconfig.
	APIServer string

	// Namespace is the default namespace of the selected context.
	Namespace string

	// Context is the kubeconfig context the credential was resolved from.
	Context string

	restConfig *rest.Config
}

// RESTConfig returns the client-go configuration for this credential.
func (c *ClusterCredential) RESTConfig() *rest.Config {
	return c.restConfig
}

// ParseCredential parses a raw kubeconfig blob into a ClusterCredential.
// contextName selects a kubeconfig context; empty means the blob's
// current-context. Parse failures are ValidationErrors: they indicate a
// caller input bug, not a cluster environment issue.
func ParseCredential(kubeconfig []byte, contextName string) (*ClusterCredential, error) {
	if len(kubeconfig) == 0 {
		return nil, api.NewValidationError("kubeconfig", "credential blob is empty")
	}

	cfg, err := clientcmd.Load(kubeconfig)
	if err != nil {
		return nil, api.NewValidationError("kubeconfig", "cannot parse credential blob: %v", err)
	}

	if contextName == "" {
		contextName = cfg.CurrentContext
	}
	kubeCtx, ok := cfg.Contexts[contextName]
	if !ok {
		return nil, api.NewValidationError("context", "context %q not found in credential blob", contextName)
	}

	cluster, ok := cfg.Clusters[kubeCtx.Cluster]
	if !ok || cluster.Server == "" {
		return nil, api.NewValidationError("kubeconfig", "no API server endpoint for context %q", contextName)
	}

	restConfig, err := clientcmd.NewNonInteractiveClientConfig(*cfg, contextName, &clientcmd.ConfigOverrides{}, nil).ClientConfig()
	if err != nil {
		return nil, api.NewValidationError("kubeconfig", "cannot build client config: %v", err)
	}

	namespace := kubeCtx.Namespace
	if namespace == "" {
		namespace = "default"
	}

	return &ClusterCredential{
		APIServer:  cluster.Server,
		Namespace:  namespace,
		Context:    contextName,
		restConfig: restConfig,
	}, nil
}

// String renders the credential without any secret material.
func (c *ClusterCredential) String() string {
	return fmt.Sprintf("cluster credential for %s (context %s, namespace %s)", c.APIServer, c.Context, c.Namespace)
}
