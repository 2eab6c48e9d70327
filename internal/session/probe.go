package session

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/version"
	"k8s.io/client-go/discovery"
	"k8s.io/client-go/rest"
)

// Prober performs a lightweight connectivity check against a cluster.
// The issuer depends on this interface so tests can substitute a stub
// without a reachable API server.
type Prober interface {
	Probe(ctx context.Context, config *rest.Config) (string, error)
}

// DiscoveryProber probes a cluster by asking the API server for its version,
// the cheapest authenticated round trip client-go offers.
type DiscoveryProber struct{}

// Probe returns a human-readable version string on success.
func (DiscoveryProber) Probe(ctx context.Context, config *rest.Config) (string, error) {
	cfg := rest.CopyConfig(config)
	if deadline, ok := ctx.Deadline(); ok {
		cfg.Timeout = time.Until(deadline)
	}

	client, err := discovery.NewDiscoveryClientForConfig(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to create discovery client: %w", err)
	}

	var info *version.Info
	if info, err = client.ServerVersion(); err != nil {
		return "", err
	}
	return fmt.Sprintf("Kubernetes %s", info.GitVersion), nil
}
