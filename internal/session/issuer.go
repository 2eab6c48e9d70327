package session

import (
	"context"
	"fmt"
	"time"

	"makdo/internal/api"
	"makdo/pkg/logging"
)

// defaultProbeTimeout bounds the creation-time connectivity check so a hung
// API server cannot stall issuance.
const defaultProbeTimeout = 10 * time.Second

// IssueResult is the full descriptor returned to the caller after issuance.
type IssueResult struct {
	Token               string             `json:"session_token"`
	ClusterName         string             `json:"cluster_name"`
	APIServer           string             `json:"api_server"`
	Namespace           string             `json:"namespace"`
	Connectivity        ConnectivityStatus `json:"connectivity_status"`
	ConnectivityMessage string             `json:"connectivity_message"`
	ExpiresAt           time.Time          `json:"expires_at"`
}

// Issuer validates raw credentials, registers sessions and probes
// connectivity. It is the only component allowed to create sessions.
type Issuer struct {
	registry     *Registry
	prober       Prober
	probeTimeout time.Duration
}

// NewIssuer creates an issuer backed by the given registry, probing with
// the real discovery client.
func NewIssuer(registry *Registry) *Issuer {
	return NewIssuerWithProber(registry, DiscoveryProber{})
}

// NewIssuerWithProber creates an issuer with a custom prober. Used by tests
// and by callers that want to disable probing entirely.
func NewIssuerWithProber(registry *Registry, prober Prober) *Issuer {
	return &Issuer{
		registry:     registry,
		prober:       prober,
		probeTimeout: defaultProbeTimeout,
	}
}

// Issue parses the raw kubeconfig blob, creates a session and probes the
// cluster. A parse failure is a ValidationError and creates nothing. A probe
// failure does NOT roll back the session: a transient probe failure must not
// block issuance, so the session comes back with connectivity "warning" and
// stays usable.
func (i *Issuer) Issue(ctx context.Context, clusterName string, kubeconfig []byte, contextName string, ttl time.Duration, createdBy string) (*IssueResult, error) {
	credential, err := ParseCredential(kubeconfig, contextName)
	if err != nil {
		logging.Error("SessionIssuer", err, "Rejected credential for cluster %s", clusterName)
		return nil, err
	}

	token, err := i.registry.Create(clusterName, credential, ttl, createdBy)
	if err != nil {
		return nil, err
	}

	result := &IssueResult{
		Token:       token,
		ClusterName: clusterName,
		APIServer:   credential.APIServer,
		Namespace:   credential.Namespace,
	}
	if s := i.registry.Get(token); s != nil {
		result.ExpiresAt = s.ExpiresAt
	}

	probeCtx, cancel := context.WithTimeout(ctx, i.probeTimeout)
	defer cancel()

	version, probeErr := i.prober.Probe(probeCtx, credential.RESTConfig())
	if probeErr != nil {
		warn := &api.ConnectivityWarning{Target: credential.APIServer, Err: probeErr}
		result.Connectivity = StatusWarning
		result.ConnectivityMessage = fmt.Sprintf("registered but connectivity test failed: %v", probeErr)
		logging.Warn("SessionIssuer", "Session %s for cluster %s created degraded: %v",
			TokenPreview(token), clusterName, warn)
	} else {
		result.Connectivity = StatusConnected
		result.ConnectivityMessage = fmt.Sprintf("successfully connected: %s", version)
		logging.Info("SessionIssuer", "Session %s connected to %s (%s)",
			TokenPreview(token), credential.APIServer, version)
	}

	// Persist the probe outcome on the stored session so listings show it.
	i.registry.setConnectivity(token, result.Connectivity, result.ConnectivityMessage)

	return result, nil
}
