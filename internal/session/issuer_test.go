package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"

	"makdo/internal/api"
)

// stubProber lets tests control the connectivity outcome.
type stubProber struct {
	version string
	err     error
	calls   int
}

func (p *stubProber) Probe(ctx context.Context, config *rest.Config) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return p.version, nil
}

func TestIssue_Connected(t *testing.T) {
	registry := NewRegistry()
	prober := &stubProber{version: "Kubernetes v1.35.0"}
	issuer := NewIssuerWithProber(registry, prober)

	result, err := issuer.Issue(context.Background(), "demo", []byte(validKubeconfig), "", time.Hour, "key-1")
	require.NoError(t, err)

	assert.Equal(t, StatusConnected, result.Connectivity)
	assert.Contains(t, result.ConnectivityMessage, "v1.35.0")
	assert.Equal(t, "https://10.255.255.1:6443", result.APIServer)
	assert.Equal(t, "monitoring", result.Namespace)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, 1, prober.calls)

	s := registry.Get(result.Token)
	require.NotNil(t, s)
	assert.Equal(t, StatusConnected, s.Connectivity)
}

func TestIssue_UnreachableClusterIsWarningNotError(t *testing.T) {
	registry := NewRegistry()
	prober := &stubProber{err: errors.New("dial tcp 10.255.255.1:6443: i/o timeout")}
	issuer := NewIssuerWithProber(registry, prober)

	result, err := issuer.Issue(context.Background(), "demo", []byte(validKubeconfig), "", time.Hour, "key-1")
	require.NoError(t, err, "probe failure must not block issuance")

	assert.Equal(t, StatusWarning, result.Connectivity)
	assert.Contains(t, result.ConnectivityMessage, "connectivity test failed")
	assert.NotEmpty(t, result.Token)

	// Session stays usable despite the warning.
	s := registry.Get(result.Token)
	require.NotNil(t, s)
	assert.Equal(t, StatusWarning, s.Connectivity)
}

func TestIssue_MalformedCredentialCreatesNothing(t *testing.T) {
	registry := NewRegistry()
	prober := &stubProber{version: "unused"}
	issuer := NewIssuerWithProber(registry, prober)

	before := len(registry.List(""))
	_, err := issuer.Issue(context.Background(), "demo", []byte("not a kubeconfig at all"), "", time.Hour, "key-1")

	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Len(t, registry.List(""), before, "failed issuance must not leave a session behind")
	assert.Equal(t, 0, prober.calls, "no probe for rejected credentials")
}

func TestIssue_InvalidTTL(t *testing.T) {
	registry := NewRegistry()
	issuer := NewIssuerWithProber(registry, &stubProber{version: "v"})

	_, err := issuer.Issue(context.Background(), "demo", []byte(validKubeconfig), "", 0, "key-1")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
	assert.Empty(t, registry.List(""))
}

func TestIssue_ExpiryMatchesTTL(t *testing.T) {
	registry := NewRegistry()
	issuer := NewIssuerWithProber(registry, &stubProber{version: "v"})

	result, err := issuer.Issue(context.Background(), "demo", []byte(validKubeconfig), "", 2*time.Hour, "key-1")
	require.NoError(t, err)

	s := registry.Get(result.Token)
	require.NotNil(t, s)
	assert.Equal(t, s.ExpiresAt, result.ExpiresAt)
	assert.Equal(t, 2*time.Hour, s.ExpiresAt.Sub(s.CreatedAt))
}
