package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/client-go/rest"

	"makdo/internal/apikey"
	"makdo/internal/session"
)

const testKubeconfig = `apiVersion: v1
kind: Config
clusters:
- cluster:
    server: https://10.255.255.1:6443
  name: demo
contexts:
- context:
    cluster: demo
    user: demo-admin
  name: demo
current-context: demo
users:
- name: demo-admin
  user:
    token: test-bearer-token
`

type okProber struct{}

func (okProber) Probe(ctx context.Context, config *rest.Config) (string, error) {
	return "Kubernetes v1.35.0", nil
}

type failProber struct{}

func (failProber) Probe(ctx context.Context, config *rest.Config) (string, error) {
	return "", errors.New("i/o timeout")
}

func newTestServer(t *testing.T, prober session.Prober) (*httptest.Server, *session.Registry) {
	t.Helper()
	t.Setenv("MAKDO_API_KEY", "")

	registry := session.NewRegistry()
	issuer := session.NewIssuerWithProber(registry, prober)
	keys := mustKeys(t)
	srv := httptest.NewServer(NewServer(registry, issuer, keys).Handler())
	t.Cleanup(srv.Close)
	return srv, registry
}

func mustKeys(t *testing.T) *apikey.Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), "keys.json")
	content := `{"keys": [{"name": "test", "key": "test-key"}, {"name": "other", "key": "other-key"}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	m, err := apikey.LoadManager(path)
	require.NoError(t, err)
	return m
}

func doJSON(t *testing.T, method, url, key string, body interface{}, out interface{}) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestCreateSession_Connected(t *testing.T) {
	srv, registry := newTestServer(t, okProber{})

	var out CreateSessionResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions", "test-key", CreateSessionRequest{
		ClusterName: "demo",
		Kubeconfig:  testKubeconfig,
		TTLHours:    1,
	}, &out)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.SessionToken)
	assert.Equal(t, "connected", out.ConnectivityStatus)
	assert.Equal(t, "https://10.255.255.1:6443", out.APIServer)
	assert.Equal(t, "default", out.Namespace)
	assert.NotEmpty(t, out.ExpiresAt)

	require.NotNil(t, registry.Get(out.SessionToken))
}

func TestCreateSession_UnreachableClusterWarns(t *testing.T) {
	srv, registry := newTestServer(t, failProber{})

	var out CreateSessionResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions", "test-key", CreateSessionRequest{
		ClusterName: "demo",
		Kubeconfig:  testKubeconfig,
		TTLHours:    1,
	}, &out)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, out.Success)
	assert.Equal(t, "warning", out.ConnectivityStatus)
	assert.NotEmpty(t, out.SessionToken)
	assert.NotNil(t, registry.Get(out.SessionToken), "session stays usable despite probe failure")
}

func TestCreateSession_MalformedKubeconfig(t *testing.T) {
	srv, registry := newTestServer(t, okProber{})

	var out CreateSessionResponse
	resp := doJSON(t, http.MethodPost, srv.URL+"/sessions", "test-key", CreateSessionRequest{
		ClusterName: "demo",
		Kubeconfig:  "not a kubeconfig",
		TTLHours:    1,
	}, &out)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, out.Success)
	assert.Contains(t, out.Error, "Configuration error")
	assert.Empty(t, registry.List(""), "failed issuance must not create a session")
}

func TestCreateSession_DefaultTTL(t *testing.T) {
	srv, registry := newTestServer(t, okProber{})

	var out CreateSessionResponse
	doJSON(t, http.MethodPost, srv.URL+"/sessions", "test-key", CreateSessionRequest{
		ClusterName: "demo",
		Kubeconfig:  testKubeconfig,
	}, &out)

	s := registry.Get(out.SessionToken)
	require.NotNil(t, s)
	assert.Equal(t, 24*time.Hour, s.ExpiresAt.Sub(s.CreatedAt))
}

func TestListSessions_AllAndMine(t *testing.T) {
	srv, _ := newTestServer(t, okProber{})

	for _, key := range []string{"test-key", "other-key"} {
		var out CreateSessionResponse
		doJSON(t, http.MethodPost, srv.URL+"/sessions", key, CreateSessionRequest{
			ClusterName: "demo-" + key,
			Kubeconfig:  testKubeconfig,
			TTLHours:    1,
		}, &out)
		require.True(t, out.Success)
	}

	var all ListSessionsResponse
	doJSON(t, http.MethodGet, srv.URL+"/sessions", "test-key", nil, &all)
	assert.Equal(t, 2, all.TotalSessions)

	var mine ListSessionsResponse
	doJSON(t, http.MethodGet, srv.URL+"/sessions/mine", "other-key", nil, &mine)
	require.Equal(t, 1, mine.TotalSessions)
	assert.Equal(t, "other-key", mine.Sessions[0].CreatedBy)
	assert.Equal(t, "demo-other-key", mine.Sessions[0].ClusterName)
}

func TestDeleteSession(t *testing.T) {
	srv, _ := newTestServer(t, okProber{})

	var created CreateSessionResponse
	doJSON(t, http.MethodPost, srv.URL+"/sessions", "test-key", CreateSessionRequest{
		ClusterName: "demo",
		Kubeconfig:  testKubeconfig,
		TTLHours:    1,
	}, &created)

	var out DeleteSessionResponse
	doJSON(t, http.MethodDelete, srv.URL+"/sessions/"+created.SessionToken, "test-key", nil, &out)
	assert.True(t, out.Deleted)
	assert.Equal(t, "demo", out.ClusterName)

	// Second delete is idempotent and reports not-found.
	var again DeleteSessionResponse
	doJSON(t, http.MethodDelete, srv.URL+"/sessions/"+created.SessionToken, "test-key", nil, &again)
	assert.False(t, again.Deleted)
	assert.Equal(t, "unknown", again.ClusterName)
}

func TestAuthentication(t *testing.T) {
	srv, _ := newTestServer(t, okProber{})

	resp := doJSON(t, http.MethodGet, srv.URL+"/sessions", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/sessions", "wrong-key", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// /health needs no key.
	var health HealthResponse
	resp = doJSON(t, http.MethodGet, srv.URL+"/health", "", nil, &health)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", health.Status)
}
