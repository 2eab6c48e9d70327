package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"makdo/internal/api"
)

func TestParseCredential_CurrentContext(t *testing.T) {
	cred, err := ParseCredential([]byte(validKubeconfig), "")
	require.NoError(t, err)

	assert.Equal(t, "https://10.255.255.1:6443", cred.APIServer)
	assert.Equal(t, "monitoring", cred.Namespace)
	assert.Equal(t, "demo", cred.Context)
	require.NotNil(t, cred.RESTConfig())
	assert.Equal(t, "https://10.255.255.1:6443", cred.RESTConfig().Host)
}

func TestParseCredential_ExplicitContext(t *testing.T) {
	cred, err := ParseCredential([]byte(validKubeconfig), "demo-default-ns")
	require.NoError(t, err)

	assert.Equal(t, "demo-default-ns", cred.Context)
	assert.Equal(t, "default", cred.Namespace, "context without namespace falls back to default")
}

func TestParseCredential_UnknownContext(t *testing.T) {
	_, err := ParseCredential([]byte(validKubeconfig), "no-such-context")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
}

func TestParseCredential_MalformedBlob(t *testing.T) {
	cases := map[string]string{
		"empty":        "",
		"not yaml":     "{{{{ definitely not a kubeconfig",
		"wrong schema": "apiVersion: v1\nkind: Pod\nmetadata:\n  name: x\n",
	}

	for name, blob := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCredential([]byte(blob), "")
			require.Error(t, err)
			assert.True(t, api.IsValidation(err), "parse failures are configuration errors")
		})
	}
}

func TestCredentialString_NoSecrets(t *testing.T) {
	cred, err := ParseCredential([]byte(validKubeconfig), "")
	require.NoError(t, err)
	assert.NotContains(t, cred.String(), "test-bearer-token")
}
