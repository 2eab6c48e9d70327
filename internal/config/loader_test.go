package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "makdo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDiagnosticBaseURL, cfg.Diagnostic.BaseURL)
	assert.Equal(t, DefaultCheckInterval, cfg.Monitoring.CheckIntervalSeconds)
	assert.Equal(t, DefaultSessionTTLHours, cfg.Monitoring.SessionTTLHours)
	assert.Equal(t, DefaultSlackChannel, cfg.Slack.Channel)
	assert.Empty(t, cfg.Clusters)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
clusters:
  - name: demo
    context: kind-demo
diagnostic:
  baseUrl: http://diag.internal:9998
  transport: sse
monitoring:
  checkInterval: 30
  sessionTtlHours: 2
slack:
  channel: alerts
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	require.Len(t, cfg.Clusters, 1)
	assert.Equal(t, "demo", cfg.Clusters[0].Name)
	assert.Equal(t, "kind-demo", cfg.Clusters[0].Context)
	assert.Equal(t, "http://diag.internal:9998", cfg.Diagnostic.BaseURL)
	assert.Equal(t, "sse", cfg.Diagnostic.Transport)
	assert.Equal(t, 30, cfg.Monitoring.CheckIntervalSeconds)
	assert.Equal(t, 2.0, cfg.Monitoring.SessionTTLHours)
	assert.Equal(t, "alerts", cfg.Slack.Channel)
	// Unset fields still get defaults
	assert.Equal(t, DefaultAdminListen, cfg.Admin.Listen)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := writeConfig(t, "clusters: [not closed")
	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_CheckIntervalEnvOverride(t *testing.T) {
	path := writeConfig(t, "monitoring:\n  checkInterval: 60\n")

	t.Setenv("MAKDO_CHECK_INTERVAL", "0")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Monitoring.CheckIntervalSeconds, "env override supports test mode interval 0")

	t.Setenv("MAKDO_CHECK_INTERVAL", "garbage")
	cfg, err = LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Monitoring.CheckIntervalSeconds, "invalid override is ignored")
}

func TestValidate(t *testing.T) {
	valid := GetDefaultConfig()
	assert.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*MakdoConfig)
	}{
		{"negative interval", func(c *MakdoConfig) { c.Monitoring.CheckIntervalSeconds = -1 }},
		{"zero ttl", func(c *MakdoConfig) { c.Monitoring.SessionTTLHours = 0 }},
		{"bad transport", func(c *MakdoConfig) { c.Diagnostic.Transport = "carrier-pigeon" }},
		{"unnamed cluster", func(c *MakdoConfig) { c.Clusters = []ClusterConfig{{Context: "x"}} }},
		{"clusters without diag url", func(c *MakdoConfig) {
			c.Clusters = []ClusterConfig{{Name: "demo"}}
			c.Diagnostic.BaseURL = ""
		}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			test.mutate(&cfg)
			assert.Error(t, Validate(cfg))
		})
	}
}
