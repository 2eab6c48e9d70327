package config

// MakdoConfig is the top-level configuration structure for makdo. It is read
// once at startup; there is no hot reload.
type MakdoConfig struct {
	Clusters   []ClusterConfig  `yaml:"clusters"`
	Diagnostic DiagnosticConfig `yaml:"diagnostic"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Slack      SlackConfig      `yaml:"slack"`
	Admin      AdminConfig      `yaml:"admin"`
	Logging    LoggingConfig    `yaml:"logging"`

	// StateFile, when set, is where the coordinator conversation is saved
	// on shutdown.
	StateFile string `yaml:"stateFile,omitempty"`
}

// ClusterConfig names one monitored cluster and the kubeconfig context used
// to reach it.
type ClusterConfig struct {
	Name    string `yaml:"name"`
	Context string `yaml:"context,omitempty"`
	// KubeconfigPath overrides the default kubeconfig location for this
	// cluster.
	KubeconfigPath string `yaml:"kubeconfigPath,omitempty"`
}

// DiagnosticConfig points at the cluster-diagnostic aggregator.
type DiagnosticConfig struct {
	BaseURL   string `yaml:"baseUrl,omitempty"`   // default: http://localhost:9998
	Transport string `yaml:"transport,omitempty"` // sse or streamable-http (default)
}

// MonitoringConfig controls the health-check loop.
type MonitoringConfig struct {
	// CheckIntervalSeconds is the sleep between cycles. 0 means no sleep
	// (test mode).
	CheckIntervalSeconds int `yaml:"checkInterval"`

	// SessionTTLHours is the lifetime of issued cluster sessions.
	SessionTTLHours float64 `yaml:"sessionTtlHours,omitempty"`
}

// SlackConfig controls findings reporting.
type SlackConfig struct {
	Channel string `yaml:"channel,omitempty"` // default: makdo-devops
	// BotToken is usually provided via MAKDO_BOT_TOKEN instead.
	BotToken string `yaml:"botToken,omitempty"`
}

// AdminConfig controls the out-of-band admin API.
type AdminConfig struct {
	Listen   string `yaml:"listen,omitempty"` // default: localhost:9997
	KeysFile string `yaml:"keysFile,omitempty"`
}

// LoggingConfig controls log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
}
