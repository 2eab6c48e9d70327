package config

// Defaults applied when the config file omits a value.
const (
	DefaultDiagnosticBaseURL = "http://localhost:9998"
	DefaultTransport         = "streamable-http"
	DefaultCheckInterval     = 60
	DefaultSessionTTLHours   = 24.0
	DefaultSlackChannel      = "makdo-devops"
	DefaultAdminListen       = "localhost:9997"
	DefaultLogLevel          = "info"
)

// GetDefaultConfig returns the default configuration for makdo: no clusters,
// local diagnostic aggregator, hourly-scale monitoring defaults.
func GetDefaultConfig() MakdoConfig {
	return MakdoConfig{
		Diagnostic: DiagnosticConfig{
			BaseURL:   DefaultDiagnosticBaseURL,
			Transport: DefaultTransport,
		},
		Monitoring: MonitoringConfig{
			CheckIntervalSeconds: DefaultCheckInterval,
			SessionTTLHours:      DefaultSessionTTLHours,
		},
		Slack: SlackConfig{
			Channel: DefaultSlackChannel,
		},
		Admin: AdminConfig{
			Listen: DefaultAdminListen,
		},
		Logging: LoggingConfig{
			Level: DefaultLogLevel,
		},
	}
}
