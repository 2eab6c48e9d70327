package config

import "makdo/internal/api"

// Validate checks startup configuration. Missing required config is a
// ValidationError, surfaced immediately rather than retried.
func Validate(c MakdoConfig) error {
	if c.Monitoring.CheckIntervalSeconds < 0 {
		return api.NewValidationError("monitoring.checkInterval", "must be >= 0, got %d", c.Monitoring.CheckIntervalSeconds)
	}
	if c.Monitoring.SessionTTLHours <= 0 {
		return api.NewValidationError("monitoring.sessionTtlHours", "must be positive, got %v", c.Monitoring.SessionTTLHours)
	}
	if len(c.Clusters) > 0 && c.Diagnostic.BaseURL == "" {
		return api.NewValidationError("diagnostic.baseUrl", "required when clusters are configured")
	}
	switch c.Diagnostic.Transport {
	case "", "sse", "streamable-http":
	default:
		return api.NewValidationError("diagnostic.transport", "must be sse or streamable-http, got %q", c.Diagnostic.Transport)
	}
	for i, cluster := range c.Clusters {
		if cluster.Name == "" {
			return api.NewValidationError("clusters", "cluster %d has no name", i)
		}
	}
	return nil
}
