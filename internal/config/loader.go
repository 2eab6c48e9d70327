package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"makdo/pkg/logging"
)

// Environment overrides, mainly for the e2e test harness.
const (
	envCheckInterval = "MAKDO_CHECK_INTERVAL"
	envBotToken      = "MAKDO_BOT_TOKEN"
)

// LoadConfig loads configuration from the given file path, applying defaults
// for anything the file omits. A missing file yields the defaults; a
// malformed file is an error.
func LoadConfig(configPath string) (MakdoConfig, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config file at %s, using defaults", configPath)
			return applyEnvOverrides(config), nil
		}
		return MakdoConfig{}, err
	}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return MakdoConfig{}, fmt.Errorf("error loading config from %s: %w", configPath, err)
	}

	config = applyDefaults(config)
	config = applyEnvOverrides(config)

	logging.Info("ConfigLoader", "Loaded configuration from %s (%d cluster(s))", configPath, len(config.Clusters))
	return config, nil
}

// applyDefaults fills in zero values left by a partial config file.
func applyDefaults(c MakdoConfig) MakdoConfig {
	if c.Diagnostic.BaseURL == "" {
		c.Diagnostic.BaseURL = DefaultDiagnosticBaseURL
	}
	if c.Diagnostic.Transport == "" {
		c.Diagnostic.Transport = DefaultTransport
	}
	if c.Monitoring.SessionTTLHours == 0 {
		c.Monitoring.SessionTTLHours = DefaultSessionTTLHours
	}
	if c.Slack.Channel == "" {
		c.Slack.Channel = DefaultSlackChannel
	}
	if c.Admin.Listen == "" {
		c.Admin.Listen = DefaultAdminListen
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	return c
}

// applyEnvOverrides lets the test harness shrink the check interval and
// supply the Slack token without touching the config file.
func applyEnvOverrides(c MakdoConfig) MakdoConfig {
	if v := os.Getenv(envCheckInterval); v != "" {
		if interval, err := strconv.Atoi(v); err == nil && interval >= 0 {
			logging.Info("ConfigLoader", "Check interval overridden to %ds via %s", interval, envCheckInterval)
			c.Monitoring.CheckIntervalSeconds = interval
		} else {
			logging.Warn("ConfigLoader", "Ignoring invalid %s value %q", envCheckInterval, v)
		}
	}
	if v := os.Getenv(envBotToken); v != "" {
		c.Slack.BotToken = v
	}
	return c
}
