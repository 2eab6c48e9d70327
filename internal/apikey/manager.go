package apikey

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"os"

	"makdo/pkg/logging"
)

// envKey is the fallback environment variable checked when no keys file is
// configured or the presented key is not in the file.
const envKey = "MAKDO_API_KEY"

// Key is one named admin API key.
type Key struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

// keysFile is the on-disk format of the keys file.
type keysFile struct {
	Keys []Key `json:"keys"`
}

// Manager validates admin API keys. Keys identify the calling principal for
// session scoping; they are distinct from per-cluster session tokens.
type Manager struct {
	keys []Key
}

// NewManager creates a manager with no file-backed keys. Validation falls
// back to the MAKDO_API_KEY environment variable.
func NewManager() *Manager {
	return &Manager{}
}

// LoadManager reads keys from a JSON file. Keys are read once at startup;
// the file is not watched.
func LoadManager(path string) (*Manager, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read keys file %s: %w", path, err)
	}

	var kf keysFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, fmt.Errorf("cannot parse keys file %s: %w", path, err)
	}

	logging.Info("ApiKeys", "Loaded %d API key(s) from %s", len(kf.Keys), path)
	return &Manager{keys: kf.Keys}, nil
}

// Validate reports whether the presented key is accepted. File-backed keys
// are checked first, then the environment fallback. Comparison is constant
// time.
func (m *Manager) Validate(presented string) bool {
	if presented == "" {
		return false
	}
	for _, k := range m.keys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(presented)) == 1 {
			return true
		}
	}
	if env := os.Getenv(envKey); env != "" {
		return subtle.ConstantTimeCompare([]byte(env), []byte(presented)) == 1
	}
	return false
}

// NameFor returns the configured name for a key, or the empty string. Used
// only for logging; never log the key itself.
func (m *Manager) NameFor(presented string) string {
	for _, k := range m.keys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(presented)) == 1 {
			return k.Name
		}
	}
	return ""
}
