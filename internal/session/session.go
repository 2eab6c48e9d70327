package session

import "time"

// ConnectivityStatus records the outcome of the creation-time probe. It is
// set once and never re-validated automatically.
type ConnectivityStatus string

const (
	StatusConnected ConnectivityStatus = "connected"
	StatusWarning   ConnectivityStatus = "warning"
	StatusError     ConnectivityStatus = "error"
)

// Session is an active cluster session. Sessions are immutable after
// creation; they go away only through explicit deletion or expiry.
type Session struct {
	// Token is the unique opaque lookup key, generated by the issuer.
	Token string

	// ClusterName is the caller-supplied logical name. Not unique across
	// sessions.
	ClusterName string

	// Credential is the parsed cluster access descriptor, owned by the
	// registry for the session's lifetime.
	Credential *ClusterCredential

	// CreatedBy identifies the calling principal (an API key), used for
	// scoped listing.
	CreatedBy string

	CreatedAt time.Time
	ExpiresAt time.Time

	// Connectivity is the creation-time probe result.
	Connectivity ConnectivityStatus

	// ConnectivityMessage is the human-readable probe outcome.
	ConnectivityMessage string
}

// Expired reports whether the session is past its expiry at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Summary is the listing view of a session. It carries everything a caller
// needs to manage the session but excludes the credential secret.
type Summary struct {
	Token        string             `json:"session_token"`
	ClusterName  string             `json:"cluster_name"`
	APIServer    string             `json:"api_server"`
	Namespace    string             `json:"namespace"`
	CreatedBy    string             `json:"created_by"`
	CreatedAt    time.Time          `json:"created_at"`
	ExpiresAt    time.Time          `json:"expires_at"`
	Connectivity ConnectivityStatus `json:"connectivity_status"`
}

// Summarize produces the listing view of a session.
func (s *Session) Summarize() Summary {
	return Summary{
		Token:        s.Token,
		ClusterName:  s.ClusterName,
		APIServer:    s.Credential.APIServer,
		Namespace:    s.Credential.Namespace,
		CreatedBy:    s.CreatedBy,
		CreatedAt:    s.CreatedAt,
		ExpiresAt:    s.ExpiresAt,
		Connectivity: s.Connectivity,
	}
}
