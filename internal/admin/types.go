package admin

import "makdo/internal/session"

// CreateSessionRequest is the body of POST /sessions.
type CreateSessionRequest struct {
	ClusterName string  `json:"cluster_name"`
	Kubeconfig  string  `json:"kubeconfig"`
	Context     string  `json:"context,omitempty"`
	TTLHours    float64 `json:"ttl_hours,omitempty"`
}

// CreateSessionResponse is the body returned by POST /sessions. It carries
// enough structured detail for the caller to decide whether to retry
// issuance.
type CreateSessionResponse struct {
	Success             bool   `json:"success"`
	SessionToken        string `json:"session_token,omitempty"`
	ClusterName         string `json:"cluster_name,omitempty"`
	APIServer           string `json:"api_server,omitempty"`
	Namespace           string `json:"namespace,omitempty"`
	ConnectivityStatus  string `json:"connectivity_status,omitempty"`
	ConnectivityMessage string `json:"connectivity_message,omitempty"`
	ExpiresAt           string `json:"expires_at,omitempty"`
	Error               string `json:"error,omitempty"`
}

// ListSessionsResponse is the body of GET /sessions and GET /sessions/mine.
type ListSessionsResponse struct {
	TotalSessions int               `json:"total_sessions"`
	Sessions      []session.Summary `json:"sessions"`
}

// DeleteSessionResponse is the body of DELETE /sessions/{token}.
type DeleteSessionResponse struct {
	Success      bool   `json:"success"`
	SessionToken string `json:"session_token"`
	ClusterName  string `json:"cluster_name"`
	Deleted      bool   `json:"deleted"`
	Message      string `json:"message"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// errorResponse is the generic failure body.
type errorResponse struct {
	Detail string `json:"detail"`
}
