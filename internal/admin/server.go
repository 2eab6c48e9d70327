package admin

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"makdo/internal/api"
	"makdo/internal/apikey"
	"makdo/internal/session"
	"makdo/pkg/logging"
)

// defaultTTLHours matches the original admin API default of one day.
const defaultTTLHours = 24.0

// Server is the out-of-band admin API for cluster session management. It is
// keyed by a bearer API key, which also scopes the /sessions/mine listing.
type Server struct {
	registry *session.Registry
	issuer   *session.Issuer
	keys     *apikey.Manager
	httpSrv  *http.Server
}

// NewServer creates an admin server over the given registry and issuer.
func NewServer(registry *session.Registry, issuer *session.Issuer, keys *apikey.Manager) *Server {
	return &Server{
		registry: registry,
		issuer:   issuer,
		keys:     keys,
	}
}

// Handler builds the HTTP handler. Exposed separately so tests can drive it
// through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.authenticated(s.handleCreateSession))
	mux.HandleFunc("GET /sessions", s.authenticated(s.handleListSessions))
	mux.HandleFunc("GET /sessions/mine", s.authenticated(s.handleListMySessions))
	mux.HandleFunc("DELETE /sessions/{token}", s.authenticated(s.handleDeleteSession))
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe runs the admin API until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.httpSrv = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("AdminAPI", "Listening on %s", addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

// authenticated wraps a handler with bearer-key verification. The validated
// key is passed through as the calling principal.
func (s *Server) authenticated(next func(w http.ResponseWriter, r *http.Request, callerKey string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		key, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || !s.keys.Validate(key) {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Detail: "Invalid admin API key"})
			return
		}
		next(w, r, key)
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request, callerKey string) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, CreateSessionResponse{
			Success: false,
			Error:   "Configuration error: malformed request body",
		})
		return
	}
	if req.TTLHours == 0 {
		req.TTLHours = defaultTTLHours
	}
	ttl := time.Duration(req.TTLHours * float64(time.Hour))

	result, err := s.issuer.Issue(r.Context(), req.ClusterName, []byte(req.Kubeconfig), req.Context, ttl, callerKey)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Session creation failed: " + err.Error()
		if api.IsValidation(err) {
			status = http.StatusBadRequest
			msg = "Configuration error: " + err.Error()
		}
		logging.Error("AdminAPI", err, "Session creation for cluster %s rejected", req.ClusterName)
		writeJSON(w, status, CreateSessionResponse{Success: false, Error: msg})
		return
	}

	writeJSON(w, http.StatusOK, CreateSessionResponse{
		Success:             true,
		SessionToken:        result.Token,
		ClusterName:         result.ClusterName,
		APIServer:           result.APIServer,
		Namespace:           result.Namespace,
		ConnectivityStatus:  string(result.Connectivity),
		ConnectivityMessage: result.ConnectivityMessage,
		ExpiresAt:           result.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request, _ string) {
	sessions := s.registry.List("")
	writeJSON(w, http.StatusOK, ListSessionsResponse{
		TotalSessions: len(sessions),
		Sessions:      sessions,
	})
}

func (s *Server) handleListMySessions(w http.ResponseWriter, r *http.Request, callerKey string) {
	sessions := s.registry.List(callerKey)
	writeJSON(w, http.StatusOK, ListSessionsResponse{
		TotalSessions: len(sessions),
		Sessions:      sessions,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request, _ string) {
	token := r.PathValue("token")

	clusterName := "unknown"
	if sess := s.registry.Get(token); sess != nil {
		clusterName = sess.ClusterName
	}
	deleted := s.registry.Delete(token)

	message := "Session not found or already expired"
	if deleted {
		message = "Session removed successfully"
	}
	writeJSON(w, http.StatusOK, DeleteSessionResponse{
		Success:      true,
		SessionToken: token,
		ClusterName:  clusterName,
		Deleted:      deleted,
		Message:      message,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy", Service: "makdo-admin"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("AdminAPI", err, "Failed to encode response")
	}
}
