package session

import (
	"sort"
	"sync"
	"time"

	"makdo/internal/api"
	"makdo/pkg/logging"
)

// Registry is the thread-safe in-memory session store. It is the single
// source of truth for active sessions in the process; there is no
// multi-process coordination.
//
// Expiry is evaluated lazily at read time: Get and List never return an
// expired session even if it is still physically stored. Sweep exists only
// to bound memory, not for correctness.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	now      func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create stores a new session for the given credential and returns its
// token. The credential must already be parsed; ttl must be positive.
func (r *Registry) Create(clusterName string, credential *ClusterCredential, ttl time.Duration, createdBy string) (string, error) {
	if credential == nil {
		return "", api.NewValidationError("credential", "credential is required")
	}
	if ttl <= 0 {
		return "", api.NewValidationError("ttl", "must be positive, got %s", ttl)
	}

	token, err := NewToken()
	if err != nil {
		return "", err
	}

	now := r.now()
	s := &Session{
		Token:       token,
		ClusterName: clusterName,
		Credential:  credential,
		CreatedBy:   createdBy,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}

	r.mu.Lock()
	r.sessions[token] = s
	r.mu.Unlock()

	logging.Info("SessionRegistry", "Created session %s for cluster %s (ttl %s)", TokenPreview(token), clusterName, ttl)
	return token, nil
}

// Get returns the session for a token, or nil if the token was never issued
// or the session has expired. The two cases are indistinguishable on
// purpose: distinguishing them would give a token-scanning caller an oracle.
func (r *Registry) Get(token string) *Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[token]
	if !ok || s.Expired(r.now()) {
		return nil
	}
	return s
}

// List returns summaries of all non-expired sessions ordered by creation
// time ascending. A non-empty createdBy filters to sessions created by that
// principal.
func (r *Registry) List(createdBy string) []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	now := r.now()
	out := make([]Summary, 0, len(r.sessions))
	for _, s := range r.sessions {
		if s.Expired(now) {
			continue
		}
		if createdBy != "" && s.CreatedBy != createdBy {
			continue
		}
		out = append(out, s.Summarize())
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Delete removes the session for a token and reports whether a live session
// was actually removed. Deleting an unknown or expired token is not an
// error; it just returns false.
func (r *Registry) Delete(token string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[token]
	if !ok {
		return false
	}
	delete(r.sessions, token)
	if s.Expired(r.now()) {
		return false
	}

	logging.Info("SessionRegistry", "Deleted session %s for cluster %s", TokenPreview(token), s.ClusterName)
	return true
}

// setConnectivity records the creation-time probe outcome on a stored
// session. Only the issuer calls this, as the final step of creation;
// sessions are immutable afterwards.
func (r *Registry) setConnectivity(token string, status ConnectivityStatus, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[token]; ok {
		s.Connectivity = status
		s.ConnectivityMessage = message
	}
}

// Sweep physically removes expired sessions and returns the count removed.
// Optional memory bounding; Get/List are already expiry-safe without it.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	removed := 0
	for token, s := range r.sessions {
		if s.Expired(now) {
			delete(r.sessions, token)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug("SessionRegistry", "Swept %d expired session(s)", removed)
	}
	return removed
}
