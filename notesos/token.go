package notesos

import "sync"

// TokenProvider supplies the access token used as the realtime channel's
// connection parameter. Implementations must be safe for concurrent reads.
type TokenProvider interface {
	// AccessToken returns the current access token and whether one exists.
	AccessToken() (string, bool)
}

// StaticTokenProvider serves a fixed token; an empty value means no token.
type StaticTokenProvider string

func (p StaticTokenProvider) AccessToken() (string, bool) {
	return string(p), p != ""
}

// TokenStore holds the locally persisted access/refresh pair. The realtime
// client only ever reads it; mutation happens through login, refresh and
// logout flows in the REST layer.
type TokenStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

// NewTokenStore creates an empty store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// AccessToken implements TokenProvider.
func (s *TokenStore) AccessToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

// RefreshToken returns the stored refresh token, if any.
func (s *TokenStore) RefreshToken() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

// Set replaces the stored pair. An empty refresh keeps the previous one so a
// refresh response that omits it does not log the user out.
func (s *TokenStore) Set(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
}

// Clear drops both tokens.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
}
