package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"
)

// DefaultStateTTL is how long a login challenge stays valid.
const DefaultStateTTL = 5 * time.Minute

// GenerateStateToken generates a random state token for CSRF protection.
func GenerateStateToken() (string, error) {
	b := make([]byte, 32) //nolint:mnd
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

// StateStore keeps the state tokens of pending login challenges in memory.
type StateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	states map[string]time.Time
	now    func() time.Time
}

// NewStateStore creates a state store whose tokens expire after ttl.
func NewStateStore(ttl time.Duration) *StateStore {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}

	return &StateStore{
		ttl:    ttl,
		states: make(map[string]time.Time),
		now:    time.Now,
	}
}

// New generates and stores a new state token.
func (s *StateStore) New() (string, error) {
	state, err := GenerateStateToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.states[state] = s.now().Add(s.ttl)
	s.mu.Unlock()

	return state, nil
}

// Consume removes the state token and reports whether it was known and not expired.
// A token can be consumed once.
func (s *StateStore) Consume(state string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiration, ok := s.states[state]
	if !ok {
		return ErrInvalidState
	}

	delete(s.states, state)

	if s.now().After(expiration) {
		return ErrInvalidState
	}

	return nil
}

// Len returns the number of pending state tokens.
func (s *StateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.states)
}

// Cleanup removes expired state tokens.
func (s *StateStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for state, expiration := range s.states {
		if now.After(expiration) {
			delete(s.states, state)
		}
	}
}

// RunJanitor periodically removes expired state tokens until ctx is done.
func (s *StateStore) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
