package relay

import (
	"sync"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// Store keeps at most one push subscription per user, in memory. A browser
// re-subscribing simply replaces the previous endpoint.
type Store struct {
	mu   sync.RWMutex
	subs map[string]webpush.Subscription
}

// NewStore creates an empty subscription store.
func NewStore() *Store {
	return &Store{subs: make(map[string]webpush.Subscription)}
}

// Set stores the subscription for a user. Returns true when the user had no
// previous subscription.
func (s *Store) Set(userID string, sub webpush.Subscription) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, existed := s.subs[userID]
	s.subs[userID] = sub
	return !existed
}

// Get returns the user's subscription, if any.
func (s *Store) Get(userID string) (webpush.Subscription, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.subs[userID]
	return sub, ok
}

// Delete removes the user's subscription. Safe to call when absent.
func (s *Store) Delete(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, userID)
}

// Len returns the number of stored subscriptions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}
