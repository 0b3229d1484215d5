package memory

import (
	"context"
	"sync"

	"github.com/PabloGalante/pairview/internal/domain"
)

// Store is an in-process SessionStore used for local development and as
// the test fake. Change events are injected with PushUpdate/Deliver and
// lifecycle signals with SetStatus.
type Store struct {
	mu       sync.RWMutex
	sessions map[domain.PairingCode]domain.SessionRecord
	subs     map[domain.PairingCode][]*subscription
	lookups  int
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[domain.PairingCode]domain.SessionRecord),
		subs:     make(map[domain.PairingCode][]*subscription),
	}
}

// Seed installs a session row, as if the assistant side had created it.
func (s *Store) Seed(rec domain.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[rec.Code] = rec
}

func (s *Store) GetSession(ctx context.Context, code domain.PairingCode) (*domain.SessionRecord, error) {
	s.mu.Lock()
	s.lookups++
	rec, ok := s.sessions[code]
	s.mu.Unlock()

	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &rec, nil
}

// Lookups reports how many point lookups were issued. Tests use it to
// assert that short codes never reach the store.
func (s *Store) Lookups() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookups
}

func (s *Store) WatchSession(ctx context.Context, code domain.PairingCode) (domain.Subscription, error) {
	sub := &subscription{
		updates: make(chan domain.SessionRecord, 16),
		status:  make(chan domain.SubscriptionStatus, 4),
	}

	// Real backends ack the subscription asynchronously; the fake acks
	// immediately.
	sub.status <- domain.SubscriptionSubscribed

	s.mu.Lock()
	s.subs[code] = append(s.subs[code], sub)
	s.mu.Unlock()

	return sub, nil
}

// PushUpdate updates the stored row and fans the post-update image out
// to the subscribers watching that code.
func (s *Store) PushUpdate(code domain.PairingCode, response, timestamp string) {
	rec := domain.SessionRecord{Code: code, Response: response, Timestamp: timestamp}

	s.mu.Lock()
	s.sessions[code] = rec
	subs := append([]*subscription(nil), s.subs[code]...)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(rec)
	}
}

// Deliver pushes an arbitrary record to the subscribers watching code,
// bypassing the server-side filter. Tests use it to simulate a shared
// channel leaking another session's events.
func (s *Store) Deliver(code domain.PairingCode, rec domain.SessionRecord) {
	s.mu.RLock()
	subs := append([]*subscription(nil), s.subs[code]...)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.deliver(rec)
	}
}

// SetStatus injects a lifecycle signal into every subscription watching
// code (e.g. a simulated channel error).
func (s *Store) SetStatus(code domain.PairingCode, status domain.SubscriptionStatus) {
	s.mu.RLock()
	subs := append([]*subscription(nil), s.subs[code]...)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.signal(status)
	}
}

type subscription struct {
	updates chan domain.SessionRecord
	status  chan domain.SubscriptionStatus

	mu     sync.Mutex
	closed bool
}

func (s *subscription) Updates() <-chan domain.SessionRecord { return s.updates }

func (s *subscription) Status() <-chan domain.SubscriptionStatus { return s.status }

func (s *subscription) deliver(rec domain.SessionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.updates <- rec
}

func (s *subscription) signal(status domain.SubscriptionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.status <- status
}

func (s *subscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	close(s.updates)
	close(s.status)
	return nil
}
