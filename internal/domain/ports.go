package domain

import "context"

// SessionStore defines what the client needs from the remote session
// backend: a point lookup and a filtered change subscription. Backends
// (realtime websocket, Firestore, in-memory) implement both.
type SessionStore interface {
	// GetSession returns the session row for code, or ErrSessionNotFound
	// when no such row exists. Exactly one round trip.
	GetSession(ctx context.Context, code PairingCode) (*SessionRecord, error)

	// WatchSession opens a change subscription scoped to update events on
	// the row identified by code. At most one active subscription per
	// paired session; callers must Close it before opening another.
	WatchSession(ctx context.Context, code PairingCode) (Subscription, error)
}

// Subscription is a live change channel for one watched session row.
type Subscription interface {
	// Updates delivers post-update row images in arrival order. The
	// channel is closed when the subscription ends.
	Updates() <-chan SessionRecord

	// Status delivers subscription lifecycle signals (subscribed, closed,
	// channel error).
	Status() <-chan SubscriptionStatus

	// Close releases the underlying channel. Idempotent.
	Close() error
}
