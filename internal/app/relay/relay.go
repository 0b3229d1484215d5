// Package relay turns a verified session's change subscription into an
// ordered chat feed, tracking the connection state the UI displays.
package relay

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PabloGalante/pairview/internal/domain"
	"github.com/PabloGalante/pairview/internal/observability"
)

// EventKind says what changed on the relay.
type EventKind int

const (
	EventMessage EventKind = iota
	EventStatus
)

// Event is the notification consumers (the TUI) receive whenever a
// message is appended or the connection status flips.
type Event struct {
	Kind    EventKind
	Message domain.Message
	Status  domain.ConnectionStatus
}

// Relay owns the feed and connection status for one paired session.
// One Start per instance; a new pairing means a new Relay.
type Relay struct {
	store domain.SessionStore
	feed  *domain.Feed
	now   func() time.Time

	mu      sync.Mutex
	status  domain.ConnectionStatus
	sub     domain.Subscription
	started bool

	events   chan Event
	done     chan struct{}
	stopOnce sync.Once
}

func New(store domain.SessionStore) *Relay {
	return &Relay{
		store:  store,
		feed:   domain.NewFeed(),
		now:    time.Now,
		status: domain.StatusDisconnected,
		events: make(chan Event, 32),
		done:   make(chan struct{}),
	}
}

// Feed exposes the append-only message list for the current pairing.
func (r *Relay) Feed() *domain.Feed {
	return r.feed
}

// Status returns the current connection state.
func (r *Relay) Status() domain.ConnectionStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.status
}

// Events delivers change notifications in the order they happened. The
// channel is closed once the relay's loop has exited, so consumers
// waiting for the next event are released after Stop.
func (r *Relay) Events() <-chan Event {
	return r.events
}

// Start opens the change subscription for code and begins relaying.
// Must only be called after pairing verification succeeded, and at most
// once per Relay.
func (r *Relay) Start(ctx context.Context, code domain.PairingCode) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return errors.New("relay already started")
	}
	r.started = true
	r.mu.Unlock()

	sub, err := r.store.WatchSession(ctx, code)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.sub = sub
	r.mu.Unlock()

	go r.loop(ctx, code, sub)

	return nil
}

func (r *Relay) loop(ctx context.Context, code domain.PairingCode, sub domain.Subscription) {
	log := observability.LoggerFromContext(ctx).With("code", code)

	// The loop is the only sender on events, so it closes the channel
	// when it exits.
	defer close(r.events)

	for {
		select {
		case <-r.done:
			return

		case rec, ok := <-sub.Updates():
			if !ok {
				r.setStatus(domain.StatusDisconnected)
				return
			}
			r.handleUpdate(log, code, rec)

		case st, ok := <-sub.Status():
			if !ok {
				r.setStatus(domain.StatusDisconnected)
				return
			}
			switch st {
			case domain.SubscriptionSubscribed:
				log.Info("subscription established")
				r.setStatus(domain.StatusConnected)
			case domain.SubscriptionClosed, domain.SubscriptionChannelError:
				// No automatic resubscription: the indicator goes red and
				// stays red until the user re-pairs.
				log.Warn("subscription dropped", "signal", st)
				r.setStatus(domain.StatusDisconnected)
			}
		}
	}
}

// handleUpdate relays one change event. Updates for another code are
// discarded even though the subscription is server-filtered, and rows
// whose response has not been populated yet are not messages.
func (r *Relay) handleUpdate(log *slog.Logger, code domain.PairingCode, rec domain.SessionRecord) {
	if rec.Code != code {
		log.Debug("dropping update for foreign session", "got", rec.Code)
		return
	}
	if rec.Response == "" {
		log.Debug("dropping update without response")
		return
	}

	ts := rec.Timestamp
	if ts == "" {
		ts = r.now().Format("15:04:05")
	}

	msg := domain.Message{
		ID:        domain.MessageID(uuid.NewString()),
		Text:      rec.Response,
		Timestamp: ts,
	}

	r.feed.Append(msg)
	r.emit(Event{Kind: EventMessage, Message: msg})
}

func (r *Relay) setStatus(st domain.ConnectionStatus) {
	r.mu.Lock()
	changed := r.status != st
	r.status = st
	r.mu.Unlock()

	if changed {
		r.emit(Event{Kind: EventStatus, Status: st})
	}
}

func (r *Relay) emit(ev Event) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// Stop tears the subscription down and discards anything still in
// flight. The feed keeps the messages relayed so far.
func (r *Relay) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)

		r.mu.Lock()
		sub := r.sub
		r.status = domain.StatusDisconnected
		r.mu.Unlock()

		if sub != nil {
			_ = sub.Close()
		}
	})
}
