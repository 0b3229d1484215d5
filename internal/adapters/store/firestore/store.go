package firestore

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/PabloGalante/pairview/internal/domain"
)

// Store implements the SessionStore port on Firestore: one document per
// session under the sessions collection, watched via snapshot listeners.
type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore-backed store for the given project.
func NewStore(ctx context.Context, projectID string) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("%w: projectID is required for the firestore backend", domain.ErrInvalidCredentials)
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) sessionDoc(code domain.PairingCode) *firestore.DocumentRef {
	return s.client.Collection("sessions").Doc(string(code))
}

type sessionDoc struct {
	Response  string `firestore:"response"`
	Timestamp string `firestore:"timestamp"`
}

func (d sessionDoc) toRecord(code domain.PairingCode) domain.SessionRecord {
	return domain.SessionRecord{
		Code:      code,
		Response:  d.Response,
		Timestamp: d.Timestamp,
	}
}

func (s *Store) GetSession(ctx context.Context, code domain.PairingCode) (*domain.SessionRecord, error) {
	snap, err := s.sessionDoc(code).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("firestore GetSession: %w", err)
	}

	var doc sessionDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("firestore GetSession decode: %w", err)
	}

	rec := doc.toRecord(code)
	return &rec, nil
}

// WatchSession watches the session document through a snapshot
// listener. The first snapshot is the current state and only acks the
// subscription; every later one is surfaced as an update event.
func (s *Store) WatchSession(ctx context.Context, code domain.PairingCode) (domain.Subscription, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	sub := &subscription{
		iter:    s.sessionDoc(code).Snapshots(watchCtx),
		cancel:  cancel,
		decode:  recordFromSnapshot(code),
		updates: make(chan domain.SessionRecord, 16),
		status:  make(chan domain.SubscriptionStatus, 4),
		done:    make(chan struct{}),
	}

	go sub.loop()

	return sub, nil
}

// snapshotIterator is the slice of the Firestore snapshot stream the
// watch loop uses; *firestore.DocumentSnapshotIterator satisfies it.
type snapshotIterator interface {
	Next() (*firestore.DocumentSnapshot, error)
	Stop()
}

// recordFromSnapshot builds the decoder for one watched session.
// Non-existent or undecodable snapshots are skipped, not fatal.
func recordFromSnapshot(code domain.PairingCode) func(*firestore.DocumentSnapshot) (domain.SessionRecord, bool) {
	return func(snap *firestore.DocumentSnapshot) (domain.SessionRecord, bool) {
		if !snap.Exists() {
			return domain.SessionRecord{}, false
		}
		var doc sessionDoc
		if err := snap.DataTo(&doc); err != nil {
			return domain.SessionRecord{}, false
		}
		return doc.toRecord(code), true
	}
}

type subscription struct {
	iter    snapshotIterator
	cancel  context.CancelFunc
	decode  func(*firestore.DocumentSnapshot) (domain.SessionRecord, bool)
	updates chan domain.SessionRecord
	status  chan domain.SubscriptionStatus

	closeOnce sync.Once
	done      chan struct{}
}

func (s *subscription) Updates() <-chan domain.SessionRecord { return s.updates }

func (s *subscription) Status() <-chan domain.SubscriptionStatus { return s.status }

func (s *subscription) loop() {
	defer func() {
		close(s.updates)
		close(s.status)
	}()

	first := true
	for {
		snap, err := s.iter.Next()
		if err != nil {
			if err == iterator.Done || status.Code(err) == codes.Canceled {
				s.emitStatus(domain.SubscriptionClosed)
			} else {
				s.emitStatus(domain.SubscriptionChannelError)
			}
			return
		}

		if first {
			first = false
			s.emitStatus(domain.SubscriptionSubscribed)
			continue
		}

		rec, ok := s.decode(snap)
		if !ok {
			continue
		}

		// The consumer may already be gone; Close must still be able to
		// free a loop parked on a full buffer.
		select {
		case s.updates <- rec:
		case <-s.done:
			return
		}
	}
}

func (s *subscription) emitStatus(st domain.SubscriptionStatus) {
	select {
	case s.status <- st:
	default:
	}
}

func (s *subscription) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()
		s.iter.Stop()
	})
	return nil
}
