package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/PabloGalante/pairview/internal/domain"
	"github.com/PabloGalante/pairview/internal/observability"
)

// WatchSession dials the websocket feed and joins the changes topic
// with a server-side filter on the session id. Lifecycle signals and
// post-update row images are surfaced on the returned subscription.
func (s *Store) WatchSession(ctx context.Context, code domain.PairingCode) (domain.Subscription, error) {
	dial := *s.socketURL
	q := url.Values{}
	q.Set("apikey", s.accessKey)
	q.Set("vsn", "1.0.0")
	dial.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, dial.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("dialing change feed: %w", err)
	}

	sub := &subscription{
		conn:      conn,
		code:      code,
		updates:   make(chan domain.SessionRecord, 16),
		status:    make(chan domain.SubscriptionStatus, 4),
		done:      make(chan struct{}),
		heartbeat: s.heartbeat,
	}

	if err := sub.join(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("joining change feed: %w", err)
	}

	go sub.readLoop(ctx)
	go sub.heartbeatLoop()

	return sub, nil
}

type subscription struct {
	conn      *websocket.Conn
	code      domain.PairingCode
	updates   chan domain.SessionRecord
	status    chan domain.SubscriptionStatus
	heartbeat time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	done      chan struct{}
}

func (s *subscription) Updates() <-chan domain.SessionRecord { return s.updates }

func (s *subscription) Status() <-chan domain.SubscriptionStatus { return s.status }

// join sends the phx_join frame carrying the postgres_changes filter
// for this session row. The subscribed signal arrives later as the
// server's phx_reply.
func (s *subscription) join() error {
	payload, err := json.Marshal(joinPayload{
		Config: joinConfig{
			PostgresChanges: []changeFilter{{
				Event:  "UPDATE",
				Schema: "public",
				Table:  "sessions",
				Filter: "id=eq." + string(s.code),
			}},
		},
	})
	if err != nil {
		return err
	}

	return s.write(frame{
		Topic:   topicChanges,
		Event:   eventJoin,
		Payload: payload,
		Ref:     "1",
	})
}

func (s *subscription) write(f frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	return s.conn.WriteJSON(f)
}

// readLoop translates incoming frames into subscription signals and row
// images until the connection dies or Close is called.
func (s *subscription) readLoop(ctx context.Context) {
	log := observability.LoggerFromContext(ctx).With("code", s.code)

	defer func() {
		close(s.updates)
		close(s.status)
	}()

	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			select {
			case <-s.done:
				// Close() tore the connection down on purpose.
				s.emitStatus(domain.SubscriptionClosed)
			default:
				log.Warn("change feed read failed", "error", err)
				s.emitStatus(domain.SubscriptionChannelError)
			}
			return
		}

		switch f.Event {
		case eventReply:
			if f.Topic != topicChanges {
				continue
			}
			var reply replyPayload
			if err := json.Unmarshal(f.Payload, &reply); err != nil || reply.Status != "ok" {
				log.Warn("join rejected", "payload", string(f.Payload))
				s.emitStatus(domain.SubscriptionChannelError)
				return
			}
			s.emitStatus(domain.SubscriptionSubscribed)

		case eventChanges:
			var change changePayload
			if err := json.Unmarshal(f.Payload, &change); err != nil {
				log.Warn("malformed change payload", "error", err)
				continue
			}
			select {
			case s.updates <- change.Data.Record.toRecord():
			case <-s.done:
				return
			}

		case eventClose:
			s.emitStatus(domain.SubscriptionClosed)
			return

		case eventError:
			s.emitStatus(domain.SubscriptionChannelError)
			return
		}
	}
}

func (s *subscription) heartbeatLoop() {
	ticker := time.NewTicker(s.heartbeat)
	defer ticker.Stop()

	ref := 2
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			ref++
			err := s.write(frame{
				Topic:   topicHeartbeat,
				Event:   eventHeartbeat,
				Payload: json.RawMessage(`{}`),
				Ref:     fmt.Sprintf("%d", ref),
			})
			if err != nil {
				// The read loop will observe the dead connection and
				// report the channel error.
				return
			}
		}
	}
}

// emitStatus never blocks: the status channel is buffered and a
// consumer that stopped draining should not wedge the read loop.
func (s *subscription) emitStatus(st domain.SubscriptionStatus) {
	select {
	case s.status <- st:
	default:
	}
}

// Close releases the websocket. Idempotent; safe to call from the relay
// teardown path while the read loop is blocked.
func (s *subscription) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.done)
		err = s.conn.Close()
	})
	return err
}
