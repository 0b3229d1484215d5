// Package realtime implements the SessionStore port against a hosted
// Postgres-style backend: point lookups go through its REST layer and
// change subscriptions through its phoenix-framed websocket feed.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/PabloGalante/pairview/internal/credentials"
	"github.com/PabloGalante/pairview/internal/domain"
)

const defaultHeartbeat = 25 * time.Second

type Store struct {
	restURL   *url.URL
	socketURL *url.URL
	accessKey string
	httpc     *http.Client
	heartbeat time.Duration
}

// New builds a store handle from resolved credentials. Construction is
// pure; no network I/O happens until a lookup or subscription is made.
func New(creds credentials.Credentials) (*Store, error) {
	base, err := url.Parse(creds.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing endpoint: %v", domain.ErrInvalidCredentials, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" || base.Host == "" {
		return nil, fmt.Errorf("%w: endpoint %q must be an http(s) URL", domain.ErrInvalidCredentials, creds.Endpoint)
	}
	if creds.AccessKey == "" {
		return nil, fmt.Errorf("%w: empty access key", domain.ErrInvalidCredentials)
	}

	socket := *base
	if socket.Scheme == "https" {
		socket.Scheme = "wss"
	} else {
		socket.Scheme = "ws"
	}
	socket.Path = "/realtime/v1/websocket"

	return &Store{
		restURL:   base,
		socketURL: &socket,
		accessKey: creds.AccessKey,
		httpc:     &http.Client{Timeout: 15 * time.Second},
		heartbeat: defaultHeartbeat,
	}, nil
}

// sessionRow is the REST wire shape of one sessions row.
type sessionRow struct {
	ID        string  `json:"id"`
	Response  *string `json:"response"`
	Timestamp *string `json:"timestamp"`
}

func (r sessionRow) toRecord() domain.SessionRecord {
	rec := domain.SessionRecord{Code: domain.PairingCode(r.ID)}
	if r.Response != nil {
		rec.Response = *r.Response
	}
	if r.Timestamp != nil {
		rec.Timestamp = *r.Timestamp
	}
	return rec
}

// GetSession issues the single point lookup used by pairing
// verification: GET /rest/v1/sessions?id=eq.<code>.
func (s *Store) GetSession(ctx context.Context, code domain.PairingCode) (*domain.SessionRecord, error) {
	lookup := *s.restURL
	lookup.Path = "/rest/v1/sessions"
	q := url.Values{}
	q.Set("id", "eq."+string(code))
	q.Set("select", "*")
	lookup.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookup.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building lookup request: %w", err)
	}
	req.Header.Set("apikey", s.accessKey)
	req.Header.Set("Authorization", "Bearer "+s.accessKey)

	resp, err := s.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("session lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("session lookup returned status %d: %s", resp.StatusCode, body)
	}

	var rows []sessionRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding session row: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrSessionNotFound
	}

	rec := rows[0].toRecord()
	return &rec, nil
}
