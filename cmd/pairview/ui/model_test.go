package ui

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PabloGalante/pairview/internal/adapters/store/memory"
	"github.com/PabloGalante/pairview/internal/app/pairing"
	"github.com/PabloGalante/pairview/internal/domain"
)

func TestDigitsOnly(t *testing.T) {
	if err := digitsOnly("1234"); err != nil {
		t.Fatalf("digits rejected: %v", err)
	}
	if err := digitsOnly("12a4"); err == nil {
		t.Fatalf("expected letters to be rejected")
	}
}

func TestStatusText(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrMalformedCode, "Please enter a valid 4-digit code."},
		{domain.ErrSessionNotFound, "Invalid code or session not started."},
		{domain.ErrMissingCredentials, "Missing store configuration."},
	}

	for _, tc := range cases {
		if got := statusText(tc.err); got != tc.want {
			t.Fatalf("statusText(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}

// watchCountingStore counts WatchSession calls so a test can tell
// whether the subscription was opened inside Update or by a command.
type watchCountingStore struct {
	domain.SessionStore
	watches atomic.Int64
}

func (s *watchCountingStore) WatchSession(ctx context.Context, code domain.PairingCode) (domain.Subscription, error) {
	s.watches.Add(1)
	return s.SessionStore.WatchSession(ctx, code)
}

func TestVerifiedOpensSubscriptionInCommand(t *testing.T) {
	backing := memory.NewStore()
	backing.Seed(domain.SessionRecord{Code: "5678"})
	store := &watchCountingStore{SessionStore: backing}

	m := NewModel(context.Background(), pairing.NewService(backing), store, "")

	updated, cmd := m.Update(verifiedMsg{session: &pairing.VerifiedSession{Code: "5678"}})
	model := updated.(Model)
	if model.view != viewChat {
		t.Fatalf("expected chat view after verification, got %d", model.view)
	}
	if got := store.watches.Load(); got != 0 {
		t.Fatalf("Update opened the subscription itself, watches = %d", got)
	}
	if cmd == nil {
		t.Fatalf("expected a command that opens the subscription")
	}

	msg := cmd()
	if _, ok := msg.(relayStartedMsg); !ok {
		t.Fatalf("expected relayStartedMsg from the command, got %T", msg)
	}
	if got := store.watches.Load(); got != 1 {
		t.Fatalf("command should open exactly one subscription, got %d", got)
	}
	model.relay.Stop()
}

func TestRenderFeedPlaceholder(t *testing.T) {
	feed := domain.NewFeed()

	out := renderFeed(feed)
	if !strings.Contains(out, "Waiting for updates...") {
		t.Fatalf("empty feed should render the waiting placeholder, got %q", out)
	}

	feed.Append(domain.Message{ID: "a", Text: "Hello", Timestamp: "10:02"})

	out = renderFeed(feed)
	if strings.Contains(out, "Waiting for updates...") {
		t.Fatalf("placeholder should disappear after the first message")
	}
	if !strings.Contains(out, "Hello") || !strings.Contains(out, "10:02") {
		t.Fatalf("rendered feed missing the message: %q", out)
	}
}
