package pairing_test

import (
	"context"
	"errors"
	"testing"

	memstore "github.com/PabloGalante/pairview/internal/adapters/store/memory"
	"github.com/PabloGalante/pairview/internal/app/pairing"
	"github.com/PabloGalante/pairview/internal/domain"
)

func TestVerifyShortCodeNeverHitsStore(t *testing.T) {
	store := memstore.NewStore()
	svc := pairing.NewService(store)

	for _, code := range []string{"", "1", "12", "123"} {
		_, err := svc.Verify(context.Background(), code)
		if !errors.Is(err, domain.ErrMalformedCode) {
			t.Fatalf("code %q: expected ErrMalformedCode, got %v", code, err)
		}
	}

	if store.Lookups() != 0 {
		t.Fatalf("expected 0 store lookups for short codes, got %d", store.Lookups())
	}
}

func TestVerifyUnknownCode(t *testing.T) {
	store := memstore.NewStore()
	svc := pairing.NewService(store)

	_, err := svc.Verify(context.Background(), "1234")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestVerifyKnownCode(t *testing.T) {
	store := memstore.NewStore()
	store.Seed(domain.SessionRecord{Code: "5678"})
	svc := pairing.NewService(store)

	session, err := svc.Verify(context.Background(), "5678")
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if session.Code != "5678" {
		t.Fatalf("expected code 5678, got %q", session.Code)
	}
	if store.Lookups() != 1 {
		t.Fatalf("expected exactly 1 store lookup, got %d", store.Lookups())
	}
}
