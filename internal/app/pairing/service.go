package pairing

import (
	"context"
	"unicode/utf8"

	"github.com/PabloGalante/pairview/internal/domain"
	"github.com/PabloGalante/pairview/internal/observability"
)

// Service gates the client: until Verify succeeds for a code, no
// subscription is opened and no message exists.
type Service struct {
	store domain.SessionStore
}

func NewService(store domain.SessionStore) *Service {
	return &Service{store: store}
}

// VerifiedSession proves a pairing code matched a live session. Nothing
// beyond the code itself is retained.
type VerifiedSession struct {
	Code domain.PairingCode
}

// Verify checks that a session with the entered code exists. Codes
// shorter than 4 characters are rejected locally without touching the
// store; otherwise exactly one point lookup is issued. A store error
// and a missing row both surface as ErrSessionNotFound.
func (s *Service) Verify(ctx context.Context, code string) (*VerifiedSession, error) {
	log := observability.LoggerFromContext(ctx).With("code", code)

	if utf8.RuneCountInString(code) < 4 {
		return nil, domain.ErrMalformedCode
	}

	if _, err := s.store.GetSession(ctx, domain.PairingCode(code)); err != nil {
		// Keep the real cause in the logs even though the caller only
		// sees the collapsed outcome.
		log.Warn("pairing verification failed", "error", err)
		return nil, domain.ErrSessionNotFound
	}

	log.Info("pairing verified")

	return &VerifiedSession{Code: domain.PairingCode(code)}, nil
}
