package observability

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type ctxKey string

const (
	ctxKeyPairingCode ctxKey = "pairing_code"
)

// basic global logger, JSON output. Defaults to stderr so the TUI keeps
// stdout for itself; Init can redirect it to a file.
var logger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

// Init points the global logger at w (typically a log file while the
// terminal UI is running).
func Init(w io.Writer) {
	logger = slog.New(slog.NewJSONHandler(w, nil))
}

func Logger() *slog.Logger {
	return logger
}

// WithFields returns a logger with additional fields.
func WithFields(kv ...any) *slog.Logger {
	return logger.With(kv...)
}

// WithPairingCode stores the active pairing code in the context.
func WithPairingCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ctxKeyPairingCode, code)
}

// LoggerFromContext adds pairing_code if present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	code, _ := ctx.Value(ctxKeyPairingCode).(string)
	if code == "" {
		return logger
	}
	return logger.With("pairing_code", code)
}
