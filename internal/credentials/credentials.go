package credentials

import (
	"context"
	"sync"

	"github.com/PabloGalante/pairview/internal/domain"
	"github.com/PabloGalante/pairview/internal/observability"
)

// Credentials is the opaque pair needed to reach the Session Store.
// Immutable once resolved; both fields are required.
type Credentials struct {
	Endpoint  string
	AccessKey string
}

func (c Credentials) valid() bool {
	return c.Endpoint != "" && c.AccessKey != ""
}

// Source is one place credentials may come from (remote config endpoint,
// environment, saved local file).
type Source interface {
	Name() string
	Credentials(ctx context.Context) (Credentials, error)
}

// Resolver tries its sources in order and caches the first acceptable
// pair. Resolution happens at most once per Resolver lifetime; later
// calls return the cached result without touching any source again.
type Resolver struct {
	sources []Source

	once  sync.Once
	creds Credentials
	err   error
}

func NewResolver(sources ...Source) *Resolver {
	return &Resolver{sources: sources}
}

// DefaultResolver wires the standard source order: remote config
// endpoint (if configURL is set), then environment, then the saved
// local config file.
func DefaultResolver(configURL string) *Resolver {
	sources := []Source{}
	if configURL != "" {
		sources = append(sources, NewEndpointSource(configURL))
	}
	sources = append(sources, EnvSource{}, NewFileSource(""))
	return NewResolver(sources...)
}

// Resolve returns the store credentials, trying each source in order.
// A failing source is never fatal by itself; only exhausting all of
// them yields domain.ErrMissingCredentials.
func (r *Resolver) Resolve(ctx context.Context) (Credentials, error) {
	r.once.Do(func() {
		log := observability.LoggerFromContext(ctx)

		for _, src := range r.sources {
			creds, err := src.Credentials(ctx)
			if err != nil {
				log.Debug("credential source failed", "source", src.Name(), "error", err)
				continue
			}
			if !creds.valid() {
				log.Debug("credential source incomplete", "source", src.Name())
				continue
			}

			log.Info("store credentials resolved", "source", src.Name())
			r.creds = creds
			return
		}

		r.err = domain.ErrMissingCredentials
	})

	return r.creds, r.err
}
