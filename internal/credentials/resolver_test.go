package credentials_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PabloGalante/pairview/internal/credentials"
	"github.com/PabloGalante/pairview/internal/domain"
)

type fakeSource struct {
	name  string
	creds credentials.Credentials
	err   error
	calls int
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Credentials(ctx context.Context) (credentials.Credentials, error) {
	f.calls++
	return f.creds, f.err
}

func TestResolveFirstSourceWins(t *testing.T) {
	first := &fakeSource{name: "first", creds: credentials.Credentials{Endpoint: "https://a.example", AccessKey: "key-a"}}
	second := &fakeSource{name: "second", creds: credentials.Credentials{Endpoint: "https://b.example", AccessKey: "key-b"}}

	r := credentials.NewResolver(first, second)

	creds, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if creds.Endpoint != "https://a.example" {
		t.Fatalf("expected first source's endpoint, got %q", creds.Endpoint)
	}
	if second.calls != 0 {
		t.Fatalf("lower-priority source was invoked %d times after acceptance", second.calls)
	}
}

func TestResolveFallsThroughFailedSources(t *testing.T) {
	failing := &fakeSource{name: "failing", err: errors.New("boom")}
	incomplete := &fakeSource{name: "incomplete", creds: credentials.Credentials{Endpoint: "https://c.example"}}
	good := &fakeSource{name: "good", creds: credentials.Credentials{Endpoint: "https://d.example", AccessKey: "key-d"}}

	r := credentials.NewResolver(failing, incomplete, good)

	creds, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if creds.AccessKey != "key-d" {
		t.Fatalf("expected fallthrough to the good source, got %+v", creds)
	}
}

func TestResolveAllSourcesExhausted(t *testing.T) {
	r := credentials.NewResolver(&fakeSource{name: "only", err: errors.New("boom")})

	_, err := r.Resolve(context.Background())
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestResolveIsMemoized(t *testing.T) {
	src := &fakeSource{name: "src", creds: credentials.Credentials{Endpoint: "https://e.example", AccessKey: "key-e"}}
	r := credentials.NewResolver(src)

	for i := 0; i < 3; i++ {
		if _, err := r.Resolve(context.Background()); err != nil {
			t.Fatalf("Resolve failed: %v", err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("expected exactly 1 source call, got %d", src.calls)
	}
}

func TestEndpointSourceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	fallback := &fakeSource{name: "fallback", creds: credentials.Credentials{Endpoint: "https://f.example", AccessKey: "key-f"}}
	r := credentials.NewResolver(credentials.NewEndpointSource(srv.URL), fallback)

	creds, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if creds.AccessKey != "key-f" {
		t.Fatalf("expected fallback credentials after HTTP 500, got %+v", creds)
	}
}

func TestEndpointSourceSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"url":"https://store.example","key":"secret"}`))
	}))
	defer srv.Close()

	src := credentials.NewEndpointSource(srv.URL)

	creds, err := src.Credentials(context.Background())
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if creds.Endpoint != "https://store.example" || creds.AccessKey != "secret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}

func TestEnvSourceRejectsPlaceholder(t *testing.T) {
	t.Setenv("PAIRVIEW_STORE_URL", "https://YOUR_STORE.example.com")
	t.Setenv("PAIRVIEW_STORE_KEY", "secret")

	_, err := credentials.EnvSource{}.Credentials(context.Background())
	if err == nil {
		t.Fatalf("expected placeholder values to be rejected")
	}
}

func TestEnvSource(t *testing.T) {
	t.Setenv("PAIRVIEW_STORE_URL", "https://store.example")
	t.Setenv("PAIRVIEW_STORE_KEY", "secret")

	creds, err := credentials.EnvSource{}.Credentials(context.Background())
	if err != nil {
		t.Fatalf("Credentials failed: %v", err)
	}
	if creds.Endpoint != "https://store.example" || creds.AccessKey != "secret" {
		t.Fatalf("unexpected credentials: %+v", creds)
	}
}
