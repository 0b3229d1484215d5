package credentials

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// placeholderMarker flags template values that were never filled in
// (e.g. "https://YOUR_STORE.example.com"). Such values are rejected.
const placeholderMarker = "YOUR_STORE"

// configPayload is the wire shape shared by the remote config endpoint
// and the saved local file.
type configPayload struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// EndpointSource fetches credentials from a server-provided config
// endpoint. Any non-2xx status or decode failure just means "this
// source failed" and resolution falls through to the next one.
type EndpointSource struct {
	URL    string
	Client *http.Client
}

func NewEndpointSource(url string) *EndpointSource {
	return &EndpointSource{
		URL:    url,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *EndpointSource) Name() string { return "config-endpoint" }

func (s *EndpointSource) Credentials(ctx context.Context) (Credentials, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return Credentials{}, fmt.Errorf("building config request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return Credentials{}, fmt.Errorf("fetching config: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Credentials{}, fmt.Errorf("config endpoint returned status %d", resp.StatusCode)
	}

	var payload configPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Credentials{}, fmt.Errorf("decoding config response: %w", err)
	}

	return Credentials{Endpoint: payload.URL, AccessKey: payload.Key}, nil
}

// EnvSource reads statically configured credentials from the
// environment, rejecting unfilled placeholder values.
type EnvSource struct{}

func (EnvSource) Name() string { return "environment" }

func (EnvSource) Credentials(ctx context.Context) (Credentials, error) {
	var raw struct {
		URL string `env:"PAIRVIEW_STORE_URL"`
		Key string `env:"PAIRVIEW_STORE_KEY"`
	}
	if err := env.Parse(&raw); err != nil {
		return Credentials{}, fmt.Errorf("parse env: %w", err)
	}

	if strings.Contains(raw.URL, placeholderMarker) || strings.Contains(raw.Key, placeholderMarker) {
		return Credentials{}, fmt.Errorf("environment credentials still contain the %s placeholder", placeholderMarker)
	}

	return Credentials{Endpoint: raw.URL, AccessKey: raw.Key}, nil
}

// FileSource reads credentials a user saved manually, by default from
// <user config dir>/pairview/config.json.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Name() string { return "local-file" }

func (s *FileSource) Credentials(ctx context.Context) (Credentials, error) {
	path := s.Path
	if path == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return Credentials{}, fmt.Errorf("locating config dir: %w", err)
		}
		path = filepath.Join(dir, "pairview", "config.json")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Credentials{}, fmt.Errorf("reading %s: %w", path, err)
	}

	var payload configPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Credentials{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	if strings.Contains(payload.URL, placeholderMarker) || strings.Contains(payload.Key, placeholderMarker) {
		return Credentials{}, fmt.Errorf("saved credentials still contain the %s placeholder", placeholderMarker)
	}

	return Credentials{Endpoint: payload.URL, AccessKey: payload.Key}, nil
}
