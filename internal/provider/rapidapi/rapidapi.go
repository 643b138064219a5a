// Package rapidapi implements a provider adapter for JSON downloader services
// exposed through RapidAPI.
package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"social-dl/internal/httputil"
	"social-dl/internal/media"
)

// Name is the provider identifier used in config.
const Name = "rapidapi"

// ErrNoKey is returned by New when no API key is configured.
var ErrNoKey = errors.New("rapidapi: no API key configured")

// Config holds RapidAPI adapter configuration.
type Config struct {
	Key      string
	Host     string
	Endpoint string
	// RPS caps outbound requests per second; 0 disables pacing.
	RPS float64
}

// Adapter calls `GET {Endpoint}?url=...` and maps the loose JSON reply.
type Adapter struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a RapidAPI adapter.
func New(cfg Config, client *http.Client) (*Adapter, error) {
	if cfg.Key == "" {
		return nil, ErrNoKey
	}
	if err := httputil.ValidateURL(cfg.Endpoint); err != nil {
		return nil, fmt.Errorf("rapidapi endpoint: %w", err)
	}

	limit := rate.Inf
	if cfg.RPS > 0 {
		limit = rate.Limit(cfg.RPS)
	}
	return &Adapter{
		cfg:     cfg,
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Name returns the provider name.
func (a *Adapter) Name() string {
	return Name
}

// Fetch queries the service for url.
func (a *Adapter) Fetch(ctx context.Context, mediaURL string) (*media.RawResult, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rapidapi pacing: %w", err)
	}

	endpoint, err := url.Parse(a.cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("rapidapi endpoint: %w", err)
	}
	q := endpoint.Query()
	q.Set("url", mediaURL)
	endpoint.RawQuery = q.Encode()

	headers := map[string]string{
		"Accept":          "application/json",
		"X-RapidAPI-Key":  a.cfg.Key,
		"X-RapidAPI-Host": a.cfg.Host,
	}
	body, err := httputil.Get(ctx, a.client, endpoint.String(), headers)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("rapidapi: invalid JSON: %w", err)
	}
	if msg := errorMessage(payload); msg != "" {
		return nil, fmt.Errorf("rapidapi: %s", msg)
	}
	return mapPayload(payload), nil
}
