package airbnbgql

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"airstay-backend/lib/stays"
)

// apiKeyProvider harvests the public API key embedded in the homepage HTML
// and caches it. The key rotates rarely, so a TTL avoids refetching the
// homepage on every call while still recovering from a rotation.
type apiKeyProvider struct {
	http    *resty.Client
	baseURL string
	ttl     time.Duration

	mu        sync.RWMutex
	key       string
	fetchedAt time.Time
}

func newAPIKeyProvider(http *resty.Client, baseURL string, ttl time.Duration) *apiKeyProvider {
	return &apiKeyProvider{http: http, baseURL: baseURL, ttl: ttl}
}

func (p *apiKeyProvider) Get(ctx context.Context) (string, error) {
	p.mu.RLock()
	if p.key != "" && time.Since(p.fetchedAt) < p.ttl {
		key := p.key
		p.mu.RUnlock()
		return key, nil
	}
	p.mu.RUnlock()

	slog.Debug("fetching api key from homepage")
	res, err := p.http.R().SetContext(ctx).Get(p.baseURL)
	if err != nil {
		return "", stays.TransportError{Op: "api key fetch", Err: err}
	}

	key, ok := extractAPIKey(res.String())
	if !ok {
		return "", stays.ParseError{Reason: "could not extract API key from homepage"}
	}

	p.mu.Lock()
	p.key = key
	p.fetchedAt = time.Now()
	p.mu.Unlock()
	return key, nil
}

// extractAPIKey pulls the key out of the `"api_config":{"key":"<KEY>"`
// blob the homepage embeds in a script tag.
func extractAPIKey(html string) (string, bool) {
	const marker = `"api_config":{"key":"`
	_, after, found := strings.Cut(html, marker)
	if !found {
		return "", false
	}
	key, _, found := strings.Cut(after, `"`)
	if !found || key == "" {
		return "", false
	}
	return key, true
}
