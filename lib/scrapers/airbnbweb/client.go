// Package airbnbweb retrieves marketplace data by scraping the public
// Airbnb website: listing pages carry embedded JSON state that holds far
// more structure than the rendered HTML.
package airbnbweb

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"airstay-backend/lib/cache"
	"airstay-backend/lib/ratelimit"
	"airstay-backend/lib/stays"
	"airstay-backend/lib/telemetry"
)

var tracer = otel.Tracer("lib/scrapers/airbnbweb")

type CacheTTL struct {
	Search      time.Duration
	Detail      time.Duration
	Reviews     time.Duration
	Calendar    time.Duration
	HostProfile time.Duration
}

type Config struct {
	BaseURL           string
	UserAgent         string
	RequestTimeout    time.Duration
	MaxRetries        int
	RequestsPerSecond float64
	CacheTTL          CacheTTL
}

type Client struct {
	http       *resty.Client
	limiter    *ratelimit.Limiter
	cache      cache.Cache
	config     Config
	retryDelay time.Duration
}

var _ stays.Client = (*Client)(nil)

func New(config Config, store cache.Cache) *Client {
	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetCookieJar(jar).
		SetHeader("User-Agent", config.UserAgent).
		SetTimeout(config.RequestTimeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	telemetry.InstrumentResty(client, "lib/scrapers/airbnbweb")

	return &Client{
		http:       client,
		limiter:    ratelimit.New(config.RequestsPerSecond),
		cache:      store,
		config:     config,
		retryDelay: 2 * time.Second,
	}
}

// fetchHTML downloads a page, retrying transport errors and 5xx responses
// with a linearly growing backoff. 404 and 429 are terminal: retrying a
// missing listing is pointless and hammering a throttled host makes the
// throttling worse.
func (c *Client) fetchHTML(ctx context.Context, pageURL string) ([]byte, error) {
	slog.Debug("fetching page", "url", pageURL)

	var lastErr error
	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.retryDelay
			slog.Debug("retrying request", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		res, err := c.http.R().SetContext(ctx).Get(pageURL)
		if err != nil {
			slog.Warn("http request failed", "err", err, "attempt", attempt)
			lastErr = stays.TransportError{Op: pageURL, Err: err}
			continue
		}

		status := res.StatusCode()
		switch {
		case res.IsSuccess():
			return res.Body(), nil
		case status == http.StatusTooManyRequests:
			slog.Warn("rate limited upstream", "url", pageURL)
			return nil, stays.ErrRateLimited
		case status == http.StatusNotFound:
			if id := listingIDFromURL(pageURL); id != "" {
				return nil, stays.NotFoundError{ListingID: id}
			}
			return nil, stays.ParseError{Reason: fmt.Sprintf("page not found (404): %s", pageURL)}
		default:
			lastErr = stays.ParseError{Reason: fmt.Sprintf("HTTP %d for %s", status, pageURL)}
		}
	}

	if lastErr == nil {
		lastErr = stays.ParseError{Reason: "all retries exhausted"}
	}
	return nil, lastErr
}

func (c *Client) Search(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	if err := params.Validate(); err != nil {
		return nil, traceErr(span, err)
	}

	cacheKey := "search:" + buildSearchCacheKey(params)
	if cached, ok := cache.GetJSON[stays.SearchResult](c.cache, cacheKey); ok {
		slog.Debug("cache hit for search", "location", params.Location)
		return cached, nil
	}

	html, err := c.fetchHTML(ctx, buildSearchURL(c.config.BaseURL, params))
	if err != nil {
		return nil, traceErr(span, err)
	}
	result, err := ParseSearchResults(html, c.config.BaseURL)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, result, c.config.CacheTTL.Search)
	return result, nil
}

func (c *Client) GetListingDetail(ctx context.Context, id string) (*stays.ListingDetail, error) {
	ctx, span := tracer.Start(ctx, "GetListingDetail")
	defer span.End()

	cacheKey := "detail:" + id
	if cached, ok := cache.GetJSON[stays.ListingDetail](c.cache, cacheKey); ok {
		slog.Debug("cache hit for listing detail", "id", id)
		return cached, nil
	}

	html, err := c.fetchHTML(ctx, fmt.Sprintf("%s/rooms/%s", c.config.BaseURL, id))
	if err != nil {
		return nil, traceErr(span, err)
	}
	detail, err := ParseListingDetail(html, id, c.config.BaseURL)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, detail, c.config.CacheTTL.Detail)
	return detail, nil
}

func (c *Client) GetReviews(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
	ctx, span := tracer.Start(ctx, "GetReviews")
	defer span.End()

	cacheKey := fmt.Sprintf("reviews:%s:%s", id, cursorOrFirst(cursor))
	if cached, ok := cache.GetJSON[stays.ReviewsPage](c.cache, cacheKey); ok {
		slog.Debug("cache hit for reviews", "id", id)
		return cached, nil
	}

	pageURL := fmt.Sprintf("%s/rooms/%s", c.config.BaseURL, id)
	if cursor != "" {
		pageURL += "?review_cursor=" + url.QueryEscape(cursor)
	}
	html, err := c.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, traceErr(span, err)
	}
	page, err := ParseReviews(html, id)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, page, c.config.CacheTTL.Reviews)
	return page, nil
}

func (c *Client) GetPriceCalendar(ctx context.Context, id string, months int) (*stays.PriceCalendar, error) {
	ctx, span := tracer.Start(ctx, "GetPriceCalendar")
	defer span.End()

	if months < 1 {
		months = 1
	}
	cacheKey := fmt.Sprintf("calendar:%s:m=%d", id, months)
	if cached, ok := cache.GetJSON[stays.PriceCalendar](c.cache, cacheKey); ok {
		slog.Debug("cache hit for calendar", "id", id)
		return cached, nil
	}

	pageURL := fmt.Sprintf("%s/rooms/%s?calendar_months=%d", c.config.BaseURL, id, months)
	html, err := c.fetchHTML(ctx, pageURL)
	if err != nil {
		return nil, traceErr(span, err)
	}
	calendar, err := ParsePriceCalendar(html, id)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, calendar, c.config.CacheTTL.Calendar)
	return calendar, nil
}

func (c *Client) GetHostProfile(ctx context.Context, listingID string) (*stays.HostProfile, error) {
	ctx, span := tracer.Start(ctx, "GetHostProfile")
	defer span.End()

	cacheKey := "host:" + listingID
	if cached, ok := cache.GetJSON[stays.HostProfile](c.cache, cacheKey); ok {
		slog.Debug("cache hit for host profile", "listing_id", listingID)
		return cached, nil
	}

	html, err := c.fetchHTML(ctx, fmt.Sprintf("%s/rooms/%s", c.config.BaseURL, listingID))
	if err != nil {
		return nil, traceErr(span, err)
	}
	profile, err := ParseHostProfile(html)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, profile, c.config.CacheTTL.HostProfile)
	return profile, nil
}

func (c *Client) GetNeighborhoodStats(ctx context.Context, params stays.SearchParams) (*stays.NeighborhoodStats, error) {
	result, err := c.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	stats := stays.ComputeNeighborhoodStats(params.Location, result.Listings)
	return &stats, nil
}

func (c *Client) GetOccupancyEstimate(ctx context.Context, id string, months int) (*stays.OccupancyEstimate, error) {
	calendar, err := c.GetPriceCalendar(ctx, id, months)
	if err != nil {
		return nil, err
	}
	estimate := stays.ComputeOccupancyEstimate(id, *calendar)
	return &estimate, nil
}

func traceErr(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func cursorOrFirst(cursor string) string {
	if cursor == "" {
		return "first"
	}
	return cursor
}

// listingIDFromURL pulls the listing ID out of a /rooms/{id} URL, dropping
// any query string.
func listingIDFromURL(pageURL string) string {
	_, after, found := strings.Cut(pageURL, "/rooms/")
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(after, "?")
	return id
}

func buildSearchURL(baseURL string, params stays.SearchParams) string {
	location := strings.ReplaceAll(params.Location, " ", "-")
	base := fmt.Sprintf("%s/s/%s/homes", baseURL, location)

	pairs := params.QueryPairs()
	if len(pairs) == 0 {
		return base
	}
	values := url.Values{}
	for _, pair := range pairs {
		values.Add(pair[0], pair[1])
	}
	return base + "?" + values.Encode()
}

func buildSearchCacheKey(params stays.SearchParams) string {
	var key strings.Builder
	key.WriteString(strings.ToLower(params.Location))
	if params.Checkin != "" {
		fmt.Fprintf(&key, ":ci=%s", params.Checkin)
	}
	if params.Checkout != "" {
		fmt.Fprintf(&key, ":co=%s", params.Checkout)
	}
	if params.Adults > 0 {
		fmt.Fprintf(&key, ":a=%d", params.Adults)
	}
	if params.Children > 0 {
		fmt.Fprintf(&key, ":ch=%d", params.Children)
	}
	if params.Infants > 0 {
		fmt.Fprintf(&key, ":inf=%d", params.Infants)
	}
	if params.Pets > 0 {
		fmt.Fprintf(&key, ":p=%d", params.Pets)
	}
	if params.MinPrice > 0 {
		fmt.Fprintf(&key, ":min=%d", params.MinPrice)
	}
	if params.MaxPrice > 0 {
		fmt.Fprintf(&key, ":max=%d", params.MaxPrice)
	}
	if params.PropertyType != "" {
		fmt.Fprintf(&key, ":pt=%s", strings.ToLower(params.PropertyType))
	}
	if params.Cursor != "" {
		fmt.Fprintf(&key, ":cur=%s", params.Cursor)
	}
	return key.String()
}
