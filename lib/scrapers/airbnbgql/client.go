// Package airbnbgql retrieves marketplace data through Airbnb's internal
// GraphQL API using persisted query hashes. Responses are cleaner JSON
// than scraped pages, but the hashes and the API key are unversioned
// upstream details that can rotate without notice.
package airbnbgql

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"airstay-backend/lib/cache"
	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/ratelimit"
	"airstay-backend/lib/scrapers/airbnbweb"
	"airstay-backend/lib/stays"
	"airstay-backend/lib/telemetry"
)

var tracer = otel.Tracer("lib/scrapers/airbnbgql")

// QueryHashes are the sha256 persisted-query identifiers for each GraphQL
// operation. They change when Airbnb redeploys its frontend, so they are
// configuration rather than constants.
type QueryHashes struct {
	StaysSearch             string
	StaysPdpSections        string
	StaysPdpReviews         string
	PdpAvailabilityCalendar string
	GetUserProfile          string
}

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
	RequestsPerSecond float64
	APIKeyTTL         time.Duration
	Hashes            QueryHashes
	CacheTTL          CacheTTL
}

type Client struct {
	http    *resty.Client
	limiter *ratelimit.Limiter
	cache   cache.Cache
	keys    *apiKeyProvider
	config  Config
}

var _ stays.Client = (*Client)(nil)

func New(config Config, store cache.Cache) *Client {
	jar, _ := cookiejar.New(nil)
	client := resty.New().
		SetCookieJar(jar).
		SetHeader("User-Agent", config.UserAgent).
		SetTimeout(config.RequestTimeout)
	telemetry.InstrumentResty(client, "lib/scrapers/airbnbgql")

	return &Client{
		http:    client,
		limiter: ratelimit.New(config.RequestsPerSecond),
		cache:   store,
		keys:    newAPIKeyProvider(client, config.BaseURL, config.APIKeyTTL),
		config:  config,
	}
}

func (c *Client) gqlGet(ctx context.Context, operation, hash string, variables any) (jsontree.Node, error) {
	apiKey, err := c.keys.Get(ctx)
	if err != nil {
		return jsontree.Node{}, err
	}

	varsJSON, err := json.Marshal(variables)
	if err != nil {
		return jsontree.Node{}, stays.ParseError{Reason: fmt.Sprintf("GraphQL %s: encoding variables: %v", operation, err)}
	}
	extJSON, _ := json.Marshal(persistedQuery(hash))

	if err := c.limiter.Wait(ctx); err != nil {
		return jsontree.Node{}, err
	}
	slog.Debug("graphql GET", "operation", operation)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(apiHeaders(apiKey)).
		SetQueryParams(map[string]string{
			"operationName": operation,
			"locale":        "en",
			"currency":      "USD",
			"variables":     string(varsJSON),
			"extensions":    string(extJSON),
		}).
		Get(fmt.Sprintf("%s/api/v3/%s/%s/", c.config.BaseURL, operation, hash))
	if err != nil {
		return jsontree.Node{}, stays.TransportError{Op: "GraphQL " + operation, Err: err}
	}
	return decodeResponse(operation, res)
}

// gqlPost is used for search, which requires the query in the request body.
func (c *Client) gqlPost(ctx context.Context, operation, hash string, variables any) (jsontree.Node, error) {
	apiKey, err := c.keys.Get(ctx)
	if err != nil {
		return jsontree.Node{}, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return jsontree.Node{}, err
	}
	slog.Debug("graphql POST", "operation", operation)

	res, err := c.http.R().
		SetContext(ctx).
		SetHeaders(apiHeaders(apiKey)).
		SetBody(map[string]any{
			"operationName": operation,
			"variables":     variables,
			"extensions":    persistedQuery(hash),
		}).
		Post(fmt.Sprintf("%s/api/v3/%s/%s/", c.config.BaseURL, operation, hash))
	if err != nil {
		return jsontree.Node{}, stays.TransportError{Op: "GraphQL " + operation, Err: err}
	}
	return decodeResponse(operation, res)
}

func decodeResponse(operation string, res *resty.Response) (jsontree.Node, error) {
	status := res.StatusCode()
	switch {
	case status == http.StatusTooManyRequests:
		slog.Warn("rate limited upstream", "operation", operation)
		return jsontree.Node{}, stays.ErrRateLimited
	case !res.IsSuccess():
		return jsontree.Node{}, stays.ParseError{Reason: fmt.Sprintf("GraphQL %s returned HTTP %d", operation, status)}
	}

	slog.Debug("graphql response received", "operation", operation, "body_len", len(res.Body()))
	node, err := jsontree.Parse(res.Body())
	if err != nil {
		return jsontree.Node{}, stays.ParseError{Reason: fmt.Sprintf("GraphQL %s: invalid JSON response: %v", operation, err)}
	}
	return node, nil
}

func persistedQuery(hash string) map[string]any {
	return map[string]any{
		"persistedQuery": map[string]any{
			"version":    1,
			"sha256Hash": hash,
		},
	}
}

func apiHeaders(apiKey string) map[string]string {
	return map[string]string{
		"X-Airbnb-Api-Key": apiKey,
		"Accept":           "application/json",
		"Content-Type":     "application/json",
		"Accept-Language":  "en-US,en;q=0.9",
	}
}

func (c *Client) Search(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()

	if err := params.Validate(); err != nil {
		return nil, traceErr(span, err)
	}

	cacheKey := "gql:search:" + strings.ToLower(params.Location)
	if cached, ok := cache.GetJSON[stays.SearchResult](c.cache, cacheKey); ok {
		slog.Debug("cache hit for search", "location", params.Location)
		return cached, nil
	}

	node, err := c.gqlPost(ctx, "StaysSearch", c.config.Hashes.StaysSearch, buildSearchVariables(params))
	if err != nil {
		return nil, traceErr(span, err)
	}
	result, err := parseSearchResponse(node, c.config.BaseURL)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, result, c.config.CacheTTL.Search)
	return result, nil
}

func (c *Client) GetListingDetail(ctx context.Context, id string) (*stays.ListingDetail, error) {
	ctx, span := tracer.Start(ctx, "GetListingDetail")
	defer span.End()

	cacheKey := "gql:detail:" + id
	if cached, ok := cache.GetJSON[stays.ListingDetail](c.cache, cacheKey); ok {
		slog.Debug("cache hit for listing detail", "id", id)
		return cached, nil
	}

	node, err := c.gqlGet(ctx, "StaysPdpSections", c.config.Hashes.StaysPdpSections, pdpSectionsVariables(id))
	if err != nil {
		return nil, traceErr(span, err)
	}
	detail, err := parseDetailResponse(node, id, c.config.BaseURL)
	if err != nil {
		return nil, traceErr(span, err)
	}

	cache.SetJSON(c.cache, cacheKey, detail, c.config.CacheTTL.Detail)
	return detail, nil
}

func (c *Client) GetReviews(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
	ctx, span := tracer.Start(ctx, "GetReviews")
	defer span.End()

	cacheKey := fmt.Sprintf("gql:reviews:%s:%s", id, cursorOrFirst(cursor))
	if cached, ok := cache.GetJSON[stays.ReviewsPage](c.cache, cacheKey); ok {
		slog.Debug("cache hit for reviews", "id", id)
		return cached, nil
	}

	// The cursor is a plain offset into the review list.
	offset, _ := strconv.Atoi(cursor)
	variables := map[string]any{
		"id": id,
		"pdpReviewsRequest": map[string]any{
			"fieldSelector":            "for_p3_translation_only",
			"forPreview":               false,
			"limit":                    50,
			"offset":                   strconv.Itoa(offset),
			"showingTranslationButton": false,
			"first":                    50,
			"sortingPreference":        "MOST_RECENT",
			"numberOfAdults":           "1",
			"numberOfChildren":         "0",
			"numberOfInfants":          "0",
			"numberOfPets":             "0",
			"after":                    nil,
		},
	}

	node, err := c.gqlGet(ctx, "StaysPdpReviewsQuery", c.config.Hashes.StaysPdpReviews, variables)
	if err != nil {
		return nil, traceErr(span, err)
	}
	page, err := parseReviewsResponse(node, id)
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
	cacheKey := fmt.Sprintf("gql:calendar:%s:m=%d", id, months)
	if cached, ok := cache.GetJSON[stays.PriceCalendar](c.cache, cacheKey); ok {
		slog.Debug("cache hit for calendar", "id", id)
		return cached, nil
	}

	now := time.Now().UTC()
	variables := map[string]any{
		"request": map[string]any{
			"count":     months,
			"listingId": id,
			"month":     int(now.Month()),
			"year":      now.Year(),
		},
	}

	node, err := c.gqlGet(ctx, "PdpAvailabilityCalendar", c.config.Hashes.PdpAvailabilityCalendar, variables)
	if err != nil {
		return nil, traceErr(span, err)
	}
	calendar, ok := airbnbweb.CalendarFromJSON(node, id)
	if !ok {
		return nil, traceErr(span, stays.ParseError{Reason: "could not extract calendar data from response"})
	}

	cache.SetJSON(c.cache, cacheKey, calendar, c.config.CacheTTL.Calendar)
	return calendar, nil
}

// GetHostProfile reads host data out of the listing's PDP sections. The
// dedicated GetUserProfile operation needs a user id, which callers
// holding only a listing id do not have.
func (c *Client) GetHostProfile(ctx context.Context, listingID string) (*stays.HostProfile, error) {
	ctx, span := tracer.Start(ctx, "GetHostProfile")
	defer span.End()

	cacheKey := "gql:host:" + listingID
	if cached, ok := cache.GetJSON[stays.HostProfile](c.cache, cacheKey); ok {
		slog.Debug("cache hit for host profile", "listing_id", listingID)
		return cached, nil
	}

	node, err := c.gqlGet(ctx, "StaysPdpSections", c.config.Hashes.StaysPdpSections, pdpSectionsVariables(listingID))
	if err != nil {
		return nil, traceErr(span, err)
	}
	profile, err := parseHostResponse(node)
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

// pdpSectionsVariables builds the StaysPdpSections request for a listing.
// The operation addresses listings by base64 global ids.
func pdpSectionsVariables(id string) map[string]any {
	return map[string]any{
		"id":                  encodeGlobalID("StayListing", id),
		"demandStayListingId": encodeGlobalID("DemandStayListing", id),
		"pdpSectionsRequest": map[string]any{
			"adults":                       "1",
			"bypassTargetings":             false,
			"categoryTag":                  nil,
			"children":                     nil,
			"infants":                      nil,
			"layouts":                      []string{"SIDEBAR", "SINGLE_COLUMN"},
			"pets":                         0,
			"preview":                      false,
			"previousStateCheckIn":         nil,
			"previousStateCheckOut":        nil,
			"privateBooking":               false,
			"staysBookingMigrationEnabled": false,
			"useNewSectionWrapperApi":      false,
		},
	}
}

func encodeGlobalID(typ, id string) string {
	return base64.StdEncoding.EncodeToString([]byte(typ + ":" + id))
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
