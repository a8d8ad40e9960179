package airbnbweb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"airstay-backend/lib/cache"
	"airstay-backend/lib/stays"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		UserAgent:         "test-agent",
		RequestTimeout:    5 * time.Second,
		MaxRetries:        0,
		RequestsPerSecond: 1000,
		CacheTTL: CacheTTL{
			Search:      time.Minute,
			Detail:      time.Minute,
			Reviews:     time.Minute,
			Calendar:    time.Minute,
			HostProfile: time.Minute,
		},
	}
}

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	store, err := cache.NewMemory(100)
	require.NoError(t, err)
	return New(testConfig(baseURL), store)
}

func TestBuildSearchURL(t *testing.T) {
	params := stays.SearchParams{Location: "Paris France"}
	require.Equal(t,
		"https://www.airbnb.com/s/Paris-France/homes",
		buildSearchURL("https://www.airbnb.com", params))

	params = stays.SearchParams{
		Location: "Tokyo",
		Checkin:  "2030-07-01",
		Checkout: "2030-07-05",
		Adults:   2,
	}
	url := buildSearchURL("https://www.airbnb.com", params)
	require.Contains(t, url, "checkin=2030-07-01")
	require.Contains(t, url, "checkout=2030-07-05")
	require.Contains(t, url, "adults=2")
}

func TestBuildSearchURLEncodesSpecialChars(t *testing.T) {
	params := stays.SearchParams{Location: "Paris", Cursor: "abc&def=123"}
	url := buildSearchURL("https://www.airbnb.com", params)
	require.NotContains(t, url, "cursor=abc&def=123")
	require.Contains(t, url, "cursor=abc%26def%3D123")
}

func TestBuildSearchCacheKey(t *testing.T) {
	params := stays.SearchParams{Location: "Paris"}
	require.Equal(t, "paris", buildSearchCacheKey(params))

	params = stays.SearchParams{
		Location: "Paris",
		Checkin:  "2030-06-01",
		Checkout: "2030-06-05",
		Children: 1,
		Infants:  1,
		Pets:     1,
		MinPrice: 50,
		MaxPrice: 200,
	}
	params.PropertyType = "Entire home"
	params.Cursor = "page2"
	key := buildSearchCacheKey(params)
	require.Contains(t, key, ":ci=2030-06-01")
	require.Contains(t, key, ":co=2030-06-05")
	require.Contains(t, key, ":ch=1")
	require.Contains(t, key, ":inf=1")
	require.Contains(t, key, ":p=1")
	require.Contains(t, key, ":min=50")
	require.Contains(t, key, ":max=200")
	require.Contains(t, key, ":pt=entire home")
	require.Contains(t, key, ":cur=page2")
}

func TestGetListingDetailNotFound(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.config.MaxRetries = 3

	_, err := client.GetListingDetail(context.Background(), "404404")
	var notFound stays.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "404404", notFound.ListingID)
	require.Equal(t, int32(1), requests.Load(), "404 must not be retried")
}

func TestRateLimitedNotRetried(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.config.MaxRetries = 3

	_, err := client.GetListingDetail(context.Background(), "1")
	require.ErrorIs(t, err, stays.ErrRateLimited)
	require.Equal(t, int32(1), requests.Load(), "429 must not be retried")
}

func TestServerErrorSurfacesParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GetListingDetail(context.Background(), "1")
	var parseErr stays.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestSearchValidatesParams(t *testing.T) {
	client := newTestClient(t, "http://unused.invalid")
	_, err := client.Search(context.Background(), stays.SearchParams{})
	var invalid stays.InvalidParamsError
	require.ErrorAs(t, err, &invalid)
}

func TestDetailServedFromCache(t *testing.T) {
	var requests atomic.Int32
	page := `<html><head><script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"listing":{"name":"Cached Villa","description":"nice","price":100.0}}}}
	</script></head><body></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	first, err := client.GetListingDetail(context.Background(), "55")
	require.NoError(t, err)
	require.Equal(t, "Cached Villa", first.Name)

	second, err := client.GetListingDetail(context.Background(), "55")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, int32(1), requests.Load(), "second lookup must hit the cache")
}

func TestOccupancyEstimateFromCalendar(t *testing.T) {
	body := `{"calendarMonths":[{"days":[
		{"date":"2030-06-01","available":true,"price":{"amount":100.0}},
		{"date":"2030-06-02","available":false,"price":{"amount":100.0}}
	]}],"currency":"USD"}`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	estimate, err := client.GetOccupancyEstimate(context.Background(), "9", 1)
	require.NoError(t, err)
	require.Equal(t, "9", estimate.ListingID)
	require.Equal(t, 2, estimate.TotalDays)
	require.Equal(t, 1, estimate.OccupiedDays)
}

func TestServerErrorRetriedThenSucceeds(t *testing.T) {
	page := `<html><head><script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"listing":{"name":"Retry Villa","description":"nice","price":100.0}}}}
	</script></head><body></body></html>`
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(page))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.config.MaxRetries = 2
	client.retryDelay = time.Millisecond

	detail, err := client.GetListingDetail(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, "Retry Villa", detail.Name)
	require.Equal(t, int32(3), requests.Load(), "two 500s then success")
}

func TestServerErrorRetriesExhausted(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	client.config.MaxRetries = 2
	client.retryDelay = time.Millisecond

	_, err := client.GetListingDetail(context.Background(), "7")
	var parseErr stays.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, int32(3), requests.Load(), "initial attempt plus MaxRetries")
}

func TestTransportErrorTyped(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.GetListingDetail(context.Background(), "1")
	var transportErr stays.TransportError
	require.ErrorAs(t, err, &transportErr)
	require.Contains(t, transportErr.Op, "/rooms/1")
}

func TestCalendarMonthsClamped(t *testing.T) {
	body := `{"calendarMonths":[{"days":[
		{"date":"2030-06-01","available":true,"price":{"amount":100.0}}
	]}],"currency":"USD"}`
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(body))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	calendar, err := client.GetPriceCalendar(context.Background(), "9", 0)
	require.NoError(t, err)
	require.Len(t, calendar.Days, 1)
	require.Contains(t, gotQuery, "calendar_months=1")
}
