// Package stays wires the marketplace data sources into a single client:
// configuration defaults, the shared response cache, and the fallback
// ordering between the GraphQL backend and the HTML scraper live here.
package stays

import (
	"time"

	"dario.cat/mergo"

	"airstay-backend/lib/scrapers/airbnbgql"
	"airstay-backend/lib/scrapers/airbnbweb"
)

type Config struct {
	Scraper ScraperConfig `json:"scraper"`
	Cache   CacheConfig   `json:"cache"`
}

type ScraperConfig struct {
	BaseURL            string        `json:"base_url"`
	UserAgent          string        `json:"user_agent"`
	RateLimitPerSecond float64       `json:"rate_limit_per_second"`
	RequestTimeoutSecs int           `json:"request_timeout_secs"`
	MaxRetries         int           `json:"max_retries"`
	APIKeyCacheSecs    int           `json:"api_key_cache_secs"`
	GraphQLEnabled     *bool         `json:"graphql_enabled"`
	GraphQLHashes      GraphQLHashes `json:"graphql_hashes"`
}

// GraphQLHashes identify the persisted queries the GraphQL backend calls.
// They rotate when the upstream frontend redeploys, hence configurable.
type GraphQLHashes struct {
	StaysSearch             string `json:"stays_search"`
	StaysPdpSections        string `json:"stays_pdp_sections"`
	StaysPdpReviews         string `json:"stays_pdp_reviews"`
	PdpAvailabilityCalendar string `json:"pdp_availability_calendar"`
	GetUserProfile          string `json:"get_user_profile"`
}

type CacheConfig struct {
	MaxEntries         int `json:"max_entries"`
	SearchTTLSecs      int `json:"search_ttl_secs"`
	DetailTTLSecs      int `json:"detail_ttl_secs"`
	ReviewsTTLSecs     int `json:"reviews_ttl_secs"`
	CalendarTTLSecs    int `json:"calendar_ttl_secs"`
	HostProfileTTLSecs int `json:"host_profile_ttl_secs"`
}

func ptr[T any](v T) *T { return &v }

func DefaultConfig() Config {
	return Config{
		Scraper: ScraperConfig{
			BaseURL:            "https://www.airbnb.com",
			UserAgent:          "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			RateLimitPerSecond: 0.5,
			RequestTimeoutSecs: 30,
			MaxRetries:         2,
			APIKeyCacheSecs:    86400,
			GraphQLEnabled:     ptr(true),
			GraphQLHashes: GraphQLHashes{
				StaysSearch:             "d4d9503616dc72ab220ed8dcf17f166816dccb2593e7b4625c91c3fce3a3b3d6",
				StaysPdpSections:        "80c7889b4b0027d99ffea830f6c0d4911a6e863a957cbe1044823f0fc746bf1f",
				StaysPdpReviews:         "dec1c8061483e78373602047450322fd474e79ba9afa8d3dbbc27f504030f91d",
				PdpAvailabilityCalendar: "8f08e03c7bd16fcad3c92a3592c19a8b559a0d0855a84028d1163d4733ed9ade",
				GetUserProfile:          "a56d8909f271740ccfef23dd6c34d098f194f4a6e7157f244814c5610b8ad76a",
			},
		},
		Cache: CacheConfig{
			MaxEntries:         500,
			SearchTTLSecs:      900,
			DetailTTLSecs:      3600,
			ReviewsTTLSecs:     3600,
			CalendarTTLSecs:    1800,
			HostProfileTTLSecs: 3600,
		},
	}
}

// WithDefaults returns the config with every unset field filled in from
// DefaultConfig, so config files only need to state overrides.
func (c Config) WithDefaults() (Config, error) {
	err := mergo.Merge(&c, DefaultConfig())
	return c, err
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

func (c Config) web() airbnbweb.Config {
	return airbnbweb.Config{
		BaseURL:           c.Scraper.BaseURL,
		UserAgent:         c.Scraper.UserAgent,
		RequestTimeout:    seconds(c.Scraper.RequestTimeoutSecs),
		MaxRetries:        c.Scraper.MaxRetries,
		RequestsPerSecond: c.Scraper.RateLimitPerSecond,
		CacheTTL: airbnbweb.CacheTTL{
			Search:      seconds(c.Cache.SearchTTLSecs),
			Detail:      seconds(c.Cache.DetailTTLSecs),
			Reviews:     seconds(c.Cache.ReviewsTTLSecs),
			Calendar:    seconds(c.Cache.CalendarTTLSecs),
			HostProfile: seconds(c.Cache.HostProfileTTLSecs),
		},
	}
}

func (c Config) graphql() airbnbgql.Config {
	return airbnbgql.Config{
		BaseURL:           c.Scraper.BaseURL,
		UserAgent:         c.Scraper.UserAgent,
		RequestTimeout:    seconds(c.Scraper.RequestTimeoutSecs),
		RequestsPerSecond: c.Scraper.RateLimitPerSecond,
		APIKeyTTL:         seconds(c.Scraper.APIKeyCacheSecs),
		Hashes: airbnbgql.QueryHashes{
			StaysSearch:             c.Scraper.GraphQLHashes.StaysSearch,
			StaysPdpSections:        c.Scraper.GraphQLHashes.StaysPdpSections,
			StaysPdpReviews:         c.Scraper.GraphQLHashes.StaysPdpReviews,
			PdpAvailabilityCalendar: c.Scraper.GraphQLHashes.PdpAvailabilityCalendar,
			GetUserProfile:          c.Scraper.GraphQLHashes.GetUserProfile,
		},
		CacheTTL: airbnbgql.CacheTTL{
			Search:      seconds(c.Cache.SearchTTLSecs),
			Detail:      seconds(c.Cache.DetailTTLSecs),
			Reviews:     seconds(c.Cache.ReviewsTTLSecs),
			Calendar:    seconds(c.Cache.CalendarTTLSecs),
			HostProfile: seconds(c.Cache.HostProfileTTLSecs),
		},
	}
}
