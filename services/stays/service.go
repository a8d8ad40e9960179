package stays

import (
	"airstay-backend/lib/cache"
	"airstay-backend/lib/scrapers/airbnbgql"
	"airstay-backend/lib/scrapers/airbnbweb"
	libstays "airstay-backend/lib/stays"
)

// NewClient builds the client described by the config. Both backends
// share one response cache; unless GraphQL is disabled, the scraper
// serves as the fallback source behind it.
func NewClient(config Config) (libstays.Client, error) {
	config, err := config.WithDefaults()
	if err != nil {
		return nil, err
	}

	store, err := cache.NewMemory(config.Cache.MaxEntries)
	if err != nil {
		return nil, err
	}

	scraper := airbnbweb.New(config.web(), store)
	if config.Scraper.GraphQLEnabled != nil && !*config.Scraper.GraphQLEnabled {
		return scraper, nil
	}
	return libstays.NewComposite(airbnbgql.New(config.graphql(), store), scraper), nil
}
