package stays

import "context"

// Client is the capability interface shared by every data source. The
// GraphQL backend, the HTML-scrape backend, and the composite client all
// implement it, so callers never know which one answered.
//
// Cursor and months semantics: an empty cursor means the first page; months
// is clamped to at least 1 by implementations.
type Client interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	GetListingDetail(ctx context.Context, id string) (*ListingDetail, error)
	GetReviews(ctx context.Context, id string, cursor string) (*ReviewsPage, error)
	GetPriceCalendar(ctx context.Context, id string, months int) (*PriceCalendar, error)
	GetHostProfile(ctx context.Context, listingID string) (*HostProfile, error)
	GetNeighborhoodStats(ctx context.Context, params SearchParams) (*NeighborhoodStats, error)
	GetOccupancyEstimate(ctx context.Context, id string, months int) (*OccupancyEstimate, error)
}
