package stays

import (
	"context"
	"log/slog"
)

// Composite pairs a primary Client with a secondary one. Every operation
// asks the primary first and falls back to the secondary when it fails.
// Listing details additionally backfill fields the primary left empty,
// and empty review pages are swapped for secondary ones that have content.
type Composite struct {
	primary   Client
	secondary Client
}

var _ Client = (*Composite)(nil)

func NewComposite(primary, secondary Client) *Composite {
	return &Composite{primary: primary, secondary: secondary}
}

func fallback[T any](op string, primary, secondary func() (*T, error)) (*T, error) {
	result, err := primary()
	if err == nil {
		return result, nil
	}
	slog.Warn("primary backend failed, falling back", "op", op, "err", err)
	return secondary()
}

func (c *Composite) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	return fallback("search",
		func() (*SearchResult, error) { return c.primary.Search(ctx, params) },
		func() (*SearchResult, error) { return c.secondary.Search(ctx, params) })
}

func (c *Composite) GetListingDetail(ctx context.Context, id string) (*ListingDetail, error) {
	detail, err := c.primary.GetListingDetail(ctx, id)
	if err != nil {
		slog.Warn("primary backend failed, falling back", "op", "get_listing_detail", "err", err)
		return c.secondary.GetListingDetail(ctx, id)
	}
	if !detailIncomplete(detail) {
		return detail, nil
	}

	slog.Debug("backfilling listing detail from secondary", "id", id)
	scraped, err := c.secondary.GetListingDetail(ctx, id)
	if err != nil {
		slog.Warn("secondary backfill failed, keeping partial detail", "id", id, "err", err)
		return detail, nil
	}
	merged := *detail
	fillDetail(&merged, scraped)
	return &merged, nil
}

func (c *Composite) GetReviews(ctx context.Context, id string, cursor string) (*ReviewsPage, error) {
	page, err := c.primary.GetReviews(ctx, id, cursor)
	if err != nil {
		slog.Warn("primary backend failed, falling back", "op", "get_reviews", "err", err)
		return c.secondary.GetReviews(ctx, id, cursor)
	}
	if len(page.Reviews) > 0 {
		return page, nil
	}

	scraped, err := c.secondary.GetReviews(ctx, id, cursor)
	if err != nil {
		return page, nil
	}
	if len(scraped.Reviews) > 0 {
		return scraped, nil
	}
	if page.Summary == nil && scraped.Summary != nil {
		return scraped, nil
	}
	return page, nil
}

func (c *Composite) GetPriceCalendar(ctx context.Context, id string, months int) (*PriceCalendar, error) {
	return fallback("get_price_calendar",
		func() (*PriceCalendar, error) { return c.primary.GetPriceCalendar(ctx, id, months) },
		func() (*PriceCalendar, error) { return c.secondary.GetPriceCalendar(ctx, id, months) })
}

func (c *Composite) GetHostProfile(ctx context.Context, listingID string) (*HostProfile, error) {
	return fallback("get_host_profile",
		func() (*HostProfile, error) { return c.primary.GetHostProfile(ctx, listingID) },
		func() (*HostProfile, error) { return c.secondary.GetHostProfile(ctx, listingID) })
}

func (c *Composite) GetNeighborhoodStats(ctx context.Context, params SearchParams) (*NeighborhoodStats, error) {
	return fallback("get_neighborhood_stats",
		func() (*NeighborhoodStats, error) { return c.primary.GetNeighborhoodStats(ctx, params) },
		func() (*NeighborhoodStats, error) { return c.secondary.GetNeighborhoodStats(ctx, params) })
}

func (c *Composite) GetOccupancyEstimate(ctx context.Context, id string, months int) (*OccupancyEstimate, error) {
	return fallback("get_occupancy_estimate",
		func() (*OccupancyEstimate, error) { return c.primary.GetOccupancyEstimate(ctx, id, months) },
		func() (*OccupancyEstimate, error) { return c.secondary.GetOccupancyEstimate(ctx, id, months) })
}

// detailIncomplete reports whether any field the secondary source can
// usually supply is missing from a primary result.
func detailIncomplete(d *ListingDetail) bool {
	return d.Name == "" ||
		d.Location == "" ||
		d.Description == "" ||
		len(d.Amenities) == 0 ||
		len(d.Photos) == 0 ||
		len(d.HouseRules) == 0 ||
		d.PricePerNight == 0 ||
		d.Rating == nil
}

// fillDetail copies fields from src into dst where dst left them empty.
// Populated dst fields always win. The currency moves together with the
// price so a backfilled amount never pairs with the wrong symbol.
func fillDetail(dst, src *ListingDetail) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Location == "" {
		dst.Location = src.Location
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if len(dst.Amenities) == 0 {
		dst.Amenities = src.Amenities
	}
	if len(dst.Photos) == 0 {
		dst.Photos = src.Photos
	}
	if len(dst.HouseRules) == 0 {
		dst.HouseRules = src.HouseRules
	}
	if dst.HostName == "" {
		dst.HostName = src.HostName
	}
	if dst.HostID == "" {
		dst.HostID = src.HostID
	}
	if dst.PricePerNight == 0 && src.PricePerNight > 0 {
		dst.PricePerNight = src.PricePerNight
		dst.Currency = src.Currency
	}
	if dst.Rating == nil {
		dst.Rating = src.Rating
	}
	if dst.ReviewCount == 0 {
		dst.ReviewCount = src.ReviewCount
	}
}
