// Package staystest provides a configurable fake stays.Client plus
// factories for building fixture values in tests.
package staystest

import (
	"context"
	"fmt"

	"airstay-backend/lib/stays"
)

// Client implements stays.Client with per-operation function fields.
// Unset fields fall back to returning factory fixtures.
type Client struct {
	SearchFunc               func(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error)
	GetListingDetailFunc     func(ctx context.Context, id string) (*stays.ListingDetail, error)
	GetReviewsFunc           func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error)
	GetPriceCalendarFunc     func(ctx context.Context, id string, months int) (*stays.PriceCalendar, error)
	GetHostProfileFunc       func(ctx context.Context, listingID string) (*stays.HostProfile, error)
	GetNeighborhoodStatsFunc func(ctx context.Context, params stays.SearchParams) (*stays.NeighborhoodStats, error)
	GetOccupancyEstimateFunc func(ctx context.Context, id string, months int) (*stays.OccupancyEstimate, error)
}

var _ stays.Client = (*Client)(nil)

func (c *Client) Search(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
	if c.SearchFunc != nil {
		return c.SearchFunc(ctx, params)
	}
	r := MakeSearchResult()
	return &r, nil
}

func (c *Client) GetListingDetail(ctx context.Context, id string) (*stays.ListingDetail, error) {
	if c.GetListingDetailFunc != nil {
		return c.GetListingDetailFunc(ctx, id)
	}
	d := MakeListingDetail(id)
	return &d, nil
}

func (c *Client) GetReviews(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
	if c.GetReviewsFunc != nil {
		return c.GetReviewsFunc(ctx, id, cursor)
	}
	p := MakeReviewsPage(id)
	return &p, nil
}

func (c *Client) GetPriceCalendar(ctx context.Context, id string, months int) (*stays.PriceCalendar, error) {
	if c.GetPriceCalendarFunc != nil {
		return c.GetPriceCalendarFunc(ctx, id, months)
	}
	cal := MakePriceCalendar(id)
	return &cal, nil
}

func (c *Client) GetHostProfile(ctx context.Context, listingID string) (*stays.HostProfile, error) {
	if c.GetHostProfileFunc != nil {
		return c.GetHostProfileFunc(ctx, listingID)
	}
	h := MakeHostProfile("Marie")
	return &h, nil
}

func (c *Client) GetNeighborhoodStats(ctx context.Context, params stays.SearchParams) (*stays.NeighborhoodStats, error) {
	if c.GetNeighborhoodStatsFunc != nil {
		return c.GetNeighborhoodStatsFunc(ctx, params)
	}
	s := MakeNeighborhoodStats(params.Location)
	return &s, nil
}

func (c *Client) GetOccupancyEstimate(ctx context.Context, id string, months int) (*stays.OccupancyEstimate, error) {
	if c.GetOccupancyEstimateFunc != nil {
		return c.GetOccupancyEstimateFunc(ctx, id, months)
	}
	e := MakeOccupancyEstimate(id)
	return &e, nil
}

func ptr[T any](v T) *T { return &v }

// MakeListing builds a search-result listing with the given id, name, and
// nightly price; remaining fields get plausible defaults.
func MakeListing(id, name string, price float64) stays.Listing {
	return stays.Listing{
		ID:            id,
		Name:          name,
		Location:      "Paris",
		PricePerNight: price,
		Currency:      "$",
		Rating:        ptr(4.8),
		ReviewCount:   25,
		PropertyType:  "Entire home",
		HostName:      "Marie",
		URL:           fmt.Sprintf("https://www.airbnb.com/rooms/%s", id),
		IsSuperhost:   ptr(true),
	}
}

func MakeSearchResult() stays.SearchResult {
	return stays.SearchResult{
		Listings: []stays.Listing{
			MakeListing("1", "Cozy Studio", 85),
			MakeListing("2", "Sunny Loft", 120),
		},
	}
}

func MakeListingDetail(id string) stays.ListingDetail {
	return stays.ListingDetail{
		ID:            id,
		Name:          "Cozy Studio",
		Location:      "Paris, France",
		PricePerNight: 85,
		Currency:      "$",
		Rating:        ptr(4.8),
		ReviewCount:   25,
		Description:   "A lovely studio in the heart of the city.",
		Amenities:     []string{"Wifi", "Kitchen"},
		HouseRules:    []string{"No smoking"},
		PropertyType:  "Entire home",
		Bedrooms:      ptr(1),
		Beds:          ptr(1),
		Bathrooms:     ptr(1.0),
		MaxGuests:     ptr(2),
		HostName:      "Marie",
		Photos:        []string{"https://example.com/photo.jpg"},
		URL:           fmt.Sprintf("https://www.airbnb.com/rooms/%s", id),
	}
}

func MakeReview() stays.Review {
	return stays.Review{
		Author:  "Alice",
		Date:    "2025-05-01",
		Rating:  ptr(5.0),
		Comment: "Wonderful stay, would come back!",
	}
}

func MakeReviewsSummary() stays.ReviewsSummary {
	return stays.ReviewsSummary{
		OverallRating: 4.8,
		TotalReviews:  25,
		Cleanliness:   ptr(4.9),
		Accuracy:      ptr(4.8),
		Communication: ptr(4.9),
		Location:      ptr(4.7),
		CheckIn:       ptr(4.8),
		Value:         ptr(4.6),
	}
}

func MakeReviewsPage(listingID string) stays.ReviewsPage {
	summary := MakeReviewsSummary()
	return stays.ReviewsPage{
		ListingID: listingID,
		Summary:   &summary,
		Reviews:   []stays.Review{MakeReview()},
	}
}

// MakeCalendarDay builds a calendar day; available days carry a two night
// minimum like real inventory usually does.
func MakeCalendarDay(date string, price float64, available bool) stays.CalendarDay {
	day := stays.CalendarDay{
		Date:      date,
		Available: available,
		MinNights: ptr(2),
	}
	if price > 0 {
		day.Price = &price
	}
	return day
}

func MakePriceCalendar(listingID string) stays.PriceCalendar {
	cal := stays.PriceCalendar{
		ListingID: listingID,
		Currency:  "$",
		Days: []stays.CalendarDay{
			MakeCalendarDay("2025-07-01", 85, true),
			MakeCalendarDay("2025-07-02", 90, true),
			MakeCalendarDay("2025-07-03", 0, false),
		},
	}
	cal.ComputeStats()
	return cal
}

func MakeHostProfile(name string) stays.HostProfile {
	return stays.HostProfile{
		HostID:        "host-1",
		Name:          name,
		IsSuperhost:   ptr(true),
		ResponseRate:  "100%",
		ResponseTime:  "within an hour",
		MemberSince:   "2019",
		Languages:     []string{"English", "French"},
		TotalListings: ptr(3),
	}
}

func MakeNeighborhoodStats(location string) stays.NeighborhoodStats {
	return stays.ComputeNeighborhoodStats(location, MakeSearchResult().Listings)
}

func MakeOccupancyEstimate(listingID string) stays.OccupancyEstimate {
	cal := MakePriceCalendar(listingID)
	return stays.ComputeOccupancyEstimate(listingID, cal)
}
