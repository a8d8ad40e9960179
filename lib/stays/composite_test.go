package stays_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"airstay-backend/lib/stays"
	"airstay-backend/lib/stays/staystest"
)

var errPrimary = errors.New("primary backend down")

func ptr[T any](v T) *T { return &v }

func TestCompositePrimarySuccess(t *testing.T) {
	var secondaryCalls int
	primary := &staystest.Client{}
	secondary := &staystest.Client{
		SearchFunc: func(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
			secondaryCalls++
			return nil, errors.New("should not be called")
		},
	}

	client := stays.NewComposite(primary, secondary)
	result, err := client.Search(context.Background(), stays.SearchParams{Location: "Paris"})
	require.NoError(t, err)
	require.Len(t, result.Listings, 2)
	require.Zero(t, secondaryCalls)
}

func TestCompositeSearchFallsBack(t *testing.T) {
	primary := &staystest.Client{
		SearchFunc: func(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
			return nil, errPrimary
		},
	}
	secondary := &staystest.Client{}

	client := stays.NewComposite(primary, secondary)
	result, err := client.Search(context.Background(), stays.SearchParams{Location: "Paris"})
	require.NoError(t, err)
	require.Len(t, result.Listings, 2)
}

func TestCompositeBothFailReturnsSecondaryError(t *testing.T) {
	errSecondary := errors.New("scrape blocked")
	primary := &staystest.Client{
		SearchFunc: func(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
			return nil, errPrimary
		},
	}
	secondary := &staystest.Client{
		SearchFunc: func(ctx context.Context, params stays.SearchParams) (*stays.SearchResult, error) {
			return nil, errSecondary
		},
	}

	client := stays.NewComposite(primary, secondary)
	_, err := client.Search(context.Background(), stays.SearchParams{Location: "Paris"})
	require.ErrorIs(t, err, errSecondary)
}

// Every operation falls back on its own: one failing primary endpoint
// must not require the others to fail too.
func TestCompositeFallbackPerOperation(t *testing.T) {
	ctx := context.Background()
	primary := &staystest.Client{
		GetPriceCalendarFunc: func(ctx context.Context, id string, months int) (*stays.PriceCalendar, error) {
			return nil, errPrimary
		},
		GetHostProfileFunc: func(ctx context.Context, listingID string) (*stays.HostProfile, error) {
			return nil, errPrimary
		},
		GetNeighborhoodStatsFunc: func(ctx context.Context, params stays.SearchParams) (*stays.NeighborhoodStats, error) {
			return nil, errPrimary
		},
		GetOccupancyEstimateFunc: func(ctx context.Context, id string, months int) (*stays.OccupancyEstimate, error) {
			return nil, errPrimary
		},
	}
	client := stays.NewComposite(primary, &staystest.Client{})

	calendar, err := client.GetPriceCalendar(ctx, "1", 3)
	require.NoError(t, err)
	require.Equal(t, "1", calendar.ListingID)

	host, err := client.GetHostProfile(ctx, "1")
	require.NoError(t, err)
	require.Equal(t, "Marie", host.Name)

	statistics, err := client.GetNeighborhoodStats(ctx, stays.SearchParams{Location: "Paris"})
	require.NoError(t, err)
	require.Equal(t, "Paris", statistics.Location)

	estimate, err := client.GetOccupancyEstimate(ctx, "1", 3)
	require.NoError(t, err)
	require.Equal(t, 3, estimate.TotalDays)
}

func TestDetailBackfillsEmptyFields(t *testing.T) {
	primary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			return &stays.ListingDetail{
				ID:       id,
				Name:     "Cozy Studio",
				Location: "Paris, France",
				Currency: "USD",
				Rating:   ptr(4.8),
			}, nil
		},
	}
	secondary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			return &stays.ListingDetail{
				ID:            id,
				Name:          "Scraped Name",
				Description:   "A lovely studio.",
				Amenities:     []string{"Wifi"},
				Photos:        []string{"https://example.com/p.jpg"},
				HouseRules:    []string{"No smoking"},
				HostName:      "Marie",
				HostID:        "host-1",
				PricePerNight: 85,
				Currency:      "€",
				ReviewCount:   25,
				Rating:        ptr(4.1),
			}, nil
		},
	}

	client := stays.NewComposite(primary, secondary)
	detail, err := client.GetListingDetail(context.Background(), "42")
	require.NoError(t, err)

	// Populated primary fields survive; empty ones are backfilled, the
	// price bringing its currency along.
	want := &stays.ListingDetail{
		ID:            "42",
		Name:          "Cozy Studio",
		Location:      "Paris, France",
		Description:   "A lovely studio.",
		Amenities:     []string{"Wifi"},
		Photos:        []string{"https://example.com/p.jpg"},
		HouseRules:    []string{"No smoking"},
		HostName:      "Marie",
		HostID:        "host-1",
		PricePerNight: 85,
		Currency:      "€",
		ReviewCount:   25,
		Rating:        ptr(4.8),
	}
	require.Empty(t, cmp.Diff(want, detail))
}

func TestDetailCompleteSkipsSecondary(t *testing.T) {
	var secondaryCalls int
	secondary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			secondaryCalls++
			return nil, errors.New("should not be called")
		},
	}

	client := stays.NewComposite(&staystest.Client{}, secondary)
	detail, err := client.GetListingDetail(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Cozy Studio", detail.Name)
	require.Zero(t, secondaryCalls)
}

func TestDetailKeepsPartialWhenSecondaryFails(t *testing.T) {
	primary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			return &stays.ListingDetail{ID: id, Name: "Partial Place"}, nil
		},
	}
	secondary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			return nil, errors.New("scrape blocked")
		},
	}

	client := stays.NewComposite(primary, secondary)
	detail, err := client.GetListingDetail(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Partial Place", detail.Name)
	require.Empty(t, detail.Description)
}

func TestDetailFallsBackOnPrimaryError(t *testing.T) {
	primary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			return nil, errPrimary
		},
	}

	client := stays.NewComposite(primary, &staystest.Client{})
	detail, err := client.GetListingDetail(context.Background(), "42")
	require.NoError(t, err)
	require.Equal(t, "Cozy Studio", detail.Name)
}

func TestReviewsPrimaryContentWins(t *testing.T) {
	var secondaryCalls int
	secondary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			secondaryCalls++
			return nil, errors.New("should not be called")
		},
	}

	client := stays.NewComposite(&staystest.Client{}, secondary)
	page, err := client.GetReviews(context.Background(), "42", "")
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	require.Zero(t, secondaryCalls)
}

func TestReviewsEmptyPageSwappedForScraped(t *testing.T) {
	primary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return &stays.ReviewsPage{ListingID: id, Reviews: []stays.Review{}}, nil
		},
	}

	client := stays.NewComposite(primary, &staystest.Client{})
	page, err := client.GetReviews(context.Background(), "42", "")
	require.NoError(t, err)
	require.Len(t, page.Reviews, 1)
	require.Equal(t, "Alice", page.Reviews[0].Author)
}

func TestReviewsSummaryOnlySwap(t *testing.T) {
	primary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return &stays.ReviewsPage{ListingID: id}, nil
		},
	}
	summary := staystest.MakeReviewsSummary()
	secondary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return &stays.ReviewsPage{ListingID: id, Summary: &summary}, nil
		},
	}

	client := stays.NewComposite(primary, secondary)
	page, err := client.GetReviews(context.Background(), "42", "")
	require.NoError(t, err)
	require.NotNil(t, page.Summary)
	require.InDelta(t, 4.8, page.Summary.OverallRating, 1e-9)
}

func TestReviewsBothEmptyKeepsPrimary(t *testing.T) {
	summary := staystest.MakeReviewsSummary()
	primary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return &stays.ReviewsPage{ListingID: id, Summary: &summary, NextCursor: "10"}, nil
		},
	}
	secondary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return &stays.ReviewsPage{ListingID: id}, nil
		},
	}

	client := stays.NewComposite(primary, secondary)
	page, err := client.GetReviews(context.Background(), "42", "")
	require.NoError(t, err)
	require.NotNil(t, page.Summary)
	require.Equal(t, "10", page.NextCursor)
}

func TestReviewsKeepsPrimaryWhenSecondaryFails(t *testing.T) {
	primary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return &stays.ReviewsPage{ListingID: id}, nil
		},
	}
	secondary := &staystest.Client{
		GetReviewsFunc: func(ctx context.Context, id, cursor string) (*stays.ReviewsPage, error) {
			return nil, errors.New("scrape blocked")
		},
	}

	client := stays.NewComposite(primary, secondary)
	page, err := client.GetReviews(context.Background(), "42", "")
	require.NoError(t, err)
	require.Empty(t, page.Reviews)
}

func TestDetailMergeDoesNotMutatePrimary(t *testing.T) {
	primaryDetail := &stays.ListingDetail{ID: "42", Name: "Cozy Studio"}
	primary := &staystest.Client{
		GetListingDetailFunc: func(ctx context.Context, id string) (*stays.ListingDetail, error) {
			return primaryDetail, nil
		},
	}

	client := stays.NewComposite(primary, &staystest.Client{})
	merged, err := client.GetListingDetail(context.Background(), "42")
	require.NoError(t, err)
	require.NotSame(t, primaryDetail, merged)
	require.NotEmpty(t, merged.Description)
	require.Empty(t, primaryDetail.Description, "the merge must not write through to the primary record")
	require.Nil(t, primaryDetail.Rating)
}
