package airbnbgql

import (
	"testing"

	"github.com/stretchr/testify/require"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

const baseURL = "https://www.airbnb.com"

func parseJSON(t *testing.T, body string) jsontree.Node {
	t.Helper()
	node, err := jsontree.Parse([]byte(body))
	require.NoError(t, err)
	return node
}

func TestBuildSearchVariables(t *testing.T) {
	variables := buildSearchVariables(stays.SearchParams{Location: "Paris"})
	request := variables["staysSearchRequest"].(map[string]any)
	rawParams := request["rawParams"].([]map[string]any)
	require.Len(t, rawParams, 5)
	require.Equal(t, "placeId", rawParams[2]["filterName"])
	require.Equal(t, []string{"Paris"}, rawParams[2]["filterValues"])

	variables = buildSearchVariables(stays.SearchParams{
		Location: "Tokyo",
		Checkin:  "2030-07-01",
		Checkout: "2030-07-05",
		Adults:   2,
		MinPrice: 50,
		MaxPrice: 200,
	})
	request = variables["staysSearchRequest"].(map[string]any)
	rawParams = request["rawParams"].([]map[string]any)

	names := make(map[string]string)
	for _, param := range rawParams {
		values := param["filterValues"].([]string)
		names[param["filterName"].(string)] = values[0]
	}
	require.Equal(t, "2030-07-01", names["checkin"])
	require.Equal(t, "2030-07-05", names["checkout"])
	require.Equal(t, "2", names["adults"])
	require.Equal(t, "50", names["priceMin"])
	require.Equal(t, "200", names["priceMax"])
	require.NotContains(t, names, "children")

	// The map search request mirrors the main one.
	require.Equal(t, request, variables["staysMapSearchRequestV2"])
}

func TestParseSearchResponseSingleListing(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"staysSearch": {"results": {
			"searchResults": [{
				"listing": {
					"id": "12345",
					"name": "Cozy Apartment",
					"city": "Paris",
					"avgRating": 4.85,
					"reviewsCount": 42,
					"isSuperhost": true,
					"latitude": 48.8566,
					"longitude": 2.3522
				},
				"pricingQuote": {"rate": {"amount": 120.0, "currency": "EUR"}}
			}],
			"paginationInfo": {"totalCount": 1, "nextPageCursor": "page2token"}
		}}}}
	}`)

	result, err := parseSearchResponse(data, baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)

	listing := result.Listings[0]
	require.Equal(t, "12345", listing.ID)
	require.Equal(t, "Cozy Apartment", listing.Name)
	require.Equal(t, "Paris", listing.Location)
	require.InDelta(t, 120.0, listing.PricePerNight, 1e-9)
	require.Equal(t, "EUR", listing.Currency)
	require.InDelta(t, 4.85, *listing.Rating, 1e-9)
	require.Equal(t, 42, listing.ReviewCount)
	require.NotNil(t, listing.IsSuperhost)
	require.True(t, *listing.IsSuperhost)
	require.InDelta(t, 48.8566, *listing.Latitude, 0.001)
	require.Equal(t, "https://www.airbnb.com/rooms/12345", listing.URL)

	require.Equal(t, 1, *result.TotalCount)
	require.Equal(t, "page2token", result.NextCursor)
}

func TestParseSearchResponseEmptyResults(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"staysSearch": {"results": {
			"searchResults": [],
			"paginationInfo": {"totalCount": 0}
		}}}}
	}`)

	result, err := parseSearchResponse(data, baseURL)
	require.NoError(t, err)
	require.Empty(t, result.Listings)
	require.Equal(t, 0, *result.TotalCount)
}

func TestParseSearchResponseMissingResults(t *testing.T) {
	data := parseJSON(t, `{"data": {"presentation": {}}}`)
	_, err := parseSearchResponse(data, baseURL)
	var parseErr stays.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParseSearchResponseSkipsEmptyID(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"staysSearch": {"results": {
			"searchResults": [
				{"listing": {"id": "", "name": "Empty ID"}},
				{"listing": {"id": "123", "name": "Valid"}, "pricingQuote": {}}
			],
			"paginationInfo": {}
		}}}}
	}`)

	result, err := parseSearchResponse(data, baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	require.Equal(t, "123", result.Listings[0].ID)
}

func TestParseSearchResponseMissingOptionalFields(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"staysSearch": {"results": {
			"searchResults": [{
				"listing": {"id": "999", "name": "Minimal Place", "city": "Unknown"},
				"pricingQuote": {}
			}],
			"paginationInfo": {}
		}}}}
	}`)

	result, err := parseSearchResponse(data, baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)

	listing := result.Listings[0]
	require.Nil(t, listing.Rating)
	require.Empty(t, listing.ThumbnailURL)
	require.Empty(t, listing.PropertyType)
	require.Nil(t, listing.Latitude)
	require.Nil(t, listing.Longitude)
	require.Zero(t, listing.PricePerNight)
	require.Equal(t, "USD", listing.Currency)
}

func TestParseSearchResponseAlternatePath(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"explore": {"sections": {"sectionIndependentData": {"staysSearch": {
			"searchResults": [{
				"listing": {"id": "alt1", "name": "Alt Path Listing", "city": "Berlin"},
				"pricingQuote": {"rate": {"amount": 85.0, "currency": "EUR"}}
			}]
		}}}}}}
	}`)

	result, err := parseSearchResponse(data, baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	require.Equal(t, "Alt Path Listing", result.Listings[0].Name)
	require.InDelta(t, 85.0, result.Listings[0].PricePerNight, 1e-9)
}

func TestParseSearchResponseDisplayPrice(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"staysSearch": {"results": {
			"searchResults": [{
				"listing": {"id": "7", "name": "Display Priced"},
				"pricingQuote": {"structuredStayDisplayPrice": {"primaryLine": {
					"price": "$150",
					"originalPrice": "$600"
				}}}
			}],
			"paginationInfo": {}
		}}}}
	}`)

	result, err := parseSearchResponse(data, baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	require.InDelta(t, 150.0, result.Listings[0].PricePerNight, 1e-9)
	require.InDelta(t, 600.0, *result.Listings[0].TotalPrice, 1e-9)
}

func TestPriceNumber(t *testing.T) {
	price, ok := priceNumber("$120")
	require.True(t, ok)
	require.InDelta(t, 120.0, price, 1e-9)

	price, ok = priceNumber("€95.50")
	require.True(t, ok)
	require.InDelta(t, 95.50, price, 1e-9)

	_, ok = priceNumber("")
	require.False(t, ok)

	_, ok = priceNumber("Contact host")
	require.False(t, ok)
}
