package airbnbweb

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"airstay-backend/lib/jsontree"
)

const baseURL = "https://www.airbnb.com"

func TestListingIDFromURL(t *testing.T) {
	require.Equal(t, "12345", listingIDFromURL("/rooms/12345?adults=2"))
	require.Equal(t, "67890", listingIDFromURL("/rooms/67890"))
	require.Equal(t, "", listingIDFromURL("/search/results"))
}

func TestParseSearchResultsEmptyHTML(t *testing.T) {
	_, err := ParseSearchResults([]byte("<html><body></body></html>"), baseURL)
	require.Error(t, err)
}

func TestParseSearchResultsNextData(t *testing.T) {
	html := `<html><head><script id="__NEXT_DATA__" type="application/json">
	{"props":{"pageProps":{"searchResults":[
		{"listing":{"id":"123","name":"Test Place","city":"Paris","avgRating":4.8,"reviewsCount":10},"pricingQuote":{"price":{"amount":150.0}}}
	]}}}
	</script></head><body></body></html>`

	result, err := ParseSearchResults([]byte(html), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	require.Equal(t, "123", result.Listings[0].ID)
	require.Equal(t, "Test Place", result.Listings[0].Name)
	require.Equal(t, "Paris", result.Listings[0].Location)
	require.InDelta(t, 150.0, result.Listings[0].PricePerNight, 1e-9)
	require.Equal(t, 10, result.Listings[0].ReviewCount)
}

func TestParseSearchResultsDeferredState(t *testing.T) {
	html := `<html><head><script data-deferred-state="true" type="application/json">
	{"props":{"pageProps":{"searchResults":[
		{"listing":{"id":"456","name":"Deferred Place","city":"London","avgRating":4.2,"reviewsCount":5},"pricingQuote":{"price":{"amount":80.0}}}
	]}}}
	</script></head><body></body></html>`

	result, err := ParseSearchResults([]byte(html), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)
	require.Equal(t, "456", result.Listings[0].ID)
	require.Equal(t, "Deferred Place", result.Listings[0].Name)
}

func TestParseSearchResultsNiobeFormat(t *testing.T) {
	html := `<html><head><script data-deferred-state="true" type="application/json">
	{"niobeClientData":[["StaysSearch:test",{
		"data":{"presentation":{"staysSearch":{"results":{
			"searchResults":[
				{
					"title":"Room in Paris",
					"subtitle":"Cozy Studio near Eiffel Tower",
					"avgRatingLocalized":"4.9 (42)",
					"demandStayListing":{
						"id":"RGVtYW5kU3RheUxpc3Rpbmc6MTIzNDU2Nzg5",
						"location":{"coordinate":{"latitude":48.85,"longitude":2.29}}
					},
					"structuredDisplayPrice":{
						"primaryLine":{"price":"€ 85","qualifier":"night"},
						"explanationData":null
					},
					"contextualPictures":[{"picture":"https://example.com/photo.jpg"}],
					"structuredContent":{"primaryLine":[{"body":"Hosted by Marie","type":"HOSTINFO"}]}
				}
			],
			"paginationInfo":{"nextPageCursor":"cursor_xyz"}
		}}}}
	}]]}
	</script></head><body></body></html>`

	result, err := ParseSearchResults([]byte(html), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 1)

	listing := result.Listings[0]
	require.Equal(t, "123456789", listing.ID)
	require.Equal(t, "Cozy Studio near Eiffel Tower", listing.Name)
	require.Equal(t, "Paris", listing.Location)
	require.InDelta(t, 85.0, listing.PricePerNight, 1e-9)
	require.Equal(t, "€", listing.Currency)
	require.NotNil(t, listing.Rating)
	require.InDelta(t, 4.9, *listing.Rating, 1e-9)
	require.Equal(t, 42, listing.ReviewCount)
	require.Equal(t, "https://example.com/photo.jpg", listing.ThumbnailURL)
	require.Equal(t, "Hosted by Marie", listing.HostName)
	require.Equal(t, "Private room", listing.PropertyType)
	require.NotNil(t, listing.Latitude)
	require.InDelta(t, 48.85, *listing.Latitude, 1e-9)
	require.Equal(t, "cursor_xyz", result.NextCursor)
}

func TestParseSearchResultsCSSFallback(t *testing.T) {
	html := `<html><body>
	<div itemprop="itemListElement">
		<a href="/rooms/111?adults=1">Nice Room</a>
	</div>
	<div itemprop="itemListElement">
		<a href="/rooms/222">Another Room</a>
	</div>
	</body></html>`

	result, err := ParseSearchResults([]byte(html), baseURL)
	require.NoError(t, err)
	require.Len(t, result.Listings, 2)
	require.Equal(t, "111", result.Listings[0].ID)
	require.Equal(t, "Nice Room", result.Listings[0].Name)
	require.Equal(t, "222", result.Listings[1].ID)
}

func TestListingNumericID(t *testing.T) {
	data, err := jsontree.Parse([]byte(
		`{"listing":{"id":12345,"name":"Numeric ID","city":"Berlin"},"pricingQuote":{"price":{"amount":100.0}}}`))
	require.NoError(t, err)

	listing, ok := listingFromSection(data, baseURL)
	require.True(t, ok)
	require.Equal(t, "12345", listing.ID)
}

func TestListingCurrency(t *testing.T) {
	tests := []struct {
		name string
		json string
		want string
	}{
		{
			name: "from pricing quote",
			json: `{"listing":{"id":"1","name":"Euro Place","city":"Paris","currency":"EUR"},"pricingQuote":{"price":{"amount":100.0,"currencySymbol":"€"}}}`,
			want: "€",
		},
		{
			name: "fallback to listing field",
			json: `{"listing":{"id":"2","name":"GBP Place","city":"London","priceCurrency":"£"},"pricingQuote":{"price":{"amount":80.0}}}`,
			want: "£",
		},
		{
			name: "defaults to dollar",
			json: `{"listing":{"id":"3","name":"No Currency","city":"NYC"},"pricingQuote":{"price":{"amount":120.0}}}`,
			want: "$",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			data, err := jsontree.Parse([]byte(test.json))
			require.NoError(t, err)
			listing, ok := listingFromSection(data, baseURL)
			require.True(t, ok)
			require.Equal(t, test.want, listing.Currency)
		})
	}
}

func TestLegacyPriceProbes(t *testing.T) {
	data, err := jsontree.Parse([]byte(
		`{"pricingQuote":{"structuredStayDisplayPrice":{"primaryLine":{"price":"$150"}}}}`))
	require.NoError(t, err)
	price, ok := legacyPrice(data)
	require.True(t, ok)
	require.InDelta(t, 150.0, price, 1e-9)

	data, err = jsontree.Parse([]byte(`{"price":"$200"}`))
	require.NoError(t, err)
	price, ok = legacyPrice(data)
	require.True(t, ok)
	require.InDelta(t, 200.0, price, 1e-9)
}

func TestFindSearchSectionsDeep(t *testing.T) {
	data, err := jsontree.Parse([]byte(`{"wrapper":{"inner":[
		{"listing":{"id":"a","name":"Deep","city":"Z"},"pricingQuote":{"price":{"amount":75.0}}},
		{"listing":{"id":"b","name":"Deep2","city":"Z"},"pricingQuote":{"price":{"amount":80.0}}}
	]}}`))
	require.NoError(t, err)

	sections, ok := findSearchSections(data)
	require.True(t, ok)
	require.Len(t, sections, 2)
}

func TestDecodeGlobalID(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte("DemandStayListing:123456789"))
	id, ok := decodeGlobalID(encoded)
	require.True(t, ok)
	require.Equal(t, "123456789", id)

	_, ok = decodeGlobalID("not-base64!!!")
	require.False(t, ok)
}

func TestParseAvgRatingLocalized(t *testing.T) {
	rating, count := parseAvgRatingLocalized("4.98 (126)")
	require.NotNil(t, rating)
	require.InDelta(t, 4.98, *rating, 1e-9)
	require.Equal(t, 126, count)

	rating, count = parseAvgRatingLocalized("")
	require.Nil(t, rating)
	require.Equal(t, 0, count)

	rating, count = parseAvgRatingLocalized("New")
	require.Nil(t, rating)
	require.Equal(t, 0, count)
}

func TestPerNightFromDescription(t *testing.T) {
	price, ok := perNightFromDescription("5 nights x € 45.14")
	require.True(t, ok)
	require.InDelta(t, 45.14, price, 1e-9)

	_, ok = perNightFromDescription("no separator here")
	require.False(t, ok)
}

func TestLocationFromTitle(t *testing.T) {
	require.Equal(t, "Paris", locationFromTitle("Place to stay in Paris"))
	require.Equal(t, "London, UK", locationFromTitle("Room in London, UK"))
	require.Equal(t, "no marker", locationFromTitle("no marker"))
}

func TestCurrencySymbol(t *testing.T) {
	symbol, ok := currencySymbol("€ 254")
	require.True(t, ok)
	require.Equal(t, "€", symbol)

	symbol, ok = currencySymbol("$150")
	require.True(t, ok)
	require.Equal(t, "$", symbol)

	_, ok = currencySymbol("150")
	require.False(t, ok)
}

func TestPropertyTypeFromTitle(t *testing.T) {
	require.Equal(t, "Private room", propertyTypeFromTitle("Room in Paris"))
	require.Equal(t, "Entire home", propertyTypeFromTitle("Apartment in Tokyo"))
	require.Equal(t, "Hotel", propertyTypeFromTitle("Hotel in Rome"))
	require.Equal(t, "", propertyTypeFromTitle("Castle in Scotland"))
}
