package airbnbgql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDetailResponseAllSections(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"stayProductDetailPage": {"sections": {
			"sections": [
				{
					"sectionComponentType": "TITLE_DEFAULT",
					"sectionId": "TITLE_DEFAULT",
					"section": {"title": "Grand Villa", "subtitle": "Malibu, CA"}
				},
				{
					"sectionComponentType": "DESCRIPTION_DEFAULT",
					"sectionId": "DESCRIPTION_DEFAULT",
					"section": {"description": "A beautiful villa by the sea"}
				},
				{
					"sectionComponentType": "AMENITIES_DEFAULT",
					"sectionId": "AMENITIES_DEFAULT",
					"section": {"seeAllAmenitiesGroups": [{"amenities": [
						{"title": "Pool", "available": true},
						{"title": "WiFi", "available": true},
						{"title": "Smoking allowed", "available": false}
					]}]}
				},
				{
					"sectionComponentType": "POLICIES_DEFAULT",
					"sectionId": "POLICIES_DEFAULT",
					"section": {
						"houseRules": [{"title": "No parties"}],
						"cancellationPolicy": {"title": "Flexible"}
					}
				},
				{
					"sectionComponentType": "HERO_DEFAULT",
					"sectionId": "HERO_DEFAULT",
					"section": {"previewImages": [{"baseUrl": "https://img.example.com/1.jpg"}]}
				},
				{
					"sectionComponentType": "SBUI_SENTINEL",
					"sectionId": "OVERVIEW_DEFAULT_V2",
					"section": {"detailItems": [
						{"title": "4 guests"},
						{"title": "2 bedrooms"},
						{"title": "3 beds"},
						{"title": "2 bathrooms"}
					]}
				},
				{
					"sectionComponentType": "MEET_YOUR_HOST",
					"sectionId": "MEET_YOUR_HOST",
					"section": {
						"cardData": {"name": "Alice", "userId": "555", "isSuperhost": true},
						"hostDetails": ["Response rate: 98%", "Responds within an hour"],
						"hostHighlights": [{"title": "Speaks English and French"}]
					}
				},
				{
					"sectionComponentType": "LOCATION_PDP",
					"sectionId": "LOCATION_DEFAULT",
					"section": {"lat": 34.03, "lng": -118.77, "subtitle": "Malibu Coast"}
				},
				{
					"sectionComponentType": "REVIEWS_DEFAULT",
					"sectionId": "REVIEWS_DEFAULT",
					"section": {"overallRating": 4.85, "overallCount": 100}
				}
			],
			"metadata": {}
		}}}}
	}`)

	detail, err := parseDetailResponse(data, "100", baseURL)
	require.NoError(t, err)
	require.Equal(t, "Grand Villa", detail.Name)
	require.Equal(t, "Malibu, CA", detail.Location)
	require.Equal(t, "A beautiful villa by the sea", detail.Description)
	require.Equal(t, []string{"Pool", "WiFi"}, detail.Amenities)
	require.Contains(t, detail.HouseRules, "No parties")
	require.Equal(t, "Flexible", detail.CancellationPolicy)
	require.Equal(t, []string{"https://img.example.com/1.jpg"}, detail.Photos)
	require.Equal(t, 4, *detail.MaxGuests)
	require.Equal(t, 2, *detail.Bedrooms)
	require.Equal(t, 3, *detail.Beds)
	require.InDelta(t, 2.0, *detail.Bathrooms, 1e-9)
	require.Equal(t, "Alice", detail.HostName)
	require.Equal(t, "555", detail.HostID)
	require.NotNil(t, detail.HostIsSuperhost)
	require.True(t, *detail.HostIsSuperhost)
	require.Equal(t, "Response rate: 98%", detail.HostResponseRate)
	require.Equal(t, "Responds within an hour", detail.HostResponseTime)
	require.Equal(t, []string{"English", "French"}, detail.HostLanguages)
	require.InDelta(t, 34.03, *detail.Latitude, 0.01)
	require.Equal(t, "Malibu Coast", detail.Neighborhood)
	require.InDelta(t, 4.85, *detail.Rating, 1e-9)
	require.Equal(t, 100, detail.ReviewCount)
	require.Equal(t, "https://www.airbnb.com/rooms/100", detail.URL)
}

func TestParseDetailResponseFees(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"stayProductDetailPage": {"sections": {
			"sections": [{
				"sectionComponentType": "TITLE_DEFAULT",
				"section": {"title": "Test", "subtitle": "Test City"}
			}],
			"metadata": {"bookingPrefetchData": {"priceBreakdown": {"priceItems": [
				{"localizedTitle": "Cleaning fee", "total": {"amount": 50.0}},
				{"localizedTitle": "Service fee", "total": {"amountMicros": 30000000.0}}
			]}}}
		}}}}
	}`)

	detail, err := parseDetailResponse(data, "200", baseURL)
	require.NoError(t, err)
	require.InDelta(t, 50.0, *detail.CleaningFee, 1e-9)
	require.InDelta(t, 30.0, *detail.ServiceFee, 1e-9)
}

func TestParseDetailResponseMinimal(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"stayProductDetailPage": {"sections": {
			"sections": [{
				"sectionComponentType": "TITLE_DEFAULT",
				"section": {"title": "Cozy Place", "subtitle": "Paris, France"}
			}],
			"metadata": {}
		}}}}
	}`)

	detail, err := parseDetailResponse(data, "12345", baseURL)
	require.NoError(t, err)
	require.Equal(t, "12345", detail.ID)
	require.Equal(t, "Cozy Place", detail.Name)
	require.Equal(t, "Paris, France", detail.Location)
	require.Equal(t, "https://www.airbnb.com/rooms/12345", detail.URL)
	require.Equal(t, "USD", detail.Currency)
	require.Zero(t, detail.PricePerNight)
	require.Nil(t, detail.Rating)
}

func TestParseDetailResponseMissingSections(t *testing.T) {
	data := parseJSON(t, `{"data": {"presentation": {}}}`)
	_, err := parseDetailResponse(data, "1", baseURL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "sections")
}

func TestParseDetailResponseSidebarPrice(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"stayProductDetailPage": {"sections": {
			"sections": [
				{
					"sectionComponentType": "TITLE_DEFAULT",
					"section": {"title": "Priced Place", "subtitle": "Nice"}
				},
				{
					"sectionComponentType": "BOOK_IT_SIDEBAR",
					"section": {
						"structuredDisplayPrice": {"primaryLine": {"discountedPrice": "$175"}},
						"maxGuestCapacity": 5
					}
				}
			],
			"metadata": {"loggingContext": {"eventDataLogging": {"currency": "EUR"}}}
		}}}}
	}`)

	detail, err := parseDetailResponse(data, "9", baseURL)
	require.NoError(t, err)
	require.InDelta(t, 175.0, detail.PricePerNight, 1e-9)
	require.Equal(t, 5, *detail.MaxGuests)
	require.Equal(t, "EUR", detail.Currency)
}

func TestParseDetailResponseMetadataPriceFallback(t *testing.T) {
	data := parseJSON(t, `{
		"data": {"presentation": {"stayProductDetailPage": {"sections": {
			"sections": [{
				"sectionComponentType": "TITLE_DEFAULT",
				"section": {"title": "Logged Price", "subtitle": "Lyon"}
			}],
			"metadata": {"loggingContext": {"eventDataLogging": {"listingPrice": 88.0}}}
		}}}}
	}`)

	detail, err := parseDetailResponse(data, "3", baseURL)
	require.NoError(t, err)
	require.InDelta(t, 88.0, detail.PricePerNight, 1e-9)
}

func TestNumberIn(t *testing.T) {
	require.Equal(t, 3, *numberIn("3 bedrooms"))
	require.Nil(t, numberIn("studio"))
}
