package airbnbgql

import (
	"fmt"
	"strconv"
	"strings"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// buildSearchVariables assembles the StaysSearch request. Filters travel as
// rawParams name/value pairs; unset params are omitted entirely.
func buildSearchVariables(params stays.SearchParams) map[string]any {
	rawParams := []map[string]any{
		filterParam("cdnCacheSafe", "false"),
		filterParam("channel", "EXPLORE"),
		filterParam("placeId", params.Location),
		filterParam("source", "structured_search_input_header"),
		filterParam("searchType", "filter_change"),
	}

	if params.Checkin != "" {
		rawParams = append(rawParams, filterParam("checkin", params.Checkin))
	}
	if params.Checkout != "" {
		rawParams = append(rawParams, filterParam("checkout", params.Checkout))
	}
	if params.Adults > 0 {
		rawParams = append(rawParams, filterParam("adults", strconv.Itoa(params.Adults)))
	}
	if params.Children > 0 {
		rawParams = append(rawParams, filterParam("children", strconv.Itoa(params.Children)))
	}
	if params.Infants > 0 {
		rawParams = append(rawParams, filterParam("infants", strconv.Itoa(params.Infants)))
	}
	if params.Pets > 0 {
		rawParams = append(rawParams, filterParam("pets", strconv.Itoa(params.Pets)))
	}
	if params.MinPrice > 0 {
		rawParams = append(rawParams, filterParam("priceMin", strconv.Itoa(params.MinPrice)))
	}
	if params.MaxPrice > 0 {
		rawParams = append(rawParams, filterParam("priceMax", strconv.Itoa(params.MaxPrice)))
	}

	request := map[string]any{
		"requestedPageType": "STAYS_SEARCH",
		"metadataOnly":      false,
		"searchType":        "filter_change",
		"treatmentFlags":    []string{"decompose_stays_search_m2_treatment"},
		"rawParams":         rawParams,
	}
	return map[string]any{
		"staysSearchRequest":      request,
		"staysMapSearchRequestV2": request,
	}
}

func filterParam(name, value string) map[string]any {
	return map[string]any{"filterName": name, "filterValues": []string{value}}
}

func parseSearchResponse(data jsontree.Node, baseURL string) (*stays.SearchResult, error) {
	results := data.Get("data", "presentation", "staysSearch", "results", "searchResults")
	if !results.Exists() {
		results = data.Get("data", "presentation", "explore", "sections", "sectionIndependentData", "staysSearch", "searchResults")
	}
	entries := results.Arr()
	if entries == nil {
		return nil, stays.ParseError{Reason: "GraphQL search: could not find searchResults array"}
	}

	listings := make([]stays.Listing, 0, len(entries))
	for _, entry := range entries {
		listingData := entry.Get("listing")
		if !listingData.Exists() {
			listingData = entry
		}

		id := listingData.Get("id").StrOr("")
		if id == "" {
			continue
		}

		listing := stays.Listing{
			ID:       id,
			Name:     listingData.Get("name").StrOr("Unknown"),
			Location: listingData.Get("city").StrOr(""),
			Currency: entry.Get("pricingQuote", "rate", "currency").StrOr("USD"),
			URL:      fmt.Sprintf("%s/rooms/%s", baseURL, id),
		}

		if s, ok := entry.Get("pricingQuote", "structuredStayDisplayPrice", "primaryLine", "price").Str(); ok {
			if f, parsed := priceNumber(s); parsed {
				listing.PricePerNight = f
			}
		}
		if listing.PricePerNight == 0 {
			if f, ok := entry.Get("pricingQuote", "rate", "amount").Float(); ok {
				listing.PricePerNight = f
			}
		}

		if f, ok := listingData.Get("avgRating").Float(); ok {
			listing.Rating = &f
		}
		if n, ok := listingData.Get("reviewsCount").Int(); ok {
			listing.ReviewCount = n
		}
		listing.ThumbnailURL = listingData.Get("contextualPictures").Index(0).Get("picture").StrOr("")
		listing.PropertyType = listingData.Get("roomTypeCategory").StrOr("")
		if b, ok := listingData.Get("isSuperhost").Bool(); ok {
			listing.IsSuperhost = &b
		}
		if f, ok := listingData.Get("latitude").Float(); ok {
			listing.Latitude = &f
		} else if f, ok := listingData.Get("coordinate", "latitude").Float(); ok {
			listing.Latitude = &f
		}
		if f, ok := listingData.Get("longitude").Float(); ok {
			listing.Longitude = &f
		} else if f, ok := listingData.Get("coordinate", "longitude").Float(); ok {
			listing.Longitude = &f
		}
		if s, ok := entry.Get("pricingQuote", "structuredStayDisplayPrice", "primaryLine", "originalPrice").Str(); ok {
			if f, parsed := priceNumber(s); parsed {
				listing.TotalPrice = &f
			}
		}

		listings = append(listings, listing)
	}

	result := &stays.SearchResult{Listings: listings}
	pagination := data.Get("data", "presentation", "staysSearch", "results", "paginationInfo")
	if n, ok := pagination.Get("totalCount").Int(); ok {
		result.TotalCount = &n
	}
	result.NextCursor = pagination.Get("nextPageCursor").StrOr("")
	return result, nil
}

// priceNumber extracts a numeric amount from display strings like "$120"
// or "€95.50".
func priceNumber(s string) (float64, bool) {
	var cleaned strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			cleaned.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(cleaned.String(), 64)
	return f, err == nil
}
