package airbnbgql

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"airstay-backend/lib/htmlutil"
	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// parseDetailResponse walks the StaysPdpSections section list, collecting
// each field from the section type that owns it.
func parseDetailResponse(data jsontree.Node, id, baseURL string) (*stays.ListingDetail, error) {
	sections := data.Get("data", "presentation", "stayProductDetailPage", "sections", "sections").Arr()
	if sections == nil {
		return nil, stays.ParseError{Reason: "GraphQL detail: could not find sections array"}
	}
	metadata := data.Get("data", "presentation", "stayProductDetailPage", "sections", "metadata")

	detail := &stays.ListingDetail{
		ID:       id,
		Currency: "USD",
		URL:      fmt.Sprintf("%s/rooms/%s", baseURL, id),
	}

	for _, section := range sections {
		sectionType := section.Get("sectionComponentType").StrOr("")
		sectionID := section.First("sectionId", "id").StrOr("")
		body := section.Get("section")
		if !body.Exists() {
			body = section
		}

		switch sectionType {
		case "TITLE_DEFAULT":
			if detail.Name == "" {
				detail.Name = body.Get("title").StrOr("")
			}
			if detail.Location == "" {
				detail.Location = body.Get("subtitle").StrOr("")
			}

		case "HERO_DEFAULT":
			if len(detail.Photos) == 0 {
				for _, img := range body.Get("previewImages").Arr() {
					if url, ok := img.Get("baseUrl").Str(); ok {
						detail.Photos = append(detail.Photos, url)
					}
				}
			}

		case "DESCRIPTION_DEFAULT", "DESCRIPTION_SECTION":
			if text, ok := body.Get("htmlDescription", "htmlText").Str(); ok {
				detail.Description = htmlutil.StripTags(text)
			} else if text, ok := body.Get("description").Str(); ok {
				detail.Description = text
			}

		case "AMENITIES_DEFAULT", "AMENITIES_SECTION":
			// seeAllAmenitiesGroups carries the complete list, the other
			// two spellings are truncated previews.
			for _, group := range body.First("seeAllAmenitiesGroups", "previewAmenitiesGroups", "amenityGroups").Arr() {
				for _, item := range group.Get("amenities").Arr() {
					if available, ok := item.Get("available").Bool(); ok && !available {
						continue
					}
					if title, ok := item.Get("title").Str(); ok && !slices.Contains(detail.Amenities, title) {
						detail.Amenities = append(detail.Amenities, title)
					}
				}
			}

		case "POLICIES_DEFAULT", "HOUSE_RULES_DEFAULT":
			for _, rule := range body.Get("houseRules").Arr() {
				if title, ok := rule.Get("title").Str(); ok {
					detail.HouseRules = append(detail.HouseRules, title)
				}
			}
			if policy, ok := body.Get("cancellationPolicy", "title").Str(); ok {
				detail.CancellationPolicy = policy
			}

		case "PHOTO_TOUR_SCROLLABLE", "PHOTO_TOUR_MODAL":
			for _, item := range body.Get("mediaItems").Arr() {
				if url, ok := item.First("baseUrl", "url").Str(); ok && !slices.Contains(detail.Photos, url) {
					detail.Photos = append(detail.Photos, url)
				}
			}

		case "BOOK_IT_SIDEBAR":
			priceText, ok := body.Get("structuredStayDisplayPrice", "primaryLine", "price").Str()
			if !ok {
				priceText, ok = body.Get("structuredDisplayPrice", "primaryLine").
					First("discountedPrice", "originalPrice", "price").Str()
			}
			if ok {
				if f, parsed := priceNumber(priceText); parsed {
					detail.PricePerNight = f
				}
			}
			if detail.PricePerNight == 0 {
				if f, ok := body.Get("price", "amount").Float(); ok {
					detail.PricePerNight = f
				}
			}
			if detail.MaxGuests == nil {
				if n, ok := body.Get("maxGuestCapacity").Int(); ok {
					detail.MaxGuests = &n
				}
			}

		case "SBUI_SENTINEL":
			if sectionID == "OVERVIEW_DEFAULT_V2" || sectionID == "OVERVIEW_DEFAULT" {
				roomCountsFromItems(body, detail)
			}

		case "OVERVIEW_DEFAULT":
			roomCountsFromItems(body, detail)

		case "MEET_YOUR_HOST", "HOST_PROFILE_DEFAULT", "HOST_OVERVIEW_DEFAULT":
			card := body.Get("cardData")
			detail.HostName = card.Get("name").StrOr(body.First("hostName", "name").StrOr(""))
			if hostID, ok := strOrNumber(card.Get("userId")); ok {
				detail.HostID = hostID
			} else if hostID, ok := strOrNumber(body.First("hostId", "id")); ok {
				detail.HostID = hostID
			}
			if b, ok := card.Get("isSuperhost").Bool(); ok {
				detail.HostIsSuperhost = &b
			} else if b, ok := body.Get("isSuperhost").Bool(); ok {
				detail.HostIsSuperhost = &b
			}

			rate, respTime := hostDetailsLines(body)
			if rate == "" {
				rate = body.Get("hostResponseRate").StrOr("")
			}
			if respTime == "" {
				respTime = body.First("hostRespondTimeCopy", "hostResponseTime").StrOr("")
			}
			detail.HostResponseRate = rate
			detail.HostResponseTime = respTime

			detail.HostJoined = body.Get("hostMemberSince").StrOr("")
			if n, ok := body.Get("hostListingCount").Int(); ok {
				detail.HostTotalListings = &n
			}
			if len(detail.HostLanguages) == 0 {
				detail.HostLanguages = hostLanguages(body)
			}

		case "LOCATION_DEFAULT", "LOCATION_PDP":
			if detail.Location == "" {
				detail.Location = body.First("subtitle", "title").StrOr("")
			}
			if f, ok := body.Get("lat").Float(); ok {
				detail.Latitude = &f
			}
			if f, ok := body.Get("lng").Float(); ok {
				detail.Longitude = &f
			}
			if detail.Neighborhood == "" {
				detail.Neighborhood = body.Get("subtitle").StrOr("")
			}

		case "REVIEWS_DEFAULT":
			if detail.Rating == nil {
				if f, ok := body.Get("overallRating").Float(); ok {
					detail.Rating = &f
				}
			}
			if detail.ReviewCount == 0 {
				if n, ok := body.First("overallCount", "reviewsCount").Int(); ok {
					detail.ReviewCount = n
				}
			}

		default:
			// Unknown section types still occasionally carry review and
			// property-type info.
			if detail.Rating == nil {
				if f, ok := body.Get("overallRating").Float(); ok {
					detail.Rating = &f
				} else if f, ok := body.Get("reviewSummary", "overallRating").Float(); ok {
					detail.Rating = &f
				}
			}
			if detail.ReviewCount == 0 {
				if n, ok := body.First("overallCount", "reviewsCount").Int(); ok {
					detail.ReviewCount = n
				} else if n, ok := body.Get("reviewSummary", "totalReviews").Int(); ok {
					detail.ReviewCount = n
				}
			}
			if detail.PropertyType == "" {
				detail.PropertyType = body.First("propertyType", "roomType").StrOr("")
			}
		}
	}

	if detail.PricePerNight == 0 {
		if f, ok := metadata.Get("loggingContext", "eventDataLogging", "listingPrice").Float(); ok {
			detail.PricePerNight = f
		}
	}

	for _, item := range metadata.Get("bookingPrefetchData", "priceBreakdown", "priceItems").Arr() {
		label := strings.ToLower(item.Get("localizedTitle").StrOr(""))
		var amount *float64
		if micros, ok := item.Get("total", "amountMicros").Float(); ok {
			f := micros / 1e6
			amount = &f
		} else if f, ok := item.Get("total", "amount").Float(); ok {
			amount = &f
		}
		switch {
		case strings.Contains(label, "cleaning"):
			detail.CleaningFee = amount
		case strings.Contains(label, "service"):
			detail.ServiceFee = amount
		}
	}

	if currency, ok := metadata.Get("loggingContext", "eventDataLogging", "currency").Str(); ok {
		detail.Currency = currency
	}
	detail.CheckInTime = metadata.Get("bookingPrefetchData", "checkIn").StrOr("")
	detail.CheckOutTime = metadata.Get("bookingPrefetchData", "checkOut").StrOr("")

	return detail, nil
}

// roomCountsFromItems reads counts out of overview entries like
// "4 guests", "2 bedrooms", "3 beds", "2 bathrooms".
func roomCountsFromItems(body jsontree.Node, detail *stays.ListingDetail) {
	for _, item := range body.Get("detailItems").Arr() {
		title := item.Get("title").StrOr("")
		switch {
		case strings.Contains(title, "guest"):
			detail.MaxGuests = numberIn(title)
		case strings.Contains(title, "bedroom"):
			detail.Bedrooms = numberIn(title)
		case strings.Contains(title, "bed"):
			detail.Beds = numberIn(title)
		case strings.Contains(title, "bath"):
			if n := numberIn(title); n != nil {
				f := float64(*n)
				detail.Bathrooms = &f
			}
		}
	}
}

// numberIn finds the first integer word in a string, or nil.
func numberIn(s string) *int {
	for _, word := range strings.Fields(s) {
		if n, err := strconv.Atoi(word); err == nil {
			return &n
		}
	}
	return nil
}
