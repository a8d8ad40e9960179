package airbnbweb

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airstay-backend/lib/htmlutil"
	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// ParseListingDetail extracts a full listing record from a product detail
// page. Tries __NEXT_DATA__ first, then deferred-state payloads (PDP
// sections shape, then the older inline shape), then falls back to CSS.
func ParseListingDetail(html []byte, listingID, baseURL string) (*stays.ListingDetail, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	if data, ok := nextData(doc); ok {
		if detail, ok := detailFromLegacyJSON(data, listingID, baseURL); ok {
			return detail, nil
		}
	}
	for _, payload := range deferredStatePayloads(doc) {
		if detail, ok := detailFromPdpSections(payload, listingID, baseURL); ok {
			return detail, nil
		}
		if detail, ok := detailFromLegacyJSON(payload, listingID, baseURL); ok {
			return detail, nil
		}
	}
	return detailFromCSS(doc, listingID, baseURL), nil
}

// pdpSections locates the section list and metadata of a PDP payload.
func pdpSections(payload jsontree.Node) ([]jsontree.Node, jsontree.Node, bool) {
	container := payload.Get("data", "presentation", "stayProductDetailPage", "sections")
	sections := container.Get("sections").Arr()
	if sections == nil {
		return nil, jsontree.Node{}, false
	}
	return sections, container.Get("metadata"), true
}

// findSection returns the payload of the first section with the given
// sectionComponentType.
func findSection(sections []jsontree.Node, componentType string) jsontree.Node {
	for _, s := range sections {
		if s.Get("sectionComponentType").StrOr("") == componentType {
			return s.Get("section")
		}
	}
	return jsontree.Node{}
}

func detailFromPdpSections(payload jsontree.Node, listingID, baseURL string) (*stays.ListingDetail, bool) {
	sections, metadata, ok := pdpSections(payload)
	if !ok || !metadata.Exists() {
		return nil, false
	}

	sharing := metadata.Get("sharingConfig")
	logging := metadata.Get("loggingContext", "eventDataLogging")

	detail := &stays.ListingDetail{
		ID:       listingID,
		Currency: "$",
		URL:      fmt.Sprintf("%s/rooms/%s", baseURL, listingID),
	}

	detail.Name = sharing.Get("title").StrOr("")
	if detail.Name == "" {
		detail.Name = findSection(sections, "AVAILABILITY_CALENDAR_DEFAULT").
			Get("listingTitle").StrOr("Unknown listing")
	}

	locationSection := findSection(sections, "LOCATION_PDP")
	detail.Location = sharing.Get("location").StrOr("")
	if detail.Location == "" {
		detail.Location = locationSection.Get("subtitle").StrOr("")
	}

	if htmlText, ok := findSection(sections, "DESCRIPTION_DEFAULT").
		Get("htmlDescription", "htmlText").Str(); ok {
		detail.Description = htmlutil.StripTags(htmlText)
	}

	bookIt := findSection(sections, "BOOK_IT_SIDEBAR")
	priceNode := bookIt.Get("structuredDisplayPrice", "primaryLine").
		First("discountedPrice", "originalPrice", "price")
	if !priceNode.Exists() {
		priceNode = bookIt.Get("structuredStayDisplayPrice", "primaryLine", "price")
	}
	if s, ok := priceNode.Str(); ok {
		if price, ok := parsePriceString(s); ok {
			detail.PricePerNight = price
		}
	}
	if detail.PricePerNight == 0 {
		if price, ok := logging.Get("listingPrice").Float(); ok {
			detail.PricePerNight = price
		}
	}

	reviews := findSection(sections, "REVIEWS_DEFAULT")
	if rating, ok := reviews.Get("overallRating").Float(); ok {
		detail.Rating = &rating
	} else if rating, ok := sharing.Get("starRating").Float(); ok {
		detail.Rating = &rating
	} else if rating, ok := logging.Get("guestSatisfactionOverall").Float(); ok {
		detail.Rating = &rating
	}
	if count, ok := reviews.Get("overallCount").Int(); ok {
		detail.ReviewCount = count
	} else if count, ok := sharing.Get("reviewCount").Int(); ok {
		detail.ReviewCount = count
	}

	detail.PropertyType = sharing.Get("propertyType").StrOr("")
	if detail.PropertyType == "" {
		detail.PropertyType = logging.Get("roomType").StrOr("")
	}

	for _, group := range findSection(sections, "AMENITIES_DEFAULT").Get("previewAmenitiesGroups").Arr() {
		for _, amenity := range group.Get("amenities").Arr() {
			if title, ok := amenity.Get("title").Str(); ok {
				detail.Amenities = append(detail.Amenities, title)
			}
		}
	}

	policies := findSection(sections, "POLICIES_DEFAULT")
	for _, rule := range policies.Get("houseRules").Arr() {
		if title, ok := rule.Get("title").Str(); ok {
			detail.HouseRules = append(detail.HouseRules, title)
		}
	}
	detail.CheckInTime, detail.CheckOutTime = checkTimesFromRules(policies)

	if lat, ok := locationSection.Get("lat").Float(); ok {
		detail.Latitude = &lat
	} else if lat, ok := logging.Get("listingLat").Float(); ok {
		detail.Latitude = &lat
	}
	if lng, ok := locationSection.Get("lng").Float(); ok {
		detail.Longitude = &lng
	} else if lng, ok := logging.Get("listingLng").Float(); ok {
		detail.Longitude = &lng
	}

	if imageURL, ok := sharing.Get("imageUrl").Str(); ok {
		detail.Photos = []string{imageURL}
	}

	if guests, ok := findSection(sections, "AVAILABILITY_CALENDAR_DEFAULT").Get("maxGuestCapacity").Int(); ok {
		detail.MaxGuests = &guests
	} else if guests, ok := sharing.Get("personCapacity").Int(); ok {
		detail.MaxGuests = &guests
	} else if guests, ok := logging.Get("personCapacity").Int(); ok {
		detail.MaxGuests = &guests
	}

	detail.Bedrooms, detail.Beds, detail.Bathrooms = roomInfoFromSharingTitle(sharing)

	hostCard := findSection(sections, "MEET_YOUR_HOST").Get("cardData")
	detail.HostName = hostCard.Get("name").StrOr("")
	if detail.HostName == "" {
		detail.HostName = findSection(sections, "MEET_YOUR_HOST").Get("titleText").StrOr("")
	}
	detail.HostID = logging.Get("hostId").StrOr("")
	if detail.HostID == "" {
		idNode := hostCard.Get("id")
		if s, ok := idNode.Str(); ok {
			detail.HostID = s
		} else if n, ok := idNode.Float(); ok {
			detail.HostID = strconv.FormatInt(int64(n), 10)
		}
	}
	if superhost, ok := hostCard.Get("isSuperhost").Bool(); ok {
		detail.HostIsSuperhost = &superhost
	} else {
		for _, badge := range hostCard.Get("badges").Arr() {
			if s, ok := badge.Str(); ok && strings.Contains(s, "uperhost") {
				yes := true
				detail.HostIsSuperhost = &yes
				break
			}
		}
	}
	detail.HostResponseRate = hostCard.Get("responseRate").StrOr("")
	detail.HostResponseTime = hostCard.Get("responseTime").StrOr("")
	detail.HostJoined = hostCard.First("memberSince", "createdAt", "joinedDate").StrOr("")
	if listings, ok := hostCard.Get("listingsCount").Int(); ok {
		detail.HostTotalListings = &listings
	}
	for _, lang := range hostCard.Get("languages").Arr() {
		if s, ok := lang.Str(); ok {
			detail.HostLanguages = append(detail.HostLanguages, s)
		}
	}

	policyNode := policies.Get("cancellationPolicy").First("title", "policyName")
	if !policyNode.Exists() {
		policyNode = policies.Get("cancellationPolicyForDisplay")
	}
	detail.CancellationPolicy = policyNode.StrOr("")

	detail.Neighborhood = locationSection.First("subtitle", "neighborhoodName").StrOr("")

	if instant, ok := logging.First("instantBook", "isInstantBook").Bool(); ok {
		detail.InstantBook = &instant
	}

	return detail, true
}

// checkTimesFromRules pulls check-in/checkout entries out of the policies
// house rules, which carry them as display strings.
func checkTimesFromRules(policies jsontree.Node) (checkIn, checkOut string) {
	for _, rule := range policies.Get("houseRules").Arr() {
		title := rule.Get("title").StrOr("")
		lower := strings.ToLower(title)
		switch {
		case strings.HasPrefix(lower, "check-in"), strings.HasPrefix(lower, "checkin"):
			checkIn = title
		case strings.HasPrefix(lower, "checkout"), strings.HasPrefix(lower, "check out"):
			checkOut = title
		}
	}
	return checkIn, checkOut
}

// roomInfoFromSharingTitle parses bedroom/bed/bath counts out of a sharing
// title like "Rental unit in Paris · ⭐5.0 · 1 bedroom · 1 bed · 1 bath".
func roomInfoFromSharingTitle(sharing jsontree.Node) (bedrooms, beds *int, bathrooms *float64) {
	title, ok := sharing.Get("title").Str()
	if !ok {
		return nil, nil, nil
	}

	for _, part := range strings.Split(title, "·") {
		part = strings.TrimSpace(part)
		lower := strings.ToLower(part)
		switch {
		case strings.Contains(lower, "bedroom") || strings.Contains(lower, "studio"):
			if n, ok := firstNumber(part); ok {
				bedrooms = &n
			} else if strings.Contains(lower, "studio") {
				zero := 0
				bedrooms = &zero
			}
		case strings.Contains(lower, "bed"):
			if n, ok := firstNumber(part); ok {
				beds = &n
			}
		case strings.Contains(lower, "bath"):
			if n, ok := firstNumber(part); ok {
				f := float64(n)
				bathrooms = &f
			}
		}
	}
	return bedrooms, beds, bathrooms
}

func firstNumber(part string) (int, bool) {
	for _, word := range strings.Fields(part) {
		if n, err := strconv.Atoi(word); err == nil {
			return n, true
		}
	}
	return 0, false
}

func detailFromLegacyJSON(data jsontree.Node, listingID, baseURL string) (*stays.ListingDetail, bool) {
	listing, ok := findListingData(data)
	if !ok {
		return nil, false
	}

	detail := &stays.ListingDetail{
		ID:           listingID,
		Name:         listing.First("name", "title").StrOr("Unknown listing"),
		Location:     listing.First("location", "city", "publicAddress").StrOr(""),
		Currency:     listing.Get("priceCurrency").StrOr("$"),
		PropertyType: listing.First("roomType", "propertyType").StrOr(""),
		URL:          fmt.Sprintf("%s/rooms/%s", baseURL, listingID),
	}

	if desc, ok := listing.Get("description").Str(); ok {
		detail.Description = desc
	} else {
		detail.Description = listing.Get("sectionedDescription", "description").StrOr("")
	}

	if price, ok := listing.Get("price").Float(); ok {
		detail.PricePerNight = price
	} else if price, ok := listing.Get("pricingQuote", "price", "amount").Float(); ok {
		detail.PricePerNight = price
	}

	if rating, ok := listing.First("avgRating", "overallRating").Float(); ok {
		detail.Rating = &rating
	}
	if count, ok := listing.First("reviewsCount", "visibleReviewCount").Int(); ok {
		detail.ReviewCount = count
	}

	if host, ok := listing.Get("host", "name").Str(); ok {
		detail.HostName = host
	} else {
		detail.HostName = listing.Get("primaryHost", "firstName").StrOr("")
	}

	for _, item := range listing.Get("amenities").Arr() {
		if name, ok := item.First("name", "tag").Str(); ok {
			detail.Amenities = append(detail.Amenities, name)
		} else if s, ok := item.Str(); ok {
			detail.Amenities = append(detail.Amenities, s)
		}
	}
	for _, item := range listing.Get("houseRules").Arr() {
		if s, ok := item.Str(); ok {
			detail.HouseRules = append(detail.HouseRules, s)
		}
	}

	if lat, ok := listing.First("lat", "latitude").Float(); ok {
		detail.Latitude = &lat
	}
	if lng, ok := listing.First("lng", "longitude").Float(); ok {
		detail.Longitude = &lng
	}

	for _, item := range listing.Get("photos").Arr() {
		if u, ok := item.First("pictureUrl", "baseUrl", "url").Str(); ok {
			detail.Photos = append(detail.Photos, u)
		} else if s, ok := item.Str(); ok {
			detail.Photos = append(detail.Photos, s)
		}
	}

	if n, ok := listing.First("bedrooms", "bedroomCount").Int(); ok {
		detail.Bedrooms = &n
	}
	if n, ok := listing.First("beds", "bedCount").Int(); ok {
		detail.Beds = &n
	}
	if f, ok := listing.First("bathrooms", "bathroomCount").Float(); ok {
		detail.Bathrooms = &f
	}
	if n, ok := listing.First("personCapacity", "maxGuests").Int(); ok {
		detail.MaxGuests = &n
	}

	detail.CheckInTime = listing.First("checkIn", "checkInTime").StrOr("")
	detail.CheckOutTime = listing.First("checkOut", "checkOutTime").StrOr("")

	return detail, true
}

// findListingData locates the listing object in older page payloads: known
// paths first, then a bounded deep search for an object that looks like a
// listing.
func findListingData(data jsontree.Node) (jsontree.Node, bool) {
	paths := [][]string{
		{"props", "pageProps", "listing"},
		{"props", "pageProps", "listingData", "listing"},
	}
	for _, path := range paths {
		if node := data.Get(path...); node.Exists() {
			return node, true
		}
	}

	found := data.Find(20, func(n jsontree.Node) bool {
		return n.Get("name").Exists() &&
			(n.Get("description").Exists() || n.Get("amenities").Exists())
	})
	return found, found.Exists()
}

// detailFromCSS is the degraded last resort: only the page title survives.
func detailFromCSS(doc *goquery.Document, listingID, baseURL string) *stays.ListingDetail {
	name := strings.TrimSpace(doc.Find("h1, [data-testid='listing-title']").First().Text())
	if name == "" {
		name = "Unknown listing"
	}
	return &stays.ListingDetail{
		ID:       listingID,
		Name:     name,
		Currency: "$",
		URL:      fmt.Sprintf("%s/rooms/%s", baseURL, listingID),
	}
}
