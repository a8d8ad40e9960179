package airbnbweb

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// ParseSearchResults extracts listings from a search results page.
// Embedded JSON state is tried first (__NEXT_DATA__, then deferred state);
// CSS selectors are the last resort and only recover IDs and names.
func ParseSearchResults(html []byte, baseURL string) (*stays.SearchResult, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	if data, ok := nextData(doc); ok {
		if result, ok := searchFromJSON(data, baseURL); ok {
			return result, nil
		}
	}
	for _, payload := range deferredStatePayloads(doc) {
		if result, ok := searchFromJSON(payload, baseURL); ok {
			return result, nil
		}
	}
	return searchFromCSS(doc, baseURL)
}

func searchFromJSON(data jsontree.Node, baseURL string) (*stays.SearchResult, bool) {
	sections, ok := findSearchSections(data)
	if !ok {
		return nil, false
	}

	var listings []stays.Listing
	for _, section := range sections {
		if listing, ok := listingFromSection(section, baseURL); ok {
			listings = append(listings, listing)
		}
	}
	if len(listings) == 0 {
		return nil, false
	}

	return &stays.SearchResult{
		Listings:   listings,
		NextCursor: paginationCursor(data),
	}, true
}

// Search payloads have moved between several nesting schemes over time.
func findSearchSections(data jsontree.Node) ([]jsontree.Node, bool) {
	paths := [][]string{
		{"props", "pageProps", "searchResults"},
		{"niobeMinimalClientData"},
		{"data", "presentation", "staysSearch", "results", "searchResults"},
	}
	for _, path := range paths {
		if arr := data.Get(path...).Arr(); arr != nil {
			return arr, true
		}
	}

	found := data.Find(20, func(n jsontree.Node) bool {
		arr := n.Arr()
		if len(arr) == 0 {
			return false
		}
		for _, item := range arr {
			if item.Get("listing").Exists() || item.Get("listingId").Exists() {
				return true
			}
			if _, ok := item.Get("id").Str(); ok {
				return true
			}
		}
		return false
	})
	if found.Exists() {
		return found.Arr(), true
	}
	return nil, false
}

func listingFromSection(section jsontree.Node, baseURL string) (stays.Listing, bool) {
	if section.Get("demandStayListing").Exists() || section.Get("structuredDisplayPrice").Exists() {
		return listingFromNiobeSection(section, baseURL)
	}
	return listingFromLegacySection(section, baseURL)
}

// listingFromNiobeSection handles the current StaySearchResult shape
// delivered through niobeClientData.
func listingFromNiobeSection(section jsontree.Node, baseURL string) (stays.Listing, bool) {
	encoded, _ := section.Get("demandStayListing", "id").Str()
	id, ok := decodeGlobalID(encoded)
	if !ok {
		return stays.Listing{}, false
	}

	// Subtitle carries the listing name; title is location-based
	// ("Room in Paris") and only useful for derived fields.
	name, ok := section.Get("subtitle").Str()
	if !ok {
		name, ok = section.Get("nameLocalized", "localizedStringWithTranslationPreference").Str()
	}
	if !ok {
		name = section.Get("title").StrOr("Unknown listing")
	}

	title := section.Get("title").StrOr("")
	location := ""
	if title != "" {
		location = locationFromTitle(title)
	}

	price := 0.0
	if perNight, ok := priceFromNiobe(section); ok {
		price = perNight
	}

	currency := "$"
	if priceStr, ok := section.Get("structuredDisplayPrice", "primaryLine", "price").Str(); ok {
		if symbol, ok := currencySymbol(priceStr); ok {
			currency = symbol
		}
	}

	rating, reviewCount := parseAvgRatingLocalized(section.Get("avgRatingLocalized").StrOr(""))

	pictures := section.Get("contextualPictures").Arr()
	thumbnail := ""
	var photos []string
	for _, pic := range pictures {
		if u, ok := pic.Get("picture").Str(); ok {
			photos = append(photos, u)
		}
	}
	if len(photos) > 0 {
		thumbnail = photos[0]
	}

	hostName := ""
	for _, item := range section.Get("structuredContent", "primaryLine").Arr() {
		if item.Get("type").StrOr("") == "HOSTINFO" {
			hostName = item.Get("body").StrOr("")
			break
		}
	}

	listing := stays.Listing{
		ID:            id,
		Name:          name,
		Location:      location,
		PricePerNight: price,
		Currency:      currency,
		Rating:        rating,
		ReviewCount:   reviewCount,
		ThumbnailURL:  thumbnail,
		PropertyType:  propertyTypeFromTitle(title),
		HostName:      hostName,
		URL:           fmt.Sprintf("%s/rooms/%s", baseURL, id),
		Photos:        photos,
	}

	coord := section.Get("demandStayListing", "location", "coordinate")
	if lat, ok := coord.Get("latitude").Float(); ok {
		listing.Latitude = &lat
	}
	if lng, ok := coord.Get("longitude").Float(); ok {
		listing.Longitude = &lng
	}

	if superhost := badgePresent(section, "SUPERHOST") || hostLineContains(section, "Superhost"); superhost {
		listing.IsSuperhost = &superhost
	}
	if fav, ok := section.Get("guestFavorite").Bool(); ok {
		listing.IsGuestFavorite = &fav
	} else if fav := badgePresent(section, "GUEST_FAVORITE"); fav {
		listing.IsGuestFavorite = &fav
	}
	if instant, ok := section.Get("demandStayListing", "instantBookEnabled").Bool(); ok {
		listing.InstantBook = &instant
	}
	if totalStr, ok := section.Get("structuredDisplayPrice", "secondaryLine", "price").Str(); ok {
		if total, ok := parsePriceString(totalStr); ok {
			listing.TotalPrice = &total
		}
	}

	return listing, true
}

func badgePresent(section jsontree.Node, badgeType string) bool {
	for _, badge := range section.Get("badges").Arr() {
		if strings.Contains(badge.Get("type").StrOr(""), badgeType) {
			return true
		}
	}
	return false
}

func hostLineContains(section jsontree.Node, needle string) bool {
	for _, item := range section.Get("structuredContent", "primaryLine").Arr() {
		if strings.Contains(item.Get("body").StrOr(""), needle) {
			return true
		}
	}
	return false
}

func listingFromLegacySection(section jsontree.Node, baseURL string) (stays.Listing, bool) {
	data := section.Get("listing")
	if !data.Exists() {
		data = section
	}

	idNode := data.First("id", "listingId")
	id, ok := idNode.Str()
	if !ok {
		if n, isNum := idNode.Float(); isNum {
			id = strconv.FormatInt(int64(n), 10)
			ok = true
		}
	}
	if !ok {
		return stays.Listing{}, false
	}

	price, ok := legacyPrice(section)
	if !ok {
		price, ok = legacyPrice(data)
	}
	if !ok {
		return stays.Listing{}, false
	}

	currency := "$"
	pq := section.Get("pricingQuote")
	currencyNode := pq.Get("price").First("currencySymbol", "currency")
	if !currencyNode.Exists() {
		currencyNode = pq.First("currencySymbol", "currency")
	}
	if !currencyNode.Exists() {
		currencyNode = data.First("currency", "priceCurrency")
	}
	if s, ok := currencyNode.Str(); ok {
		currency = s
	}

	listing := stays.Listing{
		ID:            id,
		Name:          data.First("name", "title").StrOr("Unknown listing"),
		Location:      data.First("city", "location", "publicAddress").StrOr(""),
		PricePerNight: price,
		Currency:      currency,
		PropertyType:  data.First("roomType", "propertyType").StrOr(""),
		URL:           fmt.Sprintf("%s/rooms/%s", baseURL, id),
	}

	if rating, ok := data.Get("avgRating").Float(); ok {
		listing.Rating = &rating
	}
	if count, ok := data.Get("reviewsCount").Int(); ok {
		listing.ReviewCount = count
	}

	if thumb, ok := data.Get("contextualPictures").Index(0).Get("picture").Str(); ok {
		listing.ThumbnailURL = thumb
	} else if thumb, ok := data.First("thumbnail", "pictureUrl").Str(); ok {
		listing.ThumbnailURL = thumb
	}

	if host, ok := data.Get("user", "firstName").Str(); ok {
		listing.HostName = host
	} else if host, ok := data.Get("hostName").Str(); ok {
		listing.HostName = host
	}

	return listing, true
}

func legacyPrice(data jsontree.Node) (float64, bool) {
	if pq := data.Get("pricingQuote"); pq.Exists() {
		if amount, ok := pq.Get("price", "amount").Float(); ok {
			return amount, true
		}
		if s, ok := pq.Get("structuredStayDisplayPrice", "primaryLine", "price").Str(); ok {
			if price, ok := parsePriceString(s); ok {
				return price, true
			}
		}
	}

	node := data.First("price", "pricePerNight")
	if f, ok := node.Float(); ok {
		return f, true
	}
	if s, ok := node.Str(); ok {
		return parsePriceString(s)
	}
	return 0, false
}

func paginationCursor(data jsontree.Node) string {
	if cursor, ok := data.Get("data", "presentation", "staysSearch", "results", "paginationInfo", "nextPageCursor").Str(); ok {
		return cursor
	}
	if cursor, ok := data.Get("props", "pageProps", "pagination", "nextCursor").Str(); ok {
		return cursor
	}
	return ""
}

// searchFromCSS recovers what it can from rendered markup: listing IDs and
// names only, everything else degraded.
func searchFromCSS(doc *goquery.Document, baseURL string) (*stays.SearchResult, error) {
	var listings []stays.Listing

	doc.Find("[itemprop='itemListElement'], [data-testid='card-container']").
		Each(func(_ int, card *goquery.Selection) {
			link := card.Find("a[href*='/rooms/']").First()
			href, exists := link.Attr("href")
			if !exists {
				return
			}
			id := listingIDFromURL(href)
			if id == "" {
				return
			}

			name := strings.TrimSpace(link.Text())
			if name == "" {
				name = "Untitled listing"
			}
			listings = append(listings, stays.Listing{
				ID:       id,
				Name:     name,
				Currency: "$",
				URL:      fmt.Sprintf("%s/rooms/%s", baseURL, id),
			})
		})

	if len(listings) == 0 {
		return nil, stays.ParseError{Reason: "no listings found in search results"}
	}
	slog.Warn("css fallback produced listings with incomplete data", "count", len(listings))
	return &stays.SearchResult{Listings: listings}, nil
}

// decodeGlobalID unwraps a base64 "SomeType:1234567" node identifier into
// its numeric part.
func decodeGlobalID(encoded string) (string, bool) {
	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", false
	}
	_, id, found := strings.Cut(string(decoded), ":")
	if !found || id == "" {
		return "", false
	}
	return id, true
}

// locationFromTitle extracts "Paris" from "Place to stay in Paris".
func locationFromTitle(title string) string {
	if idx := strings.LastIndex(title, " in "); idx >= 0 {
		return title[idx+4:]
	}
	return title
}

func priceFromNiobe(section jsontree.Node) (float64, bool) {
	sdp := section.Get("structuredDisplayPrice")
	if !sdp.Exists() {
		return 0, false
	}

	// Per-night shows up in the breakdown as "5 nights x € 45.14".
	desc, ok := sdp.Get("explanationData", "priceDetails").Index(0).
		Get("items").Index(0).Get("description").Str()
	if ok {
		if perNight, ok := perNightFromDescription(desc); ok {
			return perNight, true
		}
	}

	priceStr, ok := sdp.Get("primaryLine", "price").Str()
	if !ok {
		return 0, false
	}
	return parsePriceString(priceStr)
}

func perNightFromDescription(desc string) (float64, bool) {
	_, after, found := strings.Cut(desc, " x ")
	if !found {
		return 0, false
	}
	return parsePriceString(after)
}

// parsePriceString turns "€ 254", "$150", or "¥12,000" into a number.
func parsePriceString(s string) (float64, bool) {
	var digits strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
		}
	}
	f, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// currencySymbol returns the leading non-digit part of "€ 254".
func currencySymbol(price string) (string, bool) {
	var symbol strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			break
		}
		symbol.WriteRune(r)
	}
	trimmed := strings.TrimSpace(symbol.String())
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// parseAvgRatingLocalized parses "4.98 (126)"; "New" listings have no
// rating yet.
func parseAvgRatingLocalized(s string) (*float64, int) {
	if s == "" {
		return nil, 0
	}

	var rating *float64
	head := strings.FieldsFunc(s, func(r rune) bool { return r == ' ' || r == '(' })
	if len(head) > 0 {
		if f, err := strconv.ParseFloat(head[0], 64); err == nil {
			rating = &f
		}
	}

	count := 0
	if _, after, found := strings.Cut(s, "("); found {
		if n, err := strconv.Atoi(strings.TrimSuffix(after, ")")); err == nil {
			count = n
		}
	}
	return rating, count
}

func propertyTypeFromTitle(title string) string {
	lower := strings.ToLower(title)
	switch {
	case strings.HasPrefix(lower, "room in"), strings.HasPrefix(lower, "place to stay"):
		return "Private room"
	case strings.HasPrefix(lower, "apartment in"),
		strings.HasPrefix(lower, "home in"),
		strings.HasPrefix(lower, "condo in"),
		strings.HasPrefix(lower, "loft in"),
		strings.HasPrefix(lower, "townhouse in"),
		strings.HasPrefix(lower, "villa in"),
		strings.HasPrefix(lower, "rental unit in"):
		return "Entire home"
	case strings.HasPrefix(lower, "hotel"):
		return "Hotel"
	default:
		return ""
	}
}
