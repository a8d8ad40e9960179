package airbnbweb

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// ParseReviews extracts the reviews block from a listing page. Embedded
// JSON is tried first; the CSS fallback only recovers raw review text.
func ParseReviews(html []byte, listingID string) (*stays.ReviewsPage, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}

	if data, ok := nextData(doc); ok {
		if page, ok := reviewsFromLegacyJSON(data, listingID); ok {
			return page, nil
		}
	}
	for _, payload := range deferredStatePayloads(doc) {
		if page, ok := reviewsFromPdpSections(payload, listingID); ok {
			return page, nil
		}
		if page, ok := reviewsFromLegacyJSON(payload, listingID); ok {
			return page, nil
		}
	}
	return reviewsFromCSS(doc, listingID), nil
}

func reviewsFromPdpSections(payload jsontree.Node, listingID string) (*stays.ReviewsPage, bool) {
	container := payload.Get("data", "presentation", "stayProductDetailPage", "sections")
	sections := container.Get("sections").Arr()
	if sections == nil {
		return nil, false
	}

	reviewSection := findSection(sections, "REVIEWS_DEFAULT")
	overall, ok := reviewSection.Get("overallRating").Float()
	if !ok {
		return nil, false
	}

	summary := &stays.ReviewsSummary{OverallRating: overall}
	if count, ok := reviewSection.Get("overallCount").Int(); ok {
		summary.TotalReviews = count
	}

	for _, rating := range reviewSection.Get("ratings").Arr() {
		var score *float64
		if s, ok := rating.Get("localizedRating").Str(); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				score = &f
			}
		}
		if score == nil {
			if f, ok := rating.Get("rating").Float(); ok {
				score = &f
			}
		}
		if score == nil {
			continue
		}

		switch strings.ToLower(rating.Get("label").StrOr("")) {
		case "cleanliness":
			summary.Cleanliness = score
		case "accuracy":
			summary.Accuracy = score
		case "communication":
			summary.Communication = score
		case "location":
			summary.Location = score
		case "check-in", "checkin":
			summary.CheckIn = score
		case "value":
			summary.Value = score
		}
	}

	var reviews []stays.Review
	for _, item := range reviewSection.Get("reviewsData", "reviews").Arr() {
		if review, ok := singleReview(item); ok {
			reviews = append(reviews, review)
		}
	}

	// Guest-favorite pages ship featured review snippets through sbuiData
	// instead of the reviews list.
	if len(reviews) == 0 {
		reviews = sbuiReviews(container.Get("sbuiData"))
	}

	return &stays.ReviewsPage{
		ListingID: listingID,
		Summary:   summary,
		Reviews:   reviews,
	}, true
}

func sbuiReviews(sbui jsontree.Node) []stays.Review {
	var reviews []stays.Review
	for _, section := range sbui.Get("sectionConfiguration", "root", "sections").Arr() {
		for _, highlight := range section.Get("sectionData", "reviewHighlights").Arr() {
			text, ok := highlight.Get("reviewText").Str()
			if !ok {
				continue
			}
			reviews = append(reviews, stays.Review{
				Author:  highlight.Get("reviewerName").StrOr("Guest"),
				Comment: text,
			})
		}
	}
	return reviews
}

func reviewsFromLegacyJSON(data jsontree.Node, listingID string) (*stays.ReviewsPage, bool) {
	items, ok := findReviewsData(data)
	if !ok {
		return nil, false
	}

	var reviews []stays.Review
	for _, item := range items {
		if review, ok := singleReview(item); ok {
			reviews = append(reviews, review)
		}
	}
	if len(reviews) == 0 {
		return nil, false
	}

	return &stays.ReviewsPage{
		ListingID: listingID,
		Summary:   legacySummary(data),
		Reviews:   reviews,
	}, true
}

func findReviewsData(data jsontree.Node) ([]jsontree.Node, bool) {
	paths := [][]string{
		{"props", "pageProps", "reviews"},
		{"props", "pageProps", "listing", "reviews"},
		{"data", "presentation", "stayProductDetailPage", "reviews", "reviews"},
	}
	for _, path := range paths {
		if arr := data.Get(path...).Arr(); arr != nil {
			return arr, true
		}
	}

	found := data.Find(20, func(n jsontree.Node) bool {
		arr := n.Get("reviews").Arr()
		for _, item := range arr {
			if item.Get("comments").Exists() || item.Get("comment").Exists() ||
				item.Get("reviewer").Exists() {
				return true
			}
		}
		return false
	})
	if found.Exists() {
		return found.Get("reviews").Arr(), true
	}
	return nil, false
}

// singleReview builds one review; entries with no comment text are
// dropped.
func singleReview(data jsontree.Node) (stays.Review, bool) {
	comment, ok := data.First("comments", "comment", "text").Str()
	if !ok {
		return stays.Review{}, false
	}

	author := data.Get("reviewer").First("firstName", "name").StrOr("")
	if author == "" {
		author = data.First("author", "authorName").StrOr("Anonymous")
	}

	review := stays.Review{
		Author:  author,
		Comment: comment,
		Date:    data.First("createdAt", "date", "localizedDate").StrOr(""),
	}
	if rating, ok := data.Get("rating").Float(); ok {
		review.Rating = &rating
	}
	if response, ok := data.Get("response").First("comments", "text").Str(); ok {
		review.Response = response
	}
	return review, true
}

func legacySummary(data jsontree.Node) *stays.ReviewsSummary {
	paths := [][]string{
		{"props", "pageProps", "listing"},
		{"data", "presentation", "stayProductDetailPage", "reviewsSummary"},
	}
	for _, path := range paths {
		node := data.Get(path...)
		if !node.Exists() {
			continue
		}
		overall, ok := node.First("avgRating", "overallRating").Float()
		if !ok {
			continue
		}

		summary := &stays.ReviewsSummary{OverallRating: overall}
		if count, ok := node.First("reviewsCount", "totalReviews").Int(); ok {
			summary.TotalReviews = count
		}
		setIfPresent := func(dst **float64, key string) {
			if f, ok := node.Get(key).Float(); ok {
				*dst = &f
			}
		}
		setIfPresent(&summary.Cleanliness, "cleanlinessRating")
		setIfPresent(&summary.Accuracy, "accuracyRating")
		setIfPresent(&summary.Communication, "communicationRating")
		setIfPresent(&summary.Location, "locationRating")
		setIfPresent(&summary.CheckIn, "checkinRating")
		setIfPresent(&summary.Value, "valueRating")
		return summary
	}
	return nil
}

func reviewsFromCSS(doc *goquery.Document, listingID string) *stays.ReviewsPage {
	var reviews []stays.Review
	doc.Find("[data-testid='review'], [itemprop='review']").
		Each(func(_ int, el *goquery.Selection) {
			text := strings.TrimSpace(el.Text())
			if text == "" {
				return
			}
			reviews = append(reviews, stays.Review{Author: "Guest", Comment: text})
		})
	return &stays.ReviewsPage{ListingID: listingID, Reviews: reviews}
}
