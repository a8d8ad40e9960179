package airbnbgql

import (
	"strconv"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

func parseReviewsResponse(data jsontree.Node, listingID string) (*stays.ReviewsPage, error) {
	reviewsData := data.Get("data", "presentation", "stayProductDetailPage", "reviews")
	if !reviewsData.Exists() {
		return nil, stays.ParseError{Reason: "GraphQL reviews: could not find reviews object"}
	}

	page := &stays.ReviewsPage{
		ListingID: listingID,
		Summary:   reviewsSummary(reviewsData),
		Reviews:   []stays.Review{},
	}
	for _, entry := range reviewsData.Get("reviews").Arr() {
		if review, ok := singleReview(entry); ok {
			page.Reviews = append(page.Reviews, review)
		}
	}

	total, hasTotal := reviewsData.Get("reviewsCount").Int()
	if !hasTotal {
		total, hasTotal = reviewsData.Get("metadata", "reviewsCount").Int()
	}
	offset, _ := reviewsData.Get("metadata", "offset").Int()
	if hasTotal && offset+len(page.Reviews) <= total && len(page.Reviews) > 0 {
		page.NextCursor = strconv.Itoa(offset + len(page.Reviews))
	}

	return page, nil
}

// reviewsSummary requires an overall rating; without one there is no
// summary worth reporting.
func reviewsSummary(data jsontree.Node) *stays.ReviewsSummary {
	overall, ok := data.Get("overallRating").Float()
	if !ok {
		overall, ok = data.Get("reviewSummary", "overallRating").Float()
	}
	if !ok {
		return nil
	}

	summary := &stays.ReviewsSummary{OverallRating: overall}
	if n, ok := data.First("reviewsCount", "overallCount").Int(); ok {
		summary.TotalReviews = n
	} else if n, ok := data.Get("reviewSummary", "totalReviews").Int(); ok {
		summary.TotalReviews = n
	}

	ratings := data.First("ratings", "categoryRatings")
	if !ratings.Exists() {
		ratings = data.Get("reviewSummary", "categoryRatings")
	}
	for _, cat := range ratings.Arr() {
		name := cat.First("label", "name").StrOr("")
		catType := cat.Get("categoryType").StrOr("")

		var score *float64
		if f, ok := cat.Get("value").Float(); ok {
			score = &f
		} else if s, ok := cat.Get("localizedRating").Str(); ok {
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				score = &f
			}
		} else if p, ok := cat.Get("percentage").Float(); ok {
			f := p * 5.0
			score = &f
		}

		switch {
		case name == "Cleanliness" || catType == "CLEANLINESS":
			summary.Cleanliness = score
		case name == "Accuracy" || catType == "ACCURACY":
			summary.Accuracy = score
		case name == "Communication" || catType == "COMMUNICATION":
			summary.Communication = score
		case name == "Location" || catType == "LOCATION":
			summary.Location = score
		case name == "Check-in" || name == "check_in" || catType == "CHECKIN":
			summary.CheckIn = score
		case name == "Value" || catType == "VALUE":
			summary.Value = score
		}
	}
	return summary
}

// singleReview converts one review entry. Entries with no comment text are
// dropped.
func singleReview(entry jsontree.Node) (stays.Review, bool) {
	comment, ok := entry.First("comments", "comment", "text", "body", "content").Str()
	if !ok {
		return stays.Review{}, false
	}

	review := stays.Review{
		Comment: comment,
		Author:  entry.Get("reviewer", "firstName").StrOr(entry.Get("reviewerName").StrOr("Anonymous")),
		Date:    entry.First("createdAt", "localizedDate").StrOr(""),
	}
	if f, ok := entry.Get("rating").Float(); ok {
		review.Rating = &f
	}
	if s, ok := entry.Get("response").Str(); ok {
		review.Response = s
	} else if s, ok := entry.Get("hostResponse", "comments").Str(); ok {
		review.Response = s
	}
	review.ReviewerLocation = entry.Get("reviewer", "location").StrOr("")
	review.Language = entry.Get("language").StrOr("")
	if b, ok := entry.Get("isTranslated").Bool(); ok {
		review.IsTranslated = &b
	}
	return review, true
}
