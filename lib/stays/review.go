package stays

import (
	"fmt"
	"strings"
)

type Review struct {
	Author           string   `json:"author"`
	Date             string   `json:"date"`
	Rating           *float64 `json:"rating,omitempty"`
	Comment          string   `json:"comment"`
	Response         string   `json:"response,omitempty"`
	ReviewerLocation string   `json:"reviewer_location,omitempty"`
	Language         string   `json:"language,omitempty"`
	IsTranslated     *bool    `json:"is_translated,omitempty"`
}

// ReviewsSummary aggregates a listing's ratings: the overall score plus the
// six category sub-ratings when the upstream exposes them.
type ReviewsSummary struct {
	OverallRating float64  `json:"overall_rating"`
	TotalReviews  int      `json:"total_reviews"`
	Cleanliness   *float64 `json:"cleanliness,omitempty"`
	Accuracy      *float64 `json:"accuracy,omitempty"`
	Communication *float64 `json:"communication,omitempty"`
	Location      *float64 `json:"location,omitempty"`
	CheckIn       *float64 `json:"check_in,omitempty"`
	Value         *float64 `json:"value,omitempty"`
}

type ReviewsPage struct {
	ListingID  string          `json:"listing_id"`
	Summary    *ReviewsSummary `json:"summary,omitempty"`
	Reviews    []Review        `json:"reviews"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func (r Review) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**", r.Author)
	if r.ReviewerLocation != "" {
		fmt.Fprintf(&b, " from %s", r.ReviewerLocation)
	}
	fmt.Fprintf(&b, " (%s)", r.Date)
	if r.Rating != nil {
		fmt.Fprintf(&b, " - %.1f*", *r.Rating)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s\n", r.Comment)
	if r.Response != "" {
		fmt.Fprintf(&b, "> Host response: %s\n", r.Response)
	}
	return b.String()
}

func (p ReviewsPage) String() string {
	var b strings.Builder
	if p.Summary != nil {
		s := p.Summary
		fmt.Fprintf(&b, "Overall: %.2f (%d reviews)\n", s.OverallRating, s.TotalReviews)
		if s.Cleanliness != nil {
			fmt.Fprintf(&b, "Cleanliness: %.1f | ", *s.Cleanliness)
		}
		if s.Accuracy != nil {
			fmt.Fprintf(&b, "Accuracy: %.1f | ", *s.Accuracy)
		}
		if s.Communication != nil {
			fmt.Fprintf(&b, "Communication: %.1f | ", *s.Communication)
		}
		if s.Location != nil {
			fmt.Fprintf(&b, "Location: %.1f | ", *s.Location)
		}
		if s.CheckIn != nil {
			fmt.Fprintf(&b, "Check-in: %.1f | ", *s.CheckIn)
		}
		if s.Value != nil {
			fmt.Fprintf(&b, "Value: %.1f", *s.Value)
		}
		b.WriteString("\n---\n")
	}
	for _, review := range p.Reviews {
		fmt.Fprintf(&b, "%s\n", review)
	}
	if p.NextCursor != "" {
		b.WriteString("\n[More reviews available - use cursor to paginate]\n")
	}
	return b.String()
}
