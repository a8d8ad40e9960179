package stays

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SearchParams carries caller-supplied search filters. Zero values mean
// "not set" and are omitted from outgoing queries.
type SearchParams struct {
	Location     string `json:"location"`
	Checkin      string `json:"checkin,omitempty"`
	Checkout     string `json:"checkout,omitempty"`
	Adults       int    `json:"adults,omitempty"`
	Children     int    `json:"children,omitempty"`
	Infants      int    `json:"infants,omitempty"`
	Pets         int    `json:"pets,omitempty"`
	MinPrice     int    `json:"min_price,omitempty"`
	MaxPrice     int    `json:"max_price,omitempty"`
	PropertyType string `json:"property_type,omitempty"`
	Cursor       string `json:"cursor,omitempty"`
}

const dateLayout = "2006-01-02"

// Validate runs before any I/O; a failure here is never retried.
func (p SearchParams) Validate() error {
	if strings.TrimSpace(p.Location) == "" {
		return InvalidParamsError{Reason: "location is required"}
	}

	switch {
	case p.Checkin != "" && p.Checkout != "":
		checkin, err := time.Parse(dateLayout, p.Checkin)
		if err != nil {
			return InvalidParamsError{Reason: fmt.Sprintf(
				"invalid checkin date format '%s', expected YYYY-MM-DD", p.Checkin,
			)}
		}
		checkout, err := time.Parse(dateLayout, p.Checkout)
		if err != nil {
			return InvalidParamsError{Reason: fmt.Sprintf(
				"invalid checkout date format '%s', expected YYYY-MM-DD", p.Checkout,
			)}
		}
		if !checkout.After(checkin) {
			return InvalidParamsError{Reason: "checkout date must be after checkin date"}
		}
	case p.Checkin != "" || p.Checkout != "":
		return InvalidParamsError{Reason: "both checkin and checkout must be provided together"}
	}

	if p.MinPrice > 0 && p.MaxPrice > 0 && p.MinPrice > p.MaxPrice {
		return InvalidParamsError{Reason: "min_price cannot be greater than max_price"}
	}

	return nil
}

// QueryPairs returns the set filters as ordered key/value pairs, the order
// the search URL expects them in.
func (p SearchParams) QueryPairs() [][2]string {
	var pairs [][2]string
	add := func(key, value string) {
		pairs = append(pairs, [2]string{key, value})
	}

	if p.Checkin != "" {
		add("checkin", p.Checkin)
	}
	if p.Checkout != "" {
		add("checkout", p.Checkout)
	}
	if p.Adults > 0 {
		add("adults", strconv.Itoa(p.Adults))
	}
	if p.Children > 0 {
		add("children", strconv.Itoa(p.Children))
	}
	if p.Infants > 0 {
		add("infants", strconv.Itoa(p.Infants))
	}
	if p.Pets > 0 {
		add("pets", strconv.Itoa(p.Pets))
	}
	if p.MinPrice > 0 {
		add("price_min", strconv.Itoa(p.MinPrice))
	}
	if p.MaxPrice > 0 {
		add("price_max", strconv.Itoa(p.MaxPrice))
	}
	if p.PropertyType != "" {
		add("property_type", p.PropertyType)
	}
	if p.Cursor != "" {
		add("cursor", p.Cursor)
	}

	return pairs
}
