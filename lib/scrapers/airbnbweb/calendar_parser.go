package airbnbweb

import (
	"strings"
	"time"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// ParsePriceCalendar extracts availability data from either a listing page
// or a raw calendar API response. Day-by-day data is not rendered into
// current page HTML, so in practice the raw JSON path is the one that
// matters; the embedded-state tiers cover older page formats.
func ParsePriceCalendar(body []byte, listingID string) (*stays.PriceCalendar, error) {
	doc, err := parseDocument(body)
	if err == nil {
		if data, ok := nextData(doc); ok {
			if calendar, ok := CalendarFromJSON(data, listingID); ok {
				return calendar, nil
			}
		}
		for _, payload := range deferredStatePayloads(doc) {
			if calendar, ok := CalendarFromJSON(payload, listingID); ok {
				return calendar, nil
			}
		}
	}

	if data, err := jsontree.Parse(body); err == nil {
		if calendar, ok := CalendarFromJSON(data, listingID); ok {
			return calendar, nil
		}
	}

	return nil, stays.ParseError{Reason: "could not extract calendar data from response"}
}

// CalendarFromJSON assembles a price calendar from any of the known
// calendar payload shapes: month lists, flat day arrays, or a nested days
// key.
func CalendarFromJSON(data jsontree.Node, listingID string) (*stays.PriceCalendar, bool) {
	calendarData, ok := findCalendarData(data)
	if !ok {
		return nil, false
	}

	var days []stays.CalendarDay
	for _, month := range calendarData.First("calendarMonths", "calendar_months").Arr() {
		for _, day := range month.Get("days").Arr() {
			if d, ok := calendarDay(day); ok {
				days = append(days, d)
			}
		}
	}
	if len(days) == 0 {
		for _, day := range calendarData.Arr() {
			if d, ok := calendarDay(day); ok {
				days = append(days, d)
			}
		}
	}
	if len(days) == 0 {
		for _, day := range calendarData.Get("days").Arr() {
			if d, ok := calendarDay(day); ok {
				days = append(days, d)
			}
		}
	}
	if len(days) == 0 {
		return nil, false
	}

	calendar := &stays.PriceCalendar{
		ListingID: listingID,
		Currency:  calendarData.First("currency", "priceCurrency").StrOr("$"),
		Days:      days,
	}
	calendar.ComputeStats()
	return calendar, true
}

func findCalendarData(data jsontree.Node) (jsontree.Node, bool) {
	if data.Get("calendarMonths").Exists() || data.Get("calendar_months").Exists() {
		return data, true
	}

	paths := [][]string{
		{"props", "pageProps", "calendarData"},
		{"props", "pageProps", "listing", "calendarData"},
		{"data", "merlin", "pdpAvailabilityCalendar"},
	}
	for _, path := range paths {
		if node := data.Get(path...); node.Exists() {
			return node, true
		}
	}

	found := data.Find(20, func(n jsontree.Node) bool {
		if n.Get("calendarMonths").Exists() || n.Get("calendar_months").Exists() {
			return true
		}
		for _, item := range n.Get("days").Arr() {
			if item.Get("date").Exists() || item.Get("calendarDate").Exists() {
				return true
			}
		}
		for _, item := range n.Arr() {
			if item.Get("date").Exists() || item.Get("calendarDate").Exists() {
				return true
			}
		}
		return false
	})
	return found, found.Exists()
}

func calendarDay(data jsontree.Node) (stays.CalendarDay, bool) {
	date, ok := data.First("date", "calendarDate").Str()
	if !ok {
		return stays.CalendarDay{}, false
	}

	day := stays.CalendarDay{Date: date}
	if available, ok := data.First("available", "isAvailable").Bool(); ok {
		day.Available = available
	}

	day.Price = dayPrice(data)

	if n, ok := data.First("minNights", "minimumNights", "min_nights").Int(); ok {
		day.MinNights = &n
	}
	if n, ok := data.First("maxNights", "maximumNights", "max_nights").Int(); ok {
		day.MaxNights = &n
	}
	if b, ok := data.Get("closedToArrival").Bool(); ok {
		day.ClosedToArrival = &b
	}
	if b, ok := data.Get("closedToDeparture").Bool(); ok {
		day.ClosedToDeparture = &b
	}

	if !day.Available {
		reason := inferUnavailabilityReason(data, date)
		day.Reason = &reason
	}
	return day, true
}

// dayPrice probes the price shapes of the three calendar API generations.
func dayPrice(data jsontree.Node) *float64 {
	price := data.Get("price")
	if f, ok := price.Float(); ok {
		return &f
	}
	if f, ok := price.First("amount", "local_price", "native_price").Float(); ok {
		return &f
	}
	if s, ok := price.Str(); ok {
		if f, ok := parsePriceString(s); ok {
			return &f
		}
	}
	for _, key := range []string{"localPriceFormatted", "price_string"} {
		if s, ok := data.Get(key).Str(); ok {
			if f, ok := parsePriceString(s); ok {
				return &f
			}
		}
	}
	return nil
}

// inferUnavailabilityReason classifies why a day cannot be booked, from
// most to least specific signal.
func inferUnavailabilityReason(data jsontree.Node, date string) stays.UnavailabilityReason {
	if parsed, err := time.Parse("2006-01-02", date); err == nil {
		if parsed.Before(time.Now().UTC().Truncate(24 * time.Hour)) {
			return stays.ReasonPastDate
		}
	}

	if status, ok := data.First("bookingStatusType", "booking_status_type", "bookingStatus").Str(); ok {
		lower := strings.ToLower(status)
		if strings.Contains(lower, "booked") || strings.Contains(lower, "reservation") {
			return stays.ReasonBooked
		}
	}

	if auto, ok := data.First("autoAvailability", "auto_availability").Bool(); ok && !auto {
		return stays.ReasonBlockedByHost
	}
	if blocked, ok := data.First("hostBlocked", "host_blocked", "blocked").Bool(); ok && blocked {
		return stays.ReasonBlockedByHost
	}

	arrival, _ := data.Get("closedToArrival").Bool()
	departure, _ := data.Get("closedToDeparture").Bool()
	if arrival && departure {
		return stays.ReasonMinNightRestriction
	}

	return stays.ReasonUnknown
}
