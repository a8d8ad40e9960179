package stays

// UnavailabilityReason is inferred, never upstream-provided: extraction
// classifies each unavailable day with a fixed precedence (past date wins
// over booking status, which wins over host blocks, which wins over
// min-night closures).
type UnavailabilityReason string

const (
	ReasonUnknown             UnavailabilityReason = "unknown"
	ReasonBooked              UnavailabilityReason = "booked"
	ReasonBlockedByHost       UnavailabilityReason = "blocked_by_host"
	ReasonPastDate            UnavailabilityReason = "past_date"
	ReasonMinNightRestriction UnavailabilityReason = "min_night_restriction"
)

func (r UnavailabilityReason) String() string {
	switch r {
	case ReasonBooked:
		return "Booked"
	case ReasonBlockedByHost:
		return "Blocked by host"
	case ReasonPastDate:
		return "Past date"
	case ReasonMinNightRestriction:
		return "Minimum night restriction"
	default:
		return "Unknown"
	}
}

type CalendarDay struct {
	Date              string                `json:"date"`
	Price             *float64              `json:"price,omitempty"`
	Available         bool                  `json:"available"`
	MinNights         *int                  `json:"min_nights,omitempty"`
	MaxNights         *int                  `json:"max_nights,omitempty"`
	ClosedToArrival   *bool                 `json:"closed_to_arrival,omitempty"`
	ClosedToDeparture *bool                 `json:"closed_to_departure,omitempty"`
	Reason            *UnavailabilityReason `json:"unavailability_reason,omitempty"`
}

// PriceCalendar holds an ordered run of days plus aggregate stats.
// Stats are computed once after assembly via ComputeStats and never
// updated incrementally.
type PriceCalendar struct {
	ListingID     string        `json:"listing_id"`
	Currency      string        `json:"currency"`
	Days          []CalendarDay `json:"days"`
	AveragePrice  *float64      `json:"average_price,omitempty"`
	OccupancyRate *float64      `json:"occupancy_rate,omitempty"`
	MinPrice      *float64      `json:"min_price,omitempty"`
	MaxPrice      *float64      `json:"max_price,omitempty"`
}

// ComputeStats derives average/min/max nightly price over available days
// that carry a price, and the share of unavailable days across the whole
// run.
func (c *PriceCalendar) ComputeStats() {
	if len(c.Days) == 0 {
		return
	}

	var prices []float64
	unavailable := 0
	for _, day := range c.Days {
		if !day.Available {
			unavailable++
			continue
		}
		if day.Price != nil {
			prices = append(prices, *day.Price)
		}
	}

	rate := float64(unavailable) / float64(len(c.Days)) * 100
	c.OccupancyRate = &rate

	if len(prices) == 0 {
		return
	}
	sum := 0.0
	min := prices[0]
	max := prices[0]
	for _, p := range prices {
		sum += p
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	avg := sum / float64(len(prices))
	c.AveragePrice = &avg
	c.MinPrice = &min
	c.MaxPrice = &max
}
