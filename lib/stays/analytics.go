package stays

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

type PropertyTypeCount struct {
	PropertyType string  `json:"property_type"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

type NeighborhoodStats struct {
	Location             string              `json:"location"`
	TotalListings        int                 `json:"total_listings"`
	AveragePrice         *float64            `json:"average_price,omitempty"`
	MedianPrice          *float64            `json:"median_price,omitempty"`
	PriceRange           *[2]float64         `json:"price_range,omitempty"`
	AverageRating        *float64            `json:"average_rating,omitempty"`
	PropertyTypes        []PropertyTypeCount `json:"property_type_distribution"`
	SuperhostPercentage  *float64            `json:"superhost_percentage,omitempty"`
}

type MonthlyOccupancy struct {
	Month         string   `json:"month"`
	TotalDays     int      `json:"total_days"`
	OccupiedDays  int      `json:"occupied_days"`
	AvailableDays int      `json:"available_days"`
	OccupancyRate float64  `json:"occupancy_rate"`
	AveragePrice  *float64 `json:"average_price,omitempty"`
}

type OccupancyEstimate struct {
	ListingID             string             `json:"listing_id"`
	PeriodStart           string             `json:"period_start"`
	PeriodEnd             string             `json:"period_end"`
	TotalDays             int                `json:"total_days"`
	OccupiedDays          int                `json:"occupied_days"`
	AvailableDays         int                `json:"available_days"`
	OccupancyRate         float64            `json:"occupancy_rate"`
	AverageAvailablePrice *float64           `json:"average_available_price,omitempty"`
	WeekendAvgPrice       *float64           `json:"weekend_avg_price,omitempty"`
	WeekdayAvgPrice       *float64           `json:"weekday_avg_price,omitempty"`
	MonthlyBreakdown      []MonthlyOccupancy `json:"monthly_breakdown"`
}

func average(values []float64) *float64 {
	if len(values) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	avg := sum / float64(len(values))
	return &avg
}

// ComputeNeighborhoodStats summarizes one page of search results. Pure
// arithmetic: the caller decides how many listings feed it.
func ComputeNeighborhoodStats(location string, listings []Listing) NeighborhoodStats {
	stats := NeighborhoodStats{
		Location:      location,
		TotalListings: len(listings),
	}

	prices := make([]float64, 0, len(listings))
	for _, l := range listings {
		prices = append(prices, l.PricePerNight)
	}
	sort.Float64s(prices)

	stats.AveragePrice = average(prices)
	if len(prices) > 0 {
		mid := len(prices) / 2
		var median float64
		if len(prices)%2 == 0 {
			median = (prices[mid-1] + prices[mid]) / 2
		} else {
			median = prices[mid]
		}
		stats.MedianPrice = &median
		priceRange := [2]float64{prices[0], prices[len(prices)-1]}
		stats.PriceRange = &priceRange
	}

	var ratings []float64
	for _, l := range listings {
		if l.Rating != nil {
			ratings = append(ratings, *l.Rating)
		}
	}
	stats.AverageRating = average(ratings)

	typeCounts := map[string]int{}
	for _, l := range listings {
		pt := l.PropertyType
		if pt == "" {
			pt = "Unknown"
		}
		typeCounts[pt]++
	}
	for pt, count := range typeCounts {
		stats.PropertyTypes = append(stats.PropertyTypes, PropertyTypeCount{
			PropertyType: pt,
			Count:        count,
			Percentage:   float64(count) / float64(len(listings)) * 100,
		})
	}
	sort.Slice(stats.PropertyTypes, func(i, j int) bool {
		a, b := stats.PropertyTypes[i], stats.PropertyTypes[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.PropertyType < b.PropertyType
	})

	if len(listings) > 0 {
		superhosts := 0
		for _, l := range listings {
			if l.IsSuperhost != nil && *l.IsSuperhost {
				superhosts++
			}
		}
		pct := float64(superhosts) / float64(len(listings)) * 100
		stats.SuperhostPercentage = &pct
	}

	return stats
}

// ComputeOccupancyEstimate treats every unavailable day as occupied, which
// overestimates demand where hosts block dates manually. Weekend nights are
// Friday and Saturday.
func ComputeOccupancyEstimate(listingID string, calendar PriceCalendar) OccupancyEstimate {
	days := calendar.Days

	est := OccupancyEstimate{
		ListingID: listingID,
		TotalDays: len(days),
	}
	for _, d := range days {
		if d.Available {
			est.AvailableDays++
		}
	}
	est.OccupiedDays = est.TotalDays - est.AvailableDays
	if est.TotalDays > 0 {
		est.OccupancyRate = float64(est.OccupiedDays) / float64(est.TotalDays) * 100
	}

	var availablePrices, weekendPrices, weekdayPrices []float64
	for _, d := range days {
		if !d.Available || d.Price == nil {
			continue
		}
		availablePrices = append(availablePrices, *d.Price)
		date, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			continue
		}
		switch date.Weekday() {
		case time.Friday, time.Saturday:
			weekendPrices = append(weekendPrices, *d.Price)
		default:
			weekdayPrices = append(weekdayPrices, *d.Price)
		}
	}
	est.AverageAvailablePrice = average(availablePrices)
	est.WeekendAvgPrice = average(weekendPrices)
	est.WeekdayAvgPrice = average(weekdayPrices)

	if len(days) > 0 {
		est.PeriodStart = days[0].Date
		est.PeriodEnd = days[len(days)-1].Date
	}

	type monthAgg struct {
		total    int
		occupied int
		prices   []float64
	}
	monthly := map[string]*monthAgg{}
	for _, d := range days {
		key := "unknown"
		if len(d.Date) >= 7 {
			key = d.Date[:7]
		}
		agg := monthly[key]
		if agg == nil {
			agg = &monthAgg{}
			monthly[key] = agg
		}
		agg.total++
		if !d.Available {
			agg.occupied++
		} else if d.Price != nil {
			agg.prices = append(agg.prices, *d.Price)
		}
	}
	for month, agg := range monthly {
		m := MonthlyOccupancy{
			Month:         month,
			TotalDays:     agg.total,
			OccupiedDays:  agg.occupied,
			AvailableDays: agg.total - agg.occupied,
			AveragePrice:  average(agg.prices),
		}
		if agg.total > 0 {
			m.OccupancyRate = float64(agg.occupied) / float64(agg.total) * 100
		}
		est.MonthlyBreakdown = append(est.MonthlyBreakdown, m)
	}
	sort.Slice(est.MonthlyBreakdown, func(i, j int) bool {
		return est.MonthlyBreakdown[i].Month < est.MonthlyBreakdown[j].Month
	})

	return est
}

func (s NeighborhoodStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Neighborhood: %s\n", s.Location)
	fmt.Fprintf(&b, "Listings analyzed: %d\n", s.TotalListings)
	if s.AveragePrice != nil {
		fmt.Fprintf(&b, "Average price: $%.0f/night\n", *s.AveragePrice)
	}
	if s.MedianPrice != nil {
		fmt.Fprintf(&b, "Median price: $%.0f/night\n", *s.MedianPrice)
	}
	if s.PriceRange != nil {
		fmt.Fprintf(&b, "Price range: $%.0f - $%.0f/night\n", s.PriceRange[0], s.PriceRange[1])
	}
	if s.AverageRating != nil {
		fmt.Fprintf(&b, "Average rating: %.2f\n", *s.AverageRating)
	}
	if s.SuperhostPercentage != nil {
		fmt.Fprintf(&b, "Superhosts: %.0f%%\n", *s.SuperhostPercentage)
	}
	if len(s.PropertyTypes) > 0 {
		b.WriteString("\nProperty types:\n")
		for _, pt := range s.PropertyTypes {
			fmt.Fprintf(&b, "  %s - %d (%.0f%%)\n", pt.PropertyType, pt.Count, pt.Percentage)
		}
	}
	return b.String()
}

func (e OccupancyEstimate) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Occupancy: listing %s\n", e.ListingID)
	fmt.Fprintf(&b, "Period: %s to %s\n", e.PeriodStart, e.PeriodEnd)
	fmt.Fprintf(&b, "Days: %d total, %d occupied, %d available\n",
		e.TotalDays, e.OccupiedDays, e.AvailableDays)
	fmt.Fprintf(&b, "Occupancy rate: %.1f%%\n", e.OccupancyRate)
	if e.AverageAvailablePrice != nil {
		fmt.Fprintf(&b, "Avg available price: $%.0f/night\n", *e.AverageAvailablePrice)
	}
	if e.WeekendAvgPrice != nil {
		fmt.Fprintf(&b, "Weekend avg: $%.0f/night\n", *e.WeekendAvgPrice)
	}
	if e.WeekdayAvgPrice != nil {
		fmt.Fprintf(&b, "Weekday avg: $%.0f/night\n", *e.WeekdayAvgPrice)
	}
	if len(e.MonthlyBreakdown) > 0 {
		b.WriteString("\nMonthly breakdown:\n")
		fmt.Fprintf(&b, "%-10s %6s %8s %8s %10s %10s\n",
			"Month", "Days", "Occupied", "Avail", "Occ%", "Avg price")
		for _, m := range e.MonthlyBreakdown {
			price := "-"
			if m.AveragePrice != nil {
				price = fmt.Sprintf("$%.0f", *m.AveragePrice)
			}
			fmt.Fprintf(&b, "%-10s %6d %8d %8d %9.1f%% %10s\n",
				m.Month, m.TotalDays, m.OccupiedDays, m.AvailableDays, m.OccupancyRate, price)
		}
	}
	return b.String()
}
