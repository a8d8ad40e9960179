package stays

// Listing is a search-result summary. The id is always non-empty: entries
// without an id are discarded during extraction, never surfaced.
type Listing struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Location        string   `json:"location"`
	PricePerNight   float64  `json:"price_per_night"`
	Currency        string   `json:"currency"`
	Rating          *float64 `json:"rating,omitempty"`
	ReviewCount     int      `json:"review_count"`
	ThumbnailURL    string   `json:"thumbnail_url,omitempty"`
	PropertyType    string   `json:"property_type,omitempty"`
	HostName        string   `json:"host_name,omitempty"`
	HostID          string   `json:"host_id,omitempty"`
	URL             string   `json:"url"`
	IsSuperhost     *bool    `json:"is_superhost,omitempty"`
	IsGuestFavorite *bool    `json:"is_guest_favorite,omitempty"`
	InstantBook     *bool    `json:"instant_book,omitempty"`
	TotalPrice      *float64 `json:"total_price,omitempty"`
	Photos          []string `json:"photos,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
}

// SearchResult is one page of search output.
type SearchResult struct {
	Listings   []Listing `json:"listings"`
	TotalCount *int      `json:"total_count,omitempty"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// ListingDetail is the full listing record. PricePerNight == 0 and
// Rating == nil mean "field not populated", not a valid zero value; the
// composite client keys its merge decision off that convention.
type ListingDetail struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Description   string   `json:"description"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	Rating        *float64 `json:"rating,omitempty"`
	ReviewCount   int      `json:"review_count"`
	PropertyType  string   `json:"property_type,omitempty"`
	HostName      string   `json:"host_name,omitempty"`
	URL           string   `json:"url"`
	Amenities     []string `json:"amenities,omitempty"`
	HouseRules    []string `json:"house_rules,omitempty"`
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Photos        []string `json:"photos,omitempty"`
	Bedrooms      *int     `json:"bedrooms,omitempty"`
	Beds          *int     `json:"beds,omitempty"`
	Bathrooms     *float64 `json:"bathrooms,omitempty"`
	MaxGuests     *int     `json:"max_guests,omitempty"`
	CheckInTime   string   `json:"check_in_time,omitempty"`
	CheckOutTime  string   `json:"check_out_time,omitempty"`

	HostID            string   `json:"host_id,omitempty"`
	HostIsSuperhost   *bool    `json:"host_is_superhost,omitempty"`
	HostResponseRate  string   `json:"host_response_rate,omitempty"`
	HostResponseTime  string   `json:"host_response_time,omitempty"`
	HostJoined        string   `json:"host_joined,omitempty"`
	HostTotalListings *int     `json:"host_total_listings,omitempty"`
	HostLanguages     []string `json:"host_languages,omitempty"`

	CancellationPolicy string   `json:"cancellation_policy,omitempty"`
	InstantBook        *bool    `json:"instant_book,omitempty"`
	CleaningFee        *float64 `json:"cleaning_fee,omitempty"`
	ServiceFee         *float64 `json:"service_fee,omitempty"`
	Neighborhood       string   `json:"neighborhood,omitempty"`
}
