package stays

import (
	"fmt"
	"strings"
)

type HostProfile struct {
	HostID            string   `json:"host_id,omitempty"`
	Name              string   `json:"name"`
	IsSuperhost       *bool    `json:"is_superhost,omitempty"`
	ResponseRate      string   `json:"response_rate,omitempty"`
	ResponseTime      string   `json:"response_time,omitempty"`
	MemberSince       string   `json:"member_since,omitempty"`
	Languages         []string `json:"languages,omitempty"`
	TotalListings     *int     `json:"total_listings,omitempty"`
	Description       string   `json:"description,omitempty"`
	ProfilePictureURL string   `json:"profile_picture_url,omitempty"`
	IdentityVerified  *bool    `json:"identity_verified,omitempty"`
}

func (h HostProfile) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Host: %s\n", h.Name)
	if h.HostID != "" {
		fmt.Fprintf(&b, "ID: %s\n", h.HostID)
	}
	if h.IsSuperhost != nil && *h.IsSuperhost {
		b.WriteString("Superhost: Yes\n")
	}
	if h.ResponseRate != "" {
		fmt.Fprintf(&b, "Response rate: %s\n", h.ResponseRate)
	}
	if h.ResponseTime != "" {
		fmt.Fprintf(&b, "Response time: %s\n", h.ResponseTime)
	}
	if h.MemberSince != "" {
		fmt.Fprintf(&b, "Member since: %s\n", h.MemberSince)
	}
	if len(h.Languages) > 0 {
		fmt.Fprintf(&b, "Languages: %s\n", strings.Join(h.Languages, ", "))
	}
	if h.TotalListings != nil {
		fmt.Fprintf(&b, "Total listings: %d\n", *h.TotalListings)
	}
	if h.IdentityVerified != nil && *h.IdentityVerified {
		b.WriteString("Identity verified: Yes\n")
	}
	if h.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", h.Description)
	}
	return b.String()
}
