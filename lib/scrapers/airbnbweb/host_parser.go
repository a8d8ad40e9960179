package airbnbweb

import (
	"fmt"
	"strconv"
	"strings"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// ParseHostProfile extracts the host card from a listing page. Host data
// only ships inside the deferred-state PDP payload; there is no usable CSS
// fallback for it.
func ParseHostProfile(html []byte) (*stays.HostProfile, error) {
	doc, err := parseDocument(html)
	if err != nil {
		return nil, err
	}
	for _, payload := range deferredStatePayloads(doc) {
		if profile, ok := hostFromPdpSections(payload); ok {
			return profile, nil
		}
	}
	return nil, stays.ParseError{Reason: "could not extract host profile from listing page"}
}

func hostFromPdpSections(payload jsontree.Node) (*stays.HostProfile, bool) {
	sections, _, ok := pdpSections(payload)
	if !ok {
		return nil, false
	}
	hostSection := findSection(sections, "MEET_YOUR_HOST")
	card := hostSection.Get("cardData")
	if !card.Exists() {
		return nil, false
	}

	profile := &stays.HostProfile{
		Name: card.Get("name").StrOr("Unknown"),
	}

	idNode := card.First("userId", "id", "hostId")
	if s, ok := idNode.Str(); ok {
		profile.HostID = s
	} else if n, ok := idNode.Float(); ok {
		profile.HostID = strconv.FormatInt(int64(n), 10)
	}

	if superhost, ok := card.Get("isSuperhost").Bool(); ok {
		profile.IsSuperhost = &superhost
	}

	profile.ResponseRate = card.Get("responseRate").StrOr("")
	if profile.ResponseRate == "" {
		profile.ResponseRate = hostSection.Get("hostResponseRate").StrOr("")
	}
	profile.ResponseTime = card.Get("responseTime").StrOr("")
	if profile.ResponseTime == "" {
		profile.ResponseTime = hostSection.Get("hostRespondTimeCopy").StrOr("")
	}

	profile.MemberSince = card.First("memberSince", "createdAt", "joinedDate").StrOr("")
	if profile.MemberSince == "" {
		if years, ok := card.Get("timeAsHost", "years").Int(); ok {
			profile.MemberSince = fmt.Sprintf("%d years hosting", years)
		}
	}

	for _, lang := range card.Get("languages").Arr() {
		if s, ok := lang.Str(); ok {
			profile.Languages = append(profile.Languages, s)
		}
	}
	if len(profile.Languages) == 0 {
		profile.Languages = languagesFromHighlights(hostSection)
	}

	if listings, ok := card.First("listingsCount", "hostListingCount").Int(); ok {
		profile.TotalListings = &listings
	}

	profile.Description = card.First("about", "description").StrOr("")
	if profile.Description == "" {
		profile.Description = hostSection.Get("about").StrOr("")
	}

	profile.ProfilePictureURL = card.
		First("profilePictureUrl", "profilePicture", "avatarUrl", "pictureUrl").StrOr("")

	if verified, ok := card.First("isIdentityVerified", "identityVerified", "isVerified").Bool(); ok {
		profile.IdentityVerified = &verified
	}

	return profile, true
}

// languagesFromHighlights parses a "Speaks English and French" host
// highlight into its language names.
func languagesFromHighlights(hostSection jsontree.Node) []string {
	for _, highlight := range hostSection.Get("hostHighlights").Arr() {
		title, ok := highlight.Get("title").Str()
		if !ok {
			continue
		}
		lower := strings.ToLower(title)
		if !strings.HasPrefix(lower, "speaks ") && !strings.HasPrefix(lower, "language") {
			continue
		}

		spoken := title
		if strings.HasPrefix(lower, "speaks ") {
			spoken = title[len("speaks "):]
		}

		var languages []string
		for _, chunk := range strings.FieldsFunc(spoken, func(r rune) bool {
			return r == ',' || r == '&'
		}) {
			for _, lang := range strings.Split(chunk, " and ") {
				if lang = strings.TrimSpace(lang); lang != "" {
					languages = append(languages, lang)
				}
			}
		}
		return languages
	}
	return nil
}
