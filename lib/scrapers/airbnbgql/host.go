package airbnbgql

import (
	"fmt"
	"strconv"
	"strings"

	"airstay-backend/lib/jsontree"
	"airstay-backend/lib/stays"
)

// parseHostResponse accepts either a GetUserProfile response or a
// StaysPdpSections response with a host section.
func parseHostResponse(data jsontree.Node) (*stays.HostProfile, error) {
	profile := data.Get("data", "presentation", "userProfileContainer")
	if !profile.Exists() {
		profile = data.Get("data", "user")
	}
	if profile.Exists() {
		return hostFromProfileObject(profile), nil
	}

	sections := data.Get("data", "presentation", "stayProductDetailPage", "sections", "sections").Arr()
	if sections == nil {
		return nil, stays.ParseError{Reason: "GraphQL host: could not find sections array"}
	}
	for _, section := range sections {
		sectionType := section.Get("sectionComponentType").StrOr("")
		if sectionType != "MEET_YOUR_HOST" && !strings.Contains(sectionType, "HOST") {
			continue
		}
		if body := section.Get("section"); body.Exists() {
			return hostFromSection(body), nil
		}
	}
	return nil, stays.ParseError{Reason: "GraphQL host: could not find host section"}
}

func hostFromSection(section jsontree.Node) *stays.HostProfile {
	card := section.Get("cardData")

	profile := &stays.HostProfile{
		Name: card.Get("name").StrOr(section.First("hostName", "name").StrOr("Unknown")),
	}
	if hostID, ok := strOrNumber(card.Get("userId")); ok {
		profile.HostID = hostID
	} else if hostID, ok := strOrNumber(section.Get("hostId")); ok {
		profile.HostID = hostID
	}
	if b, ok := card.Get("isSuperhost").Bool(); ok {
		profile.IsSuperhost = &b
	} else if b, ok := section.Get("isSuperhost").Bool(); ok {
		profile.IsSuperhost = &b
	}

	rate, respTime := hostDetailsLines(section)
	if rate == "" {
		rate = section.Get("hostResponseRate").StrOr("")
	}
	if respTime == "" {
		respTime = section.First("hostRespondTimeCopy", "hostResponseTime").StrOr("")
	}
	profile.ResponseRate = rate
	profile.ResponseTime = respTime

	if years, ok := card.Get("timeAsHost", "years").Int(); ok {
		profile.MemberSince = fmt.Sprintf("%d years hosting", years)
	} else {
		profile.MemberSince = section.Get("hostMemberSince").StrOr("")
	}

	profile.Languages = hostLanguages(section)
	if n, ok := section.First("listingsCount", "hostListingCount").Int(); ok {
		profile.TotalListings = &n
	}
	profile.Description = section.First("about", "description").StrOr("")

	if url, ok := card.Get("profilePictureUrl").Str(); ok {
		profile.ProfilePictureURL = url
	} else if url, ok := section.Get("profilePicture", "baseUrl").Str(); ok {
		profile.ProfilePictureURL = url
	} else {
		profile.ProfilePictureURL = section.Get("profilePictureUrl").StrOr("")
	}
	if b, ok := card.Get("isIdentityVerified").Bool(); ok {
		profile.IdentityVerified = &b
	} else if b, ok := section.Get("isIdentityVerified").Bool(); ok {
		profile.IdentityVerified = &b
	}
	return profile
}

func hostFromProfileObject(obj jsontree.Node) *stays.HostProfile {
	profile := &stays.HostProfile{
		Name: obj.First("name", "hostName", "firstName").StrOr("Unknown"),
	}
	if hostID, ok := strOrNumber(obj.First("id", "hostId", "userId")); ok {
		profile.HostID = hostID
	}
	if b, ok := obj.Get("isSuperhost").Bool(); ok {
		profile.IsSuperhost = &b
	}

	if s, ok := obj.First("responseRate", "hostResponseRate").Str(); ok {
		profile.ResponseRate = s
	} else if n, ok := obj.Get("responseRate").Int(); ok {
		profile.ResponseRate = fmt.Sprintf("%d%%", n)
	}
	profile.ResponseTime = obj.First("responseTime", "hostResponseTime").StrOr("")
	profile.MemberSince = obj.First("memberSince", "createdAt", "hostMemberSince").StrOr("")

	for _, lang := range obj.First("languages", "hostLanguages").Arr() {
		if s, ok := lang.Str(); ok {
			profile.Languages = append(profile.Languages, s)
		}
	}
	if n, ok := obj.First("listingsCount", "hostListingCount").Int(); ok {
		profile.TotalListings = &n
	}
	profile.Description = obj.First("about", "description").StrOr("")

	if url, ok := obj.Get("profilePicture", "baseUrl").Str(); ok {
		profile.ProfilePictureURL = url
	} else {
		profile.ProfilePictureURL = obj.First("profilePictureUrl", "pictureUrl").StrOr("")
	}
	if b, ok := obj.First("isIdentityVerified", "identityVerified").Bool(); ok {
		profile.IdentityVerified = &b
	}
	return profile
}

// hostDetailsLines classifies free-text host detail lines like
// "Response rate: 100%" and "Responds within an hour".
func hostDetailsLines(section jsontree.Node) (rate, respTime string) {
	for _, detail := range section.Get("hostDetails").Arr() {
		line, ok := detail.Str()
		if !ok {
			continue
		}
		lower := strings.ToLower(line)
		switch {
		case strings.Contains(lower, "response rate"):
			rate = line
		case strings.Contains(lower, "respond"):
			respTime = line
		}
	}
	return rate, respTime
}

// hostLanguages prefers the highlight line ("Speaks English and French")
// and falls back to an explicit hostLanguages array.
func hostLanguages(section jsontree.Node) []string {
	if langs := languagesFromHighlights(section); len(langs) > 0 {
		return langs
	}
	var langs []string
	for _, lang := range section.Get("hostLanguages").Arr() {
		if s, ok := lang.Str(); ok {
			langs = append(langs, s)
		}
	}
	return langs
}

func languagesFromHighlights(section jsontree.Node) []string {
	for _, highlight := range section.Get("hostHighlights").Arr() {
		title, ok := highlight.Get("title").Str()
		if !ok || !strings.HasPrefix(strings.ToLower(title), "speaks ") {
			continue
		}
		var langs []string
		splitter := func(r rune) bool { return r == ',' || r == '&' }
		for _, chunk := range strings.FieldsFunc(title[len("speaks "):], splitter) {
			for _, part := range strings.Split(chunk, " and ") {
				if lang := strings.TrimSpace(part); lang != "" {
					langs = append(langs, lang)
				}
			}
		}
		return langs
	}
	return nil
}

// strOrNumber reads an identifier that may arrive as a string or a JSON
// number.
func strOrNumber(n jsontree.Node) (string, bool) {
	if s, ok := n.Str(); ok {
		return s, true
	}
	if f, ok := n.Float(); ok {
		return strconv.FormatInt(int64(f), 10), true
	}
	return "", false
}
