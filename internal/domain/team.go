package domain

import (
	"strings"
	"time"
)

// Team is a canonical team record. Teams are created on first sighting from
// any provider and never deleted; metadata is backfilled on later sightings.
type Team struct {
	ID         string
	ExternalID string // provider-native id, empty when unknown
	Name       string
	ShortName  string
	Code       string
	Country    string
	LogoURL    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TeamDescriptor is what an adapter knows about a team: a required name plus
// whatever optional metadata the provider happened to include.
type TeamDescriptor struct {
	Name       string
	ExternalID string
	ShortName  string
	Code       string
	Country    string
	LogoURL    string
}

// Merge fills empty metadata fields on the team from the descriptor. A
// populated field is never overwritten with an empty value. It returns true
// when anything changed.
func (t *Team) Merge(d TeamDescriptor) bool {
	changed := false
	fill := func(dst *string, src string) {
		if *dst == "" && src != "" {
			*dst = src
			changed = true
		}
	}
	fill(&t.ExternalID, d.ExternalID)
	fill(&t.ShortName, d.ShortName)
	fill(&t.Code, d.Code)
	fill(&t.Country, d.Country)
	fill(&t.LogoURL, d.LogoURL)
	return changed
}

// NormalizeTeamName lowercases, trims, and collapses whitespace and
// separator characters so the same club spelled slightly differently across
// providers resolves to one record.
func NormalizeTeamName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, ".", " ")
	s = strings.ReplaceAll(s, "|", " ")
	return strings.Join(strings.Fields(s), " ")
}
