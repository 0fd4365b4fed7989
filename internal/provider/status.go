package provider

import (
	"strings"

	"github.com/alanyoungcy/fixturecast/internal/domain"
)

// statusAliases maps the upstream status vocabulary, lowercased, onto the
// canonical lifecycle.
var statusAliases = map[string]domain.FixtureStatus{
	"":                     domain.FixtureScheduled,
	"ns":                   domain.FixtureScheduled,
	"not started":          domain.FixtureScheduled,
	"scheduled":            domain.FixtureScheduled,
	"tbd":                  domain.FixtureTBA,
	"time to be defined":   domain.FixtureTBA,
	"1h":                   domain.FixtureLive,
	"2h":                   domain.FixtureLive,
	"ht":                   domain.FixtureLive,
	"halftime":             domain.FixtureLive,
	"et":                   domain.FixtureLive,
	"bt":                   domain.FixtureLive,
	"p":                    domain.FixtureLive,
	"live":                 domain.FixtureLive,
	"inplay":               domain.FixtureLive,
	"in play":              domain.FixtureLive,
	"ft":                   domain.FixtureFinished,
	"aet":                  domain.FixtureFinished,
	"pen":                  domain.FixtureFinished,
	"fin":                  domain.FixtureFinished,
	"finished":             domain.FixtureFinished,
	"match finished":       domain.FixtureFinished,
	"after extra time":     domain.FixtureFinished,
	"after penalties":      domain.FixtureFinished,
	"postp.":               domain.FixturePostponed,
	"pst":                  domain.FixturePostponed,
	"postponed":            domain.FixturePostponed,
	"susp":                 domain.FixturePostponed,
	"suspended":            domain.FixturePostponed,
	"canc.":                domain.FixtureCancelled,
	"canc":                 domain.FixtureCancelled,
	"cancl.":               domain.FixtureCancelled,
	"cancelled":            domain.FixtureCancelled,
	"canceled":             domain.FixtureCancelled,
	"abd":                  domain.FixtureCancelled,
	"aban.":                domain.FixtureCancelled,
	"abandoned":            domain.FixtureCancelled,
	"wo":                   domain.FixtureCancelled,
	"awd":                  domain.FixtureCancelled,
	"walkover":             domain.FixtureCancelled,
	"technical loss":       domain.FixtureCancelled,
}

// MapStatus normalizes a provider status string. A bare minute marker like
// "45'" means the match is live; anything unrecognized defaults to scheduled.
func MapStatus(raw string) domain.FixtureStatus {
	key := strings.ToLower(strings.TrimSpace(raw))
	if s, ok := statusAliases[key]; ok {
		return s
	}
	if strings.HasSuffix(key, "'") || strings.HasSuffix(key, "+") {
		return domain.FixtureLive
	}
	if isDigits(key) {
		return domain.FixtureLive
	}
	return domain.FixtureScheduled
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
