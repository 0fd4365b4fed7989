package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// isoLayouts are tried in order before falling back to day-first parsing.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseKickoff turns a provider date string plus optional time-of-day string
// into a UTC instant. ISO-8601 forms are tried first; otherwise the date is
// split on "."/"-"/"/" as day.month.year and combined with rawTime
// (defaulting to 00:00). All results are UTC; no local timezone is inferred.
func ParseKickoff(rawDate, rawTime string) (time.Time, error) {
	rawDate = strings.TrimSpace(rawDate)
	rawTime = strings.TrimSpace(rawTime)
	if rawDate == "" {
		return time.Time{}, fmt.Errorf("provider: empty date")
	}

	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, rawDate)
		if err != nil {
			continue
		}
		t = t.UTC()
		// A date-only value still takes the separate time field.
		if layout == "2006-01-02" && rawTime != "" {
			hh, mm, terr := parseClock(rawTime)
			if terr == nil {
				t = t.Add(time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute)
			}
		}
		return t, nil
	}

	day, month, year, err := splitDayFirst(rawDate)
	if err != nil {
		return time.Time{}, err
	}

	hh, mm := 0, 0
	if rawTime != "" {
		if h, m, terr := parseClock(rawTime); terr == nil {
			hh, mm = h, m
		}
	}

	t := time.Date(year, time.Month(month), day, hh, mm, 0, 0, time.UTC)
	// time.Date normalizes out-of-range components; reject them instead.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("provider: invalid date %q", rawDate)
	}
	return t, nil
}

// splitDayFirst splits rawDate on "."/"-"/"/" into day, month, year. A
// four-digit leading component is treated as year-first instead.
func splitDayFirst(rawDate string) (day, month, year int, err error) {
	parts := strings.FieldsFunc(rawDate, func(r rune) bool {
		return r == '.' || r == '-' || r == '/'
	})
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("provider: unparseable date %q", rawDate)
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, perr := strconv.Atoi(strings.TrimSpace(p))
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("provider: unparseable date %q", rawDate)
		}
		nums[i] = n
	}

	if len(parts[0]) == 4 {
		year, month, day = nums[0], nums[1], nums[2]
	} else {
		day, month, year = nums[0], nums[1], nums[2]
	}
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("provider: invalid date %q", rawDate)
	}
	return day, month, year, nil
}

// parseClock parses "HH:MM" or "HH:MM:SS".
func parseClock(raw string) (hh, mm int, err error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("provider: unparseable time %q", raw)
	}
	hh, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("provider: unparseable time %q", raw)
	}
	mm, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("provider: unparseable time %q", raw)
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, 0, fmt.Errorf("provider: invalid time %q", raw)
	}
	return hh, mm, nil
}

// ParseEpochSeconds parses an epoch-seconds string into a UTC instant.
func ParseEpochSeconds(raw string) (time.Time, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("provider: unparseable epoch %q", raw)
	}
	return time.Unix(n, 0).UTC(), nil
}
