package sportsdb

// Payload shapes for thesportsdb events endpoints. Every scalar arrives as
// a string, including scores and the epoch timestamp.

type sdbEnvelope struct {
	Events []sdbEvent `json:"events"`
}

type sdbEvent struct {
	ID            string `json:"idEvent"`
	League        string `json:"strLeague"`
	Country       string `json:"strCountry"`
	Season        string `json:"strSeason"`
	Round         string `json:"intRound"`
	DateEvent     string `json:"dateEvent"` // "2006-01-02"
	TimeEvent     string `json:"strTime"`   // "15:04:05"
	Timestamp     string `json:"strTimestamp"`
	Status        string `json:"strStatus"`
	HomeTeamID    string `json:"idHomeTeam"`
	HomeTeam      string `json:"strHomeTeam"`
	HomeBadge     string `json:"strHomeTeamBadge"`
	AwayTeamID    string `json:"idAwayTeam"`
	AwayTeam      string `json:"strAwayTeam"`
	AwayBadge     string `json:"strAwayTeamBadge"`
	HomeScore     string `json:"intHomeScore"`
	AwayScore     string `json:"intAwayScore"`
	HomePenalties string `json:"intHomePenalties"`
	AwayPenalties string `json:"intAwayPenalties"`
}
