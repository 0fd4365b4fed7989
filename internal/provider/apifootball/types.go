package apifootball

import "encoding/json"

// Payload shapes for the api-football v3 fixtures endpoint.

type apiEnvelope struct {
	Get      string      `json:"get"`
	Results  int         `json:"results"`
	Errors   apiErrors   `json:"errors"`
	Response []apiRecord `json:"response"`
}

// apiErrors is a map on failure and an empty array on success.
type apiErrors map[string]string

func (e *apiErrors) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		*e = nil
		return nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*e = m
	return nil
}

type apiRecord struct {
	Fixture apiFixture `json:"fixture"`
	League  apiLeague  `json:"league"`
	Teams   apiTeams   `json:"teams"`
	Goals   apiGoals   `json:"goals"`
	Score   apiScore   `json:"score"`
}

type apiFixture struct {
	ID     int64     `json:"id"`
	Date   string    `json:"date"` // ISO-8601 with offset
	Status apiStatus `json:"status"`
}

type apiStatus struct {
	Long  string `json:"long"`
	Short string `json:"short"`
}

type apiLeague struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	Season  int    `json:"season"`
	Round   string `json:"round"`
}

type apiTeams struct {
	Home apiTeam `json:"home"`
	Away apiTeam `json:"away"`
}

type apiTeam struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo"`
}

type apiGoals struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

type apiScore struct {
	Extratime apiGoals `json:"extratime"`
	Penalty   apiGoals `json:"penalty"`
}
