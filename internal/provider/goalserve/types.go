package goalserve

import "encoding/json"

// Payload shapes for the goalserve soccer feed. The feed is XML rendered as
// JSON, so any repeated element arrives as an object when there is exactly
// one and as an array otherwise. The *List types absorb both encodings.

type gsEnvelope struct {
	Scores gsScores `json:"scores"`
}

type gsScores struct {
	Category gsCategoryList `json:"category"`
}

type gsCategory struct {
	Name    string      `json:"@name"`
	Country string      `json:"@country"`
	Season  string      `json:"@season"`
	Stage   string      `json:"@stage"`
	Matches gsMatchList `json:"match"`
}

type gsMatch struct {
	ID        string `json:"@id"`
	StaticID  string `json:"@static_id"`
	Date      string `json:"@date"` // DD.MM.YYYY
	Time      string `json:"@time"` // HH:MM
	Status    string `json:"@status"`
	LocalTeam gsTeam `json:"localteam"`
	AwayTeam  gsTeam `json:"visitorteam"`
	ET        *gsAux `json:"et"`
	Penalty   *gsAux `json:"penalty"`
}

type gsTeam struct {
	ID    string `json:"@id"`
	Name  string `json:"@name"`
	Goals string `json:"@goals"` // "?" until kickoff
}

type gsAux struct {
	LocalGoals string `json:"@localteam"`
	AwayGoals  string `json:"@visitorteam"`
}

// gsCategoryList tolerates both a single category object and an array.
type gsCategoryList []gsCategory

func (l *gsCategoryList) UnmarshalJSON(data []byte) error {
	return unmarshalOneOrMany(data, (*[]gsCategory)(l))
}

// gsMatchList tolerates both a single match object and an array.
type gsMatchList []gsMatch

func (l *gsMatchList) UnmarshalJSON(data []byte) error {
	return unmarshalOneOrMany(data, (*[]gsMatch)(l))
}

func unmarshalOneOrMany[T any](data []byte, dst *[]T) error {
	data = trimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*dst = nil
		return nil
	}
	if data[0] == '[' {
		return json.Unmarshal(data, dst)
	}
	var one T
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}
	*dst = []T{one}
	return nil
}

func trimSpace(data []byte) []byte {
	start := 0
	for start < len(data) && isSpace(data[start]) {
		start++
	}
	end := len(data)
	for end > start && isSpace(data[end-1]) {
		end--
	}
	return data[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
