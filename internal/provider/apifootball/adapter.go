// Package apifootball adapts the api-football v3 feed. It is the primary
// source: stable numeric fixture and team ids, ISO-8601 kickoff instants,
// and a queryable finished-fixtures feed.
package apifootball

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/alanyoungcy/fixturecast/internal/domain"
	"github.com/alanyoungcy/fixturecast/internal/provider"
)

// SourceName identifies this provider in fixture records and config.
const SourceName = "apifootball"

// Parse decodes an api-football fixtures payload into raw fixtures. A
// malformed record is skipped, never fatal to the batch; skipped reports how
// many were dropped.
func Parse(payload []byte) (fixtures []domain.RawFixture, skipped int, err error) {
	var env apiEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, 0, fmt.Errorf("apifootball: decode payload: %w", err)
	}
	if len(env.Errors) > 0 {
		return nil, 0, fmt.Errorf("apifootball: upstream error: %v", env.Errors)
	}

	fixtures = make([]domain.RawFixture, 0, len(env.Response))
	for i := range env.Response {
		raw, ok := toRawFixture(&env.Response[i])
		if !ok {
			skipped++
			continue
		}
		fixtures = append(fixtures, raw)
	}
	return fixtures, skipped, nil
}

func toRawFixture(rec *apiRecord) (domain.RawFixture, bool) {
	if rec.Fixture.ID == 0 || rec.Teams.Home.Name == "" || rec.Teams.Away.Name == "" {
		return domain.RawFixture{}, false
	}

	kickoff, err := provider.ParseKickoff(rec.Fixture.Date, "")
	if err != nil {
		return domain.RawFixture{}, false
	}

	payload, _ := json.Marshal(rec)

	return domain.RawFixture{
		ExternalID: strconv.FormatInt(rec.Fixture.ID, 10),
		League:     rec.League.Name,
		Country:    rec.League.Country,
		Season:     strconv.Itoa(rec.League.Season),
		Stage:      rec.League.Round,
		RawDate:    rec.Fixture.Date,
		KickoffUTC: kickoff,
		Status:     provider.MapStatus(rec.Fixture.Status.Short),
		Home:       toDescriptor(rec.Teams.Home),
		Away:       toDescriptor(rec.Teams.Away),
		Score: domain.Score{
			HomeGoals:   rec.Goals.Home,
			AwayGoals:   rec.Goals.Away,
			HomeET:      rec.Score.Extratime.Home,
			AwayET:      rec.Score.Extratime.Away,
			HomePenalty: rec.Score.Penalty.Home,
			AwayPenalty: rec.Score.Penalty.Away,
		},
		Payload: payload,
	}, true
}

func toDescriptor(t apiTeam) domain.TeamDescriptor {
	d := domain.TeamDescriptor{
		Name:    t.Name,
		LogoURL: t.Logo,
	}
	if t.ID != 0 {
		d.ExternalID = strconv.FormatInt(t.ID, 10)
	}
	return d
}
