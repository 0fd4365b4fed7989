package domain

import "time"

// ForecastStatus is the grading state of a forecast.
type ForecastStatus string

const (
	ForecastPending ForecastStatus = "pending"
	ForecastWon     ForecastStatus = "won"
	ForecastLost    ForecastStatus = "lost"
)

// Bucket is a named confidence/risk tier grouping forecasts for presentation.
type Bucket string

const (
	BucketVIP    Bucket = "vip"
	BucketDaily2 Bucket = "daily2"
	BucketValue5 Bucket = "value5"
	BucketBig10  Bucket = "big10"
)

// ValidBuckets enumerates the accepted bucket labels. Oracle responses with
// any other label are rejected during validation.
var ValidBuckets = map[Bucket]bool{
	BucketVIP:    true,
	BucketDaily2: true,
	BucketValue5: true,
	BucketBig10:  true,
}

// OneXTwo holds home/draw/away outcome probabilities.
type OneXTwo struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// DoubleChance holds the three double-chance combination probabilities.
type DoubleChance struct {
	HomeOrDraw float64 `json:"home_or_draw"`
	DrawOrAway float64 `json:"draw_or_away"`
	HomeOrAway float64 `json:"home_or_away"`
}

// OverUnder holds over-probabilities for the three standard goal thresholds.
type OverUnder struct {
	Over15 float64 `json:"over_1_5"`
	Over25 float64 `json:"over_2_5"`
	Over35 float64 `json:"over_3_5"`
}

// Outcomes is the full set of named outcome probabilities a forecast carries.
type Outcomes struct {
	OneXTwo      OneXTwo      `json:"one_x_two"`
	DoubleChance DoubleChance `json:"double_chance"`
	OverUnder    OverUnder    `json:"over_under"`
	BTTSYes      float64      `json:"btts_yes"`
}

// Clamp forces every probability into [0,1]. The oracle is not guaranteed to
// be numerically well behaved, so this runs even after schema validation.
func (o *Outcomes) Clamp() {
	for _, p := range []*float64{
		&o.OneXTwo.Home, &o.OneXTwo.Draw, &o.OneXTwo.Away,
		&o.DoubleChance.HomeOrDraw, &o.DoubleChance.DrawOrAway, &o.DoubleChance.HomeOrAway,
		&o.OverUnder.Over15, &o.OverUnder.Over25, &o.OverUnder.Over35,
		&o.BTTSYes,
	} {
		if *p < 0 {
			*p = 0
		}
		if *p > 1 {
			*p = 1
		}
	}
}

// Forecast is a probabilistic outcome prediction for one fixture in one
// bucket. At most one forecast exists per (FixtureID, Bucket); later
// generation cycles replace it in place.
type Forecast struct {
	ID         string
	FixtureID  string
	Bucket     Bucket
	Outcomes   Outcomes
	Confidence float64 // [0,100]
	ModelID    string  // oracle model that produced the forecast
	Status     ForecastStatus
	GradedAt   *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
