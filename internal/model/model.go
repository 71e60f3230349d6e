package model

import (
	"database/sql"
	"sort"
	"time"
)

// PriceBar represents one trading day's observation for a symbol.
type PriceBar struct {
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// TimeSeries is a validated daily series keyed by ISO date (YYYY-MM-DD).
type TimeSeries struct {
	Symbol string
	Bars   map[string]PriceBar
}

// Dates returns the series dates in ascending order.
func (ts *TimeSeries) Dates() []string {
	dates := make([]string, 0, len(ts.Bars))
	for d := range ts.Bars {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// Row is one normalized record bound for the persistent store. Volume and
// DailyChangePct are nullable: an unparseable volume and a change computed
// against a zero open are both stored as NULL.
type Row struct {
	Symbol         string
	Date           string // YYYY-MM-DD
	Open           float64
	High           float64
	Low            float64
	Close          float64
	Volume         sql.NullInt64
	DailyChangePct sql.NullFloat64
	ExtractedAt    time.Time
}
