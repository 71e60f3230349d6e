package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"StockPulse/internal/model"
)

// ValidationError reports a structural mismatch in a provider payload.
type ValidationError struct {
	Symbol string
	Field  string
	Want   string
	Got    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid payload for %s: field %q: want %s, got %s", e.Symbol, e.Field, e.Want, e.Got)
}

// RateLimitError reports the provider's informational response, sent in
// place of data when the request quota is exhausted.
type RateLimitError struct {
	Symbol  string
	Message string
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited for %s: %s", e.Symbol, e.Message)
}

// Schema holds the provider's field names. They are part of the external
// API contract, not a design choice, so they live in data rather than in
// struct tags.
type Schema struct {
	SeriesKey string
	OpenKey   string
	HighKey   string
	LowKey    string
	CloseKey  string
	VolumeKey string
	// InfoKeys mark the informational/rate-limit response shape.
	InfoKeys []string
}

// AlphaVantage returns the schema of the TIME_SERIES_DAILY endpoint.
// The provider has used both "Information" and "Note" for throttling
// messages.
func AlphaVantage() *Schema {
	return &Schema{
		SeriesKey: "Time Series (Daily)",
		OpenKey:   "1. open",
		HighKey:   "2. high",
		LowKey:    "3. low",
		CloseKey:  "4. close",
		VolumeKey: "5. volume",
		InfoKeys:  []string{"Information", "Note"},
	}
}

// Validate checks a raw provider payload against the schema and returns the
// parsed series. The informational shape is classified as *RateLimitError
// before any structural check; every other mismatch is a *ValidationError.
// Extra fields in per-day objects are ignored.
func (s *Schema) Validate(payload []byte, symbol string) (*model.TimeSeries, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(payload, &top); err != nil {
		return nil, &ValidationError{Symbol: symbol, Field: "(root)", Want: "object", Got: "undecodable JSON"}
	}

	for _, key := range s.InfoKeys {
		if raw, ok := top[key]; ok {
			var msg string
			_ = json.Unmarshal(raw, &msg)
			return nil, &RateLimitError{Symbol: symbol, Message: msg}
		}
	}

	raw, ok := top[s.SeriesKey]
	if !ok {
		return nil, &ValidationError{Symbol: symbol, Field: s.SeriesKey, Want: "mapping", Got: "absent"}
	}
	var series map[string]map[string]any
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, &ValidationError{Symbol: symbol, Field: s.SeriesKey, Want: "mapping of date to bar", Got: "non-mapping"}
	}
	if len(series) == 0 {
		return nil, &ValidationError{Symbol: symbol, Field: s.SeriesKey, Want: "non-empty mapping", Got: "empty mapping"}
	}

	ts := &model.TimeSeries{Symbol: symbol, Bars: make(map[string]model.PriceBar, len(series))}
	for date, fields := range series {
		var bar model.PriceBar
		for _, pf := range []struct {
			key string
			dst *float64
		}{
			{s.OpenKey, &bar.Open},
			{s.HighKey, &bar.High},
			{s.LowKey, &bar.Low},
			{s.CloseKey, &bar.Close},
		} {
			v, ok := fields[pf.key]
			if !ok {
				return nil, &ValidationError{Symbol: symbol, Field: date + "." + pf.key, Want: "number", Got: "absent"}
			}
			f, err := ToFloat(v)
			if err != nil {
				return nil, &ValidationError{Symbol: symbol, Field: date + "." + pf.key, Want: "number", Got: describe(v)}
			}
			*pf.dst = f
		}
		v, ok := fields[s.VolumeKey]
		if !ok {
			return nil, &ValidationError{Symbol: symbol, Field: date + "." + s.VolumeKey, Want: "integer", Got: "absent"}
		}
		n, err := ToInt(v)
		if err != nil {
			return nil, &ValidationError{Symbol: symbol, Field: date + "." + s.VolumeKey, Want: "integer", Got: describe(v)}
		}
		bar.Volume = n
		ts.Bars[date] = bar
	}
	return ts, nil
}

// ToFloat coerces a decoded JSON value to float64. The provider quotes its
// decimals, so both numbers and numeric strings are accepted.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(n), 64)
	default:
		return 0, fmt.Errorf("not numeric: %v", describe(v))
	}
}

// ToInt coerces a decoded JSON value to int64, rejecting fractions.
func ToInt(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("not an integer: %v", n)
		}
		return int64(n), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(n), 10, 64)
	default:
		return 0, fmt.Errorf("not an integer: %v", describe(v))
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case float64:
		return "number"
	case string:
		return fmt.Sprintf("string %q", v)
	case bool:
		return "bool"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
