package transformer

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"time"

	"StockPulse/internal/extractor"
	"StockPulse/internal/model"
	"StockPulse/internal/schema"
)

// TransformError reports a snapshot that is unreadable or structurally
// unexpected at transform time.
type TransformError struct {
	Symbol string
	Err    error
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("transform error for %s: %v", e.Symbol, e.Err)
}

func (e *TransformError) Unwrap() error { return e.Err }

// Transformer converts raw snapshots into normalized store rows.
type Transformer struct {
	Schema *schema.Schema
	now    func() time.Time
}

// New creates a Transformer using the provider schema's field names.
func New(sch *schema.Schema) *Transformer {
	return &Transformer{Schema: sch, now: time.Now}
}

// Transform parses the snapshot behind artifact into rows, emitted in date
// order. All rows share one extraction timestamp taken at the start of the
// call. An unparseable volume becomes a NULL marker and the row is kept; a
// zero open leaves the change percentage NULL. A missing or corrupt
// snapshot yields no rows and a *TransformError, never a panic.
func (t *Transformer) Transform(artifact *extractor.Artifact, symbol string) ([]model.Row, error) {
	data, err := os.ReadFile(artifact.Path)
	if err != nil {
		return nil, &TransformError{Symbol: symbol, Err: fmt.Errorf("read snapshot: %w", err)}
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, &TransformError{Symbol: symbol, Err: fmt.Errorf("decode snapshot: %w", err)}
	}
	raw, ok := top[t.Schema.SeriesKey]
	if !ok {
		return nil, &TransformError{Symbol: symbol, Err: fmt.Errorf("snapshot missing %q", t.Schema.SeriesKey)}
	}
	var series map[string]map[string]any
	if err := json.Unmarshal(raw, &series); err != nil {
		return nil, &TransformError{Symbol: symbol, Err: fmt.Errorf("decode series: %w", err)}
	}

	dates := make([]string, 0, len(series))
	for d := range series {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	extractedAt := t.now()
	rows := make([]model.Row, 0, len(dates))
	for _, date := range dates {
		fields := series[date]
		row := model.Row{Symbol: symbol, Date: date, ExtractedAt: extractedAt}
		for _, pf := range []struct {
			key string
			dst *float64
		}{
			{t.Schema.OpenKey, &row.Open},
			{t.Schema.HighKey, &row.High},
			{t.Schema.LowKey, &row.Low},
			{t.Schema.CloseKey, &row.Close},
		} {
			f, err := schema.ToFloat(fields[pf.key])
			if err != nil {
				return nil, &TransformError{Symbol: symbol, Err: fmt.Errorf("%s: %s: %w", date, pf.key, err)}
			}
			*pf.dst = f
		}
		// An unparseable volume is stored as NULL; the row survives.
		if v, err := schema.ToInt(fields[t.Schema.VolumeKey]); err == nil {
			row.Volume = sql.NullInt64{Int64: v, Valid: true}
		}
		// The change against a zero open is undefined; NULL, not Inf.
		if row.Open != 0 {
			row.DailyChangePct = sql.NullFloat64{
				Float64: (row.Close - row.Open) / row.Open * 100,
				Valid:   true,
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
