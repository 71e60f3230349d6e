package extractor

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"StockPulse/internal/schema"
)

// Artifact is a handle to one written raw snapshot.
type Artifact struct {
	Symbol string
	Date   string // YYYY-MM-DD, the fetch day
	Path   string
}

// Extractor fetches, validates, and snapshots raw provider payloads.
type Extractor struct {
	Fetcher Fetcher
	Schema  *schema.Schema
	State   *State
	RawDir  string
	now     func() time.Time
}

// NewExtractor creates an Extractor writing snapshots under rawDir.
func NewExtractor(fetcher Fetcher, sch *schema.Schema, state *State, rawDir string) *Extractor {
	return &Extractor{Fetcher: fetcher, Schema: sch, State: state, RawDir: rawDir, now: time.Now}
}

// Extract fetches the daily series for symbol and durably writes the
// verbatim payload as a {symbol}_{YYYY-MM-DD}.json snapshot. The first
// successful fetch for a symbol requests the full history; later ones
// request the compact window. On failure the artifact is nil and the error
// carries the kind (*TransportError, *schema.RateLimitError,
// *schema.ValidationError); callers skip the symbol, not the run.
// Re-running on the same day overwrites that day's snapshot only.
func (e *Extractor) Extract(ctx context.Context, symbol string) (*Artifact, error) {
	mode := OutputFull
	if e.State.HasFetched(symbol) {
		mode = OutputCompact
	}
	log.Printf("[INFO] fetching %s (outputsize=%s, source=%s)", symbol, mode, e.Fetcher.Name())

	payload, err := e.Fetcher.FetchDaily(ctx, symbol, mode)
	if err != nil {
		return nil, err
	}
	if _, err := e.Schema.Validate(payload, symbol); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.RawDir, 0o755); err != nil {
		return nil, fmt.Errorf("create raw dir: %w", err)
	}
	today := e.now().Format("2006-01-02")
	path := filepath.Join(e.RawDir, fmt.Sprintf("%s_%s.json", symbol, today))
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return nil, fmt.Errorf("write snapshot %s: %w", path, err)
	}
	if err := e.State.MarkFetched(symbol, mode, today); err != nil {
		log.Printf("[WARN] persist fetch state for %s: %v", symbol, err)
	}
	log.Printf("[INFO] saved raw snapshot %s", path)
	return &Artifact{Symbol: symbol, Date: today, Path: path}, nil
}
