package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"

	"StockPulse/internal/extractor"
	"StockPulse/internal/loader"
	"StockPulse/internal/schema"
	"StockPulse/internal/transformer"
)

// Pipeline runs extract -> transform -> load for each configured symbol.
// It is the single externally callable entry point of the ETL core.
type Pipeline struct {
	Extractor   *extractor.Extractor
	Transformer *transformer.Transformer
	Loader      loader.Loader
	Symbols     []string
}

// New creates a Pipeline over a fixed symbol list.
func New(ext *extractor.Extractor, tr *transformer.Transformer, ldr loader.Loader, symbols []string) *Pipeline {
	return &Pipeline{Extractor: ext, Transformer: tr, Loader: ldr, Symbols: symbols}
}

// Run executes one full pass over all configured symbols. Per-symbol
// failures are logged at the symbol boundary and never abort the run; only
// store-level failures do, since losing the store means losing data.
// Re-invoking Run is safe: the loader ignores rows already present.
func (p *Pipeline) Run(ctx context.Context) error {
	log.Println("[INFO] starting ETL pipeline")
	if err := p.Loader.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	for _, symbol := range p.Symbols {
		artifact, err := p.Extractor.Extract(ctx, symbol)
		if err != nil {
			reportExtractError(symbol, err)
		}
		if artifact == nil {
			continue
		}

		rows, err := p.Transformer.Transform(artifact, symbol)
		if err != nil {
			log.Printf("[ERROR] %s: transform: %v", symbol, err)
		}

		inserted, err := p.Loader.Load(ctx, rows)
		if err != nil {
			return fmt.Errorf("load %s: %w", symbol, err)
		}
		log.Printf("[INFO] %s: %d new rows loaded (%d submitted)", symbol, inserted, len(rows))
	}

	log.Println("[INFO] ETL pipeline finished")
	return nil
}

// reportExtractError logs the failure under its kind so operators can tell
// "throttled" from "broken".
func reportExtractError(symbol string, err error) {
	var rateLimitErr *schema.RateLimitError
	var validationErr *schema.ValidationError
	var transportErr *extractor.TransportError
	switch {
	case errors.As(err, &rateLimitErr):
		log.Printf("[WARN] %s: provider rate limit: %v", symbol, err)
	case errors.As(err, &validationErr):
		log.Printf("[ERROR] %s: schema validation: %v", symbol, err)
	case errors.As(err, &transportErr):
		log.Printf("[ERROR] %s: transport: %v", symbol, err)
	default:
		log.Printf("[ERROR] %s: extract: %v", symbol, err)
	}
}
