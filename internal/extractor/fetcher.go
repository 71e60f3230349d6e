package extractor

import (
	"context"
	"fmt"
)

// Output size modes understood by the provider. Compact returns the recent
// window; full returns the complete available history.
const (
	OutputCompact = "compact"
	OutputFull    = "full"
)

// Fetcher retrieves the provider's raw daily series payload for one symbol.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol, outputSize string) ([]byte, error)
	Name() string
}

// TransportError wraps a network or HTTP failure talking to the provider.
type TransportError struct {
	Symbol string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error for %s: %v", e.Symbol, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MockFetcher returns canned payloads for development and testing.
type MockFetcher struct {
	Payloads map[string][]byte
	Err      error
	Calls    []string // "symbol:outputsize", in call order
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ context.Context, symbol, outputSize string) ([]byte, error) {
	m.Calls = append(m.Calls, symbol+":"+outputSize)
	if m.Err != nil {
		return nil, m.Err
	}
	payload, ok := m.Payloads[symbol]
	if !ok {
		return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("no payload configured")}
	}
	return payload, nil
}
