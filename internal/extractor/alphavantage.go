package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// AlphaVantageFetcher implements Fetcher against the Alpha Vantage REST API.
type AlphaVantageFetcher struct {
	BaseURL  string
	APIKey   string
	Function string
	Client   *http.Client
	Limiter  *rate.Limiter
}

// NewAlphaVantageFetcher creates a fetcher. requestsPerMinute caps the
// outgoing request rate (the free tier allows ~5/min); zero disables pacing.
func NewAlphaVantageFetcher(baseURL, apiKey, function string, requestsPerMinute float64) *AlphaVantageFetcher {
	if function == "" {
		function = "TIME_SERIES_DAILY"
	}
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerMinute/60), 1)
	}
	return &AlphaVantageFetcher{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Function: function,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Limiter:  limiter,
	}
}

func (f *AlphaVantageFetcher) Name() string { return "alphavantage" }

// FetchDaily performs one GET for the symbol's daily series and returns the
// verbatim response body. Any non-success transport outcome is a
// *TransportError.
func (f *AlphaVantageFetcher) FetchDaily(ctx context.Context, symbol, outputSize string) ([]byte, error) {
	if f.Limiter != nil {
		if err := f.Limiter.Wait(ctx); err != nil {
			return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("rate limiter wait: %w", err)}
		}
	}

	q := url.Values{}
	q.Set("function", f.Function)
	q.Set("symbol", symbol)
	q.Set("apikey", f.APIKey)
	q.Set("outputsize", outputSize)
	endpoint := f.BaseURL + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Symbol: symbol, Err: err}
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("fetch daily series: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Symbol: symbol, Err: fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))}
	}
	return body, nil
}
