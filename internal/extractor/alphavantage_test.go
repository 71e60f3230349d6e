package extractor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAlphaVantageFetcher_RequestShape(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		w.Write([]byte(`{"Time Series (Daily)": {}}`))
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "secret", "", 0)
	body, err := f.FetchDaily(context.Background(), "AAPL", OutputFull)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Error("expected response body")
	}
	want := map[string]string{
		"function":   "TIME_SERIES_DAILY",
		"symbol":     "AAPL",
		"apikey":     "secret",
		"outputsize": "full",
	}
	for k, v := range want {
		if gotQuery[k] != v {
			t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
		}
	}
}

func TestAlphaVantageFetcher_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := NewAlphaVantageFetcher(srv.URL, "secret", "", 0)
	_, err := f.FetchDaily(context.Background(), "AAPL", OutputCompact)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
	if te.Symbol != "AAPL" {
		t.Errorf("expected symbol on error, got %q", te.Symbol)
	}
}

func TestAlphaVantageFetcher_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	f := NewAlphaVantageFetcher(srv.URL, "secret", "", 0)
	_, err := f.FetchDaily(context.Background(), "AAPL", OutputCompact)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError, got %v", err)
	}
}

func TestAlphaVantageFetcher_LimiterCancel(t *testing.T) {
	f := NewAlphaVantageFetcher("http://localhost:0", "secret", "", 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.FetchDaily(ctx, "AAPL", OutputCompact)
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransportError on cancelled context, got %v", err)
	}
}
