package extractor

import (
	"path/filepath"
	"testing"
)

func TestState_LoadMissingFile(t *testing.T) {
	state, err := LoadState(filepath.Join(t.TempDir(), "fetch_state.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.HasFetched("AAPL") {
		t.Error("fresh state must report no fetches")
	}
}

func TestState_MarkAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch_state.json")
	state, err := LoadState(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := state.MarkFetched("AAPL", OutputFull, "2024-01-02"); err != nil {
		t.Fatalf("mark fetched: %v", err)
	}
	if !state.HasFetched("AAPL") {
		t.Error("expected AAPL to be recorded")
	}
	if state.HasFetched("MSFT") {
		t.Error("MSFT must not be recorded")
	}

	reloaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.HasFetched("AAPL") {
		t.Error("state must survive a reload")
	}
	if got := reloaded.symbols["AAPL"]; got.LastMode != OutputFull || got.LastFetchDate != "2024-01-02" {
		t.Errorf("unexpected reloaded entry: %+v", got)
	}
}
