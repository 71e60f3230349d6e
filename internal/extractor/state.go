package extractor

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// SymbolState remembers the last successful extraction for one symbol.
type SymbolState struct {
	LastMode      string    `json:"last_mode"`
	LastFetchDate string    `json:"last_fetch_date"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// State persists per-symbol fetch history to a JSON file. It is the memory
// behind the compact-vs-full decision, replacing snapshot directory scans.
type State struct {
	mu       sync.Mutex
	filePath string
	symbols  map[string]SymbolState
}

// LoadState reads the fetch state from a JSON file. Returns an empty state
// if the file doesn't exist.
func LoadState(filePath string) (*State, error) {
	s := &State{filePath: filePath, symbols: make(map[string]SymbolState)}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, &s.symbols); err != nil {
		return nil, err
	}
	return s, nil
}

// HasFetched reports whether the symbol has any recorded successful fetch.
func (s *State) HasFetched(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.symbols[symbol]
	return ok
}

// MarkFetched records a successful fetch for the symbol and saves the file.
func (s *State) MarkFetched(symbol, mode, date string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.symbols[symbol] = SymbolState{LastMode: mode, LastFetchDate: date, UpdatedAt: time.Now()}
	return s.save()
}

func (s *State) save() error {
	data, err := json.MarshalIndent(s.symbols, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.filePath, data, 0o644)
}
