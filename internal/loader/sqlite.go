package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite"

	"StockPulse/internal/model"
)

// SQLiteLoader writes normalized rows into a SQLite database.
type SQLiteLoader struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteLoader opens (or creates) the SQLite database.
func NewSQLiteLoader(dbPath string) (*SQLiteLoader, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return &SQLiteLoader{db: db}, nil
}

// EnsureSchema creates the destination table if it does not exist. The
// UNIQUE(symbol, date) constraint is the sole de-duplication mechanism.
// Safe to call on every run.
func (l *SQLiteLoader) EnsureSchema(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS stock_daily_data (
			id                      INTEGER PRIMARY KEY AUTOINCREMENT,
			symbol                  TEXT NOT NULL,
			date                    DATE NOT NULL,
			open_price              REAL NOT NULL,
			high_price              REAL NOT NULL,
			low_price               REAL NOT NULL,
			close_price             REAL NOT NULL,
			volume                  INTEGER,
			daily_change_percentage REAL,
			extraction_timestamp    TIMESTAMP NOT NULL,
			UNIQUE(symbol, date)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stock_symbol_date ON stock_daily_data(symbol, date)`,
	}
	for _, s := range stmts {
		if _, err := l.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// Load inserts rows in one transaction, silently skipping (symbol, date)
// pairs already present. Existing records are never updated. Returns the
// count of rows actually newly inserted, which callers should distinguish
// from the count submitted.
func (l *SQLiteLoader) Load(ctx context.Context, rows []model.Row) (int64, error) {
	if len(rows) == 0 {
		log.Println("[INFO] no rows to load")
		return 0, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO stock_daily_data
		(symbol, date, open_price, high_price, low_price, close_price, volume,
		 daily_change_percentage, extraction_timestamp)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, r := range rows {
		res, err := stmt.ExecContext(ctx,
			r.Symbol, r.Date, r.Open, r.High, r.Low, r.Close,
			r.Volume, r.DailyChangePct, r.ExtractedAt.Format("2006-01-02 15:04:05"))
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert %s %s: %w", r.Symbol, r.Date, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += n
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// Close closes the underlying database.
func (l *SQLiteLoader) Close() error {
	log.Println("[INFO] closing sqlite store")
	return l.db.Close()
}
