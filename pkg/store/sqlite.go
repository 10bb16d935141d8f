package store

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS notified (
	id TEXT PRIMARY KEY,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteStore keeps all ids in memory and inserts new ones on Persist
type SQLiteStore struct {
	db      *sqlx.DB
	mu      sync.RWMutex
	ids     map[string]struct{}
	pending []string
	writeMu sync.Mutex
}

// OpenSQLite opens or creates the database and loads all notified ids
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := path
	if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
		dsn = "file:" + path + "?mode=rwc&_txlock=immediate"
	}

	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000", // 5 second timeout for locks
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	var ids []string
	if err := db.SelectContext(ctx, &ids, "SELECT id FROM notified"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("load notified ids: %w", err)
	}

	res := &SQLiteStore{db: db, ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		res.ids[id] = struct{}{}
	}
	lgr.Printf("[INFO] loaded %d notified ids from %s", len(ids), path)
	return res, nil
}

// Contains checks if id was notified
func (s *SQLiteStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Add records id in memory and queues it for the next Persist
func (s *SQLiteStore) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return
	}
	s.ids[id] = struct{}{}
	s.pending = append(s.pending, id)
}

// Len returns number of ids
func (s *SQLiteStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

// Persist inserts pending ids in one transaction, retrying on lock errors.
// On failure ids stay pending and are written by the next call.
func (s *SQLiteStore) Persist(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.RLock()
	pending := make([]string, len(s.pending))
	copy(pending, s.pending)
	s.mu.RUnlock()
	if len(pending) == 0 {
		return nil
	}

	var critical error
	retrier := repeater.NewBackoff(5, 50*time.Millisecond, repeater.WithMaxDelay(2*time.Second))
	err := retrier.Do(ctx, func() error {
		err := s.insert(ctx, pending)
		if err != nil && !isLockError(err) {
			critical = err
			return nil // stop retrying
		}
		return err
	})
	if critical != nil {
		return critical
	}
	if err != nil {
		return fmt.Errorf("persist notified ids: %w", err)
	}

	s.mu.Lock()
	s.pending = s.pending[len(pending):]
	s.mu.Unlock()
	return nil
}

func (s *SQLiteStore) insert(ctx context.Context, ids []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	for _, id := range ids {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO notified (id) VALUES (?)", id); err != nil {
			return fmt.Errorf("insert id %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// isLockError checks if an error is a SQLite lock/busy error
func isLockError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "database table is locked")
}
