package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/affinity/internal/domain/model"
	"github.com/okian/affinity/pkg/metrics"
)

// busyTimeoutMS bounds how long a connection waits on a lock held by another.
const busyTimeoutMS = 5000

// SQLiteStore is a durable Store. Records are kept as JSON documents keyed
// by user id; one write connection serializes upserts. The database runs in
// WAL mode so readers never block the writer.
type SQLiteStore struct {
	readDB  *sql.DB
	writeDB *sql.DB
	now     func() time.Time
	closed  atomic.Bool
}

func writeDSN(path string) string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)", path, busyTimeoutMS)
}

func readDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(%d)", path, busyTimeoutMS)
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	cfg := defaults()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", writeDSN(path))
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", readDSN(path))
	if err != nil {
		_ = writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &SQLiteStore{readDB: readDB, writeDB: writeDB, now: cfg.now}
	if err := s.init(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init(ctx context.Context) error {
	_, err := s.writeDB.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS match_signals (
			user_id    TEXT PRIMARY KEY,
			payload    TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

// Upsert implements Store.
func (s *SQLiteStore) Upsert(ctx context.Context, sig model.MatchSignals) (model.MatchSignals, error) {
	if s.closed.Load() {
		return model.MatchSignals{}, ErrClosed
	}
	if strings.TrimSpace(sig.UserID) == "" {
		metrics.RecordStoreError("upsert")
		return model.MatchSignals{}, ErrInvalidUserID
	}
	start := time.Now()
	rec := clone(sig)
	rec.UpdatedAt = s.now().UTC()

	payload, err := json.Marshal(rec)
	if err != nil {
		metrics.RecordStoreError("upsert")
		return model.MatchSignals{}, fmt.Errorf("encoding signals %s: %w", rec.UserID, err)
	}
	_, err = s.writeDB.ExecContext(ctx, `
		INSERT INTO match_signals (user_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, rec.UserID, string(payload), rec.UpdatedAt)
	if err != nil {
		metrics.RecordStoreError("upsert")
		return model.MatchSignals{}, fmt.Errorf("upserting signals %s: %w", rec.UserID, err)
	}

	metrics.RecordStoreUpsert()
	metrics.RecordStoreUpsertLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	return rec, nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, userID string) (model.MatchSignals, error) {
	if s.closed.Load() {
		return model.MatchSignals{}, ErrClosed
	}
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Nanoseconds()) / 1e6)
	}()

	var payload string
	err := s.readDB.QueryRowContext(ctx,
		`SELECT payload FROM match_signals WHERE user_id = ?`, userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return model.MatchSignals{}, ErrNotFound
	}
	if err != nil {
		metrics.RecordStoreError("get")
		return model.MatchSignals{}, fmt.Errorf("reading signals %s: %w", userID, err)
	}
	return decode(payload)
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]model.MatchSignals, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	query := `SELECT payload FROM match_signals ORDER BY user_id`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.readDB.QueryContext(ctx, query, args...)
	if err != nil {
		metrics.RecordStoreError("list")
		return nil, fmt.Errorf("listing signals: %w", err)
	}
	defer rows.Close()

	out := []model.MatchSignals{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning signals: %w", err)
		}
		rec, err := decode(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	var n int
	if err := s.readDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM match_signals`).Scan(&n); err != nil {
		metrics.RecordStoreError("count")
		return 0, fmt.Errorf("counting signals: %w", err)
	}
	metrics.UpdateStoreRecords(n)
	return n, nil
}

// Close closes both connections. Later calls are no-ops.
func (s *SQLiteStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	return errors.Join(errs...)
}

func decode(payload string) (model.MatchSignals, error) {
	var rec model.MatchSignals
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return model.MatchSignals{}, fmt.Errorf("decoding signals: %w", err)
	}
	return rec, nil
}
