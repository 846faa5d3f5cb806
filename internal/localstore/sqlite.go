package localstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value TEXT,
		rev   INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_kv_rev ON kv(rev);
`

// SQLiteStorage persists values in a SQLite file. Several processes may open
// the same file; each one is notified of the others' writes through Watch.
type SQLiteStorage struct {
	db           *sql.DB
	logger       zerolog.Logger
	pollInterval time.Duration

	mu       sync.Mutex
	ownRevs  map[int64]struct{}
	nextID   int
	watchers map[int]func(string)
	order    []int
	cancel   context.CancelFunc
	done     chan struct{}
}

// SQLiteOption configures a SQLiteStorage.
type SQLiteOption func(*SQLiteStorage)

// WithPollInterval sets how often other writers' changes are checked for.
func WithPollInterval(d time.Duration) SQLiteOption {
	return func(s *SQLiteStorage) {
		s.pollInterval = d
	}
}

// OpenSQLite opens (creating if needed) the store at path.
func OpenSQLite(ctx context.Context, path string, logger zerolog.Logger, opts ...SQLiteOption) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store %s: %w", path, err)
	}

	// PRAGMA data_version is tracked per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create local store schema: %w", err)
	}

	s := &SQLiteStorage{
		db:           db,
		logger:       logger.With().Str("component", "local-store").Logger(),
		pollInterval: 500 * time.Millisecond,
		ownRevs:      make(map[int64]struct{}),
		watchers:     make(map[int]func(string)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Debug().Str("path", path).Msg("local store opened")

	return s, nil
}

// Get returns the stored value and whether the key was present.
func (s *SQLiteStorage) Get(key string) (string, bool, error) {
	var value sql.NullString
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key %s: %w", key, err)
	}
	if !value.Valid {
		return "", false, nil
	}
	return value.String, true, nil
}

// Set stores value under key.
func (s *SQLiteStorage) Set(key, value string) error {
	query := `
		INSERT INTO kv (key, value, rev)
		VALUES (?, ?, (SELECT COALESCE(MAX(rev), 0) + 1 FROM kv))
		ON CONFLICT (key) DO UPDATE
		SET value = excluded.value, rev = excluded.rev
		RETURNING rev
	`

	var rev int64
	if err := s.db.QueryRow(query, key, value).Scan(&rev); err != nil {
		return fmt.Errorf("failed to write key %s: %w", key, err)
	}
	s.recordOwn(rev)
	return nil
}

// Remove deletes key. The row is kept as a tombstone so watchers see the change.
func (s *SQLiteStorage) Remove(key string) error {
	query := `
		UPDATE kv
		SET value = NULL, rev = (SELECT COALESCE(MAX(rev), 0) + 1 FROM kv)
		WHERE key = ? AND value IS NOT NULL
		RETURNING rev
	`

	var rev int64
	err := s.db.QueryRow(query, key).Scan(&rev)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to remove key %s: %w", key, err)
	}
	s.recordOwn(rev)
	return nil
}

// Watch registers fn for writes committed by other connections to the same file.
func (s *SQLiteStorage) Watch(fn func(key string)) (stop func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.order = append(s.order, id)
	if s.cancel == nil {
		ctx, cancel := context.WithCancel(context.Background())
		s.cancel = cancel
		s.done = make(chan struct{})
		go s.poll(ctx, s.done)
	}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
			last := len(s.order) == 0
			s.mu.Unlock()

			if last {
				s.stopPolling()
			}
		})
	}
}

// Close stops watching and closes the database.
func (s *SQLiteStorage) Close() error {
	s.stopPolling()
	return s.db.Close()
}

func (s *SQLiteStorage) stopPolling() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// recordOwn remembers a revision written through this connection so the
// poller does not report it back. Only needed while watching.
func (s *SQLiteStorage) recordOwn(rev int64) {
	s.mu.Lock()
	if s.cancel != nil {
		s.ownRevs[rev] = struct{}{}
	}
	s.mu.Unlock()
}

func (s *SQLiteStorage) poll(ctx context.Context, done chan struct{}) {
	defer close(done)

	var lastSeen int64
	if err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(rev), 0) FROM kv`).Scan(&lastSeen); err != nil {
		s.logger.Error().Err(err).Msg("failed to read local store revision")
		return
	}
	dataVersion, err := s.dataVersion(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to read data version")
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		current, err := s.dataVersion(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.logger.Warn().Err(err).Msg("failed to poll data version")
			}
			continue
		}
		if current == dataVersion {
			continue
		}
		dataVersion = current

		lastSeen = s.dispatchSince(ctx, lastSeen)
	}
}

func (s *SQLiteStorage) dataVersion(ctx context.Context) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx, `PRAGMA data_version`).Scan(&v)
	return v, err
}

// dispatchSince notifies watchers of foreign writes newer than rev and
// returns the highest revision observed.
func (s *SQLiteStorage) dispatchSince(ctx context.Context, rev int64) int64 {
	rows, err := s.db.QueryContext(ctx, `SELECT key, rev FROM kv WHERE rev > ? ORDER BY rev`, rev)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to read changed keys")
		return rev
	}

	type change struct {
		key string
		rev int64
	}
	var changes []change
	for rows.Next() {
		var c change
		if err := rows.Scan(&c.key, &c.rev); err != nil {
			s.logger.Warn().Err(err).Msg("failed to scan changed key")
			break
		}
		changes = append(changes, c)
	}
	rows.Close()

	highest := rev
	var keys []string
	s.mu.Lock()
	for _, c := range changes {
		if c.rev > highest {
			highest = c.rev
		}
		if _, own := s.ownRevs[c.rev]; own {
			continue
		}
		keys = append(keys, c.key)
	}
	for r := range s.ownRevs {
		if r <= highest {
			delete(s.ownRevs, r)
		}
	}
	fns := make([]func(string), 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.watchers[id])
	}
	s.mu.Unlock()

	for _, key := range keys {
		for _, fn := range fns {
			fn(key)
		}
	}

	return highest
}
