package cache

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	ferrors "git.home.luguber.info/inful/mdrender/internal/foundation/errors"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.RWMutex
	ttl time.Duration
	now func() time.Time
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) SQLiteOption {
	return func(s *SQLiteStore) { s.now = now }
}

// NewSQLiteStore opens the cache database. Use ":memory:" for an in-memory
// cache, or a file path for persistent storage. A non-positive ttl keeps
// entries forever.
func NewSQLiteStore(dbPath string, ttl time.Duration, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryCache, "open sqlite database").
			WithContext("path", dbPath).
			Build()
	}
	if dbPath == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}

	store := &SQLiteStore{db: db, ttl: ttl, now: time.Now}
	for _, o := range opts {
		o(store)
	}
	if err := store.initialize(); err != nil {
		_ = db.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryCache, "initialize cache schema").
			WithContext("path", dbPath).
			Build()
	}
	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS renders (
		fingerprint TEXT NOT NULL,
		options_key TEXT NOT NULL,
		path TEXT NOT NULL,
		title TEXT NOT NULL,
		html TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (fingerprint, options_key)
	);
	CREATE INDEX IF NOT EXISTS idx_renders_path ON renders(path);
	CREATE INDEX IF NOT EXISTS idx_renders_created_at ON renders(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) cutoff() int64 {
	if s.ttl <= 0 {
		return 0
	}
	return s.now().Add(-s.ttl).UnixNano()
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, fingerprint, optionsKey string) (Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e := Entry{Fingerprint: fingerprint, OptionsKey: optionsKey}
	var created int64
	err := s.db.QueryRowContext(ctx,
		"SELECT path, title, html, created_at FROM renders WHERE fingerprint = ? AND options_key = ? AND created_at >= ?",
		fingerprint, optionsKey, s.cutoff(),
	).Scan(&e.Path, &e.Title, &e.HTML, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, ferrors.WrapError(err, ferrors.CategoryCache, "query cache entry").
			WithContext("fingerprint", fingerprint).
			Build()
	}
	e.CreatedAt = time.Unix(0, created)
	return e, true, nil
}

// Put implements Store. A zero CreatedAt is stamped with the current time.
func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO renders (fingerprint, options_key, path, title, html, created_at) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint, options_key) DO UPDATE SET path = excluded.path, title = excluded.title, html = excluded.html, created_at = excluded.created_at`,
		e.Fingerprint, e.OptionsKey, e.Path, e.Title, e.HTML, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryCache, "insert cache entry").
			WithContext("fingerprint", e.Fingerprint).
			Build()
	}
	return nil
}

// InvalidatePath implements Store.
func (s *SQLiteStore) InvalidatePath(ctx context.Context, path string) (int, error) {
	return s.delete(ctx, "DELETE FROM renders WHERE path = ?", path)
}

// Prune implements Store.
func (s *SQLiteStore) Prune(ctx context.Context) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	return s.delete(ctx, "DELETE FROM renders WHERE created_at < ?", s.cutoff())
}

func (s *SQLiteStore) delete(ctx context.Context, query string, arg any) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, query, arg)
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryCache, "delete cache entries").Build()
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryCache, "count deleted cache entries").Build()
	}
	return int(n), nil
}

// Len returns the number of stored entries, expired ones included.
func (s *SQLiteStore) Len(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM renders").Scan(&n); err != nil {
		return 0, ferrors.WrapError(err, ferrors.CategoryCache, "count cache entries").Build()
	}
	return n, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
