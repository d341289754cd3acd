package registry

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStore implements Store using SQLite for persistence. It keeps every
// saved revision of a schema definition, so a bad edit can be rolled back by
// loading an earlier revision. Suitable for single-instance deployments.
//
// The database runs in WAL mode with periodic checkpoints to balance write
// performance with durability.
type SQLiteStore struct {
	db                 *sql.DB
	dbPath             string
	checkpointInterval time.Duration
	done               chan struct{}
	mu                 sync.RWMutex
	closeOnce          sync.Once

	saveStmt     *sql.Stmt
	revisionStmt *sql.Stmt
	loadStmt     *sql.Stmt
	listStmt     *sql.Stmt
	deleteStmt   *sql.Stmt
}

// SQLiteStoreConfig configures the SQLite store.
type SQLiteStoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds
	BusyTimeout time.Duration

	// CheckpointInterval is how often to checkpoint the WAL.
	// Default: 5 minutes
	CheckpointInterval time.Duration
}

// NewSQLiteStore creates a SQLite store with default settings.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	return NewSQLiteStoreWithConfig(SQLiteStoreConfig{DBPath: dbPath})
}

// NewSQLiteStoreWithConfig creates a SQLite store with custom configuration.
func NewSQLiteStoreWithConfig(cfg SQLiteStoreConfig) (*SQLiteStore, error) {
	if cfg.DBPath == "" {
		return nil, fmt.Errorf("db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}
	if cfg.CheckpointInterval == 0 {
		cfg.CheckpointInterval = 5 * time.Minute
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		cfg.DBPath, int(cfg.BusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store := &SQLiteStore{
		db:                 db,
		dbPath:             cfg.DBPath,
		checkpointInterval: cfg.CheckpointInterval,
		done:               make(chan struct{}),
	}

	if err := store.initTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	if err := store.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare statements: %w", err)
	}

	go store.checkpointLoop()

	return store, nil
}

// initTables creates the database tables if they don't exist.
func (s *SQLiteStore) initTables() error {
	ddl := `
	CREATE TABLE IF NOT EXISTS schema_revisions (
		name TEXT NOT NULL,
		revision INTEGER NOT NULL,
		definition BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		PRIMARY KEY (name, revision)
	);

	CREATE INDEX IF NOT EXISTS idx_schema_created_at ON schema_revisions(created_at);
	`

	_, err := s.db.Exec(ddl)
	return err
}

// prepareStatements prepares SQL statements for reuse.
func (s *SQLiteStore) prepareStatements() error {
	var err error

	s.revisionStmt, err = s.db.Prepare(`
		SELECT COALESCE(MAX(revision), 0) FROM schema_revisions WHERE name = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare revision statement: %w", err)
	}

	s.saveStmt, err = s.db.Prepare(`
		INSERT INTO schema_revisions (name, revision, definition, created_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare save statement: %w", err)
	}

	s.loadStmt, err = s.db.Prepare(`
		SELECT name, revision, definition, created_at
		FROM schema_revisions
		WHERE name = ?
		ORDER BY revision DESC
		LIMIT 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare load statement: %w", err)
	}

	s.listStmt, err = s.db.Prepare(`
		SELECT r.name, r.revision, r.definition, r.created_at
		FROM schema_revisions r
		JOIN (
			SELECT name, MAX(revision) AS revision
			FROM schema_revisions
			GROUP BY name
		) latest ON r.name = latest.name AND r.revision = latest.revision
		ORDER BY r.name
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare list statement: %w", err)
	}

	s.deleteStmt, err = s.db.Prepare(`
		DELETE FROM schema_revisions WHERE name = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare delete statement: %w", err)
	}

	return nil
}

// Save persists a new revision of a schema definition.
func (s *SQLiteStore) Save(ctx context.Context, name string, definition []byte) (int64, error) {
	if name == "" {
		return 0, fmt.Errorf("schema name cannot be empty")
	}
	if len(definition) == 0 {
		return 0, fmt.Errorf("schema definition cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if err := s.revisionStmt.QueryRowContext(ctx, name).Scan(&current); err != nil {
		return 0, fmt.Errorf("failed to read current revision: %w", err)
	}

	next := current + 1
	_, err := s.saveStmt.ExecContext(ctx, name, next, definition, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to save schema: %w", err)
	}
	return next, nil
}

// Load retrieves the latest revision for a name, or nil when unknown.
func (s *SQLiteStore) Load(ctx context.Context, name string) (*StoredSchema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		stored    StoredSchema
		createdAt int64
	)
	err := s.loadStmt.QueryRowContext(ctx, name).Scan(
		&stored.Name,
		&stored.Revision,
		&stored.Definition,
		&createdAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}

	stored.CreatedAt = time.Unix(createdAt, 0)
	return &stored, nil
}

// List returns the latest revision of every stored schema, sorted by name.
func (s *SQLiteStore) List(ctx context.Context) ([]*StoredSchema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.listStmt.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemas: %w", err)
	}
	defer rows.Close()

	var out []*StoredSchema
	for rows.Next() {
		var (
			stored    StoredSchema
			createdAt int64
		)
		if err := rows.Scan(&stored.Name, &stored.Revision, &stored.Definition, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		stored.CreatedAt = time.Unix(createdAt, 0)
		out = append(out, &stored)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}

// Delete removes every revision of a schema.
func (s *SQLiteStore) Delete(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("schema name cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.deleteStmt.ExecContext(ctx, name); err != nil {
		return fmt.Errorf("failed to delete schema: %w", err)
	}
	return nil
}

// Prune removes superseded revisions created before the cutoff, keeping the
// latest keep revisions of each schema regardless of age.
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Time, keep int) (int, error) {
	if keep < 1 {
		keep = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM schema_revisions
		WHERE created_at < ?
		  AND (name, revision) NOT IN (
			SELECT name, revision FROM (
				SELECT name, revision,
				       ROW_NUMBER() OVER (PARTITION BY name ORDER BY revision DESC) AS rank
				FROM schema_revisions
			) WHERE rank <= ?
		  )
	`, olderThan.Unix(), keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune revisions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(deleted), nil
}

// Close releases the store's resources.
// Close is idempotent and safe to call multiple times.
func (s *SQLiteStore) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		close(s.done)

		for _, stmt := range []*sql.Stmt{s.saveStmt, s.revisionStmt, s.loadStmt, s.listStmt, s.deleteStmt} {
			if stmt != nil {
				stmt.Close()
			}
		}

		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// checkpointLoop runs periodic WAL checkpoints.
func (s *SQLiteStore) checkpointLoop() {
	ticker := time.NewTicker(s.checkpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(PASSIVE)")
		case <-s.done:
			return
		}
	}
}
