// Package sqlite implements the Rolodex store on SQLite: the schema catalog,
// the storage materializer that projects catalog changes into physical
// tables, the relation graph, and the record value codec.
package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// dbFileName is the SQLite database file created inside DataDir.
const dbFileName = "rolodex.db"

// Backend implements types.Store using a single SQLite database. Reads take
// the read lock; every catalog or record mutation takes the write lock, so
// read-max-then-insert sequences (attribute position assignment, slug
// uniqueness checks) cannot interleave.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	db       *sql.DB
	dataDir  string
	now      func() time.Time
	log      *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithClock replaces the backend's time source. Used by tests to get
// deterministic timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithLogger replaces the backend's logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Backend) { b.log = log }
}

// NewBackend creates an unattached Backend. Call Attach to open the
// database and seed the system schema.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{
		now: time.Now,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens (or creates) the database under cfg.DataDir, applies the
// catalog schema, seeds the system object types, and reconciles physical
// storage with the catalog. Returns ErrAlreadyAttached on a second call.
func (b *Backend) Attach(cfg types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("apply indexes: %w", err)
		}
	}

	b.db = db
	b.dataDir = dataDir

	if err := b.seedSystemSchema(); err != nil {
		db.Close()
		b.db = nil
		return fmt.Errorf("seed system schema: %w", err)
	}

	// Replay the materialization projection. Tables or columns that failed
	// to materialize on an earlier run are created now; everything already
	// in place is a no-op.
	if err := b.reconcile(); err != nil {
		db.Close()
		b.db = nil
		return fmt.Errorf("reconcile storage: %w", err)
	}

	b.attached = true
	return nil
}

// Detach closes the database. Idempotent; after Detach every operation
// returns ErrDetached.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Close implements types.Store.
func (b *Backend) Close() error {
	return b.Detach()
}

// checkAttached returns ErrDetached when the backend is not attached.
// Callers must hold b.mu (read or write).
func (b *Backend) checkAttached() error {
	if !b.attached {
		return types.ErrDetached
	}
	return nil
}

// newID returns a prefixed, dash-free UUID v7. The result contains only
// lowercase hex and underscores, so generated IDs are valid storage
// identifiers and can name physical columns directly.
func newID(prefix string) string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return prefix + strings.ReplaceAll(id.String(), "-", "")
}
