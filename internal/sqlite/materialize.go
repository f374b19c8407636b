package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// Storage materializer: projects catalog state onto physical tables.
// Materialization is idempotent so it can be replayed after a partial
// failure; the catalog is always the source of truth.

// columnKind maps a declared attribute type to the minimal physical scalar
// kind. Structured values (option lists, arrays) are serialized to text at
// the storage boundary, so every type outside the numeric and checkbox
// kinds lands on TEXT, including unknown future types.
func columnKind(attrType string) string {
	switch attrType {
	case types.AttributeNumber, types.AttributeCurrency:
		return "REAL"
	case types.AttributeCheckbox:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

// execer covers *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// createObjectTable creates the backing table for an object type: an id
// primary key plus a creation timestamp. Dynamic attribute columns are added
// one by one as attributes are defined. IF NOT EXISTS keeps retries safe.
// The slug has passed the identifier sanitizer before it reaches DDL.
func createObjectTable(ctx context.Context, e execer, slug string) error {
	_, err := e.ExecContext(ctx, fmt.Sprintf(
		`CREATE TABLE IF NOT EXISTS %q (id TEXT PRIMARY KEY, created_at TEXT)`, slug))
	return err
}

// addAttributeColumn adds the physical column for a non-system attribute,
// named by the attribute id. A pre-existing column is tolerated: ids are
// unique by construction, so a duplicate means an earlier materialization
// already succeeded and there is nothing to do.
func (b *Backend) addAttributeColumn(ctx context.Context, slug, column, attrType string) error {
	_, err := b.db.ExecContext(ctx, fmt.Sprintf(
		`ALTER TABLE %q ADD COLUMN %q %s`, slug, column, columnKind(attrType)))
	if err != nil && strings.Contains(err.Error(), "duplicate column") {
		b.log.Warn("attribute column already exists", "table", slug, "column", column)
		return nil
	}
	return err
}

// reconcile replays the materialization projection for every object type:
// missing tables are created and missing non-system attribute columns added
// (custom attributes can live on system objects too). Run at Attach so a
// column that failed to materialize earlier is picked up on the next start.
// Callers must hold b.mu.
func (b *Backend) reconcile() error {
	ctx := context.Background()
	rows, err := b.db.QueryContext(ctx, "SELECT id, slug FROM objects")
	if err != nil {
		return fmt.Errorf("loading objects for reconcile: %w", err)
	}
	defer rows.Close()

	type objectRef struct{ id, slug string }
	var refs []objectRef
	for rows.Next() {
		var ref objectRef
		if err := rows.Scan(&ref.id, &ref.slug); err != nil {
			return fmt.Errorf("scanning object for reconcile: %w", err)
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, ref := range refs {
		if err := createObjectTable(ctx, b.db, ref.slug); err != nil {
			return fmt.Errorf("reconciling table %q: %w", ref.slug, err)
		}
		existing, err := b.tableColumns(ctx, ref.slug)
		if err != nil {
			return err
		}
		attrs, err := b.listAttributes(ctx, ref.id)
		if err != nil {
			return err
		}
		for _, attr := range attrs {
			if attr.IsSystem || existing[attr.ID] {
				continue
			}
			if err := b.addAttributeColumn(ctx, ref.slug, attr.ID, attr.Type); err != nil {
				return fmt.Errorf("reconciling column %q.%q: %w", ref.slug, attr.ID, err)
			}
		}
	}
	return nil
}

// tableColumns returns the set of column names of a physical table.
func (b *Backend) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	defer rows.Close()

	cols := map[string]bool{}
	for rows.Next() {
		var cid int
		var name, ctype string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &ctype, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scanning column of %q: %w", table, err)
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
