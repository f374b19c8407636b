package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// Record CRUD against an object type's physical table. Records are keyed by
// physical column name, which for non-system attributes is the attribute id.
// Column names in SQL are only ever drawn from the catalog, never from raw
// request input: unknown keys are rejected with ErrUnknownAttribute.

// recordTable bundles what record operations need to know about an object
// type: its table name and the attribute backing each column.
type recordTable struct {
	slug  string
	attrs map[string]*types.Attribute // keyed by physical column name
}

// resolveRecordTable loads the object and its attribute map.
// Callers must hold b.mu.
func (b *Backend) resolveRecordTable(ctx context.Context, objectID string) (*recordTable, error) {
	obj, err := b.getObject(ctx, objectID)
	if err != nil {
		return nil, err
	}
	attrs, err := b.listAttributes(ctx, objectID)
	if err != nil {
		return nil, err
	}
	rt := &recordTable{slug: obj.Slug, attrs: make(map[string]*types.Attribute, len(attrs))}
	for _, attr := range attrs {
		rt.attrs[attr.Slot()] = attr
	}
	return rt, nil
}

// column validates that name is a writable column of the table.
func (rt *recordTable) column(name string) (string, error) {
	if name == "id" || name == "created_at" {
		return name, nil
	}
	if _, ok := rt.attrs[name]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q on %q", types.ErrUnknownAttribute, name, rt.slug)
}

// CreateRecord inserts a record into the object's table. The id is generated
// when absent and created_at is stamped from the backend clock when the
// caller did not supply one. Returns the stored record read back through the
// codec.
func (b *Backend) CreateRecord(ctx context.Context, objectID string, values types.Record) (types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rt, err := b.resolveRecordTable(ctx, objectID)
	if err != nil {
		return nil, err
	}

	id, _ := values["id"].(string)
	if id == "" {
		id = newID("rec_")
	}

	cols := []string{`"id"`}
	placeholders := []string{"?"}
	args := []any{id}
	for key, v := range values {
		if key == "id" {
			continue
		}
		col, err := rt.column(key)
		if err != nil {
			return nil, err
		}
		encoded, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", key, err)
		}
		cols = append(cols, fmt.Sprintf("%q", col))
		placeholders = append(placeholders, "?")
		args = append(args, encoded)
	}
	if _, ok := values["created_at"]; !ok {
		cols = append(cols, `"created_at"`)
		placeholders = append(placeholders, "?")
		args = append(args, b.now().UTC().Format(time.RFC3339))
	}

	query := fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
		rt.slug, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := b.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("inserting record into %q: %w", rt.slug, err)
	}

	return b.readRecord(ctx, rt, id)
}

// GetRecord returns one record by id, values decoded per the catalog.
func (b *Backend) GetRecord(ctx context.Context, objectID, recordID string) (types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rt, err := b.resolveRecordTable(ctx, objectID)
	if err != nil {
		return nil, err
	}
	return b.readRecord(ctx, rt, recordID)
}

// ListRecords returns every record of the object, oldest first.
func (b *Backend) ListRecords(ctx context.Context, objectID string) ([]types.Record, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rt, err := b.resolveRecordTable(ctx, objectID)
	if err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %q ORDER BY created_at", rt.slug))
	if err != nil {
		return nil, fmt.Errorf("listing records of %q: %w", rt.slug, err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows, rt)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// UpdateRecord applies the supplied values to a record. Returns ErrNoFields
// for an empty update, ErrNotFound for an unknown record, and the updated
// record on success. The id column is immutable and ignored when supplied.
func (b *Backend) UpdateRecord(ctx context.Context, objectID, recordID string, values types.Record) (types.Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rt, err := b.resolveRecordTable(ctx, objectID)
	if err != nil {
		return nil, err
	}

	set := []string{}
	args := []any{}
	for key, v := range values {
		if key == "id" {
			continue
		}
		col, err := rt.column(key)
		if err != nil {
			return nil, err
		}
		encoded, err := encodeValue(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %q: %w", key, err)
		}
		set = append(set, fmt.Sprintf("%q = ?", col))
		args = append(args, encoded)
	}
	if len(set) == 0 {
		return nil, types.ErrNoFields
	}
	args = append(args, recordID)

	res, err := b.db.ExecContext(ctx,
		fmt.Sprintf("UPDATE %q SET %s WHERE id = ?", rt.slug, strings.Join(set, ", ")),
		args...)
	if err != nil {
		return nil, fmt.Errorf("updating record in %q: %w", rt.slug, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, types.ErrNotFound
	}

	return b.readRecord(ctx, rt, recordID)
}

// DeleteRecord removes a record and reports the affected row count.
// Relations referencing the record are left in place (orphan-tolerant).
func (b *Backend) DeleteRecord(ctx context.Context, objectID, recordID string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return 0, err
	}

	rt, err := b.resolveRecordTable(ctx, objectID)
	if err != nil {
		return 0, err
	}

	res, err := b.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %q WHERE id = ?", rt.slug), recordID)
	if err != nil {
		return 0, fmt.Errorf("deleting record from %q: %w", rt.slug, err)
	}
	return res.RowsAffected()
}

// readRecord loads one row by id. Callers must hold b.mu.
func (b *Backend) readRecord(ctx context.Context, rt *recordTable, id string) (types.Record, error) {
	rows, err := b.db.QueryContext(ctx,
		fmt.Sprintf("SELECT * FROM %q WHERE id = ?", rt.slug), id)
	if err != nil {
		return nil, fmt.Errorf("reading record from %q: %w", rt.slug, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, types.ErrNotFound
	}
	return scanRecord(rows, rt)
}

// scanRecord decodes the current row into a Record, dropping NULL columns so
// absent attributes stay absent in the result.
func scanRecord(rows *sql.Rows, rt *recordTable) (types.Record, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	raw := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := rows.Scan(ptrs...); err != nil {
		return nil, fmt.Errorf("scanning record: %w", err)
	}

	rec := types.Record{}
	for i, col := range cols {
		if raw[i] == nil {
			continue
		}
		rec[col] = decodeValue(rt.attrs[col], rt.slug, col, raw[i])
	}
	return rec, nil
}
