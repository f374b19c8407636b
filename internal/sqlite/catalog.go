package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/rolodex/internal/identifier"
	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// ListObjects returns every object type, system types first, then
// alphabetically by display name.
func (b *Backend) ListObjects(ctx context.Context) ([]*types.ObjectType, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx,
		"SELECT id, name, slug, icon, is_system, created_at FROM objects ORDER BY is_system DESC, name")
	if err != nil {
		return nil, fmt.Errorf("listing objects: %w", err)
	}
	defer rows.Close()

	objects := []*types.ObjectType{}
	for rows.Next() {
		obj, err := scanObject(rows)
		if err != nil {
			return nil, err
		}
		objects = append(objects, obj)
	}
	return objects, rows.Err()
}

// GetObject returns the object type with the given id.
// Returns ErrObjectNotFound if no such object type exists.
func (b *Backend) GetObject(ctx context.Context, id string) (*types.ObjectType, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	return b.getObject(ctx, id)
}

// getObject looks up an object type by id. Callers must hold b.mu.
func (b *Backend) getObject(ctx context.Context, id string) (*types.ObjectType, error) {
	row := b.db.QueryRowContext(ctx,
		"SELECT id, name, slug, icon, is_system, created_at FROM objects WHERE id = ?", id)
	obj, err := scanObject(row)
	if err == sql.ErrNoRows {
		return nil, types.ErrObjectNotFound
	}
	return obj, err
}

// DefineObject registers a new non-system object type and creates its
// backing table. The catalog insert and the CREATE TABLE run in a single
// transaction, so a materialization failure leaves no dangling catalog
// entry. Returns ErrInvalidIdentifier when the slug is not already in
// sanitized form or names reserved storage, ErrDuplicateSlug when the slug
// is taken, and ErrDuplicateID for a caller-supplied id already in use.
func (b *Backend) DefineObject(ctx context.Context, obj *types.ObjectType) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	if obj.Name == "" {
		return types.ErrInvalidName
	}
	if !identifier.Valid(obj.Slug) {
		return fmt.Errorf("%w: %q (sanitizes to %q)",
			types.ErrInvalidIdentifier, obj.Slug, identifier.Sanitize(obj.Slug))
	}
	if reservedSlug(obj.Slug) {
		return fmt.Errorf("%w: %q is reserved", types.ErrInvalidIdentifier, obj.Slug)
	}

	var taken int
	err := b.db.QueryRowContext(ctx,
		"SELECT 1 FROM objects WHERE slug = ?", obj.Slug).Scan(&taken)
	if err == nil {
		return fmt.Errorf("%w: %q", types.ErrDuplicateSlug, obj.Slug)
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking slug: %w", err)
	}

	if obj.ID == "" {
		obj.ID = newID("obj_")
	} else {
		err := b.db.QueryRowContext(ctx,
			"SELECT 1 FROM objects WHERE id = ?", obj.ID).Scan(&taken)
		if err == nil {
			return fmt.Errorf("%w: %q", types.ErrDuplicateID, obj.ID)
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking id: %w", err)
		}
	}
	obj.IsSystem = false
	obj.CreatedAt = b.now().UTC()

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin define object: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO objects (id, name, slug, icon, is_system, created_at)
		VALUES (?, ?, ?, ?, 0, ?)`,
		obj.ID, obj.Name, obj.Slug, obj.Icon,
		obj.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting object: %w", err)
	}
	if err := createObjectTable(ctx, tx, obj.Slug); err != nil {
		return fmt.Errorf("materializing table %q: %w", obj.Slug, err)
	}
	return tx.Commit()
}

// DeleteObject removes a non-system object type and its attribute rows from
// the catalog. The physical table is retained: existing records stay
// readable by hand and relations referencing them remain untouched
// (orphan-tolerant policy). Returns ErrSystemObject for system types.
func (b *Backend) DeleteObject(ctx context.Context, id string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return 0, err
	}

	obj, err := b.getObject(ctx, id)
	if err != nil {
		return 0, err
	}
	if obj.IsSystem {
		return 0, types.ErrSystemObject
	}

	if _, err := b.db.ExecContext(ctx,
		"DELETE FROM attributes WHERE object_id = ?", id); err != nil {
		return 0, fmt.Errorf("deleting object attributes: %w", err)
	}
	res, err := b.db.ExecContext(ctx, "DELETE FROM objects WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting object: %w", err)
	}
	return res.RowsAffected()
}

// ListAttributes returns the attributes of an object ordered by position
// ascending, with config decoded to structured form.
func (b *Backend) ListAttributes(ctx context.Context, objectID string) ([]*types.Attribute, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}
	if _, err := b.getObject(ctx, objectID); err != nil {
		return nil, err
	}
	return b.listAttributes(ctx, objectID)
}

// listAttributes loads the ordered attribute rows. Callers must hold b.mu.
func (b *Backend) listAttributes(ctx context.Context, objectID string) ([]*types.Attribute, error) {
	rows, err := b.db.QueryContext(ctx, `
		SELECT id, object_id, name, type, config, column_name, is_system, position, created_at
		FROM attributes WHERE object_id = ? ORDER BY position`, objectID)
	if err != nil {
		return nil, fmt.Errorf("listing attributes: %w", err)
	}
	defer rows.Close()

	attrs := []*types.Attribute{}
	for rows.Next() {
		attr, err := scanAttribute(rows)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, rows.Err()
}

// DefineAttribute registers an attribute on an object and adds the physical
// column best-effort. The attribute's position is assigned under the write
// lock as max(existing)+1, or 0 when the object has none. A column that
// cannot be added does not fail the operation: the catalog row is
// authoritative and the failure comes back as a non-empty warning (and a
// log line) for the caller to surface.
func (b *Backend) DefineAttribute(ctx context.Context, attr *types.Attribute) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}

	obj, err := b.getObject(ctx, attr.ObjectID)
	if err != nil {
		return "", err
	}
	if attr.Name == "" {
		return "", types.ErrInvalidName
	}
	if attr.Type == "" {
		attr.Type = types.AttributeText
	}
	if attr.ID == "" {
		attr.ID = newID("attr_")
	} else {
		if !identifier.Valid(attr.ID) {
			return "", fmt.Errorf("%w: attribute id %q", types.ErrInvalidIdentifier, attr.ID)
		}
		// The id names the physical column, so it must not alias a column
		// already in the table (id, created_at, a fixed system column, or
		// another attribute's column). Generated ids cannot collide.
		existing, err := b.tableColumns(ctx, obj.Slug)
		if err != nil {
			return "", err
		}
		if existing[attr.ID] {
			return "", fmt.Errorf("%w: attribute id %q collides with a column of %q",
				types.ErrInvalidIdentifier, attr.ID, obj.Slug)
		}
	}

	if err := b.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position) + 1, 0) FROM attributes WHERE object_id = ?",
		attr.ObjectID).Scan(&attr.Position); err != nil {
		return "", fmt.Errorf("assigning position: %w", err)
	}

	cfg, err := marshalConfig(attr.Config)
	if err != nil {
		return "", err
	}
	attr.IsSystem = false
	attr.CreatedAt = b.now().UTC()

	if _, err := b.db.ExecContext(ctx, `
		INSERT INTO attributes (id, object_id, name, type, config, is_system, position, created_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)`,
		attr.ID, attr.ObjectID, attr.Name, attr.Type, cfg,
		attr.Position, attr.CreatedAt.Format(time.RFC3339)); err != nil {
		return "", fmt.Errorf("inserting attribute: %w", err)
	}

	warning := ""
	if err := b.addAttributeColumn(ctx, obj.Slug, attr.ID, attr.Type); err != nil {
		warning = fmt.Sprintf("attribute registered but column not materialized: %v", err)
		b.log.Warn("attribute column materialization failed",
			"object", obj.Slug, "attribute", attr.ID, "error", err)
	}
	return warning, nil
}

// UpdateAttribute applies the supplied fields to an attribute. Returns
// ErrNoFields when the update is empty and ErrNotFound for an unknown id.
// The attribute id itself is immutable, and a type change never alters the
// existing physical column.
func (b *Backend) UpdateAttribute(ctx context.Context, id string, upd types.AttributeUpdate) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	if upd.IsZero() {
		return types.ErrNoFields
	}

	set := []string{}
	args := []any{}
	if upd.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Type != nil {
		set = append(set, "type = ?")
		args = append(args, *upd.Type)
	}
	if upd.Config != nil {
		cfg, err := marshalConfig(upd.Config)
		if err != nil {
			return err
		}
		set = append(set, "config = ?")
		args = append(args, cfg)
	}
	if upd.Position != nil {
		set = append(set, "position = ?")
		args = append(args, *upd.Position)
	}
	args = append(args, id)

	res, err := b.db.ExecContext(ctx,
		"UPDATE attributes SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("updating attribute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

// DeleteAttribute removes a non-system attribute and reports the affected
// row count. Deleting a system attribute (or an unknown id) is a zero-row
// no-op, not an error; callers inspect the count. The physical column is
// retained, matching the orphan-tolerant materialization policy.
func (b *Backend) DeleteAttribute(ctx context.Context, id string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return 0, err
	}

	res, err := b.db.ExecContext(ctx,
		"DELETE FROM attributes WHERE id = ? AND is_system = 0", id)
	if err != nil {
		return 0, fmt.Errorf("deleting attribute: %w", err)
	}
	return res.RowsAffected()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanObject(s scanner) (*types.ObjectType, error) {
	var obj types.ObjectType
	var icon sql.NullString
	var isSystem int
	var createdAt string
	err := s.Scan(&obj.ID, &obj.Name, &obj.Slug, &icon, &isSystem, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning object: %w", err)
	}
	obj.Icon = icon.String
	obj.IsSystem = isSystem != 0
	obj.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &obj, nil
}

func scanAttribute(s scanner) (*types.Attribute, error) {
	var attr types.Attribute
	var cfg, column sql.NullString
	var isSystem int
	var createdAt string
	err := s.Scan(&attr.ID, &attr.ObjectID, &attr.Name, &attr.Type,
		&cfg, &column, &isSystem, &attr.Position, &createdAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning attribute: %w", err)
	}
	attr.ColumnName = column.String
	attr.IsSystem = isSystem != 0
	attr.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	if cfg.Valid && cfg.String != "" {
		var c types.AttributeConfig
		if err := json.Unmarshal([]byte(cfg.String), &c); err != nil {
			return nil, fmt.Errorf("parsing attribute config: %w", err)
		}
		attr.Config = &c
	}
	return &attr, nil
}

// marshalConfig serializes an attribute config for the TEXT column.
// A nil config stores NULL.
func marshalConfig(cfg *types.AttributeConfig) (any, error) {
	if cfg == nil {
		return nil, nil
	}
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshaling attribute config: %w", err)
	}
	return string(raw), nil
}
