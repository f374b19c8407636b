package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// Link records a directed relation between two records, scoped by the
// relation attribute that gives the link its meaning. No uniqueness is
// enforced: linking the same pair twice creates two rows with distinct ids.
// The store does not verify that either record exists or belongs to the
// attribute's target object type.
func (b *Backend) Link(ctx context.Context, rel *types.Relation) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return err
	}

	if rel.SourceRecordID == "" || rel.TargetRecordID == "" || rel.AttributeID == "" {
		return fmt.Errorf("%w: source, target, and attribute are required", types.ErrNoFields)
	}

	rel.ID = newID("rel_")
	rel.CreatedAt = b.now().UTC()

	if _, err := b.db.ExecContext(ctx, `
		INSERT INTO record_relations (id, source_record_id, target_record_id, attribute_id, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		rel.ID, rel.SourceRecordID, rel.TargetRecordID, rel.AttributeID,
		rel.CreatedAt.Format(time.RFC3339)); err != nil {
		return fmt.Errorf("inserting relation: %w", err)
	}
	return nil
}

// ListRelations returns all relations with the given source record and
// attribute, oldest first.
func (b *Backend) ListRelations(ctx context.Context, sourceRecordID, attributeID string) ([]*types.Relation, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx, `
		SELECT id, source_record_id, target_record_id, attribute_id, created_at
		FROM record_relations
		WHERE source_record_id = ? AND attribute_id = ?
		ORDER BY created_at`, sourceRecordID, attributeID)
	if err != nil {
		return nil, fmt.Errorf("listing relations: %w", err)
	}
	defer rows.Close()

	relations := []*types.Relation{}
	for rows.Next() {
		var rel types.Relation
		var createdAt string
		if err := rows.Scan(&rel.ID, &rel.SourceRecordID, &rel.TargetRecordID,
			&rel.AttributeID, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning relation: %w", err)
		}
		rel.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		relations = append(relations, &rel)
	}
	return relations, rows.Err()
}

// Unlink deletes a relation by id and reports the affected row count.
// An unknown id deletes zero rows and is not an error.
func (b *Backend) Unlink(ctx context.Context, id string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return 0, err
	}

	res, err := b.db.ExecContext(ctx,
		"DELETE FROM record_relations WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("deleting relation: %w", err)
	}
	return res.RowsAffected()
}
