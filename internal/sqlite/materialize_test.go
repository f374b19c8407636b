package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

func TestColumnKind(t *testing.T) {
	tests := []struct {
		attrType string
		want     string
	}{
		{types.AttributeText, "TEXT"},
		{types.AttributeURL, "TEXT"},
		{types.AttributeEmail, "TEXT"},
		{types.AttributeDate, "TEXT"},
		{types.AttributeSelect, "TEXT"},
		{types.AttributeMultiSelect, "TEXT"},
		{types.AttributeRelation, "TEXT"},
		{types.AttributeNumber, "REAL"},
		{types.AttributeCurrency, "REAL"},
		{types.AttributeCheckbox, "INTEGER"},
		{"someday-type", "TEXT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, columnKind(tt.attrType), tt.attrType)
	}
}

func TestAddAttributeColumn(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	obj := &types.ObjectType{Name: "Projects", Slug: "projects"}
	require.NoError(t, b.DefineObject(ctx, obj))

	require.NoError(t, b.addAttributeColumn(ctx, "projects", "attr_x", types.AttributeNumber))

	// A second add of the same column is tolerated, not an error.
	require.NoError(t, b.addAttributeColumn(ctx, "projects", "attr_x", types.AttributeNumber))

	cols, err := b.tableColumns(ctx, "projects")
	require.NoError(t, err)
	assert.True(t, cols["attr_x"])
}

func TestReconcile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b := NewBackend(WithClock(testClock))
	require.NoError(t, b.Attach(types.Config{DataDir: dir}))

	obj := &types.ObjectType{Name: "Projects", Slug: "projects"}
	require.NoError(t, b.DefineObject(ctx, obj))
	attr := &types.Attribute{ObjectID: obj.ID, Name: "Status"}
	_, err := b.DefineAttribute(ctx, attr)
	require.NoError(t, err)

	// Simulate a materialization that never happened: drop the column's
	// table entirely, leaving only catalog rows behind.
	_, err = b.db.Exec(`DROP TABLE "projects"`)
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	// Attach replays the projection: table and column come back.
	b2 := NewBackend(WithClock(testClock))
	require.NoError(t, b2.Attach(types.Config{DataDir: dir}))
	defer b2.Detach()

	cols, err := b2.tableColumns(ctx, "projects")
	require.NoError(t, err)
	assert.True(t, cols["id"])
	assert.True(t, cols["created_at"])
	assert.True(t, cols[attr.ID])

	rec, err := b2.CreateRecord(ctx, obj.ID, types.Record{attr.ID: "recovered"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", rec[attr.ID])
}
