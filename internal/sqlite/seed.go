package sqlite

import (
	"fmt"
	"time"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// System schema seeding. The four system object types are backed by
// hand-designed tables (see schema.go); the catalog rows registered here let
// the rest of the engine treat them uniformly. System attributes carry their
// fixed column name in column_name instead of using the id as the slot, and
// the materializer never touches these tables.

// systemAttribute describes one seeded attribute of a system object type.
// The attribute id is the object slug plus the column, e.g. deals_stage.
type systemAttribute struct {
	column   string
	name     string
	attrType string
	config   *types.AttributeConfig
}

// systemObject describes one seeded object type.
type systemObject struct {
	slug  string
	name  string
	icon  string
	attrs []systemAttribute
}

var systemObjects = []systemObject{
	{
		slug: types.SlugCompanies, name: "Companies", icon: "building",
		attrs: []systemAttribute{
			{"name", "Name", types.AttributeText, nil},
			{"domain", "Domain", types.AttributeURL, nil},
			{"employees", "Employees", types.AttributeNumber, nil},
			{"address", "Address", types.AttributeLocation, nil},
			{"icp", "ICP", types.AttributeCheckbox, nil},
		},
	},
	{
		slug: types.SlugPeople, name: "People", icon: "user",
		attrs: []systemAttribute{
			{"first_name", "First Name", types.AttributeText, nil},
			{"last_name", "Last Name", types.AttributeText, nil},
			{"email", "Email", types.AttributeEmail, nil},
			{"phone", "Phone", types.AttributePhone, nil},
			{"company_id", "Company", types.AttributeText, nil},
		},
	},
	{
		slug: types.SlugActivities, name: "Activities", icon: "calendar",
		attrs: []systemAttribute{
			{"title", "Title", types.AttributeText, nil},
			{"kind", "Kind", types.AttributeSelect, &types.AttributeConfig{
				Options: []types.SelectOption{
					{ID: "call", Label: "Call"},
					{ID: "email", Label: "Email"},
					{ID: "meeting", Label: "Meeting"},
					{ID: "task", Label: "Task"},
				},
			}},
			{"due_date", "Due Date", types.AttributeDate, nil},
			{"completed", "Completed", types.AttributeCheckbox, nil},
			{"note", "Note", types.AttributeText, nil},
			{"record_id", "Linked Record", types.AttributeText, nil},
		},
	},
	{
		slug: types.SlugDeals, name: "Deals", icon: "handshake",
		attrs: []systemAttribute{
			{"name", "Name", types.AttributeText, nil},
			{"stage", "Stage", types.AttributeSelect, &types.AttributeConfig{
				Options: []types.SelectOption{
					{ID: "lead", Label: "Lead"},
					{ID: "qualified", Label: "Qualified"},
					{ID: "proposal", Label: "Proposal"},
					{ID: "won", Label: "Won", Color: "green"},
					{ID: "lost", Label: "Lost", Color: "red"},
				},
			}},
			{"amount", "Amount", types.AttributeCurrency, nil},
			{"close_date", "Close Date", types.AttributeDate, nil},
			{"sensitive", "Sensitive", types.AttributeCheckbox, nil},
		},
	},
}

// systemObjectID returns the deterministic catalog id of a system object
// type, stable across attaches so seeding stays idempotent.
func systemObjectID(slug string) string {
	return "obj_" + slug
}

// seedSystemSchema registers the system object types and their attributes.
// INSERT OR IGNORE on the primary key makes re-attach a no-op, and seeded
// rows never overwrite later edits to display names or configs.
// Callers must hold b.mu.
func (b *Backend) seedSystemSchema() error {
	now := b.now().UTC().Format(time.RFC3339)
	for _, obj := range systemObjects {
		if _, err := b.db.Exec(`
			INSERT OR IGNORE INTO objects (id, name, slug, icon, is_system, created_at)
			VALUES (?, ?, ?, ?, 1, ?)`,
			systemObjectID(obj.slug), obj.name, obj.slug, obj.icon, now); err != nil {
			return fmt.Errorf("seeding object %q: %w", obj.slug, err)
		}
		for pos, attr := range obj.attrs {
			cfg, err := marshalConfig(attr.config)
			if err != nil {
				return err
			}
			if _, err := b.db.Exec(`
				INSERT OR IGNORE INTO attributes (id, object_id, name, type, config, column_name, is_system, position, created_at)
				VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?)`,
				obj.slug+"_"+attr.column, systemObjectID(obj.slug), attr.name, attr.attrType,
				cfg, attr.column, pos, now); err != nil {
				return fmt.Errorf("seeding attribute %q.%q: %w", obj.slug, attr.column, err)
			}
		}
	}
	return nil
}
