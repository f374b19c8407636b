package types

import (
	"errors"
	"time"
)

// Attribute type names. The set is open ended: unknown types are stored and
// materialized as text.
const (
	AttributeText        = "text"
	AttributeURL         = "url"
	AttributeEmail       = "email"
	AttributePhone       = "phone"
	AttributeLocation    = "location"
	AttributeDate        = "date"
	AttributeCheckbox    = "checkbox"
	AttributeNumber      = "number"
	AttributeCurrency    = "currency"
	AttributeSelect      = "select"
	AttributeMultiSelect = "multi-select"
	AttributeRelation    = "relation"
)

// Relation cardinality values for AttributeConfig.Cardinality.
const (
	CardinalityOne  = "one"
	CardinalityMany = "many"
)

// SelectOption is one choice of a select or multi-select attribute.
type SelectOption struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// AttributeConfig carries the type-specific configuration of an attribute.
// Options applies to select kinds; TargetObjectID and Cardinality apply to
// relation attributes. It is stored as a JSON text column.
type AttributeConfig struct {
	Options        []SelectOption `json:"options,omitempty"`
	TargetObjectID string         `json:"target_object_id,omitempty"`
	Cardinality    string         `json:"cardinality,omitempty"`
}

// Attribute is a typed field definition belonging to an object type.
//
// For non-system attributes the ID doubles as the physical column name in
// the owning object's table, so it must be a valid storage identifier and
// is immutable once the column exists. System attributes are seeded with
// their fixed column name as the ID and are never materialized separately.
type Attribute struct {
	ID       string           `json:"id"`
	ObjectID string           `json:"object_id"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Config   *AttributeConfig `json:"config,omitempty"`
	IsSystem bool             `json:"is_system"`

	// ColumnName is the fixed physical column backing a system attribute.
	// Empty for non-system attributes, whose ID names the column.
	ColumnName string `json:"column_name,omitempty"`

	Position  int       `json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

// Slot returns the physical column name backing this attribute.
func (a *Attribute) Slot() string {
	if a.ColumnName != "" {
		return a.ColumnName
	}
	return a.ID
}

// AttributeUpdate is a partial update; nil fields are left unchanged.
type AttributeUpdate struct {
	Name     *string          `json:"name,omitempty"`
	Type     *string          `json:"type,omitempty"`
	Config   *AttributeConfig `json:"config,omitempty"`
	Position *int             `json:"position,omitempty"`
}

// IsZero reports whether the update carries no fields.
func (u AttributeUpdate) IsZero() bool {
	return u.Name == nil && u.Type == nil && u.Config == nil && u.Position == nil
}

// Attribute catalog errors.
var (
	ErrNoFields         = errors.New("no fields provided")
	ErrUnknownAttribute = errors.New("unknown attribute")
)
