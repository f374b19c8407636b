package types

import (
	"errors"
	"time"
)

// System object slugs seeded on first attach. System object types cannot be
// deleted and their slugs cannot change.
const (
	SlugCompanies  = "companies"
	SlugPeople     = "people"
	SlugActivities = "activities"
	SlugDeals      = "deals"
)

// ObjectType is a record category, either seeded (companies, people,
// activities, deals) or defined at runtime. The slug names the physical
// table backing records of this type, so it must be a valid storage
// identifier and unique across all object types.
type ObjectType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Icon      string    `json:"icon,omitempty"`
	IsSystem  bool      `json:"is_system"`
	CreatedAt time.Time `json:"created_at"`
}

// Object catalog errors.
var (
	ErrObjectNotFound    = errors.New("object type not found")
	ErrInvalidName       = errors.New("name must not be empty")
	ErrDuplicateSlug     = errors.New("slug is already in use")
	ErrDuplicateID       = errors.New("id is already in use")
	ErrInvalidIdentifier = errors.New("not a valid storage identifier")
	ErrSystemObject      = errors.New("system object types cannot be deleted")
)
