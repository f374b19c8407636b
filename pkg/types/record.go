package types

import "errors"

// Record is one row of an object type's physical table, keyed by attribute
// ID (or fixed column name for system tables). Values are typed by the
// owning attribute: booleans for checkbox, float64 for number and currency,
// decoded JSON values for select kinds, strings otherwise.
type Record map[string]any

// ErrNotFound reports a missing record or attribute.
var ErrNotFound = errors.New("not found")
