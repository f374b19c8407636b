package types

import "time"

// Relation is a directed, attribute-scoped link between two records. The
// attribute names the semantic meaning of the link (for example a "Point of
// Contact" relation attribute on the companies object). Relations live
// independently of either record's physical table; the store does not verify
// that the referenced records exist, so downstream consumers must tolerate
// dangling relations.
type Relation struct {
	ID             string    `json:"id"`
	SourceRecordID string    `json:"source_record_id"`
	TargetRecordID string    `json:"target_record_id"`
	AttributeID    string    `json:"attribute_id"`
	CreatedAt      time.Time `json:"created_at"`
}
