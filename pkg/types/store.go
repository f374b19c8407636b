package types

import (
	"context"
	"errors"
)

// Store is the persistence interface for the schema catalog, the relation
// graph, and record storage. The SQLite backend implements it; the HTTP
// server consumes it.
type Store interface {
	// Schema catalog. DefineObject registers a new object type and creates
	// its backing table in one transaction. DefineAttribute registers the
	// attribute and then adds the physical column best-effort: when the
	// column cannot be added the returned warning is non-empty and the
	// attribute is still registered (the catalog stays authoritative).
	ListObjects(ctx context.Context) ([]*ObjectType, error)
	GetObject(ctx context.Context, id string) (*ObjectType, error)
	DefineObject(ctx context.Context, obj *ObjectType) error
	DeleteObject(ctx context.Context, id string) (int64, error)
	ListAttributes(ctx context.Context, objectID string) ([]*Attribute, error)
	DefineAttribute(ctx context.Context, attr *Attribute) (warning string, err error)
	UpdateAttribute(ctx context.Context, id string, upd AttributeUpdate) error
	DeleteAttribute(ctx context.Context, id string) (int64, error)

	// Relation graph. Duplicate links are permitted; Unlink of an unknown
	// id reports zero affected rows without error.
	Link(ctx context.Context, rel *Relation) error
	ListRelations(ctx context.Context, sourceRecordID, attributeID string) ([]*Relation, error)
	Unlink(ctx context.Context, id string) (int64, error)

	// Records. Values pass through the attribute-typed codec in both
	// directions.
	CreateRecord(ctx context.Context, objectID string, values Record) (Record, error)
	GetRecord(ctx context.Context, objectID, recordID string) (Record, error)
	ListRecords(ctx context.Context, objectID string) ([]Record, error)
	UpdateRecord(ctx context.Context, objectID, recordID string, values Record) (Record, error)
	DeleteRecord(ctx context.Context, objectID, recordID string) (int64, error)

	// Lifecycle.
	Close() error
}

// Store lifecycle errors.
var (
	ErrDetached        = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)
