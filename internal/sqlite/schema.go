package sqlite

import "strings"

// reservedTables are the catalog's own tables. A user slug naming one of
// them would make createObjectTable's IF NOT EXISTS silently adopt catalog
// storage as a record table.
var reservedTables = map[string]bool{
	"objects":          true,
	"attributes":       true,
	"record_relations": true,
}

// reservedSlug reports whether a slug would shadow catalog storage or
// SQLite's internal tables.
func reservedSlug(slug string) bool {
	return reservedTables[slug] || strings.HasPrefix(slug, "sqlite_")
}

// Catalog and system table DDL. Everything uses IF NOT EXISTS: Attach runs
// against a possibly pre-existing database and must be a no-op on tables
// that are already in place.
const (
	createObjects = `CREATE TABLE IF NOT EXISTS objects (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    slug TEXT NOT NULL UNIQUE,
    icon TEXT,
    is_system INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL
);`

	createAttributes = `CREATE TABLE IF NOT EXISTS attributes (
    id TEXT PRIMARY KEY,
    object_id TEXT NOT NULL,
    name TEXT NOT NULL,
    type TEXT NOT NULL,
    config TEXT,
    column_name TEXT,
    is_system INTEGER NOT NULL DEFAULT 0,
    position INTEGER NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    FOREIGN KEY (object_id) REFERENCES objects(id)
);`

	createRecordRelations = `CREATE TABLE IF NOT EXISTS record_relations (
    id TEXT PRIMARY KEY,
    source_record_id TEXT NOT NULL,
    target_record_id TEXT NOT NULL,
    attribute_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`

	createCompanies = `CREATE TABLE IF NOT EXISTS companies (
    id TEXT PRIMARY KEY,
    name TEXT,
    domain TEXT,
    employees REAL,
    address TEXT,
    icp INTEGER,
    created_at TEXT
);`

	createPeople = `CREATE TABLE IF NOT EXISTS people (
    id TEXT PRIMARY KEY,
    first_name TEXT,
    last_name TEXT,
    email TEXT,
    phone TEXT,
    company_id TEXT,
    created_at TEXT
);`

	createActivities = `CREATE TABLE IF NOT EXISTS activities (
    id TEXT PRIMARY KEY,
    title TEXT,
    kind TEXT,
    due_date TEXT,
    completed INTEGER,
    note TEXT,
    record_id TEXT,
    created_at TEXT
);`

	createDeals = `CREATE TABLE IF NOT EXISTS deals (
    id TEXT PRIMARY KEY,
    name TEXT,
    stage TEXT,
    amount REAL,
    close_date TEXT,
    sensitive INTEGER,
    created_at TEXT
);`
)

const (
	idxAttributesObject = `CREATE INDEX IF NOT EXISTS idx_attributes_object ON attributes(object_id, position);`
	idxRelationsSource  = `CREATE INDEX IF NOT EXISTS idx_relations_source ON record_relations(source_record_id, attribute_id);`
	idxRelationsTarget  = `CREATE INDEX IF NOT EXISTS idx_relations_target ON record_relations(target_record_id);`
)

// schemaDDL lists CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createObjects,
	createAttributes,
	createRecordRelations,
	createCompanies,
	createPeople,
	createActivities,
	createDeals,
}

// indexDDL lists CREATE INDEX statements.
var indexDDL = []string{
	idxAttributesObject,
	idxRelationsSource,
	idxRelationsTarget,
}
