// Package types defines the Store interface, catalog entity types, and
// standard errors for the Rolodex CRM backend.
package types
