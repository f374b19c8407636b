// Package server exposes the Rolodex store over HTTP.
package server

import (
	"log/slog"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// Server handles the HTTP surface for the schema catalog, relations, and
// records. It holds no state of its own beyond the store handle.
type Server struct {
	store types.Store
	log   *slog.Logger
}

// New returns a Server backed by the given store.
func New(store types.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, log: log}
}
