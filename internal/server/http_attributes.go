package server

import (
	"encoding/json"
	"net/http"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// handleListAttributes handles GET /v1/objects/{objectID}/attributes.
// Attributes come back ordered by position with config decoded.
func (s *Server) handleListAttributes(w http.ResponseWriter, r *http.Request) {
	attrs, err := s.store.ListAttributes(r.Context(), r.PathValue("objectID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"attributes": attrs})
}

// defineAttributeRequest is the JSON body for POST /v1/objects/{objectID}/attributes.
type defineAttributeRequest struct {
	ID     string                 `json:"id"`
	Name   string                 `json:"name"`
	Type   string                 `json:"type"`
	Config *types.AttributeConfig `json:"config"`
}

// defineAttributeResponse carries the registered attribute plus a warning
// when the physical column could not be materialized. The attribute is
// registered either way; the warning tells the caller the column write is
// still pending a reconcile.
type defineAttributeResponse struct {
	*types.Attribute
	Warning string `json:"warning,omitempty"`
}

// handleDefineAttribute handles POST /v1/objects/{objectID}/attributes.
func (s *Server) handleDefineAttribute(w http.ResponseWriter, r *http.Request) {
	var req defineAttributeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	attr := &types.Attribute{
		ID:       req.ID,
		ObjectID: r.PathValue("objectID"),
		Name:     req.Name,
		Type:     req.Type,
		Config:   req.Config,
	}
	warning, err := s.store.DefineAttribute(r.Context(), attr)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, defineAttributeResponse{Attribute: attr, Warning: warning})
}

// handleUpdateAttribute handles PUT /v1/attributes/{id}. Only supplied
// fields are applied; an empty body is a 400.
func (s *Server) handleUpdateAttribute(w http.ResponseWriter, r *http.Request) {
	var upd types.AttributeUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.store.UpdateAttribute(r.Context(), r.PathValue("id"), upd); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleDeleteAttribute handles DELETE /v1/attributes/{id}. The response
// reports the affected row count: 0 means the attribute was a system
// attribute (or unknown) and nothing was deleted.
func (s *Server) handleDeleteAttribute(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.DeleteAttribute(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
