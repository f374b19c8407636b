package server

import (
	"encoding/json"
	"net/http"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// handleListObjects handles GET /v1/objects.
func (s *Server) handleListObjects(w http.ResponseWriter, r *http.Request) {
	objects, err := s.store.ListObjects(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"objects": objects})
}

// defineObjectRequest is the JSON body for POST /v1/objects.
type defineObjectRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
	Icon string `json:"icon"`
}

// handleDefineObject handles POST /v1/objects. Creates the object type and
// its backing table in one step.
func (s *Server) handleDefineObject(w http.ResponseWriter, r *http.Request) {
	var req defineObjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	obj := &types.ObjectType{
		ID:   req.ID,
		Name: req.Name,
		Slug: req.Slug,
		Icon: req.Icon,
	}
	if err := s.store.DefineObject(r.Context(), obj); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, obj)
}

// handleDeleteObject handles DELETE /v1/objects/{objectID}. System object
// types cannot be deleted.
func (s *Server) handleDeleteObject(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.DeleteObject(r.Context(), r.PathValue("objectID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
