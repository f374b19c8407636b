package server

import (
	"encoding/json"
	"net/http"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// handleListRecords handles GET /v1/objects/{objectID}/records.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.store.ListRecords(r.Context(), r.PathValue("objectID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"records": records})
}

// handleCreateRecord handles POST /v1/objects/{objectID}/records. The body
// is a flat map of column name to value; values pass through the codec.
func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var values types.Record
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := s.store.CreateRecord(r.Context(), r.PathValue("objectID"), values)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleGetRecord handles GET /v1/objects/{objectID}/records/{recordID}.
func (s *Server) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.GetRecord(r.Context(),
		r.PathValue("objectID"), r.PathValue("recordID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleUpdateRecord handles PUT /v1/objects/{objectID}/records/{recordID}.
func (s *Server) handleUpdateRecord(w http.ResponseWriter, r *http.Request) {
	var values types.Record
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	rec, err := s.store.UpdateRecord(r.Context(),
		r.PathValue("objectID"), r.PathValue("recordID"), values)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleDeleteRecord handles DELETE /v1/objects/{objectID}/records/{recordID}.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.DeleteRecord(r.Context(),
		r.PathValue("objectID"), r.PathValue("recordID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
