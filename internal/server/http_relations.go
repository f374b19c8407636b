package server

import (
	"encoding/json"
	"net/http"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// createRelationRequest is the JSON body for POST /v1/relations.
type createRelationRequest struct {
	SourceRecordID string `json:"source_record_id"`
	TargetRecordID string `json:"target_record_id"`
	AttributeID    string `json:"attribute_id"`
}

// handleCreateRelation handles POST /v1/relations. Duplicate links are
// permitted and yield distinct relation ids.
func (s *Server) handleCreateRelation(w http.ResponseWriter, r *http.Request) {
	var req createRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.SourceRecordID == "" || req.TargetRecordID == "" || req.AttributeID == "" {
		writeError(w, http.StatusBadRequest,
			"source_record_id, target_record_id, and attribute_id are required")
		return
	}

	rel := &types.Relation{
		SourceRecordID: req.SourceRecordID,
		TargetRecordID: req.TargetRecordID,
		AttributeID:    req.AttributeID,
	}
	if err := s.store.Link(r.Context(), rel); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rel)
}

// handleListRelations handles GET /v1/relations/{sourceRecordID}/{attributeID}.
func (s *Server) handleListRelations(w http.ResponseWriter, r *http.Request) {
	relations, err := s.store.ListRelations(r.Context(),
		r.PathValue("sourceRecordID"), r.PathValue("attributeID"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"relations": relations})
}

// handleDeleteRelation handles DELETE /v1/relations/{id}. Deleting an
// unknown relation reports zero affected rows, not an error.
func (s *Server) handleDeleteRelation(w http.ResponseWriter, r *http.Request) {
	n, err := s.store.Unlink(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}
