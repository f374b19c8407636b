package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/objects", s.handleListObjects)
	mux.HandleFunc("POST /v1/objects", s.handleDefineObject)
	mux.HandleFunc("DELETE /v1/objects/{objectID}", s.handleDeleteObject)
	mux.HandleFunc("GET /v1/objects/{objectID}/attributes", s.handleListAttributes)
	mux.HandleFunc("POST /v1/objects/{objectID}/attributes", s.handleDefineAttribute)
	mux.HandleFunc("PUT /v1/attributes/{id}", s.handleUpdateAttribute)
	mux.HandleFunc("DELETE /v1/attributes/{id}", s.handleDeleteAttribute)
	mux.HandleFunc("POST /v1/relations", s.handleCreateRelation)
	mux.HandleFunc("GET /v1/relations/{sourceRecordID}/{attributeID}", s.handleListRelations)
	mux.HandleFunc("DELETE /v1/relations/{id}", s.handleDeleteRelation)
	mux.HandleFunc("GET /v1/objects/{objectID}/records", s.handleListRecords)
	mux.HandleFunc("POST /v1/objects/{objectID}/records", s.handleCreateRecord)
	mux.HandleFunc("GET /v1/objects/{objectID}/records/{recordID}", s.handleGetRecord)
	mux.HandleFunc("PUT /v1/objects/{objectID}/records/{recordID}", s.handleUpdateRecord)
	mux.HandleFunc("DELETE /v1/objects/{objectID}/records/{recordID}", s.handleDeleteRecord)
	mux.HandleFunc("GET /v1/health", s.handleHealth)
	return s.logRequests(mux)
}

// handleHealth handles GET /v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests logs every request with method, path, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			"method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

// errorStatus maps store errors to HTTP status codes. Validation failures
// are 400, missing entities 404, id and slug conflicts 409; anything unrecognized
// is a 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, types.ErrInvalidIdentifier),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrNoFields),
		errors.Is(err, types.ErrSystemObject),
		errors.Is(err, types.ErrUnknownAttribute):
		return http.StatusBadRequest
	case errors.Is(err, types.ErrObjectNotFound),
		errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDuplicateSlug),
		errors.Is(err, types.ErrDuplicateID):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error response for a store failure, logging server-side
// faults.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "error", err)
	}
	writeError(w, status, err.Error())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
