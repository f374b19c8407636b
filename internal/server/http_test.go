package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/rolodex/internal/sqlite"
	"github.com/mesh-intelligence/rolodex/pkg/types"
)

// newTestServer starts an httptest server over a real SQLite backend.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	backend := sqlite.NewBackend()
	require.NoError(t, backend.Attach(types.Config{DataDir: t.TempDir()}))
	t.Cleanup(func() { _ = backend.Detach() })

	ts := httptest.NewServer(New(backend, nil).Handler())
	t.Cleanup(ts.Close)
	return ts
}

// do issues a request with an optional JSON body and decodes the JSON
// response into a generic map.
func do(t *testing.T, ts *httptest.Server, method, path string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	status, body := do(t, ts, http.MethodGet, "/v1/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])
}

func TestObjectEndpoints(t *testing.T) {
	ts := newTestServer(t)

	status, body := do(t, ts, http.MethodGet, "/v1/objects", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["objects"], 4)

	status, created := do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"name": "Projects", "slug": "projects", "icon": "folder"})
	require.Equal(t, http.StatusCreated, status)
	objectID := created["id"].(string)
	assert.Contains(t, objectID, "obj_")
	assert.Equal(t, false, created["is_system"])

	status, body = do(t, ts, http.MethodGet, "/v1/objects", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["objects"], 5)

	// Conflicting and invalid slugs.
	status, _ = do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"name": "Other", "slug": "projects"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"name": "Bad", "slug": "My Projects"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"slug": "unnamed"})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"id": "obj_companies", "name": "Shadow", "slug": "shadow"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"name": "Shadow", "slug": "attributes"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = do(t, ts, http.MethodDelete, "/v1/objects/"+objectID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["deleted"])

	status, _ = do(t, ts, http.MethodDelete, "/v1/objects/obj_companies", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, ts, http.MethodDelete, "/v1/objects/obj_missing", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAttributeEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, created := do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"name": "Projects", "slug": "projects"})
	objectID := created["id"].(string)

	status, attr := do(t, ts, http.MethodPost, "/v1/objects/"+objectID+"/attributes",
		map[string]any{
			"name": "Priority",
			"type": "select",
			"config": map[string]any{"options": []map[string]string{
				{"id": "low", "label": "Low"},
				{"id": "high", "label": "High", "color": "red"},
			}},
		})
	require.Equal(t, http.StatusCreated, status)
	attrID := attr["id"].(string)
	assert.Equal(t, float64(0), attr["position"])
	assert.Nil(t, attr["warning"])

	status, listed := do(t, ts, http.MethodGet, "/v1/objects/"+objectID+"/attributes", nil)
	require.Equal(t, http.StatusOK, status)
	attrs := listed["attributes"].([]any)
	require.Len(t, attrs, 1)
	first := attrs[0].(map[string]any)
	assert.Equal(t, "Priority", first["name"])
	options := first["config"].(map[string]any)["options"].([]any)
	assert.Len(t, options, 2)

	status, _ = do(t, ts, http.MethodPut, "/v1/attributes/"+attrID,
		map[string]string{"name": "Urgency"})
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, ts, http.MethodPut, "/v1/attributes/"+attrID, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, status)
	status, _ = do(t, ts, http.MethodPut, "/v1/attributes/attr_missing",
		map[string]string{"name": "X"})
	assert.Equal(t, http.StatusNotFound, status)

	status, body := do(t, ts, http.MethodDelete, "/v1/attributes/"+attrID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["deleted"])

	// System attributes report zero deletions.
	status, body = do(t, ts, http.MethodDelete, "/v1/attributes/deals_stage", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["deleted"])

	status, _ = do(t, ts, http.MethodGet, "/v1/objects/obj_missing/attributes", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRecordEndpoints(t *testing.T) {
	ts := newTestServer(t)

	_, created := do(t, ts, http.MethodPost, "/v1/objects",
		map[string]string{"name": "Projects", "slug": "projects"})
	objectID := created["id"].(string)
	_, attr := do(t, ts, http.MethodPost, "/v1/objects/"+objectID+"/attributes",
		map[string]string{"name": "Status"})
	statusCol := attr["id"].(string)
	_, attr = do(t, ts, http.MethodPost, "/v1/objects/"+objectID+"/attributes",
		map[string]string{"name": "Done", "type": "checkbox"})
	doneCol := attr["id"].(string)

	status, rec := do(t, ts, http.MethodPost, "/v1/objects/"+objectID+"/records",
		map[string]any{statusCol: "active", doneCol: true})
	require.Equal(t, http.StatusCreated, status)
	recordID := rec["id"].(string)
	assert.Equal(t, "active", rec[statusCol])
	assert.Equal(t, true, rec[doneCol])

	status, got := do(t, ts, http.MethodGet,
		fmt.Sprintf("/v1/objects/%s/records/%s", objectID, recordID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, recordID, got["id"])

	status, updated := do(t, ts, http.MethodPut,
		fmt.Sprintf("/v1/objects/%s/records/%s", objectID, recordID),
		map[string]any{doneCol: false})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, updated[doneCol])

	status, _ = do(t, ts, http.MethodPost, "/v1/objects/"+objectID+"/records",
		map[string]any{"bogus_column": 1})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, ts, http.MethodGet, "/v1/objects/"+objectID+"/records", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["records"], 1)

	status, body = do(t, ts, http.MethodDelete,
		fmt.Sprintf("/v1/objects/%s/records/%s", objectID, recordID), nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["deleted"])

	status, _ = do(t, ts, http.MethodGet,
		fmt.Sprintf("/v1/objects/%s/records/%s", objectID, recordID), nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestRelationEndpoints(t *testing.T) {
	ts := newTestServer(t)

	link := map[string]string{
		"source_record_id": "rec_a",
		"target_record_id": "rec_b",
		"attribute_id":     "attr_members",
	}
	status, rel := do(t, ts, http.MethodPost, "/v1/relations", link)
	require.Equal(t, http.StatusCreated, status)
	relID := rel["id"].(string)
	assert.Contains(t, relID, "rel_")

	// Duplicates are allowed and get their own id.
	status, dup := do(t, ts, http.MethodPost, "/v1/relations", link)
	require.Equal(t, http.StatusCreated, status)
	assert.NotEqual(t, relID, dup["id"])

	status, _ = do(t, ts, http.MethodPost, "/v1/relations",
		map[string]string{"source_record_id": "rec_a"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, body := do(t, ts, http.MethodGet, "/v1/relations/rec_a/attr_members", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["relations"], 2)

	status, body = do(t, ts, http.MethodDelete, "/v1/relations/"+relID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(1), body["deleted"])
	status, body = do(t, ts, http.MethodDelete, "/v1/relations/rel_missing", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), body["deleted"])
}

func TestInvalidJSONBodies(t *testing.T) {
	ts := newTestServer(t)
	for _, tt := range []struct{ method, path string }{
		{http.MethodPost, "/v1/objects"},
		{http.MethodPost, "/v1/objects/obj_companies/attributes"},
		{http.MethodPut, "/v1/attributes/deals_stage"},
		{http.MethodPost, "/v1/relations"},
		{http.MethodPost, "/v1/objects/obj_companies/records"},
		{http.MethodPut, "/v1/objects/obj_companies/records/rec_x"},
	} {
		req, err := http.NewRequest(tt.method, ts.URL+tt.path, bytes.NewBufferString("{broken"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "%s %s", tt.method, tt.path)
	}
}
