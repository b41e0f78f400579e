package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nodewire/nodewire/pkg/document"
	"github.com/nodewire/nodewire/pkg/store"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return New(store.NewMemoryStore(0), nil).Router()
}

func validBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := document.Write(document.Starter(), &buf); err != nil {
		t.Fatal(err)
	}
	return &buf
}

func do(t *testing.T, h http.Handler, method, path string, body *bytes.Buffer) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, body)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := testRouter(t)
	if rec := do(t, h, http.MethodGet, "/health/live", nil); rec.Code != http.StatusOK {
		t.Errorf("live = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/health/ready", nil); rec.Code != http.StatusOK {
		t.Errorf("ready = %d", rec.Code)
	}
}

func TestValidate(t *testing.T) {
	h := testRouter(t)

	rec := do(t, h, http.MethodPost, "/v1/validate", validBody(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp struct {
		Valid bool `json:"valid"`
		Nodes int  `json:"nodes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Valid || resp.Nodes != 2 {
		t.Errorf("resp = %+v", resp)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/validate", bytes.NewBufferString("{not json"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "MALFORMED_DOCUMENT") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestValidateFutureVersion(t *testing.T) {
	h := testRouter(t)
	body := bytes.NewBufferString(`{"format_version": 99, "nodes": [], "links": []}`)
	rec := do(t, h, http.MethodPost, "/v1/validate", body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body)
	}
}

func TestNormalize(t *testing.T) {
	h := testRouter(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		want       string
	}{
		{"alias", `{"scope": "math_operation", "value": "cross product"}`, http.StatusOK, "CROSS_PRODUCT"},
		{"canonical passes through", `{"scope": "blend_mode", "value": "MIX"}`, http.StatusOK, "MIX"},
		{"miss", `{"scope": "math_operation", "value": "frobnicate"}`, http.StatusNotFound, "ALIAS_NOT_FOUND"},
		{"bad scope", `{"scope": "seasoning", "value": "ADD"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/v1/normalize", bytes.NewBufferString(tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Errorf("body = %s, want %q", rec.Body, tt.want)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/describe", validBody(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "--- NODES ---") {
		t.Errorf("body = %s", rec.Body)
	}
	if got := rec.Header().Get("X-Rebuild-Warnings"); got != "0" {
		t.Errorf("warnings header = %q", got)
	}
}

func TestImportReport(t *testing.T) {
	h := testRouter(t)
	body := bytes.NewBufferString(`{
		"format_version": 1,
		"nodes": [{"id": "n1", "type": "Imaginary", "position": [0, 0]}],
		"links": []
	}`)
	rec := do(t, h, http.MethodPost, "/v1/import", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Clean   bool   `json:"clean"`
		Summary string `json:"summary"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Clean {
		t.Error("unknown type reported clean")
	}
	if !strings.Contains(resp.Summary, "UNKNOWN_NODE_TYPE") {
		t.Errorf("summary = %q", resp.Summary)
	}
}

func TestRenderDOT(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/render", validBody(t))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "digraph G {") {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodPost, "/v1/render?format=gif", validBody(t))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestDocumentCRUD(t *testing.T) {
	h := testRouter(t)

	if rec := do(t, h, http.MethodPut, "/v1/documents/scene", validBody(t)); rec.Code != http.StatusCreated {
		t.Fatalf("put = %d, body %s", rec.Code, rec.Body)
	}

	rec := do(t, h, http.MethodGet, "/v1/documents/scene", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get = %d", rec.Code)
	}
	doc, err := document.Read(rec.Body)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(doc.Nodes) != 2 {
		t.Errorf("nodes = %d", len(doc.Nodes))
	}

	rec = do(t, h, http.MethodGet, "/v1/documents/", nil)
	if !strings.Contains(rec.Body.String(), `"scene"`) {
		t.Errorf("list = %s", rec.Body)
	}

	if rec := do(t, h, http.MethodDelete, "/v1/documents/scene", nil); rec.Code != http.StatusNoContent {
		t.Errorf("delete = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/v1/documents/scene", nil); rec.Code != http.StatusNotFound {
		t.Errorf("get after delete = %d", rec.Code)
	}
}

func TestGetDocumentMissing(t *testing.T) {
	h := testRouter(t)
	rec := do(t, h, http.MethodGet, "/v1/documents/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d", rec.Code)
	}
}
