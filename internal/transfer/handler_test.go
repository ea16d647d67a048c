package transfer

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/polydraw/polydraw/backend-go/internal/auth"
	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/drawing"
	"github.com/polydraw/polydraw/backend-go/internal/drawing/drawingtest"
)

const owner = "user_owner"

func setup(t *testing.T, maxBytes int64) (*mux.Router, *drawing.Service, string) {
	t.Helper()
	svc := drawing.NewService(drawingtest.NewStore())
	d, err := svc.Create(context.Background(), "My Sketch #1", owner, true)
	require.NoError(t, err)

	h := NewHandler(svc, maxBytes)
	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithUserID(r.Context(), r.Header.Get("X-User"))))
		})
	})
	r.HandleFunc("/api/drawings/{drawingId}/download", h.Download).Methods("GET")
	r.HandleFunc("/api/drawings/{drawingId}/import", h.Import).Methods("POST")
	return r, svc, d.ID
}

func uploadRequest(t *testing.T, path, field string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "drawing.json")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("X-User", owner)
	return req
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "My-Sketch--1", Filename("My Sketch #1"))
	assert.Equal(t, "drawing", Filename("   "))
	assert.Equal(t, "a_b-c", Filename("a_b-c"))
}

func TestDownload(t *testing.T) {
	r, _, id := setup(t, 1<<20)

	req := httptest.NewRequest("GET", "/api/drawings/"+id+"/download", nil)
	req.Header.Set("X-User", owner)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="My-Sketch--1.json"`, rec.Header().Get("Content-Disposition"))

	doc, err := document.Parse(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)
	assert.Len(t, doc.Shapes, 4)

	req = httptest.NewRequest("GET", "/api/drawings/"+id+"/download", nil)
	req.Header.Set("X-User", "user_stranger")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestImportRoundTrip(t *testing.T) {
	r, svc, id := setup(t, 1<<20)

	doc := document.NewSampleDocument("drw_elsewhere")
	doc.Shapes = doc.Shapes[:2]
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "/api/drawings/"+id+"/import", "model", data))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ImportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, ImportResponse{Version: 2, Shapes: 2}, resp)

	latest, err := svc.LatestDocument(context.Background(), id, owner)
	require.NoError(t, err)
	assert.Equal(t, id, latest.ID)
	assert.Len(t, latest.Shapes, 2)
}

func TestImportRejects(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		content  string
		maxBytes int64
	}{
		{"wrong field", "file", `{"shapes":[]}`, 1 << 20},
		{"not json", "model", `hello`, 1 << 20},
		{"bad shape", "model", `{"shapes":[{"type":"polygon","colors":[],"data":{"points":[]}}]}`, 1 << 20},
		{"too large", "model", `{"shapes":[]}`, 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, svc, id := setup(t, tt.maxBytes)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, uploadRequest(t, "/api/drawings/"+id+"/import", tt.field, []byte(tt.content)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			latest, err := svc.LatestDocument(context.Background(), id, owner)
			require.NoError(t, err)
			assert.Len(t, latest.Shapes, 4)
		})
	}
}
