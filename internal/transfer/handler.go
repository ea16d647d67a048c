// Package transfer serves drawing documents as downloadable JSON files and
// imports them back from multipart uploads.
package transfer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/polydraw/polydraw/backend-go/internal/auth"
	"github.com/polydraw/polydraw/backend-go/internal/document"
	"github.com/polydraw/polydraw/backend-go/internal/drawing"
)

// Documents loads and stores drawing documents on behalf of a user.
type Documents interface {
	LatestDocument(ctx context.Context, drawingID, userID string) (*document.Document, error)
	SaveDocument(ctx context.Context, drawingID, userID string, doc *document.Document) (int, error)
}

// ImportResponse is returned from the import endpoint.
type ImportResponse struct {
	Version int `json:"version"`
	Shapes  int `json:"shapes"`
}

// Handler serves download and import endpoints.
type Handler struct {
	docs     Documents
	maxBytes int64
}

// NewHandler creates a handler that accepts uploads of at most maxBytes.
func NewHandler(docs Documents, maxBytes int64) *Handler {
	return &Handler{docs: docs, maxBytes: maxBytes}
}

// Download handles GET /api/drawings/{drawingId}/download.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	doc, err := h.docs.LatestDocument(r.Context(), drawingID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		slog.Error("marshal document", "error", err, "drawing", drawingID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.json"`, Filename(doc.Name)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import handles POST /api/drawings/{drawingId}/import (multipart form with
// a "model" file). The upload replaces the drawing's shapes as a new
// snapshot.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		http.Error(w, fmt.Sprintf("upload too large (max %d bytes)", h.maxBytes), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("model")
	if err != nil {
		http.Error(w, "missing model field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "read upload: "+err.Error(), http.StatusBadRequest)
		return
	}

	doc, err := document.Parse(data)
	if err != nil {
		http.Error(w, "invalid drawing: "+err.Error(), http.StatusBadRequest)
		return
	}

	version, err := h.docs.SaveDocument(r.Context(), drawingID, userID, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	slog.Info("drawing imported", "drawing", drawingID, "version", version, "shapes", len(doc.Shapes))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ImportResponse{Version: version, Shapes: len(doc.Shapes)})
}

// Filename reduces name to letters, digits, '-' and '_'.
func Filename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "drawing"
	}
	return strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, drawing.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, drawing.ErrForbidden), errors.Is(err, drawing.ErrNotMember):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, document.ErrInvalidShape), errors.Is(err, document.ErrUnknownShapeType):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("transfer error", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
