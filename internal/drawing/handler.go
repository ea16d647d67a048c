package drawing

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/polydraw/polydraw/backend-go/internal/auth"
	"github.com/polydraw/polydraw/backend-go/internal/document"
)

type Handler struct {
	service *Service
	// maxDocumentBytes caps PUT document bodies.
	maxDocumentBytes int64
}

func NewHandler(service *Service, maxDocumentBytes int64) *Handler {
	return &Handler{service: service, maxDocumentBytes: maxDocumentBytes}
}

type createRequest struct {
	Name   string `json:"name"`
	Sample bool   `json:"sample"`
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type saveResponse struct {
	Version int `json:"version"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	d, err := h.service.Create(r.Context(), name, userID, req.Sample)
	if err != nil {
		slog.Error("create drawing failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, d)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	d, err := h.service.Get(r.Context(), drawingID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, d)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	drawings, err := h.service.List(r.Context(), userID)
	if err != nil {
		slog.Error("list drawings failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, drawings)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	if err := h.service.Delete(r.Context(), drawingID, userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	var req inviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if strings.TrimSpace(req.Email) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email is required"})
		return
	}

	if err := h.service.InviteByEmail(r.Context(), drawingID, userID, req.Email, req.Role); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "invited"})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	members, err := h.service.ListMembers(r.Context(), drawingID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	vars := mux.Vars(r)

	if err := h.service.RemoveMember(r.Context(), vars["drawingId"], userID, vars["userId"]); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	doc, err := h.service.LatestDocument(r.Context(), drawingID, userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

func (h *Handler) PutDocument(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	drawingID := mux.Vars(r)["drawingId"]

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxDocumentBytes))
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]string{"error": "document too large"})
		return
	}

	doc, err := document.Parse(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	version, err := h.service.SaveDocument(r.Context(), drawingID, userID, doc)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, saveResponse{Version: version})
}

func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, ErrForbidden):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "forbidden"})
	case errors.Is(err, ErrNotMember):
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "not a drawing member"})
	case errors.Is(err, ErrInviteeNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "user not found"})
	case errors.Is(err, ErrCannotRemoveOwner):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "cannot remove drawing owner"})
	case errors.Is(err, ErrInvalidRole):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid role"})
	case errors.Is(err, document.ErrInvalidShape), errors.Is(err, document.ErrUnknownShapeType):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		slog.Error("service error", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
