package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillon/fontgrove/internal/apperr"
	"github.com/quillon/fontgrove/internal/fonts"
	"github.com/quillon/fontgrove/internal/fontservice"
)

// Handler holds the font API route handlers.
type Handler struct {
	svc *fontservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *fontservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ScanRequest is the request body for scanning a source directory.
type ScanRequest struct {
	Root string `json:"root"`
}

// InstallRequest is the request body for installing flagged fonts.
type InstallRequest struct {
	Copy bool `json:"copy"`
}

// RemoveRequest is the request body for removing families.
type RemoveRequest struct {
	Families []string `json:"families"`
}

// ListFamilies handles GET /fonts/families.
func (h *Handler) ListFamilies(w http.ResponseWriter, r *http.Request) {
	families := h.svc.Families(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{
		"families": families,
		"total":    len(families),
	})
}

// GetFamily handles GET /fonts/families/{name}.
func (h *Handler) GetFamily(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	detail, err := h.svc.FamilyDetail(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("family not found"))
			return
		}
		slog.Error("get family failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// SearchFamilies handles GET /fonts/search?q=.
func (h *Handler) SearchFamilies(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("q is required"))
		return
	}
	names, err := h.svc.SearchFamilies(r.Context(), q)
	if err != nil {
		slog.Error("search failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"families": names})
}

// Scan handles POST /fonts/scan.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	var req ScanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Root == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("root is required"))
		return
	}
	res, err := h.svc.Scan(r.Context(), req.Root)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, errorBody("root is not a directory"))
			return
		}
		slog.Error("scan failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Installable handles GET /fonts/installable.
func (h *Handler) Installable(w http.ResponseWriter, r *http.Request) {
	families, err := h.svc.Installable(r.Context())
	if err != nil {
		if errors.Is(err, apperr.ErrNoScan) {
			writeJSON(w, http.StatusConflict, errorBody(err.Error()))
			return
		}
		slog.Error("installable failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"installable": families})
}

// Install handles POST /fonts/install.
func (h *Handler) Install(w http.ResponseWriter, r *http.Request) {
	var req InstallRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
			return
		}
	}
	res, err := h.svc.Install(r.Context(), req.Copy)
	if err != nil {
		if errors.Is(err, apperr.ErrNoScan) {
			writeJSON(w, http.StatusConflict, errorBody(err.Error()))
			return
		}
		// Batch aborted at the first OS failure; report which file,
		// along with what did get installed before it.
		var perm *fonts.PermissionError
		if errors.As(err, &perm) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":     perm.Error(),
				"installed": res.Installed,
			})
			return
		}
		slog.Error("install failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Remove handles POST /fonts/remove.
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	var req RemoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Families) == 0 {
		writeJSON(w, http.StatusBadRequest, errorBody("families is required"))
		return
	}
	res, err := h.svc.Remove(r.Context(), req.Families)
	if err != nil {
		var refused *fonts.RemovalRefusedError
		if errors.As(err, &refused) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":   err.Error(),
				"files":   refused.Files,
				"removed": res.Removed,
			})
			return
		}
		var perm *fonts.PermissionError
		if errors.As(err, &perm) {
			writeJSON(w, http.StatusForbidden, map[string]any{
				"error":   perm.Error(),
				"removed": res.Removed,
			})
			return
		}
		slog.Error("remove failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
