package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillon/fontgrove/internal/vcs"
)

// VCSHandler holds the document tracking route handlers. notify, when
// non-nil, receives "tracked"/"untracked" events with the document id.
type VCSHandler struct {
	tracker *vcs.Tracker
	notify  func(kind, id string)
}

// NewVCSHandler creates a new VCSHandler. notify may be nil.
func NewVCSHandler(tracker *vcs.Tracker, notify func(kind, id string)) *VCSHandler {
	return &VCSHandler{tracker: tracker, notify: notify}
}

func (h *VCSHandler) notifyKind(kind, id string) {
	if h.notify != nil {
		h.notify(kind, id)
	}
}

// DocumentRequest carries a document lifecycle event.
type DocumentRequest struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	// OldPath is set for URL-change events only.
	OldPath string `json:"old_path,omitempty"`
}

// resolutionBody renders a Resolution with its outcome tag, keeping
// "detected but unsupported" visibly distinct from "not under version
// control".
func resolutionBody(res vcs.Resolution) map[string]any {
	out := map[string]any{}
	switch res.Outcome {
	case vcs.Resolved:
		out["outcome"] = "resolved"
		out["vcs"] = res.VCS
		out["root"] = res.Root
		out["rel_path"] = res.RelPath
	case vcs.DetectedUnsupported:
		out["outcome"] = "detected_unsupported"
		out["vcs"] = res.VCS
	default:
		out["outcome"] = "not_applicable"
	}
	return out
}

// ListDocuments handles GET /vcs/documents.
func (h *VCSHandler) ListDocuments(w http.ResponseWriter, _ *http.Request) {
	docs := h.tracker.Tracked()
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     len(docs),
	})
}

// OpenDocument handles POST /vcs/documents (document-open event).
func (h *VCSHandler) OpenDocument(w http.ResponseWriter, r *http.Request) {
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("id and path are required"))
		return
	}
	res := h.tracker.DocumentOpened(req.ID, req.Path)
	if res.Outcome == vcs.Resolved {
		h.notifyKind("tracked", req.ID)
	}
	writeJSON(w, http.StatusOK, resolutionBody(res))
}

// ChangeDocumentURL handles PUT /vcs/documents/{id} (URL-changed event).
func (h *VCSHandler) ChangeDocumentURL(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	res := h.tracker.DocumentURLChanged(id, req.OldPath, req.Path)
	if res.Outcome == vcs.Resolved {
		h.notifyKind("tracked", id)
	} else if req.OldPath != "" {
		h.notifyKind("untracked", id)
	}
	writeJSON(w, http.StatusOK, resolutionBody(res))
}

// CloseDocument handles DELETE /vcs/documents/{id} (document-close
// event). The document's last path travels in the body so the old
// resolution can be re-derived.
func (h *VCSHandler) CloseDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	res := h.tracker.DocumentClosed(id, req.Path)
	if res.Outcome == vcs.Resolved {
		h.notifyKind("untracked", id)
	}
	writeJSON(w, http.StatusOK, resolutionBody(res))
}
