package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillon/fontgrove/internal/fontservice"
	"github.com/quillon/fontgrove/internal/vcs"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth
// group; vcsNotify (may be nil) receives document tracking events.
func NewRouter(svc *fontservice.Service, tracker *vcs.Tracker, authEnabled bool, token string, sseHandler http.Handler, vcsNotify func(kind, id string)) chi.Router {
	h := NewHandler(svc)
	vh := NewVCSHandler(tracker, vcsNotify)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Font registries.
	r.Get("/fonts/families", h.ListFamilies)
	r.Get("/fonts/families/{name}", h.GetFamily)
	r.Get("/fonts/search", h.SearchFamilies)
	r.Post("/fonts/scan", h.Scan)
	r.Get("/fonts/installable", h.Installable)
	r.Post("/fonts/install", h.Install)
	r.Post("/fonts/remove", h.Remove)

	// Document/VCS tracking.
	r.Get("/vcs/documents", vh.ListDocuments)
	r.Post("/vcs/documents", vh.OpenDocument)
	r.Put("/vcs/documents/{id}", vh.ChangeDocumentURL)
	r.Delete("/vcs/documents/{id}", vh.CloseDocument)

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
