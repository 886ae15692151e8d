// internal/app/features/articles/routes.go
package articles

import (
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /articles. Reads are open to every viewer;
// writes require an article manager.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{id}", h.ServeArticle)

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireManager)
		pr.Post("/", h.HandleCreate)
		pr.Post("/images", h.HandleUploadImage)
		pr.Put("/{id}", h.HandleUpdate)
		pr.Delete("/{id}", h.HandleDelete)
	})
	return r
}

// AdminRoutes is mounted under /admin/articles behind RequireAdmin.
func AdminRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAdminList)
	return r
}
