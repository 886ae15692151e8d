// internal/app/features/systemusers/routes.go
package systemusers

import "github.com/go-chi/chi/v5"

// Routes is mounted under /admin/users behind RequireAdmin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}
