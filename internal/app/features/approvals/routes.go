// internal/app/features/approvals/routes.go
package approvals

import "github.com/go-chi/chi/v5"

// Routes is mounted under /admin/requests behind RequireAdmin.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/{id}/approve", h.HandleApprove)
	r.Post("/{id}/reject", h.HandleReject)
	return r
}
