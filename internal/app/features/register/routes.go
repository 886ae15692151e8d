// internal/app/features/register/routes.go
package register

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /auth/register. mw (rate limiting) wraps the POST.
func Routes(h *Handler, mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(mw...).Post("/", h.HandleRegister)
	return r
}
