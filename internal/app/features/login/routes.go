// internal/app/features/login/routes.go
package login

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes is mounted under /auth/login. mw (rate limiting) wraps the POST.
func Routes(h *Handler, mw ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.With(mw...).Post("/", h.HandleLogin)
	return r
}
