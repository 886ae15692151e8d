// internal/app/features/systemusers/list.go
package systemusers

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
)

type listResponse struct {
	Users []accounts.UserView `json:"users"`
	Total int                 `json:"total"`
}

// ServeList handles GET /admin/users. Every user is returned, newest
// first, with their profile when one exists.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "list users")
	defer cancel()

	users, err := h.Accounts.ListUsers(ctx, auth.FromRequest(r).Viewer())
	if err != nil {
		h.ErrLog.Write(w, r, "list users", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, listResponse{Users: users, Total: len(users)})
}
