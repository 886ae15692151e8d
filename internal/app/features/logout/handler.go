// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"go.uber.org/zap"
)

type Handler struct {
	Accounts *accounts.Manager
	Log      *zap.Logger
}

func NewHandler(acct *accounts.Manager, logger *zap.Logger) *Handler {
	return &Handler{Accounts: acct, Log: logger}
}

// HandleLogout handles POST /auth/logout. It always answers 204, signed in
// or not.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	sess := auth.FromRequest(r)
	var userID string
	if u, ok := sess.User(); ok {
		userID = u.ID.Hex()
	}
	h.Accounts.Logout(r.Context(), sess, userID)
	w.WriteHeader(http.StatusNoContent)
}
