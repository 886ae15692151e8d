// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/domain/models"
)

// Handler serves the signed-in user's identity and capabilities.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

type meResponse struct {
	User              models.User `json:"user"`
	CanManageArticles bool        `json:"can_manage_articles"`
	CanModerate       bool        `json:"can_moderate"`
	PendingApproval   bool        `json:"pending_approval"`
}

// ServeMe handles GET /auth/me. The route is gated by RequireSignedIn; an
// unauthenticated call that reaches it anyway gets 401.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.FromRequest(r).User()
	if !ok {
		apierrors.WriteJSON(w, http.StatusUnauthorized, apierrors.Body{Error: "sign in required"})
		return
	}
	acct := authz.AccountOf(u)
	apierrors.WriteJSON(w, http.StatusOK, meResponse{
		User:              u,
		CanManageArticles: authz.CanManageArticles(acct),
		CanModerate:       authz.CanModerate(acct),
		PendingApproval:   authz.IsPending(acct),
	})
}
