// internal/app/features/register/handler.go
package register

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	Accounts *accounts.Manager
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(acct *accounts.Manager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Accounts: acct, ErrLog: errLog, Log: logger}
}

type registerResponse struct {
	User            models.User `json:"user"`
	PendingApproval bool        `json:"pending_approval"`
	RequestID       string      `json:"request_id,omitempty"`
}

// HandleRegister handles POST /auth/register.
//
//	{ "name", "email", "password", "role" } → 201 { "user", "pending_approval", "request_id" }
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var in accounts.RegisterInput
	if err := apierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "register: bad body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register")
	defer cancel()

	res, err := h.Accounts.Register(ctx, auth.FromRequest(r), in)
	if err != nil {
		h.ErrLog.Write(w, r, "register", err)
		return
	}

	out := registerResponse{User: res.User, PendingApproval: res.Request != nil}
	if res.Request != nil {
		out.RequestID = res.Request.ID.Hex()
	}
	apierrors.WriteJSON(w, http.StatusCreated, out)
}
