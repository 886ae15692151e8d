// internal/app/features/login/handler.go
package login

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

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User models.User `json:"user"`
}

// HandleLogin handles POST /auth/login.
//
//	{ "email": "...", "password": "..." } → 200 { "user": {...} } | 401
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	if err := apierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "login: bad body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Accounts.Login(ctx, auth.FromRequest(r), in.Email, in.Password)
	if err != nil {
		h.ErrLog.Write(w, r, "login", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, loginResponse{User: u})
}
