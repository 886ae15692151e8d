// internal/app/features/approvals/handler.go
package approvals

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the approval-request queue for admins.
type Handler struct {
	Accounts *accounts.Manager
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(acct *accounts.Manager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Accounts: acct, ErrLog: errLog, Log: logger}
}

// ServeList handles GET /admin/requests?status=pending|approved|rejected.
//
//	→ 200 { "requests": [...] }
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list approval requests")
	defer cancel()

	reqs, err := h.Accounts.ListApprovalRequests(ctx, auth.FromRequest(r).Viewer(), query.Get(r, "status"))
	if err != nil {
		h.ErrLog.Write(w, r, "list approval requests", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}

// HandleApprove handles POST /admin/requests/{id}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, accounts.DecisionApprove)
}

// HandleReject handles POST /admin/requests/{id}/reject.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, accounts.DecisionReject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision string) {
	op := decision + " approval request"
	raw := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		h.ErrLog.Write(w, r, op, apperr.NotFoundError{Entity: "approval request", ID: raw})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, op)
	defer cancel()

	req, err := h.Accounts.DecideApprovalRequest(ctx, auth.FromRequest(r).Viewer(), id, decision)
	if err != nil {
		h.ErrLog.Write(w, r, op, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{"request": req})
}
