// internal/app/features/systemusers/handler.go
package systemusers

import (
	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	"go.uber.org/zap"
)

// Handler serves the admin user directory.
type Handler struct {
	Accounts *accounts.Manager
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(acct *accounts.Manager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Accounts: acct, ErrLog: errLog, Log: logger}
}
