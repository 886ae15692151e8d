// internal/app/features/profile/handler.go
package profile

import (
	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/profiles"
	"go.uber.org/zap"
)

// Handler owns all user profile handlers.
type Handler struct {
	Profiles *profiles.Service
	Log      *zap.Logger
	ErrLog   *apierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the profile service and logger.
func NewHandler(svc *profiles.Service, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Profiles: svc,
		Log:      logger,
		ErrLog:   errLog,
	}
}
