// internal/app/features/articles/handler.go
package articles

import (
	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	articlesvc "github.com/dalemusser/ideahub/internal/app/services/articles"
	"go.uber.org/zap"
)

// Handler serves the article endpoints.
type Handler struct {
	Articles *articlesvc.Manager
	ErrLog   *apierrors.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(m *articlesvc.Manager, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{Articles: m, ErrLog: errLog, Log: logger}
}
