// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/store/audit"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// EventSource reads recorded audit events. *audit.Store satisfies it.
type EventSource interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

// UserLookup resolves actor and target names.
type UserLookup interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

type Handler struct {
	Events EventSource
	Users  UserLookup
	Log    *zap.Logger
	ErrLog *apierrors.ErrorLogger
}

// NewHandler constructs an Audit Log feature handler.
func NewHandler(events EventSource, users UserLookup, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Users:  users,
		Log:    logger,
		ErrLog: errLog,
	}
}
