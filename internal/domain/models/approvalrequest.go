// internal/domain/models/approvalrequest.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Approval request statuses. Approved and rejected are terminal.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// ApprovalRequest records a self-registered volunteer or admin waiting for an
// admin decision. UserID references users._id; it does not own the user.
type ApprovalRequest struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID  `bson:"user_id" json:"user_id"`
	RequestedRole string              `bson:"role" json:"role"`
	Status        string              `bson:"status" json:"status"`
	DecidedBy     *primitive.ObjectID `bson:"decided_by,omitempty" json:"decided_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// IsTerminal reports whether the request has already been decided.
func (a ApprovalRequest) IsTerminal() bool {
	return a.Status == RequestApproved || a.Status == RequestRejected
}
