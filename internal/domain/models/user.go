// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stored role values. The capability view of a role is authz.Account.
const (
	RoleVisitor   = "visitor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

// IsValidRole reports whether r is one of the stored role values.
func IsValidRole(r string) bool {
	switch r {
	case RoleVisitor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

// User is a registered account.
//
// Visitors are approved at creation. Volunteers and admins who registered
// themselves stay unapproved until an admin decides their ApprovalRequest.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName     string             `bson:"full_name" json:"name"`
	FullNameCI   string             `bson:"full_name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`    // normalized, unique
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // visitor | volunteer | admin
	IsApproved   bool               `bson:"is_approved" json:"is_approved"`
	AvatarURL    string             `bson:"avatar_url,omitempty" json:"avatar_url,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
