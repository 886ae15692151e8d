// internal/app/system/authz/authz.go
package authz

import (
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Account is the capability view of a user's role. It is a closed set:
// Visitor, Volunteer and Admin are the only implementations, so an admin that
// is not approved cannot be expressed.
type Account interface {
	// Role returns the stored role value this account corresponds to.
	Role() string
	sealed()
}

// Visitor reads published articles only.
type Visitor struct{}

// Volunteer writes and manages their own articles once approved.
type Volunteer struct {
	Approved bool
}

// Admin manages every article and decides approval requests.
type Admin struct{}

func (Visitor) Role() string   { return models.RoleVisitor }
func (Volunteer) Role() string { return models.RoleVolunteer }
func (Admin) Role() string     { return models.RoleAdmin }

func (Visitor) sealed()   {}
func (Volunteer) sealed() {}
func (Admin) sealed()     {}

// AccountOf derives the capability view from a stored user.
//
// Unknown roles fail closed to Visitor. An admin applicant that has not been
// approved yet collapses to Volunteer{Approved: false}: the pending state has
// no capabilities beyond a visitor's, and the role asked for is carried by the
// approval request.
func AccountOf(u models.User) Account {
	switch u.Role {
	case models.RoleAdmin:
		if u.IsApproved {
			return Admin{}
		}
		return Volunteer{Approved: false}
	case models.RoleVolunteer:
		return Volunteer{Approved: u.IsApproved}
	default:
		return Visitor{}
	}
}

// Principal is the authenticated actor passed into manager operations.
type Principal struct {
	UserID  primitive.ObjectID
	Name    string
	Email   string
	Account Account
}

// PrincipalOf builds a Principal from a stored user.
func PrincipalOf(u models.User) Principal {
	return Principal{
		UserID:  u.ID,
		Name:    u.FullName,
		Email:   u.Email,
		Account: AccountOf(u),
	}
}

// CanManageArticles reports whether the account may create articles and see
// drafts. Unapproved volunteers may not.
func CanManageArticles(a Account) bool {
	switch v := a.(type) {
	case Admin:
		return true
	case Volunteer:
		return v.Approved
	case Visitor:
		return false
	default:
		return false
	}
}

// CanModerate reports whether the account may decide approval requests and
// act on any article.
func CanModerate(a Account) bool {
	switch a.(type) {
	case Admin:
		return true
	default:
		return false
	}
}

// IsPending reports whether the account is waiting for an approval decision.
func IsPending(a Account) bool {
	v, ok := a.(Volunteer)
	return ok && !v.Approved
}

// CanEditArticle reports whether p may update or delete an article written by
// authorID: any admin, or the approved volunteer who wrote it.
func CanEditArticle(p Principal, authorID primitive.ObjectID) bool {
	switch v := p.Account.(type) {
	case Admin:
		return true
	case Volunteer:
		return v.Approved && p.UserID == authorID
	default:
		return false
	}
}
