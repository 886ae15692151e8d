package authz_test

import (
	"testing"

	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAccountOf(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		approved bool
		want     authz.Account
	}{
		{"visitor", models.RoleVisitor, true, authz.Visitor{}},
		{"approved volunteer", models.RoleVolunteer, true, authz.Volunteer{Approved: true}},
		{"pending volunteer", models.RoleVolunteer, false, authz.Volunteer{Approved: false}},
		{"approved admin", models.RoleAdmin, true, authz.Admin{}},
		{"pending admin collapses", models.RoleAdmin, false, authz.Volunteer{Approved: false}},
		{"unknown role fails closed", "superuser", true, authz.Visitor{}},
		{"empty role fails closed", "", true, authz.Visitor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authz.AccountOf(models.User{Role: tt.role, IsApproved: tt.approved})
			if got != tt.want {
				t.Errorf("AccountOf(%q, %v) = %#v, want %#v", tt.role, tt.approved, got, tt.want)
			}
		})
	}
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		name     string
		account  authz.Account
		manage   bool
		moderate bool
		pending  bool
	}{
		{"visitor", authz.Visitor{}, false, false, false},
		{"pending volunteer", authz.Volunteer{}, false, false, true},
		{"volunteer", authz.Volunteer{Approved: true}, true, false, false},
		{"admin", authz.Admin{}, true, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authz.CanManageArticles(tt.account); got != tt.manage {
				t.Errorf("CanManageArticles = %v, want %v", got, tt.manage)
			}
			if got := authz.CanModerate(tt.account); got != tt.moderate {
				t.Errorf("CanModerate = %v, want %v", got, tt.moderate)
			}
			if got := authz.IsPending(tt.account); got != tt.pending {
				t.Errorf("IsPending = %v, want %v", got, tt.pending)
			}
		})
	}
}

func TestCanEditArticle(t *testing.T) {
	author := primitive.NewObjectID()
	other := primitive.NewObjectID()

	tests := []struct {
		name string
		p    authz.Principal
		want bool
	}{
		{"admin edits anything", authz.Principal{UserID: other, Account: authz.Admin{}}, true},
		{"author volunteer", authz.Principal{UserID: author, Account: authz.Volunteer{Approved: true}}, true},
		{"other volunteer", authz.Principal{UserID: other, Account: authz.Volunteer{Approved: true}}, false},
		{"unapproved author", authz.Principal{UserID: author, Account: authz.Volunteer{}}, false},
		{"visitor author id", authz.Principal{UserID: author, Account: authz.Visitor{}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := authz.CanEditArticle(tt.p, author); got != tt.want {
				t.Errorf("CanEditArticle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPrincipalOf(t *testing.T) {
	u := models.User{
		ID:         primitive.NewObjectID(),
		FullName:   "Jane Doe",
		Email:      "jane@x.org",
		Role:       models.RoleVolunteer,
		IsApproved: true,
	}
	p := authz.PrincipalOf(u)
	if p.UserID != u.ID || p.Name != u.FullName || p.Email != u.Email {
		t.Errorf("PrincipalOf copied wrong identity: %+v", p)
	}
	if p.Account.Role() != models.RoleVolunteer {
		t.Errorf("Role() = %q, want %q", p.Account.Role(), models.RoleVolunteer)
	}
}
