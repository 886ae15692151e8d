package userinfo_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/ideahub/internal/app/features/userinfo"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/ideahub/internal/testutil"
)

type meBody struct {
	User struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
	CanManageArticles bool `json:"can_manage_articles"`
	CanModerate       bool `json:"can_moderate"`
	PendingApproval   bool `json:"pending_approval"`
}

func TestServeMe(t *testing.T) {
	tests := []struct {
		name                      string
		user                      models.User
		manage, moderate, pending bool
	}{
		{"visitor", testutil.VisitorUser(), false, false, false},
		{"pending volunteer", testutil.PendingVolunteerUser(), false, false, true},
		{"volunteer", testutil.VolunteerUser(), true, false, false},
		{"admin", testutil.AdminUser(), true, true, false},
	}
	h := userinfo.NewHandler()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithUser(testutil.NewRequest(http.MethodGet, "/auth/me"), tt.user)
			rec := testutil.NewRecorder()

			h.ServeMe(rec, req)

			rec.AssertStatus(t, http.StatusOK)
			var body meBody
			rec.DecodeJSON(t, &body)
			if body.User.Email != tt.user.Email || body.User.Role != tt.user.Role {
				t.Errorf("user = %+v", body.User)
			}
			if body.CanManageArticles != tt.manage || body.CanModerate != tt.moderate || body.PendingApproval != tt.pending {
				t.Errorf("flags = %+v", body)
			}
		})
	}
}

func TestServeMe_SignedOut(t *testing.T) {
	rec := testutil.NewRecorder()
	userinfo.NewHandler().ServeMe(rec, testutil.NewRequest(http.MethodGet, "/auth/me"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}
