package profiles_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/ideahub/internal/app/services/profiles"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/authutil"
	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/app/system/avatar"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/ideahub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*profiles.Service, *testutil.MemUsers, *testutil.MemProfiles, authz.Principal) {
	t.Helper()
	users := testutil.NewMemUsers()
	profs := testutil.NewMemProfiles()
	u, err := users.Create(context.Background(), models.User{FullName: "Jane Doe", Email: "jane@x.org", Role: models.RoleVisitor, IsApproved: true})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return profiles.New(users, profs, zap.NewNop()), users, profs, authz.PrincipalOf(u)
}

func TestGetProfile_Defaults(t *testing.T) {
	svc, _, _, p := setup(t)

	v, err := svc.GetProfile(context.Background(), p)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if v.Avatar != avatar.Defaults {
		t.Errorf("avatar = %+v, want defaults", v.Avatar)
	}
	if v.AvatarURL != avatar.URL(p.UserID.Hex(), avatar.Defaults) {
		t.Errorf("avatar url = %q", v.AvatarURL)
	}
	if v.User.FullName != "Jane Doe" || v.Biography != "" {
		t.Errorf("view = %+v", v)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, users, profs, p := setup(t)
	ctx := context.Background()

	v, err := svc.UpdateProfile(ctx, p, profiles.Update{
		DisplayName: "  Jane   Q. Doe ",
		Biography:   "Writes about rivers.",
		Avatar:      avatar.Settings{Skin: "dark", Hair: "curly"},
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if v.User.FullName != "Jane Q. Doe" {
		t.Errorf("name = %q", v.User.FullName)
	}
	if v.Avatar.Skin != "dark" || v.Avatar.Hair != "curly" || v.Avatar.Clothing != "casual" {
		t.Errorf("avatar = %+v", v.Avatar)
	}
	if !strings.Contains(v.AvatarURL, "skinTone=dark") || !strings.Contains(v.AvatarURL, "hair=curly") {
		t.Errorf("avatar url = %q", v.AvatarURL)
	}

	u, _ := users.GetByID(ctx, p.UserID)
	if u.FullName != "Jane Q. Doe" || u.AvatarURL != v.AvatarURL {
		t.Errorf("stored user = %q %q", u.FullName, u.AvatarURL)
	}
	stored, err := profs.Get(ctx, p.UserID)
	if err != nil || stored.Biography != "Writes about rivers." || stored.AvatarSkin != "dark" {
		t.Errorf("stored profile = %+v, %v", stored, err)
	}

	again, err := svc.GetProfile(ctx, p)
	if err != nil || again.Biography != "Writes about rivers." || again.Avatar.Hair != "curly" {
		t.Errorf("GetProfile after update = %+v, %v", again, err)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc, users, _, p := setup(t)
	users.Err = errors.New("store must not be called")

	_, err := svc.UpdateProfile(context.Background(), p, profiles.Update{
		DisplayName: " ",
		Biography:   strings.Repeat("b", 2001),
		Avatar:      avatar.Settings{Skin: "plaid"},
	})
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"display_name", "biography", "avatar.skin"} {
		if verr.Fields[field] == "" {
			t.Errorf("expected message for %q", field)
		}
	}
}

func TestGetProfile_RequiresUser(t *testing.T) {
	svc, _, _, _ := setup(t)
	if _, err := svc.GetProfile(context.Background(), authz.Principal{Account: authz.Visitor{}}); !apperr.Is(err, apperr.KindPermission) {
		t.Errorf("anonymous: expected PermissionError, got %v", err)
	}
	missing := authz.PrincipalOf(testutil.VisitorUser())
	if _, err := svc.GetProfile(context.Background(), missing); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("unknown user: expected NotFoundError, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	users := testutil.NewMemUsers()
	ctx := context.Background()
	hash, err := authutil.HashPasswordCost("oldpass1", 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	u, err := users.Create(ctx, models.User{FullName: "Pat", Email: "pat@x.org", Role: models.RoleVisitor, IsApproved: true, PasswordHash: hash})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	svc := profiles.New(users, testutil.NewMemProfiles(), zap.NewNop())
	svc.BcryptCost = 4
	p := authz.PrincipalOf(u)

	tests := []struct {
		name  string
		in    profiles.PasswordChange
		field string
	}{
		{"wrong current", profiles.PasswordChange{Current: "nope", New: "newpass1", Confirm: "newpass1"}, "current_password"},
		{"too short", profiles.PasswordChange{Current: "oldpass1", New: "abc", Confirm: "abc"}, "new_password"},
		{"mismatch", profiles.PasswordChange{Current: "oldpass1", New: "newpass1", Confirm: "newpass2"}, "confirm_password"},
		{"same as current", profiles.PasswordChange{Current: "oldpass1", New: "oldpass1", Confirm: "oldpass1"}, "new_password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ChangePassword(ctx, p, tt.in)
			var verr *apperr.ValidationError
			if !errors.As(err, &verr) || verr.Fields[tt.field] == "" {
				t.Fatalf("expected ValidationError on %q, got %v", tt.field, err)
			}
		})
	}

	if err := svc.ChangePassword(ctx, p, profiles.PasswordChange{Current: "oldpass1", New: "newpass1", Confirm: "newpass1"}); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	stored, _ := users.GetByID(ctx, u.ID)
	if !authutil.CheckPassword("newpass1", stored.PasswordHash) {
		t.Error("new password should verify")
	}
	if authutil.CheckPassword("oldpass1", stored.PasswordHash) {
		t.Error("old password should no longer verify")
	}
}
