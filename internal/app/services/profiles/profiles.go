// Package profiles reads and edits a user's profile and avatar.
package profiles

import (
	"context"
	"errors"

	profilestore "github.com/dalemusser/ideahub/internal/app/store/profiles"
	userstore "github.com/dalemusser/ideahub/internal/app/store/users"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/authutil"
	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/app/system/avatar"
	"github.com/dalemusser/ideahub/internal/app/system/normalize"
	"github.com/dalemusser/ideahub/internal/app/system/validate"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the subset of the users store profiles need.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateName(ctx context.Context, id primitive.ObjectID, name string) error
	SetAvatarURL(ctx context.Context, id primitive.ObjectID, avatarURL string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
}

// ProfileStore persists profiles.
type ProfileStore interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error)
	Upsert(ctx context.Context, p models.Profile) (models.Profile, error)
}

type Service struct {
	Users    UserStore
	Profiles ProfileStore
	Log      *zap.Logger

	// BcryptCost is used for new password hashes; zero means authutil.DefaultCost.
	BcryptCost int
}

func New(users UserStore, profiles ProfileStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{Users: users, Profiles: profiles, Log: logger}
}

// View is a user's profile as shown in the editor.
type View struct {
	User      models.User     `json:"user"`
	Biography string          `json:"biography"`
	Avatar    avatar.Settings `json:"avatar"`
	AvatarURL string          `json:"avatar_url"`
}

// Update is the profile form.
type Update struct {
	DisplayName string          `json:"display_name"`
	Biography   string          `json:"biography"`
	Avatar      avatar.Settings `json:"avatar"`
}

// Validate reports every field problem at once.
func (u Update) Validate() error {
	verr := &apperr.ValidationError{}
	name := normalize.Name(u.DisplayName)
	switch {
	case name == "":
		verr.Add("display_name", "display name is required")
	case validate.Length(name) > validate.MaxNameLen:
		verr.Add("display_name", "display name is too long")
	}
	if validate.Length(u.Biography) > validate.MaxBiography {
		verr.Add("biography", "biography must be 2000 characters or fewer")
	}
	for field, msg := range u.Avatar.Invalid() {
		verr.Add(field, msg)
	}
	return verr.OrNil()
}

func (s *Service) user(ctx context.Context, p authz.Principal) (*models.User, error) {
	if p.UserID.IsZero() {
		return nil, apperr.PermissionError{Action: "view profile"}
	}
	u, err := s.Users.GetByID(ctx, p.UserID)
	if errors.Is(err, userstore.ErrNotFound) {
		return nil, apperr.NotFoundError{Entity: "user", ID: p.UserID.Hex()}
	}
	if err != nil {
		return nil, apperr.Store("get user", err)
	}
	return u, nil
}

func view(u models.User, prof *models.Profile) View {
	v := View{User: u}
	var settings avatar.Settings
	if prof != nil {
		v.Biography = prof.Biography
		settings = avatar.FromProfile(*prof)
	}
	v.Avatar = settings.WithDefaults()
	v.AvatarURL = avatar.URL(u.ID.Hex(), v.Avatar)
	return v
}

// GetProfile returns the signed-in user's profile. A user who never saved
// one gets the default avatar settings.
func (s *Service) GetProfile(ctx context.Context, p authz.Principal) (View, error) {
	u, err := s.user(ctx, p)
	if err != nil {
		return View{}, err
	}
	prof, err := s.Profiles.Get(ctx, u.ID)
	switch {
	case errors.Is(err, profilestore.ErrNotFound):
		prof = nil
	case err != nil:
		return View{}, apperr.Store("get profile", err)
	}
	return view(*u, prof), nil
}

// UpdateProfile saves the display name on the user and the biography and
// avatar on the profile, then returns the refreshed view.
func (s *Service) UpdateProfile(ctx context.Context, p authz.Principal, in Update) (View, error) {
	if err := in.Validate(); err != nil {
		return View{}, err
	}
	u, err := s.user(ctx, p)
	if err != nil {
		return View{}, err
	}

	settings := in.Avatar.WithDefaults()
	prof := models.Profile{ID: u.ID, Biography: in.Biography}
	settings.Apply(&prof)

	if err := s.Users.UpdateName(ctx, u.ID, in.DisplayName); err != nil {
		return View{}, apperr.Store("update name", err)
	}
	saved, err := s.Profiles.Upsert(ctx, prof)
	if err != nil {
		return View{}, apperr.Store("save profile", err)
	}
	avatarURL := avatar.URL(u.ID.Hex(), settings)
	if err := s.Users.SetAvatarURL(ctx, u.ID, avatarURL); err != nil {
		s.Log.Warn("failed to store avatar url", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}

	u.FullName = normalize.Name(in.DisplayName)
	u.AvatarURL = avatarURL
	return view(*u, &saved), nil
}

// PasswordChange is the change-password form.
type PasswordChange struct {
	Current string `json:"current_password"`
	New     string `json:"new_password"`
	Confirm string `json:"confirm_password"`
}

// ChangePassword replaces the signed-in user's password after checking
// the current one. The new password may not equal the current one.
func (s *Service) ChangePassword(ctx context.Context, p authz.Principal, in PasswordChange) error {
	verr := &apperr.ValidationError{}
	if err := authutil.ValidatePassword(in.New); err != nil {
		verr.Add("new_password", err.Error())
	}
	if in.New != in.Confirm {
		verr.Add("confirm_password", "new passwords do not match")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	u, err := s.user(ctx, p)
	if err != nil {
		return err
	}
	if u.PasswordHash == "" || !authutil.CheckPassword(in.Current, u.PasswordHash) {
		verr.Add("current_password", "current password is incorrect")
		return verr
	}
	if authutil.CheckPassword(in.New, u.PasswordHash) {
		verr.Add("new_password", "new password cannot be the same as your current password")
		return verr
	}

	cost := s.BcryptCost
	if cost == 0 {
		cost = authutil.DefaultCost
	}
	hash, err := authutil.HashPasswordCost(in.New, cost)
	if err != nil {
		return apperr.Store("hash password", err)
	}
	if err := s.Users.SetPassword(ctx, u.ID, hash); err != nil {
		return apperr.Store("update password", err)
	}
	s.Log.Info("password changed", zap.String("user_id", u.ID.Hex()))
	return nil
}
