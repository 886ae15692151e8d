// internal/app/features/profile/profile.go
package profile

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/profiles"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/avatar"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

type profileResponse struct {
	profiles.View
	AvatarOptions map[string][]string `json:"avatar_options"`
}

// ServeProfile handles GET /profile.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get profile")
	defer cancel()

	v, err := h.Profiles.GetProfile(ctx, auth.FromRequest(r).Viewer())
	if err != nil {
		h.ErrLog.Write(w, r, "get profile", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, profileResponse{View: v, AvatarOptions: avatar.Options})
}

// HandleUpdate handles PUT /profile.
//
//	{ "display_name", "biography", "avatar": {...} } → 200 profile | 422
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var in profiles.Update
	if err := apierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update profile: bad body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update profile")
	defer cancel()

	sess := auth.FromRequest(r)
	v, err := h.Profiles.UpdateProfile(ctx, sess.Viewer(), in)
	if err != nil {
		h.ErrLog.Write(w, r, "update profile", err)
		return
	}
	// Keep the cached session user in step with the new name and avatar.
	if err := sess.Set(v.User); err != nil {
		h.Log.Warn("refresh session user failed", zap.String("user_id", v.User.ID.Hex()), zap.Error(err))
	}
	apierrors.WriteJSON(w, http.StatusOK, profileResponse{View: v, AvatarOptions: avatar.Options})
}

// HandleChangePassword handles POST /profile/password.
//
//	{ "current_password", "new_password", "confirm_password" } → 204 | 422
func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var in profiles.PasswordChange
	if err := apierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "change password: bad body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "change password")
	defer cancel()

	if err := h.Profiles.ChangePassword(ctx, auth.FromRequest(r).Viewer(), in); err != nil {
		h.ErrLog.Write(w, r, "change password", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
