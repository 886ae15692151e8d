// Package accounts authenticates, registers and authorizes users and runs
// the admin approval workflow.
package accounts

import (
	"context"
	"errors"

	approvalstore "github.com/dalemusser/ideahub/internal/app/store/approvals"
	userstore "github.com/dalemusser/ideahub/internal/app/store/users"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/auditlog"
	"github.com/dalemusser/ideahub/internal/app/system/authutil"
	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/app/system/avatar"
	"github.com/dalemusser/ideahub/internal/app/system/normalize"
	"github.com/dalemusser/ideahub/internal/app/system/notify"
	"github.com/dalemusser/ideahub/internal/app/system/validate"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// UserStore is the subset of the users store the manager needs.
type UserStore interface {
	Create(ctx context.Context, u models.User) (models.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	SetRoleApproval(ctx context.Context, id primitive.ObjectID, role string, approved bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context) ([]models.User, error)
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// RequestStore is the subset of the approval request store the manager needs.
type RequestStore interface {
	Create(ctx context.Context, r models.ApprovalRequest) (models.ApprovalRequest, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.ApprovalRequest, error)
	Decide(ctx context.Context, id primitive.ObjectID, status string, decidedBy primitive.ObjectID) (models.ApprovalRequest, error)
	Reopen(ctx context.Context, id primitive.ObjectID, from string) error
	List(ctx context.Context, status string) ([]models.ApprovalRequest, error)
}

// Transactor runs fn so that its store writes commit or fail together.
// txn.Runner satisfies it.
type Transactor interface {
	Run(ctx context.Context, fn func(ctx context.Context) error) error
}

// ProfileStore loads profiles for the user listing.
type ProfileStore interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error)
}

// Dispatcher hands a notification to background delivery. It must not block.
type Dispatcher interface {
	Dispatch(e notify.Event)
}

// SessionWriter is the part of auth.Session the manager changes.
type SessionWriter interface {
	Set(u models.User) error
	Clear()
}

// Manager implements the account operations.
type Manager struct {
	Users    UserStore
	Requests RequestStore
	Profiles ProfileStore
	Notify   Dispatcher
	Audit    *auditlog.Logger
	Log      *zap.Logger

	// Tx groups multi-collection writes. Nil runs them directly.
	Tx Transactor

	// BcryptCost is used for new password hashes; zero means authutil.DefaultCost.
	BcryptCost int
	// NotifyEmail is copied into pending-registration notices.
	NotifyEmail string
}

// New builds a Manager. notifier and audit may be nil.
func New(users UserStore, requests RequestStore, profiles ProfileStore, notifier Dispatcher, audit *auditlog.Logger, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Users:    users,
		Requests: requests,
		Profiles: profiles,
		Notify:   notifier,
		Audit:    audit,
		Log:      logger,
	}
}

func (m *Manager) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.Tx == nil {
		return fn(ctx)
	}
	return m.Tx.Run(ctx, fn)
}

func (m *Manager) hash(pw string) (string, error) {
	cost := m.BcryptCost
	if cost == 0 {
		cost = authutil.DefaultCost
	}
	return authutil.HashPasswordCost(pw, cost)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Login / logout                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// Login checks the credentials and signs sess in as the matching user. On
// failure the session is left untouched.
func (m *Manager) Login(ctx context.Context, sess SessionWriter, email, password string) (models.User, error) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		return models.User{}, apperr.AuthenticationError{}
	}

	u, err := m.Users.GetByEmail(ctx, email)
	if errors.Is(err, userstore.ErrNotFound) {
		m.Audit.LoginFailedUserNotFound(ctx, email)
		return models.User{}, apperr.AuthenticationError{}
	}
	if err != nil {
		return models.User{}, apperr.Store("get user by email", err)
	}
	if !authutil.CheckPassword(password, u.PasswordHash) {
		m.Audit.LoginFailedWrongPassword(ctx, u.ID, email)
		return models.User{}, apperr.AuthenticationError{}
	}

	if err := sess.Set(*u); err != nil {
		return models.User{}, err
	}
	m.Audit.LoginSuccess(ctx, u.ID, email)
	return *u, nil
}

// Logout signs sess out. It cannot fail.
func (m *Manager) Logout(ctx context.Context, sess SessionWriter, userID string) {
	if userID != "" {
		m.Audit.Logout(ctx, userID)
	}
	sess.Clear()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Registration                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// RegisterInput is the registration form.
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate reports every field problem at once.
func (in RegisterInput) Validate() error {
	verr := &apperr.ValidationError{}

	name := normalize.Name(in.Name)
	switch {
	case name == "":
		verr.Add("name", "name is required")
	case validate.Length(name) > validate.MaxNameLen:
		verr.Add("name", "name is too long")
	}
	if !validate.IsValidEmail(in.Email) {
		verr.Add("email", "enter a valid email address")
	}
	if err := authutil.ValidatePassword(in.Password); err != nil {
		verr.Add("password", err.Error())
	}
	role := normalize.Role(in.Role)
	if !models.IsValidRole(role) {
		verr.Add("role", "role must be visitor, volunteer or admin")
	}
	return verr.OrNil()
}

// RegisterResult is the outcome of a registration.
type RegisterResult struct {
	User    models.User
	Request *models.ApprovalRequest // set for volunteer and admin applicants
}

// Register creates the account and signs sess in as it.
//
// Visitors are approved immediately. Volunteer and admin applicants are
// created unapproved with one pending approval request, and admins are
// notified once both are stored. A notification failure never fails the
// registration.
func (m *Manager) Register(ctx context.Context, sess SessionWriter, in RegisterInput) (RegisterResult, error) {
	if err := in.Validate(); err != nil {
		return RegisterResult{}, err
	}

	email := normalize.Email(in.Email)
	role := normalize.Role(in.Role)

	hash, err := m.hash(in.Password)
	if err != nil {
		return RegisterResult{}, err
	}

	var (
		u   models.User
		req *models.ApprovalRequest
	)
	// The id is fixed up front so the avatar seed matches the profile view.
	id := primitive.NewObjectID()
	err = m.inTx(ctx, func(ctx context.Context) error {
		created, err := m.Users.Create(ctx, models.User{
			ID:           id,
			FullName:     in.Name,
			Email:        email,
			PasswordHash: hash,
			Role:         role,
			IsApproved:   role == models.RoleVisitor,
			AvatarURL:    avatar.SeedURL(id.Hex()),
		})
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			return apperr.DuplicateEmailError{Email: email}
		}
		if err != nil {
			return apperr.Store("create user", err)
		}
		u = created

		if role == models.RoleVisitor {
			return nil
		}
		r, err := m.Requests.Create(ctx, models.ApprovalRequest{
			UserID:        u.ID,
			RequestedRole: role,
			Status:        models.RequestPending,
		})
		if err != nil {
			return apperr.Store("create approval request", err)
		}
		req = &r
		return nil
	})
	if err != nil {
		if !u.ID.IsZero() && apperr.Is(err, apperr.KindStore) {
			// Without a transaction the user is already stored; remove it so
			// the email can be registered again.
			if derr := m.Users.Delete(context.WithoutCancel(ctx), u.ID); derr != nil && !errors.Is(derr, userstore.ErrNotFound) {
				m.Log.Error("failed to remove user after approval request insert failed",
					zap.String("user_id", u.ID.Hex()), zap.Error(derr))
			}
		}
		return RegisterResult{}, err
	}

	res := RegisterResult{User: u, Request: req}
	m.Audit.Registered(ctx, u.ID, u.Role, u.IsApproved)

	if res.Request != nil && m.Notify != nil {
		m.Notify.Dispatch(notify.Event{
			Type:          notify.TypeRegistrationPending,
			UserID:        u.ID.Hex(),
			Name:          u.FullName,
			Email:         u.Email,
			RequestedRole: role,
			NotifyEmail:   m.NotifyEmail,
		})
	}

	if err := sess.Set(u); err != nil {
		return res, err
	}
	return res, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Approval workflow                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// Decisions accepted by DecideApprovalRequest.
const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// DecideApprovalRequest moves a pending request to approved or rejected.
// Approval gives the user the requested role, approved. Rejection leaves the
// user unapproved. Deciding a request twice fails with InvalidStateError.
func (m *Manager) DecideApprovalRequest(ctx context.Context, actor authz.Principal, requestID primitive.ObjectID, decision string) (models.ApprovalRequest, error) {
	if !authz.CanModerate(actor.Account) {
		return models.ApprovalRequest{}, apperr.PermissionError{Action: "decide approval requests"}
	}

	var status string
	switch decision {
	case DecisionApprove:
		status = models.RequestApproved
	case DecisionReject:
		status = models.RequestRejected
	default:
		verr := &apperr.ValidationError{}
		verr.Add("decision", "decision must be approve or reject")
		return models.ApprovalRequest{}, verr
	}

	current, err := m.Requests.GetByID(ctx, requestID)
	if errors.Is(err, approvalstore.ErrNotFound) {
		return models.ApprovalRequest{}, apperr.NotFoundError{Entity: "approval request", ID: requestID.Hex()}
	}
	if err != nil {
		return models.ApprovalRequest{}, apperr.Store("get approval request", err)
	}
	if current.IsTerminal() {
		return models.ApprovalRequest{}, apperr.InvalidStateError{Entity: "approval request", From: current.Status, To: status}
	}

	var decided models.ApprovalRequest
	err = m.inTx(ctx, func(ctx context.Context) error {
		d, err := m.Requests.Decide(ctx, requestID, status, actor.UserID)
		switch {
		case errors.Is(err, approvalstore.ErrNotFound):
			return apperr.NotFoundError{Entity: "approval request", ID: requestID.Hex()}
		case errors.Is(err, approvalstore.ErrNotPending):
			// Another admin decided it between the read and the update.
			return apperr.InvalidStateError{Entity: "approval request", From: "decided", To: status}
		case err != nil:
			return apperr.Store("decide approval request", err)
		}
		decided = d

		if status != models.RequestApproved {
			return nil
		}
		if err := m.Users.SetRoleApproval(ctx, d.UserID, d.RequestedRole, true); err != nil {
			if errors.Is(err, userstore.ErrNotFound) {
				return apperr.NotFoundError{Entity: "user", ID: d.UserID.Hex()}
			}
			return apperr.Store("approve user", err)
		}
		return nil
	})
	if err != nil {
		if !decided.ID.IsZero() {
			// The request must not stay decided when the user was not
			// updated; without a transaction undo the transition here.
			if rerr := m.Requests.Reopen(context.WithoutCancel(ctx), decided.ID, status); rerr != nil {
				m.Log.Error("failed to reopen approval request after user update failed",
					zap.String("request_id", decided.ID.Hex()), zap.Error(rerr))
			}
		}
		return models.ApprovalRequest{}, err
	}

	m.Audit.RequestDecided(ctx, actor.UserID, decided.UserID, decided.ID, status == models.RequestApproved)
	return decided, nil
}

// RequestView is an approval request with the applicant's details.
type RequestView struct {
	models.ApprovalRequest
	UserName  string `json:"user_name"`
	UserEmail string `json:"user_email"`
}

// ListApprovalRequests returns requests with the given status ("" for all),
// newest first.
func (m *Manager) ListApprovalRequests(ctx context.Context, actor authz.Principal, status string) ([]RequestView, error) {
	if !authz.CanModerate(actor.Account) {
		return nil, apperr.PermissionError{Action: "list approval requests"}
	}
	switch status {
	case "", models.RequestPending, models.RequestApproved, models.RequestRejected:
	default:
		verr := &apperr.ValidationError{}
		verr.Add("status", "status must be pending, approved or rejected")
		return nil, verr
	}

	reqs, err := m.Requests.List(ctx, status)
	if err != nil {
		return nil, apperr.Store("list approval requests", err)
	}

	ids := make([]primitive.ObjectID, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.UserID)
	}
	users, err := m.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Store("load applicants", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	out := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		v := RequestView{ApprovalRequest: r}
		if u, ok := byID[r.UserID]; ok {
			v.UserName = u.FullName
			v.UserEmail = u.Email
		}
		out = append(out, v)
	}
	return out, nil
}

// UserView is a user with their profile.
type UserView struct {
	models.User
	Profile *models.Profile `json:"profile,omitempty"`
}

// ListUsers returns every user, newest first.
func (m *Manager) ListUsers(ctx context.Context, actor authz.Principal) ([]UserView, error) {
	if !authz.CanModerate(actor.Account) {
		return nil, apperr.PermissionError{Action: "list users"}
	}
	users, err := m.Users.List(ctx)
	if err != nil {
		return nil, apperr.Store("list users", err)
	}

	ids := make([]primitive.ObjectID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	var profiles map[primitive.ObjectID]models.Profile
	if m.Profiles != nil && len(ids) > 0 {
		profiles, err = m.Profiles.GetMany(ctx, ids)
		if err != nil {
			return nil, apperr.Store("load profiles", err)
		}
	}

	out := make([]UserView, 0, len(users))
	for _, u := range users {
		v := UserView{User: u}
		if p, ok := profiles[u.ID]; ok {
			p := p
			v.Profile = &p
		}
		out = append(out, v)
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Bootstrap                                                                   |
*─────────────────────────────────────────────────────────────────────────────*/

// EnsureAdmin makes sure an approved admin with email exists. A missing
// account is created with password; an existing one is promoted and keeps
// its password. It reports whether a new account was created.
func (m *Manager) EnsureAdmin(ctx context.Context, email, password, name string) (bool, error) {
	email = normalize.Email(email)
	if !validate.IsValidEmail(email) {
		verr := &apperr.ValidationError{}
		verr.Add("email", "enter a valid email address")
		return false, verr
	}

	existing, err := m.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin || !existing.IsApproved {
			if err := m.Users.SetRoleApproval(ctx, existing.ID, models.RoleAdmin, true); err != nil {
				return false, apperr.Store("promote admin", err)
			}
		}
		m.Audit.AdminBootstrapped(ctx, existing.ID, false)
		return false, nil
	case !errors.Is(err, userstore.ErrNotFound):
		return false, apperr.Store("get user by email", err)
	}

	if err := authutil.ValidatePassword(password); err != nil {
		verr := &apperr.ValidationError{}
		verr.Add("password", err.Error())
		return false, verr
	}
	if normalize.Name(name) == "" {
		name = "Administrator"
	}
	hash, err := m.hash(password)
	if err != nil {
		return false, err
	}
	id := primitive.NewObjectID()
	u, err := m.Users.Create(ctx, models.User{
		ID:           id,
		FullName:     name,
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsApproved:   true,
		AvatarURL:    avatar.SeedURL(id.Hex()),
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		// Created concurrently by another instance.
		return false, nil
	}
	if err != nil {
		return false, apperr.Store("create admin", err)
	}
	m.Audit.AdminBootstrapped(ctx, u.ID, true)
	return true, nil
}
