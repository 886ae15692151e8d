package approvals_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/ideahub/internal/app/features/approvals"
	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/services/accounts"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/ideahub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type fixture struct {
	router   http.Handler
	users    *testutil.MemUsers
	requests *testutil.MemRequests
	admin    models.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()
	f := &fixture{
		users:    testutil.NewMemUsers(),
		requests: testutil.NewMemRequests(),
		admin:    testutil.AdminUser(),
	}
	acct := accounts.New(f.users, f.requests, testutil.NewMemProfiles(), nil, nil, logger)
	h := approvals.NewHandler(acct, apierrors.NewErrorLogger(logger), logger)
	r := chi.NewRouter()
	r.Mount("/admin/requests", approvals.Routes(h))
	f.router = r
	return f
}

func (f *fixture) pending(t *testing.T, name, email, role string) (models.User, models.ApprovalRequest) {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Create(ctx, models.User{FullName: name, Email: email, Role: role})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	req, err := f.requests.Create(ctx, models.ApprovalRequest{UserID: u.ID, RequestedRole: role, Status: models.RequestPending})
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	return u, req
}

func (f *fixture) do(req *http.Request, as *models.User) *testutil.ResponseRecorder {
	if as != nil {
		req = testutil.WithUser(req, *as)
	}
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestApproveFlow(t *testing.T) {
	f := newFixture(t)
	u, req := f.pending(t, "Vera Volunteer", "vera@x.org", models.RoleVolunteer)

	rec := f.do(testutil.NewRequest(http.MethodGet, "/admin/requests?status=pending"), &f.admin)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "vera@x.org")
	rec.AssertContains(t, `"user_name":"Vera Volunteer"`)

	rec = f.do(testutil.NewRequest(http.MethodPost, "/admin/requests/"+req.ID.Hex()+"/approve"), &f.admin)
	rec.AssertStatus(t, http.StatusOK)
	var out struct {
		Request models.ApprovalRequest `json:"request"`
	}
	rec.DecodeJSON(t, &out)
	if out.Request.Status != models.RequestApproved {
		t.Errorf("status = %q, want approved", out.Request.Status)
	}

	got, err := f.users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !got.IsApproved || got.Role != models.RoleVolunteer {
		t.Errorf("user after approval = %+v", got)
	}

	rec = f.do(testutil.NewRequest(http.MethodPost, "/admin/requests/"+req.ID.Hex()+"/reject"), &f.admin)
	rec.AssertStatus(t, http.StatusConflict)

	rec = f.do(testutil.NewRequest(http.MethodGet, "/admin/requests?status=pending"), &f.admin)
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"requests":[]`)
}

func TestReject(t *testing.T) {
	f := newFixture(t)
	u, req := f.pending(t, "Adam Applicant", "adam@x.org", models.RoleAdmin)

	rec := f.do(testutil.NewRequest(http.MethodPost, "/admin/requests/"+req.ID.Hex()+"/reject"), &f.admin)
	rec.AssertStatus(t, http.StatusOK)

	got, _ := f.users.GetByID(context.Background(), u.ID)
	if got.IsApproved {
		t.Error("rejected applicant should stay unapproved")
	}
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	_, req := f.pending(t, "Vera Volunteer", "vera@x.org", models.RoleVolunteer)
	volunteer := testutil.VolunteerUser()

	tests := []struct {
		name   string
		method string
		target string
		as     *models.User
		want   int
	}{
		{"volunteer cannot list", http.MethodGet, "/admin/requests", &volunteer, http.StatusForbidden},
		{"volunteer cannot approve", http.MethodPost, "/admin/requests/" + req.ID.Hex() + "/approve", &volunteer, http.StatusForbidden},
		{"bad status filter", http.MethodGet, "/admin/requests?status=maybe", &f.admin, http.StatusUnprocessableEntity},
		{"malformed id", http.MethodPost, "/admin/requests/xyz/approve", &f.admin, http.StatusNotFound},
		{"unknown id", http.MethodPost, "/admin/requests/" + testutil.AdminUser().ID.Hex() + "/approve", &f.admin, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(testutil.NewRequest(tt.method, tt.target), tt.as)
			rec.AssertStatus(t, tt.want)
		})
	}
}
