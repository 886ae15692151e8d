package auditlog_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dalemusser/ideahub/internal/app/features/auditlog"
	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/store/audit"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/ideahub/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*auditlog.Handler, models.User, models.User) {
	t.Helper()
	ctx := context.Background()
	users := testutil.NewMemUsers()
	admin, err := users.Create(ctx, models.User{FullName: "Ada Admin", Email: "ada@x.org", Role: models.RoleAdmin, IsApproved: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	vol, err := users.Create(ctx, models.User{FullName: "Val Volunteer", Email: "val@x.org", Role: models.RoleVolunteer})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	events := &testutil.MemAudit{}
	for _, e := range []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventRegistered, UserID: &vol.ID, Success: true},
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, UserID: &admin.ID, Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventRequestApproved, UserID: &vol.ID, ActorID: &admin.ID, Success: true},
	} {
		_ = events.Log(ctx, e)
	}

	logger := zap.NewNop()
	return auditlog.NewHandler(events, users, apierrors.NewErrorLogger(logger), logger), admin, vol
}

type listBody struct {
	Events []struct {
		EventType  string `json:"event_type"`
		ActorName  string `json:"actor_name"`
		TargetName string `json:"target_name"`
	} `json:"events"`
	Total int64 `json:"total"`
}

func TestServeList(t *testing.T) {
	h, _, vol := setup(t)

	rec := testutil.NewRecorder()
	auditlog.Routes(h).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
	rec.AssertStatus(t, http.StatusOK)
	var all listBody
	rec.DecodeJSON(t, &all)
	if all.Total != 3 || len(all.Events) != 3 {
		t.Fatalf("got %d events (total %d), want 3", len(all.Events), all.Total)
	}
	first := all.Events[0]
	if first.EventType != audit.EventRequestApproved || first.ActorName != "Ada Admin" || first.TargetName != "Val Volunteer" {
		t.Errorf("newest event = %+v", first)
	}

	rec = testutil.NewRecorder()
	auditlog.Routes(h).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/?category=auth&user_id="+vol.ID.Hex()))
	rec.AssertStatus(t, http.StatusOK)
	var filtered listBody
	rec.DecodeJSON(t, &filtered)
	if filtered.Total != 1 || filtered.Events[0].EventType != audit.EventRegistered {
		t.Errorf("filtered = %+v", filtered)
	}
}

func TestServeList_BadFilters(t *testing.T) {
	h, _, _ := setup(t)

	rec := testutil.NewRecorder()
	auditlog.Routes(h).ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/?category=billing&user_id=zzz&start_date=yesterday"))
	rec.AssertStatus(t, http.StatusUnprocessableEntity)
	for _, field := range []string{"category", "user_id", "start_date"} {
		rec.AssertContains(t, `"`+field+`"`)
	}
}
