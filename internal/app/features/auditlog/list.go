// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	"github.com/dalemusser/ideahub/internal/app/store/audit"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/paging"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const pageSize = 50

// parseFilter reads category, event_type, user_id, start_date and
// end_date (YYYY-MM-DD, end date inclusive).
func parseFilter(r *http.Request) (audit.QueryFilter, error) {
	verr := &apperr.ValidationError{}
	f := audit.QueryFilter{
		Category:  strings.TrimSpace(query.Get(r, "category")),
		EventType: strings.TrimSpace(query.Get(r, "event_type")),
	}
	if f.Category != "" && !knownCategory(f.Category) {
		verr.Add("category", "category must be auth, admin or content")
	}
	if raw := strings.TrimSpace(query.Get(r, "user_id")); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			verr.Add("user_id", "user_id is not a valid id")
		} else {
			f.UserID = &id
		}
	}
	if raw := strings.TrimSpace(query.Get(r, "start_date")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			verr.Add("start_date", "use YYYY-MM-DD")
		} else {
			f.StartTime = &t
		}
	}
	if raw := strings.TrimSpace(query.Get(r, "end_date")); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			verr.Add("end_date", "use YYYY-MM-DD")
		} else {
			endOfDay := t.Add(24*time.Hour - time.Nanosecond)
			f.EndTime = &endOfDay
		}
	}
	return f, verr.OrNil()
}

// ServeList handles GET /admin/audit - the audit log with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.ErrLog.Write(w, r, "audit log list", err)
		return
	}
	p := paging.FromRequest(r, pageSize, pageSize)
	filter.Limit = p.Limit()
	filter.Offset = p.Skip()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.Write(w, r, "audit log list", apperr.Store("query audit events", err))
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.Write(w, r, "audit log list", apperr.Store("count audit events", err))
		return
	}

	// Collect unique user IDs for name resolution
	seen := make(map[primitive.ObjectID]struct{})
	ids := make([]primitive.ObjectID, 0)
	for _, e := range events {
		for _, id := range []*primitive.ObjectID{e.ActorID, e.UserID} {
			if id == nil {
				continue
			}
			if _, ok := seen[*id]; !ok {
				seen[*id] = struct{}{}
				ids = append(ids, *id)
			}
		}
	}
	userNames := make(map[primitive.ObjectID]string)
	if len(ids) > 0 {
		users, err := h.Users.GetMany(ctx, ids)
		if err != nil {
			h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		} else {
			for _, u := range users {
				userNames[u.ID] = u.FullName
			}
		}
	}
	nameOf := func(id *primitive.ObjectID) string {
		if id == nil {
			return ""
		}
		if name, ok := userNames[*id]; ok {
			return name
		}
		return id.Hex()
	}

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		items = append(items, listItem{
			ID:         e.ID.Hex(),
			Timestamp:  e.Timestamp,
			Category:   e.Category,
			EventType:  e.EventType,
			ActorName:  nameOf(e.ActorID),
			TargetName: nameOf(e.UserID),
			IP:         e.IP,
			Success:    e.Success,
			Details:    e.Details,
		})
	}

	apierrors.WriteJSON(w, http.StatusOK, listResponse{
		Events:     items,
		Total:      total,
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: paging.TotalPages(total, p.Size),
	})
}
