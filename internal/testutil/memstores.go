package testutil

import (
	"bytes"
	"context"
	"sort"
	"sync"
	"time"

	approvalstore "github.com/dalemusser/ideahub/internal/app/store/approvals"
	articlestore "github.com/dalemusser/ideahub/internal/app/store/articles"
	"github.com/dalemusser/ideahub/internal/app/store/audit"
	profilestore "github.com/dalemusser/ideahub/internal/app/store/profiles"
	userstore "github.com/dalemusser/ideahub/internal/app/store/users"
	"github.com/dalemusser/ideahub/internal/app/system/normalize"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The in-memory stores below mirror the Mongo stores' contracts, including
// their sentinel errors, so managers can be tested without a database.
// Setting Err makes every call fail with it.

/*─────────────────────────────────────────────────────────────────────────────*
| Users                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

type MemUsers struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.User
	Err   error
	clock time.Time
}

func NewMemUsers() *MemUsers {
	return &MemUsers{byID: map[primitive.ObjectID]models.User{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// tick returns strictly increasing timestamps so created_at ordering is
// deterministic.
func (m *MemUsers) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *MemUsers) Create(_ context.Context, u models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.User{}, m.Err
	}
	u.Email = normalize.Email(u.Email)
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return models.User{}, userstore.ErrDuplicateEmail
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.FullName = normalize.Name(u.FullName)
	u.FullNameCI = text.Fold(u.FullName)
	u.Role = normalize.Role(u.Role)
	now := m.tick()
	u.CreatedAt, u.UpdatedAt = now, now
	m.byID[u.ID] = u
	return u, nil
}

func (m *MemUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, userstore.ErrNotFound
	}
	return &u, nil
}

func (m *MemUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	email = normalize.Email(email)
	for _, u := range m.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, userstore.ErrNotFound
}

func (m *MemUsers) modify(id primitive.ObjectID, fn func(*models.User)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	u, ok := m.byID[id]
	if !ok {
		return userstore.ErrNotFound
	}
	fn(&u)
	u.UpdatedAt = m.tick()
	m.byID[id] = u
	return nil
}

func (m *MemUsers) SetRoleApproval(_ context.Context, id primitive.ObjectID, role string, approved bool) error {
	return m.modify(id, func(u *models.User) { u.Role = role; u.IsApproved = approved })
}

func (m *MemUsers) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	return m.modify(id, func(u *models.User) { u.PasswordHash = hash })
}

func (m *MemUsers) UpdateName(_ context.Context, id primitive.ObjectID, name string) error {
	return m.modify(id, func(u *models.User) {
		u.FullName = normalize.Name(name)
		u.FullNameCI = text.Fold(u.FullName)
	})
}

func (m *MemUsers) SetAvatarURL(_ context.Context, id primitive.ObjectID, avatarURL string) error {
	return m.modify(id, func(u *models.User) { u.AvatarURL = avatarURL })
}

func (m *MemUsers) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.byID[id]; !ok {
		return userstore.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemUsers) List(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return idAfter(out[i].ID, out[j].ID)
	})
	return out, nil
}

func (m *MemUsers) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.User
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

// FetchUser implements auth.UserFetcher.
func (m *MemUsers) FetchUser(ctx context.Context, userID string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, nil
	}
	u, err := m.GetByID(ctx, oid)
	if err == userstore.ErrNotFound {
		return nil, nil
	}
	return u, err
}

// Count returns the number of stored users.
func (m *MemUsers) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Approval requests                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

type MemRequests struct {
	mu    sync.Mutex
	byID  map[primitive.ObjectID]models.ApprovalRequest
	Err   error
	clock time.Time
}

func NewMemRequests() *MemRequests {
	return &MemRequests{byID: map[primitive.ObjectID]models.ApprovalRequest{}, clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *MemRequests) Create(_ context.Context, r models.ApprovalRequest) (models.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.ApprovalRequest{}, m.Err
	}
	r.ID = primitive.NewObjectID()
	if r.Status == "" {
		r.Status = models.RequestPending
	}
	m.clock = m.clock.Add(time.Second)
	r.CreatedAt, r.UpdatedAt = m.clock, m.clock
	m.byID[r.ID] = r
	return r, nil
}

func (m *MemRequests) GetByID(_ context.Context, id primitive.ObjectID) (*models.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	r, ok := m.byID[id]
	if !ok {
		return nil, approvalstore.ErrNotFound
	}
	return &r, nil
}

func (m *MemRequests) Decide(_ context.Context, id primitive.ObjectID, status string, decidedBy primitive.ObjectID) (models.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.ApprovalRequest{}, m.Err
	}
	r, ok := m.byID[id]
	if !ok {
		return models.ApprovalRequest{}, approvalstore.ErrNotFound
	}
	if r.Status != models.RequestPending {
		return models.ApprovalRequest{}, approvalstore.ErrNotPending
	}
	r.Status = status
	r.DecidedBy = &decidedBy
	m.clock = m.clock.Add(time.Second)
	r.UpdatedAt = m.clock
	m.byID[id] = r
	return r, nil
}

func (m *MemRequests) Reopen(_ context.Context, id primitive.ObjectID, from string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	r, ok := m.byID[id]
	if !ok || r.Status != from {
		return nil
	}
	r.Status = models.RequestPending
	r.DecidedBy = nil
	m.clock = m.clock.Add(time.Second)
	r.UpdatedAt = m.clock
	m.byID[id] = r
	return nil
}

func (m *MemRequests) List(_ context.Context, status string) ([]models.ApprovalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.ApprovalRequest
	for _, r := range m.byID {
		if status == "" || r.Status == status {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return idAfter(out[i].ID, out[j].ID)
	})
	return out, nil
}

// ForUser returns every request referencing userID.
func (m *MemRequests) ForUser(userID primitive.ObjectID) []models.ApprovalRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.ApprovalRequest
	for _, r := range m.byID {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out
}

/*─────────────────────────────────────────────────────────────────────────────*
| Articles                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type MemArticles struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Article
	Err  error
}

func NewMemArticles() *MemArticles {
	return &MemArticles{byID: map[primitive.ObjectID]models.Article{}}
}

func (m *MemArticles) Create(_ context.Context, a models.Article) (models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Article{}, m.Err
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	m.byID[a.ID] = a
	return a, nil
}

func (m *MemArticles) GetByID(_ context.Context, id primitive.ObjectID) (*models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	a, ok := m.byID[id]
	if !ok {
		return nil, articlestore.ErrNotFound
	}
	return &a, nil
}

func (m *MemArticles) Update(_ context.Context, a models.Article) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	old, ok := m.byID[a.ID]
	if !ok {
		return articlestore.ErrNotFound
	}
	a.CreatedAt = old.CreatedAt
	a.AuthorID = old.AuthorID
	if a.PublishedAt == nil {
		a.PublishedAt = old.PublishedAt
	}
	m.byID[a.ID] = a
	return nil
}

func (m *MemArticles) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.byID[id]; !ok {
		return articlestore.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *MemArticles) filtered(f articlestore.Filter) []models.Article {
	var out []models.Article
	for _, a := range m.byID {
		if f.PublishedOnly && a.Status != models.ArticlePublished {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return listLess(out[i], out[j]) })
	return out
}

// listLess matches the Mongo store's listing sort.
func listLess(a, b models.Article) bool {
	switch {
	case a.PublishedAt != nil && b.PublishedAt == nil:
		return true
	case a.PublishedAt == nil && b.PublishedAt != nil:
		return false
	case a.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt):
		return a.PublishedAt.After(*b.PublishedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return idAfter(a.ID, b.ID)
}

func (m *MemArticles) List(_ context.Context, f articlestore.Filter, skip, limit int64) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	all := m.filtered(f)
	if skip >= int64(len(all)) {
		return nil, nil
	}
	end := skip + limit
	if limit <= 0 || end > int64(len(all)) {
		end = int64(len(all))
	}
	return all[skip:end], nil
}

func (m *MemArticles) Count(_ context.Context, f articlestore.Filter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return 0, m.Err
	}
	return int64(len(m.filtered(f))), nil
}

func (m *MemArticles) ListAll(_ context.Context) ([]models.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.Article, 0, len(m.byID))
	for _, a := range m.byID {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return idAfter(out[i].ID, out[j].ID)
	})
	return out, nil
}

// Len returns the number of stored articles.
func (m *MemArticles) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byID)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Profiles                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

type MemProfiles struct {
	mu   sync.Mutex
	byID map[primitive.ObjectID]models.Profile
	Err  error
}

func NewMemProfiles() *MemProfiles {
	return &MemProfiles{byID: map[primitive.ObjectID]models.Profile{}}
}

func (m *MemProfiles) Get(_ context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	p, ok := m.byID[userID]
	if !ok {
		return nil, profilestore.ErrNotFound
	}
	return &p, nil
}

func (m *MemProfiles) Upsert(_ context.Context, p models.Profile) (models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return models.Profile{}, m.Err
	}
	p.UpdatedAt = time.Now().UTC()
	m.byID[p.ID] = p
	return p, nil
}

func (m *MemProfiles) GetMany(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := map[primitive.ObjectID]models.Profile{}
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Audit                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// MemAudit implements auditlog.Recorder.
type MemAudit struct {
	mu     sync.Mutex
	events []audit.Event
}

func (m *MemAudit) Log(_ context.Context, e audit.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Query returns matching events, newest (last logged) first.
func (m *MemAudit) Query(_ context.Context, f audit.QueryFilter) ([]audit.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matched []audit.Event
	for i := len(m.events) - 1; i >= 0; i-- {
		if f.Matches(m.events[i]) {
			matched = append(matched, m.events[i])
		}
	}
	if f.Offset >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[f.Offset:]
	if f.Limit > 0 && int64(len(matched)) > f.Limit {
		matched = matched[:f.Limit]
	}
	return matched, nil
}

func (m *MemAudit) CountByFilter(_ context.Context, f audit.QueryFilter) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, e := range m.events {
		if f.Matches(e) {
			n++
		}
	}
	return n, nil
}

// Types returns the recorded event types in order.
func (m *MemAudit) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.events))
	for i, e := range m.events {
		out[i] = e.EventType
	}
	return out
}

func idAfter(a, b primitive.ObjectID) bool {
	return bytes.Compare(a[:], b[:]) > 0
}
