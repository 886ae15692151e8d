package testutil

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func newUser(name, email, role string, approved bool) models.User {
	now := time.Now().UTC()
	return models.User{
		ID:         primitive.NewObjectID(),
		FullName:   name,
		FullNameCI: text.Fold(name),
		Email:      email,
		Role:       role,
		IsApproved: approved,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// VisitorUser returns an approved visitor.
func VisitorUser() models.User {
	return newUser("Test Visitor", "visitor@test.com", models.RoleVisitor, true)
}

// VolunteerUser returns an approved volunteer.
func VolunteerUser() models.User {
	return newUser("Test Volunteer", "volunteer@test.com", models.RoleVolunteer, true)
}

// PendingVolunteerUser returns a volunteer waiting for approval.
func PendingVolunteerUser() models.User {
	return newUser("Pending Volunteer", "pending@test.com", models.RoleVolunteer, false)
}

// AdminUser returns an approved admin.
func AdminUser() models.User {
	return newUser("Test Admin", "admin@test.com", models.RoleAdmin, true)
}

// Words returns n space-separated words.
func Words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

// Fixtures provides helper methods for creating test data in Mongo.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user with the given role and approval.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string, approved bool) models.User {
	f.t.Helper()
	u := newUser(name, email, role, approved)
	if _, err := f.db.Collection("users").InsertOne(ctx, u); err != nil {
		f.t.Fatalf("CreateUser: %v", err)
	}
	return u
}

// CreateArticle inserts an article by author. A published article gets
// published_at = created_at.
func (f *Fixtures) CreateArticle(ctx context.Context, author primitive.ObjectID, title, status string, createdAt time.Time) models.Article {
	f.t.Helper()
	a := models.Article{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Content:   Words(60),
		Tags:      []string{},
		Status:    status,
		ReadTime:  1,
		AuthorID:  author,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if status == models.ArticlePublished {
		at := createdAt
		a.PublishedAt = &at
	}
	if _, err := f.db.Collection("articles").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("CreateArticle: %v", err)
	}
	return a
}
