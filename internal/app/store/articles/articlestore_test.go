package articlestore_test

import (
	"errors"
	"testing"
	"time"

	articlestore "github.com/dalemusser/ideahub/internal/app/store/articles"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"github.com/dalemusser/ideahub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStore_ListOrderAndFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := articlestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	author := primitive.NewObjectID()
	mk := func(title, status string, created time.Time, published *time.Time) models.Article {
		a, err := store.Create(ctx, models.Article{
			Title: title, Content: "c", Status: status, ReadTime: 1,
			AuthorID: author, CreatedAt: created, PublishedAt: published,
		})
		if err != nil {
			t.Fatalf("Create %s failed: %v", title, err)
		}
		return a
	}
	p1, p2 := base.Add(time.Hour), base.Add(2*time.Hour)
	old := mk("old", models.ArticlePublished, base, &p1)
	newer := mk("newer", models.ArticlePublished, base, &p2)
	draft := mk("draft", models.ArticleDraft, base.Add(3*time.Hour), nil)

	all, err := store.List(ctx, articlestore.Filter{}, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []primitive.ObjectID{newer.ID, old.ID, draft.ID}
	if len(all) != len(want) {
		t.Fatalf("got %d articles, want %d", len(all), len(want))
	}
	for i := range want {
		if all[i].ID != want[i] {
			t.Errorf("position %d: got %s, want %s", i, all[i].Title, want[i].Hex())
		}
	}

	pub, err := store.List(ctx, articlestore.Filter{PublishedOnly: true}, 0, 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(pub) != 2 {
		t.Errorf("published-only list returned %d, want 2", len(pub))
	}
	n, err := store.Count(ctx, articlestore.Filter{PublishedOnly: true})
	if err != nil || n != 2 {
		t.Errorf("Count = %d, %v; want 2", n, err)
	}

	page2, err := store.List(ctx, articlestore.Filter{}, 2, 2)
	if err != nil || len(page2) != 1 || page2[0].ID != draft.ID {
		t.Errorf("second page = %v, %v", page2, err)
	}
}

func TestStore_UpdateKeepsPublishedAt(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := articlestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	at := time.Now().UTC().Truncate(time.Millisecond)
	a, err := store.Create(ctx, models.Article{Title: "t", Status: models.ArticlePublished, PublishedAt: &at, ReadTime: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	a.Title = "edited"
	a.PublishedAt = nil
	if err := store.Update(ctx, a); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	got, err := store.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PublishedAt == nil || !got.PublishedAt.Equal(at) {
		t.Errorf("published_at changed: %v", got.PublishedAt)
	}
}

func TestStore_DeleteAndNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := articlestore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Article{Title: "t", Status: models.ArticleDraft, ReadTime: 1})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Delete(ctx, a.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.GetByID(ctx, a.ID); !errors.Is(err, articlestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, a.ID); !errors.Is(err, articlestore.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
