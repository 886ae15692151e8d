package articlestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no article matches.
var ErrNotFound = errors.New("article not found")

// Filter selects articles for listing.
type Filter struct {
	PublishedOnly bool
}

func (f Filter) bson() bson.M {
	q := bson.M{}
	if f.PublishedOnly {
		q["status"] = models.ArticlePublished
	}
	return q
}

// listSort orders by published_at descending. Documents without
// published_at sort after all published ones in a descending sort; ties
// fall back to created_at then _id.
var listSort = bson.D{
	{Key: "published_at", Value: -1},
	{Key: "created_at", Value: -1},
	{Key: "_id", Value: -1},
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("articles")}
}

// EnsureIndexes creates the listing and author indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.c.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
				{Key: "published_at", Value: -1},
				{Key: "created_at", Value: -1},
				{Key: "_id", Value: -1},
			},
			Options: options.Index().SetName("idx_articles_status_published"),
		},
		{
			Keys:    listSort,
			Options: options.Index().SetName("idx_articles_published"),
		},
		{
			Keys:    bson.D{{Key: "author_id", Value: 1}},
			Options: options.Index().SetName("idx_articles_author"),
		},
	})
	return err
}

// Create inserts a. ID and timestamps are assigned when zero.
func (s *Store) Create(ctx context.Context, a models.Article) (models.Article, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Article{}, err
	}
	return a, nil
}

// GetByID loads an article.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error) {
	var a models.Article
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Update writes the mutable fields of a. published_at is only ever set,
// never unset, by this call.
func (s *Store) Update(ctx context.Context, a models.Article) error {
	set := bson.M{
		"title":      a.Title,
		"content":    a.Content,
		"tags":       a.Tags,
		"status":     a.Status,
		"read_time":  a.ReadTime,
		"updated_at": a.UpdatedAt,
	}
	if a.PublishedAt != nil {
		set["published_at"] = a.PublishedAt
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": a.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an article.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of articles matching f in listing order.
func (s *Store) List(ctx context.Context, f Filter, skip, limit int64) ([]models.Article, error) {
	opts := options.Find().SetSort(listSort).SetSkip(skip).SetLimit(limit)
	return s.find(ctx, f.bson(), opts)
}

// Count returns the number of articles matching f.
func (s *Store) Count(ctx context.Context, f Filter) (int64, error) {
	return s.c.CountDocuments(ctx, f.bson())
}

// ListAll returns every article, newest created first.
func (s *Store) ListAll(ctx context.Context) ([]models.Article, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.find(ctx, bson.M{}, opts)
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Article, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Article
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
