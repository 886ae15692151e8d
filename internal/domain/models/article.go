// internal/domain/models/article.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article statuses.
const (
	ArticleDraft     = "draft"
	ArticlePublished = "published"
)

// IsValidArticleStatus reports whether s is draft or published.
func IsValidArticleStatus(s string) bool {
	return s == ArticleDraft || s == ArticlePublished
}

// Article is a piece of written content owned by its author.
//
// PublishedAt is set once, when the article first becomes published, and
// is never cleared afterwards.
type Article struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"` // markdown
	Tags        []string           `bson:"tags" json:"tags"`
	Status      string             `bson:"status" json:"status"`       // draft | published
	ReadTime    int                `bson:"read_time" json:"read_time"` // minutes, ≥ 1
	AuthorID    primitive.ObjectID `bson:"author_id" json:"author_id"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
	PublishedAt *time.Time         `bson:"published_at" json:"published_at,omitempty"`
}

// IsPublished reports whether the article is visible to every viewer.
func (a Article) IsPublished() bool {
	return a.Status == ArticlePublished
}
