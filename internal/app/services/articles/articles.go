// Package articles implements the article lifecycle: create, edit, publish,
// delete and the visibility rules for listing and viewing.
package articles

import (
	"context"
	"errors"
	"io"
	"time"

	articlestore "github.com/dalemusser/ideahub/internal/app/store/articles"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/auditlog"
	"github.com/dalemusser/ideahub/internal/app/system/authz"
	"github.com/dalemusser/ideahub/internal/app/system/imagestore"
	"github.com/dalemusser/ideahub/internal/app/system/markdown"
	"github.com/dalemusser/ideahub/internal/app/system/normalize"
	"github.com/dalemusser/ideahub/internal/app/system/paging"
	"github.com/dalemusser/ideahub/internal/app/system/readtime"
	"github.com/dalemusser/ideahub/internal/app/system/validate"
	"github.com/dalemusser/ideahub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ArticleStore is the subset of the article store the manager needs.
type ArticleStore interface {
	Create(ctx context.Context, a models.Article) (models.Article, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Article, error)
	Update(ctx context.Context, a models.Article) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	List(ctx context.Context, f articlestore.Filter, skip, limit int64) ([]models.Article, error)
	Count(ctx context.Context, f articlestore.Filter) (int64, error)
	ListAll(ctx context.Context) ([]models.Article, error)
}

// UserLookup resolves author details.
type UserLookup interface {
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Manager implements the article operations.
type Manager struct {
	Articles ArticleStore
	Users    UserLookup
	Images   imagestore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger

	// PageSize is the default listing page size.
	PageSize int
	// Now returns the current time; tests replace it.
	Now func() time.Time
}

// New builds a Manager. images and audit may be nil.
func New(articles ArticleStore, users UserLookup, images imagestore.Store, audit *auditlog.Logger, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		Articles: articles,
		Users:    users,
		Images:   images,
		Audit:    audit,
		Log:      logger,
		PageSize: paging.DefaultPageSize,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Input                                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// ArticleInput is the create form. ReadTime is nil unless the author set it.
type ArticleInput struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Tags     []string `json:"tags"`
	Status   string   `json:"status"`
	ReadTime *int     `json:"read_time,omitempty"`
}

// ArticlePatch is the update form. Nil fields are left unchanged.
type ArticlePatch struct {
	Title    *string   `json:"title,omitempty"`
	Content  *string   `json:"content,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Status   *string   `json:"status,omitempty"`
	ReadTime *int      `json:"read_time,omitempty"`
}

// checkTitle measures the title as it will be stored.
func checkTitle(verr *apperr.ValidationError, title string) {
	if validate.Length(normalize.Name(title)) < validate.MinTitleLen {
		verr.Add("title", "title must be at least 5 characters")
	}
}

func checkContent(verr *apperr.ValidationError, content string) {
	if validate.Length(content) < validate.MinContentLen {
		verr.Add("content", "content must be at least 50 characters")
	}
}

func checkStatus(verr *apperr.ValidationError, status string) {
	if !models.IsValidArticleStatus(status) {
		verr.Add("status", "status must be draft or published")
	}
}

func checkReadTime(verr *apperr.ValidationError, rt *int) {
	if rt != nil && *rt < validate.MinReadTime {
		verr.Add("read_time", "read time must be at least 1 minute")
	}
}

// Validate reports every field problem at once. An empty status means draft.
func (in ArticleInput) Validate() error {
	verr := &apperr.ValidationError{}
	checkTitle(verr, in.Title)
	checkContent(verr, in.Content)
	if in.Status != "" {
		checkStatus(verr, in.Status)
	}
	checkReadTime(verr, in.ReadTime)
	return verr.OrNil()
}

// Validate checks the fields present in the patch.
func (p ArticlePatch) Validate() error {
	verr := &apperr.ValidationError{}
	if p.Title != nil {
		checkTitle(verr, *p.Title)
	}
	if p.Content != nil {
		checkContent(verr, *p.Content)
	}
	if p.Status != nil {
		checkStatus(verr, *p.Status)
	}
	checkReadTime(verr, p.ReadTime)
	return verr.OrNil()
}

/*─────────────────────────────────────────────────────────────────────────────*
| Create / update / delete                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

// CreateArticle stores a new article by author. The read time is computed
// from the content unless in.ReadTime is set. A published article gets
// published_at = now.
func (m *Manager) CreateArticle(ctx context.Context, author authz.Principal, in ArticleInput) (models.Article, error) {
	if !authz.CanManageArticles(author.Account) {
		return models.Article{}, apperr.PermissionError{Action: "create articles"}
	}
	if err := in.Validate(); err != nil {
		return models.Article{}, err
	}

	status := in.Status
	if status == "" {
		status = models.ArticleDraft
	}

	rt := readtime.NewTracker(in.Content, 0)
	if in.ReadTime != nil {
		rt.SetMinutes(*in.ReadTime)
	}

	now := m.Now()
	a := models.Article{
		Title:     normalize.Name(in.Title),
		Content:   in.Content,
		Tags:      normalize.Tags(in.Tags),
		Status:    status,
		ReadTime:  rt.Minutes(),
		AuthorID:  author.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == models.ArticlePublished {
		a.PublishedAt = &now
	}

	created, err := m.Articles.Create(ctx, a)
	if err != nil {
		return models.Article{}, apperr.Store("create article", err)
	}
	m.Audit.ArticleCreated(ctx, author.UserID, created.ID, created.Status)
	return created, nil
}

// load fetches an article and checks that actor may change it.
func (m *Manager) load(ctx context.Context, actor authz.Principal, id primitive.ObjectID, action string) (*models.Article, error) {
	if !authz.CanManageArticles(actor.Account) {
		return nil, apperr.PermissionError{Action: action}
	}
	a, err := m.Articles.GetByID(ctx, id)
	if errors.Is(err, articlestore.ErrNotFound) {
		return nil, apperr.NotFoundError{Entity: "article", ID: id.Hex()}
	}
	if err != nil {
		return nil, apperr.Store("get article", err)
	}
	if !authz.CanEditArticle(actor, a.AuthorID) {
		return nil, apperr.PermissionError{Action: action}
	}
	return a, nil
}

// UpdateArticle applies patch to the article. Only its author (an approved
// volunteer) or an admin may do so. Changing content recomputes the read
// time unless the patch also sets it. Publishing sets published_at once;
// published articles cannot return to draft.
func (m *Manager) UpdateArticle(ctx context.Context, actor authz.Principal, id primitive.ObjectID, patch ArticlePatch) (models.Article, error) {
	a, err := m.load(ctx, actor, id, "edit this article")
	if err != nil {
		return models.Article{}, err
	}
	if err := patch.Validate(); err != nil {
		return models.Article{}, err
	}

	if patch.Status != nil && *patch.Status != a.Status {
		if a.Status == models.ArticlePublished {
			return models.Article{}, apperr.InvalidStateError{Entity: "article", From: a.Status, To: *patch.Status}
		}
		a.Status = *patch.Status
	}

	rt := readtime.NewTracker(a.Content, a.ReadTime)
	if patch.Title != nil {
		a.Title = normalize.Name(*patch.Title)
	}
	if patch.Content != nil {
		a.Content = *patch.Content
		rt.SetContent(a.Content)
	}
	if patch.ReadTime != nil {
		rt.SetMinutes(*patch.ReadTime)
	}
	a.ReadTime = rt.Minutes()
	if patch.Tags != nil {
		a.Tags = normalize.Tags(*patch.Tags)
	}

	now := m.Now()
	a.UpdatedAt = now
	if a.Status == models.ArticlePublished && a.PublishedAt == nil {
		a.PublishedAt = &now
	}

	if err := m.Articles.Update(ctx, *a); err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			return models.Article{}, apperr.NotFoundError{Entity: "article", ID: id.Hex()}
		}
		return models.Article{}, apperr.Store("update article", err)
	}
	m.Audit.ArticleUpdated(ctx, actor.UserID, a.ID, a.Status)
	return *a, nil
}

// DeleteArticle removes the article. Same permission rule as UpdateArticle.
func (m *Manager) DeleteArticle(ctx context.Context, actor authz.Principal, id primitive.ObjectID) error {
	a, err := m.load(ctx, actor, id, "delete this article")
	if err != nil {
		return err
	}
	if err := m.Articles.Delete(ctx, a.ID); err != nil {
		if errors.Is(err, articlestore.ErrNotFound) {
			return apperr.NotFoundError{Entity: "article", ID: id.Hex()}
		}
		return apperr.Store("delete article", err)
	}
	m.Audit.ArticleDeleted(ctx, actor.UserID, a.ID)
	return nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Reading                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// ArticleView is an article with its author's details.
type ArticleView struct {
	models.Article
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email,omitempty"`
	ContentHTML string `json:"content_html,omitempty"`
}

// ArticleList is one page of articles.
type ArticleList struct {
	Articles   []ArticleView `json:"articles"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

func filterFor(viewer authz.Principal) articlestore.Filter {
	return articlestore.Filter{PublishedOnly: !authz.CanManageArticles(viewer.Account)}
}

// ListArticles returns one page ordered by published_at descending, drafts
// after published articles. Viewers who cannot manage articles see only
// published ones. page and pageSize are clamped; zero pageSize uses the
// configured default.
func (m *Manager) ListArticles(ctx context.Context, viewer authz.Principal, page, pageSize int) (ArticleList, error) {
	p := paging.Normalize(page, pageSize, m.PageSize, paging.MaxPageSize)
	f := filterFor(viewer)

	total, err := m.Articles.Count(ctx, f)
	if err != nil {
		return ArticleList{}, apperr.Store("count articles", err)
	}
	rows, err := m.Articles.List(ctx, f, p.Skip(), p.Limit())
	if err != nil {
		return ArticleList{}, apperr.Store("list articles", err)
	}
	views, err := m.withAuthors(ctx, rows, false)
	if err != nil {
		return ArticleList{}, err
	}
	return ArticleList{
		Articles:   views,
		Total:      total,
		Page:       p.Number,
		PageSize:   p.Size,
		TotalPages: paging.TotalPages(total, p.Size),
	}, nil
}

// GetArticle returns one article with rendered HTML. Drafts are reported as
// not found to viewers who cannot manage articles.
func (m *Manager) GetArticle(ctx context.Context, viewer authz.Principal, id primitive.ObjectID) (ArticleView, error) {
	a, err := m.Articles.GetByID(ctx, id)
	if errors.Is(err, articlestore.ErrNotFound) {
		return ArticleView{}, apperr.NotFoundError{Entity: "article", ID: id.Hex()}
	}
	if err != nil {
		return ArticleView{}, apperr.Store("get article", err)
	}
	if filterFor(viewer).PublishedOnly && !a.IsPublished() {
		return ArticleView{}, apperr.NotFoundError{Entity: "article", ID: id.Hex()}
	}

	views, err := m.withAuthors(ctx, []models.Article{*a}, false)
	if err != nil {
		return ArticleView{}, err
	}
	v := views[0]
	v.ContentHTML = markdown.ToHTML(a.Content)
	return v, nil
}

// AdminListArticles returns every article, newest created first, with
// author name and email.
func (m *Manager) AdminListArticles(ctx context.Context, actor authz.Principal) ([]ArticleView, error) {
	if !authz.CanModerate(actor.Account) {
		return nil, apperr.PermissionError{Action: "list all articles"}
	}
	rows, err := m.Articles.ListAll(ctx)
	if err != nil {
		return nil, apperr.Store("list articles", err)
	}
	return m.withAuthors(ctx, rows, true)
}

func (m *Manager) withAuthors(ctx context.Context, rows []models.Article, withEmail bool) ([]ArticleView, error) {
	out := make([]ArticleView, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	seen := make(map[primitive.ObjectID]struct{}, len(rows))
	ids := make([]primitive.ObjectID, 0, len(rows))
	for _, a := range rows {
		if _, ok := seen[a.AuthorID]; !ok {
			seen[a.AuthorID] = struct{}{}
			ids = append(ids, a.AuthorID)
		}
	}
	users, err := m.Users.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Store("load authors", err)
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for _, a := range rows {
		v := ArticleView{Article: a}
		if u, ok := byID[a.AuthorID]; ok {
			v.AuthorName = u.FullName
			if withEmail {
				v.AuthorEmail = u.Email
			}
		}
		out = append(out, v)
	}
	return out, nil
}

/*─────────────────────────────────────────────────────────────────────────────*
| Images                                                                      |
*─────────────────────────────────────────────────────────────────────────────*/

// Image is a stored upload.
type Image struct {
	Path     string `json:"path"`
	URL      string `json:"url"`
	Markdown string `json:"markdown"`
}

// UploadImage stores an image for use in article content.
func (m *Manager) UploadImage(ctx context.Context, actor authz.Principal, filename, contentType string, size int64, r io.Reader) (Image, error) {
	if !authz.CanManageArticles(actor.Account) {
		return Image{}, apperr.PermissionError{Action: "upload images"}
	}
	if err := imagestore.Validate(contentType, size); err != nil {
		return Image{}, err
	}
	if m.Images == nil {
		return Image{}, apperr.Store("upload image", errors.New("image storage is not configured"))
	}

	objectPath := imagestore.ObjectPath(filename, m.Now())
	lr := io.LimitReader(r, imagestore.MaxImageSize)
	if err := m.Images.Put(ctx, objectPath, lr, &imagestore.PutOptions{ContentType: contentType, Size: size}); err != nil {
		return Image{}, apperr.Store("upload image", err)
	}

	url := m.Images.URL(objectPath)
	m.Log.Info("article image uploaded", zap.String("user_id", actor.UserID.Hex()), zap.String("path", objectPath))
	return Image{Path: objectPath, URL: url, Markdown: imagestore.Markdown(filename, url)}, nil
}
