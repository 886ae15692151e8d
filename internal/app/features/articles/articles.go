// internal/app/features/articles/articles.go
package articles

import (
	"net/http"

	apierrors "github.com/dalemusser/ideahub/internal/app/features/errors"
	articlesvc "github.com/dalemusser/ideahub/internal/app/services/articles"
	"github.com/dalemusser/ideahub/internal/app/system/apperr"
	"github.com/dalemusser/ideahub/internal/app/system/auth"
	"github.com/dalemusser/ideahub/internal/app/system/paging"
	"github.com/dalemusser/ideahub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func articleID(r *http.Request) (primitive.ObjectID, error) {
	raw := chi.URLParam(r, "id")
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFoundError{Entity: "article", ID: raw}
	}
	return id, nil
}

// ServeList handles GET /articles?page=&page_size=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	p := paging.FromRequest(r, h.Articles.PageSize, paging.MaxPageSize)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list articles")
	defer cancel()

	list, err := h.Articles.ListArticles(ctx, auth.FromRequest(r).Viewer(), p.Number, p.Size)
	if err != nil {
		h.ErrLog.Write(w, r, "list articles", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, list)
}

// ServeArticle handles GET /articles/{id}.
func (h *Handler) ServeArticle(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "get article", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "get article")
	defer cancel()

	v, err := h.Articles.GetArticle(ctx, auth.FromRequest(r).Viewer(), id)
	if err != nil {
		h.ErrLog.Write(w, r, "get article", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, v)
}

// HandleCreate handles POST /articles.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in articlesvc.ArticleInput
	if err := apierrors.DecodeJSON(w, r, &in); err != nil {
		h.ErrLog.LogBadRequest(w, r, "create article: bad body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "create article")
	defer cancel()

	a, err := h.Articles.CreateArticle(ctx, auth.FromRequest(r).Viewer(), in)
	if err != nil {
		h.ErrLog.Write(w, r, "create article", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, a)
}

// HandleUpdate handles PUT /articles/{id}. Absent fields are unchanged.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "update article", err)
		return
	}
	var patch articlesvc.ArticlePatch
	if err := apierrors.DecodeJSON(w, r, &patch); err != nil {
		h.ErrLog.LogBadRequest(w, r, "update article: bad body", err, err.Error())
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "update article")
	defer cancel()

	a, err := h.Articles.UpdateArticle(ctx, auth.FromRequest(r).Viewer(), id, patch)
	if err != nil {
		h.ErrLog.Write(w, r, "update article", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, a)
}

// HandleDelete handles DELETE /articles/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := articleID(r)
	if err != nil {
		h.ErrLog.Write(w, r, "delete article", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "delete article")
	defer cancel()

	if err := h.Articles.DeleteArticle(ctx, auth.FromRequest(r).Viewer(), id); err != nil {
		h.ErrLog.Write(w, r, "delete article", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeAdminList handles GET /admin/articles.
func (h *Handler) ServeAdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin list articles")
	defer cancel()

	list, err := h.Articles.AdminListArticles(ctx, auth.FromRequest(r).Viewer())
	if err != nil {
		h.ErrLog.Write(w, r, "admin list articles", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, map[string]any{"articles": list})
}
