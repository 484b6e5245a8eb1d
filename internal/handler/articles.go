package handler

import (
	"net/http"

	"github.com/conduit/conduit-api/internal/middleware"
	"github.com/conduit/conduit-api/internal/models"
	"github.com/conduit/conduit-api/internal/service"
	"github.com/conduit/conduit-api/internal/utils"
	"github.com/gorilla/mux"
)

type createArticleRequest struct {
	Article struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description" validate:"required"`
		Body        string   `json:"body" validate:"required"`
		TagList     []string `json:"tagList" validate:"required,dive,required"`
	} `json:"article" validate:"required"`
}

type updateArticleRequest struct {
	Article struct {
		Title       *string `json:"title" validate:"omitempty,min=1"`
		Description *string `json:"description"`
		Body        *string `json:"body"`
	} `json:"article"`
}

type articleResponse struct {
	Article any `json:"article"`
}

// filterFromQuery reads the listing filters shared by list and feed
func filterFromQuery(r *http.Request) (models.ArticleFilter, error) {
	q := r.URL.Query()
	limit, offset, err := utils.ParseLimitOffset(q.Get("limit"), q.Get("offset"))
	if err != nil {
		return models.ArticleFilter{}, service.BadRequest(err.Error())
	}
	return models.ArticleFilter{
		Tag:       q.Get("tag"),
		Author:    q.Get("author"),
		Favorited: q.Get("favorited"),
		Limit:     limit,
		Offset:    offset,
	}, nil
}

// ListArticles handles GET /articles
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.ListArticles(r.Context(), filter, middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// FeedArticles handles GET /articles/feed
func (h *Handler) FeedArticles(w http.ResponseWriter, r *http.Request) {
	filter, err := filterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.svc.FeedArticles(r.Context(), filter, middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.GetArticle(r.Context(), mux.Vars(r)["slug"], middleware.UserFromContext(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}

func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	in := models.NewArticle{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
		TagList:     req.Article.TagList,
	}
	article, err := h.svc.CreateArticle(r.Context(), middleware.UserFromContext(r.Context()), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, articleResponse{Article: article})
}

func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req updateArticleRequest
	if err := h.decode(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	upd := models.ArticleUpdate{
		Title:       req.Article.Title,
		Description: req.Article.Description,
		Body:        req.Article.Body,
	}
	article, err := h.svc.UpdateArticle(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["slug"], upd)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}

// DeleteArticle answers with the removed article row
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.DeleteArticle(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}

func (h *Handler) FavoriteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.FavoriteArticle(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}

func (h *Handler) UnfavoriteArticle(w http.ResponseWriter, r *http.Request) {
	article, err := h.svc.UnfavoriteArticle(r.Context(), middleware.UserFromContext(r.Context()), mux.Vars(r)["slug"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, articleResponse{Article: article})
}
