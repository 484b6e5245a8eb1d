package service

import (
	"context"
	"errors"
	"slices"

	"github.com/conduit/conduit-api/internal/models"
	"github.com/conduit/conduit-api/internal/repository"
	"github.com/conduit/conduit-api/internal/utils"
)

// ListArticles returns a page of articles matching filter, denormalized for viewer.
// viewer may be nil.
func (s *Service) ListArticles(ctx context.Context, filter models.ArticleFilter, viewer *models.AuthUser) (*models.ArticleList, error) {
	q, err := s.articleQuery(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.listArticles(ctx, q, viewer)
}

// FeedArticles is ListArticles restricted to authors the viewer follows
func (s *Service) FeedArticles(ctx context.Context, filter models.ArticleFilter, viewer *models.AuthUser) (*models.ArticleList, error) {
	if viewer == nil {
		return nil, Unauthorized("missing authorization token")
	}
	q, err := s.articleQuery(ctx, filter)
	if err != nil {
		return nil, err
	}
	q.FollowedBy = &viewer.ID
	return s.listArticles(ctx, q, viewer)
}

func (s *Service) articleQuery(ctx context.Context, filter models.ArticleFilter) (repository.ArticleQuery, error) {
	if filter.Limit < 0 || filter.Offset < 0 {
		return repository.ArticleQuery{}, BadRequest("limit and offset must not be negative")
	}
	q := repository.ArticleQuery{
		Tag:    filter.Tag,
		Author: filter.Author,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	if filter.Favorited != "" {
		// no user id is 0, so an unknown username matches nothing
		var favoritedBy int64
		user, err := s.repo.FindUserByUsername(ctx, filter.Favorited)
		switch {
		case err == nil:
			favoritedBy = user.ID
		case !errors.Is(err, repository.ErrNotFound):
			return repository.ArticleQuery{}, s.internal("failed to resolve favorited filter", err)
		}
		q.FavoritedBy = &favoritedBy
	}
	return q, nil
}

func (s *Service) listArticles(ctx context.Context, q repository.ArticleQuery, viewer *models.AuthUser) (*models.ArticleList, error) {
	articles, err := s.repo.ListArticles(ctx, q)
	if err != nil {
		return nil, s.internal("failed to list articles", err)
	}
	count, err := s.repo.CountArticles(ctx, q)
	if err != nil {
		return nil, s.internal("failed to count articles", err)
	}
	views, err := s.denormalize(ctx, articles, viewer, true)
	if err != nil {
		return nil, err
	}
	return &models.ArticleList{Articles: views, ArticlesCount: count}, nil
}

// denormalize attaches tags, favorites and authors to base article rows
// using one keyed query per relation, then merges by id. When withFollowing
// is false the author's following flag is left false.
func (s *Service) denormalize(ctx context.Context, articles []models.Article, viewer *models.AuthUser, withFollowing bool) ([]models.ArticleView, error) {
	views := make([]models.ArticleView, 0, len(articles))
	if len(articles) == 0 {
		return views, nil
	}

	articleIDs := make([]int64, 0, len(articles))
	var authorIDs []int64
	for _, a := range articles {
		articleIDs = append(articleIDs, a.ID)
		if !slices.Contains(authorIDs, a.AuthorID) {
			authorIDs = append(authorIDs, a.AuthorID)
		}
	}

	tags, err := s.repo.TagsByArticle(ctx, articleIDs)
	if err != nil {
		return nil, s.internal("failed to load article tags", err)
	}
	favorites, err := s.repo.FavoritesByArticle(ctx, articleIDs)
	if err != nil {
		return nil, s.internal("failed to load article favorites", err)
	}
	authors, err := s.repo.UsersByID(ctx, authorIDs)
	if err != nil {
		return nil, s.internal("failed to load article authors", err)
	}
	followers := map[int64][]int64{}
	if withFollowing && viewer != nil {
		followers, err = s.repo.FollowersByUser(ctx, authorIDs)
		if err != nil {
			return nil, s.internal("failed to load author followers", err)
		}
	}

	for i := range articles {
		a := &articles[i]
		author, ok := authors[a.AuthorID]
		if !ok {
			return nil, s.internal("failed to load article authors", repository.ErrNotFound)
		}
		following := viewer != nil && slices.Contains(followers[a.AuthorID], viewer.ID)
		views = append(views, buildView(a, tags[a.ID], favorites[a.ID], models.ProfileOf(author, following), viewer))
	}
	return views, nil
}

func buildView(a *models.Article, tags []string, favoritedBy []int64, author models.Profile, viewer *models.AuthUser) models.ArticleView {
	if tags == nil {
		tags = []string{}
	}
	return models.ArticleView{
		ID:             a.ID,
		Slug:           a.Slug,
		Title:          a.Title,
		Description:    a.Description,
		Body:           a.Body,
		TagList:        tags,
		CreatedAt:      a.CreatedAt,
		UpdatedAt:      a.UpdatedAt,
		Favorited:      viewer != nil && slices.Contains(favoritedBy, viewer.ID),
		FavoritesCount: len(favoritedBy),
		Author:         author,
	}
}

// singleView renders one article. The author's following flag is not
// computed on this path and is always false.
func (s *Service) singleView(ctx context.Context, a *models.Article, viewer *models.AuthUser) (*models.ArticleView, error) {
	views, err := s.denormalize(ctx, []models.Article{*a}, viewer, false)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) articleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	article, err := s.repo.FindArticleBySlug(ctx, slug)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("article not found")
	}
	if err != nil {
		return nil, s.internal("failed to find article", err)
	}
	return article, nil
}

// GetArticle returns the first article carrying slug
func (s *Service) GetArticle(ctx context.Context, slug string, viewer *models.AuthUser) (*models.ArticleView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.singleView(ctx, article, viewer)
}

// CreateArticle publishes an article for author, creating missing tags.
// The article, its tags and the links are written in one transaction.
func (s *Service) CreateArticle(ctx context.Context, author *models.AuthUser, in models.NewArticle) (*models.ArticleView, error) {
	article := &models.Article{
		Slug:        utils.Slugify(in.Title),
		Title:       in.Title,
		Description: in.Description,
		Body:        in.Body,
		AuthorID:    author.ID,
	}

	var names []string
	for _, name := range in.TagList {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	var tags []models.Tag
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		if err := tx.CreateArticle(ctx, article); err != nil {
			return err
		}
		if len(names) == 0 {
			return nil
		}
		var err error
		if tags, err = tx.UpsertTags(ctx, names); err != nil {
			return err
		}
		tagIDs := make([]int64, len(tags))
		for i, tag := range tags {
			tagIDs[i] = tag.ID
		}
		return tx.LinkTags(ctx, article.ID, tagIDs)
	})
	if err != nil {
		return nil, s.internal("failed to create article", err)
	}

	tagList := make([]string, len(tags))
	for i, tag := range tags {
		tagList[i] = tag.Name
	}

	s.log.Infof("Article created: %s by user %d", article.Slug, author.ID)
	view := buildView(article, tagList, nil, models.ProfileOfIdentity(author, false), author)
	return &view, nil
}

// UpdateArticle edits an article owned by author. A new title also
// replaces the slug. Articles the author does not own are reported as
// not found.
func (s *Service) UpdateArticle(ctx context.Context, author *models.AuthUser, slug string, upd models.ArticleUpdate) (*models.ArticleView, error) {
	var article *models.Article
	err := s.repo.WithTx(ctx, func(tx *repository.Repository) error {
		var err error
		article, err = tx.FindAuthoredArticle(ctx, slug, author.ID)
		if err != nil {
			return err
		}
		if upd.Title != nil {
			article.Title = *upd.Title
			article.Slug = utils.Slugify(*upd.Title)
		}
		if upd.Description != nil {
			article.Description = *upd.Description
		}
		if upd.Body != nil {
			article.Body = *upd.Body
		}
		return tx.UpdateArticle(ctx, article)
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("article not found")
	}
	if err != nil {
		return nil, s.internal("failed to update article", err)
	}

	s.log.Infof("Article updated: %s by user %d", article.Slug, author.ID)
	return s.singleView(ctx, article, author)
}

// DeleteArticle removes an article owned by author
func (s *Service) DeleteArticle(ctx context.Context, author *models.AuthUser, slug string) (*models.Article, error) {
	article, err := s.repo.DeleteArticle(ctx, slug, author.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("article not found")
	}
	if err != nil {
		return nil, s.internal("failed to delete article", err)
	}

	s.log.Infof("Article deleted: %s by user %d", article.Slug, author.ID)
	return article, nil
}

// FavoriteArticle marks the article as a favorite of user; repeating it changes nothing
func (s *Service) FavoriteArticle(ctx context.Context, user *models.AuthUser, slug string) (*models.ArticleView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Favorite(ctx, article.ID, user.ID); err != nil {
		return nil, s.internal("failed to favorite article", err)
	}
	s.log.Infof("Article favorited: %s by user %d", article.Slug, user.ID)
	return s.singleView(ctx, article, user)
}

// UnfavoriteArticle drops user's favorite if there is one
func (s *Service) UnfavoriteArticle(ctx context.Context, user *models.AuthUser, slug string) (*models.ArticleView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Unfavorite(ctx, article.ID, user.ID); err != nil {
		return nil, s.internal("failed to unfavorite article", err)
	}
	s.log.Infof("Article unfavorited: %s by user %d", article.Slug, user.ID)
	return s.singleView(ctx, article, user)
}
