package service

import (
	"context"
	"errors"
	"slices"

	"github.com/conduit/conduit-api/internal/models"
	"github.com/conduit/conduit-api/internal/repository"
)

// AddComment posts a comment by author on the article carrying slug
func (s *Service) AddComment(ctx context.Context, author *models.AuthUser, slug, body string) (*models.CommentView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Body:      body,
		ArticleID: article.ID,
		AuthorID:  author.ID,
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, s.internal("failed to create comment", err)
	}

	s.log.Infof("Comment %d added to %s by user %d", comment.ID, article.Slug, author.ID)
	view := commentView(comment, models.ProfileOfIdentity(author, false))
	return &view, nil
}

// ListComments returns the article's comments with each author's profile
// relative to viewer. viewer may be nil.
func (s *Service) ListComments(ctx context.Context, slug string, viewer *models.AuthUser) ([]models.CommentView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.repo.ListComments(ctx, article.ID)
	if err != nil {
		return nil, s.internal("failed to list comments", err)
	}
	views := make([]models.CommentView, 0, len(comments))
	if len(comments) == 0 {
		return views, nil
	}

	var authorIDs []int64
	for _, c := range comments {
		if !slices.Contains(authorIDs, c.AuthorID) {
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	authors, err := s.repo.UsersByID(ctx, authorIDs)
	if err != nil {
		return nil, s.internal("failed to load comment authors", err)
	}
	followers, err := s.repo.FollowersByUser(ctx, authorIDs)
	if err != nil {
		return nil, s.internal("failed to load comment author followers", err)
	}

	for i := range comments {
		c := &comments[i]
		author, ok := authors[c.AuthorID]
		if !ok {
			return nil, s.internal("failed to load comment authors", repository.ErrNotFound)
		}
		following := viewer != nil && slices.Contains(followers[c.AuthorID], viewer.ID)
		views = append(views, commentView(c, models.ProfileOf(author, following)))
	}
	return views, nil
}

// DeleteComment removes a comment written by author on the article.
// A comment on another article or by another user is reported as not found.
func (s *Service) DeleteComment(ctx context.Context, author *models.AuthUser, slug string, id int64) (*models.CommentView, error) {
	article, err := s.articleBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comment, err := s.repo.DeleteComment(ctx, id, article.ID, author.ID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("comment not found")
	}
	if err != nil {
		return nil, s.internal("failed to delete comment", err)
	}

	s.log.Infof("Comment %d deleted from %s by user %d", comment.ID, article.Slug, author.ID)
	view := commentView(comment, models.ProfileOfIdentity(author, false))
	return &view, nil
}

func commentView(c *models.Comment, author models.Profile) models.CommentView {
	return models.CommentView{
		ID:        c.ID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Body:      c.Body,
		Author:    author,
	}
}
