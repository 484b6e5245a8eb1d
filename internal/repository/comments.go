package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/conduit/conduit-api/internal/models"
)

const commentColumns = `id, created_at, updated_at, body, article_id, author_id`

func scanComment(row interface{ Scan(...any) error }) (*models.Comment, error) {
	c := &models.Comment{}
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt, &c.Body, &c.ArticleID, &c.AuthorID); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateComment inserts the comment and fills in its id and timestamps
func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	ts := now()
	query := `
		INSERT INTO comments (created_at, updated_at, body, article_id, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query, ts, ts, comment.Body, comment.ArticleID, comment.AuthorID).
		Scan(&comment.ID)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.CreatedAt = ts
	comment.UpdatedAt = ts
	return nil
}

// ListComments returns the article's comments, oldest first
func (r *Repository) ListComments(ctx context.Context, articleID int64) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE article_id = $1 ORDER BY id`
	rows, err := r.q.QueryContext(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

// DeleteComment removes the comment only when id, article and author all match
func (r *Repository) DeleteComment(ctx context.Context, id, articleID, authorID int64) (*models.Comment, error) {
	var deleted *models.Comment
	err := r.WithTx(ctx, func(tx *Repository) error {
		query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1 AND article_id = $2 AND author_id = $3`
		c, err := scanComment(tx.q.QueryRowContext(ctx, query, id, articleID, authorID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to find comment: %w", err)
		}
		if _, err := tx.q.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id); err != nil {
			return fmt.Errorf("failed to delete comment: %w", err)
		}
		deleted = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
