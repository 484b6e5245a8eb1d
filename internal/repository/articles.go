package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/conduit/conduit-api/internal/models"
)

const articleColumns = `a.id, a.slug, a.title, a.description, a.body, a.created_at, a.updated_at, a.author_id`

// ArticleQuery selects articles for a listing. Empty strings and nil ids
// leave the corresponding criterion out.
type ArticleQuery struct {
	Tag         string
	Author      string
	FavoritedBy *int64
	FollowedBy  *int64
	Limit       int
	Offset      int
}

func (q ArticleQuery) where() (string, []any) {
	var conds []string
	var args []any
	if q.Tag != "" {
		args = append(args, q.Tag)
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM articles_tags atg JOIN tags t ON t.id = atg.tag_id
			WHERE atg.article_id = a.id AND t.name = $%d)`, len(args)))
	}
	if q.Author != "" {
		args = append(args, q.Author)
		conds = append(conds, fmt.Sprintf(`u.username = $%d`, len(args)))
	}
	if q.FavoritedBy != nil {
		args = append(args, *q.FavoritedBy)
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM articles_favorites f
			WHERE f.article_id = a.id AND f.user_id = $%d)`, len(args)))
	}
	if q.FollowedBy != nil {
		args = append(args, *q.FollowedBy)
		conds = append(conds, fmt.Sprintf(`EXISTS (
			SELECT 1 FROM followings fl
			WHERE fl.following_id = a.author_id AND fl.follower_id = $%d)`, len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanArticle(row interface{ Scan(...any) error }) (*models.Article, error) {
	a := &models.Article{}
	err := row.Scan(&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body, &a.CreatedAt, &a.UpdatedAt, &a.AuthorID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListArticles returns one page of matching articles, newest first
func (r *Repository) ListArticles(ctx context.Context, q ArticleQuery) ([]models.Article, error) {
	where, args := q.where()
	args = append(args, q.Limit, q.Offset)
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.author_id%s
		ORDER BY a.id DESC
		LIMIT $%d OFFSET $%d`, articleColumns, where, len(args)-1, len(args))

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := []models.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	return articles, nil
}

// CountArticles counts every article matching q, ignoring Limit and Offset
func (r *Repository) CountArticles(ctx context.Context, q ArticleQuery) (int, error) {
	where, args := q.where()
	query := `SELECT COUNT(a.id) FROM articles a JOIN users u ON u.id = a.author_id` + where
	var count int
	if err := r.q.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

// FindArticleBySlug returns the oldest article carrying the slug
func (r *Repository) FindArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	return r.findArticle(ctx, `a.slug = $1 ORDER BY a.id LIMIT 1`, slug)
}

// FindAuthoredArticle returns the oldest article with the slug written by authorID
func (r *Repository) FindAuthoredArticle(ctx context.Context, slug string, authorID int64) (*models.Article, error) {
	return r.findArticle(ctx, `a.slug = $1 AND a.author_id = $2 ORDER BY a.id LIMIT 1`, slug, authorID)
}

func (r *Repository) findArticle(ctx context.Context, where string, args ...any) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles a WHERE ` + where
	a, err := scanArticle(r.q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}
	return a, nil
}

// CreateArticle inserts the article and fills in its id and timestamps
func (r *Repository) CreateArticle(ctx context.Context, article *models.Article) error {
	ts := now()
	query := `
		INSERT INTO articles (slug, title, description, body, created_at, updated_at, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRowContext(ctx, query,
		article.Slug, article.Title, article.Description, article.Body, ts, ts, article.AuthorID).
		Scan(&article.ID)
	if err != nil {
		return fmt.Errorf("failed to create article: %w", err)
	}
	article.CreatedAt = ts
	article.UpdatedAt = ts
	return nil
}

// UpdateArticle stores slug, title, description and body and refreshes updated_at
func (r *Repository) UpdateArticle(ctx context.Context, article *models.Article) error {
	ts := now()
	query := `
		UPDATE articles
		SET slug = $1, title = $2, description = $3, body = $4, updated_at = $5
		WHERE id = $6`
	res, err := r.q.ExecContext(ctx, query,
		article.Slug, article.Title, article.Description, article.Body, ts, article.ID)
	if err != nil {
		return fmt.Errorf("failed to update article: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	article.UpdatedAt = ts
	return nil
}

// DeleteArticle removes the articles with the slug written by authorID and
// returns the oldest one removed.
func (r *Repository) DeleteArticle(ctx context.Context, slug string, authorID int64) (*models.Article, error) {
	var deleted *models.Article
	err := r.WithTx(ctx, func(tx *Repository) error {
		a, err := tx.FindAuthoredArticle(ctx, slug, authorID)
		if err != nil {
			return err
		}
		query := `DELETE FROM articles WHERE slug = $1 AND author_id = $2`
		if _, err := tx.q.ExecContext(ctx, query, slug, authorID); err != nil {
			return fmt.Errorf("failed to delete article: %w", err)
		}
		deleted = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// Favorite marks the article as favorited by the user. Repeating it is a no-op.
func (r *Repository) Favorite(ctx context.Context, articleID, userID int64) error {
	query := `
		INSERT INTO articles_favorites (article_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.ExecContext(ctx, query, articleID, userID); err != nil {
		return fmt.Errorf("failed to favorite article: %w", err)
	}
	return nil
}

// Unfavorite removes the favorite if present
func (r *Repository) Unfavorite(ctx context.Context, articleID, userID int64) error {
	query := `DELETE FROM articles_favorites WHERE article_id = $1 AND user_id = $2`
	if _, err := r.q.ExecContext(ctx, query, articleID, userID); err != nil {
		return fmt.Errorf("failed to unfavorite article: %w", err)
	}
	return nil
}

// FavoritesByArticle returns favoriting user ids keyed by article id.
// Articles nobody favorited are absent from the map.
func (r *Repository) FavoritesByArticle(ctx context.Context, articleIDs []int64) (map[int64][]int64, error) {
	favorites := make(map[int64][]int64)
	if len(articleIDs) == 0 {
		return favorites, nil
	}
	marks, args := placeholders(1, articleIDs)
	query := `
		SELECT article_id, user_id
		FROM articles_favorites
		WHERE article_id IN (` + marks + `)`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var articleID, userID int64
		if err := rows.Scan(&articleID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		favorites[articleID] = append(favorites[articleID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return favorites, nil
}
