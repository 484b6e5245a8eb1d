package repository

import (
	"context"
	"fmt"

	"github.com/conduit/conduit-api/internal/models"
)

// ListTags returns every tag in the catalog
func (r *Repository) ListTags(ctx context.Context) ([]models.Tag, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name FROM tags`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []models.Tag{}
	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag inserts a tag. A name already in the catalog is a storage error.
func (r *Repository) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag := &models.Tag{}
	err := r.q.QueryRowContext(ctx, `INSERT INTO tags (name) VALUES ($1) RETURNING id, name`, name).
		Scan(&tag.ID, &tag.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// UpsertTags inserts the named tags, returning the existing row for names
// already in the catalog. Order follows names.
func (r *Repository) UpsertTags(ctx context.Context, names []string) ([]models.Tag, error) {
	query := `
		INSERT INTO tags (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = excluded.name
		RETURNING id, name`
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		var tag models.Tag
		if err := r.q.QueryRowContext(ctx, query, name).Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to upsert tag %q: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// LinkTags attaches the tags to the article
func (r *Repository) LinkTags(ctx context.Context, articleID int64, tagIDs []int64) error {
	query := `
		INSERT INTO articles_tags (article_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	for _, tagID := range tagIDs {
		if _, err := r.q.ExecContext(ctx, query, articleID, tagID); err != nil {
			return fmt.Errorf("failed to link tag %d: %w", tagID, err)
		}
	}
	return nil
}

// TagsByArticle returns tag names keyed by article id, newest tag first.
// Untagged articles are absent from the map.
func (r *Repository) TagsByArticle(ctx context.Context, articleIDs []int64) (map[int64][]string, error) {
	tags := make(map[int64][]string)
	if len(articleIDs) == 0 {
		return tags, nil
	}
	marks, args := placeholders(1, articleIDs)
	query := `
		SELECT atg.article_id, t.name
		FROM articles_tags atg
		JOIN tags t ON t.id = atg.tag_id
		WHERE atg.article_id IN (` + marks + `)
		ORDER BY t.id DESC`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var articleID int64
		var name string
		if err := rows.Scan(&articleID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags[articleID] = append(tags[articleID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	return tags, nil
}
