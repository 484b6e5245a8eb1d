package service

import (
	"context"

	"github.com/conduit/conduit-api/internal/models"
)

// ListTags returns the whole tag catalog, unordered
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.repo.ListTags(ctx)
	if err != nil {
		return nil, s.internal("failed to list tags", err)
	}
	return tags, nil
}

// CreateTag adds a tag to the catalog. A name that already exists is not
// special-cased and fails like any other storage error.
func (s *Service) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	tag, err := s.repo.CreateTag(ctx, name)
	if err != nil {
		return nil, s.internal("failed to create tag", err)
	}
	s.log.Infof("Tag created: %s", tag.Name)
	return tag, nil
}
