package service

import (
	"context"

	"github.com/conduit/conduit-api/internal/config"
	"github.com/conduit/conduit-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// Service handles business logic
type Service struct {
	repo   *repository.Repository
	log    *logrus.Logger
	config *config.Config
}

// NewService initializes a new service
func NewService(repo *repository.Repository, log *logrus.Logger, cfg *config.Config) *Service {
	return &Service{repo: repo, log: log, config: cfg}
}

// internal logs an unexpected failure and hides it behind an InternalError
func (s *Service) internal(msg string, err error) *Error {
	s.log.Errorf("%s: %v", msg, err)
	return Internal(msg, err)
}

// Ping reports whether the database is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
