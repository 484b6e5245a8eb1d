package service

import (
	"context"
	"errors"
	"slices"

	"github.com/conduit/conduit-api/internal/models"
	"github.com/conduit/conduit-api/internal/repository"
)

func (s *Service) userByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.repo.FindUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, NotFound("user not found")
	}
	if err != nil {
		return nil, s.internal("failed to find user", err)
	}
	return user, nil
}

// GetProfile returns username's profile; following is relative to viewer, which may be nil
func (s *Service) GetProfile(ctx context.Context, username string, viewer *models.AuthUser) (*models.Profile, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	followers, err := s.repo.FollowerIDs(ctx, user.ID)
	if err != nil {
		return nil, s.internal("failed to load followers", err)
	}
	profile := models.ProfileOf(user, viewer != nil && slices.Contains(followers, viewer.ID))
	return &profile, nil
}

// FollowUser makes follower follow username. Following twice keeps a single edge.
func (s *Service) FollowUser(ctx context.Context, follower *models.AuthUser, username string) (*models.Profile, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Follow(ctx, follower.ID, user.ID); err != nil {
		return nil, s.internal("failed to follow user", err)
	}
	s.log.Infof("User %d followed %s", follower.ID, user.Username)
	profile := models.ProfileOf(user, true)
	return &profile, nil
}

// UnfollowUser removes follower's edge to username if present
func (s *Service) UnfollowUser(ctx context.Context, follower *models.AuthUser, username string) (*models.Profile, error) {
	user, err := s.userByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Unfollow(ctx, follower.ID, user.ID); err != nil {
		return nil, s.internal("failed to unfollow user", err)
	}
	s.log.Infof("User %d unfollowed %s", follower.ID, user.Username)
	profile := models.ProfileOf(user, false)
	return &profile, nil
}
