package repository

import (
	"context"
	"fmt"
)

// Follow records that follower follows following. Repeating an existing
// edge is a no-op.
func (r *Repository) Follow(ctx context.Context, followerID, followingID int64) error {
	query := `
		INSERT INTO followings (follower_id, following_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	if _, err := r.q.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

// Unfollow removes the follow edge if present
func (r *Repository) Unfollow(ctx context.Context, followerID, followingID int64) error {
	query := `DELETE FROM followings WHERE follower_id = $1 AND following_id = $2`
	if _, err := r.q.ExecContext(ctx, query, followerID, followingID); err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

// FollowerIDs returns the ids of everyone following the user
func (r *Repository) FollowerIDs(ctx context.Context, userID int64) ([]int64, error) {
	followers, err := r.FollowersByUser(ctx, []int64{userID})
	if err != nil {
		return nil, err
	}
	return followers[userID], nil
}

// FollowersByUser returns follower ids keyed by followed user id.
// Users without followers are absent from the map.
func (r *Repository) FollowersByUser(ctx context.Context, userIDs []int64) (map[int64][]int64, error) {
	followers := make(map[int64][]int64)
	if len(userIDs) == 0 {
		return followers, nil
	}
	marks, args := placeholders(1, userIDs)
	query := `
		SELECT following_id, follower_id
		FROM followings
		WHERE following_id IN (` + marks + `)`
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load followers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var followingID, followerID int64
		if err := rows.Scan(&followingID, &followerID); err != nil {
			return nil, fmt.Errorf("failed to scan follower: %w", err)
		}
		followers[followingID] = append(followers[followingID], followerID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load followers: %w", err)
	}
	return followers, nil
}
