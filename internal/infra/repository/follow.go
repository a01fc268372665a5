package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/infra/database/models"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) Find(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Following{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "follow")
	}
	return count > 0, nil
}

func (r *FollowRepository) Create(ctx context.Context, followerID, followingID string) error {
	follow := models.Following{
		FollowerID:  followerID,
		FollowingID: followingID,
	}
	return translate(r.db.WithContext(ctx).Create(&follow).Error, "follow")
}

func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID string) error {
	err := r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Following{}).Error
	return translate(err, "follow")
}

// CountByTarget is the follower count of followingID.
func (r *FollowRepository) CountByTarget(ctx context.Context, followingID string) (int64, error) {
	return r.count(ctx, "following_id = ?", followingID)
}

// CountByActor is the number of users followerID follows.
func (r *FollowRepository) CountByActor(ctx context.Context, followerID string) (int64, error) {
	return r.count(ctx, "follower_id = ?", followerID)
}

func (r *FollowRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Following{}).Where(query, args...).Count(&count).Error
	if err != nil {
		return 0, translate(err, "follow")
	}
	return count, nil
}

func (r *FollowRepository) Followers(ctx context.Context, userID string) ([]domain.User, error) {
	return r.list(ctx, "followings.follower_id", "followings.following_id = ?", userID)
}

func (r *FollowRepository) Following(ctx context.Context, userID string) ([]domain.User, error) {
	return r.list(ctx, "followings.following_id", "followings.follower_id = ?", userID)
}

func (r *FollowRepository) list(ctx context.Context, joinColumn, query string, userID string) ([]domain.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN followings ON users.id = "+joinColumn).
		Where(query, userID).
		Order("followings.created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, translate(err, "follow")
	}
	return toUsers(users), nil
}

func (r *FollowRepository) FollowedAmong(ctx context.Context, followerID string, candidates []string) (map[string]bool, error) {
	followed := make(map[string]bool, len(candidates))
	if len(candidates) == 0 {
		return followed, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Following{}).
		Where("follower_id = ? AND following_id IN ?", followerID, candidates).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, translate(err, "follow")
	}

	for _, id := range ids {
		followed[id] = true
	}
	return followed, nil
}
