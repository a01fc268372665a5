package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/circle-app/circle-server/internal/infra/database/models"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) Find(ctx context.Context, userID, threadID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Count(&count).Error
	if err != nil {
		return false, translate(err, "like")
	}
	return count > 0, nil
}

// Create relies on uniq_like_user_thread to reject a second like.
func (r *LikeRepository) Create(ctx context.Context, userID, threadID string) error {
	like := models.Like{
		ID:       uuid.NewString(),
		UserID:   userID,
		ThreadID: threadID,
	}
	return translate(r.db.WithContext(ctx).Create(&like).Error, "like")
}

func (r *LikeRepository) Delete(ctx context.Context, userID, threadID string) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND thread_id = ?", userID, threadID).
		Delete(&models.Like{}).Error
	return translate(err, "like")
}

func (r *LikeRepository) CountByTarget(ctx context.Context, threadID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Like{}).
		Where("thread_id = ?", threadID).
		Count(&count).Error
	if err != nil {
		return 0, translate(err, "like")
	}
	return count, nil
}
