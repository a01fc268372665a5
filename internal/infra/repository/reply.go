package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/infra/database/models"
)

type ReplyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

func (r *ReplyRepository) Create(ctx context.Context, reply domain.Reply) error {
	model := models.Reply{
		ID:        reply.ID,
		ThreadID:  reply.ThreadID,
		UserID:    reply.UserID,
		Content:   reply.Content,
		Image:     reply.Image,
		CreatedAt: reply.CreatedAt,
	}
	return translate(r.db.WithContext(ctx).Create(&model).Error, "reply")
}

// ListByThread returns the replies of threadID, newest first.
func (r *ReplyRepository) ListByThread(ctx context.Context, threadID string) ([]domain.ReplyView, error) {
	var rows []struct {
		ID           string
		Content      string
		Image        *string
		CreatedAt    time.Time
		UserID       string
		Username     string
		FullName     string
		PhotoProfile *string
	}
	err := r.db.WithContext(ctx).
		Table("replies AS r").
		Select("r.id, r.content, r.image, r.created_at, u.id AS user_id, u.username, u.full_name, u.photo_profile").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.thread_id = ?", threadID).
		Order("r.created_at DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err, "reply")
	}

	replies := make([]domain.ReplyView, 0, len(rows))
	for _, row := range rows {
		replies = append(replies, domain.ReplyView{
			ID:        row.ID,
			Content:   row.Content,
			Image:     row.Image,
			CreatedAt: row.CreatedAt,
			User: domain.UserSummary{
				ID:             row.UserID,
				Username:       row.Username,
				Name:           row.FullName,
				ProfilePicture: row.PhotoProfile,
			},
		})
	}
	return replies, nil
}
