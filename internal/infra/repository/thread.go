package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/infra/database/models"
)

type ThreadRepository struct {
	db *gorm.DB
}

func NewThreadRepository(db *gorm.DB) *ThreadRepository {
	return &ThreadRepository{db: db}
}

// threadRow is one thread joined with its author and counters.
type threadRow struct {
	ID           string
	Content      string
	Image        *string
	CreatedAt    time.Time
	UserID       string
	Username     string
	FullName     string
	PhotoProfile *string
	Likes        int64
	Replies      int64
	IsLiked      bool
}

func (row threadRow) view() domain.ThreadView {
	return domain.ThreadView{
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
		Likes:   row.Likes,
		Replies: row.Replies,
		IsLiked: row.IsLiked,
	}
}

func (r *ThreadRepository) Create(ctx context.Context, thread domain.Thread) error {
	model := models.Thread{
		ID:        thread.ID,
		Content:   thread.Content,
		Image:     thread.Image,
		CreatedBy: thread.CreatedBy,
		CreatedAt: thread.CreatedAt,
	}
	return translate(r.db.WithContext(ctx).Create(&model).Error, "thread")
}

func (r *ThreadRepository) FindByID(ctx context.Context, id string) (domain.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&thread).Error
	if err != nil {
		return domain.Thread{}, translate(err, "thread")
	}
	return domain.Thread{
		ID:        thread.ID,
		Content:   thread.Content,
		Image:     thread.Image,
		CreatedBy: thread.CreatedBy,
		CreatedAt: thread.CreatedAt,
	}, nil
}

func (r *ThreadRepository) views(ctx context.Context, viewerID string) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("threads AS t").
		Select(`t.id, t.content, t.image, t.created_at,
			u.id AS user_id, u.username, u.full_name, u.photo_profile,
			(SELECT COUNT(*) FROM likes l WHERE l.thread_id = t.id) AS likes,
			(SELECT COUNT(*) FROM replies r WHERE r.thread_id = t.id) AS replies,
			EXISTS (SELECT 1 FROM likes v WHERE v.thread_id = t.id AND v.user_id = ?) AS is_liked`, viewerID).
		Joins("JOIN users u ON u.id = t.created_by")
}

func (r *ThreadRepository) View(ctx context.Context, id, viewerID string) (domain.ThreadView, error) {
	var rows []threadRow
	err := r.views(ctx, viewerID).Where("t.id = ?", id).Limit(1).Scan(&rows).Error
	if err != nil {
		return domain.ThreadView{}, translate(err, "thread")
	}
	if len(rows) == 0 {
		return domain.ThreadView{}, domain.NotFoundError{Resource: "thread"}
	}
	return rows[0].view(), nil
}

func (r *ThreadRepository) List(ctx context.Context, viewerID string, filter domain.ThreadFilter) ([]domain.ThreadView, error) {
	q := r.views(ctx, viewerID).Order("t.created_at DESC, t.id DESC")
	if filter.AuthorID != "" {
		q = q.Where("t.created_by = ?", filter.AuthorID)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		q = q.Offset(filter.Offset)
	}

	var rows []threadRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, translate(err, "thread")
	}

	views := make([]domain.ThreadView, 0, len(rows))
	for _, row := range rows {
		views = append(views, row.view())
	}
	return views, nil
}
