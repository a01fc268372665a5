package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/circle-app/circle-server/internal/domain"
	"github.com/circle-app/circle-server/internal/infra/database/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	model := models.User{
		ID:              user.ID,
		Username:        user.Username,
		FullName:        user.FullName,
		Email:           user.Email,
		Password:        user.PasswordHash,
		PhotoProfile:    user.PhotoProfile,
		BackgroundPhoto: user.BackgroundPhoto,
		Bio:             user.Bio,
	}
	return translate(r.db.WithContext(ctx).Create(&model).Error, "user")
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.take(ctx, "id = ?", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.take(ctx, "LOWER(email) = ?", strings.ToLower(email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.take(ctx, "username = ?", username)
}

// FindByIdentifier prefers an email match over a username match.
func (r *UserRepository) FindByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	user, err := r.FindByEmail(ctx, identifier)
	if !errors.Is(err, domain.ErrNotFound) {
		return user, err
	}
	return r.FindByUsername(ctx, identifier)
}

func (r *UserRepository) take(ctx context.Context, query string, args ...any) (domain.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where(query, args...).Take(&user).Error
	if err != nil {
		return domain.User{}, translate(err, "user")
	}
	return toUser(user), nil
}

func (r *UserRepository) Update(ctx context.Context, id string, update domain.ProfileUpdate) (domain.User, error) {
	values := map[string]any{}
	if update.FullName != nil {
		values["full_name"] = *update.FullName
	}
	if update.Username != nil {
		values["username"] = *update.Username
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.Bio != nil {
		values["bio"] = *update.Bio
	}
	if update.PhotoProfile != nil {
		values["photo_profile"] = *update.PhotoProfile
	}
	if update.BackgroundPhoto != nil {
		values["background_photo"] = *update.BackgroundPhoto
	}

	if len(values) > 0 {
		err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(values).Error
		if err != nil {
			return domain.User{}, translate(err, "username or email")
		}
	}
	return r.FindByID(ctx, id)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *UserRepository) Search(ctx context.Context, keyword, excludeID string, limit int) ([]domain.User, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"

	q := r.db.WithContext(ctx).
		Where("id <> ?", excludeID).
		Where(`LOWER(username) LIKE ? ESCAPE '\' OR LOWER(full_name) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("username ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, translate(err, "user")
	}
	return toUsers(users), nil
}

func (r *UserRepository) Suggest(ctx context.Context, followerID string, limit int) ([]domain.User, error) {
	q := r.db.WithContext(ctx).
		Where("id <> ?", followerID).
		Where("id NOT IN (?)", r.db.Model(&models.Following{}).Select("following_id").Where("follower_id = ?", followerID)).
		Order("RANDOM()")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		return nil, translate(err, "user")
	}
	return toUsers(users), nil
}

func toUser(m models.User) domain.User {
	return domain.User{
		ID:              m.ID,
		Username:        m.Username,
		FullName:        m.FullName,
		Email:           m.Email,
		PasswordHash:    m.Password,
		PhotoProfile:    m.PhotoProfile,
		BackgroundPhoto: m.BackgroundPhoto,
		Bio:             m.Bio,
		CreatedAt:       m.CreatedAt,
	}
}

func toUsers(ms []models.User) []domain.User {
	users := make([]domain.User, 0, len(ms))
	for _, m := range ms {
		users = append(users, toUser(m))
	}
	return users
}
