package repositoryImp

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"larsbees/entities"
	"larsbees/pkg/apperr"
	"larsbees/pkg/auth/repository"
)

type userRepo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.UserRepository { return &userRepo{db} }

func (r *userRepo) Create(ctx context.Context, u *entities.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepo) Update(ctx context.Context, u *entities.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepo) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	return r.first(ctx, "user_id = ?", id)
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *userRepo) FindByCalendarToken(ctx context.Context, token string) (*entities.User, error) {
	if token == "" {
		return nil, apperr.ErrNotFound
	}
	return r.first(ctx, "calendar_token = ? AND is_active = ?", token, true)
}

func (r *userRepo) Taken(ctx context.Context, username, email string, exceptID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&entities.User{}).
		Where("(username = ? OR email = ?) AND user_id <> ?", username, email, exceptID).
		Count(&n).Error
	return n > 0, err
}

func (r *userRepo) List(ctx context.Context, search string) ([]entities.User, error) {
	q := r.db.WithContext(ctx).Model(&entities.User{})
	if search != "" {
		like := "%" + search + "%"
		q = q.Where("username LIKE ? OR email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like, like)
	}
	var out []entities.User
	return out, q.Order("created_at desc, user_id desc").Find(&out).Error
}

func (r *userRepo) first(ctx context.Context, where string, args ...any) (*entities.User, error) {
	var u entities.User
	err := r.db.WithContext(ctx).Where(where, args...).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
