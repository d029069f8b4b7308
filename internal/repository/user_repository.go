package repository

import (
	"context"

	"gorm.io/gorm"

	"fitlog/internal/model"
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type userRepository struct {
	store[model.User]
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{store[model.User]{db: db}}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.create(ctx, user)
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.save(ctx, user)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	return r.findByID(ctx, id)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
