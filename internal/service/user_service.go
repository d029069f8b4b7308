package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"fitlog/internal/cache"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// ProfileInput carries profile changes; nil fields are left untouched.
type ProfileInput struct {
	Email       *string
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	Gender      *string
	Height      *decimal.Decimal
	Weight      *decimal.Decimal
}

// UserService exposes profile operations for the authenticated user.
type UserService interface {
	GetProfile(ctx context.Context, id uint) (*model.User, error)
	UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uint) string {
	return fmt.Sprintf("user:%d", id)
}

func (s *userService) GetProfile(ctx context.Context, id uint) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id uint, in ProfileInput) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}

	in.Email = trimmed(in.Email)
	fields := fieldErrors{}
	fields.notBlank("email", in.Email)
	fields.maxLen("firstName", in.FirstName, 150)
	fields.maxLen("lastName", in.LastName, 150)
	fields.choice("gender", in.Gender, model.Genders)
	if in.Height != nil && in.Height.IsNegative() {
		fields.add("height", "must be greater than or equal to 0")
	}
	if in.Weight != nil && in.Weight.IsNegative() {
		fields.add("weight", "must be greater than or equal to 0")
	}
	if in.Email != nil && *in.Email != "" && !strings.EqualFold(*in.Email, user.Email) {
		other, err := s.repo.FindByEmail(ctx, *in.Email)
		if err == nil && other.ID != user.ID {
			fields.add("email", "a user with that email already exists")
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check email: %w", err)
		}
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if in.Email != nil {
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = in.FirstName
	}
	if in.LastName != nil {
		user.LastName = in.LastName
	}
	if in.DateOfBirth != nil {
		user.DateOfBirth = in.DateOfBirth
	}
	if in.Gender != nil {
		user.Gender = in.Gender
	}
	if in.Height != nil {
		user.Height = in.Height
	}
	if in.Weight != nil {
		user.Weight = in.Weight
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, duplicate(err, "email", "a user with that email already exists")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return user, nil
}
