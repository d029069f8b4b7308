package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fitlog/internal/auth"
	apperrors "fitlog/internal/errors"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

const (
	bcryptCost        = 10
	minPasswordLength = 8
)

var (
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = apperrors.Unauthorized("invalid username or password")
	// ErrInactiveUser is returned when a deactivated user tries to log in.
	ErrInactiveUser = apperrors.Unauthorized("user account is disabled")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = apperrors.Unauthorized("invalid or expired refresh token")
	// ErrInvalidAccessToken is returned when an access token is invalid, expired or revoked.
	ErrInvalidAccessToken = apperrors.Unauthorized("invalid or expired token")
)

// RegisterInput carries the fields accepted at sign-up.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName *string
	LastName  *string
}

// Tokens is an access/refresh token pair.
type Tokens struct {
	Access  string
	Refresh string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.User, *Tokens, error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken string, access *auth.Claims) error
	// Authenticate validates an access token and rejects revoked ones.
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
	}
}

// Register creates a new user with a hashed password.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	fields := fieldErrors{}
	fields.required("username", in.Username != "")
	fields.maxLen("username", &in.Username, 150)
	fields.required("email", in.Email != "")
	if len(in.Password) < minPasswordLength {
		fields.add("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	fields.maxLen("firstName", in.FirstName, 150)
	fields.maxLen("lastName", in.LastName, 150)
	if err := fields.err(); err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, fields, in.Username, in.Email); err != nil {
		return nil, err
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hashedPassword),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, duplicate(err, "username", "a user with that username already exists")
	}
	return user, nil
}

func (s *authService) checkUnique(ctx context.Context, fields fieldErrors, username, email string) error {
	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		fields.add("username", "a user with that username already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		fields.add("email", "a user with that email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("check email: %w", err)
	}
	return nil
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, *Tokens, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrInactiveUser
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username)
	if err != nil {
		return nil, nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, s.jwtService.RefreshTTL()); err != nil {
		return nil, nil, fmt.Errorf("store refresh token: %w", err)
	}

	return user, &Tokens{Access: accessToken, Refresh: refreshToken}, nil
}

// RefreshToken validates a refresh token and returns a new access token.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.jwtService.ValidateTyped(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return "", ErrInvalidRefreshToken
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil || !user.IsActive {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token and blacklists the presented access
// token for the rest of its lifetime.
func (s *authService) Logout(ctx context.Context, refreshToken string, access *auth.Claims) error {
	claims, err := s.jwtService.ValidateTyped(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return ErrInvalidRefreshToken
	}
	if access != nil && claims.UserID != access.UserID {
		return ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, claims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if access != nil && access.ID != "" && access.ExpiresAt != nil {
		if ttl := time.Until(access.ExpiresAt.Time); ttl > 0 {
			if err := s.tokenStore.BlacklistAccessToken(ctx, access.ID, ttl); err != nil {
				return fmt.Errorf("blacklist access token: %w", err)
			}
		}
	}
	return nil
}

// Authenticate validates an access token and checks the blacklist.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateTyped(accessToken, auth.TokenTypeAccess)
	if err != nil {
		return nil, ErrInvalidAccessToken
	}
	revoked, err := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked {
		return nil, ErrInvalidAccessToken
	}
	return claims, nil
}
