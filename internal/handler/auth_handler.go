package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fitlog/internal/service"
)

// AuthHandler handles registration and token endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,max=150"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8"`
	FirstName *string `json:"firstName" validate:"omitempty,max=150"`
	LastName  *string `json:"lastName" validate:"omitempty,max=150"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// TokenPair is an access/refresh token pair.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// Register godoc
// @Summary Register a new user
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} Envelope{data=UserResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}

	user, err := h.authService.Register(c.Request().Context(), service.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toUserResponse(user), "user registered successfully")
}

// Login godoc
// @Summary Log in with username and password
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} Envelope{data=LoginResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}

	user, tokens, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, LoginResponse{
		User:   toUserResponse(user),
		Tokens: TokenPair{Access: tokens.Access, Refresh: tokens.Refresh},
	}, "")
}

// Refresh godoc
// @Summary Exchange a refresh token for a new access token
// @Tags users
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Envelope{data=TokenPair}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}

	access, err := h.authService.RefreshToken(c.Request().Context(), req.Refresh)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, TokenPair{Access: access}, "")
}

// Logout godoc
// @Summary Revoke the refresh token and the current access token
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} Envelope
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}

	if err := h.authService.Logout(c.Request().Context(), req.Refresh, actor(c)); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, nil, "logged out successfully")
}
