package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"fitlog/internal/service"
)

// UserHandler exposes the authenticated user's profile.
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// ProfileRequest is the body for updating the current user's profile.
type ProfileRequest struct {
	Email       *string          `json:"email" validate:"omitempty,email"`
	FirstName   *string          `json:"firstName" validate:"omitempty,max=150"`
	LastName    *string          `json:"lastName" validate:"omitempty,max=150"`
	DateOfBirth *string          `json:"dateOfBirth"`
	Gender      *string          `json:"gender"`
	Height      *decimal.Decimal `json:"height" swaggertype:"string"`
	Weight      *decimal.Decimal `json:"weight" swaggertype:"string"`
}

// Me godoc
// @Summary Get the current user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=UserResponse}
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	user, err := h.service.GetProfile(c.Request().Context(), actorID(c))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toUserResponse(user), "")
}

// UpdateMe godoc
// @Summary Update the current user's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProfileRequest true "Profile fields"
// @Success 200 {object} Envelope{data=UserResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req ProfileRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	dob, err := optionalDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return Fail(c, err)
	}

	user, err := h.service.UpdateProfile(c.Request().Context(), actorID(c), service.ProfileInput{
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: dob,
		Gender:      req.Gender,
		Height:      req.Height,
		Weight:      req.Weight,
	})
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toUserResponse(user), "profile updated successfully")
}
