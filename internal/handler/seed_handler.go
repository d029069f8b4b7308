package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fitlog/internal/seed"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seeder *seed.Seeder
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder *seed.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// SeedExercises godoc
// @Summary Load the built-in exercise catalog
// @Description Exercises are matched by name; existing ones are left untouched.
// @Tags seed
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Envelope{data=seed.Result}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/exercises [post]
func (h *SeedHandler) SeedExercises(c echo.Context) error {
	entries, err := seed.Catalog()
	if err != nil {
		return Fail(c, err)
	}

	res, err := h.seeder.Run(c.Request().Context(), entries, nil)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, res, "exercise catalog seeded")
}
