package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fitlog/internal/service"
)

// ExerciseHandler handles the exercise library endpoints.
type ExerciseHandler struct {
	service service.ExerciseService
}

// NewExerciseHandler creates an ExerciseHandler.
func NewExerciseHandler(s service.ExerciseService) *ExerciseHandler {
	return &ExerciseHandler{service: s}
}

// List godoc
// @Summary List exercises
// @Description Active exercises only unless isActive is given.
// @Tags exercises
// @Produce json
// @Param primaryMuscleGroup query string false "Primary muscle group"
// @Param equipment query string false "Equipment"
// @Param difficulty query string false "Difficulty"
// @Param isActive query string false "true/false"
// @Param createdBy query int false "Creator user ID"
// @Param search query string false "Search in name and description"
// @Param ordering query string false "Field to order by, prefix with - for descending"
// @Success 200 {object} Envelope{data=[]ExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /exercises [get]
func (h *ExerciseHandler) List(c echo.Context) error {
	isActive, err := queryBool(c, "isActive")
	if err != nil {
		return Fail(c, err)
	}
	createdBy, err := queryID(c, "createdBy")
	if err != nil {
		return Fail(c, err)
	}

	exercises, err := h.service.List(c.Request().Context(), service.ExerciseQuery{
		PrimaryMuscleGroup: c.QueryParam("primaryMuscleGroup"),
		Equipment:          c.QueryParam("equipment"),
		Difficulty:         c.QueryParam("difficulty"),
		IsActive:           isActive,
		CreatedBy:          createdBy,
		Search:             c.QueryParam("search"),
		Ordering:           c.QueryParam("ordering"),
	})
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(exercises, toExerciseResponse), "")
}

// Get godoc
// @Summary Get an exercise
// @Tags exercises
// @Produce json
// @Param id path int true "Exercise ID"
// @Success 200 {object} Envelope{data=ExerciseResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	exercise, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toExerciseResponse(exercise), "")
}

// Create godoc
// @Summary Create an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExerciseRequest true "Exercise"
// @Success 201 {object} Envelope{data=ExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /exercises [post]
func (h *ExerciseHandler) Create(c echo.Context) error {
	var req ExerciseRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	exercise, err := h.service.Create(c.Request().Context(), actorID(c), req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toExerciseResponse(exercise), "exercise created successfully")
}

// Update godoc
// @Summary Update an exercise
// @Tags exercises
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Param request body ExerciseRequest true "Fields to change"
// @Success 200 {object} Envelope{data=ExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /exercises/{id} [put]
func (h *ExerciseHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req ExerciseRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	exercise, err := h.service.Update(c.Request().Context(), actorID(c), id, req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toExerciseResponse(exercise), "exercise updated successfully")
}

// Delete godoc
// @Summary Deactivate an exercise
// @Tags exercises
// @Security BearerAuth
// @Param id path int true "Exercise ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /exercises/{id} [delete]
func (h *ExerciseHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.Delete(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}
