package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fitlog/internal/service"
)

// RoutineHandler handles routines and their nested weeks, days, blocks and
// routine exercises.
type RoutineHandler struct {
	service service.RoutineService
}

// NewRoutineHandler creates a RoutineHandler.
func NewRoutineHandler(s service.RoutineService) *RoutineHandler {
	return &RoutineHandler{service: s}
}

// List godoc
// @Summary List the current user's routines
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param isActive query string false "true/false, default true"
// @Success 200 {object} Envelope{data=[]RoutineResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /routines [get]
func (h *RoutineHandler) List(c echo.Context) error {
	isActive, err := queryBool(c, "isActive")
	if err != nil {
		return Fail(c, err)
	}
	routines, err := h.service.List(c.Request().Context(), actorID(c), isActive)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(routines, toRoutineResponse), "")
}

// Get godoc
// @Summary Get a routine
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Routine ID"
// @Param full query string false "true to include the whole hierarchy"
// @Success 200 {object} Envelope{data=RoutineFullResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /routines/{id} [get]
func (h *RoutineHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	full, err := queryBool(c, "full")
	if err != nil {
		return Fail(c, err)
	}
	expand := full != nil && *full

	routine, err := h.service.Get(c.Request().Context(), actorID(c), id, expand)
	if err != nil {
		return Fail(c, err)
	}
	if expand {
		return respond(c, http.StatusOK, toRoutineFullResponse(routine), "")
	}
	return respond(c, http.StatusOK, toRoutineResponse(routine), "")
}

// Create godoc
// @Summary Create a routine
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body RoutineRequest true "Routine"
// @Success 201 {object} Envelope{data=RoutineResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /routines [post]
func (h *RoutineHandler) Create(c echo.Context) error {
	var req RoutineRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	routine, err := h.service.Create(c.Request().Context(), actorID(c), req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toRoutineResponse(routine), "routine created successfully")
}

// Update godoc
// @Summary Update a routine
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Routine ID"
// @Param request body RoutineRequest true "Fields to change"
// @Success 200 {object} Envelope{data=RoutineResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routines/{id} [put]
func (h *RoutineHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req RoutineRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	routine, err := h.service.Update(c.Request().Context(), actorID(c), id, req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toRoutineResponse(routine), "routine updated successfully")
}

// Delete godoc
// @Summary Deactivate a routine
// @Tags routines
// @Security BearerAuth
// @Param id path int true "Routine ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routines/{id} [delete]
func (h *RoutineHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.Delete(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}

// ListWeeks godoc
// @Summary List the weeks of a routine
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Routine ID"
// @Success 200 {object} Envelope{data=[]WeekResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /routines/{id}/weeks [get]
func (h *RoutineHandler) ListWeeks(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	weeks, err := h.service.ListWeeks(c.Request().Context(), actorID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(weeks, toWeekResponse), "")
}

// CreateWeek godoc
// @Summary Add a week to a routine
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Routine ID"
// @Param request body WeekRequest true "Week"
// @Success 201 {object} Envelope{data=WeekResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routines/{id}/weeks [post]
func (h *RoutineHandler) CreateWeek(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req WeekRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	week, err := h.service.CreateWeek(c.Request().Context(), actorID(c), id, service.WeekInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toWeekResponse(week), "week created successfully")
}

// UpdateWeek godoc
// @Summary Update a week
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Week ID"
// @Param request body WeekRequest true "Fields to change"
// @Success 200 {object} Envelope{data=WeekResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /weeks/{id} [put]
func (h *RoutineHandler) UpdateWeek(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req WeekRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	week, err := h.service.UpdateWeek(c.Request().Context(), actorID(c), id, service.WeekInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toWeekResponse(week), "week updated successfully")
}

// DeleteWeek godoc
// @Summary Delete a week and everything in it
// @Tags routines
// @Security BearerAuth
// @Param id path int true "Week ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /weeks/{id} [delete]
func (h *RoutineHandler) DeleteWeek(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.DeleteWeek(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}

// ListDays godoc
// @Summary List the days of a week
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Week ID"
// @Success 200 {object} Envelope{data=[]DayResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /weeks/{id}/days [get]
func (h *RoutineHandler) ListDays(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	days, err := h.service.ListDays(c.Request().Context(), actorID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(days, toDayResponse), "")
}

// CreateDay godoc
// @Summary Add a day to a week
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Week ID"
// @Param request body DayRequest true "Day"
// @Success 201 {object} Envelope{data=DayResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /weeks/{id}/days [post]
func (h *RoutineHandler) CreateDay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req DayRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	day, err := h.service.CreateDay(c.Request().Context(), actorID(c), id, service.DayInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toDayResponse(day), "day created successfully")
}

// UpdateDay godoc
// @Summary Update a day
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Day ID"
// @Param request body DayRequest true "Fields to change"
// @Success 200 {object} Envelope{data=DayResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /days/{id} [put]
func (h *RoutineHandler) UpdateDay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req DayRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	day, err := h.service.UpdateDay(c.Request().Context(), actorID(c), id, service.DayInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toDayResponse(day), "day updated successfully")
}

// DeleteDay godoc
// @Summary Delete a day and everything in it
// @Tags routines
// @Security BearerAuth
// @Param id path int true "Day ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /days/{id} [delete]
func (h *RoutineHandler) DeleteDay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.DeleteDay(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}

// ListBlocks godoc
// @Summary List the blocks of a day
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Day ID"
// @Success 200 {object} Envelope{data=[]BlockResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /days/{id}/blocks [get]
func (h *RoutineHandler) ListBlocks(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	blocks, err := h.service.ListBlocks(c.Request().Context(), actorID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(blocks, toBlockResponse), "")
}

// CreateBlock godoc
// @Summary Add a block to a day
// @Description A missing or zero order places the block after the last one.
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Day ID"
// @Param request body BlockRequest true "Block"
// @Success 201 {object} Envelope{data=BlockResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /days/{id}/blocks [post]
func (h *RoutineHandler) CreateBlock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req BlockRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	block, err := h.service.CreateBlock(c.Request().Context(), actorID(c), id, service.BlockInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toBlockResponse(block), "block created successfully")
}

// UpdateBlock godoc
// @Summary Update a block
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Block ID"
// @Param request body BlockRequest true "Fields to change"
// @Success 200 {object} Envelope{data=BlockResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blocks/{id} [put]
func (h *RoutineHandler) UpdateBlock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req BlockRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	block, err := h.service.UpdateBlock(c.Request().Context(), actorID(c), id, service.BlockInput(req))
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toBlockResponse(block), "block updated successfully")
}

// DeleteBlock godoc
// @Summary Delete a block and its exercises
// @Tags routines
// @Security BearerAuth
// @Param id path int true "Block ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blocks/{id} [delete]
func (h *RoutineHandler) DeleteBlock(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.DeleteBlock(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}

// ListExercises godoc
// @Summary List the exercises of a block
// @Tags routines
// @Produce json
// @Security BearerAuth
// @Param id path int true "Block ID"
// @Success 200 {object} Envelope{data=[]RoutineExerciseResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /blocks/{id}/exercises [get]
func (h *RoutineHandler) ListExercises(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	exercises, err := h.service.ListExercises(c.Request().Context(), actorID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(exercises, toRoutineExerciseResponse), "")
}

// CreateExercise godoc
// @Summary Add an exercise to a block
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Block ID"
// @Param request body RoutineExerciseRequest true "Exercise slot"
// @Success 201 {object} Envelope{data=RoutineExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /blocks/{id}/exercises [post]
func (h *RoutineHandler) CreateExercise(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req RoutineExerciseRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	re, err := h.service.CreateExercise(c.Request().Context(), actorID(c), id, req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toRoutineExerciseResponse(re), "exercise added successfully")
}

// UpdateExercise godoc
// @Summary Update an exercise slot
// @Tags routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Routine exercise ID"
// @Param request body RoutineExerciseRequest true "Fields to change"
// @Success 200 {object} Envelope{data=RoutineExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routine-exercises/{id} [put]
func (h *RoutineHandler) UpdateExercise(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req RoutineExerciseRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	re, err := h.service.UpdateExercise(c.Request().Context(), actorID(c), id, req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toRoutineExerciseResponse(re), "exercise updated successfully")
}

// DeleteExercise godoc
// @Summary Remove an exercise slot
// @Tags routines
// @Security BearerAuth
// @Param id path int true "Routine exercise ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /routine-exercises/{id} [delete]
func (h *RoutineHandler) DeleteExercise(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.DeleteExercise(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}
