package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"fitlog/internal/service"
)

// SessionHandler handles workout session endpoints.
type SessionHandler struct {
	service service.SessionService
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(s service.SessionService) *SessionHandler {
	return &SessionHandler{service: s}
}

// List godoc
// @Summary List the current user's sessions
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param routineId query int false "Routine ID, must be one of the user's routines"
// @Param date query string false "Date (YYYY-MM-DD)"
// @Success 200 {object} Envelope{data=[]SessionResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /sessions [get]
func (h *SessionHandler) List(c echo.Context) error {
	routineID, err := queryID(c, "routineId")
	if err != nil {
		return Fail(c, err)
	}
	date, err := queryDate(c, "date")
	if err != nil {
		return Fail(c, err)
	}
	sessions, err := h.service.List(c.Request().Context(), actorID(c), service.SessionQuery{RoutineID: routineID, Date: date})
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(sessions, toSessionResponse), "")
}

// Get godoc
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param full query string false "true to include performed exercises"
// @Success 200 {object} Envelope{data=SessionFullResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	full, err := queryBool(c, "full")
	if err != nil {
		return Fail(c, err)
	}
	expand := full != nil && *full

	session, err := h.service.Get(c.Request().Context(), actorID(c), id, expand)
	if err != nil {
		return Fail(c, err)
	}
	if expand {
		return respond(c, http.StatusOK, toSessionFullResponse(session), "")
	}
	return respond(c, http.StatusOK, toSessionResponse(session), "")
}

// Create godoc
// @Summary Log a session
// @Description durationMinutes is derived from startTime and endTime when omitted.
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SessionRequest true "Session"
// @Success 201 {object} Envelope{data=SessionResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req SessionRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	in, err := req.input()
	if err != nil {
		return Fail(c, err)
	}
	session, err := h.service.Create(c.Request().Context(), actorID(c), in)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toSessionResponse(session), "session created successfully")
}

// Update godoc
// @Summary Update a session
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body SessionRequest true "Fields to change"
// @Success 200 {object} Envelope{data=SessionResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id} [put]
func (h *SessionHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req SessionRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	in, err := req.input()
	if err != nil {
		return Fail(c, err)
	}
	session, err := h.service.Update(c.Request().Context(), actorID(c), id, in)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toSessionResponse(session), "session updated successfully")
}

// Delete godoc
// @Summary Delete a session
// @Tags sessions
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.Delete(c.Request().Context(), actorID(c), id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}

// ListExercises godoc
// @Summary List the exercises performed in a session
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Success 200 {object} Envelope{data=[]SessionExerciseResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id}/exercises [get]
func (h *SessionHandler) ListExercises(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	exercises, err := h.service.ListExercises(c.Request().Context(), actorID(c), id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, mapSlice(exercises, toSessionExerciseResponse), "")
}

func sessionExerciseIDs(c echo.Context) (uint, uint, error) {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return 0, 0, err
	}
	id, err := pathID(c, "exerciseId")
	if err != nil {
		return 0, 0, err
	}
	return sessionID, id, nil
}

// GetExercise godoc
// @Summary Get a performed exercise
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param exerciseId path int true "Session exercise ID"
// @Success 200 {object} Envelope{data=SessionExerciseResponse}
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id}/exercises/{exerciseId} [get]
func (h *SessionHandler) GetExercise(c echo.Context) error {
	sessionID, id, err := sessionExerciseIDs(c)
	if err != nil {
		return Fail(c, err)
	}
	se, err := h.service.GetExercise(c.Request().Context(), actorID(c), sessionID, id)
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toSessionExerciseResponse(se), "")
}

// CreateExercise godoc
// @Summary Record a performed exercise
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param request body SessionExerciseRequest true "Performed exercise"
// @Success 201 {object} Envelope{data=SessionExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id}/exercises [post]
func (h *SessionHandler) CreateExercise(c echo.Context) error {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req SessionExerciseRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	se, err := h.service.CreateExercise(c.Request().Context(), actorID(c), sessionID, req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusCreated, toSessionExerciseResponse(se), "exercise recorded successfully")
}

// UpdateExercise godoc
// @Summary Update a performed exercise
// @Tags sessions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param exerciseId path int true "Session exercise ID"
// @Param request body SessionExerciseRequest true "Fields to change"
// @Success 200 {object} Envelope{data=SessionExerciseResponse}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id}/exercises/{exerciseId} [put]
func (h *SessionHandler) UpdateExercise(c echo.Context) error {
	sessionID, id, err := sessionExerciseIDs(c)
	if err != nil {
		return Fail(c, err)
	}
	var req SessionExerciseRequest
	if err := bind(c, &req); err != nil {
		return Fail(c, err)
	}
	se, err := h.service.UpdateExercise(c.Request().Context(), actorID(c), sessionID, id, req.input())
	if err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusOK, toSessionExerciseResponse(se), "exercise updated successfully")
}

// DeleteExercise godoc
// @Summary Remove a performed exercise
// @Tags sessions
// @Security BearerAuth
// @Param id path int true "Session ID"
// @Param exerciseId path int true "Session exercise ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id}/exercises/{exerciseId} [delete]
func (h *SessionHandler) DeleteExercise(c echo.Context) error {
	sessionID, id, err := sessionExerciseIDs(c)
	if err != nil {
		return Fail(c, err)
	}
	if err := h.service.DeleteExercise(c.Request().Context(), actorID(c), sessionID, id); err != nil {
		return Fail(c, err)
	}
	return respond(c, http.StatusNoContent, nil, "")
}
