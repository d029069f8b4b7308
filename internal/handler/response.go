package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"fitlog/internal/auth"
	"fitlog/internal/errors"
	"fitlog/internal/service"
)

// Envelope wraps every successful response body.
type Envelope struct {
	Data    interface{}        `json:"data"`
	Message string             `json:"message,omitempty"`
	Request errors.RequestInfo `json:"request"`
}

// RequestInfo describes the request being answered.
func RequestInfo(c echo.Context) errors.RequestInfo {
	req := c.Request()
	return errors.RequestInfo{Method: req.Method, Path: req.URL.Path, Host: req.Host}
}

func respond(c echo.Context, status int, data interface{}, message string) error {
	if status == http.StatusNoContent {
		return c.NoContent(status)
	}
	return c.JSON(status, Envelope{Data: data, Message: message, Request: RequestInfo(c)})
}

// Fail renders err in the error envelope.
func Fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse(RequestInfo(c)))
}

func badBody() error {
	return errors.Validation(map[string]string{"body": "invalid request body"})
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badBody()
	}
	return c.Validate(req)
}

// actor returns the authenticated user's claims set by the JWT middleware.
func actor(c echo.Context) *auth.Claims {
	claims, _ := c.Get("user").(*auth.Claims)
	return claims
}

func actorID(c echo.Context) uint {
	if claims := actor(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// pathID parses a numeric path parameter. Anything else cannot name a
// resource and reads as not found.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.NotFound("not found")
	}
	return uint(id), nil
}

func queryBool(c echo.Context, name string) (*bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	v, err := service.ParseBool(name, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func queryID(c echo.Context, name string) (*uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, errors.Field(name, "must be an integer")
	}
	v := uint(id)
	return &v, nil
}

const dateLayout = "2006-01-02"

func parseDate(field, raw string) (*time.Time, error) {
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errors.Field(field, fmt.Sprintf("must be a date in YYYY-MM-DD format, got %q", raw))
	}
	return &t, nil
}

func queryDate(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	return parseDate(name, raw)
}

func optionalDate(field string, raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	return parseDate(field, *raw)
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
