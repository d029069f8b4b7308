package router

import (
	stderrors "errors"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"fitlog/internal/errors"
	"fitlog/internal/handler"
	"fitlog/internal/service"
)

// Handlers groups the HTTP handlers mounted by Register.
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Exercise *handler.ExerciseHandler
	Routine  *handler.RoutineHandler
	Session  *handler.SessionHandler
	Seed     *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, authService service.AuthService, h Handlers) {
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	e.Validator = NewValidator()
	e.HTTPErrorHandler = errorHandler

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	requireAuth := echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return authService.Authenticate(c.Request().Context(), token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if stderrors.Is(err, echojwt.ErrJWTMissing) {
				return handler.Fail(c, errors.Unauthorized("authentication credentials were not provided"))
			}
			return handler.Fail(c, errors.Unauthorized("invalid or expired token"))
		},
	})

	// Public routes
	api.POST("/users/register", h.Auth.Register)
	api.POST("/users/login", h.Auth.Login)
	api.POST("/users/refresh", h.Auth.Refresh)
	api.GET("/exercises", h.Exercise.List)
	api.GET("/exercises/:id", h.Exercise.Get)

	// Secured routes (require JWT authentication)
	secured := api.Group("", requireAuth)

	secured.POST("/users/logout", h.Auth.Logout)
	secured.GET("/users/me", h.User.Me)
	secured.PUT("/users/me", h.User.UpdateMe)

	secured.POST("/exercises", h.Exercise.Create)
	secured.PUT("/exercises/:id", h.Exercise.Update)
	secured.DELETE("/exercises/:id", h.Exercise.Delete)

	secured.GET("/routines", h.Routine.List)
	secured.POST("/routines", h.Routine.Create)
	secured.GET("/routines/:id", h.Routine.Get)
	secured.PUT("/routines/:id", h.Routine.Update)
	secured.DELETE("/routines/:id", h.Routine.Delete)
	secured.GET("/routines/:id/weeks", h.Routine.ListWeeks)
	secured.POST("/routines/:id/weeks", h.Routine.CreateWeek)
	secured.PUT("/weeks/:id", h.Routine.UpdateWeek)
	secured.DELETE("/weeks/:id", h.Routine.DeleteWeek)
	secured.GET("/weeks/:id/days", h.Routine.ListDays)
	secured.POST("/weeks/:id/days", h.Routine.CreateDay)
	secured.PUT("/days/:id", h.Routine.UpdateDay)
	secured.DELETE("/days/:id", h.Routine.DeleteDay)
	secured.GET("/days/:id/blocks", h.Routine.ListBlocks)
	secured.POST("/days/:id/blocks", h.Routine.CreateBlock)
	secured.PUT("/blocks/:id", h.Routine.UpdateBlock)
	secured.DELETE("/blocks/:id", h.Routine.DeleteBlock)
	secured.GET("/blocks/:id/exercises", h.Routine.ListExercises)
	secured.POST("/blocks/:id/exercises", h.Routine.CreateExercise)
	secured.PUT("/routine-exercises/:id", h.Routine.UpdateExercise)
	secured.DELETE("/routine-exercises/:id", h.Routine.DeleteExercise)

	secured.GET("/sessions", h.Session.List)
	secured.POST("/sessions", h.Session.Create)
	secured.GET("/sessions/:id", h.Session.Get)
	secured.PUT("/sessions/:id", h.Session.Update)
	secured.DELETE("/sessions/:id", h.Session.Delete)
	secured.GET("/sessions/:id/exercises", h.Session.ListExercises)
	secured.POST("/sessions/:id/exercises", h.Session.CreateExercise)
	secured.GET("/sessions/:id/exercises/:exerciseId", h.Session.GetExercise)
	secured.PUT("/sessions/:id/exercises/:exerciseId", h.Session.UpdateExercise)
	secured.DELETE("/sessions/:id/exercises/:exerciseId", h.Session.DeleteExercise)

	secured.POST("/seed/exercises", h.Seed.SeedExercises)
}

// errorHandler renders errors that escape handlers (unknown routes, wrong
// methods, panics recovered by middleware) in the common error envelope.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !stderrors.As(err, &he) {
		_ = handler.Fail(c, err)
		return
	}

	message := he.Message
	if he.Internal != nil && he.Code >= http.StatusInternalServerError {
		c.Logger().Error(he.Internal)
	}
	if m, ok := message.(error); ok {
		message = m.Error()
	}
	resp := errors.NewHTTPError(he.Code, errors.CategoryForStatus(he.Code), message).ToErrorResponse(handler.RequestInfo(c))
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, resp)
}
