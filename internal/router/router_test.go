package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlog/internal/auth"
	"fitlog/internal/db/dbtest"
	"fitlog/internal/handler"
	"fitlog/internal/repository"
	"fitlog/internal/router"
	"fitlog/internal/seed"
	"fitlog/internal/service"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Message json.RawMessage `json:"message"`
	Request struct {
		Method string `json:"method"`
		Path   string `json:"path"`
		Host   string `json:"host"`
	} `json:"request"`
}

type api struct {
	t *testing.T
	e *echo.Echo
}

func newAPI(t *testing.T) *api {
	gormDB := dbtest.Open(t)
	userRepo := repository.NewUserRepository(gormDB)
	exerciseRepo := repository.NewExerciseRepository(gormDB)
	routineRepo := repository.NewRoutineRepository(gormDB)

	authService := service.NewAuthService(userRepo, auth.NewJWTService("test-secret", time.Minute, time.Hour), auth.NewTokenStore(nil))

	e := echo.New()
	router.Register(e, authService, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		User:     handler.NewUserHandler(service.NewUserService(userRepo, nil)),
		Exercise: handler.NewExerciseHandler(service.NewExerciseService(exerciseRepo, nil)),
		Routine:  handler.NewRoutineHandler(service.NewRoutineService(routineRepo, exerciseRepo)),
		Session:  handler.NewSessionHandler(service.NewSessionService(repository.NewSessionRepository(gormDB), routineRepo, exerciseRepo)),
		Seed:     handler.NewSeedHandler(seed.NewSeeder(exerciseRepo)),
	})
	return &api{t: t, e: e}
}

func (a *api) do(method, path, token, body string) (int, envelope) {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

// user registers and logs in, returning an access token.
func (a *api) user(name string) string {
	a.t.Helper()
	code, _ := a.do(http.MethodPost, "/api/users/register", "",
		`{"username":"`+name+`","email":"`+name+`@example.com","password":"password123"}`)
	require.Equal(a.t, http.StatusCreated, code)

	code, env := a.do(http.MethodPost, "/api/users/login", "", `{"username":"`+name+`","password":"password123"}`)
	require.Equal(a.t, http.StatusOK, code)
	var login struct {
		Tokens struct {
			Access string `json:"access"`
		} `json:"tokens"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &login))
	require.NotEmpty(a.t, login.Tokens.Access)
	return login.Tokens.Access
}

func (a *api) create(path, token, body string) uint {
	a.t.Helper()
	code, env := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, code, string(env.Message))
	var out struct {
		ID uint `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func fieldMessages(t *testing.T, env envelope) map[string]string {
	t.Helper()
	var m map[string]string
	require.NoError(t, json.Unmarshal(env.Message, &m), string(env.Message))
	return m
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestAuthRequired(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/api/routines", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Authentication failed", env.Error)
	assert.JSONEq(t, `"authentication credentials were not provided"`, string(env.Message))
	assert.Equal(t, "/api/routines", env.Request.Path)

	code, env = a.do(http.MethodGet, "/api/routines", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.JSONEq(t, `"invalid or expired token"`, string(env.Message))

	// The exercise library is readable anonymously.
	code, _ = a.do(http.MethodGet, "/api/exercises", "", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t)
	a.user("alice")

	code, env := a.do(http.MethodPost, "/api/users/register", "", `{"username":"alice","email":"not-an-email","password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Validation error", env.Error)
	fields := fieldMessages(t, env)
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")

	code, env = a.do(http.MethodPost, "/api/users/register", "", `{"username":"alice","email":"alice2@example.com","password":"password123"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, fieldMessages(t, env), "username")

	code, env = a.do(http.MethodPost, "/api/users/register", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid request body", fieldMessages(t, env)["body"])
}

func TestRoutineScenario(t *testing.T) {
	a := newAPI(t)
	u1 := a.user("u1")
	u2 := a.user("u2")

	routineID := a.create("/api/routines", u1, `{"name":"PPL","durationWeeks":4}`)
	base := "/api/routines/" + itoa(routineID)

	a.create(base+"/weeks", u1, `{"weekNumber":1}`)
	code, env := a.do(http.MethodPost, base+"/weeks", u1, `{"weekNumber":1}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "week number 1 already exists in this routine", fieldMessages(t, env)["weekNumber"])

	code, env = a.do(http.MethodPut, base, u2, `{"name":"Stolen"}`)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Forbidden", env.Error)

	code, env = a.do(http.MethodGet, base, u2, "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", env.Error)

	// Trailing slashes are accepted.
	code, env = a.do(http.MethodGet, "/api/routines/", u1, "")
	assert.Equal(t, http.StatusOK, code)
	var routines []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &routines))
	require.Len(t, routines, 1)
	assert.Equal(t, "u1", routines[0]["createdByUsername"])

	code, env = a.do(http.MethodGet, "/api/routines?isActive=maybe", u1, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "must be true or false", fieldMessages(t, env)["isActive"])

	code, env = a.do(http.MethodGet, base+"?full=true", u1, "")
	assert.Equal(t, http.StatusOK, code)
	var full struct {
		Weeks []struct {
			WeekNumber int               `json:"weekNumber"`
			Days       []json.RawMessage `json:"days"`
		} `json:"weeks"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &full))
	require.Len(t, full.Weeks, 1)
	assert.NotNil(t, full.Weeks[0].Days)
}

func TestBlockOrderScenario(t *testing.T) {
	a := newAPI(t)
	u1 := a.user("u1")

	routineID := a.create("/api/routines", u1, `{"name":"Upper/Lower"}`)
	weekID := a.create("/api/routines/"+itoa(routineID)+"/weeks", u1, `{"weekNumber":1}`)
	dayID := a.create("/api/weeks/"+itoa(weekID)+"/days", u1, `{"dayNumber":1,"name":"Upper"}`)

	var orders []int
	for _, name := range []string{"A", "B", "C"} {
		code, env := a.do(http.MethodPost, "/api/days/"+itoa(dayID)+"/blocks", u1, `{"name":"`+name+`"}`)
		require.Equal(t, http.StatusCreated, code)
		var block struct {
			Order int `json:"order"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &block))
		orders = append(orders, block.Order)
	}
	assert.Equal(t, []int{1, 2, 3}, orders)
}

func TestSessionScenario(t *testing.T) {
	a := newAPI(t)
	u1 := a.user("u1")

	code, env := a.do(http.MethodPost, "/api/sessions", u1,
		`{"date":"2024-06-01","startTime":"2024-06-01T10:00:00Z","endTime":"2024-06-01T11:15:00Z","energyLevel":"high"}`)
	require.Equal(t, http.StatusCreated, code, string(env.Message))
	var session struct {
		ID              uint   `json:"id"`
		Date            string `json:"date"`
		DurationMinutes *int   `json:"durationMinutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.NotNil(t, session.DurationMinutes)
	assert.Equal(t, 75, *session.DurationMinutes)
	assert.Equal(t, "2024-06-01", session.Date)

	code, env = a.do(http.MethodPost, "/api/sessions", u1, `{"date":"01/06/2024"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, fieldMessages(t, env), "date")

	code, env = a.do(http.MethodGet, "/api/sessions?date=2024-06-01", u1, "")
	assert.Equal(t, http.StatusOK, code)
	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	code, _ = a.do(http.MethodDelete, "/api/sessions/"+itoa(session.ID), u1, "")
	assert.Equal(t, http.StatusNoContent, code)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	a := newAPI(t)

	code, env := a.do(http.MethodGet, "/nowhere", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", env.Error)
	assert.Equal(t, http.MethodGet, env.Request.Method)

	// Unknown paths under the secured group authenticate first.
	code, _ = a.do(http.MethodGet, "/api/nowhere", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	code, env = a.do(http.MethodGet, "/api/nowhere", a.user("u1"), "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", env.Error)

	code, env = a.do(http.MethodGet, "/api/exercises/abc", "", "")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not found", env.Error)
}

func TestSeedExercises(t *testing.T) {
	a := newAPI(t)
	u1 := a.user("u1")

	code, env := a.do(http.MethodPost, "/api/seed/exercises", u1, "")
	require.Equal(t, http.StatusOK, code)
	var res seed.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Positive(t, res.Created)

	code, env = a.do(http.MethodGet, "/api/exercises?primaryMuscleGroup=chest", "", "")
	require.Equal(t, http.StatusOK, code)
	var exercises []struct {
		SecondaryMuscleGroups []string `json:"secondaryMuscleGroups"`
		CreatedBy             *uint    `json:"createdBy"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &exercises))
	require.NotEmpty(t, exercises)
	assert.Nil(t, exercises[0].CreatedBy)
	assert.NotNil(t, exercises[0].SecondaryMuscleGroups)
}
