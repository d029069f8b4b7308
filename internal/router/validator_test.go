package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlog/internal/errors"
)

type signup struct {
	Username string  `json:"username" validate:"required,max=5"`
	Email    string  `json:"email" validate:"required,email"`
	Website  *string `json:"website" validate:"omitempty,url"`
}

func TestValidatorReportsJSONNames(t *testing.T) {
	bad := "not a url"
	err := NewValidator().Validate(&signup{Username: "toolongname", Email: "nope", Website: &bad})

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindValidation, e.Kind)
	assert.Equal(t, map[string]string{
		"username": "must be at most 5 characters",
		"email":    "enter a valid email address",
		"website":  "enter a valid URL",
	}, e.Fields)

	assert.NoError(t, NewValidator().Validate(&signup{Username: "ok", Email: "ok@example.com"}))
}

type setEntry struct {
	Reps   int      `json:"reps" validate:"min=1,max=100"`
	Tempo  string   `json:"tempo" validate:"min=3"`
	Groups []string `json:"groups" validate:"max=2"`
	RPE    *int     `json:"rpe" validate:"omitempty,max=10"`
}

func TestValidatorWordsBoundsByKind(t *testing.T) {
	rpe := 11
	err := NewValidator().Validate(&setEntry{Reps: 0, Tempo: "3", Groups: []string{"a", "b", "c"}, RPE: &rpe})

	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, map[string]string{
		"reps":   "must be greater than or equal to 1",
		"tempo":  "must be at least 3 characters",
		"groups": "must contain at most 2 items",
		"rpe":    "must be less than or equal to 10",
	}, e.Fields)
}
