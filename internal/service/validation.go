package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "fitlog/internal/errors"
	"fitlog/internal/model"
)

// fieldErrors collects per-field validation messages keyed by wire name.
// The first message recorded for a field wins.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, ok := f[field]; !ok {
		f[field] = msg
	}
}

func (f fieldErrors) choice(field string, v *string, allowed model.Choices) {
	if v != nil && !allowed.Contains(*v) {
		f.add(field, "must be one of: "+allowed.String())
	}
}

func (f fieldErrors) choices(field string, vs []string, allowed model.Choices) {
	for _, v := range vs {
		if !allowed.Contains(v) {
			f.add(field, fmt.Sprintf("invalid value %q, must be one of: %s", v, allowed))
			return
		}
	}
}

func (f fieldErrors) atLeast(field string, v *int, lo int) {
	if v != nil && *v < lo {
		f.add(field, fmt.Sprintf("must be greater than or equal to %d", lo))
	}
}

// order accepts 0 on create, where it means auto-assign. Updates take
// explicit positions only.
func (f fieldErrors) order(v *int, creating bool) {
	lo := 1
	if creating {
		lo = 0
	}
	f.atLeast("order", v, lo)
}

func (f fieldErrors) between(field string, v *int, lo, hi int) {
	if v != nil && (*v < lo || *v > hi) {
		f.add(field, fmt.Sprintf("must be between %d and %d", lo, hi))
	}
}

func (f fieldErrors) maxLen(field string, v *string, n int) {
	if v != nil && len([]rune(*v)) > n {
		f.add(field, fmt.Sprintf("must be at most %d characters", n))
	}
}

func (f fieldErrors) notBlank(field string, v *string) {
	if v != nil && strings.TrimSpace(*v) == "" {
		f.add(field, "may not be blank")
	}
}

func (f fieldErrors) required(field string, present bool) {
	if !present {
		f.add(field, "this field is required")
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperrors.Validation(f)
}

// notFound converts a missing-row error into a NOT_FOUND domain error.
func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NotFound(what + " not found")
	}
	return err
}

// duplicate converts a unique-index violation into a field error.
func duplicate(err error, field, msg string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.Field(field, msg)
	}
	return err
}

// ParseBool accepts true/1/yes and false/0/no, case-insensitively.
func ParseBool(field, raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes":
		return true, nil
	case "false", "0", "no":
		return false, nil
	}
	return false, apperrors.Field(field, "must be true or false")
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	s := strings.TrimSpace(*v)
	return &s
}
