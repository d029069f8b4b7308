package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlog/internal/db/dbtest"
	apperrors "fitlog/internal/errors"
	"fitlog/internal/repository"
)

func TestExerciseService_CreateAndValidate(t *testing.T) {
	gormDB := dbtest.Open(t)
	svc := NewExerciseService(repository.NewExerciseRepository(gormDB), nil)
	coach := dbtest.User(t, gormDB, "coach")
	ctx := context.Background()

	e, err := svc.Create(ctx, coach.ID, ExerciseInput{Name: ptr("Romanian Deadlift"), MovementType: ptr("hinge"), PrimaryMuscleGroup: ptr("legs")})
	require.NoError(t, err)
	assert.True(t, e.IsActive)
	require.NotNil(t, e.CreatedByID)
	assert.Equal(t, coach.ID, *e.CreatedByID)
	assert.NotNil(t, e.SecondaryMuscleGroups)
	assert.Empty(t, e.SecondaryMuscleGroups)

	_, err = svc.Create(ctx, coach.ID, ExerciseInput{
		Name:                  ptr("  "),
		Difficulty:            ptr("expert"),
		SecondaryMuscleGroups: &[]string{"core", "wings"},
	})
	fields := fieldsOf(t, err)
	assert.Equal(t, "may not be blank", fields["name"])
	assert.Equal(t, "must be one of: beginner, intermediate, advanced", fields["difficulty"])
	assert.Contains(t, fields["secondaryMuscleGroups"], `"wings"`)
}

func TestExerciseService_ListDefaultsToActive(t *testing.T) {
	gormDB := dbtest.Open(t)
	svc := NewExerciseService(repository.NewExerciseRepository(gormDB), nil)
	coach := dbtest.User(t, gormDB, "coach")
	ctx := context.Background()

	keep, err := svc.Create(ctx, coach.ID, ExerciseInput{Name: ptr("Pull-up")})
	require.NoError(t, err)
	gone, err := svc.Create(ctx, coach.ID, ExerciseInput{Name: ptr("Upright Row")})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, coach.ID, gone.ID))

	listed, err := svc.List(ctx, ExerciseQuery{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, keep.ID, listed[0].ID)

	inactive := false
	listed, err = svc.List(ctx, ExerciseQuery{IsActive: &inactive})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, gone.ID, listed[0].ID)

	// Deactivated exercises stay retrievable by id.
	got, err := svc.Get(ctx, gone.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = svc.List(ctx, ExerciseQuery{Ordering: "-password"})
	assert.Contains(t, fieldsOf(t, err), "ordering")
	_, err = svc.List(ctx, ExerciseQuery{Equipment: "trampoline"})
	assert.Contains(t, fieldsOf(t, err), "equipment")

	listed, err = svc.List(ctx, ExerciseQuery{Ordering: "-name", IsActive: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, listed, 1)
}

func TestExerciseService_Permissions(t *testing.T) {
	gormDB := dbtest.Open(t)
	svc := NewExerciseService(repository.NewExerciseRepository(gormDB), nil)
	coach := dbtest.User(t, gormDB, "coach")
	stranger := dbtest.User(t, gormDB, "stranger")
	shared := dbtest.Exercise(t, gormDB, "Burpee")
	ctx := context.Background()

	owned, err := svc.Create(ctx, coach.ID, ExerciseInput{Name: ptr("Clean")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, stranger.ID, owned.ID, ExerciseInput{Name: ptr("Mine")})
	assertKind(t, err, apperrors.KindForbidden)
	assertKind(t, svc.Delete(ctx, stranger.ID, owned.ID), apperrors.KindForbidden)

	// Library exercises without a creator are editable by anyone.
	updated, err := svc.Update(ctx, stranger.ID, shared.ID, ExerciseInput{Difficulty: ptr("beginner")})
	require.NoError(t, err)
	assert.Equal(t, "beginner", *updated.Difficulty)

	_, err = svc.Get(ctx, 999)
	assertKind(t, err, apperrors.KindNotFound)
}
