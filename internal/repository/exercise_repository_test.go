package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"fitlog/internal/db/dbtest"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

func strPtr(s string) *string { return &s }

func names(exercises []model.Exercise) []string {
	out := make([]string, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, e.Name)
	}
	return out
}

func TestExerciseRepository_List(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewExerciseRepository(gormDB)
	owner := dbtest.User(t, gormDB, "coach")
	ctx := context.Background()

	seed := []*model.Exercise{
		{Name: "Bench Press", PrimaryMuscleGroup: strPtr("chest"), Equipment: strPtr("barbell"), Difficulty: strPtr("intermediate"), IsActive: true, CreatedByID: &owner.ID},
		{Name: "Push-up", PrimaryMuscleGroup: strPtr("chest"), Equipment: strPtr("bodyweight"), Difficulty: strPtr("beginner"), Description: strPtr("Classic floor press"), IsActive: true},
		{Name: "Deadlift", PrimaryMuscleGroup: strPtr("back"), Equipment: strPtr("barbell"), Difficulty: strPtr("advanced"), IsActive: true},
		{Name: "Old Machine Fly", PrimaryMuscleGroup: strPtr("chest"), Equipment: strPtr("machine"), IsActive: false},
	}
	for _, e := range seed {
		e.SecondaryMuscleGroups = datatypes.JSONSlice[string]{}
		require.NoError(t, repo.Create(ctx, e))
	}

	active := true
	inactive := false
	tests := []struct {
		name   string
		filter repository.ExerciseFilter
		want   []string
	}{
		{"everything by name", repository.ExerciseFilter{}, []string{"Bench Press", "Deadlift", "Old Machine Fly", "Push-up"}},
		{"active chest", repository.ExerciseFilter{PrimaryMuscleGroup: "chest", IsActive: &active}, []string{"Bench Press", "Push-up"}},
		{"inactive only", repository.ExerciseFilter{IsActive: &inactive}, []string{"Old Machine Fly"}},
		{"barbell descending", repository.ExerciseFilter{Equipment: "barbell", OrderBy: "name", OrderDesc: true}, []string{"Deadlift", "Bench Press"}},
		{"difficulty", repository.ExerciseFilter{Difficulty: "advanced"}, []string{"Deadlift"}},
		{"created by", repository.ExerciseFilter{CreatedBy: &owner.ID}, []string{"Bench Press"}},
		{"search is case-insensitive over description", repository.ExerciseFilter{Search: "FLOOR"}, []string{"Push-up"}},
		{"search matches name or description", repository.ExerciseFilter{Search: "press"}, []string{"Bench Press", "Push-up"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(got))
		})
	}
}

func TestExerciseRepository_FindByNameOrCreate(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewExerciseRepository(gormDB)
	ctx := context.Background()

	first, created, err := repo.FindByNameOrCreate(ctx, &model.Exercise{Name: "Plank", IsActive: true})
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := repo.FindByNameOrCreate(ctx, &model.Exercise{Name: "Plank", IsActive: true})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
}

func TestExerciseRepository_ExistsIgnoresActiveFlag(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewExerciseRepository(gormDB)
	ctx := context.Background()

	e := dbtest.Exercise(t, gormDB, "Row")
	e.IsActive = false
	require.NoError(t, repo.Update(ctx, e))

	ok, err := repo.Exists(ctx, e.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, e.ID+100)
	require.NoError(t, err)
	assert.False(t, ok)
}
