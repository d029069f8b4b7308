package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fitlog/internal/db/dbtest"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

func TestCatalogEntriesAreValid(t *testing.T) {
	entries, err := Catalog()
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	for _, e := range entries {
		_, ok := toModel(e)
		assert.True(t, ok, "catalog entry %q should be accepted", e.Name)
	}
}

func TestSeederIsIdempotent(t *testing.T) {
	gormDB := dbtest.Open(t)
	seeder := NewSeeder(repository.NewExerciseRepository(gormDB))
	ctx := context.Background()

	entries, err := Catalog()
	require.NoError(t, err)

	first, err := seeder.Run(ctx, entries, nil)
	require.NoError(t, err)
	assert.Equal(t, len(entries), first.Created)
	assert.Zero(t, first.Existing)

	second, err := seeder.Run(ctx, entries, nil)
	require.NoError(t, err)
	assert.Zero(t, second.Created)
	assert.Equal(t, len(entries), second.Existing)

	var count int64
	require.NoError(t, gormDB.Model(&model.Exercise{}).Count(&count).Error)
	assert.Equal(t, int64(len(entries)), count)

	var sample model.Exercise
	require.NoError(t, gormDB.First(&sample).Error)
	assert.True(t, sample.IsActive)
	assert.Nil(t, sample.CreatedByID)
}

func TestSeederSkipsInvalidEntries(t *testing.T) {
	gormDB := dbtest.Open(t)
	seeder := NewSeeder(repository.NewExerciseRepository(gormDB))

	res, err := seeder.Run(context.Background(), []Entry{
		{Name: "Good Squat", PrimaryMuscleGroup: "legs", Difficulty: "beginner"},
		{Name: "  "},
		{Name: "Bad Difficulty", Difficulty: "legendary"},
		{Name: "Bad Secondary", SecondaryMuscleGroups: []string{"tail"}},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Created: 1, Skipped: 3}, res)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"name":"Farmer Carry","movementType":"carry","equipment":"dumbbell"}]`))
	}))
	defer srv.Close()

	entries, err := Fetch(context.Background(), srv.URL+"/catalog.json")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "carry", entries[0].MovementType)

	_, err = Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorContains(t, err, "404")
}
