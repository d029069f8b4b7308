package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fitlog/internal/db/dbtest"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

type tree struct {
	routine  *model.Routine
	week     *model.Week
	day      *model.Day
	block    *model.Block
	exercise *model.RoutineExercise
}

func buildTree(t *testing.T, repo repository.RoutineRepository, ownerID, exerciseID uint) tree {
	t.Helper()
	ctx := context.Background()

	r := &model.Routine{Name: "Strength", IsActive: true, CreatedByID: ownerID}
	require.NoError(t, repo.Create(ctx, r))
	w := &model.Week{RoutineID: r.ID, WeekNumber: 1}
	require.NoError(t, repo.CreateWeek(ctx, w))
	d := &model.Day{WeekID: w.ID, DayNumber: 1}
	require.NoError(t, repo.CreateDay(ctx, d))
	b := &model.Block{DayID: d.ID, Name: "Main", Order: 1}
	require.NoError(t, repo.CreateBlock(ctx, b))
	re := &model.RoutineExercise{BlockID: b.ID, ExerciseID: exerciseID, Order: 1}
	require.NoError(t, repo.CreateExercise(ctx, re))
	return tree{routine: r, week: w, day: d, block: b, exercise: re}
}

func TestRoutineRepository_OwnerOf(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	owner := dbtest.User(t, gormDB, "owner")
	squat := dbtest.Exercise(t, gormDB, "Squat")
	tr := buildTree(t, repo, owner.ID, squat.ID)

	ctx := context.Background()
	levels := map[repository.Level]uint{
		repository.LevelRoutine:         tr.routine.ID,
		repository.LevelWeek:            tr.week.ID,
		repository.LevelDay:             tr.day.ID,
		repository.LevelBlock:           tr.block.ID,
		repository.LevelRoutineExercise: tr.exercise.ID,
	}
	for level, id := range levels {
		got, err := repo.OwnerOf(ctx, level, id)
		require.NoError(t, err)
		assert.Equal(t, owner.ID, got)
	}

	_, err := repo.OwnerOf(ctx, repository.LevelDay, 9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRoutineRepository_UniqueOrdinals(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	owner := dbtest.User(t, gormDB, "owner")
	squat := dbtest.Exercise(t, gormDB, "Squat")
	tr := buildTree(t, repo, owner.ID, squat.ID)
	ctx := context.Background()

	taken, err := repo.WeekNumberTaken(ctx, tr.routine.ID, 1, 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.WeekNumberTaken(ctx, tr.routine.ID, 1, tr.week.ID)
	require.NoError(t, err)
	assert.False(t, taken, "a week does not collide with itself")

	err = repo.CreateWeek(ctx, &model.Week{RoutineID: tr.routine.ID, WeekNumber: 1})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	err = repo.CreateDay(ctx, &model.Day{WeekID: tr.week.ID, DayNumber: 1})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	// The same day number is fine in another week.
	w2 := &model.Week{RoutineID: tr.routine.ID, WeekNumber: 2}
	require.NoError(t, repo.CreateWeek(ctx, w2))
	require.NoError(t, repo.CreateDay(ctx, &model.Day{WeekID: w2.ID, DayNumber: 1}))
}

func TestRoutineRepository_NextOrder(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	owner := dbtest.User(t, gormDB, "owner")
	squat := dbtest.Exercise(t, gormDB, "Squat")
	tr := buildTree(t, repo, owner.ID, squat.ID)
	ctx := context.Background()

	next, err := repo.NextBlockOrder(ctx, tr.day.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)

	require.NoError(t, repo.CreateBlock(ctx, &model.Block{DayID: tr.day.ID, Name: "Accessory", Order: 5}))
	next, err = repo.NextBlockOrder(ctx, tr.day.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, next)

	empty := &model.Day{WeekID: tr.week.ID, DayNumber: 2}
	require.NoError(t, repo.CreateDay(ctx, empty))
	next, err = repo.NextBlockOrder(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	next, err = repo.NextExerciseOrder(ctx, tr.block.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, next)
}

func TestRoutineRepository_DeleteCascades(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	owner := dbtest.User(t, gormDB, "owner")
	squat := dbtest.Exercise(t, gormDB, "Squat")
	tr := buildTree(t, repo, owner.ID, squat.ID)
	ctx := context.Background()

	require.NoError(t, repo.DeleteWeek(ctx, tr.week.ID))

	for _, m := range []interface{}{&model.Week{}, &model.Day{}, &model.Block{}, &model.RoutineExercise{}} {
		var count int64
		require.NoError(t, gormDB.Model(m).Count(&count).Error)
		assert.Zero(t, count)
	}

	// The routine and the library exercise stay.
	_, err := repo.FindByID(ctx, tr.routine.ID)
	assert.NoError(t, err)
	exists, err := repository.NewExerciseRepository(gormDB).Exists(ctx, squat.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRoutineRepository_FindFullOrdering(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	owner := dbtest.User(t, gormDB, "owner")
	squat := dbtest.Exercise(t, gormDB, "Squat")
	tr := buildTree(t, repo, owner.ID, squat.ID)
	ctx := context.Background()

	require.NoError(t, repo.CreateWeek(ctx, &model.Week{RoutineID: tr.routine.ID, WeekNumber: 3}))
	require.NoError(t, repo.CreateWeek(ctx, &model.Week{RoutineID: tr.routine.ID, WeekNumber: 2}))
	require.NoError(t, repo.CreateBlock(ctx, &model.Block{DayID: tr.day.ID, Name: "Warm-up", Order: 0}))

	full, err := repo.FindFull(ctx, tr.routine.ID)
	require.NoError(t, err)
	require.Len(t, full.Weeks, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{full.Weeks[0].WeekNumber, full.Weeks[1].WeekNumber, full.Weeks[2].WeekNumber})

	blocks := full.Weeks[0].Days[0].Blocks
	require.Len(t, blocks, 2)
	assert.Equal(t, "Warm-up", blocks[0].Name)
	require.Len(t, blocks[1].Exercises, 1)
	assert.Equal(t, "Squat", blocks[1].Exercises[0].Exercise.Name)
	assert.Equal(t, "owner", full.CreatedBy.Username)
}

func TestRoutineRepository_ListFilters(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	alice := dbtest.User(t, gormDB, "alice")
	bob := dbtest.User(t, gormDB, "bob")
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Routine{Name: "A1", IsActive: true, CreatedByID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &model.Routine{Name: "A2", IsActive: false, CreatedByID: alice.ID}))
	require.NoError(t, repo.Create(ctx, &model.Routine{Name: "B1", IsActive: true, CreatedByID: bob.ID}))

	active := true
	got, err := repo.List(ctx, repository.RoutineFilter{CreatedBy: alice.ID, IsActive: &active})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].Name)

	all, err := repo.List(ctx, repository.RoutineFilter{CreatedBy: alice.ID})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRoutineRepository_WithTransactionRollsBack(t *testing.T) {
	gormDB := dbtest.Open(t)
	repo := repository.NewRoutineRepository(gormDB)
	owner := dbtest.User(t, gormDB, "owner")
	ctx := context.Background()

	r := &model.Routine{Name: "R", IsActive: true, CreatedByID: owner.ID}
	require.NoError(t, repo.Create(ctx, r))

	err := repo.WithTransaction(ctx, func(ctx context.Context, tx repository.RoutineRepository) error {
		require.NoError(t, tx.Lock(ctx, repository.LevelRoutine, r.ID))
		require.NoError(t, tx.CreateWeek(ctx, &model.Week{RoutineID: r.ID, WeekNumber: 1}))
		return tx.CreateWeek(ctx, &model.Week{RoutineID: r.ID, WeekNumber: 1})
	})
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	weeks, err := repo.ListWeeks(ctx, r.ID)
	require.NoError(t, err)
	assert.Empty(t, weeks)

	assert.ErrorIs(t, repo.Lock(ctx, repository.LevelWeek, 12345), gorm.ErrRecordNotFound)
}
