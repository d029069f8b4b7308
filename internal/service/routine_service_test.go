package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fitlog/internal/db/dbtest"
	apperrors "fitlog/internal/errors"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

func ptr[T any](v T) *T { return &v }

// fieldsOf asserts err is a validation error and returns its field map.
func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	var e *apperrors.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, apperrors.KindValidation, e.Kind, "unexpected error: %v", err)
	return e.Fields
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, kind), "unexpected error: %v", err)
}

func reload[T any](t *testing.T, db *gorm.DB, id uint) T {
	t.Helper()
	var row T
	require.NoError(t, db.First(&row, id).Error)
	return row
}

type routineFixture struct {
	db      *gorm.DB
	service RoutineService
	owner   *model.User
	other   *model.User
	squat   *model.Exercise
}

func newRoutineFixture(t *testing.T) routineFixture {
	gormDB := dbtest.Open(t)
	return routineFixture{
		db:      gormDB,
		service: NewRoutineService(repository.NewRoutineRepository(gormDB), repository.NewExerciseRepository(gormDB)),
		owner:   dbtest.User(t, gormDB, "u1"),
		other:   dbtest.User(t, gormDB, "u2"),
		squat:   dbtest.Exercise(t, gormDB, "Back Squat"),
	}
}

func (f routineFixture) routine(t *testing.T, name string) *model.Routine {
	t.Helper()
	r, err := f.service.Create(context.Background(), f.owner.ID, RoutineInput{Name: ptr(name)})
	require.NoError(t, err)
	return r
}

func TestRoutineService_CreateDefaults(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()

	r, err := f.service.Create(ctx, f.owner.ID, RoutineInput{Name: ptr("  PPL  "), DurationWeeks: ptr(8)})
	require.NoError(t, err)
	assert.Equal(t, "PPL", r.Name)
	assert.True(t, r.IsActive)
	assert.Equal(t, f.owner.ID, r.CreatedByID)

	_, err = f.service.Create(ctx, f.owner.ID, RoutineInput{DurationWeeks: ptr(0)})
	fields := fieldsOf(t, err)
	assert.Equal(t, "this field is required", fields["name"])
	assert.Contains(t, fields, "durationWeeks")
}

func TestRoutineService_DuplicateWeekNumber(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "PPL")

	_, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)

	_, err = f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	assert.Equal(t, "week number 1 already exists in this routine", fieldsOf(t, err)["weekNumber"])

	w2, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(2)})
	require.NoError(t, err)

	_, err = f.service.UpdateWeek(ctx, f.owner.ID, w2.ID, WeekInput{WeekNumber: ptr(1), Notes: ptr("x")})
	assert.Contains(t, fieldsOf(t, err), "weekNumber")
	unchanged := reload[model.Week](t, f.db, w2.ID)
	assert.Equal(t, 2, unchanged.WeekNumber)
	assert.Nil(t, unchanged.Notes, "a rejected update writes nothing")

	// Re-sending the current number is not a collision.
	_, err = f.service.UpdateWeek(ctx, f.owner.ID, w2.ID, WeekInput{WeekNumber: ptr(2), Notes: ptr("deload")})
	require.NoError(t, err)

	_, err = f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(0)})
	assert.Contains(t, fieldsOf(t, err), "weekNumber")
}

func TestRoutineService_DuplicateDayNumber(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "PPL")
	w, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)

	_, err = f.service.CreateDay(ctx, f.owner.ID, w.ID, DayInput{DayNumber: ptr(1), Name: ptr("Push")})
	require.NoError(t, err)
	_, err = f.service.CreateDay(ctx, f.owner.ID, w.ID, DayInput{DayNumber: ptr(1), Name: ptr("Pull")})
	assert.Equal(t, "day number 1 already exists in this week", fieldsOf(t, err)["dayNumber"])

	_, err = f.service.CreateDay(ctx, f.owner.ID, w.ID, DayInput{Name: ptr("Legs")})
	assert.Equal(t, "this field is required", fieldsOf(t, err)["dayNumber"])
}

func TestRoutineService_BlockAutoOrder(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "PPL")
	w, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)
	d, err := f.service.CreateDay(ctx, f.owner.ID, w.ID, DayInput{DayNumber: ptr(1)})
	require.NoError(t, err)

	var orders []int
	for _, name := range []string{"Warm-up", "Main", "Finisher"} {
		b, err := f.service.CreateBlock(ctx, f.owner.ID, d.ID, BlockInput{Name: ptr(name)})
		require.NoError(t, err)
		orders = append(orders, b.Order)
	}
	assert.Equal(t, []int{1, 2, 3}, orders)

	explicit, err := f.service.CreateBlock(ctx, f.owner.ID, d.ID, BlockInput{Name: ptr("Cooldown"), Order: ptr(10)})
	require.NoError(t, err)
	assert.Equal(t, 10, explicit.Order)

	zero, err := f.service.CreateBlock(ctx, f.owner.ID, d.ID, BlockInput{Name: ptr("Extra"), Order: ptr(0)})
	require.NoError(t, err)
	assert.Equal(t, 11, zero.Order)

	// Zero only means auto-assign on create; an update needs a position.
	_, err = f.service.UpdateBlock(ctx, f.owner.ID, zero.ID, BlockInput{Order: ptr(0)})
	assert.Equal(t, "must be greater than or equal to 1", fieldsOf(t, err)["order"])
	assert.Equal(t, 11, reload[model.Block](t, f.db, zero.ID).Order)

	moved, err := f.service.UpdateBlock(ctx, f.owner.ID, zero.ID, BlockInput{Order: ptr(12)})
	require.NoError(t, err)
	assert.Equal(t, 12, moved.Order)

	blocks, err := f.service.ListBlocks(ctx, f.owner.ID, d.ID)
	require.NoError(t, err)
	require.Len(t, blocks, 5)
	assert.Equal(t, "Warm-up", blocks[0].Name)
	assert.Equal(t, "Extra", blocks[4].Name)
}

func TestRoutineService_RoutineExercises(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "PPL")
	w, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)
	d, err := f.service.CreateDay(ctx, f.owner.ID, w.ID, DayInput{DayNumber: ptr(1)})
	require.NoError(t, err)
	b, err := f.service.CreateBlock(ctx, f.owner.ID, d.ID, BlockInput{Name: ptr("Main")})
	require.NoError(t, err)

	re, err := f.service.CreateExercise(ctx, f.owner.ID, b.ID, RoutineExerciseInput{
		ExerciseID:       &f.squat.ID,
		Sets:             ptr(5),
		Repetitions:      ptr("5"),
		WeightPercentage: ptr(decimal.NewFromInt(75)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, re.Order)
	require.NotNil(t, re.Exercise)
	assert.Equal(t, "Back Squat", re.Exercise.Name)

	_, err = f.service.CreateExercise(ctx, f.owner.ID, b.ID, RoutineExerciseInput{ExerciseID: ptr(uint(9999))})
	assert.Equal(t, "exercise with id 9999 does not exist", fieldsOf(t, err)["exerciseId"])

	_, err = f.service.CreateExercise(ctx, f.owner.ID, b.ID, RoutineExerciseInput{
		ExerciseID:       &f.squat.ID,
		Sets:             ptr(0),
		WeightPercentage: ptr(decimal.NewFromInt(120)),
	})
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "sets")
	assert.Contains(t, fields, "weightPercentage")

	// Inactive exercises may still be prescribed.
	require.NoError(t, f.db.Model(f.squat).Update("is_active", false).Error)
	second, err := f.service.CreateExercise(ctx, f.owner.ID, b.ID, RoutineExerciseInput{ExerciseID: &f.squat.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, second.Order)

	_, err = f.service.UpdateExercise(ctx, f.owner.ID, re.ID, RoutineExerciseInput{Order: ptr(0)})
	assert.Contains(t, fieldsOf(t, err), "order")

	updated, err := f.service.UpdateExercise(ctx, f.owner.ID, re.ID, RoutineExerciseInput{Tempo: ptr("3-1-1")})
	require.NoError(t, err)
	assert.Equal(t, "3-1-1", *updated.Tempo)
	assert.Equal(t, 5, *updated.Sets)
}

func TestRoutineService_Ownership(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "Private")
	w, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)

	_, err = f.service.Update(ctx, f.other.ID, r.ID, RoutineInput{Name: ptr("Mine now")})
	assertKind(t, err, apperrors.KindForbidden)

	_, err = f.service.Get(ctx, f.other.ID, r.ID, false)
	assertKind(t, err, apperrors.KindNotFound)

	_, err = f.service.ListWeeks(ctx, f.other.ID, r.ID)
	assertKind(t, err, apperrors.KindNotFound)

	_, err = f.service.CreateWeek(ctx, f.other.ID, r.ID, WeekInput{WeekNumber: ptr(2)})
	assertKind(t, err, apperrors.KindForbidden)

	assertKind(t, f.service.DeleteWeek(ctx, f.other.ID, w.ID), apperrors.KindForbidden)

	_, err = f.service.CreateDay(ctx, f.other.ID, w.ID, DayInput{DayNumber: ptr(1)})
	assertKind(t, err, apperrors.KindForbidden)

	_, err = f.service.Get(ctx, f.owner.ID, 4242, false)
	assertKind(t, err, apperrors.KindNotFound)

	listed, err := f.service.List(ctx, f.other.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRoutineService_NonOwnerWritesChangeNothing(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "Private")
	w, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)
	d, err := f.service.CreateDay(ctx, f.owner.ID, w.ID, DayInput{DayNumber: ptr(1), Name: ptr("Push")})
	require.NoError(t, err)
	b, err := f.service.CreateBlock(ctx, f.owner.ID, d.ID, BlockInput{Name: ptr("Main")})
	require.NoError(t, err)
	re, err := f.service.CreateExercise(ctx, f.owner.ID, b.ID, RoutineExerciseInput{ExerciseID: &f.squat.ID, Sets: ptr(5)})
	require.NoError(t, err)

	count := func(m interface{}, column string, id uint) func(t *testing.T) interface{} {
		return func(t *testing.T) interface{} {
			var n int64
			require.NoError(t, f.db.Model(m).Where(column+" = ?", id).Count(&n).Error)
			return n
		}
	}
	other := f.other.ID

	tests := []struct {
		name  string
		state func(t *testing.T) interface{}
		write func() error
	}{
		{
			name:  "update routine",
			state: func(t *testing.T) interface{} { return reload[model.Routine](t, f.db, r.ID) },
			write: func() error {
				_, err := f.service.Update(ctx, other, r.ID, RoutineInput{Name: ptr("Mine now"), IsActive: ptr(false)})
				return err
			},
		},
		{
			name:  "delete routine",
			state: func(t *testing.T) interface{} { return reload[model.Routine](t, f.db, r.ID) },
			write: func() error { return f.service.Delete(ctx, other, r.ID) },
		},
		{
			name:  "update week",
			state: func(t *testing.T) interface{} { return reload[model.Week](t, f.db, w.ID) },
			write: func() error {
				_, err := f.service.UpdateWeek(ctx, other, w.ID, WeekInput{WeekNumber: ptr(3), Notes: ptr("x")})
				return err
			},
		},
		{
			name:  "delete week",
			state: func(t *testing.T) interface{} { return reload[model.Week](t, f.db, w.ID) },
			write: func() error { return f.service.DeleteWeek(ctx, other, w.ID) },
		},
		{
			name:  "create day",
			state: count(&model.Day{}, "week_id", w.ID),
			write: func() error {
				_, err := f.service.CreateDay(ctx, other, w.ID, DayInput{DayNumber: ptr(2)})
				return err
			},
		},
		{
			name:  "update day",
			state: func(t *testing.T) interface{} { return reload[model.Day](t, f.db, d.ID) },
			write: func() error {
				_, err := f.service.UpdateDay(ctx, other, d.ID, DayInput{DayNumber: ptr(4), Name: ptr("Pull")})
				return err
			},
		},
		{
			name:  "delete day",
			state: func(t *testing.T) interface{} { return reload[model.Day](t, f.db, d.ID) },
			write: func() error { return f.service.DeleteDay(ctx, other, d.ID) },
		},
		{
			name:  "create block",
			state: count(&model.Block{}, "day_id", d.ID),
			write: func() error {
				_, err := f.service.CreateBlock(ctx, other, d.ID, BlockInput{Name: ptr("Extra")})
				return err
			},
		},
		{
			name:  "update block",
			state: func(t *testing.T) interface{} { return reload[model.Block](t, f.db, b.ID) },
			write: func() error {
				_, err := f.service.UpdateBlock(ctx, other, b.ID, BlockInput{Name: ptr("Stolen"), Order: ptr(9)})
				return err
			},
		},
		{
			name:  "delete block",
			state: func(t *testing.T) interface{} { return reload[model.Block](t, f.db, b.ID) },
			write: func() error { return f.service.DeleteBlock(ctx, other, b.ID) },
		},
		{
			name:  "create routine exercise",
			state: count(&model.RoutineExercise{}, "block_id", b.ID),
			write: func() error {
				_, err := f.service.CreateExercise(ctx, other, b.ID, RoutineExerciseInput{ExerciseID: &f.squat.ID})
				return err
			},
		},
		{
			name:  "update routine exercise",
			state: func(t *testing.T) interface{} { return reload[model.RoutineExercise](t, f.db, re.ID) },
			write: func() error {
				_, err := f.service.UpdateExercise(ctx, other, re.ID, RoutineExerciseInput{Sets: ptr(1), Tempo: ptr("2-0-2")})
				return err
			},
		},
		{
			name:  "delete routine exercise",
			state: func(t *testing.T) interface{} { return reload[model.RoutineExercise](t, f.db, re.ID) },
			write: func() error { return f.service.DeleteExercise(ctx, other, re.ID) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := tt.state(t)
			assertKind(t, tt.write(), apperrors.KindForbidden)
			assert.Equal(t, before, tt.state(t))
		})
	}

	full, err := f.service.Get(ctx, f.owner.ID, r.ID, true)
	require.NoError(t, err)
	assert.True(t, full.IsActive)
	require.Len(t, full.Weeks, 1)
	require.Len(t, full.Weeks[0].Days, 1)
	require.Len(t, full.Weeks[0].Days[0].Blocks, 1)
	assert.Len(t, full.Weeks[0].Days[0].Blocks[0].Exercises, 1)
}

func TestRoutineService_SoftDelete(t *testing.T) {
	f := newRoutineFixture(t)
	ctx := context.Background()
	r := f.routine(t, "Old")
	_, err := f.service.CreateWeek(ctx, f.owner.ID, r.ID, WeekInput{WeekNumber: ptr(1)})
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, f.owner.ID, r.ID))

	listed, err := f.service.List(ctx, f.owner.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, listed)

	inactive := false
	listed, err = f.service.List(ctx, f.owner.ID, &inactive)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	full, err := f.service.Get(ctx, f.owner.ID, r.ID, true)
	require.NoError(t, err)
	assert.False(t, full.IsActive)
	assert.Len(t, full.Weeks, 1, "the hierarchy survives deactivation")
}
