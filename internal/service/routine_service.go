package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "fitlog/internal/errors"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

var levelNames = map[repository.Level]string{
	repository.LevelRoutine:         "routine",
	repository.LevelWeek:            "week",
	repository.LevelDay:             "day",
	repository.LevelBlock:           "block",
	repository.LevelRoutineExercise: "routine exercise",
}

// RoutineInput carries routine fields; nil fields are not provided.
type RoutineInput struct {
	Name           *string
	Description    *string
	DurationWeeks  *int
	DurationMonths *int
	IsActive       *bool
}

// WeekInput carries week fields.
type WeekInput struct {
	WeekNumber *int
	Notes      *string
}

// DayInput carries day fields.
type DayInput struct {
	DayNumber *int
	Name      *string
	Notes     *string
}

// BlockInput carries block fields. A missing or zero Order on create is
// assigned after the current last block; updates need an explicit Order of 1 or more.
type BlockInput struct {
	Name  *string
	Order *int
	Notes *string
}

// RoutineExerciseInput carries the prescription of an exercise slot.
type RoutineExerciseInput struct {
	ExerciseID       *uint
	Order            *int
	Sets             *int
	Repetitions      *string
	Weight           *decimal.Decimal
	WeightPercentage *decimal.Decimal
	Tempo            *string
	RestSeconds      *int
	Notes            *string
}

// RoutineService manages routines and their week/day/block/exercise tree.
// Only the creator of a routine may read or change any part of it.
type RoutineService interface {
	List(ctx context.Context, actorID uint, isActive *bool) ([]model.Routine, error)
	Get(ctx context.Context, actorID, id uint, full bool) (*model.Routine, error)
	Create(ctx context.Context, actorID uint, in RoutineInput) (*model.Routine, error)
	Update(ctx context.Context, actorID, id uint, in RoutineInput) (*model.Routine, error)
	Delete(ctx context.Context, actorID, id uint) error

	ListWeeks(ctx context.Context, actorID, routineID uint) ([]model.Week, error)
	CreateWeek(ctx context.Context, actorID, routineID uint, in WeekInput) (*model.Week, error)
	UpdateWeek(ctx context.Context, actorID, id uint, in WeekInput) (*model.Week, error)
	DeleteWeek(ctx context.Context, actorID, id uint) error

	ListDays(ctx context.Context, actorID, weekID uint) ([]model.Day, error)
	CreateDay(ctx context.Context, actorID, weekID uint, in DayInput) (*model.Day, error)
	UpdateDay(ctx context.Context, actorID, id uint, in DayInput) (*model.Day, error)
	DeleteDay(ctx context.Context, actorID, id uint) error

	ListBlocks(ctx context.Context, actorID, dayID uint) ([]model.Block, error)
	CreateBlock(ctx context.Context, actorID, dayID uint, in BlockInput) (*model.Block, error)
	UpdateBlock(ctx context.Context, actorID, id uint, in BlockInput) (*model.Block, error)
	DeleteBlock(ctx context.Context, actorID, id uint) error

	ListExercises(ctx context.Context, actorID, blockID uint) ([]model.RoutineExercise, error)
	CreateExercise(ctx context.Context, actorID, blockID uint, in RoutineExerciseInput) (*model.RoutineExercise, error)
	UpdateExercise(ctx context.Context, actorID, id uint, in RoutineExerciseInput) (*model.RoutineExercise, error)
	DeleteExercise(ctx context.Context, actorID, id uint) error
}

type routineService struct {
	repo      repository.RoutineRepository
	exercises repository.ExerciseRepository
}

// NewRoutineService builds a RoutineService.
func NewRoutineService(repo repository.RoutineRepository, exercises repository.ExerciseRepository) RoutineService {
	return &routineService{repo: repo, exercises: exercises}
}

// authorize checks that actorID owns the routine containing the node.
// Reads by another user look like a missing node; writes are forbidden.
func (s *routineService) authorize(ctx context.Context, level repository.Level, id, actorID uint, read bool) error {
	owner, err := s.repo.OwnerOf(ctx, level, id)
	if err != nil {
		return notFound(err, levelNames[level])
	}
	if owner == actorID {
		return nil
	}
	if read {
		return apperrors.NotFound(levelNames[level] + " not found")
	}
	return apperrors.Forbidden("you do not have permission to modify this routine")
}

func (s *routineService) List(ctx context.Context, actorID uint, isActive *bool) ([]model.Routine, error) {
	if isActive == nil {
		active := true
		isActive = &active
	}
	return s.repo.List(ctx, repository.RoutineFilter{CreatedBy: actorID, IsActive: isActive})
}

// Get returns a routine; with full set the whole hierarchy is loaded.
// Inactive routines remain retrievable by id.
func (s *routineService) Get(ctx context.Context, actorID, id uint, full bool) (*model.Routine, error) {
	if err := s.authorize(ctx, repository.LevelRoutine, id, actorID, true); err != nil {
		return nil, err
	}
	var (
		routine *model.Routine
		err     error
	)
	if full {
		routine, err = s.repo.FindFull(ctx, id)
	} else {
		routine, err = s.repo.FindByID(ctx, id)
	}
	if err != nil {
		return nil, notFound(err, "routine")
	}
	return routine, nil
}

func (s *routineService) Create(ctx context.Context, actorID uint, in RoutineInput) (*model.Routine, error) {
	if err := validateRoutine(in, true); err != nil {
		return nil, err
	}
	routine := &model.Routine{IsActive: true, CreatedByID: actorID}
	applyRoutine(routine, in)
	if err := s.repo.Create(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

func (s *routineService) Update(ctx context.Context, actorID, id uint, in RoutineInput) (*model.Routine, error) {
	if err := s.authorize(ctx, repository.LevelRoutine, id, actorID, false); err != nil {
		return nil, err
	}
	if err := validateRoutine(in, false); err != nil {
		return nil, err
	}
	routine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "routine")
	}
	applyRoutine(routine, in)
	if err := s.repo.Update(ctx, routine); err != nil {
		return nil, err
	}
	return routine, nil
}

// Delete deactivates the routine. Its hierarchy is kept.
func (s *routineService) Delete(ctx context.Context, actorID, id uint) error {
	if err := s.authorize(ctx, repository.LevelRoutine, id, actorID, false); err != nil {
		return err
	}
	routine, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "routine")
	}
	routine.IsActive = false
	return s.repo.Update(ctx, routine)
}

func validateRoutine(in RoutineInput, creating bool) error {
	fields := fieldErrors{}
	if creating {
		fields.required("name", in.Name != nil)
	}
	fields.notBlank("name", in.Name)
	fields.maxLen("name", in.Name, 255)
	fields.atLeast("durationWeeks", in.DurationWeeks, 1)
	fields.atLeast("durationMonths", in.DurationMonths, 1)
	return fields.err()
}

func applyRoutine(r *model.Routine, in RoutineInput) {
	if in.Name != nil {
		r.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		r.Description = in.Description
	}
	if in.DurationWeeks != nil {
		r.DurationWeeks = in.DurationWeeks
	}
	if in.DurationMonths != nil {
		r.DurationMonths = in.DurationMonths
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
}

func weekNumberMsg(n int) string {
	return fmt.Sprintf("week number %d already exists in this routine", n)
}

func dayNumberMsg(n int) string {
	return fmt.Sprintf("day number %d already exists in this week", n)
}

func (s *routineService) ListWeeks(ctx context.Context, actorID, routineID uint) ([]model.Week, error) {
	if err := s.authorize(ctx, repository.LevelRoutine, routineID, actorID, true); err != nil {
		return nil, err
	}
	return s.repo.ListWeeks(ctx, routineID)
}

func (s *routineService) CreateWeek(ctx context.Context, actorID, routineID uint, in WeekInput) (*model.Week, error) {
	if err := s.authorize(ctx, repository.LevelRoutine, routineID, actorID, false); err != nil {
		return nil, err
	}
	fields := fieldErrors{}
	fields.required("weekNumber", in.WeekNumber != nil)
	fields.atLeast("weekNumber", in.WeekNumber, 1)
	if err := fields.err(); err != nil {
		return nil, err
	}

	week := &model.Week{RoutineID: routineID, WeekNumber: *in.WeekNumber, Notes: in.Notes}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RoutineRepository) error {
		if err := repo.Lock(ctx, repository.LevelRoutine, routineID); err != nil {
			return notFound(err, "routine")
		}
		taken, err := repo.WeekNumberTaken(ctx, routineID, week.WeekNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Field("weekNumber", weekNumberMsg(week.WeekNumber))
		}
		return duplicate(repo.CreateWeek(ctx, week), "weekNumber", weekNumberMsg(week.WeekNumber))
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

func (s *routineService) UpdateWeek(ctx context.Context, actorID, id uint, in WeekInput) (*model.Week, error) {
	if err := s.authorize(ctx, repository.LevelWeek, id, actorID, false); err != nil {
		return nil, err
	}
	fields := fieldErrors{}
	fields.atLeast("weekNumber", in.WeekNumber, 1)
	if err := fields.err(); err != nil {
		return nil, err
	}

	var week *model.Week
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RoutineRepository) error {
		current, err := repo.FindWeek(ctx, id)
		if err != nil {
			return notFound(err, "week")
		}
		if in.WeekNumber != nil && *in.WeekNumber != current.WeekNumber {
			if err := repo.Lock(ctx, repository.LevelRoutine, current.RoutineID); err != nil {
				return notFound(err, "routine")
			}
			taken, err := repo.WeekNumberTaken(ctx, current.RoutineID, *in.WeekNumber, id)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.Field("weekNumber", weekNumberMsg(*in.WeekNumber))
			}
			current.WeekNumber = *in.WeekNumber
		}
		if in.Notes != nil {
			current.Notes = in.Notes
		}
		week = current
		return duplicate(repo.UpdateWeek(ctx, current), "weekNumber", weekNumberMsg(current.WeekNumber))
	})
	if err != nil {
		return nil, err
	}
	return week, nil
}

func (s *routineService) DeleteWeek(ctx context.Context, actorID, id uint) error {
	if err := s.authorize(ctx, repository.LevelWeek, id, actorID, false); err != nil {
		return err
	}
	return s.repo.DeleteWeek(ctx, id)
}

func (s *routineService) ListDays(ctx context.Context, actorID, weekID uint) ([]model.Day, error) {
	if err := s.authorize(ctx, repository.LevelWeek, weekID, actorID, true); err != nil {
		return nil, err
	}
	return s.repo.ListDays(ctx, weekID)
}

func (s *routineService) CreateDay(ctx context.Context, actorID, weekID uint, in DayInput) (*model.Day, error) {
	if err := s.authorize(ctx, repository.LevelWeek, weekID, actorID, false); err != nil {
		return nil, err
	}
	fields := fieldErrors{}
	fields.required("dayNumber", in.DayNumber != nil)
	fields.atLeast("dayNumber", in.DayNumber, 1)
	fields.maxLen("name", in.Name, 255)
	if err := fields.err(); err != nil {
		return nil, err
	}

	day := &model.Day{WeekID: weekID, DayNumber: *in.DayNumber, Name: in.Name, Notes: in.Notes}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RoutineRepository) error {
		if err := repo.Lock(ctx, repository.LevelWeek, weekID); err != nil {
			return notFound(err, "week")
		}
		taken, err := repo.DayNumberTaken(ctx, weekID, day.DayNumber, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.Field("dayNumber", dayNumberMsg(day.DayNumber))
		}
		return duplicate(repo.CreateDay(ctx, day), "dayNumber", dayNumberMsg(day.DayNumber))
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *routineService) UpdateDay(ctx context.Context, actorID, id uint, in DayInput) (*model.Day, error) {
	if err := s.authorize(ctx, repository.LevelDay, id, actorID, false); err != nil {
		return nil, err
	}
	fields := fieldErrors{}
	fields.atLeast("dayNumber", in.DayNumber, 1)
	fields.maxLen("name", in.Name, 255)
	if err := fields.err(); err != nil {
		return nil, err
	}

	var day *model.Day
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RoutineRepository) error {
		current, err := repo.FindDay(ctx, id)
		if err != nil {
			return notFound(err, "day")
		}
		if in.DayNumber != nil && *in.DayNumber != current.DayNumber {
			if err := repo.Lock(ctx, repository.LevelWeek, current.WeekID); err != nil {
				return notFound(err, "week")
			}
			taken, err := repo.DayNumberTaken(ctx, current.WeekID, *in.DayNumber, id)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.Field("dayNumber", dayNumberMsg(*in.DayNumber))
			}
			current.DayNumber = *in.DayNumber
		}
		if in.Name != nil {
			current.Name = in.Name
		}
		if in.Notes != nil {
			current.Notes = in.Notes
		}
		day = current
		return duplicate(repo.UpdateDay(ctx, current), "dayNumber", dayNumberMsg(current.DayNumber))
	})
	if err != nil {
		return nil, err
	}
	return day, nil
}

func (s *routineService) DeleteDay(ctx context.Context, actorID, id uint) error {
	if err := s.authorize(ctx, repository.LevelDay, id, actorID, false); err != nil {
		return err
	}
	return s.repo.DeleteDay(ctx, id)
}

func (s *routineService) ListBlocks(ctx context.Context, actorID, dayID uint) ([]model.Block, error) {
	if err := s.authorize(ctx, repository.LevelDay, dayID, actorID, true); err != nil {
		return nil, err
	}
	return s.repo.ListBlocks(ctx, dayID)
}

func validateBlock(in BlockInput, creating bool) error {
	fields := fieldErrors{}
	if creating {
		fields.required("name", in.Name != nil)
	}
	fields.notBlank("name", in.Name)
	fields.maxLen("name", in.Name, 255)
	fields.order(in.Order, creating)
	return fields.err()
}

func (s *routineService) CreateBlock(ctx context.Context, actorID, dayID uint, in BlockInput) (*model.Block, error) {
	if err := s.authorize(ctx, repository.LevelDay, dayID, actorID, false); err != nil {
		return nil, err
	}
	if err := validateBlock(in, true); err != nil {
		return nil, err
	}

	block := &model.Block{DayID: dayID, Name: strings.TrimSpace(*in.Name), Notes: in.Notes}
	if in.Order != nil {
		block.Order = *in.Order
	}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RoutineRepository) error {
		if err := repo.Lock(ctx, repository.LevelDay, dayID); err != nil {
			return notFound(err, "day")
		}
		if block.Order == 0 {
			next, err := repo.NextBlockOrder(ctx, dayID)
			if err != nil {
				return err
			}
			block.Order = next
		}
		return repo.CreateBlock(ctx, block)
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func (s *routineService) UpdateBlock(ctx context.Context, actorID, id uint, in BlockInput) (*model.Block, error) {
	if err := s.authorize(ctx, repository.LevelBlock, id, actorID, false); err != nil {
		return nil, err
	}
	if err := validateBlock(in, false); err != nil {
		return nil, err
	}
	block, err := s.repo.FindBlock(ctx, id)
	if err != nil {
		return nil, notFound(err, "block")
	}
	if in.Name != nil {
		block.Name = strings.TrimSpace(*in.Name)
	}
	if in.Order != nil {
		block.Order = *in.Order
	}
	if in.Notes != nil {
		block.Notes = in.Notes
	}
	if err := s.repo.UpdateBlock(ctx, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (s *routineService) DeleteBlock(ctx context.Context, actorID, id uint) error {
	if err := s.authorize(ctx, repository.LevelBlock, id, actorID, false); err != nil {
		return err
	}
	return s.repo.DeleteBlock(ctx, id)
}

func (s *routineService) ListExercises(ctx context.Context, actorID, blockID uint) ([]model.RoutineExercise, error) {
	if err := s.authorize(ctx, repository.LevelBlock, blockID, actorID, true); err != nil {
		return nil, err
	}
	return s.repo.ListExercises(ctx, blockID)
}

func (s *routineService) validateRoutineExercise(ctx context.Context, in RoutineExerciseInput, creating bool) error {
	fields := fieldErrors{}
	if creating {
		fields.required("exerciseId", in.ExerciseID != nil)
	}
	fields.order(in.Order, creating)
	fields.atLeast("sets", in.Sets, 1)
	fields.atLeast("restSeconds", in.RestSeconds, 0)
	fields.maxLen("repetitions", in.Repetitions, 50)
	fields.maxLen("tempo", in.Tempo, 50)
	if in.Weight != nil && in.Weight.IsNegative() {
		fields.add("weight", "must be greater than or equal to 0")
	}
	if in.WeightPercentage != nil && (in.WeightPercentage.IsNegative() || in.WeightPercentage.GreaterThan(decimal.NewFromInt(100))) {
		fields.add("weightPercentage", "must be between 0 and 100")
	}
	if in.ExerciseID != nil {
		if err := checkExercise(ctx, s.exercises, fields, *in.ExerciseID); err != nil {
			return err
		}
	}
	return fields.err()
}

// checkExercise records a field error when the referenced exercise row
// does not exist. Inactive exercises are accepted.
func checkExercise(ctx context.Context, repo repository.ExerciseRepository, fields fieldErrors, id uint) error {
	ok, err := repo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		fields.add("exerciseId", fmt.Sprintf("exercise with id %d does not exist", id))
	}
	return nil
}

func applyRoutineExercise(re *model.RoutineExercise, in RoutineExerciseInput) {
	if in.ExerciseID != nil {
		re.ExerciseID = *in.ExerciseID
	}
	if in.Order != nil {
		re.Order = *in.Order
	}
	if in.Sets != nil {
		re.Sets = in.Sets
	}
	if in.Repetitions != nil {
		re.Repetitions = in.Repetitions
	}
	if in.Weight != nil {
		re.Weight = in.Weight
	}
	if in.WeightPercentage != nil {
		re.WeightPercentage = in.WeightPercentage
	}
	if in.Tempo != nil {
		re.Tempo = in.Tempo
	}
	if in.RestSeconds != nil {
		re.RestSeconds = in.RestSeconds
	}
	if in.Notes != nil {
		re.Notes = in.Notes
	}
}

func (s *routineService) CreateExercise(ctx context.Context, actorID, blockID uint, in RoutineExerciseInput) (*model.RoutineExercise, error) {
	if err := s.authorize(ctx, repository.LevelBlock, blockID, actorID, false); err != nil {
		return nil, err
	}
	if err := s.validateRoutineExercise(ctx, in, true); err != nil {
		return nil, err
	}

	re := &model.RoutineExercise{BlockID: blockID}
	applyRoutineExercise(re, in)
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.RoutineRepository) error {
		if err := repo.Lock(ctx, repository.LevelBlock, blockID); err != nil {
			return notFound(err, "block")
		}
		if re.Order == 0 {
			next, err := repo.NextExerciseOrder(ctx, blockID)
			if err != nil {
				return err
			}
			re.Order = next
		}
		return repo.CreateExercise(ctx, re)
	})
	if err != nil {
		return nil, err
	}
	return s.reloadExercise(ctx, re.ID)
}

func (s *routineService) UpdateExercise(ctx context.Context, actorID, id uint, in RoutineExerciseInput) (*model.RoutineExercise, error) {
	if err := s.authorize(ctx, repository.LevelRoutineExercise, id, actorID, false); err != nil {
		return nil, err
	}
	if err := s.validateRoutineExercise(ctx, in, false); err != nil {
		return nil, err
	}
	re, err := s.repo.FindExercise(ctx, id)
	if err != nil {
		return nil, notFound(err, "routine exercise")
	}
	applyRoutineExercise(re, in)
	if err := s.repo.UpdateExercise(ctx, re); err != nil {
		return nil, err
	}
	return s.reloadExercise(ctx, id)
}

func (s *routineService) reloadExercise(ctx context.Context, id uint) (*model.RoutineExercise, error) {
	re, err := s.repo.FindExercise(ctx, id)
	if err != nil {
		return nil, notFound(err, "routine exercise")
	}
	return re, nil
}

func (s *routineService) DeleteExercise(ctx context.Context, actorID, id uint) error {
	if err := s.authorize(ctx, repository.LevelRoutineExercise, id, actorID, false); err != nil {
		return err
	}
	return s.repo.DeleteExercise(ctx, id)
}
