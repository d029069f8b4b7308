package repository

import (
	"context"

	"gorm.io/gorm"

	"fitlog/internal/model"
)

// Level identifies a node of the routine hierarchy.
type Level int

const (
	LevelRoutine Level = iota
	LevelWeek
	LevelDay
	LevelBlock
	LevelRoutineExercise
)

// ownerPath describes how to reach routines.created_by_id from a level's table.
type ownerPath struct {
	table string
	joins []string
}

var routineOwnerPaths = map[Level]ownerPath{
	LevelRoutine: {table: "routines"},
	LevelWeek: {table: "weeks", joins: []string{
		"JOIN routines ON routines.id = weeks.routine_id",
	}},
	LevelDay: {table: "days", joins: []string{
		"JOIN weeks ON weeks.id = days.week_id",
		"JOIN routines ON routines.id = weeks.routine_id",
	}},
	LevelBlock: {table: "blocks", joins: []string{
		"JOIN days ON days.id = blocks.day_id",
		"JOIN weeks ON weeks.id = days.week_id",
		"JOIN routines ON routines.id = weeks.routine_id",
	}},
	LevelRoutineExercise: {table: "routine_exercises", joins: []string{
		"JOIN blocks ON blocks.id = routine_exercises.block_id",
		"JOIN days ON days.id = blocks.day_id",
		"JOIN weeks ON weeks.id = days.week_id",
		"JOIN routines ON routines.id = weeks.routine_id",
	}},
}

// RoutineFilter narrows a routine listing.
type RoutineFilter struct {
	CreatedBy uint
	IsActive  *bool
}

// RoutineRepository defines persistence for routines and their nested weeks,
// days, blocks and routine exercises.
type RoutineRepository interface {
	List(ctx context.Context, filter RoutineFilter) ([]model.Routine, error)
	FindByID(ctx context.Context, id uint) (*model.Routine, error)
	FindFull(ctx context.Context, id uint) (*model.Routine, error)
	Create(ctx context.Context, routine *model.Routine) error
	Update(ctx context.Context, routine *model.Routine) error

	ListWeeks(ctx context.Context, routineID uint) ([]model.Week, error)
	FindWeek(ctx context.Context, id uint) (*model.Week, error)
	CreateWeek(ctx context.Context, week *model.Week) error
	UpdateWeek(ctx context.Context, week *model.Week) error
	DeleteWeek(ctx context.Context, id uint) error
	WeekNumberTaken(ctx context.Context, routineID uint, number int, excludeID uint) (bool, error)

	ListDays(ctx context.Context, weekID uint) ([]model.Day, error)
	FindDay(ctx context.Context, id uint) (*model.Day, error)
	CreateDay(ctx context.Context, day *model.Day) error
	UpdateDay(ctx context.Context, day *model.Day) error
	DeleteDay(ctx context.Context, id uint) error
	DayNumberTaken(ctx context.Context, weekID uint, number int, excludeID uint) (bool, error)

	ListBlocks(ctx context.Context, dayID uint) ([]model.Block, error)
	FindBlock(ctx context.Context, id uint) (*model.Block, error)
	CreateBlock(ctx context.Context, block *model.Block) error
	UpdateBlock(ctx context.Context, block *model.Block) error
	DeleteBlock(ctx context.Context, id uint) error
	NextBlockOrder(ctx context.Context, dayID uint) (int, error)

	ListExercises(ctx context.Context, blockID uint) ([]model.RoutineExercise, error)
	FindExercise(ctx context.Context, id uint) (*model.RoutineExercise, error)
	CreateExercise(ctx context.Context, re *model.RoutineExercise) error
	UpdateExercise(ctx context.Context, re *model.RoutineExercise) error
	DeleteExercise(ctx context.Context, id uint) error
	NextExerciseOrder(ctx context.Context, blockID uint) (int, error)

	// OwnerOf resolves the user owning the routine that contains the node.
	OwnerOf(ctx context.Context, level Level, id uint) (uint, error)
	// Lock takes a row lock on the node until the surrounding transaction ends.
	Lock(ctx context.Context, level Level, id uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RoutineRepository) error) error
}

type routineRepository struct {
	db        *gorm.DB
	routines  store[model.Routine]
	weeks     store[model.Week]
	days      store[model.Day]
	blocks    store[model.Block]
	exercises store[model.RoutineExercise]
}

// NewRoutineRepository creates a new routine repository.
func NewRoutineRepository(db *gorm.DB) RoutineRepository {
	return &routineRepository{
		db:        db,
		routines:  store[model.Routine]{db: db},
		weeks:     store[model.Week]{db: db},
		days:      store[model.Day]{db: db},
		blocks:    store[model.Block]{db: db},
		exercises: store[model.RoutineExercise]{db: db},
	}
}

// List lists routines, newest first.
func (r *routineRepository) List(ctx context.Context, f RoutineFilter) ([]model.Routine, error) {
	q := r.db.WithContext(ctx).Preload("CreatedBy").Where("created_by_id = ?", f.CreatedBy)
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	var routines []model.Routine
	if err := q.Order("created_at DESC").Order("id DESC").Find(&routines).Error; err != nil {
		return nil, err
	}
	return routines, nil
}

func (r *routineRepository) FindByID(ctx context.Context, id uint) (*model.Routine, error) {
	return r.routines.findByID(ctx, id, "CreatedBy")
}

// FindFull loads the routine with its whole hierarchy in canonical order.
func (r *routineRepository) FindFull(ctx context.Context, id uint) (*model.Routine, error) {
	var routine model.Routine
	err := r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Weeks", func(db *gorm.DB) *gorm.DB { return db.Order("week_number") }).
		Preload("Weeks.Days", func(db *gorm.DB) *gorm.DB { return db.Order("day_number") }).
		Preload("Weeks.Days.Blocks", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order").Order("id") }).
		Preload("Weeks.Days.Blocks.Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order").Order("id") }).
		Preload("Weeks.Days.Blocks.Exercises.Exercise").
		First(&routine, id).Error
	if err != nil {
		return nil, err
	}
	return &routine, nil
}

func (r *routineRepository) Create(ctx context.Context, routine *model.Routine) error {
	return r.routines.create(ctx, routine)
}

func (r *routineRepository) Update(ctx context.Context, routine *model.Routine) error {
	return r.routines.save(ctx, routine)
}

func (r *routineRepository) ListWeeks(ctx context.Context, routineID uint) ([]model.Week, error) {
	return r.weeks.listByParent(ctx, "routine_id", routineID, "week_number")
}

func (r *routineRepository) FindWeek(ctx context.Context, id uint) (*model.Week, error) {
	return r.weeks.findByID(ctx, id)
}

func (r *routineRepository) CreateWeek(ctx context.Context, week *model.Week) error {
	return r.weeks.create(ctx, week)
}

func (r *routineRepository) UpdateWeek(ctx context.Context, week *model.Week) error {
	return r.weeks.save(ctx, week)
}

// DeleteWeek removes the week and everything below it.
func (r *routineRepository) DeleteWeek(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		days := tx.Model(&model.Day{}).Select("id").Where("week_id = ?", id)
		blocks := tx.Model(&model.Block{}).Select("id").Where("day_id IN (?)", days)
		if err := tx.Where("block_id IN (?)", blocks).Delete(&model.RoutineExercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("day_id IN (?)", days).Delete(&model.Block{}).Error; err != nil {
			return err
		}
		if err := tx.Where("week_id = ?", id).Delete(&model.Day{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Week{}, id).Error
	})
}

func (r *routineRepository) WeekNumberTaken(ctx context.Context, routineID uint, number int, excludeID uint) (bool, error) {
	return r.weeks.ordinalTaken(ctx, "routine_id", routineID, "week_number", number, excludeID)
}

func (r *routineRepository) ListDays(ctx context.Context, weekID uint) ([]model.Day, error) {
	return r.days.listByParent(ctx, "week_id", weekID, "day_number")
}

func (r *routineRepository) FindDay(ctx context.Context, id uint) (*model.Day, error) {
	return r.days.findByID(ctx, id)
}

func (r *routineRepository) CreateDay(ctx context.Context, day *model.Day) error {
	return r.days.create(ctx, day)
}

func (r *routineRepository) UpdateDay(ctx context.Context, day *model.Day) error {
	return r.days.save(ctx, day)
}

// DeleteDay removes the day with its blocks and their exercises.
func (r *routineRepository) DeleteDay(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blocks := tx.Model(&model.Block{}).Select("id").Where("day_id = ?", id)
		if err := tx.Where("block_id IN (?)", blocks).Delete(&model.RoutineExercise{}).Error; err != nil {
			return err
		}
		if err := tx.Where("day_id = ?", id).Delete(&model.Block{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Day{}, id).Error
	})
}

func (r *routineRepository) DayNumberTaken(ctx context.Context, weekID uint, number int, excludeID uint) (bool, error) {
	return r.days.ordinalTaken(ctx, "week_id", weekID, "day_number", number, excludeID)
}

func (r *routineRepository) ListBlocks(ctx context.Context, dayID uint) ([]model.Block, error) {
	return r.blocks.listByParent(ctx, "day_id", dayID, "sort_order, id")
}

func (r *routineRepository) FindBlock(ctx context.Context, id uint) (*model.Block, error) {
	return r.blocks.findByID(ctx, id)
}

func (r *routineRepository) CreateBlock(ctx context.Context, block *model.Block) error {
	return r.blocks.create(ctx, block)
}

func (r *routineRepository) UpdateBlock(ctx context.Context, block *model.Block) error {
	return r.blocks.save(ctx, block)
}

// DeleteBlock removes the block and its exercises.
func (r *routineRepository) DeleteBlock(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("block_id = ?", id).Delete(&model.RoutineExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Block{}, id).Error
	})
}

func (r *routineRepository) NextBlockOrder(ctx context.Context, dayID uint) (int, error) {
	return r.blocks.nextOrder(ctx, "day_id", dayID)
}

func (r *routineRepository) ListExercises(ctx context.Context, blockID uint) ([]model.RoutineExercise, error) {
	return r.exercises.listByParent(ctx, "block_id", blockID, "sort_order, id", "Exercise")
}

func (r *routineRepository) FindExercise(ctx context.Context, id uint) (*model.RoutineExercise, error) {
	return r.exercises.findByID(ctx, id, "Exercise")
}

func (r *routineRepository) CreateExercise(ctx context.Context, re *model.RoutineExercise) error {
	return r.exercises.create(ctx, re)
}

func (r *routineRepository) UpdateExercise(ctx context.Context, re *model.RoutineExercise) error {
	return r.exercises.save(ctx, re)
}

func (r *routineRepository) DeleteExercise(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.RoutineExercise{}, id).Error
}

func (r *routineRepository) NextExerciseOrder(ctx context.Context, blockID uint) (int, error) {
	return r.exercises.nextOrder(ctx, "block_id", blockID)
}

func (r *routineRepository) OwnerOf(ctx context.Context, level Level, id uint) (uint, error) {
	path := routineOwnerPaths[level]
	return pluckOwner(ctx, r.db, path.table, "routines.created_by_id", path.joins, id)
}

func (r *routineRepository) Lock(ctx context.Context, level Level, id uint) error {
	return lockRow(ctx, r.db, routineOwnerPaths[level].table, id)
}

// WithTransaction executes a function within a database transaction.
func (r *routineRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo RoutineRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewRoutineRepository(tx))
	})
}
