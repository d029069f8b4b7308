package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fitlog/internal/model"
)

// ExerciseFilter narrows an exercise listing. Zero values mean "no filter".
type ExerciseFilter struct {
	PrimaryMuscleGroup string
	Equipment          string
	Difficulty         string
	IsActive           *bool
	CreatedBy          *uint
	Search             string
	// OrderBy is a storage column name; the caller is responsible for whitelisting it.
	OrderBy   string
	OrderDesc bool
}

// ExerciseRepository defines exercise persistence operations.
type ExerciseRepository interface {
	List(ctx context.Context, filter ExerciseFilter) ([]model.Exercise, error)
	FindByID(ctx context.Context, id uint) (*model.Exercise, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, exercise *model.Exercise) error
	Update(ctx context.Context, exercise *model.Exercise) error
	FindByNameOrCreate(ctx context.Context, exercise *model.Exercise) (*model.Exercise, bool, error)
}

type exerciseRepository struct {
	store[model.Exercise]
}

// NewExerciseRepository creates a new exercise repository.
func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{store[model.Exercise]{db: db}}
}

// List returns exercises matching the filter, ordered by name unless told otherwise.
func (r *exerciseRepository) List(ctx context.Context, f ExerciseFilter) ([]model.Exercise, error) {
	q := r.db.WithContext(ctx).Preload("CreatedBy")

	if f.PrimaryMuscleGroup != "" {
		q = q.Where("primary_muscle_group = ?", f.PrimaryMuscleGroup)
	}
	if f.Equipment != "" {
		q = q.Where("equipment = ?", f.Equipment)
	}
	if f.Difficulty != "" {
		q = q.Where("difficulty = ?", f.Difficulty)
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	if f.CreatedBy != nil {
		q = q.Where("created_by_id = ?", *f.CreatedBy)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	orderBy := f.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: orderBy}, Desc: f.OrderDesc}).Order("id")

	var exercises []model.Exercise
	if err := q.Find(&exercises).Error; err != nil {
		return nil, err
	}
	return exercises, nil
}

// FindByID finds an exercise by ID, active or not.
func (r *exerciseRepository) FindByID(ctx context.Context, id uint) (*model.Exercise, error) {
	return r.findByID(ctx, id, "CreatedBy")
}

// Exists reports whether an exercise row exists, regardless of IsActive.
func (r *exerciseRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Exercise{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create creates a new exercise.
func (r *exerciseRepository) Create(ctx context.Context, exercise *model.Exercise) error {
	return r.create(ctx, exercise)
}

// Update updates an existing exercise.
func (r *exerciseRepository) Update(ctx context.Context, exercise *model.Exercise) error {
	return r.save(ctx, exercise)
}

// FindByNameOrCreate returns the exercise with the same name, creating it if
// none exists. The boolean reports whether a row was inserted.
func (r *exerciseRepository) FindByNameOrCreate(ctx context.Context, exercise *model.Exercise) (*model.Exercise, bool, error) {
	var existing model.Exercise
	err := r.db.WithContext(ctx).Where("name = ?", exercise.Name).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	if err := r.create(ctx, exercise); err != nil {
		return nil, false, err
	}
	return exercise, true, nil
}
