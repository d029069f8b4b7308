package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/datatypes"

	"fitlog/internal/cache"
	apperrors "fitlog/internal/errors"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

const exerciseCacheTTL = 5 * time.Minute

// exerciseOrderings maps accepted `ordering` values to storage columns.
var exerciseOrderings = map[string]string{
	"id":                 "id",
	"name":               "name",
	"difficulty":         "difficulty",
	"primaryMuscleGroup": "primary_muscle_group",
	"equipment":          "equipment",
	"movementType":       "movement_type",
	"createdAt":          "created_at",
	"updatedAt":          "updated_at",
}

// ExerciseQuery holds raw list filters. Empty strings mean "not given".
type ExerciseQuery struct {
	PrimaryMuscleGroup string
	Equipment          string
	Difficulty         string
	IsActive           *bool
	CreatedBy          *uint
	Search             string
	Ordering           string
}

// ExerciseInput carries exercise fields; nil fields are not provided.
type ExerciseInput struct {
	Name                  *string
	Description           *string
	MovementType          *string
	PrimaryMuscleGroup    *string
	SecondaryMuscleGroups *[]string
	Equipment             *string
	Difficulty            *string
	Instructions          *string
	ImageURL              *string
	VideoURL              *string
	IsActive              *bool
}

// ExerciseService manages the shared exercise library.
type ExerciseService interface {
	List(ctx context.Context, q ExerciseQuery) ([]model.Exercise, error)
	Get(ctx context.Context, id uint) (*model.Exercise, error)
	Create(ctx context.Context, actorID uint, in ExerciseInput) (*model.Exercise, error)
	Update(ctx context.Context, actorID, id uint, in ExerciseInput) (*model.Exercise, error)
	Delete(ctx context.Context, actorID, id uint) error
}

type exerciseService struct {
	repo  repository.ExerciseRepository
	cache *cache.Client
}

// NewExerciseService builds an ExerciseService with repository and cache.
func NewExerciseService(repo repository.ExerciseRepository, cache *cache.Client) ExerciseService {
	return &exerciseService{repo: repo, cache: cache}
}

func (s *exerciseService) cacheKey(id uint) string {
	return fmt.Sprintf("exercise:%d", id)
}

// List validates filters and returns matching exercises. Listings are
// active-only unless IsActive is given.
func (s *exerciseService) List(ctx context.Context, q ExerciseQuery) ([]model.Exercise, error) {
	fields := fieldErrors{}
	filter := repository.ExerciseFilter{
		PrimaryMuscleGroup: q.PrimaryMuscleGroup,
		Equipment:          q.Equipment,
		Difficulty:         q.Difficulty,
		IsActive:           q.IsActive,
		CreatedBy:          q.CreatedBy,
		Search:             strings.TrimSpace(q.Search),
	}
	if q.PrimaryMuscleGroup != "" {
		fields.choice("primaryMuscleGroup", &q.PrimaryMuscleGroup, model.MuscleGroups)
	}
	if q.Equipment != "" {
		fields.choice("equipment", &q.Equipment, model.Equipment)
	}
	if q.Difficulty != "" {
		fields.choice("difficulty", &q.Difficulty, model.Difficulties)
	}
	if q.Ordering != "" {
		name := strings.TrimPrefix(q.Ordering, "-")
		column, ok := exerciseOrderings[name]
		if !ok {
			fields.add("ordering", "must be one of: "+orderingChoices().String())
		}
		filter.OrderBy = column
		filter.OrderDesc = strings.HasPrefix(q.Ordering, "-")
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	if filter.IsActive == nil {
		active := true
		filter.IsActive = &active
	}
	return s.repo.List(ctx, filter)
}

func orderingChoices() model.Choices {
	names := make(model.Choices, 0, len(exerciseOrderings))
	for name := range exerciseOrderings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns an exercise by id whether or not it is active.
func (s *exerciseService) Get(ctx context.Context, id uint) (*model.Exercise, error) {
	var cached model.Exercise
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	exercise, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "exercise")
	}
	s.store(ctx, exercise)
	return exercise, nil
}

func (s *exerciseService) store(ctx context.Context, exercise *model.Exercise) {
	// the creator row is not part of the exercise payload
	c := *exercise
	c.CreatedBy = nil
	s.cache.SetJSON(ctx, s.cacheKey(exercise.ID), &c, exerciseCacheTTL)
}

func (s *exerciseService) Create(ctx context.Context, actorID uint, in ExerciseInput) (*model.Exercise, error) {
	if err := validateExercise(in, true); err != nil {
		return nil, err
	}

	exercise := &model.Exercise{
		IsActive:              true,
		CreatedByID:           &actorID,
		SecondaryMuscleGroups: datatypes.JSONSlice[string]{},
	}
	applyExercise(exercise, in)
	if err := s.repo.Create(ctx, exercise); err != nil {
		return nil, err
	}
	return exercise, nil
}

func (s *exerciseService) Update(ctx context.Context, actorID, id uint, in ExerciseInput) (*model.Exercise, error) {
	exercise, err := s.mutable(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	if err := validateExercise(in, false); err != nil {
		return nil, err
	}

	applyExercise(exercise, in)
	if err := s.repo.Update(ctx, exercise); err != nil {
		return nil, err
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return exercise, nil
}

// Delete deactivates the exercise; the row is kept.
func (s *exerciseService) Delete(ctx context.Context, actorID, id uint) error {
	exercise, err := s.mutable(ctx, actorID, id)
	if err != nil {
		return err
	}
	exercise.IsActive = false
	if err := s.repo.Update(ctx, exercise); err != nil {
		return err
	}
	return s.cache.Delete(ctx, s.cacheKey(id))
}

// mutable loads the exercise and checks the actor may change it. Exercises
// without a creator are editable by anyone authenticated.
func (s *exerciseService) mutable(ctx context.Context, actorID, id uint) (*model.Exercise, error) {
	exercise, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "exercise")
	}
	if exercise.CreatedByID != nil && *exercise.CreatedByID != actorID {
		return nil, apperrors.Forbidden("you do not have permission to modify this exercise")
	}
	return exercise, nil
}

func validateExercise(in ExerciseInput, creating bool) error {
	fields := fieldErrors{}
	if creating {
		fields.required("name", in.Name != nil)
	}
	fields.notBlank("name", in.Name)
	fields.maxLen("name", in.Name, 255)
	fields.choice("movementType", in.MovementType, model.MovementTypes)
	fields.choice("primaryMuscleGroup", in.PrimaryMuscleGroup, model.MuscleGroups)
	if in.SecondaryMuscleGroups != nil {
		fields.choices("secondaryMuscleGroups", *in.SecondaryMuscleGroups, model.MuscleGroups)
	}
	fields.choice("equipment", in.Equipment, model.Equipment)
	fields.choice("difficulty", in.Difficulty, model.Difficulties)
	fields.maxLen("imageUrl", in.ImageURL, 500)
	fields.maxLen("videoUrl", in.VideoURL, 500)
	return fields.err()
}

func applyExercise(e *model.Exercise, in ExerciseInput) {
	if in.Name != nil {
		e.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		e.Description = in.Description
	}
	if in.MovementType != nil {
		e.MovementType = in.MovementType
	}
	if in.PrimaryMuscleGroup != nil {
		e.PrimaryMuscleGroup = in.PrimaryMuscleGroup
	}
	if in.SecondaryMuscleGroups != nil {
		e.SecondaryMuscleGroups = datatypes.JSONSlice[string](*in.SecondaryMuscleGroups)
	}
	if in.Equipment != nil {
		e.Equipment = in.Equipment
	}
	if in.Difficulty != nil {
		e.Difficulty = in.Difficulty
	}
	if in.Instructions != nil {
		e.Instructions = in.Instructions
	}
	if in.ImageURL != nil {
		e.ImageURL = in.ImageURL
	}
	if in.VideoURL != nil {
		e.VideoURL = in.VideoURL
	}
	if in.IsActive != nil {
		e.IsActive = *in.IsActive
	}
}
