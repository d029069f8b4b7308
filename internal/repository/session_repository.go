package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"fitlog/internal/model"
)

// SessionFilter narrows a session listing. Zero values mean "no filter".
type SessionFilter struct {
	UserID    uint
	RoutineID *uint
	Date      *time.Time
}

// SessionRepository defines persistence for sessions and their exercises.
type SessionRepository interface {
	List(ctx context.Context, filter SessionFilter) ([]model.Session, error)
	FindByID(ctx context.Context, id uint) (*model.Session, error)
	FindFull(ctx context.Context, id uint) (*model.Session, error)
	Create(ctx context.Context, session *model.Session) error
	Update(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id uint) error

	ListExercises(ctx context.Context, sessionID uint) ([]model.SessionExercise, error)
	FindExercise(ctx context.Context, id uint) (*model.SessionExercise, error)
	CreateExercise(ctx context.Context, se *model.SessionExercise) error
	UpdateExercise(ctx context.Context, se *model.SessionExercise) error
	DeleteExercise(ctx context.Context, id uint) error
	NextExerciseOrder(ctx context.Context, sessionID uint) (int, error)

	Lock(ctx context.Context, sessionID uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo SessionRepository) error) error
}

type sessionRepository struct {
	db        *gorm.DB
	sessions  store[model.Session]
	exercises store[model.SessionExercise]
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{
		db:        db,
		sessions:  store[model.Session]{db: db},
		exercises: store[model.SessionExercise]{db: db},
	}
}

// List lists a user's sessions, most recent date first.
func (r *sessionRepository) List(ctx context.Context, f SessionFilter) ([]model.Session, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Preload("Routine").
		Where("user_id = ?", f.UserID)
	if f.RoutineID != nil {
		q = q.Where("routine_id = ?", *f.RoutineID)
	}
	if f.Date != nil {
		day := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("date >= ? AND date < ?", day, day.AddDate(0, 0, 1))
	}
	var sessions []model.Session
	if err := q.Order("date DESC").Order("created_at DESC").Order("id DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) FindByID(ctx context.Context, id uint) (*model.Session, error) {
	return r.sessions.findByID(ctx, id, "User", "Routine")
}

// FindFull loads the session with its exercises in canonical order.
func (r *sessionRepository) FindFull(ctx context.Context, id uint) (*model.Session, error) {
	var session model.Session
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Routine").
		Preload("Exercises", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order").Order("id") }).
		Preload("Exercises.Exercise").
		First(&session, id).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	return r.sessions.create(ctx, session)
}

func (r *sessionRepository) Update(ctx context.Context, session *model.Session) error {
	return r.sessions.save(ctx, session)
}

// Delete removes the session and its exercises.
func (r *sessionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.SessionExercise{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Session{}, id).Error
	})
}

func (r *sessionRepository) ListExercises(ctx context.Context, sessionID uint) ([]model.SessionExercise, error) {
	return r.exercises.listByParent(ctx, "session_id", sessionID, "sort_order, id", "Exercise")
}

func (r *sessionRepository) FindExercise(ctx context.Context, id uint) (*model.SessionExercise, error) {
	return r.exercises.findByID(ctx, id, "Exercise")
}

func (r *sessionRepository) CreateExercise(ctx context.Context, se *model.SessionExercise) error {
	return r.exercises.create(ctx, se)
}

func (r *sessionRepository) UpdateExercise(ctx context.Context, se *model.SessionExercise) error {
	return r.exercises.save(ctx, se)
}

func (r *sessionRepository) DeleteExercise(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.SessionExercise{}, id).Error
}

func (r *sessionRepository) NextExerciseOrder(ctx context.Context, sessionID uint) (int, error) {
	return r.exercises.nextOrder(ctx, "session_id", sessionID)
}

func (r *sessionRepository) Lock(ctx context.Context, sessionID uint) error {
	return lockRow(ctx, r.db, model.Session{}.TableName(), sessionID)
}

// WithTransaction executes a function within a database transaction.
func (r *sessionRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo SessionRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewSessionRepository(tx))
	})
}
