package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "fitlog/internal/errors"
	"fitlog/internal/model"
	"fitlog/internal/repository"
)

// SessionInput carries session fields; nil fields are not provided.
type SessionInput struct {
	RoutineID       *uint
	Date            *time.Time
	StartTime       *time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Notes           *string
	RPE             *int
	EnergyLevel     *string
	SleepHours      *decimal.Decimal
}

// SessionQuery narrows a session listing.
type SessionQuery struct {
	RoutineID *uint
	Date      *time.Time
}

// SessionExerciseInput carries what was performed for one exercise.
type SessionExerciseInput struct {
	ExerciseID    *uint
	Order         *int
	SetsCompleted *int
	Repetitions   *string
	Weight        *decimal.Decimal
	RPE           *int
	RestSeconds   *int
	Notes         *string
}

// SessionService manages logged workouts. Sessions are private to the
// user who logged them.
type SessionService interface {
	List(ctx context.Context, actorID uint, q SessionQuery) ([]model.Session, error)
	Get(ctx context.Context, actorID, id uint, full bool) (*model.Session, error)
	Create(ctx context.Context, actorID uint, in SessionInput) (*model.Session, error)
	Update(ctx context.Context, actorID, id uint, in SessionInput) (*model.Session, error)
	Delete(ctx context.Context, actorID, id uint) error

	ListExercises(ctx context.Context, actorID, sessionID uint) ([]model.SessionExercise, error)
	GetExercise(ctx context.Context, actorID, sessionID, id uint) (*model.SessionExercise, error)
	CreateExercise(ctx context.Context, actorID, sessionID uint, in SessionExerciseInput) (*model.SessionExercise, error)
	UpdateExercise(ctx context.Context, actorID, sessionID, id uint, in SessionExerciseInput) (*model.SessionExercise, error)
	DeleteExercise(ctx context.Context, actorID, sessionID, id uint) error
}

type sessionService struct {
	repo      repository.SessionRepository
	routines  repository.RoutineRepository
	exercises repository.ExerciseRepository
}

// NewSessionService builds a SessionService.
func NewSessionService(repo repository.SessionRepository, routines repository.RoutineRepository, exercises repository.ExerciseRepository) SessionService {
	return &sessionService{repo: repo, routines: routines, exercises: exercises}
}

// DurationMinutes returns the whole minutes between start and end.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// checkRoutine records a field error unless the routine exists and belongs to actorID.
func (s *sessionService) checkRoutine(ctx context.Context, fields fieldErrors, actorID, routineID uint) error {
	owner, err := s.routines.OwnerOf(ctx, repository.LevelRoutine, routineID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && owner != actorID) {
		fields.add("routineId", "routine does not exist or does not belong to you")
		return nil
	}
	return err
}

// owned loads a session and checks it belongs to actorID. Another user's
// session reads as missing on reads and as forbidden on writes.
func (s *sessionService) owned(ctx context.Context, actorID, id uint, read bool) (*model.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "session")
	}
	if session.UserID != actorID {
		if read {
			return nil, apperrors.NotFound("session not found")
		}
		return nil, apperrors.Forbidden("you do not have permission to modify this session")
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context, actorID uint, q SessionQuery) ([]model.Session, error) {
	if q.RoutineID != nil {
		fields := fieldErrors{}
		if err := s.checkRoutine(ctx, fields, actorID, *q.RoutineID); err != nil {
			return nil, err
		}
		if err := fields.err(); err != nil {
			return nil, err
		}
	}
	return s.repo.List(ctx, repository.SessionFilter{UserID: actorID, RoutineID: q.RoutineID, Date: q.Date})
}

func (s *sessionService) Get(ctx context.Context, actorID, id uint, full bool) (*model.Session, error) {
	session, err := s.owned(ctx, actorID, id, true)
	if err != nil {
		return nil, err
	}
	if !full {
		return session, nil
	}
	session, err = s.repo.FindFull(ctx, id)
	if err != nil {
		return nil, notFound(err, "session")
	}
	return session, nil
}

func (s *sessionService) validate(ctx context.Context, actorID uint, in SessionInput, start, end *time.Time, creating bool) error {
	fields := fieldErrors{}
	if creating {
		fields.required("date", in.Date != nil)
	}
	fields.atLeast("durationMinutes", in.DurationMinutes, 0)
	fields.between("rpe", in.RPE, 1, 10)
	fields.choice("energyLevel", in.EnergyLevel, model.EnergyLevels)
	if in.SleepHours != nil && (in.SleepHours.IsNegative() || in.SleepHours.GreaterThan(decimal.NewFromInt(24))) {
		fields.add("sleepHours", "must be between 0 and 24")
	}
	if start != nil && end != nil && !end.After(*start) {
		fields.add("endTime", "end time must be after start time")
	}
	if in.RoutineID != nil {
		if err := s.checkRoutine(ctx, fields, actorID, *in.RoutineID); err != nil {
			return err
		}
	}
	return fields.err()
}

// Create logs a session. When no duration is given and both start and end
// are, the duration is derived from them.
func (s *sessionService) Create(ctx context.Context, actorID uint, in SessionInput) (*model.Session, error) {
	if err := s.validate(ctx, actorID, in, in.StartTime, in.EndTime, true); err != nil {
		return nil, err
	}

	session := &model.Session{UserID: actorID}
	applySession(session, in)
	if in.DurationMinutes == nil && session.StartTime != nil && session.EndTime != nil {
		d := DurationMinutes(*session.StartTime, *session.EndTime)
		session.DurationMinutes = &d
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return nil, err
	}
	return s.reload(ctx, session.ID)
}

// Update applies a partial change. The time range is checked against the
// merged start and end; the duration is re-derived when either time changes
// and no duration is given.
func (s *sessionService) Update(ctx context.Context, actorID, id uint, in SessionInput) (*model.Session, error) {
	session, err := s.owned(ctx, actorID, id, false)
	if err != nil {
		return nil, err
	}

	start, end := session.StartTime, session.EndTime
	if in.StartTime != nil {
		start = in.StartTime
	}
	if in.EndTime != nil {
		end = in.EndTime
	}
	if err := s.validate(ctx, actorID, in, start, end, false); err != nil {
		return nil, err
	}

	applySession(session, in)
	timesChanged := in.StartTime != nil || in.EndTime != nil
	if in.DurationMinutes == nil && timesChanged && start != nil && end != nil {
		d := DurationMinutes(*start, *end)
		session.DurationMinutes = &d
	}
	if err := s.repo.Update(ctx, session); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

func (s *sessionService) reload(ctx context.Context, id uint) (*model.Session, error) {
	session, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "session")
	}
	return session, nil
}

func applySession(sess *model.Session, in SessionInput) {
	if in.RoutineID != nil {
		sess.RoutineID = in.RoutineID
		sess.Routine = nil
	}
	if in.Date != nil {
		sess.Date = dateOnly(*in.Date)
	}
	if in.StartTime != nil {
		sess.StartTime = in.StartTime
	}
	if in.EndTime != nil {
		sess.EndTime = in.EndTime
	}
	if in.DurationMinutes != nil {
		sess.DurationMinutes = in.DurationMinutes
	}
	if in.Notes != nil {
		sess.Notes = in.Notes
	}
	if in.RPE != nil {
		sess.RPE = in.RPE
	}
	if in.EnergyLevel != nil {
		sess.EnergyLevel = in.EnergyLevel
	}
	if in.SleepHours != nil {
		sess.SleepHours = in.SleepHours
	}
}

// Delete removes the session and its exercises.
func (s *sessionService) Delete(ctx context.Context, actorID, id uint) error {
	if _, err := s.owned(ctx, actorID, id, false); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *sessionService) ListExercises(ctx context.Context, actorID, sessionID uint) ([]model.SessionExercise, error) {
	if _, err := s.owned(ctx, actorID, sessionID, true); err != nil {
		return nil, err
	}
	return s.repo.ListExercises(ctx, sessionID)
}

// exercise loads a session exercise that must hang off sessionID.
func (s *sessionService) exercise(ctx context.Context, sessionID, id uint) (*model.SessionExercise, error) {
	se, err := s.repo.FindExercise(ctx, id)
	if err != nil {
		return nil, notFound(err, "session exercise")
	}
	if se.SessionID != sessionID {
		return nil, apperrors.NotFound("session exercise not found")
	}
	return se, nil
}

func (s *sessionService) GetExercise(ctx context.Context, actorID, sessionID, id uint) (*model.SessionExercise, error) {
	if _, err := s.owned(ctx, actorID, sessionID, true); err != nil {
		return nil, err
	}
	return s.exercise(ctx, sessionID, id)
}

func (s *sessionService) validateExercise(ctx context.Context, in SessionExerciseInput, creating bool) error {
	fields := fieldErrors{}
	if creating {
		fields.required("exerciseId", in.ExerciseID != nil)
	}
	fields.order(in.Order, creating)
	fields.atLeast("setsCompleted", in.SetsCompleted, 0)
	fields.atLeast("restSeconds", in.RestSeconds, 0)
	fields.between("rpe", in.RPE, 1, 10)
	fields.maxLen("repetitions", in.Repetitions, 50)
	if in.Weight != nil && in.Weight.IsNegative() {
		fields.add("weight", "must be greater than or equal to 0")
	}
	if in.ExerciseID != nil {
		if err := checkExercise(ctx, s.exercises, fields, *in.ExerciseID); err != nil {
			return err
		}
	}
	return fields.err()
}

func applySessionExercise(se *model.SessionExercise, in SessionExerciseInput) {
	if in.ExerciseID != nil {
		se.ExerciseID = *in.ExerciseID
		se.Exercise = nil
	}
	if in.Order != nil {
		se.Order = *in.Order
	}
	if in.SetsCompleted != nil {
		se.SetsCompleted = in.SetsCompleted
	}
	if in.Repetitions != nil {
		se.Repetitions = in.Repetitions
	}
	if in.Weight != nil {
		se.Weight = in.Weight
	}
	if in.RPE != nil {
		se.RPE = in.RPE
	}
	if in.RestSeconds != nil {
		se.RestSeconds = in.RestSeconds
	}
	if in.Notes != nil {
		se.Notes = in.Notes
	}
}

func (s *sessionService) CreateExercise(ctx context.Context, actorID, sessionID uint, in SessionExerciseInput) (*model.SessionExercise, error) {
	if _, err := s.owned(ctx, actorID, sessionID, false); err != nil {
		return nil, err
	}
	if err := s.validateExercise(ctx, in, true); err != nil {
		return nil, err
	}

	se := &model.SessionExercise{SessionID: sessionID}
	applySessionExercise(se, in)
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.SessionRepository) error {
		if err := repo.Lock(ctx, sessionID); err != nil {
			return notFound(err, "session")
		}
		if se.Order == 0 {
			next, err := repo.NextExerciseOrder(ctx, sessionID)
			if err != nil {
				return err
			}
			se.Order = next
		}
		return repo.CreateExercise(ctx, se)
	})
	if err != nil {
		return nil, err
	}
	return s.exercise(ctx, sessionID, se.ID)
}

func (s *sessionService) UpdateExercise(ctx context.Context, actorID, sessionID, id uint, in SessionExerciseInput) (*model.SessionExercise, error) {
	if _, err := s.owned(ctx, actorID, sessionID, false); err != nil {
		return nil, err
	}
	se, err := s.exercise(ctx, sessionID, id)
	if err != nil {
		return nil, err
	}
	if err := s.validateExercise(ctx, in, false); err != nil {
		return nil, err
	}
	applySessionExercise(se, in)
	if err := s.repo.UpdateExercise(ctx, se); err != nil {
		return nil, err
	}
	return s.exercise(ctx, sessionID, id)
}

func (s *sessionService) DeleteExercise(ctx context.Context, actorID, sessionID, id uint) error {
	if _, err := s.owned(ctx, actorID, sessionID, false); err != nil {
		return err
	}
	if _, err := s.exercise(ctx, sessionID, id); err != nil {
		return err
	}
	return s.repo.DeleteExercise(ctx, id)
}
