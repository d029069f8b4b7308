package handler

import (
	"time"

	"github.com/shopspring/decimal"

	"fitlog/internal/model"
	"fitlog/internal/service"
)

// UserResponse is the public view of a user.
type UserResponse struct {
	ID          uint             `json:"id"`
	Username    string           `json:"username"`
	Email       string           `json:"email"`
	FirstName   *string          `json:"firstName"`
	LastName    *string          `json:"lastName"`
	DateOfBirth *string          `json:"dateOfBirth"`
	Gender      *string          `json:"gender"`
	Height      *decimal.Decimal `json:"height" swaggertype:"string"`
	Weight      *decimal.Decimal `json:"weight" swaggertype:"string"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		DateOfBirth: formatDate(u.DateOfBirth),
		Gender:      u.Gender,
		Height:      u.Height,
		Weight:      u.Weight,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ExerciseRequest is the body for creating or updating an exercise.
type ExerciseRequest struct {
	Name                  *string   `json:"name" validate:"omitempty,max=255"`
	Description           *string   `json:"description"`
	MovementType          *string   `json:"movementType"`
	PrimaryMuscleGroup    *string   `json:"primaryMuscleGroup"`
	SecondaryMuscleGroups *[]string `json:"secondaryMuscleGroups"`
	Equipment             *string   `json:"equipment"`
	Difficulty            *string   `json:"difficulty"`
	Instructions          *string   `json:"instructions"`
	ImageURL              *string   `json:"imageUrl" validate:"omitempty,url"`
	VideoURL              *string   `json:"videoUrl" validate:"omitempty,url"`
	IsActive              *bool     `json:"isActive"`
}

func (r ExerciseRequest) input() service.ExerciseInput {
	return service.ExerciseInput{
		Name:                  r.Name,
		Description:           r.Description,
		MovementType:          r.MovementType,
		PrimaryMuscleGroup:    r.PrimaryMuscleGroup,
		SecondaryMuscleGroups: r.SecondaryMuscleGroups,
		Equipment:             r.Equipment,
		Difficulty:            r.Difficulty,
		Instructions:          r.Instructions,
		ImageURL:              r.ImageURL,
		VideoURL:              r.VideoURL,
		IsActive:              r.IsActive,
	}
}

// ExerciseResponse is the public view of an exercise.
type ExerciseResponse struct {
	ID                    uint      `json:"id"`
	Name                  string    `json:"name"`
	Description           *string   `json:"description"`
	MovementType          *string   `json:"movementType"`
	PrimaryMuscleGroup    *string   `json:"primaryMuscleGroup"`
	SecondaryMuscleGroups []string  `json:"secondaryMuscleGroups"`
	Equipment             *string   `json:"equipment"`
	Difficulty            *string   `json:"difficulty"`
	Instructions          *string   `json:"instructions"`
	ImageURL              *string   `json:"imageUrl"`
	VideoURL              *string   `json:"videoUrl"`
	IsActive              bool      `json:"isActive"`
	CreatedBy             *uint     `json:"createdBy"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

func toExerciseResponse(e *model.Exercise) ExerciseResponse {
	secondary := []string(e.SecondaryMuscleGroups)
	if secondary == nil {
		secondary = []string{}
	}
	return ExerciseResponse{
		ID:                    e.ID,
		Name:                  e.Name,
		Description:           e.Description,
		MovementType:          e.MovementType,
		PrimaryMuscleGroup:    e.PrimaryMuscleGroup,
		SecondaryMuscleGroups: secondary,
		Equipment:             e.Equipment,
		Difficulty:            e.Difficulty,
		Instructions:          e.Instructions,
		ImageURL:              e.ImageURL,
		VideoURL:              e.VideoURL,
		IsActive:              e.IsActive,
		CreatedBy:             e.CreatedByID,
		CreatedAt:             e.CreatedAt,
		UpdatedAt:             e.UpdatedAt,
	}
}

// RoutineRequest is the body for creating or updating a routine.
type RoutineRequest struct {
	Name           *string `json:"name" validate:"omitempty,max=255"`
	Description    *string `json:"description"`
	DurationWeeks  *int    `json:"durationWeeks"`
	DurationMonths *int    `json:"durationMonths"`
	IsActive       *bool   `json:"isActive"`
}

func (r RoutineRequest) input() service.RoutineInput {
	return service.RoutineInput{
		Name:           r.Name,
		Description:    r.Description,
		DurationWeeks:  r.DurationWeeks,
		DurationMonths: r.DurationMonths,
		IsActive:       r.IsActive,
	}
}

// RoutineResponse is the public view of a routine.
type RoutineResponse struct {
	ID                uint      `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description"`
	DurationWeeks     *int      `json:"durationWeeks"`
	DurationMonths    *int      `json:"durationMonths"`
	IsActive          bool      `json:"isActive"`
	CreatedBy         uint      `json:"createdBy"`
	CreatedByUsername string    `json:"createdByUsername,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// RoutineFullResponse is a routine with its whole hierarchy.
type RoutineFullResponse struct {
	RoutineResponse
	Weeks []WeekFullResponse `json:"weeks"`
}

func toRoutineResponse(r *model.Routine) RoutineResponse {
	resp := RoutineResponse{
		ID:             r.ID,
		Name:           r.Name,
		Description:    r.Description,
		DurationWeeks:  r.DurationWeeks,
		DurationMonths: r.DurationMonths,
		IsActive:       r.IsActive,
		CreatedBy:      r.CreatedByID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
	if r.CreatedBy != nil {
		resp.CreatedByUsername = r.CreatedBy.Username
	}
	return resp
}

func toRoutineFullResponse(r *model.Routine) RoutineFullResponse {
	weeks := make([]WeekFullResponse, 0, len(r.Weeks))
	for i := range r.Weeks {
		weeks = append(weeks, toWeekFullResponse(&r.Weeks[i]))
	}
	return RoutineFullResponse{RoutineResponse: toRoutineResponse(r), Weeks: weeks}
}

// WeekRequest is the body for creating or updating a week.
type WeekRequest struct {
	WeekNumber *int    `json:"weekNumber"`
	Notes      *string `json:"notes"`
}

// WeekResponse is the public view of a week.
type WeekResponse struct {
	ID         uint      `json:"id"`
	RoutineID  uint      `json:"routineId"`
	WeekNumber int       `json:"weekNumber"`
	Notes      *string   `json:"notes"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// WeekFullResponse is a week with its days.
type WeekFullResponse struct {
	WeekResponse
	Days []DayFullResponse `json:"days"`
}

func toWeekResponse(w *model.Week) WeekResponse {
	return WeekResponse{
		ID:         w.ID,
		RoutineID:  w.RoutineID,
		WeekNumber: w.WeekNumber,
		Notes:      w.Notes,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func toWeekFullResponse(w *model.Week) WeekFullResponse {
	days := make([]DayFullResponse, 0, len(w.Days))
	for i := range w.Days {
		days = append(days, toDayFullResponse(&w.Days[i]))
	}
	return WeekFullResponse{WeekResponse: toWeekResponse(w), Days: days}
}

// DayRequest is the body for creating or updating a day.
type DayRequest struct {
	DayNumber *int    `json:"dayNumber"`
	Name      *string `json:"name"`
	Notes     *string `json:"notes"`
}

// DayResponse is the public view of a day.
type DayResponse struct {
	ID        uint      `json:"id"`
	WeekID    uint      `json:"weekId"`
	DayNumber int       `json:"dayNumber"`
	Name      *string   `json:"name"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DayFullResponse is a day with its blocks.
type DayFullResponse struct {
	DayResponse
	Blocks []BlockFullResponse `json:"blocks"`
}

func toDayResponse(d *model.Day) DayResponse {
	return DayResponse{
		ID:        d.ID,
		WeekID:    d.WeekID,
		DayNumber: d.DayNumber,
		Name:      d.Name,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDayFullResponse(d *model.Day) DayFullResponse {
	blocks := make([]BlockFullResponse, 0, len(d.Blocks))
	for i := range d.Blocks {
		blocks = append(blocks, toBlockFullResponse(&d.Blocks[i]))
	}
	return DayFullResponse{DayResponse: toDayResponse(d), Blocks: blocks}
}

// BlockRequest is the body for creating or updating a block.
type BlockRequest struct {
	Name  *string `json:"name" validate:"omitempty,max=255"`
	Order *int    `json:"order"`
	Notes *string `json:"notes"`
}

// BlockResponse is the public view of a block.
type BlockResponse struct {
	ID        uint      `json:"id"`
	DayID     uint      `json:"dayId"`
	Name      string    `json:"name"`
	Order     int       `json:"order"`
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BlockFullResponse is a block with its exercises.
type BlockFullResponse struct {
	BlockResponse
	Exercises []RoutineExerciseResponse `json:"exercises"`
}

func toBlockResponse(b *model.Block) BlockResponse {
	return BlockResponse{
		ID:        b.ID,
		DayID:     b.DayID,
		Name:      b.Name,
		Order:     b.Order,
		Notes:     b.Notes,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func toBlockFullResponse(b *model.Block) BlockFullResponse {
	exercises := make([]RoutineExerciseResponse, 0, len(b.Exercises))
	for i := range b.Exercises {
		exercises = append(exercises, toRoutineExerciseResponse(&b.Exercises[i]))
	}
	return BlockFullResponse{BlockResponse: toBlockResponse(b), Exercises: exercises}
}

// RoutineExerciseRequest is the body for creating or updating an exercise slot.
type RoutineExerciseRequest struct {
	ExerciseID       *uint            `json:"exerciseId"`
	Order            *int             `json:"order"`
	Sets             *int             `json:"sets"`
	Repetitions      *string          `json:"repetitions"`
	Weight           *decimal.Decimal `json:"weight" swaggertype:"string"`
	WeightPercentage *decimal.Decimal `json:"weightPercentage" swaggertype:"string"`
	Tempo            *string          `json:"tempo"`
	RestSeconds      *int             `json:"restSeconds"`
	Notes            *string          `json:"notes"`
}

func (r RoutineExerciseRequest) input() service.RoutineExerciseInput {
	return service.RoutineExerciseInput{
		ExerciseID:       r.ExerciseID,
		Order:            r.Order,
		Sets:             r.Sets,
		Repetitions:      r.Repetitions,
		Weight:           r.Weight,
		WeightPercentage: r.WeightPercentage,
		Tempo:            r.Tempo,
		RestSeconds:      r.RestSeconds,
		Notes:            r.Notes,
	}
}

// RoutineExerciseResponse is the public view of an exercise slot.
type RoutineExerciseResponse struct {
	ID               uint             `json:"id"`
	BlockID          uint             `json:"blockId"`
	ExerciseID       uint             `json:"exerciseId"`
	ExerciseName     string           `json:"exerciseName"`
	Order            int              `json:"order"`
	Sets             *int             `json:"sets"`
	Repetitions      *string          `json:"repetitions"`
	Weight           *decimal.Decimal `json:"weight" swaggertype:"string"`
	WeightPercentage *decimal.Decimal `json:"weightPercentage" swaggertype:"string"`
	Tempo            *string          `json:"tempo"`
	RestSeconds      *int             `json:"restSeconds"`
	Notes            *string          `json:"notes"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

func toRoutineExerciseResponse(re *model.RoutineExercise) RoutineExerciseResponse {
	resp := RoutineExerciseResponse{
		ID:               re.ID,
		BlockID:          re.BlockID,
		ExerciseID:       re.ExerciseID,
		Order:            re.Order,
		Sets:             re.Sets,
		Repetitions:      re.Repetitions,
		Weight:           re.Weight,
		WeightPercentage: re.WeightPercentage,
		Tempo:            re.Tempo,
		RestSeconds:      re.RestSeconds,
		Notes:            re.Notes,
		CreatedAt:        re.CreatedAt,
		UpdatedAt:        re.UpdatedAt,
	}
	if re.Exercise != nil {
		resp.ExerciseName = re.Exercise.Name
	}
	return resp
}

// SessionRequest is the body for logging or updating a session.
// Date is YYYY-MM-DD; times are RFC 3339.
type SessionRequest struct {
	RoutineID       *uint            `json:"routineId"`
	Date            *string          `json:"date"`
	StartTime       *time.Time       `json:"startTime"`
	EndTime         *time.Time       `json:"endTime"`
	DurationMinutes *int             `json:"durationMinutes"`
	Notes           *string          `json:"notes"`
	RPE             *int             `json:"rpe"`
	EnergyLevel     *string          `json:"energyLevel"`
	SleepHours      *decimal.Decimal `json:"sleepHours" swaggertype:"string"`
}

func (r SessionRequest) input() (service.SessionInput, error) {
	date, err := optionalDate("date", r.Date)
	if err != nil {
		return service.SessionInput{}, err
	}
	return service.SessionInput{
		RoutineID:       r.RoutineID,
		Date:            date,
		StartTime:       r.StartTime,
		EndTime:         r.EndTime,
		DurationMinutes: r.DurationMinutes,
		Notes:           r.Notes,
		RPE:             r.RPE,
		EnergyLevel:     r.EnergyLevel,
		SleepHours:      r.SleepHours,
	}, nil
}

// SessionResponse is the public view of a session.
type SessionResponse struct {
	ID              uint             `json:"id"`
	UserID          uint             `json:"userId"`
	Username        string           `json:"username,omitempty"`
	RoutineID       *uint            `json:"routineId"`
	RoutineName     *string          `json:"routineName"`
	Date            string           `json:"date"`
	StartTime       *time.Time       `json:"startTime"`
	EndTime         *time.Time       `json:"endTime"`
	DurationMinutes *int             `json:"durationMinutes"`
	Notes           *string          `json:"notes"`
	RPE             *int             `json:"rpe"`
	EnergyLevel     *string          `json:"energyLevel"`
	SleepHours      *decimal.Decimal `json:"sleepHours" swaggertype:"string"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// SessionFullResponse is a session with its exercises.
type SessionFullResponse struct {
	SessionResponse
	SessionExercises []SessionExerciseResponse `json:"sessionExercises"`
}

func toSessionResponse(s *model.Session) SessionResponse {
	resp := SessionResponse{
		ID:              s.ID,
		UserID:          s.UserID,
		RoutineID:       s.RoutineID,
		Date:            s.Date.Format(dateLayout),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		DurationMinutes: s.DurationMinutes,
		Notes:           s.Notes,
		RPE:             s.RPE,
		EnergyLevel:     s.EnergyLevel,
		SleepHours:      s.SleepHours,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
	if s.User != nil {
		resp.Username = s.User.Username
	}
	if s.Routine != nil {
		name := s.Routine.Name
		resp.RoutineName = &name
	}
	return resp
}

func toSessionFullResponse(s *model.Session) SessionFullResponse {
	exercises := make([]SessionExerciseResponse, 0, len(s.Exercises))
	for i := range s.Exercises {
		exercises = append(exercises, toSessionExerciseResponse(&s.Exercises[i]))
	}
	return SessionFullResponse{SessionResponse: toSessionResponse(s), SessionExercises: exercises}
}

// SessionExerciseRequest is the body for recording a performed exercise.
type SessionExerciseRequest struct {
	ExerciseID    *uint            `json:"exerciseId"`
	Order         *int             `json:"order"`
	SetsCompleted *int             `json:"setsCompleted"`
	Repetitions   *string          `json:"repetitions"`
	Weight        *decimal.Decimal `json:"weight" swaggertype:"string"`
	RPE           *int             `json:"rpe"`
	RestSeconds   *int             `json:"restSeconds"`
	Notes         *string          `json:"notes"`
}

func (r SessionExerciseRequest) input() service.SessionExerciseInput {
	return service.SessionExerciseInput{
		ExerciseID:    r.ExerciseID,
		Order:         r.Order,
		SetsCompleted: r.SetsCompleted,
		Repetitions:   r.Repetitions,
		Weight:        r.Weight,
		RPE:           r.RPE,
		RestSeconds:   r.RestSeconds,
		Notes:         r.Notes,
	}
}

// ExerciseSummary is the short form of an exercise nested in session data.
type ExerciseSummary struct {
	ID                 uint    `json:"id"`
	Name               string  `json:"name"`
	PrimaryMuscleGroup *string `json:"primaryMuscleGroup"`
}

// SessionExerciseResponse is the public view of a performed exercise.
type SessionExerciseResponse struct {
	ID            uint             `json:"id"`
	SessionID     uint             `json:"sessionId"`
	ExerciseID    uint             `json:"exerciseId"`
	Exercise      *ExerciseSummary `json:"exercise"`
	Order         int              `json:"order"`
	SetsCompleted *int             `json:"setsCompleted"`
	Repetitions   *string          `json:"repetitions"`
	Weight        *decimal.Decimal `json:"weight" swaggertype:"string"`
	RPE           *int             `json:"rpe"`
	RestSeconds   *int             `json:"restSeconds"`
	Notes         *string          `json:"notes"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

func toSessionExerciseResponse(se *model.SessionExercise) SessionExerciseResponse {
	resp := SessionExerciseResponse{
		ID:            se.ID,
		SessionID:     se.SessionID,
		ExerciseID:    se.ExerciseID,
		Order:         se.Order,
		SetsCompleted: se.SetsCompleted,
		Repetitions:   se.Repetitions,
		Weight:        se.Weight,
		RPE:           se.RPE,
		RestSeconds:   se.RestSeconds,
		Notes:         se.Notes,
		CreatedAt:     se.CreatedAt,
		UpdatedAt:     se.UpdatedAt,
	}
	if se.Exercise != nil {
		resp.Exercise = &ExerciseSummary{
			ID:                 se.Exercise.ID,
			Name:               se.Exercise.Name,
			PrimaryMuscleGroup: se.Exercise.PrimaryMuscleGroup,
		}
	}
	return resp
}

func mapSlice[T any, R any](in []T, fn func(*T) R) []R {
	out := make([]R, 0, len(in))
	for i := range in {
		out = append(out, fn(&in[i]))
	}
	return out
}
