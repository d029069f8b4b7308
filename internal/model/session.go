package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Session is a logged workout. The routine reference is cleared, not
// cascaded, when the routine row is removed.
type Session struct {
	ID              uint      `gorm:"primaryKey"`
	UserID          uint      `gorm:"not null;index"`
	RoutineID       *uint     `gorm:"index"`
	Date            time.Time `gorm:"type:date;not null;index"`
	StartTime       *time.Time
	EndTime         *time.Time
	DurationMinutes *int
	Notes           *string          `gorm:"type:text"`
	RPE             *int             `gorm:"column:rpe"`
	EnergyLevel     *string          `gorm:"size:20;index"`
	SleepHours      *decimal.Decimal `gorm:"type:decimal(4,2)"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Relations
	User      *User             `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Routine   *Routine          `gorm:"foreignKey:RoutineID;constraint:OnDelete:SET NULL"`
	Exercises []SessionExercise `gorm:"foreignKey:SessionID;constraint:OnDelete:CASCADE"`
}

// TableName keeps sessions apart from any framework session table.
func (Session) TableName() string {
	return "training_sessions"
}

// SessionExercise records what was actually performed in a session.
type SessionExercise struct {
	ID            uint `gorm:"primaryKey"`
	SessionID     uint `gorm:"not null;index"`
	ExerciseID    uint `gorm:"not null;index"`
	Order         int  `gorm:"column:sort_order;not null;default:0;index"`
	SetsCompleted *int
	Repetitions   *string          `gorm:"size:50"`
	Weight        *decimal.Decimal `gorm:"type:decimal(8,2)"`
	RPE           *int             `gorm:"column:rpe"`
	RestSeconds   *int
	Notes         *string `gorm:"type:text"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Relations
	Exercise *Exercise `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE"`
}
