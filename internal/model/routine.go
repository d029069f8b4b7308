package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Routine is the root of a training program owned by one user.
type Routine struct {
	ID             uint    `gorm:"primaryKey"`
	Name           string  `gorm:"size:255;not null;index"`
	Description    *string `gorm:"type:text"`
	DurationWeeks  *int
	DurationMonths *int
	IsActive       bool `gorm:"not null;index"`
	CreatedByID    uint `gorm:"not null;index"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Relations
	CreatedBy *User  `gorm:"foreignKey:CreatedByID;constraint:OnDelete:CASCADE"`
	Weeks     []Week `gorm:"foreignKey:RoutineID;constraint:OnDelete:CASCADE"`
}

// Week belongs to a routine; WeekNumber is unique within it.
type Week struct {
	ID         uint    `gorm:"primaryKey"`
	RoutineID  uint    `gorm:"not null;uniqueIndex:idx_weeks_routine_number"`
	WeekNumber int     `gorm:"not null;uniqueIndex:idx_weeks_routine_number"`
	Notes      *string `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Relations
	Days []Day `gorm:"foreignKey:WeekID;constraint:OnDelete:CASCADE"`
}

// Day belongs to a week; DayNumber is unique within it.
type Day struct {
	ID        uint    `gorm:"primaryKey"`
	WeekID    uint    `gorm:"not null;uniqueIndex:idx_days_week_number"`
	DayNumber int     `gorm:"not null;uniqueIndex:idx_days_week_number"`
	Name      *string `gorm:"size:255"`
	Notes     *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Blocks []Block `gorm:"foreignKey:DayID;constraint:OnDelete:CASCADE"`
}

// Block groups exercises inside a day, sorted by (Order, ID).
type Block struct {
	ID        uint    `gorm:"primaryKey"`
	DayID     uint    `gorm:"not null;index"`
	Name      string  `gorm:"size:255;not null"`
	Order     int     `gorm:"column:sort_order;not null;default:0;index"`
	Notes     *string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Exercises []RoutineExercise `gorm:"foreignKey:BlockID;constraint:OnDelete:CASCADE"`
}

// RoutineExercise is a prescribed exercise slot inside a block.
type RoutineExercise struct {
	ID               uint `gorm:"primaryKey"`
	BlockID          uint `gorm:"not null;index"`
	ExerciseID       uint `gorm:"not null;index"`
	Order            int  `gorm:"column:sort_order;not null;default:0;index"`
	Sets             *int
	Repetitions      *string          `gorm:"size:50"`
	Weight           *decimal.Decimal `gorm:"type:decimal(8,2)"`
	WeightPercentage *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Tempo            *string          `gorm:"size:50"`
	RestSeconds      *int
	Notes            *string `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Relations
	Exercise *Exercise `gorm:"foreignKey:ExerciseID;constraint:OnDelete:CASCADE"`
}
