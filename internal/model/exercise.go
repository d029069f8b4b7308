package model

import (
	"time"

	"gorm.io/datatypes"
)

// Exercise is an entry of the shared exercise library.
// Exercises are never removed; deleting one clears IsActive.
type Exercise struct {
	ID                    uint                        `gorm:"primaryKey"`
	Name                  string                      `gorm:"size:255;not null;index"`
	Description           *string                     `gorm:"type:text"`
	MovementType          *string                     `gorm:"size:20"`
	PrimaryMuscleGroup    *string                     `gorm:"size:20;index"`
	SecondaryMuscleGroups datatypes.JSONSlice[string] `gorm:"type:json"`
	Equipment             *string                     `gorm:"size:20;index"`
	Difficulty            *string                     `gorm:"size:20;index"`
	Instructions          *string                     `gorm:"type:text"`
	ImageURL              *string                     `gorm:"size:500"`
	VideoURL              *string                     `gorm:"size:500"`
	IsActive              bool                        `gorm:"not null;index"`
	CreatedByID           *uint                       `gorm:"index"`
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Relations
	CreatedBy *User `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL"`
}
