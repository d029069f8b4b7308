package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents an authenticated user in the system.
type User struct {
	ID           uint             `gorm:"primaryKey"`
	Username     string           `gorm:"size:150;not null;uniqueIndex"`
	Email        string           `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string           `gorm:"size:255;not null" json:"-"` // Never expose in JSON
	FirstName    *string          `gorm:"size:150"`
	LastName     *string          `gorm:"size:150"`
	DateOfBirth  *time.Time       `gorm:"type:date"`
	Gender       *string          `gorm:"size:10"`
	Height       *decimal.Decimal `gorm:"type:decimal(5,2)"`
	Weight       *decimal.Decimal `gorm:"type:decimal(5,2)"`
	IsActive     bool             `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
