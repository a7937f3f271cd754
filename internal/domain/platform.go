package domain

import (
	"time"

	"github.com/google/uuid"
)

type Platform struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name        string    `gorm:"size:100;uniqueIndex;not null"`
	Description string    `gorm:"size:500"`
	SiteURL     string
	Active      bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultPlatformName подставляется, когда экспорт не указывает поставщика.
const DefaultPlatformName = "LinkedIn Learning"
