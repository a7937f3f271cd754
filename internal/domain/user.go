package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username string    `gorm:"size:100;uniqueIndex;not null"`
	Email    string    `gorm:"size:150;uniqueIndex;not null"`
	Password string    `gorm:"not null"` // bcrypt hash
	Role     string    `gorm:"size:20;default:'user'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
