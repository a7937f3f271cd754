package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"size:100;not null"`
	LastName     string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:150;uniqueIndex;not null"`
	EmployeeCode *string   `gorm:"size:50;uniqueIndex"`

	Role      string `gorm:"size:100"`
	Company   string `gorm:"size:100"`
	Department string `gorm:"size:100"`
	SalesArea string `gorm:"size:100"`
	Office    string `gorm:"size:100"`
	Community string `gorm:"size:100"`
	Manager   string `gorm:"size:200"`
	ISMS      string `gorm:"size:10"`

	HiredAt      *time.Time
	TerminatedAt *time.Time

	// Без default-тега: gorm не включает нулевые значения с default
	// в INSERT, и вычисленный Active=false терялся бы при создании.
	Active bool `gorm:"not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// Сотрудник активен, пока дата увольнения не наступила.
func (e *Employee) IsActiveAt(now time.Time) bool {
	if e.TerminatedAt == nil {
		return true
	}
	return e.TerminatedAt.After(now)
}
