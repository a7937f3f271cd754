package domain

import (
	"time"

	"github.com/google/uuid"
)

type AssignmentStatus string

const (
	StatusNotStarted  AssignmentStatus = "NOT_STARTED"
	StatusInProgress  AssignmentStatus = "IN_PROGRESS"
	StatusCompleted   AssignmentStatus = "COMPLETED"
	StatusInterrupted AssignmentStatus = "INTERRUPTED"
)

// Terminal определяет, может ли реконсиляция ещё менять статус.
// COMPLETED и INTERRUPTED назад не откатываются.
func (s AssignmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusInterrupted
}

type Assignment struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	EmployeeID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_employee_course;not null"`
	Employee   Employee
	CourseID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_employee_course;not null"`
	Course     Course

	Status            AssignmentStatus `gorm:"size:20;default:'NOT_STARTED';not null"`
	CompletionPercent float64          // 0–100, два знака
	HoursCompleted    float64

	AssignedAt     time.Time `gorm:"not null"`
	StartDate      *time.Time
	TargetDate     *time.Time
	CompletionDate *time.Time

	Rating           *float64
	FeedbackProvided bool `gorm:"default:false"`
	Skills           string `gorm:"type:text"`

	CertificateObtained bool `gorm:"default:false"`
	ISMSImpact          *bool
	Outcome             string `gorm:"size:20"`
	RequestSource       string `gorm:"size:30"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Assignment) Completed() bool {
	return a.Status == StatusCompleted
}

func (a *Assignment) Overdue(now time.Time) bool {
	return a.TargetDate != nil && now.After(*a.TargetDate) && !a.Completed()
}
