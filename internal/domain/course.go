package domain

import (
	"time"

	"github.com/google/uuid"
)

type CourseStatus string

const (
	CoursePlanned    CourseStatus = "PLANNED"
	CourseActive     CourseStatus = "ACTIVE"
	CourseCompleted  CourseStatus = "COMPLETED"
	CourseSuspended  CourseStatus = "SUSPENDED"
)

type Course struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:500;index;not null"`

	PlatformID uuid.UUID `gorm:"type:uuid;index;not null"`
	Platform   Platform

	// ID контента во внешней LMS (стабильный ключ для дедупликации)
	ExternalID *string `gorm:"size:50;index"`

	URL           string
	Category      string  `gorm:"size:100"`
	DurationHours float64 // в часах, два знака после запятой

	Status CourseStatus `gorm:"size:20;default:'PLANNED'"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
