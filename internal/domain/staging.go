package domain

import "time"

// StagingRecord — одно сырое наблюдение из внешнего экспорта.
// Хранится как журнал: после реконсиляции помечается processed,
// но никогда не удаляется.
type StagingRecord struct {
	ID uint `gorm:"primaryKey"`

	FirstName    string `gorm:"size:100"`
	LastName     string `gorm:"size:100"`
	Email        string `gorm:"size:255;not null;index"`
	EmployeeCode string `gorm:"size:50"`

	ContentName string `gorm:"size:500;not null"`
	ContentID   string `gorm:"size:50"`
	Provider    string `gorm:"size:100"`
	ContentType string `gorm:"size:100"`
	CourseURL   string

	// Сырые строки из экспорта; типизируются нормализатором при обработке.
	RawDuration       string `gorm:"size:20"`
	RawPercentage     string `gorm:"size:20"`
	RawStartDate      string `gorm:"size:50"`
	RawLastViewDate   string `gorm:"size:50"`
	RawCompletionDate string `gorm:"size:50"`

	Rating           *float64
	TotalRatings     int
	CompletedRatings int

	Skills           string `gorm:"type:text"`
	ParentCourseName string `gorm:"size:500"`
	ParentCourseID   string `gorm:"size:50"`
	InteractionGroups string `gorm:"type:text"`
	CurrentGroups     string `gorm:"type:text"`

	SourceFile  string `gorm:"size:255;index"`
	Processed   bool   `gorm:"default:false;index"`
	ProcessedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Valid отсеивает записи без ключевых полей ещё на этапе парсинга.
func (r *StagingRecord) Valid() bool {
	return r.Email != "" && r.ContentName != ""
}
