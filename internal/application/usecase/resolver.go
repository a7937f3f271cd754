package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/normalize"
)

// Resolver превращает сырые идентификаторы из staging-записей в
// сущности каталога: email -> сотрудник, имя -> платформа,
// внешний id -> курс. Недостающие сущности создаются на лету.
//
// Все запросы идут через переданный tx: резолюция, реконсиляция и
// отметка processed живут в одной транзакции на запись.
type Resolver struct{}

// ResolveEmployee ищет сотрудника по email, затем по табельному коду.
// Совпадение по коду означает смену почтового адреса — запись
// обновляется новым email и именем.
func (Resolver) ResolveEmployee(ctx context.Context, tx *gorm.DB, rec *domain.StagingRecord) (*domain.Employee, error) {
	email := strings.ToLower(strings.TrimSpace(rec.Email))

	var employee domain.Employee
	err := tx.WithContext(ctx).Where("LOWER(email) = ?", email).First(&employee).Error
	if err == nil {
		return &employee, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if rec.EmployeeCode != "" {
		err = tx.WithContext(ctx).Where("employee_code = ?", rec.EmployeeCode).First(&employee).Error
		if err == nil {
			employee.Email = email
			if rec.FirstName != "" {
				employee.FirstName = rec.FirstName
			}
			if rec.LastName != "" {
				employee.LastName = rec.LastName
			}
			if err := tx.WithContext(ctx).Save(&employee).Error; err != nil {
				return nil, err
			}
			return &employee, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	employee = domain.Employee{
		ID:        uuid.New(),
		FirstName: rec.FirstName,
		LastName:  rec.LastName,
		Email:     email,
		Active:    true,
	}
	if rec.EmployeeCode != "" {
		code := rec.EmployeeCode
		employee.EmployeeCode = &code
	}
	if err := tx.WithContext(ctx).Create(&employee).Error; err != nil {
		// Гонка на уникальном email: параллельная запись успела
		// первой, перечитываем и работаем с ней.
		var existing domain.Employee
		if rerr := tx.WithContext(ctx).Where("LOWER(email) = ?", email).First(&existing).Error; rerr == nil {
			return &existing, nil
		}
		return nil, &ResolutionError{Entity: "employee", Key: email, Err: err}
	}
	return &employee, nil
}

// ResolvePlatform ищет платформу по имени без учёта регистра.
// Пустой поставщик означает платформу по умолчанию.
func (Resolver) ResolvePlatform(ctx context.Context, tx *gorm.DB, provider string) (*domain.Platform, error) {
	name := strings.TrimSpace(provider)
	if name == "" {
		name = domain.DefaultPlatformName
	}

	var platform domain.Platform
	err := tx.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&platform).Error
	if err == nil {
		return &platform, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	platform = domain.Platform{ID: uuid.New(), Name: name, Active: true}
	if err := tx.WithContext(ctx).Create(&platform).Error; err != nil {
		var existing domain.Platform
		if rerr := tx.WithContext(ctx).Where("LOWER(name) = LOWER(?)", name).First(&existing).Error; rerr == nil {
			return &existing, nil
		}
		return nil, &ResolutionError{Entity: "platform", Key: name, Err: err}
	}
	return &platform, nil
}

// ResolveCourse ищет курс сначала по внешнему id, затем по паре
// (имя, платформа). Новый курс наследует метаданные из staging-записи.
func (Resolver) ResolveCourse(ctx context.Context, tx *gorm.DB, rec *domain.StagingRecord, platform *domain.Platform) (*domain.Course, error) {
	var course domain.Course

	if rec.ContentID != "" {
		err := tx.WithContext(ctx).Where("external_id = ?", rec.ContentID).First(&course).Error
		if err == nil {
			return &course, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	err := tx.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND platform_id = ?", rec.ContentName, platform.ID).
		First(&course).Error
	if err == nil {
		return &course, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	course = domain.Course{
		ID:         uuid.New(),
		Name:       rec.ContentName,
		PlatformID: platform.ID,
		URL:        rec.CourseURL,
		Category:   rec.ContentType,
		Status:     domain.CoursePlanned,
	}
	if rec.ContentID != "" {
		extID := rec.ContentID
		course.ExternalID = &extID
	}
	if rec.RawDuration != "" {
		course.DurationHours = normalize.ParseDuration(rec.RawDuration)
	}
	if err := tx.WithContext(ctx).Create(&course).Error; err != nil {
		var existing domain.Course
		rerr := tx.WithContext(ctx).
			Where("LOWER(name) = LOWER(?) AND platform_id = ?", rec.ContentName, platform.ID).
			First(&existing).Error
		if rerr == nil {
			return &existing, nil
		}
		return nil, &ResolutionError{Entity: "course", Key: rec.ContentName, Err: err}
	}
	return &course, nil
}
