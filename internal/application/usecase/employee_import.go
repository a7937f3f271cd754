package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
	"trainingplatform/internal/normalize"
)

const emailDomain = "proxima.it"

// EmployeeImportItem — одна строка импорта сотрудников из HR-выгрузки.
type EmployeeImportItem struct {
	FullName        string `json:"fullName"`
	Role            string `json:"role"`
	Company         string `json:"company"`
	Office          string `json:"office,omitempty"`
	Community       string `json:"community,omitempty"`
	Manager         string `json:"manager,omitempty"`
	ISMS            string `json:"isms,omitempty"`
	TerminationDate string `json:"terminationDate,omitempty"`
}

type EmployeeImportOptions struct {
	ImportOptions
	DefaultDepartment string `json:"defaultDepartment"`
	DefaultSalesArea  string `json:"defaultSalesArea"`
}

func (o EmployeeImportOptions) department() string {
	if o.DefaultDepartment == "" {
		return "IT"
	}
	return o.DefaultDepartment
}

func (o EmployeeImportOptions) salesArea() string {
	if o.DefaultSalesArea == "" {
		return "Generale"
	}
	return o.DefaultSalesArea
}

type EmployeeImportRequest struct {
	Items   []EmployeeImportItem  `json:"items"`
	Options EmployeeImportOptions `json:"options"`
}

type EmployeeImportResponse struct {
	TotalProcessed  int           `json:"totalProcessed"`
	SuccessCount    int           `json:"successCount"`
	UpdatedCount    int           `json:"updatedCount"`
	ErrorCount      int           `json:"errorCount"`
	Errors          []ImportError `json:"errors"`
	ImportedIDs     []uuid.UUID   `json:"importedIds"`
	UpdatedIDs      []uuid.UUID   `json:"updatedIds"`
	ExecutionTimeMs int64         `json:"executionTimeMs"`
}

// DuplicateCheck — результат предварительной проверки одной строки
// перед импортом: фронт показывает, какие строки создадут дубликаты.
type DuplicateCheck struct {
	Index       int        `json:"index"`
	FullName    string     `json:"fullName"`
	IsDuplicate bool       `json:"isDuplicate"`
	CanUpdate   bool       `json:"canUpdate"`
	ExistingID  *uuid.UUID `json:"existingId,omitempty"`
}

// EmployeeImportService создаёт сотрудников из HR-выгрузки.
// У выгрузки нет ни email, ни табельных кодов, поэтому оба
// генерируются: first.last@proxima.it и ПЕРВ+ФАМ+4 цифры,
// с числовым суффиксом при коллизии.
type EmployeeImportService struct {
	db        *gorm.DB
	employees *repository.EmployeeRepository
}

func NewEmployeeImportService(db *gorm.DB, employees *repository.EmployeeRepository) *EmployeeImportService {
	return &EmployeeImportService{db: db, employees: employees}
}

func (s *EmployeeImportService) Import(ctx context.Context, req EmployeeImportRequest) (*EmployeeImportResponse, error) {
	start := time.Now()
	resp := &EmployeeImportResponse{
		TotalProcessed: len(req.Items),
		Errors:         []ImportError{},
		ImportedIDs:    []uuid.UUID{},
		UpdatedIDs:     []uuid.UUID{},
	}

	for i, item := range req.Items {
		row := i + 1
		if err := s.processItem(ctx, row, item, req.Options, resp); err != nil {
			resp.ErrorCount++
			if !req.Options.skipErrors() {
				log.Printf("employee import aborted at row %d", row)
				break
			}
		}
	}

	resp.ExecutionTimeMs = time.Since(start).Milliseconds()
	log.Printf("employee import: %d rows, %d created, %d updated, %d errors",
		resp.TotalProcessed, resp.SuccessCount, resp.UpdatedCount, resp.ErrorCount)
	return resp, nil
}

func (s *EmployeeImportService) processItem(ctx context.Context, row int, item EmployeeImportItem, opts EmployeeImportOptions, resp *EmployeeImportResponse) error {
	firstName, lastName, terminatedAt, failed := s.validateItem(row, item, resp)
	if failed {
		return errRowInvalid
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := findEmployeeByName(ctx, tx, firstName, lastName)
		if err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
			return err
		}

		if existing != nil {
			if !opts.UpdateExisting {
				resp.Errors = append(resp.Errors, ImportError{
					Row: row, Field: "fullName",
					Message: "employee already exists",
					Value:   item.FullName,
				})
				return errRowInvalid
			}
			s.applyUpdate(existing, item, terminatedAt)
			if err := tx.WithContext(ctx).Save(existing).Error; err != nil {
				resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
				return err
			}
			resp.UpdatedCount++
			resp.UpdatedIDs = append(resp.UpdatedIDs, existing.ID)
			return nil
		}

		email, err := s.generateEmail(ctx, tx, firstName, lastName)
		if err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
			return err
		}
		code, err := s.generateCode(ctx, tx, firstName, lastName)
		if err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
			return err
		}

		now := time.Now()
		employee := domain.Employee{
			ID:           uuid.New(),
			FirstName:    firstName,
			LastName:     lastName,
			Email:        email,
			EmployeeCode: &code,
			Role:         strings.TrimSpace(item.Role),
			Company:      strings.TrimSpace(item.Company),
			Department:   opts.department(),
			SalesArea:    opts.salesArea(),
			Office:       strings.TrimSpace(item.Office),
			Community:    strings.TrimSpace(item.Community),
			Manager:      strings.TrimSpace(item.Manager),
			ISMS:         strings.ToUpper(strings.TrimSpace(item.ISMS)),
			HiredAt:      &now,
			TerminatedAt: terminatedAt,
		}
		employee.Active = employee.IsActiveAt(now)

		if err := tx.WithContext(ctx).Create(&employee).Error; err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
			return err
		}
		resp.SuccessCount++
		resp.ImportedIDs = append(resp.ImportedIDs, employee.ID)
		return nil
	})
}

func (s *EmployeeImportService) validateItem(row int, item EmployeeImportItem, resp *EmployeeImportResponse) (first, last string, terminatedAt *time.Time, failed bool) {
	first, last = normalize.SplitFullName(item.FullName)
	if first == "" || last == "" {
		resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "fullName", Message: "full name must contain first and last name", Value: item.FullName})
		failed = true
	}
	if strings.TrimSpace(item.Role) == "" {
		resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "role", Message: "role is required"})
		failed = true
	}
	if strings.TrimSpace(item.Company) == "" {
		resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "company", Message: "company is required"})
		failed = true
	}
	if isms := strings.ToUpper(strings.TrimSpace(item.ISMS)); isms != "" && isms != "SI" && isms != "NO" {
		resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "isms", Message: "expected SI or NO", Value: item.ISMS})
		failed = true
	}
	if strings.TrimSpace(item.TerminationDate) != "" {
		t, err := normalize.ParseDate(item.TerminationDate)
		if err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "terminationDate", Message: "unparseable date", Value: item.TerminationDate})
			failed = true
		} else {
			terminatedAt = &t
		}
	}
	return first, last, terminatedAt, failed
}

// applyUpdate переносит непустые поля строки на существующую запись.
// Пустая дата увольнения в строке возвращает сотрудника в активные.
func (s *EmployeeImportService) applyUpdate(employee *domain.Employee, item EmployeeImportItem, terminatedAt *time.Time) {
	if role := strings.TrimSpace(item.Role); role != "" {
		employee.Role = role
	}
	if company := strings.TrimSpace(item.Company); company != "" {
		employee.Company = company
	}
	if office := strings.TrimSpace(item.Office); office != "" {
		employee.Office = office
	}
	if community := strings.TrimSpace(item.Community); community != "" {
		employee.Community = community
	}
	if manager := strings.TrimSpace(item.Manager); manager != "" {
		employee.Manager = manager
	}
	if isms := strings.ToUpper(strings.TrimSpace(item.ISMS)); isms != "" {
		employee.ISMS = isms
	}
	employee.TerminatedAt = terminatedAt
	employee.Active = employee.IsActiveAt(time.Now())
}

// CheckDuplicates прогоняет строки без записи в базу: фронт
// подсвечивает дубликаты до запуска импорта.
func (s *EmployeeImportService) CheckDuplicates(ctx context.Context, items []EmployeeImportItem) ([]DuplicateCheck, error) {
	checks := make([]DuplicateCheck, 0, len(items))
	for i, item := range items {
		check := DuplicateCheck{Index: i + 1, FullName: item.FullName}

		first, last := normalize.SplitFullName(item.FullName)
		if first != "" && last != "" {
			matches, err := s.employees.FindByName(ctx, first, last)
			if err != nil {
				return nil, err
			}
			if len(matches) > 0 {
				check.IsDuplicate = true
				check.CanUpdate = len(matches) == 1
				if check.CanUpdate {
					id := matches[0].ID
					check.ExistingID = &id
				}
			}
		}
		checks = append(checks, check)
	}
	return checks, nil
}

func findEmployeeByName(ctx context.Context, tx *gorm.DB, firstName, lastName string) (*domain.Employee, error) {
	var employee domain.Employee
	err := tx.WithContext(ctx).
		Where("LOWER(first_name) = ? AND LOWER(last_name) = ?",
			strings.ToLower(firstName), strings.ToLower(lastName)).
		First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// generateEmail собирает first.last@proxima.it; при занятом адресе
// перед доменом добавляется счётчик.
func (s *EmployeeImportService) generateEmail(ctx context.Context, tx *gorm.DB, firstName, lastName string) (string, error) {
	local := sanitizeEmailPart(firstName) + "." + sanitizeEmailPart(lastName)
	for counter := 0; counter < 100; counter++ {
		candidate := local
		if counter > 0 {
			candidate = fmt.Sprintf("%s%d", local, counter)
		}
		email := candidate + "@" + emailDomain

		var count int64
		if err := tx.WithContext(ctx).Model(&domain.Employee{}).
			Where("LOWER(email) = ?", email).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return email, nil
		}
	}
	return "", fmt.Errorf("could not generate unique email for %s %s", firstName, lastName)
}

// generateCode собирает табельный код: первые две буквы имени и
// фамилии плюс четыре случайные цифры.
func (s *EmployeeImportService) generateCode(ctx context.Context, tx *gorm.DB, firstName, lastName string) (string, error) {
	prefix := strings.ToUpper(codePart(firstName) + codePart(lastName))
	for attempt := 0; attempt < 100; attempt++ {
		code := fmt.Sprintf("%s%04d", prefix, rand.Intn(10000))
		if attempt > 0 {
			code = fmt.Sprintf("%s%02d", code, attempt)
		}

		var count int64
		if err := tx.WithContext(ctx).Model(&domain.Employee{}).
			Where("employee_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", fmt.Errorf("could not generate unique employee code for %s %s", firstName, lastName)
}

func sanitizeEmailPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func codePart(s string) string {
	clean := sanitizeEmailPart(s)
	if len(clean) >= 2 {
		return clean[:2]
	}
	if len(clean) == 1 {
		return clean + "X"
	}
	return "XX"
}
