package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
	"trainingplatform/internal/normalize"
)

// AssignmentImportItem — одна строка ручного импорта назначений.
// Даты и флаги приходят строками и валидируются строго: в отличие от
// машинного стейджинга, тут опечатку должен увидеть человек.
type AssignmentImportItem struct {
	FullName          string   `json:"fullName"`
	Course            string   `json:"course"`
	StartDate         string   `json:"startDate,omitempty"`
	TargetDate        string   `json:"targetDate,omitempty"`
	CompletionDate    string   `json:"completionDate,omitempty"`
	Status            string   `json:"status,omitempty"`
	CompletionPercent *float64 `json:"completionPercent,omitempty"`
	Skills            string   `json:"skills,omitempty"`
	Outcome           string   `json:"outcome,omitempty"`
	RequestSource     string   `json:"requestSource,omitempty"`
	ISMSImpact        string   `json:"ismsImpact,omitempty"`
}

type AssignmentImportOptions struct {
	ImportOptions
	CreateMissingCourses bool `json:"createMissingCourses"`
}

type AssignmentImportRequest struct {
	Items   []AssignmentImportItem  `json:"items"`
	Options AssignmentImportOptions `json:"options"`
}

type AssignmentImportResponse struct {
	TotalProcessed  int           `json:"totalProcessed"`
	SuccessCount    int           `json:"successCount"`
	UpdatedCount    int           `json:"updatedCount"`
	ErrorCount      int           `json:"errorCount"`
	Errors          []ImportError `json:"errors"`
	ImportedIDs     []uuid.UUID   `json:"importedIds"`
	UpdatedIDs      []uuid.UUID   `json:"updatedIds"`
	ExecutionTimeMs int64         `json:"executionTimeMs"`
}

// AssignmentImportService — массовый импорт назначений из админки.
// Сотрудники и курсы сопоставляются по имени: перед проходом по строкам
// весь каталог загружается в память, чтобы не ходить в базу на каждую
// строку.
type AssignmentImportService struct {
	db        *gorm.DB
	employees *repository.EmployeeRepository
	courses   *repository.CourseRepository
	resolver  Resolver
}

func NewAssignmentImportService(db *gorm.DB, employees *repository.EmployeeRepository, courses *repository.CourseRepository) *AssignmentImportService {
	return &AssignmentImportService{db: db, employees: employees, courses: courses}
}

// nameIndex сопоставляет ФИО сущностям. Один человек индексируется в
// обоих порядках ("имя фамилия" и "фамилия имя") — источники данных
// не согласованы между собой.
type nameIndex struct {
	byName    map[string]uuid.UUID
	ambiguous map[string]bool
}

func newNameIndex() *nameIndex {
	return &nameIndex{byName: map[string]uuid.UUID{}, ambiguous: map[string]bool{}}
}

func (idx *nameIndex) add(name string, id uuid.UUID) {
	key := normalizeName(name)
	if key == "" {
		return
	}
	if existing, ok := idx.byName[key]; ok && existing != id {
		idx.ambiguous[key] = true
		return
	}
	idx.byName[key] = id
}

func (idx *nameIndex) lookup(name string) (uuid.UUID, bool, bool) {
	key := normalizeName(name)
	if idx.ambiguous[key] {
		return uuid.Nil, false, true
	}
	id, ok := idx.byName[key]
	return id, ok, false
}

func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

func (s *AssignmentImportService) Import(ctx context.Context, req AssignmentImportRequest) (*AssignmentImportResponse, error) {
	start := time.Now()
	resp := &AssignmentImportResponse{
		TotalProcessed: len(req.Items),
		Errors:         []ImportError{},
		ImportedIDs:    []uuid.UUID{},
		UpdatedIDs:     []uuid.UUID{},
	}

	employeeIdx, err := s.loadEmployeeIndex(ctx)
	if err != nil {
		return nil, err
	}
	courseByName, err := s.loadCourseIndex(ctx)
	if err != nil {
		return nil, err
	}

	for i, item := range req.Items {
		row := i + 1
		if err := s.processItem(ctx, row, item, req.Options, employeeIdx, courseByName, resp); err != nil {
			resp.ErrorCount++
			if !req.Options.skipErrors() {
				log.Printf("assignment import aborted at row %d", row)
				break
			}
		}
	}

	resp.ExecutionTimeMs = time.Since(start).Milliseconds()
	log.Printf("assignment import: %d rows, %d created, %d updated, %d errors",
		resp.TotalProcessed, resp.SuccessCount, resp.UpdatedCount, resp.ErrorCount)
	return resp, nil
}

func (s *AssignmentImportService) loadEmployeeIndex(ctx context.Context) (*nameIndex, error) {
	employees, err := s.employees.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := newNameIndex()
	for _, e := range employees {
		idx.add(e.FirstName+" "+e.LastName, e.ID)
		idx.add(e.LastName+" "+e.FirstName, e.ID)
	}
	return idx, nil
}

func (s *AssignmentImportService) loadCourseIndex(ctx context.Context) (map[string]*domain.Course, error) {
	courses, err := s.courses.All(ctx)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]*domain.Course, len(courses))
	for i := range courses {
		key := normalizeName(courses[i].Name)
		if _, ok := byName[key]; !ok {
			byName[key] = &courses[i]
		}
	}
	return byName, nil
}

var errRowInvalid = errors.New("row invalid")

func (s *AssignmentImportService) processItem(
	ctx context.Context,
	row int,
	item AssignmentImportItem,
	opts AssignmentImportOptions,
	employeeIdx *nameIndex,
	courseByName map[string]*domain.Course,
	resp *AssignmentImportResponse,
) error {
	obs, failed := s.validateItem(row, item, resp)

	var employeeID uuid.UUID
	if strings.TrimSpace(item.FullName) == "" {
		resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "fullName", Message: "full name is required"})
		failed = true
	} else {
		id, found, ambiguous := employeeIdx.lookup(item.FullName)
		switch {
		case ambiguous:
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "fullName", Message: "employee name matches more than one person", Value: item.FullName})
			failed = true
		case !found:
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "fullName", Message: "employee not found", Value: item.FullName})
			failed = true
		default:
			employeeID = id
		}
	}

	var course *domain.Course
	if strings.TrimSpace(item.Course) == "" {
		resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "course", Message: "course is required"})
		failed = true
	} else {
		course = courseByName[normalizeName(item.Course)]
		if course == nil && !opts.CreateMissingCourses {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "course", Message: "course not found", Value: item.Course})
			failed = true
		}
	}

	if failed {
		return errRowInvalid
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if course == nil {
			created, err := s.createCourse(ctx, tx, item.Course)
			if err != nil {
				resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "course", Message: err.Error(), Value: item.Course})
				return err
			}
			course = created
			courseByName[normalizeName(course.Name)] = course
		}

		var existing domain.Assignment
		err := tx.WithContext(ctx).
			Where("employee_id = ? AND course_id = ?", employeeID, course.ID).
			First(&existing).Error
		switch {
		case err == nil:
			if !opts.UpdateExisting {
				resp.Errors = append(resp.Errors, ImportError{
					Row: row, Field: "course",
					Message: "assignment already exists",
					Value:   fmt.Sprintf("%s / %s", item.FullName, item.Course),
				})
				return errRowInvalid
			}
			Merge(&existing, obs)
			if err := tx.WithContext(ctx).Save(&existing).Error; err != nil {
				resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
				return err
			}
			resp.UpdatedCount++
			resp.UpdatedIDs = append(resp.UpdatedIDs, existing.ID)
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			assignment := domain.Assignment{
				ID:         uuid.New(),
				EmployeeID: employeeID,
				CourseID:   course.ID,
				Status:     domain.StatusNotStarted,
				AssignedAt: time.Now(),
			}
			Merge(&assignment, obs)
			if err := tx.WithContext(ctx).Create(&assignment).Error; err != nil {
				resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
				return err
			}
			resp.SuccessCount++
			resp.ImportedIDs = append(resp.ImportedIDs, assignment.ID)
			return nil

		default:
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "", Message: err.Error()})
			return err
		}
	})
}

// validateItem строго разбирает поля строки. Все ошибки собираются
// сразу, чтобы пользователь исправил строку за один заход.
func (s *AssignmentImportService) validateItem(row int, item AssignmentImportItem, resp *AssignmentImportResponse) (Observation, bool) {
	var obs Observation
	failed := false

	parseDate := func(field, raw string) *time.Time {
		if strings.TrimSpace(raw) == "" {
			return nil
		}
		t, err := normalize.ParseDate(raw)
		if err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: field, Message: "unparseable date", Value: raw})
			failed = true
			return nil
		}
		return &t
	}

	obs.StartDate = parseDate("startDate", item.StartDate)
	obs.TargetDate = parseDate("targetDate", item.TargetDate)
	obs.CompletionDate = parseDate("completionDate", item.CompletionDate)

	if strings.TrimSpace(item.Status) != "" {
		status, err := normalize.ParseStatus(item.Status)
		if err != nil {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "status", Message: "unknown status", Value: item.Status})
			failed = true
		} else {
			obs.Status = &status
		}
	}

	if strings.TrimSpace(item.ISMSImpact) != "" {
		value, ok := normalize.ParseFlag(item.ISMSImpact)
		if !ok {
			resp.Errors = append(resp.Errors, ImportError{Row: row, Field: "ismsImpact", Message: "expected Sì/No/true/false", Value: item.ISMSImpact})
			failed = true
		} else {
			obs.ISMSImpact = &value
		}
	}

	if item.CompletionPercent != nil {
		pct := *item.CompletionPercent
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		pct = normalize.Round2(pct)
		obs.Percent = &pct
	}

	obs.Skills = item.Skills
	obs.Outcome = strings.TrimSpace(item.Outcome)
	obs.RequestSource = strings.TrimSpace(item.RequestSource)

	return obs, failed
}

func (s *AssignmentImportService) createCourse(ctx context.Context, tx *gorm.DB, name string) (*domain.Course, error) {
	platform, err := s.resolver.ResolvePlatform(ctx, tx, "")
	if err != nil {
		return nil, err
	}
	rec := &domain.StagingRecord{ContentName: strings.TrimSpace(name)}
	return s.resolver.ResolveCourse(ctx, tx, rec, platform)
}
