package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
)

// mergePolicy описывает, как поле назначения обновляется из наблюдения.
type mergePolicy int

const (
	// overwriteIfPresent — последнее непустое наблюдение побеждает.
	overwriteIfPresent mergePolicy = iota
	// monotonicStatus — статус движется только вперёд по воронке,
	// терминальные состояния не откатываются.
	monotonicStatus
)

type mergeRule struct {
	field  string
	policy mergePolicy
}

// Порядок строк важен: процент и дата завершения должны примениться
// до правила статуса, явный статус — последним.
var mergeRules = []mergeRule{
	{"completion_percent", overwriteIfPresent},
	{"hours_completed", overwriteIfPresent},
	{"rating", overwriteIfPresent},
	{"skills", overwriteIfPresent},
	{"start_date", overwriteIfPresent},
	{"target_date", overwriteIfPresent},
	{"outcome", overwriteIfPresent},
	{"request_source", overwriteIfPresent},
	{"isms_impact", overwriteIfPresent},
	{"status", monotonicStatus},
	{"completion_date", monotonicStatus},
	{"explicit_status", monotonicStatus},
}

// Reconciler сливает наблюдения в назначения: одна пара
// (сотрудник, курс) — одна строка, повторные наблюдения только
// обновляют её.
type Reconciler struct{}

// Reconcile находит назначение по паре или создаёт новое, применяет
// наблюдение и сохраняет в рамках переданной транзакции.
func (Reconciler) Reconcile(ctx context.Context, tx *gorm.DB, employee *domain.Employee, course *domain.Course, obs Observation) (*domain.Assignment, bool, error) {
	var assignment domain.Assignment
	created := false
	err := tx.WithContext(ctx).
		Where("employee_id = ? AND course_id = ?", employee.ID, course.ID).
		First(&assignment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		assignment = domain.Assignment{
			ID:         uuid.New(),
			EmployeeID: employee.ID,
			CourseID:   course.ID,
			Status:     domain.StatusNotStarted,
			AssignedAt: time.Now(),
		}
		created = true
	} else if err != nil {
		return nil, false, err
	}

	Merge(&assignment, obs)

	if err := tx.WithContext(ctx).Save(&assignment).Error; err != nil {
		return nil, false, err
	}
	return &assignment, created, nil
}

// Merge прогоняет наблюдение через таблицу правил.
func Merge(a *domain.Assignment, obs Observation) {
	for _, rule := range mergeRules {
		applyRule(a, obs, rule)
	}
}

func applyRule(a *domain.Assignment, obs Observation, rule mergeRule) {
	switch rule.field {
	case "completion_percent":
		if obs.Percent != nil {
			a.CompletionPercent = *obs.Percent
		}
	case "hours_completed":
		if obs.Hours != nil {
			a.HoursCompleted = *obs.Hours
		}
	case "rating":
		if obs.Rating != nil {
			a.Rating = obs.Rating
			a.FeedbackProvided = true
		}
	case "skills":
		if obs.Skills != "" {
			a.Skills = obs.Skills
		}
	case "start_date":
		if obs.StartDate != nil {
			a.StartDate = obs.StartDate
		}
	case "target_date":
		if obs.TargetDate != nil {
			a.TargetDate = obs.TargetDate
		}
	case "outcome":
		if obs.Outcome != "" {
			a.Outcome = obs.Outcome
		}
	case "request_source":
		if obs.RequestSource != "" {
			a.RequestSource = obs.RequestSource
		}
	case "isms_impact":
		if obs.ISMSImpact != nil {
			a.ISMSImpact = obs.ISMSImpact
		}
	case "status":
		if obs.Percent != nil {
			if *obs.Percent >= 100 {
				a.Status = domain.StatusCompleted
				if a.CompletionDate == nil {
					now := time.Now()
					a.CompletionDate = &now
				}
			} else if *obs.Percent > 0 && !a.Status.Terminal() {
				a.Status = domain.StatusInProgress
			}
		}
	case "completion_date":
		// Дата завершения — самый сильный сигнал: курс закончен
		// и сертификат выдан, независимо от процента.
		if obs.CompletionDate != nil {
			a.CompletionDate = obs.CompletionDate
			a.Status = domain.StatusCompleted
			a.CertificateObtained = true
		}
	case "explicit_status":
		if obs.Status != nil {
			applyExplicitStatus(a, *obs.Status, obs.Percent != nil)
		}
	}
}

// applyExplicitStatus применяет статус, заданный человеком в импорте.
// COMPLETED всегда финализирует назначение; INTERRUPTED не перебивает
// уже завершённый курс; откат из терминальных состояний запрещён.
func applyExplicitStatus(a *domain.Assignment, s domain.AssignmentStatus, percentGiven bool) {
	switch s {
	case domain.StatusCompleted:
		a.Status = domain.StatusCompleted
		if a.CompletionDate == nil {
			now := time.Now()
			a.CompletionDate = &now
		}
		if !percentGiven {
			a.CompletionPercent = 100
		}
	case domain.StatusInterrupted:
		if a.Status != domain.StatusCompleted {
			a.Status = domain.StatusInterrupted
		}
	default:
		if !a.Status.Terminal() {
			a.Status = s
		}
	}
}
