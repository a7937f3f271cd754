package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
)

type AssignmentRepository struct {
	db *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

func (r *AssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) error {
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *AssignmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.db.WithContext(ctx).
		Preload("Employee").
		Preload("Course").
		Where("id = ?", id).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) List(ctx context.Context, employeeID, courseID *uuid.UUID, status string, limit, offset int) ([]domain.Assignment, int64, error) {
	var assignments []domain.Assignment
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Assignment{})
	if employeeID != nil {
		query = query.Where("employee_id = ?", *employeeID)
	}
	if courseID != nil {
		query = query.Where("course_id = ?", *courseID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.
		Preload("Employee").
		Preload("Course").
		Limit(limit).Offset(offset).
		Order("created_at desc").
		Find(&assignments).Error
	return assignments, total, err
}

func (r *AssignmentRepository) Update(ctx context.Context, assignment *domain.Assignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *AssignmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Assignment{}, "id = ?", id).Error
}

// На пару (сотрудник, курс) существует максимум одно назначение.
func (r *AssignmentRepository) FindByEmployeeAndCourse(ctx context.Context, employeeID, courseID uuid.UUID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND course_id = ?", employeeID, courseID).
		First(&assignment).Error
	if err != nil {
		return nil, err
	}
	return &assignment, nil
}

func (r *AssignmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Assignment{}).Count(&count).Error
	return count, err
}
