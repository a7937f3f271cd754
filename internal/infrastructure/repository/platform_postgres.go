package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
)

type PlatformRepository struct {
	db *gorm.DB
}

func NewPlatformRepository(db *gorm.DB) *PlatformRepository {
	return &PlatformRepository{db: db}
}

func (r *PlatformRepository) Create(ctx context.Context, platform *domain.Platform) error {
	return r.db.WithContext(ctx).Create(platform).Error
}

func (r *PlatformRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Platform, error) {
	var platform domain.Platform
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&platform).Error
	if err != nil {
		return nil, err
	}
	return &platform, nil
}

func (r *PlatformRepository) List(ctx context.Context) ([]domain.Platform, error) {
	var platforms []domain.Platform
	err := r.db.WithContext(ctx).Order("name").Find(&platforms).Error
	return platforms, err
}

func (r *PlatformRepository) Update(ctx context.Context, platform *domain.Platform) error {
	return r.db.WithContext(ctx).Save(platform).Error
}

func (r *PlatformRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Platform{}, "id = ?", id).Error
}

// Имя платформы уникально без учёта регистра.
func (r *PlatformRepository) FindByName(ctx context.Context, name string) (*domain.Platform, error) {
	var platform domain.Platform
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&platform).Error
	if err != nil {
		return nil, err
	}
	return &platform, nil
}
