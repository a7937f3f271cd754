package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"trainingplatform/internal/domain"
)

type StagingRepository struct {
	db *gorm.DB
}

func NewStagingRepository(db *gorm.DB) *StagingRepository {
	return &StagingRepository{db: db}
}

// SaveBatch пишет записи порциями, чтобы не держать гигантские транзакции.
func (r *StagingRepository) SaveBatch(ctx context.Context, records []*domain.StagingRecord, chunkSize int) (int, error) {
	if chunkSize <= 0 {
		chunkSize = 100
	}

	saved := 0
	for i := 0; i < len(records); i += chunkSize {
		end := i + chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[i:end]
		if err := r.db.WithContext(ctx).Create(&chunk).Error; err != nil {
			return saved, err
		}
		saved += len(chunk)
	}
	return saved, nil
}

func (r *StagingRepository) FindUnprocessed(ctx context.Context) ([]*domain.StagingRecord, error) {
	var records []*domain.StagingRecord
	err := r.db.WithContext(ctx).
		Where("processed = ?", false).
		Order("id").
		Find(&records).Error
	return records, err
}

// MarkProcessed выполняется на переданном handle: пометка и запись
// результатов реконсиляции должны быть одной транзакцией.
func (r *StagingRepository) MarkProcessed(ctx context.Context, tx *gorm.DB, id uint) error {
	now := time.Now()
	return tx.WithContext(ctx).Model(&domain.StagingRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": now,
		}).Error
}

// Файл, уже попавший в стейджинг, второй раз не загружается.
func (r *StagingRepository) ExistsBySourceFile(ctx context.Context, filename string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.StagingRecord{}).
		Where("source_file = ?", filename).
		Count(&count).Error
	return count > 0, err
}

type StagingCounts struct {
	Total       int64 `json:"totalRecords"`
	Processed   int64 `json:"processedRecords"`
	Unprocessed int64 `json:"unprocessedRecords"`
}

func (r *StagingRepository) Counts(ctx context.Context) (StagingCounts, error) {
	var counts StagingCounts
	model := r.db.WithContext(ctx).Model(&domain.StagingRecord{})

	if err := model.Session(&gorm.Session{}).Count(&counts.Total).Error; err != nil {
		return counts, err
	}
	if err := model.Session(&gorm.Session{}).Where("processed = ?", true).Count(&counts.Processed).Error; err != nil {
		return counts, err
	}
	counts.Unprocessed = counts.Total - counts.Processed
	return counts, nil
}
