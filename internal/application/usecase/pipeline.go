package usecase

import (
	"context"
	"log"

	"gorm.io/gorm"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
)

// Pipeline превращает необработанные staging-записи в сущности каталога.
// Каждая запись обрабатывается в собственной транзакции: резолюция,
// слияние назначения и пометка processed коммитятся атомарно, упавшая
// запись остаётся unprocessed и не блокирует остальные.
type Pipeline struct {
	db         *gorm.DB
	staging    *repository.StagingRepository
	resolver   Resolver
	reconciler Reconciler
}

func NewPipeline(db *gorm.DB, staging *repository.StagingRepository) *Pipeline {
	return &Pipeline{db: db, staging: staging}
}

type ProcessingSummary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
}

func (p *Pipeline) ProcessStaging(ctx context.Context) (ProcessingSummary, error) {
	records, err := p.staging.FindUnprocessed(ctx)
	if err != nil {
		return ProcessingSummary{}, err
	}
	if len(records) == 0 {
		return ProcessingSummary{}, nil
	}

	log.Printf("processing %d staging records", len(records))

	var summary ProcessingSummary
	for _, rec := range records {
		if err := p.processRecord(ctx, rec); err != nil {
			log.Printf("staging %d: %v", rec.ID, err)
			summary.Errors++
			continue
		}
		summary.Processed++
	}

	log.Printf("staging run finished: %d processed, %d errors", summary.Processed, summary.Errors)
	return summary, nil
}

func (p *Pipeline) processRecord(ctx context.Context, rec *domain.StagingRecord) error {
	return p.db.Transaction(func(tx *gorm.DB) error {
		employee, err := p.resolver.ResolveEmployee(ctx, tx, rec)
		if err != nil {
			return err
		}
		platform, err := p.resolver.ResolvePlatform(ctx, tx, rec.Provider)
		if err != nil {
			return err
		}
		course, err := p.resolver.ResolveCourse(ctx, tx, rec, platform)
		if err != nil {
			return err
		}

		obs := observationFromStaging(rec)
		if _, _, err := p.reconciler.Reconcile(ctx, tx, employee, course, obs); err != nil {
			return err
		}

		return p.staging.MarkProcessed(ctx, tx, rec.ID)
	})
}

type PipelineStats struct {
	Staging     repository.StagingCounts `json:"staging"`
	Employees   int64                    `json:"employees"`
	Courses     int64                    `json:"courses"`
	Assignments int64                    `json:"assignments"`
}

func (p *Pipeline) Stats(ctx context.Context) (PipelineStats, error) {
	var stats PipelineStats
	var err error

	if stats.Staging, err = p.staging.Counts(ctx); err != nil {
		return stats, err
	}
	if err = p.db.WithContext(ctx).Model(&domain.Employee{}).Count(&stats.Employees).Error; err != nil {
		return stats, err
	}
	if err = p.db.WithContext(ctx).Model(&domain.Course{}).Count(&stats.Courses).Error; err != nil {
		return stats, err
	}
	if err = p.db.WithContext(ctx).Model(&domain.Assignment{}).Count(&stats.Assignments).Error; err != nil {
		return stats, err
	}
	return stats, nil
}
