package usecase

import (
	"context"
	"testing"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
)

func stagedObservation(email, content, percentage, duration string) *domain.StagingRecord {
	return &domain.StagingRecord{
		FirstName:     "Mario",
		LastName:      "Rossi",
		Email:         email,
		ContentName:   content,
		Provider:      "LinkedIn Learning",
		RawPercentage: percentage,
		RawDuration:   duration,
		SourceFile:    "export.csv",
	}
}

func TestProcessStaging(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	staging := repository.NewStagingRepository(db)
	pipeline := NewPipeline(db, staging)

	records := []*domain.StagingRecord{
		stagedObservation("mario.rossi@proxima.it", "Go Basics", "45%", "02:30:00"),
		stagedObservation("maria.deluca@proxima.it", "Go Basics", "100", "05:00:00"),
	}
	if _, err := staging.SaveBatch(ctx, records, 100); err != nil {
		t.Fatal(err)
	}

	summary, err := pipeline.ProcessStaging(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 2 || summary.Errors != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	var employees, courses, assignments int64
	db.Model(&domain.Employee{}).Count(&employees)
	db.Model(&domain.Course{}).Count(&courses)
	db.Model(&domain.Assignment{}).Count(&assignments)
	if employees != 2 || courses != 1 || assignments != 2 {
		t.Errorf("entities = %d employees, %d courses, %d assignments", employees, courses, assignments)
	}

	counts, err := staging.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if counts.Unprocessed != 0 {
		t.Errorf("unprocessed = %d, want 0", counts.Unprocessed)
	}
}

// Повторный прогон без новых записей ничего не меняет.
func TestProcessStagingIsIdempotent(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	staging := repository.NewStagingRepository(db)
	pipeline := NewPipeline(db, staging)

	if _, err := staging.SaveBatch(ctx, []*domain.StagingRecord{
		stagedObservation("mario.rossi@proxima.it", "Go Basics", "45%", "02:30:00"),
	}, 100); err != nil {
		t.Fatal(err)
	}

	if _, err := pipeline.ProcessStaging(ctx); err != nil {
		t.Fatal(err)
	}
	summary, err := pipeline.ProcessStaging(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 0 || summary.Errors != 0 {
		t.Errorf("second run summary = %+v, want zero work", summary)
	}
}

// Два наблюдения одной пары (email, курс) сливаются в одно назначение.
func TestProcessStagingMergesRepeatedObservations(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	staging := repository.NewStagingRepository(db)
	pipeline := NewPipeline(db, staging)

	if _, err := staging.SaveBatch(ctx, []*domain.StagingRecord{
		stagedObservation("mario.rossi@proxima.it", "Go Basics", "45%", "02:30:00"),
	}, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := pipeline.ProcessStaging(ctx); err != nil {
		t.Fatal(err)
	}

	later := stagedObservation("mario.rossi@proxima.it", "Go Basics", "100", "05:30:00")
	later.RawCompletionDate = "20/03/2025"
	if _, err := staging.SaveBatch(ctx, []*domain.StagingRecord{later}, 100); err != nil {
		t.Fatal(err)
	}
	if _, err := pipeline.ProcessStaging(ctx); err != nil {
		t.Fatal(err)
	}

	var assignments []domain.Assignment
	if err := db.Find(&assignments).Error; err != nil {
		t.Fatal(err)
	}
	if len(assignments) != 1 {
		t.Fatalf("assignments = %d, want 1", len(assignments))
	}

	a := assignments[0]
	if a.Status != domain.StatusCompleted {
		t.Errorf("status = %v, want COMPLETED", a.Status)
	}
	if a.CompletionPercent != 100 || a.HoursCompleted != 5.5 {
		t.Errorf("progress = %v%% %vh", a.CompletionPercent, a.HoursCompleted)
	}
	if a.CompletionDate == nil || !a.CertificateObtained {
		t.Errorf("completion = %v, certificate = %v", a.CompletionDate, a.CertificateObtained)
	}
}

// Непарсящиеся даты не валят запись: поле пропускается, запись
// доходит до processed.
func TestProcessStagingToleratesBadDates(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	staging := repository.NewStagingRepository(db)
	pipeline := NewPipeline(db, staging)

	rec := stagedObservation("mario.rossi@proxima.it", "Go Basics", "45%", "02:30:00")
	rec.RawStartDate = "31/02/2025"
	if _, err := staging.SaveBatch(ctx, []*domain.StagingRecord{rec}, 100); err != nil {
		t.Fatal(err)
	}

	summary, err := pipeline.ProcessStaging(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Processed != 1 || summary.Errors != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	var a domain.Assignment
	if err := db.First(&a).Error; err != nil {
		t.Fatal(err)
	}
	if a.StartDate != nil {
		t.Errorf("start date should be skipped, got %v", a.StartDate)
	}
}
