package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"trainingplatform/internal/domain"
)

func TestMergeProgress(t *testing.T) {
	a := domain.Assignment{Status: domain.StatusNotStarted}

	Merge(&a, Observation{Percent: ptr(45.0), Hours: ptr(2.5)})

	if a.Status != domain.StatusInProgress {
		t.Errorf("status = %v, want IN_PROGRESS", a.Status)
	}
	if a.CompletionPercent != 45 || a.HoursCompleted != 2.5 {
		t.Errorf("progress = %v%% %vh", a.CompletionPercent, a.HoursCompleted)
	}
}

func TestMergeFullPercentCompletes(t *testing.T) {
	a := domain.Assignment{Status: domain.StatusInProgress}

	Merge(&a, Observation{Percent: ptr(100.0)})

	if a.Status != domain.StatusCompleted {
		t.Errorf("status = %v, want COMPLETED", a.Status)
	}
	if a.CompletionDate == nil {
		t.Error("reaching 100% should set a completion date")
	}
}

func TestMergeZeroPercentKeepsStatus(t *testing.T) {
	a := domain.Assignment{Status: domain.StatusNotStarted}

	Merge(&a, Observation{Percent: ptr(0.0)})

	if a.Status != domain.StatusNotStarted {
		t.Errorf("status = %v, want NOT_STARTED", a.Status)
	}
}

func TestMergeStatusIsMonotonic(t *testing.T) {
	a := domain.Assignment{Status: domain.StatusCompleted, CompletionPercent: 100}

	// Поле процента перетирается последним наблюдением,
	// статус назад не откатывается
	Merge(&a, Observation{Percent: ptr(30.0)})

	if a.Status != domain.StatusCompleted {
		t.Errorf("status = %v, want COMPLETED", a.Status)
	}
	if a.CompletionPercent != 30 {
		t.Errorf("percent = %v, want 30", a.CompletionPercent)
	}

	a = domain.Assignment{Status: domain.StatusInterrupted}
	Merge(&a, Observation{Percent: ptr(50.0)})
	if a.Status != domain.StatusInterrupted {
		t.Errorf("status = %v, want INTERRUPTED", a.Status)
	}
}

func TestMergeCompletionDateWins(t *testing.T) {
	done := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	a := domain.Assignment{Status: domain.StatusInProgress, CompletionPercent: 80}

	Merge(&a, Observation{CompletionDate: &done})

	if a.Status != domain.StatusCompleted {
		t.Errorf("status = %v, want COMPLETED", a.Status)
	}
	if a.CompletionDate == nil || !a.CompletionDate.Equal(done) {
		t.Errorf("completion date = %v", a.CompletionDate)
	}
	if !a.CertificateObtained {
		t.Error("certificate should be marked obtained")
	}
}

func TestMergeRatingSetsFeedback(t *testing.T) {
	a := domain.Assignment{}

	Merge(&a, Observation{Rating: ptr(4.5)})

	if a.Rating == nil || *a.Rating != 4.5 {
		t.Errorf("rating = %v", a.Rating)
	}
	if !a.FeedbackProvided {
		t.Error("feedback flag should follow rating")
	}
}

func TestMergeEmptyObservationChangesNothing(t *testing.T) {
	start := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	a := domain.Assignment{
		Status:            domain.StatusInProgress,
		CompletionPercent: 45,
		Skills:            "Go",
		StartDate:         &start,
	}
	before := a

	Merge(&a, Observation{})

	if a.Status != before.Status || a.CompletionPercent != before.CompletionPercent ||
		a.Skills != before.Skills || !a.StartDate.Equal(*before.StartDate) {
		t.Errorf("empty observation mutated assignment: %+v", a)
	}
}

func TestApplyExplicitStatus(t *testing.T) {
	t.Run("completed fills defaults", func(t *testing.T) {
		a := domain.Assignment{Status: domain.StatusInProgress, CompletionPercent: 40}
		status := domain.StatusCompleted
		Merge(&a, Observation{Status: &status})

		if a.Status != domain.StatusCompleted {
			t.Errorf("status = %v", a.Status)
		}
		if a.CompletionDate == nil {
			t.Error("completion date should default to now")
		}
		if a.CompletionPercent != 100 {
			t.Errorf("percent = %v, want 100", a.CompletionPercent)
		}
	})

	t.Run("completed keeps explicit percent", func(t *testing.T) {
		a := domain.Assignment{Status: domain.StatusInProgress}
		status := domain.StatusCompleted
		Merge(&a, Observation{Status: &status, Percent: ptr(95.0)})

		if a.CompletionPercent != 95 {
			t.Errorf("percent = %v, want 95", a.CompletionPercent)
		}
	})

	t.Run("interrupted does not override completed", func(t *testing.T) {
		a := domain.Assignment{Status: domain.StatusCompleted}
		status := domain.StatusInterrupted
		Merge(&a, Observation{Status: &status})

		if a.Status != domain.StatusCompleted {
			t.Errorf("status = %v, want COMPLETED", a.Status)
		}
	})

	t.Run("no regression from terminal", func(t *testing.T) {
		a := domain.Assignment{Status: domain.StatusInterrupted}
		status := domain.StatusNotStarted
		Merge(&a, Observation{Status: &status})

		if a.Status != domain.StatusInterrupted {
			t.Errorf("status = %v, want INTERRUPTED", a.Status)
		}
	})
}

func TestReconcileSingleRowPerPair(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	employee := domain.Employee{ID: uuid.New(), FirstName: "Mario", LastName: "Rossi", Email: "mario.rossi@proxima.it", Active: true}
	platform := domain.Platform{ID: uuid.New(), Name: "LinkedIn Learning", Active: true}
	course := domain.Course{ID: uuid.New(), Name: "Go Basics", PlatformID: platform.ID}
	if err := db.Create(&employee).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&platform).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Create(&course).Error; err != nil {
		t.Fatal(err)
	}

	var rec Reconciler

	first, created, err := rec.Reconcile(ctx, db, &employee, &course, Observation{Percent: ptr(45.0), Hours: ptr(2.5)})
	if err != nil {
		t.Fatalf("first reconcile: %v", err)
	}
	if !created {
		t.Error("first observation should create the assignment")
	}
	if first.Status != domain.StatusInProgress || first.CompletionPercent != 45 {
		t.Errorf("after first: %v %v%%", first.Status, first.CompletionPercent)
	}

	done := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	second, created, err := rec.Reconcile(ctx, db, &employee, &course, Observation{Percent: ptr(100.0), CompletionDate: &done})
	if err != nil {
		t.Fatalf("second reconcile: %v", err)
	}
	if created {
		t.Error("second observation must update, not create")
	}
	if second.ID != first.ID {
		t.Error("same pair must map to the same assignment row")
	}
	if second.Status != domain.StatusCompleted || second.CompletionDate == nil {
		t.Errorf("after second: %v %v", second.Status, second.CompletionDate)
	}

	var count int64
	db.Model(&domain.Assignment{}).Count(&count)
	if count != 1 {
		t.Errorf("assignments = %d, want 1", count)
	}
}
