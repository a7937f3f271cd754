package usecase

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
)

func newImportFixture(t *testing.T) (*AssignmentImportService, *gorm.DB, context.Context) {
	t.Helper()
	db := testDB(t)
	employees := repository.NewEmployeeRepository(db)
	courses := repository.NewCourseRepository(db, nil)
	svc := NewAssignmentImportService(db, employees, courses)

	platform := domain.Platform{ID: uuid.New(), Name: domain.DefaultPlatformName, Active: true}
	mario := domain.Employee{ID: uuid.New(), FirstName: "Mario", LastName: "Rossi", Email: "mario.rossi@proxima.it", Active: true}
	maria := domain.Employee{ID: uuid.New(), FirstName: "Maria", LastName: "De Luca", Email: "maria.deluca@proxima.it", Active: true}
	course := domain.Course{ID: uuid.New(), Name: "Go Basics", PlatformID: platform.ID}

	for _, obj := range []interface{}{&platform, &mario, &maria, &course} {
		if err := db.Create(obj).Error; err != nil {
			t.Fatal(err)
		}
	}
	return svc, db, context.Background()
}

func TestAssignmentImport(t *testing.T) {
	svc, db, ctx := newImportFixture(t)

	req := AssignmentImportRequest{
		Items: []AssignmentImportItem{
			{FullName: "Mario Rossi", Course: "Go Basics", Status: "in corso", CompletionPercent: ptr(45.0)},
			{FullName: "De Luca Maria", Course: "Go Basics", Status: "terminato", CompletionDate: "20/03/2025"},
		},
	}

	resp, err := svc.Import(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.SuccessCount != 2 || resp.ErrorCount != 0 {
		t.Fatalf("resp = %+v", resp)
	}

	var done domain.Assignment
	if err := db.Where("status = ?", domain.StatusCompleted).First(&done).Error; err != nil {
		t.Fatalf("completed assignment not found: %v", err)
	}
	if done.CompletionDate == nil || done.CompletionPercent != 100 {
		t.Errorf("completed row = %v%% %v", done.CompletionPercent, done.CompletionDate)
	}

	var inProgress domain.Assignment
	if err := db.Where("status = ?", domain.StatusInProgress).First(&inProgress).Error; err != nil {
		t.Fatalf("in-progress assignment not found: %v", err)
	}
	if inProgress.CompletionPercent != 45 {
		t.Errorf("in-progress percent = %v", inProgress.CompletionPercent)
	}
}

func TestAssignmentImportReversedNameOrder(t *testing.T) {
	svc, _, ctx := newImportFixture(t)

	resp, err := svc.Import(ctx, AssignmentImportRequest{
		Items: []AssignmentImportItem{
			{FullName: "Rossi Mario", Course: "Go Basics"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.SuccessCount != 1 {
		t.Fatalf("reversed name should match: %+v", resp.Errors)
	}
}

func TestAssignmentImportRowErrors(t *testing.T) {
	svc, _, ctx := newImportFixture(t)

	items := []AssignmentImportItem{
		{FullName: "Mario Rossi", Course: "Go Basics"},
		{FullName: "Maria De Luca", Course: "Go Basics"},
		{FullName: "Sconosciuto Totale", Course: "Go Basics", CompletionDate: "31/02/2025"},
		{FullName: "Mario Rossi", Course: "Corso Inesistente"},
		{FullName: "", Course: "Go Basics"},
	}

	t.Run("skipErrors continues past bad rows", func(t *testing.T) {
		resp, err := svc.Import(ctx, AssignmentImportRequest{Items: items})
		if err != nil {
			t.Fatal(err)
		}
		if resp.SuccessCount != 2 {
			t.Errorf("success = %d, want 2", resp.SuccessCount)
		}
		if resp.ErrorCount != 3 {
			t.Errorf("errors = %d, want 3", resp.ErrorCount)
		}

		// Строка 3 дала две ошибки: неизвестный сотрудник и битая дата
		rows := map[int]bool{}
		for _, e := range resp.Errors {
			rows[e.Row] = true
		}
		for _, want := range []int{3, 4, 5} {
			if !rows[want] {
				t.Errorf("missing error for row %d: %+v", want, resp.Errors)
			}
		}
	})

	t.Run("skipErrors=false stops at first bad row", func(t *testing.T) {
		svc2, _, ctx2 := newImportFixture(t)
		skip := false
		resp, err := svc2.Import(ctx2, AssignmentImportRequest{
			Items:   items,
			Options: AssignmentImportOptions{ImportOptions: ImportOptions{SkipErrors: &skip}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if resp.SuccessCount != 2 || resp.ErrorCount != 1 {
			t.Errorf("resp = success %d, errors %d; want 2/1", resp.SuccessCount, resp.ErrorCount)
		}
	})
}

func TestAssignmentImportDuplicates(t *testing.T) {
	svc, _, ctx := newImportFixture(t)

	first := AssignmentImportRequest{
		Items: []AssignmentImportItem{{FullName: "Mario Rossi", Course: "Go Basics", CompletionPercent: ptr(40.0)}},
	}
	if _, err := svc.Import(ctx, first); err != nil {
		t.Fatal(err)
	}

	t.Run("without updateExisting the row is an error", func(t *testing.T) {
		resp, err := svc.Import(ctx, first)
		if err != nil {
			t.Fatal(err)
		}
		if resp.SuccessCount != 0 || resp.ErrorCount != 1 {
			t.Fatalf("resp = %+v", resp)
		}
	})

	t.Run("with updateExisting the row is merged", func(t *testing.T) {
		resp, err := svc.Import(ctx, AssignmentImportRequest{
			Items:   []AssignmentImportItem{{FullName: "Mario Rossi", Course: "Go Basics", CompletionPercent: ptr(75.0)}},
			Options: AssignmentImportOptions{ImportOptions: ImportOptions{UpdateExisting: true}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if resp.UpdatedCount != 1 || resp.ErrorCount != 0 {
			t.Fatalf("resp = %+v", resp)
		}
	})
}

func TestAssignmentImportCreateMissingCourses(t *testing.T) {
	svc, _, ctx := newImportFixture(t)

	resp, err := svc.Import(ctx, AssignmentImportRequest{
		Items:   []AssignmentImportItem{{FullName: "Mario Rossi", Course: "Terraform da zero"}},
		Options: AssignmentImportOptions{CreateMissingCourses: true},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.SuccessCount != 1 {
		t.Fatalf("resp = %+v", resp)
	}
}
