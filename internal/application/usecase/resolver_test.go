package usecase

import (
	"context"
	"testing"

	"trainingplatform/internal/domain"
)

func TestResolveEmployee(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	var r Resolver

	t.Run("creates when unknown", func(t *testing.T) {
		rec := &domain.StagingRecord{FirstName: "Mario", LastName: "Rossi", Email: "Mario.Rossi@Proxima.it", EmployeeCode: "MR01"}
		employee, err := r.ResolveEmployee(ctx, db, rec)
		if err != nil {
			t.Fatal(err)
		}
		if employee.Email != "mario.rossi@proxima.it" {
			t.Errorf("email = %q", employee.Email)
		}
		if employee.EmployeeCode == nil || *employee.EmployeeCode != "MR01" {
			t.Errorf("code = %v", employee.EmployeeCode)
		}
	})

	t.Run("reuses by email", func(t *testing.T) {
		rec := &domain.StagingRecord{FirstName: "Mario", LastName: "Rossi", Email: "MARIO.ROSSI@proxima.it"}
		employee, err := r.ResolveEmployee(ctx, db, rec)
		if err != nil {
			t.Fatal(err)
		}
		var count int64
		db.Model(&domain.Employee{}).Count(&count)
		if count != 1 {
			t.Errorf("employees = %d, want 1", count)
		}
		if employee.EmployeeCode == nil || *employee.EmployeeCode != "MR01" {
			t.Error("existing record should be returned untouched")
		}
	})

	t.Run("code match updates email", func(t *testing.T) {
		rec := &domain.StagingRecord{FirstName: "Mario", LastName: "Rossi", Email: "m.rossi@proxima.it", EmployeeCode: "MR01"}
		employee, err := r.ResolveEmployee(ctx, db, rec)
		if err != nil {
			t.Fatal(err)
		}
		if employee.Email != "m.rossi@proxima.it" {
			t.Errorf("email should follow the new address, got %q", employee.Email)
		}
		var count int64
		db.Model(&domain.Employee{}).Count(&count)
		if count != 1 {
			t.Errorf("employees = %d, want 1", count)
		}
	})
}

func TestResolvePlatform(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	var r Resolver

	p1, err := r.ResolvePlatform(ctx, db, "Coursera")
	if err != nil {
		t.Fatal(err)
	}
	p2, err := r.ResolvePlatform(ctx, db, "COURSERA")
	if err != nil {
		t.Fatal(err)
	}
	if p1.ID != p2.ID {
		t.Error("platform lookup must be case-insensitive")
	}

	def, err := r.ResolvePlatform(ctx, db, "")
	if err != nil {
		t.Fatal(err)
	}
	if def.Name != domain.DefaultPlatformName {
		t.Errorf("default platform = %q", def.Name)
	}
}

func TestResolveCourse(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	var r Resolver

	platform, err := r.ResolvePlatform(ctx, db, "LinkedIn Learning")
	if err != nil {
		t.Fatal(err)
	}

	rec := &domain.StagingRecord{ContentName: "Go Basics", ContentID: "C100", RawDuration: "02:30:00", ContentType: "VIDEO"}
	course, err := r.ResolveCourse(ctx, db, rec, platform)
	if err != nil {
		t.Fatal(err)
	}
	if course.DurationHours != 2.5 {
		t.Errorf("duration = %v, want 2.5", course.DurationHours)
	}
	if course.ExternalID == nil || *course.ExternalID != "C100" {
		t.Errorf("external id = %v", course.ExternalID)
	}

	t.Run("external id wins over name", func(t *testing.T) {
		renamed := &domain.StagingRecord{ContentName: "Go Basics (aggiornato)", ContentID: "C100"}
		found, err := r.ResolveCourse(ctx, db, renamed, platform)
		if err != nil {
			t.Fatal(err)
		}
		if found.ID != course.ID {
			t.Error("same external id must resolve to the same course")
		}
	})

	t.Run("falls back to name and platform", func(t *testing.T) {
		noID := &domain.StagingRecord{ContentName: "go basics"}
		found, err := r.ResolveCourse(ctx, db, noID, platform)
		if err != nil {
			t.Fatal(err)
		}
		if found.ID != course.ID {
			t.Error("name match must be case-insensitive")
		}
	})

	t.Run("same name on another platform is a new course", func(t *testing.T) {
		other, err := r.ResolvePlatform(ctx, db, "Udemy")
		if err != nil {
			t.Fatal(err)
		}
		found, err := r.ResolveCourse(ctx, db, &domain.StagingRecord{ContentName: "Go Basics"}, other)
		if err != nil {
			t.Fatal(err)
		}
		if found.ID == course.ID {
			t.Error("course identity is scoped to the platform")
		}
	})

	var count int64
	db.Model(&domain.Course{}).Count(&count)
	if count != 2 {
		t.Errorf("courses = %d, want 2", count)
	}
}
