package form_test

import (
	"strings"
	"testing"

	"github.com/obsworks/tasklog/internal/form"
)

func validForm() form.DailyLog {
	task := form.NewTaskEntry()
	task.ProjectID = "p1"
	task.Description = "fixed login bug"
	task.Hours = "8"

	return form.DailyLog{
		Date:       "2024-10-20",
		TotalHours: "8",
		Tasks:      []form.TaskEntry{task},
	}
}

func TestValidateFieldsValid(t *testing.T) {
	res := form.ValidateFields(validForm())
	if !res.Valid {
		t.Fatalf("expected valid form, got errors: %v", res.Errors)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
}

func TestValidateFieldsSingleViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*form.DailyLog)
		want    string
		wantLen int
	}{
		{
			name:    "missing date",
			mutate:  func(f *form.DailyLog) { f.Date = "" },
			want:    "Date is required",
			wantLen: 1,
		},
		{
			name:    "zero total hours",
			mutate:  func(f *form.DailyLog) { f.TotalHours = "0" },
			want:    "Total hours must be a positive number",
			wantLen: 1,
		},
		{
			name:    "unparseable total hours",
			mutate:  func(f *form.DailyLog) { f.TotalHours = "abc" },
			want:    "Total hours must be a positive number",
			wantLen: 1,
		},
		{
			name:    "total hours over 24",
			mutate:  func(f *form.DailyLog) { f.TotalHours = "25" },
			want:    "Total hours cannot exceed 24 hours per day",
			wantLen: 1,
		},
		{
			name:    "no tasks",
			mutate:  func(f *form.DailyLog) { f.Tasks = nil },
			want:    "At least one task is required",
			wantLen: 1,
		},
		{
			name:    "missing project",
			mutate:  func(f *form.DailyLog) { f.Tasks[0].ProjectID = "" },
			want:    "Task 1: Project is required",
			wantLen: 1,
		},
		{
			name:    "blank description",
			mutate:  func(f *form.DailyLog) { f.Tasks[0].Description = "   " },
			want:    "Task 1: Description is required",
			wantLen: 1,
		},
		{
			name:    "zero task hours",
			mutate:  func(f *form.DailyLog) { f.Tasks[0].Hours = "0" },
			want:    "Task 1: Hours must be a positive number",
			wantLen: 1,
		},
		{
			name:    "task hours over 24",
			mutate:  func(f *form.DailyLog) { f.Tasks[0].Hours = "30" },
			want:    "Task 1: Hours cannot exceed 24 hours",
			wantLen: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.mutate(&f)

			res := form.ValidateFields(f)
			if res.Valid {
				t.Fatal("expected invalid form")
			}
			if len(res.Errors) != tt.wantLen {
				t.Fatalf("expected %d error(s), got %v", tt.wantLen, res.Errors)
			}
			if res.Errors[0] != tt.want {
				t.Errorf("got %q, want %q", res.Errors[0], tt.want)
			}
		})
	}
}

func TestValidateFieldsCollectsAllViolations(t *testing.T) {
	second := form.NewTaskEntry()
	second.ProjectID = "p2"
	second.Description = "reviews"
	second.Hours = "2"

	f := validForm()
	f.Date = ""
	f.Tasks[0].ProjectID = ""
	f.Tasks[0].Hours = ""
	f.Tasks = append(f.Tasks, second)

	res := form.ValidateFields(f)
	if res.Valid {
		t.Fatal("expected invalid form")
	}

	want := []string{
		"Date is required",
		"Task 1: Project is required",
		"Task 1: Hours must be a positive number",
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("expected %d errors, got %v", len(want), res.Errors)
	}
	for i, msg := range want {
		if res.Errors[i] != msg {
			t.Errorf("errors[%d] = %q, want %q", i, res.Errors[i], msg)
		}
	}
	for _, e := range res.Errors {
		if strings.Contains(e, "Task 2") {
			t.Errorf("valid second task produced error %q", e)
		}
	}
}

func TestValidateTotalHours(t *testing.T) {
	task := func(hours string) form.TaskEntry {
		e := form.NewTaskEntry()
		e.ProjectID = "p1"
		e.Description = "work"
		e.Hours = hours
		return e
	}

	tests := []struct {
		name  string
		total string
		tasks []form.TaskEntry
		valid bool
	}{
		{"exact match", "8", []form.TaskEntry{task("3"), task("5")}, true},
		{"within tolerance", "8.01", []form.TaskEntry{task("8")}, true},
		{"beyond tolerance", "10", []form.TaskEntry{task("4"), task("5")}, false},
		{"unparseable counts as zero", "0", []form.TaskEntry{task("x")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := form.ValidateTotalHours(tt.total, tt.tasks)
			if res.Valid != tt.valid {
				t.Errorf("ValidateTotalHours(%q) valid = %v, want %v (errors: %v)",
					tt.total, res.Valid, tt.valid, res.Errors)
			}
		})
	}
}

func TestValidateCompleteShortCircuitsOnFieldErrors(t *testing.T) {
	f := validForm()
	f.Date = ""
	f.TotalHours = "10" // would also fail the cross-check

	res := form.ValidateComplete(f)
	if res.Valid {
		t.Fatal("expected invalid form")
	}
	if len(res.Errors) != 1 || res.Errors[0] != "Date is required" {
		t.Fatalf("expected only the field error, got %v", res.Errors)
	}
}

func TestValidateCompleteRunsCrossCheck(t *testing.T) {
	f := validForm()
	f.TotalHours = "10" // fields fine, sum is 8

	res := form.ValidateComplete(f)
	if res.Valid {
		t.Fatal("expected cross-check failure")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "must match sum of task hours") {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}
