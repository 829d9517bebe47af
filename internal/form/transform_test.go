package form_test

import (
	"testing"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/form"
)

var catalog = []api.Project{
	{ID: "p1", Name: "Website Redesign"},
	{ID: "p2", Name: "Mobile App"},
}

func TestToCreateRequest(t *testing.T) {
	f := validForm()
	req := form.ToCreateRequest(f, "u42", catalog)

	if req.UserID != "u42" {
		t.Errorf("UserID = %q, want u42", req.UserID)
	}
	if req.Date != "2024-10-20" {
		t.Errorf("Date = %q", req.Date)
	}
	if req.TotalHours != 8 {
		t.Errorf("TotalHours = %v, want 8", req.TotalHours)
	}
	if len(req.Tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(req.Tasks))
	}
	task := req.Tasks[0]
	if task.ProjectName != "Website Redesign" {
		t.Errorf("ProjectName = %q", task.ProjectName)
	}
	if task.Description != "fixed login bug" {
		t.Errorf("Description = %q", task.Description)
	}
	if task.Hours != 8 {
		t.Errorf("Hours = %v, want 8", task.Hours)
	}
}

func TestToCreateRequestUnknownProjectFallsBack(t *testing.T) {
	f := validForm()
	f.Tasks[0].ProjectID = "ghost"

	req := form.ToCreateRequest(f, "u1", catalog)
	if req.Tasks[0].ProjectName != "Project ghost" {
		t.Errorf("ProjectName = %q, want synthesized fallback", req.Tasks[0].ProjectName)
	}
}

func TestToCreateRequestTrimsDescriptions(t *testing.T) {
	f := validForm()
	f.Tasks[0].Description = "  standup meeting  "

	req := form.ToCreateRequest(f, "u1", catalog)
	if req.Tasks[0].Description != "standup meeting" {
		t.Errorf("Description = %q, want trimmed", req.Tasks[0].Description)
	}
}

func TestToCreateRequestPreservesTaskCount(t *testing.T) {
	f := validForm()
	for i := 0; i < 3; i++ {
		f.AddTask()
	}

	req := form.ToCreateRequest(f, "u1", catalog)
	if len(req.Tasks) != len(f.Tasks) {
		t.Errorf("task count %d, want %d", len(req.Tasks), len(f.Tasks))
	}
}

func TestFromTaskLog(t *testing.T) {
	log := &api.TaskLog{
		Date:       "2024-10-20",
		TotalHours: 7.5,
		Tasks: []api.TaskLogTask{
			{ProjectName: "Mobile App", Description: "api integration", Hours: 5},
			{ProjectName: "Retired Project", Description: "handover", Hours: 2.5},
		},
	}

	f := form.FromTaskLog(log, catalog)
	if f.Date != "2024-10-20" {
		t.Errorf("Date = %q", f.Date)
	}
	if f.TotalHours != "7.5" {
		t.Errorf("TotalHours = %q, want 7.5", f.TotalHours)
	}
	if len(f.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(f.Tasks))
	}
	if f.Tasks[0].ProjectID != "p2" {
		t.Errorf("Tasks[0].ProjectID = %q, want p2", f.Tasks[0].ProjectID)
	}
	if f.Tasks[1].ProjectID != "" {
		t.Errorf("unknown project should leave id unset, got %q", f.Tasks[1].ProjectID)
	}
	if f.Tasks[0].Hours != "5" {
		t.Errorf("Tasks[0].Hours = %q, want 5", f.Tasks[0].Hours)
	}
	if f.Tasks[0].ID == f.Tasks[1].ID {
		t.Error("task entries share an id")
	}
}

func TestFromTaskLogEmptyDayGetsOneRow(t *testing.T) {
	log := &api.TaskLog{Date: "2024-10-20", TotalHours: 0}
	f := form.FromTaskLog(log, catalog)
	if len(f.Tasks) != 1 {
		t.Fatalf("expected one empty row, got %d", len(f.Tasks))
	}
}

func TestRemoveTaskKeepsLastRow(t *testing.T) {
	f := form.NewDailyLog("2024-10-20")
	f.RemoveTask(f.Tasks[0].ID)
	if len(f.Tasks) != 1 {
		t.Fatalf("last row must survive, got %d rows", len(f.Tasks))
	}

	f.AddTask()
	victim := f.Tasks[0].ID
	f.RemoveTask(victim)
	if len(f.Tasks) != 1 {
		t.Fatalf("expected 1 row after removal, got %d", len(f.Tasks))
	}
	if f.Tasks[0].ID == victim {
		t.Error("removed the wrong row")
	}
}
