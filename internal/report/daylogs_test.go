package report_test

import (
	"reflect"
	"testing"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/report"
)

func TestBuildDayRowsFlagsMismatchedTotals(t *testing.T) {
	logs := []api.TaskLog{
		{
			Date:       "2024-10-01",
			TotalHours: 10,
			Tasks: []api.TaskLogTask{
				{ProjectName: "A", Hours: 4},
				{ProjectName: "B", Hours: 5},
			},
		},
	}

	rows := report.BuildDayRows(logs)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].HasValidationError {
		t.Error("10 stated vs 9 summed should be flagged")
	}
}

func TestBuildDayRowsToleranceBoundary(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		hours   float64
		flagged bool
	}{
		{"exact match", 8, 8, false},
		{"at boundary", 10.01, 10, false},
		{"past boundary", 10.02, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := []api.TaskLog{{
				Date:       "2024-10-01",
				TotalHours: tt.total,
				Tasks:      []api.TaskLogTask{{ProjectName: "A", Hours: tt.hours}},
			}}

			rows := report.BuildDayRows(logs)
			if rows[0].HasValidationError != tt.flagged {
				t.Errorf("total %v vs %v: flagged = %v, want %v",
					tt.total, tt.hours, rows[0].HasValidationError, tt.flagged)
			}
		})
	}
}

func TestBuildDayRowsGroupsHoursByProject(t *testing.T) {
	logs := []api.TaskLog{
		{
			Date:       "2024-10-01",
			TotalHours: 8,
			Tasks: []api.TaskLogTask{
				{ProjectName: "A", Description: "morning", Hours: 3},
				{ProjectName: "A", Description: "afternoon", Hours: 2},
				{ProjectName: "B", Hours: 3},
			},
		},
	}

	rows := report.BuildDayRows(logs)
	want := map[string]float64{"A": 5, "B": 3}
	if !reflect.DeepEqual(rows[0].ProjectHours, want) {
		t.Errorf("ProjectHours = %v, want %v", rows[0].ProjectHours, want)
	}
	if len(rows[0].Descriptions) != 2 {
		t.Errorf("Descriptions = %v, want the two non-empty ones", rows[0].Descriptions)
	}
	if rows[0].HasValidationError {
		t.Error("matching totals should not be flagged")
	}
}

func TestBuildDayRowsSortsNewestFirst(t *testing.T) {
	logs := []api.TaskLog{
		{Date: "2024-10-01", TotalHours: 1, Tasks: []api.TaskLogTask{{ProjectName: "A", Hours: 1}}},
		{Date: "2024-10-03", TotalHours: 1, Tasks: []api.TaskLogTask{{ProjectName: "A", Hours: 1}}},
		{Date: "2024-10-02", TotalHours: 1, Tasks: []api.TaskLogTask{{ProjectName: "A", Hours: 1}}},
	}

	rows := report.BuildDayRows(logs)
	want := []string{"2024-10-03", "2024-10-02", "2024-10-01"}
	for i, date := range want {
		if rows[i].Date != date {
			t.Errorf("rows[%d].Date = %s, want %s", i, rows[i].Date, date)
		}
	}
}

func TestBuildDayRowsEmptyInput(t *testing.T) {
	if rows := report.BuildDayRows(nil); len(rows) != 0 {
		t.Errorf("expected no rows, got %+v", rows)
	}
}

func TestErrorCount(t *testing.T) {
	rows := []report.DayRow{
		{HasValidationError: true},
		{HasValidationError: false},
		{HasValidationError: true},
	}
	if n := report.ErrorCount(rows); n != 2 {
		t.Errorf("ErrorCount = %d, want 2", n)
	}
}

func TestProjectColumns(t *testing.T) {
	rows := []report.DayRow{
		{ProjectHours: map[string]float64{"B": 1, "A": 2}},
		{ProjectHours: map[string]float64{"A": 3, "C": 1}},
	}
	got := report.ProjectColumns(rows)
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ProjectColumns = %v, want %v", got, want)
	}
}
