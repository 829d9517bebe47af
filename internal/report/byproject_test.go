package report_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/report"
)

func day(date string, tasks ...api.TaskLogTask) api.TaskLog {
	var total float64
	for _, t := range tasks {
		total += t.Hours
	}
	return api.TaskLog{Date: date, TotalHours: total, Tasks: tasks}
}

func TestAggregateByProject(t *testing.T) {
	logs := []api.TaskLog{
		day("2024-10-01", api.TaskLogTask{ProjectName: "A", Hours: 3}),
		day("2024-10-02", api.TaskLogTask{ProjectName: "A", Hours: 5}),
	}

	rows := report.AggregateByProject(logs)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	row := rows[0]
	if row.Project != "A" || row.TotalHours != 8 || row.TaskCount != 2 {
		t.Errorf("row = %+v, want A/8/2", row)
	}
	if row.AvgHoursPerTask != 4 {
		t.Errorf("AvgHoursPerTask = %v, want 4", row.AvgHoursPerTask)
	}
}

func TestAggregateByProjectOrderIndependent(t *testing.T) {
	logs := []api.TaskLog{
		day("2024-10-01",
			api.TaskLogTask{ProjectName: "A", Hours: 2},
			api.TaskLogTask{ProjectName: "B", Hours: 1.5}),
		day("2024-10-02", api.TaskLogTask{ProjectName: "B", Hours: 4}),
		day("2024-10-03", api.TaskLogTask{ProjectName: "C", Hours: 0.5}),
		day("2024-10-04", api.TaskLogTask{ProjectName: "A", Hours: 6}),
	}

	want := report.AggregateByProject(logs)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := make([]api.TaskLog, len(logs))
		copy(shuffled, logs)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := report.AggregateByProject(shuffled)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("aggregation depends on input order:\ngot  %+v\nwant %+v", got, want)
		}
	}
}

func TestAggregateByProjectDropsZeroBuckets(t *testing.T) {
	logs := []api.TaskLog{
		day("2024-10-01",
			api.TaskLogTask{ProjectName: "Active", Hours: 4},
			api.TaskLogTask{ProjectName: "Idle", Hours: 0}),
	}

	rows := report.AggregateByProject(logs)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %+v", rows)
	}
	if rows[0].Project != "Active" {
		t.Errorf("unexpected row %+v", rows[0])
	}
}

func TestAggregateByProjectEmptyInput(t *testing.T) {
	if rows := report.AggregateByProject(nil); len(rows) != 0 {
		t.Errorf("expected empty result, got %+v", rows)
	}
}

func TestSummarize(t *testing.T) {
	rows := []report.ProjectRow{
		{Project: "A", TotalHours: 8, TaskCount: 2},
		{Project: "B", TotalHours: 4, TaskCount: 2},
	}

	s := report.Summarize(rows)
	if s.TotalHours != 12 || s.TaskCount != 4 {
		t.Errorf("summary = %+v", s)
	}
	if s.AvgHoursPerTask() != 3 {
		t.Errorf("AvgHoursPerTask = %v, want 3", s.AvgHoursPerTask())
	}

	var empty report.Summary
	if empty.AvgHoursPerTask() != 0 {
		t.Errorf("empty summary average should be 0, got %v", empty.AvgHoursPerTask())
	}
}
