// Package report reshapes lists of day aggregates into the tabular
// views the reporting screens and CSV exports render.
package report

import (
	"sort"

	"github.com/obsworks/tasklog/internal/api"
)

// ProjectRow is one per-employee report row: total hours and task
// count for a single project, plus the derived average.
type ProjectRow struct {
	Project         string
	TotalHours      float64
	TaskCount       int
	AvgHoursPerTask float64
}

// Summary is the footer row summed over every project row.
type Summary struct {
	TotalHours float64
	TaskCount  int
}

// AvgHoursPerTask is the overall average, defined as 0 when no tasks
// were counted.
func (s Summary) AvgHoursPerTask() float64 {
	if s.TaskCount == 0 {
		return 0
	}
	return s.TotalHours / float64(s.TaskCount)
}

// AggregateByProject groups every task inside the given day aggregates
// by wire project name, summing hours and counting tasks. Buckets that
// end at exactly zero hours are dropped so unused projects do not
// appear as rows. Rows come back sorted by project name, which also
// makes the result independent of input order.
func AggregateByProject(logs []api.TaskLog) []ProjectRow {
	buckets := make(map[string]*ProjectRow)

	for _, log := range logs {
		for _, task := range log.Tasks {
			row, ok := buckets[task.ProjectName]
			if !ok {
				row = &ProjectRow{Project: task.ProjectName}
				buckets[task.ProjectName] = row
			}
			row.TotalHours += task.Hours
			row.TaskCount++
		}
	}

	rows := make([]ProjectRow, 0, len(buckets))
	for _, row := range buckets {
		if row.TotalHours == 0 {
			continue
		}
		if row.TaskCount > 0 {
			row.AvgHoursPerTask = row.TotalHours / float64(row.TaskCount)
		}
		rows = append(rows, *row)
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Project < rows[j].Project })
	return rows
}

// Summarize folds project rows into the totals footer.
func Summarize(rows []ProjectRow) Summary {
	var s Summary
	for _, row := range rows {
		s.TotalHours += row.TotalHours
		s.TaskCount += row.TaskCount
	}
	return s
}
