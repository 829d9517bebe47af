package report

import (
	"math"
	"sort"

	"github.com/obsworks/tasklog/internal/api"
)

// flagTolerance matches the form-side tolerance: a day is only flagged
// when the stated total drifts from the summed project hours by more
// than 0.01 hours. A difference of exactly 0.01 does not flag.
const flagTolerance = 0.01

// DayRow is one rendered day in the logs viewer: the stated total, the
// hours regrouped per project, and the display-time validation flag.
type DayRow struct {
	ID                 string
	Date               string
	TotalHours         float64
	ProjectHours       map[string]float64
	Descriptions       []string
	HasValidationError bool
}

// BuildDayRows reshapes server day aggregates for display. Each day's
// task hours are folded into a per-project map and cross-checked
// against the stated total; this is a read-only recomputation over
// whatever the server returned, independent of form validation.
// Rows come back sorted by date descending.
func BuildDayRows(logs []api.TaskLog) []DayRow {
	rows := make([]DayRow, 0, len(logs))

	for _, log := range logs {
		projectHours := make(map[string]float64)
		var descriptions []string

		for _, task := range log.Tasks {
			projectHours[task.ProjectName] += task.Hours
			if task.Description != "" {
				descriptions = append(descriptions, task.Description)
			}
		}

		var sum float64
		for _, h := range projectHours {
			sum += h
		}

		rows = append(rows, DayRow{
			ID:                 log.ID,
			Date:               log.Date,
			TotalHours:         log.TotalHours,
			ProjectHours:       projectHours,
			Descriptions:       descriptions,
			HasValidationError: math.Abs(log.TotalHours-sum) > flagTolerance,
		})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].Date > rows[j].Date })
	return rows
}

// ErrorCount reports how many rows carry the validation flag, for the
// viewer footer.
func ErrorCount(rows []DayRow) int {
	n := 0
	for _, row := range rows {
		if row.HasValidationError {
			n++
		}
	}
	return n
}

// ProjectColumns returns the distinct project names across all rows,
// sorted, for building the viewer's column set.
func ProjectColumns(rows []DayRow) []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range rows {
		for name := range row.ProjectHours {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	sort.Strings(names)
	return names
}
