package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/obsworks/tasklog/internal/api"
)

// ToCreateRequest maps a validated form to the wire payload. Projects
// are referenced by id on the form and by name on the wire; ids
// missing from the catalog fall back to a synthesized "Project {id}"
// name so the mapping is total and never fails.
func ToCreateRequest(f DailyLog, employeeID string, catalog []api.Project) api.CreateTaskLogRequest {
	byID := make(map[string]string, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p.Name
	}

	tasks := make([]api.TaskLogTask, 0, len(f.Tasks))
	for _, task := range f.Tasks {
		name, ok := byID[task.ProjectID]
		if !ok {
			name = fmt.Sprintf("Project %s", task.ProjectID)
		}

		hours, _ := parseHours(task.Hours)
		tasks = append(tasks, api.TaskLogTask{
			ProjectName: name,
			Description: strings.TrimSpace(task.Description),
			Hours:       hours,
		})
	}

	total, _ := parseHours(f.TotalHours)
	return api.CreateTaskLogRequest{
		UserID:     employeeID,
		Date:       f.Date,
		TotalHours: total,
		Tasks:      tasks,
	}
}

// formatHours renders hours without trailing zeros: 8 not 8.00, but
// 7.5 stays 7.5.
func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
