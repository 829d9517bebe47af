// Package form holds the in-memory daily log form and the pure
// validation and wire-transform logic applied before a submission.
package form

import (
	"github.com/google/uuid"

	"github.com/obsworks/tasklog/internal/api"
)

// TaskEntry is one editable task row. Hours stays a string until
// validation so partially typed values never get silently coerced.
// The ID only exists to keep rows addressable while editing; it is
// never sent to the server.
type TaskEntry struct {
	ID          string
	ProjectID   string
	Description string
	Hours       string
}

// NewTaskEntry returns an empty row with a fresh local id.
func NewTaskEntry() TaskEntry {
	return TaskEntry{ID: uuid.NewString()}
}

// DailyLog is the form for one employee day: a date, the total hours
// the employee states for the day, and the task rows.
type DailyLog struct {
	Date       string
	TotalHours string
	Tasks      []TaskEntry
}

// NewDailyLog returns a form for the given date with one empty row.
func NewDailyLog(date string) DailyLog {
	return DailyLog{
		Date:  date,
		Tasks: []TaskEntry{NewTaskEntry()},
	}
}

// FromTaskLog rebuilds an editable form from a server day aggregate,
// resolving each wire project name back to a catalog id. Names missing
// from the catalog leave the project unset so the user re-picks it.
func FromTaskLog(log *api.TaskLog, catalog []api.Project) DailyLog {
	byName := make(map[string]string, len(catalog))
	for _, p := range catalog {
		byName[p.Name] = p.ID
	}

	tasks := make([]TaskEntry, 0, len(log.Tasks))
	for _, t := range log.Tasks {
		entry := NewTaskEntry()
		entry.ProjectID = byName[t.ProjectName]
		entry.Description = t.Description
		entry.Hours = formatHours(t.Hours)
		tasks = append(tasks, entry)
	}
	if len(tasks) == 0 {
		tasks = []TaskEntry{NewTaskEntry()}
	}

	return DailyLog{
		Date:       log.Date,
		TotalHours: formatHours(log.TotalHours),
		Tasks:      tasks,
	}
}

// AddTask appends a fresh empty row.
func (f *DailyLog) AddTask() {
	f.Tasks = append(f.Tasks, NewTaskEntry())
}

// RemoveTask deletes the row with the given id. The last remaining row
// is never removed; the form always shows at least one.
func (f *DailyLog) RemoveTask(id string) {
	if len(f.Tasks) <= 1 {
		return
	}
	for i, t := range f.Tasks {
		if t.ID == id {
			f.Tasks = append(f.Tasks[:i], f.Tasks[i+1:]...)
			return
		}
	}
}
