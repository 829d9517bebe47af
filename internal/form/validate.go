package form

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// hoursTolerance is the allowed drift between the stated daily total
// and the sum of task hours: 0.01 hours, i.e. 36 seconds.
const hoursTolerance = 0.01

// Result collects every violated rule as a human-readable message, in
// rule order. Messages are shown to the user verbatim.
type Result struct {
	Valid  bool
	Errors []string
}

func result(errs []string) Result {
	return Result{Valid: len(errs) == 0, Errors: errs}
}

// parseHours parses a decimal hours string. ok is false for empty or
// unparseable input.
func parseHours(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ValidateFields checks every field rule and collects all violations;
// nothing short-circuits, so the user sees the full list at once.
// Task-level messages name the offending row by 1-based position.
func ValidateFields(f DailyLog) Result {
	var errs []string

	if f.Date == "" {
		errs = append(errs, "Date is required")
	}

	total, ok := parseHours(f.TotalHours)
	if f.TotalHours == "" || !ok || total <= 0 {
		errs = append(errs, "Total hours must be a positive number")
	}
	if ok && total > 24 {
		errs = append(errs, "Total hours cannot exceed 24 hours per day")
	}

	if len(f.Tasks) == 0 {
		errs = append(errs, "At least one task is required")
	}

	for i, task := range f.Tasks {
		pos := i + 1

		if task.ProjectID == "" {
			errs = append(errs, fmt.Sprintf("Task %d: Project is required", pos))
		}
		if strings.TrimSpace(task.Description) == "" {
			errs = append(errs, fmt.Sprintf("Task %d: Description is required", pos))
		}

		hours, ok := parseHours(task.Hours)
		if task.Hours == "" || !ok || hours <= 0 {
			errs = append(errs, fmt.Sprintf("Task %d: Hours must be a positive number", pos))
		}
		if ok && hours > 24 {
			errs = append(errs, fmt.Sprintf("Task %d: Hours cannot exceed 24 hours", pos))
		}
	}

	return result(errs)
}

// ValidateTotalHours cross-checks the stated total against the sum of
// task hours within the tolerance. Unparseable values count as zero,
// so a half-filled form compares what is actually there.
func ValidateTotalHours(totalHours string, tasks []TaskEntry) Result {
	var errs []string

	total, _ := parseHours(totalHours)
	var sum float64
	for _, task := range tasks {
		h, _ := parseHours(task.Hours)
		sum += h
	}

	if math.Abs(total-sum) > hoursTolerance {
		errs = append(errs, fmt.Sprintf("Total hours (%s) must match sum of task hours (%s)",
			formatHours(total), formatHours(sum)))
	}

	return result(errs)
}

// ValidateComplete runs the field rules and, only when they all pass,
// the strict total cross-check.
func ValidateComplete(f DailyLog) Result {
	fields := ValidateFields(f)
	if !fields.Valid {
		return fields
	}
	return ValidateTotalHours(f.TotalHours, f.Tasks)
}
