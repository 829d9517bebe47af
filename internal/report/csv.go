package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/obsworks/tasklog/internal/api"
)

// WriteEmployeeCSV writes the per-employee report with a trailing
// TOTAL row, mirroring the table layout of the report screen.
func WriteEmployeeCSV(w io.Writer, rows []ProjectRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Project", "Total Hours", "Task Count", "Avg Hours/Task"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, row := range rows {
		record := []string{
			row.Project,
			formatFloat(row.TotalHours),
			strconv.Itoa(row.TaskCount),
			fmt.Sprintf("%.2f", row.AvgHoursPerTask),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	totals := Summarize(rows)
	record := []string{
		"TOTAL",
		formatFloat(totals.TotalHours),
		strconv.Itoa(totals.TaskCount),
		fmt.Sprintf("%.2f", totals.AvgHoursPerTask()),
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("writing CSV totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WriteGrandCSV writes the grand report's project-by-role rows plus
// the server-computed totals as a trailing TOTAL row.
func WriteGrandCSV(w io.Writer, r *api.GrandReport) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Project", "Total Hours", "PM", "QA", "DEV", "DESIGN"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	for _, p := range r.Projects {
		record := []string{
			p.Project,
			formatFloat(p.TotalHours),
			formatFloat(p.PM),
			formatFloat(p.QA),
			formatFloat(p.Dev),
			formatFloat(p.Design),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}

	record := []string{
		"TOTAL",
		formatFloat(r.Totals.TotalHours),
		formatFloat(r.Totals.PM),
		formatFloat(r.Totals.QA),
		formatFloat(r.Totals.Dev),
		formatFloat(r.Totals.Design),
	}
	if err := cw.Write(record); err != nil {
		return fmt.Errorf("writing CSV totals: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
