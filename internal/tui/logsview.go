package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/report"
)

type logsDebounceMsg struct {
	seq int
}

type logsFetchedMsg struct {
	rows []report.DayRow
	err  error
	seq  int
}

// LogsApp is the Bubbletea model for the per-employee day-log viewer:
// an employee switcher, a debounced date-range filter, and the table
// of day rows with display-time validation flags.
type LogsApp struct {
	users   []api.User
	userIdx int

	fromInput textinput.Model
	toInput   textinput.Model
	focus     int

	rows    []report.DayRow
	columns []string
	loading bool
	errMsg  string

	spinner  spinner.Model
	client   *api.Client
	debounce time.Duration

	// seq orders filter edits: each edit bumps it, the pending debounce
	// timer and any in-flight response carry the value they were
	// started with, and stale ones are dropped on arrival.
	seq int
}

func NewLogsApp(users []api.User, selected int, startDate, endDate string, client *api.Client, debounce time.Duration) *LogsApp {
	s := spinner.New()
	s.Spinner = spinner.Dot

	from := textinput.New()
	from.Placeholder = "YYYY-MM-DD"
	from.CharLimit = 10
	from.Width = 12
	from.SetValue(startDate)
	from.Focus()

	to := textinput.New()
	to.Placeholder = "YYYY-MM-DD"
	to.CharLimit = 10
	to.Width = 12
	to.SetValue(endDate)

	if selected < 0 || selected >= len(users) {
		selected = 0
	}

	return &LogsApp{
		users:     users,
		userIdx:   selected,
		fromInput: from,
		toInput:   to,
		spinner:   s,
		client:    client,
		debounce:  debounce,
	}
}

func (a *LogsApp) Init() tea.Cmd {
	a.seq++
	a.loading = true
	return tea.Batch(a.spinner.Tick, a.fetch(a.seq))
}

func (a *LogsApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return a.updateKey(msg)
	case logsDebounceMsg:
		// Only the newest pending timer fires a request; earlier ones
		// were superseded by further edits.
		if msg.seq != a.seq {
			return a, nil
		}
		a.loading = true
		a.errMsg = ""
		return a, tea.Batch(a.spinner.Tick, a.fetch(msg.seq))
	case logsFetchedMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		a.loading = false
		if msg.err != nil {
			a.errMsg = msg.err.Error()
			a.rows = nil
			a.columns = nil
			return a, nil
		}
		a.errMsg = ""
		a.rows = msg.rows
		a.columns = report.ProjectColumns(msg.rows)
		return a, nil
	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}
	return a, nil
}

func (a *LogsApp) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return a, tea.Quit
	case "tab":
		a.focus = (a.focus + 1) % 2
		if a.focus == 0 {
			a.toInput.Blur()
			return a, a.fromInput.Focus()
		}
		a.fromInput.Blur()
		return a, a.toInput.Focus()
	case "left", "[":
		if a.userIdx > 0 {
			a.userIdx--
			return a, a.scheduleFetch()
		}
		return a, nil
	case "right", "]":
		if a.userIdx < len(a.users)-1 {
			a.userIdx++
			return a, a.scheduleFetch()
		}
		return a, nil
	case "r":
		a.seq++
		a.loading = true
		a.errMsg = ""
		return a, tea.Batch(a.spinner.Tick, a.fetch(a.seq))
	}

	var cmd tea.Cmd
	if a.focus == 0 {
		a.fromInput, cmd = a.fromInput.Update(msg)
	} else {
		a.toInput, cmd = a.toInput.Update(msg)
	}
	return a, tea.Batch(cmd, a.scheduleFetch())
}

// scheduleFetch restarts the debounce window: the previous timer's seq
// no longer matches, so only the last edit within the window results
// in a request.
func (a *LogsApp) scheduleFetch() tea.Cmd {
	a.seq++
	seq := a.seq
	return tea.Tick(a.debounce, func(time.Time) tea.Msg {
		return logsDebounceMsg{seq: seq}
	})
}

func (a *LogsApp) fetch(seq int) tea.Cmd {
	if len(a.users) == 0 {
		return func() tea.Msg { return logsFetchedMsg{seq: seq} }
	}

	userID := a.users[a.userIdx].ID
	filter := api.TaskLogFilter{
		UserID:    userID,
		StartDate: strings.TrimSpace(a.fromInput.Value()),
		EndDate:   strings.TrimSpace(a.toInput.Value()),
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logs, err := a.client.ListTaskLogs(ctx, filter)
		if err != nil {
			return logsFetchedMsg{err: err, seq: seq}
		}
		return logsFetchedMsg{rows: report.BuildDayRows(logs), seq: seq}
	}
}

func (a *LogsApp) View() string {
	var sb strings.Builder

	name := "(no users)"
	if len(a.users) > 0 {
		name = a.users[a.userIdx].Name
	}
	sb.WriteString(titleStyle.Render("View Logs — " + name))
	sb.WriteString("\n")
	sb.WriteString(subtitleStyle.Render(fmt.Sprintf("From %s  To %s", a.fromInput.View(), a.toInput.View())))
	sb.WriteString("\n")

	switch {
	case a.loading:
		sb.WriteString(a.spinner.View() + " Loading logs...\n")
	case a.errMsg != "":
		sb.WriteString(errorStyle.Render("Error: ") + a.errMsg + "\n")
		sb.WriteString(helpStyle.Render("Press r to retry"))
		sb.WriteString("\n")
	case len(a.rows) == 0:
		sb.WriteString(dimStyle.Render("No logs found for the selected period.") + "\n")
	default:
		sb.WriteString(a.tableView())
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Tab: from/to • ←/→: employee • r: refresh • q: quit"))

	return boxStyle.Render(sb.String())
}

func (a *LogsApp) tableView() string {
	var sb strings.Builder

	header := fmt.Sprintf("%-12s  %7s", "Date", "Total")
	for _, col := range a.columns {
		header += fmt.Sprintf("  %10s", truncateName(col, 10))
	}
	sb.WriteString(dimStyle.Render(header))
	sb.WriteString("\n")

	for _, row := range a.rows {
		line := fmt.Sprintf("%-12s  %6sh", row.Date, formatHours(row.TotalHours))
		for _, col := range a.columns {
			line += fmt.Sprintf("  %10s", formatHours(row.ProjectHours[col]))
		}
		if row.HasValidationError {
			line = errorStyle.Render(line + "  !")
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	if n := report.ErrorCount(a.rows); n > 0 {
		sb.WriteString("\n")
		sb.WriteString(warningStyle.Render(fmt.Sprintf(
			"%d row(s) have total hours that don't match the sum of project hours", n)))
		sb.WriteString("\n")
	}

	return sb.String()
}

func truncateName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

func formatHours(v float64) string {
	if v == 0 {
		return "-"
	}
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
