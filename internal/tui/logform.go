package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/form"
	"github.com/obsworks/tasklog/internal/store"
)

type formViewState int

const (
	formLoadingView formViewState = iota
	formEditView
	formSubmittingView
	formDoneView
)

// form rows 0 and 1 are the date and total-hours fields; task rows
// follow.
const taskRowOffset = 2

type formField int

const (
	fieldProject formField = iota
	fieldDescription
	fieldHours
)

// FormResult reports what the form app did for the caller to print.
type FormResult struct {
	Skipped   bool
	Submitted *api.TaskLog
}

type prefillMsg struct {
	log *api.TaskLog
	err error
}

type formSubmitMsg struct {
	log *api.TaskLog
	err error
}

// FormApp is the Bubbletea model for the daily log entry form.
type FormApp struct {
	state   formViewState
	spinner spinner.Model

	dayForm  form.DailyLog
	projects []api.Project
	client   *api.Client
	db       *store.DB
	user     api.User

	cursor    int
	field     formField
	textInput textinput.Model
	editing   bool
	filtered  []api.Project

	validationErrors []string
	warning          string
	errMsg           string
	result           *FormResult
}

func NewFormApp(date string, user api.User, projects []api.Project, client *api.Client, db *store.DB) *FormApp {
	s := spinner.New()
	s.Spinner = spinner.Dot

	ti := textinput.New()
	ti.CharLimit = 200
	ti.Width = 50

	return &FormApp{
		state:     formLoadingView,
		spinner:   s,
		dayForm:   form.NewDailyLog(date),
		projects:  projects,
		client:    client,
		db:        db,
		user:      user,
		textInput: ti,
	}
}

func (a *FormApp) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.loadExisting())
}

// loadExisting prefetches the day log for (user, date) so an existing
// day is edited rather than blindly replaced. Not-found means a fresh
// empty form, not a failure.
func (a *FormApp) loadExisting() tea.Cmd {
	date := a.dayForm.Date
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		log, err := a.client.GetTaskLog(ctx, a.user.ID, date)
		return prefillMsg{log: log, err: err}
	}
}

func (a *FormApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			a.result = &FormResult{Skipped: true}
			return a, tea.Quit
		}
	case prefillMsg:
		return a.handlePrefill(msg)
	case formSubmitMsg:
		return a.handleSubmit(msg)
	}

	switch a.state {
	case formLoadingView, formSubmittingView:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	case formEditView:
		return a.updateEdit(msg)
	case formDoneView:
		return a.updateDone(msg)
	}

	return a, nil
}

func (a *FormApp) handlePrefill(msg prefillMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil && !errors.Is(msg.err, api.ErrNotFound) {
		a.state = formDoneView
		a.errMsg = msg.err.Error()
		return a, nil
	}
	if msg.log != nil {
		a.dayForm = form.FromTaskLog(msg.log, a.projects)
	}
	a.state = formEditView
	return a, nil
}

func (a *FormApp) handleSubmit(msg formSubmitMsg) (tea.Model, tea.Cmd) {
	a.state = formDoneView
	if msg.err != nil {
		a.errMsg = msg.err.Error()
		return a, nil
	}
	a.result = &FormResult{Submitted: msg.log}
	return a, nil
}

func (a *FormApp) updateDone(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if a.errMsg != "" && keyMsg.String() == "r" {
			// Manual retry re-enters the form with its state intact.
			a.errMsg = ""
			a.state = formEditView
			return a, nil
		}
		if a.result == nil {
			a.result = &FormResult{Skipped: true}
		}
		return a, tea.Quit
	}
	return a, nil
}

func (a *FormApp) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.editing {
		return a.updateEditing(msg)
	}
	return a.updateNavigating(msg)
}

func (a *FormApp) rowCount() int {
	return taskRowOffset + len(a.dayForm.Tasks)
}

func (a *FormApp) updateNavigating(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}

	switch keyMsg.String() {
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < a.rowCount()-1 {
			a.cursor++
		}
	case "tab":
		if a.cursor >= taskRowOffset {
			a.field = (a.field + 1) % 3
		}
	case "a":
		a.dayForm.AddTask()
		a.cursor = a.rowCount() - 1
		a.clearValidation()
	case "d":
		if i := a.cursor - taskRowOffset; i >= 0 && i < len(a.dayForm.Tasks) {
			a.dayForm.RemoveTask(a.dayForm.Tasks[i].ID)
			if a.cursor >= a.rowCount() {
				a.cursor = a.rowCount() - 1
			}
			a.clearValidation()
		}
	case "s":
		return a.submit()
	case "enter":
		a.startEditing()
		return a, a.textInput.Focus()
	}

	return a, nil
}

func (a *FormApp) startEditing() {
	a.editing = true
	a.textInput.SetValue("")

	switch {
	case a.cursor == 0:
		a.textInput.SetValue(a.dayForm.Date)
		a.textInput.Placeholder = "YYYY-MM-DD"
	case a.cursor == 1:
		a.textInput.SetValue(a.dayForm.TotalHours)
		a.textInput.Placeholder = "Total hours"
	default:
		task := a.dayForm.Tasks[a.cursor-taskRowOffset]
		switch a.field {
		case fieldProject:
			a.textInput.Placeholder = "Search project..."
			a.filtered = a.projects
		case fieldDescription:
			a.textInput.SetValue(task.Description)
			a.textInput.Placeholder = "Description"
		case fieldHours:
			a.textInput.SetValue(task.Hours)
			a.textInput.Placeholder = "Hours"
		}
	}
}

func (a *FormApp) updateEditing(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "enter":
			a.applyEdit()
			a.editing = false
			a.textInput.Blur()
			a.clearValidation()
			return a, nil
		case "esc":
			a.editing = false
			a.textInput.Blur()
			return a, nil
		}
	}

	var cmd tea.Cmd
	a.textInput, cmd = a.textInput.Update(msg)

	if a.cursor >= taskRowOffset && a.field == fieldProject {
		query := strings.ToLower(a.textInput.Value())
		a.filtered = nil
		for _, p := range a.projects {
			if strings.Contains(strings.ToLower(p.Name), query) {
				a.filtered = append(a.filtered, p)
			}
		}
	}

	return a, cmd
}

func (a *FormApp) applyEdit() {
	value := a.textInput.Value()

	switch {
	case a.cursor == 0:
		a.dayForm.Date = strings.TrimSpace(value)
	case a.cursor == 1:
		a.dayForm.TotalHours = strings.TrimSpace(value)
	default:
		task := &a.dayForm.Tasks[a.cursor-taskRowOffset]
		switch a.field {
		case fieldProject:
			if len(a.filtered) > 0 {
				task.ProjectID = a.filtered[0].ID
			}
		case fieldDescription:
			task.Description = value
		case fieldHours:
			task.Hours = strings.TrimSpace(value)
		}
	}
}

// clearValidation drops stale messages once the user resumes editing.
func (a *FormApp) clearValidation() {
	a.validationErrors = nil
	a.warning = ""
}

func (a *FormApp) submit() (tea.Model, tea.Cmd) {
	res := form.ValidateFields(a.dayForm)
	if !res.Valid {
		a.validationErrors = res.Errors
		return a, nil
	}

	// The strict cross-check stays advisory at submit time; the logs
	// viewer flags mismatched days after the fact.
	a.warning = ""
	if total := form.ValidateTotalHours(a.dayForm.TotalHours, a.dayForm.Tasks); !total.Valid {
		a.warning = total.Errors[0]
	}

	req := form.ToCreateRequest(a.dayForm, a.user.ID, a.projects)
	a.state = formSubmittingView
	return a, tea.Batch(a.spinner.Tick, a.submitRequest(req))
}

func (a *FormApp) submitRequest(req api.CreateTaskLogRequest) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		created, err := a.client.CreateTaskLog(ctx, req)

		if a.db != nil {
			status, remoteID, lastError := store.StatusLogged, "", ""
			if err != nil {
				status, lastError = store.StatusFailed, err.Error()
			} else {
				remoteID = created.ID
			}
			a.db.RecordSubmission(req, remoteID, status, lastError)
		}

		return formSubmitMsg{log: created, err: err}
	}
}

func (a *FormApp) View() string {
	switch a.state {
	case formLoadingView:
		return a.spinner.View() + " Loading existing log..."
	case formSubmittingView:
		return a.spinner.View() + " Submitting..."
	case formDoneView:
		if a.errMsg != "" {
			return errorStyle.Render("Error: ") + a.errMsg + "\n\n" +
				helpStyle.Render("[r]etry • any other key to exit")
		}
		out := successStyle.Render("Day log saved.")
		if a.warning != "" {
			out += "\n" + warningStyle.Render("Warning: "+a.warning)
		}
		return out + "\n\n" + helpStyle.Render("Press any key to exit")
	}
	return a.editView()
}

func (a *FormApp) editView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Log Task — " + a.user.Name))
	sb.WriteString("\n")

	sb.WriteString(a.renderRow(0, fmt.Sprintf("Date         %s", a.dayForm.Date)))
	sb.WriteString(a.renderRow(1, fmt.Sprintf("Total hours  %s", a.dayForm.TotalHours)))
	sb.WriteString("\n")

	for i, task := range a.dayForm.Tasks {
		line := fmt.Sprintf("%-20s  %5sh  %s",
			a.projectName(task.ProjectID), task.Hours, task.Description)
		sb.WriteString(a.renderRow(taskRowOffset+i, line))
	}

	if a.cursor >= taskRowOffset {
		fieldNames := []string{"Project", "Description", "Hours"}
		sb.WriteString("\n")
		sb.WriteString(fmt.Sprintf("Field: %s\n", selectedStyle.Render(fieldNames[a.field])))
	}

	if a.editing {
		sb.WriteString(a.textInput.View())
		sb.WriteString("\n")

		if a.cursor >= taskRowOffset && a.field == fieldProject && len(a.filtered) > 0 {
			limit := 5
			if len(a.filtered) < limit {
				limit = len(a.filtered)
			}
			for _, p := range a.filtered[:limit] {
				sb.WriteString(fmt.Sprintf("  %s\n", dimStyle.Render(p.Name)))
			}
		}
	}

	if len(a.validationErrors) > 0 {
		sb.WriteString("\n")
		for _, e := range a.validationErrors {
			sb.WriteString(errorStyle.Render("• " + e))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("Enter: edit • Tab: next field • a: add task • d: delete task • s: submit • j/k: nav • Ctrl+C: cancel"))

	return boxStyle.Render(sb.String())
}

func (a *FormApp) renderRow(idx int, line string) string {
	prefix := "  "
	if idx == a.cursor {
		prefix = "> "
		return highlightStyle.Render(prefix+line) + "\n"
	}
	return prefix + line + "\n"
}

func (a *FormApp) projectName(id string) string {
	if id == "" {
		return "(no project)"
	}
	for _, p := range a.projects {
		if p.ID == id {
			return p.Name
		}
	}
	return fmt.Sprintf("Project %s", id)
}

func (a *FormApp) GetResult() *FormResult {
	return a.result
}
