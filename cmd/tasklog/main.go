package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/obsworks/tasklog/internal/api"
	"github.com/obsworks/tasklog/internal/config"
	"github.com/obsworks/tasklog/internal/report"
	"github.com/obsworks/tasklog/internal/session"
	"github.com/obsworks/tasklog/internal/store"
	"github.com/obsworks/tasklog/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "tasklog",
	Short: "Terminal client for the company timesheet service",
	Long:  "tasklog lets employees log daily hours against projects and admins view per-employee and grand reports, all from the terminal.",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE:  runWhoami,
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Log a day's tasks interactively",
	RunE:  runLog,
}

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse day logs with date-range filtering",
	RunE:  runView,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show the grand project-by-role report (admin)",
	RunE:  runReport,
}

var employeeReportCmd = &cobra.Command{
	Use:   "employee-report USER",
	Short: "Show one employee's hours grouped by project (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeeReport,
}

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users (admin)",
	RunE:  runUsers,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List the project catalog",
	RunE:  runProjects,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show recently submitted day logs (local history)",
	RunE:  runStatus,
}

var retryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Resubmit day logs that failed to upload",
	RunE:  runRetry,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Open config file in your editor",
	RunE:  runConfig,
}

func init() {
	loginCmd.Flags().String("email", "", "Account email (prompted if omitted)")

	logCmd.Flags().String("date", "", "Day to log, YYYY-MM-DD (default today)")

	viewCmd.Flags().String("user", "", "Employee id to preselect (admin only)")
	viewCmd.Flags().String("from", "", "Start date, YYYY-MM-DD (default first of month)")
	viewCmd.Flags().String("to", "", "End date, YYYY-MM-DD (default last of month)")

	reportCmd.Flags().String("from", "", "Start date, YYYY-MM-DD")
	reportCmd.Flags().String("to", "", "End date, YYYY-MM-DD")
	reportCmd.Flags().String("csv", "", "Write the report to a CSV file")

	employeeReportCmd.Flags().String("month", "", "Month to report, YYYY-MM (default current)")
	employeeReportCmd.Flags().String("csv", "", "Write the report to a CSV file")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(employeeReportCmd)
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(retryCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	if os.Getenv("TASKLOG_DEBUG") != "" {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// bootstrap loads config and session and builds the API client every
// command shares.
func bootstrap() (*config.Config, *session.Session, *api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	dir, err := config.ConfigDir()
	if err != nil {
		return nil, nil, nil, err
	}

	sess, err := session.Load(dir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading session: %w", err)
	}

	client := api.NewClient(
		cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		sess,
		newLogger(),
	)

	return cfg, sess, client, nil
}

func requireLogin(sess *session.Session) error {
	if !sess.LoggedIn() {
		return fmt.Errorf("not signed in — run 'tasklog login' first")
	}
	return nil
}

func requireAdmin(sess *session.Session) error {
	if err := requireLogin(sess); err != nil {
		return err
	}
	if !sess.IsAdmin() {
		return fmt.Errorf("this command requires the Admin role (signed in as %s)", sess.User().Role)
	}
	return nil
}

func openStore() (*store.DB, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return nil, err
	}
	return store.Open(dir)
}

func runLogin(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	reader := bufio.NewReader(os.Stdin)

	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")

	ctx := context.Background()
	result, err := client.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return err
	}

	if err := sess.SetLogin(result.User, result.Token); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	fmt.Printf("Signed in as %s (%s)\n", result.User.Name, result.User.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	sess, err := session.Load(dir)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}

	if err := sess.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}

	fmt.Println("Signed out.")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	_, sess, _, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireLogin(sess); err != nil {
		return err
	}

	user := sess.User()
	fmt.Printf("%s <%s> — %s\n", user.Name, user.Email, user.Role)
	return nil
}

func runLog(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireLogin(sess); err != nil {
		return err
	}

	date, _ := cmd.Flags().GetString("date")
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
	}

	ctx := context.Background()
	projects, err := client.ListProjects(ctx)
	if err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening local history: %w", err)
	}
	defer db.Close()

	app := tui.NewFormApp(date, sess.User(), projects, client, db)
	p := tea.NewProgram(app)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	result := app.GetResult()
	switch {
	case result == nil || result.Skipped:
		fmt.Println("Entry skipped.")
	case result.Submitted != nil:
		fmt.Printf("Saved %s: %sh across %d task(s)\n",
			result.Submitted.Date,
			trimHours(result.Submitted.TotalHours),
			len(result.Submitted.Tasks))
	}

	return nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireLogin(sess); err != nil {
		return err
	}

	preselect, _ := cmd.Flags().GetString("user")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" || to == "" {
		start, end := monthRange(time.Now().Format("2006-01"))
		if from == "" {
			from = start
		}
		if to == "" {
			to = end
		}
	}

	ctx := context.Background()

	// Admins browse anyone; everyone else gets their own logs only.
	var users []api.User
	if sess.IsAdmin() {
		users, err = client.ListUsers(ctx)
		if err != nil {
			return err
		}
	} else {
		if preselect != "" && preselect != sess.User().ID {
			return fmt.Errorf("viewing other employees requires the Admin role")
		}
		users = []api.User{sess.User()}
	}
	if len(users) == 0 {
		return fmt.Errorf("no users found")
	}

	selected := 0
	for i, u := range users {
		if u.ID == preselect {
			selected = i
			break
		}
	}

	debounce := time.Duration(cfg.UI.DebounceMillis) * time.Millisecond
	app := tui.NewLogsApp(users, selected, from, to, client, debounce)
	if _, err := tea.NewProgram(app).Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}

	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireAdmin(sess); err != nil {
		return err
	}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	csvPath, _ := cmd.Flags().GetString("csv")

	ctx := context.Background()
	grand, err := client.GrandReport(ctx, from, to)
	if err != nil {
		return err
	}

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating CSV file: %w", err)
		}
		defer f.Close()
		if err := report.WriteGrandCSV(f, grand); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", csvPath)
		return nil
	}

	if len(grand.Projects) == 0 {
		fmt.Println("No report data for the selected period.")
		return nil
	}

	fmt.Printf("Grand report %s — %s\n\n", grand.DateRange.StartDate, grand.DateRange.EndDate)
	fmt.Printf("  %-24s %10s %8s %8s %8s %8s\n", "Project", "Total", "PM", "QA", "DEV", "DESIGN")
	for _, p := range grand.Projects {
		fmt.Printf("  %-24s %10s %8s %8s %8s %8s\n",
			p.Project, trimHours(p.TotalHours),
			trimHours(p.PM), trimHours(p.QA), trimHours(p.Dev), trimHours(p.Design))
	}
	t := grand.Totals
	fmt.Printf("\n  %-24s %10s %8s %8s %8s %8s\n",
		"TOTAL", trimHours(t.TotalHours),
		trimHours(t.PM), trimHours(t.QA), trimHours(t.Dev), trimHours(t.Design))

	return nil
}

func runEmployeeReport(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireAdmin(sess); err != nil {
		return err
	}

	month, _ := cmd.Flags().GetString("month")
	csvPath, _ := cmd.Flags().GetString("csv")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", month); err != nil {
		return fmt.Errorf("invalid --month %q: expected YYYY-MM", month)
	}
	startDate, endDate := monthRange(month)

	ctx := context.Background()

	user, err := findUser(ctx, client, args[0])
	if err != nil {
		return err
	}

	logs, err := client.ListTaskLogs(ctx, api.TaskLogFilter{
		UserID:    user.ID,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return err
	}

	rows := report.AggregateByProject(logs)

	if csvPath != "" {
		f, err := os.Create(csvPath)
		if err != nil {
			return fmt.Errorf("creating CSV file: %w", err)
		}
		defer f.Close()
		if err := report.WriteEmployeeCSV(f, rows); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", csvPath)
		return nil
	}

	if len(rows) == 0 {
		fmt.Printf("No task logs found for %s in %s.\n", user.Name, month)
		return nil
	}

	fmt.Printf("%s — %s\n\n", user.Name, month)
	fmt.Printf("  %-24s %10s %8s %10s\n", "Project", "Hours", "Tasks", "Avg/Task")
	for _, row := range rows {
		fmt.Printf("  %-24s %10s %8d %10.2f\n",
			row.Project, trimHours(row.TotalHours), row.TaskCount, row.AvgHoursPerTask)
	}
	totals := report.Summarize(rows)
	fmt.Printf("\n  %-24s %10s %8d %10.2f\n",
		"TOTAL", trimHours(totals.TotalHours), totals.TaskCount, totals.AvgHoursPerTask())

	return nil
}

// findUser resolves an employee by id, email, or exact name.
func findUser(ctx context.Context, client *api.Client, key string) (*api.User, error) {
	users, err := client.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.ID == key || u.Email == key || u.Name == key {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("no user matching %q", key)
}

func runUsers(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireAdmin(sess); err != nil {
		return err
	}

	users, err := client.ListUsers(context.Background())
	if err != nil {
		return err
	}

	if len(users) == 0 {
		fmt.Println("No users found.")
		return nil
	}

	for _, u := range users {
		fmt.Printf("  %-24s %-30s %s\n", u.Name, u.Email, u.Role)
	}
	return nil
}

func runProjects(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireLogin(sess); err != nil {
		return err
	}

	projects, err := client.ListProjects(context.Background())
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("No projects found.")
		return nil
	}

	for _, p := range projects {
		fmt.Printf("  %s  %s\n", p.ID, p.Name)
	}
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening local history: %w", err)
	}
	defer db.Close()

	subs, err := db.RecentSubmissions(20)
	if err != nil {
		return fmt.Errorf("fetching local history: %w", err)
	}

	if len(subs) == 0 {
		fmt.Println("No submissions recorded yet.")
		return nil
	}

	fmt.Println("Recent submissions:")
	fmt.Println()
	for _, s := range subs {
		line := fmt.Sprintf("  %s  %6sh  %d task(s)  [%s]", s.Date, trimHours(s.TotalHours), s.TaskCount, s.Status)
		if s.Status == store.StatusFailed && s.LastError != "" {
			line += "  " + s.LastError
		}
		fmt.Println(line)
	}

	return nil
}

func runRetry(cmd *cobra.Command, args []string) error {
	_, sess, client, err := bootstrap()
	if err != nil {
		return err
	}
	if err := requireLogin(sess); err != nil {
		return err
	}

	db, err := openStore()
	if err != nil {
		return fmt.Errorf("opening local history: %w", err)
	}
	defer db.Close()

	failed, err := db.FailedSubmissions()
	if err != nil {
		return fmt.Errorf("fetching failed submissions: %w", err)
	}
	if len(failed) == 0 {
		fmt.Println("Nothing to retry.")
		return nil
	}

	ctx := context.Background()
	fmt.Printf("Retrying %d failed submission(s)...\n", len(failed))
	for _, s := range failed {
		created, err := client.CreateTaskLog(ctx, s.Payload)
		if err != nil {
			fmt.Printf("  %s: still failing: %v\n", s.Date, err)
			continue
		}
		if err := db.MarkLogged(s.ID, created.ID); err != nil {
			fmt.Printf("  %s: uploaded but could not update local status: %v\n", s.Date, err)
			continue
		}
		fmt.Printf("  %s: uploaded\n", s.Date)
	}

	return nil
}

func runConfig(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg := config.DefaultConfig()
		data := fmt.Sprintf(`[api]
base_url = "%s"
timeout_seconds = %d

[ui]
debounce_ms = %d
`,
			cfg.API.BaseURL,
			cfg.API.TimeoutSeconds,
			cfg.UI.DebounceMillis,
		)
		if err := os.WriteFile(configPath, []byte(data), 0644); err != nil {
			return fmt.Errorf("writing default config: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	fmt.Printf("Opening %s with %s...\n", configPath, editor)

	proc := os.ProcAttr{
		Files: []*os.File{os.Stdin, os.Stdout, os.Stderr},
	}
	process, err := os.StartProcess(editor, []string{editor, configPath}, &proc)
	if err != nil {
		fmt.Printf("Could not open editor. Config file is at: %s\n", configPath)
		return nil
	}
	_, err = process.Wait()
	return err
}

// monthRange expands YYYY-MM into its first and last day.
func monthRange(month string) (string, string) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		t = time.Now()
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format("2006-01-02"), last.Format("2006-01-02")
}

func trimHours(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
