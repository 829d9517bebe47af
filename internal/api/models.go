package api

// Role is the closed set of user roles known to the backend. The role
// decides which screens a user may open and which bucket their hours
// land in on the grand report.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleQA     Role = "QA"
	RoleDev    Role = "DEV"
	RolePM     Role = "PM"
	RoleDesign Role = "DESIGN"
)

// ReportRoles lists the roles that appear as grand report columns, in
// display order. Admin hours are not reported separately.
func ReportRoles() []Role {
	return []Role{RolePM, RoleQA, RoleDev, RoleDesign}
}

type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// TaskLogTask is one task line inside a day aggregate. Projects are
// referenced by denormalized name on the wire, not by id.
type TaskLogTask struct {
	ProjectName string  `json:"project_name"`
	Description string  `json:"description"`
	Hours       float64 `json:"hours"`
}

// TaskLog is the day aggregate owned by one user: a single record per
// (user, date) holding the stated daily total and the task lines.
type TaskLog struct {
	ID         string        `json:"id"`
	Owner      User          `json:"userId"`
	Date       string        `json:"date"`
	TotalHours float64       `json:"totalHours"`
	Tasks      []TaskLogTask `json:"tasks"`
	CreatedAt  string        `json:"createdAt"`
	UpdatedAt  string        `json:"updatedAt"`
}

// CreateTaskLogRequest creates or replaces the day aggregate for
// (userId, date). There is no partial update endpoint.
type CreateTaskLogRequest struct {
	UserID     string        `json:"userId"`
	Date       string        `json:"date"`
	TotalHours float64       `json:"totalHours"`
	Tasks      []TaskLogTask `json:"tasks"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// ProjectReport is one grand-report row: a project's hours subdivided
// by the submitting users' roles. Computed server-side.
type ProjectReport struct {
	Project    string  `json:"project"`
	TotalHours float64 `json:"totalHours"`
	PM         float64 `json:"PM"`
	QA         float64 `json:"QA"`
	Dev        float64 `json:"DEV"`
	Design     float64 `json:"DESIGN"`
}

type ReportTotals struct {
	TotalHours float64 `json:"totalHours"`
	PM         float64 `json:"PM"`
	QA         float64 `json:"QA"`
	Dev        float64 `json:"DEV"`
	Design     float64 `json:"DESIGN"`
}

type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type GrandReport struct {
	Projects      []ProjectReport `json:"projects"`
	Totals        ReportTotals    `json:"totals"`
	DateRange     DateRange       `json:"dateRange"`
	TotalProjects int             `json:"totalProjects"`
}
