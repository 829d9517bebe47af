package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// TaskLogFilter narrows ListTaskLogs. Zero-value fields are omitted
// from the query string.
type TaskLogFilter struct {
	UserID      string
	StartDate   string
	EndDate     string
	ProjectName string
}

func (f TaskLogFilter) query() url.Values {
	q := url.Values{}
	if f.UserID != "" {
		q.Set("userId", f.UserID)
	}
	if f.StartDate != "" {
		q.Set("startDate", f.StartDate)
	}
	if f.EndDate != "" {
		q.Set("endDate", f.EndDate)
	}
	if f.ProjectName != "" {
		q.Set("project_name", f.ProjectName)
	}
	return q
}

// ListTaskLogs returns the day aggregates matching the filter.
func (c *Client) ListTaskLogs(ctx context.Context, filter TaskLogFilter) ([]TaskLog, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/tasklogs", filter.query(), nil, "list task logs", "failed to fetch task logs")
	if err != nil {
		return nil, err
	}

	var payload struct {
		TaskLogs []TaskLog `json:"taskLogs"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing task logs response: %w", err)
	}

	return payload.TaskLogs, nil
}

// GetTaskLog fetches the single day aggregate for (userID, date).
// A day with no log yields an error satisfying errors.Is(err, ErrNotFound).
func (c *Client) GetTaskLog(ctx context.Context, userID, date string) (*TaskLog, error) {
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("date", date)

	data, err := c.doRequest(ctx, http.MethodGet, "/tasklogs/single", q, nil, "get task log", "failed to fetch task log")
	if err != nil {
		return nil, err
	}

	var payload struct {
		TaskLog *TaskLog `json:"taskLog"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing task log response: %w", err)
	}
	if payload.TaskLog == nil {
		return nil, newError("get task log", 0, "task log not found", "")
	}

	return payload.TaskLog, nil
}

// CreateTaskLog creates or wholesale-replaces the day aggregate keyed
// by (userId, date) in the request body.
func (c *Client) CreateTaskLog(ctx context.Context, req CreateTaskLogRequest) (*TaskLog, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/tasklogs", nil, req, "create task log", "failed to create task log")
	if err != nil {
		return nil, err
	}

	var payload struct {
		TaskLog *TaskLog `json:"taskLog"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing task log response: %w", err)
	}
	if payload.TaskLog == nil {
		return nil, newError("create task log", 0, "", "failed to create task log")
	}

	return payload.TaskLog, nil
}
