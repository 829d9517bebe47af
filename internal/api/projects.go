package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListProjects returns the project catalog. Results are cached for the
// client's cache TTL since the catalog changes rarely and every form
// needs it for the id to name lookup.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	if cached := c.cache.get(); cached != nil {
		return cached, nil
	}

	data, err := c.doRequest(ctx, http.MethodGet, "/projects", nil, nil, "list projects", "failed to fetch projects")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Projects []Project `json:"projects"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing projects response: %w", err)
	}

	c.cache.set(payload.Projects)
	return payload.Projects, nil
}

func (c *Client) CreateProject(ctx context.Context, name, description string) (*Project, error) {
	body := Project{Name: name, Description: description}
	data, err := c.doRequest(ctx, http.MethodPost, "/projects", nil, body, "create project", "failed to create project")
	if err != nil {
		return nil, err
	}
	c.cache.invalidate()
	return decodeProject(data)
}

func (c *Client) UpdateProject(ctx context.Context, p Project) (*Project, error) {
	data, err := c.doRequest(ctx, http.MethodPut, "/projects/"+p.ID, nil, p, "update project", "failed to update project")
	if err != nil {
		return nil, err
	}
	c.cache.invalidate()
	return decodeProject(data)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/projects/"+id, nil, nil, "delete project", "failed to delete project")
	if err != nil {
		return err
	}
	c.cache.invalidate()
	return nil
}

func decodeProject(data json.RawMessage) (*Project, error) {
	var payload struct {
		Project *Project `json:"project"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing project response: %w", err)
	}
	return payload.Project, nil
}
