package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// ListUsers returns all users. Admin only on the server side.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	data, err := c.doRequest(ctx, http.MethodGet, "/users", nil, nil, "list users", "failed to fetch users")
	if err != nil {
		return nil, err
	}

	var payload struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing users response: %w", err)
	}

	return payload.Users, nil
}

func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/users", nil, req, "create user", "failed to create user")
	if err != nil {
		return nil, err
	}
	return decodeUser(data)
}

func (c *Client) UpdateUserPassword(ctx context.Context, id, password string) (*User, error) {
	body := map[string]string{"password": password}
	data, err := c.doRequest(ctx, http.MethodPut, "/users/"+id+"/password", nil, body, "update user password", "failed to update user password")
	if err != nil {
		return nil, err
	}
	return decodeUser(data)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, "/users/"+id, nil, nil, "delete user", "failed to delete user")
	return err
}

func decodeUser(data json.RawMessage) (*User, error) {
	var payload struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parsing user response: %w", err)
	}
	return payload.User, nil
}
