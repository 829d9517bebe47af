package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Login exchanges credentials for a user profile and a bearer token.
// The token is not stored here; the caller owns the session lifecycle.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	data, err := c.doRequest(ctx, http.MethodPost, "/auth/login", nil, creds, "login", "login failed")
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing login response: %w", err)
	}
	if result.Token == "" {
		return nil, newError("login", 0, "", "login response missing token")
	}

	return &result, nil
}
