package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// GrandReport fetches the pre-aggregated project-by-role report for a
// date range. An empty range means everything the server has.
func (c *Client) GrandReport(ctx context.Context, startDate, endDate string) (*GrandReport, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}

	data, err := c.doRequest(ctx, http.MethodGet, "/reports/grand", q, nil, "grand report", "failed to fetch grand report")
	if err != nil {
		return nil, err
	}

	var report GrandReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing grand report response: %w", err)
	}

	return &report, nil
}
