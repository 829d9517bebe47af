package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/obsworks/tasklog/internal/api"
)

const (
	StatusLogged = "logged"
	StatusFailed = "failed"
)

// Submission is a locally recorded upload attempt of one day log. The
// full wire payload is kept so failed uploads can be retried as-is.
type Submission struct {
	ID         int
	RemoteID   string
	UserID     string
	Date       string
	TotalHours float64
	TaskCount  int
	Payload    api.CreateTaskLogRequest
	Status     string
	LastError  string
	CreatedAt  time.Time
}

// RecordSubmission saves an upload attempt. status is StatusLogged or
// StatusFailed; lastError carries the failure message for retries.
func (db *DB) RecordSubmission(req api.CreateTaskLogRequest, remoteID, status, lastError string) (int64, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("marshaling payload: %w", err)
	}

	result, err := db.Exec(
		`INSERT INTO submissions (remote_id, user_id, date, total_hours, task_count, payload, status, last_error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		remoteID, req.UserID, req.Date, req.TotalHours, len(req.Tasks), string(payload), status, lastError,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting submission: %w", err)
	}
	return result.LastInsertId()
}

// MarkLogged flips a failed submission to logged after a successful
// retry.
func (db *DB) MarkLogged(id int, remoteID string) error {
	_, err := db.Exec(
		"UPDATE submissions SET status = ?, remote_id = ?, last_error = '' WHERE id = ?",
		StatusLogged, remoteID, id,
	)
	return err
}

// RecentSubmissions returns the latest n submissions, newest first.
func (db *DB) RecentSubmissions(n int) ([]Submission, error) {
	return db.querySubmissions(
		`SELECT id, remote_id, user_id, date, total_hours, task_count, payload, status, last_error, created_at
		 FROM submissions
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`, n,
	)
}

// FailedSubmissions returns uploads still awaiting a successful retry,
// oldest first.
func (db *DB) FailedSubmissions() ([]Submission, error) {
	return db.querySubmissions(
		`SELECT id, remote_id, user_id, date, total_hours, task_count, payload, status, last_error, created_at
		 FROM submissions
		 WHERE status = ?
		 ORDER BY created_at ASC, id ASC`, StatusFailed,
	)
}

func (db *DB) querySubmissions(query string, args ...interface{}) ([]Submission, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying submissions: %w", err)
	}
	defer rows.Close()

	var subs []Submission
	for rows.Next() {
		var s Submission
		var remoteID, lastError sql.NullString
		var payload, createdStr string

		if err := rows.Scan(
			&s.ID, &remoteID, &s.UserID, &s.Date, &s.TotalHours, &s.TaskCount,
			&payload, &s.Status, &lastError, &createdStr,
		); err != nil {
			return nil, fmt.Errorf("scanning submission: %w", err)
		}

		s.RemoteID = remoteID.String
		s.LastError = lastError.String

		if err := json.Unmarshal([]byte(payload), &s.Payload); err != nil {
			return nil, fmt.Errorf("parsing submission payload: %w", err)
		}
		if t, err := time.Parse("2006-01-02 15:04:05", createdStr); err == nil {
			s.CreatedAt = t
		}

		subs = append(subs, s)
	}

	return subs, rows.Err()
}
