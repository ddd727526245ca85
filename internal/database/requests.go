package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

func (db *DB) CreateRequest(ctx context.Context, request *models.Request) error {
	query := `INSERT INTO requests (requester_id, description, created) VALUES (?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, request.RequesterID, request.Description, now)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	request.ID = id
	request.Created = now
	return nil
}

func (db *DB) GetRequestByID(ctx context.Context, id int64) (*models.Request, error) {
	query := `SELECT id, requester_id, description, created FROM requests WHERE id = ?`
	var r models.Request
	err := db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.RequesterID, &r.Description, &r.Created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &r, nil
}

func (db *DB) GetRequestsByRequester(ctx context.Context, requesterID int64) ([]models.Request, error) {
	query := `SELECT id, requester_id, description, created FROM requests
              WHERE requester_id = ? ORDER BY created ASC`
	return db.queryRequests(ctx, query, requesterID)
}

// GetRequestsFromOthers lists requests placed by everyone except the
// user, newest first.
func (db *DB) GetRequestsFromOthers(ctx context.Context, userID int64) ([]models.Request, error) {
	query := `SELECT id, requester_id, description, created FROM requests
              WHERE requester_id != ? ORDER BY created DESC`
	return db.queryRequests(ctx, query, userID)
}

func (db *DB) GetRequestsFromOthersPage(ctx context.Context, userID int64, page, size int) ([]models.Request, error) {
	query := `SELECT id, requester_id, description, created FROM requests
              WHERE requester_id != ? ORDER BY created DESC LIMIT ? OFFSET ?`
	return db.queryRequests(ctx, query, userID, size, page*size)
}

func (db *DB) queryRequests(ctx context.Context, query string, args ...interface{}) ([]models.Request, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get requests: %w", err)
	}
	defer rows.Close()

	var requests []models.Request
	for rows.Next() {
		var r models.Request
		if err := rows.Scan(&r.ID, &r.RequesterID, &r.Description, &r.Created); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
