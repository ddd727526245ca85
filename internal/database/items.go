package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

const itemColumns = `id, owner_id, name, description, available, request_id, created_at, updated_at`

func (db *DB) CreateItem(ctx context.Context, item *models.Item) error {
	query := `INSERT INTO items (owner_id, name, description, available, request_id, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		item.OwnerID,
		item.Name,
		item.Description,
		item.Available,
		item.RequestID,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	item.ID = id
	item.CreatedAt = now
	item.UpdatedAt = now
	return nil
}

func (db *DB) GetItemByID(ctx context.Context, id int64) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = ?`
	var item models.Item
	err := db.QueryRowContext(ctx, query, id).Scan(
		&item.ID, &item.OwnerID, &item.Name, &item.Description,
		&item.Available, &item.RequestID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return &item, nil
}

// UpdateItemOwned applies a partial update restricted to rows owned by
// ownerID. A zero row count covers both a missing item and a foreign
// owner; callers treat it as not found.
func (db *DB) UpdateItemOwned(ctx context.Context, itemID, ownerID int64, name, description *string, available *bool) (int64, error) {
	query := `UPDATE items
                 SET name = COALESCE(?, name),
                     description = COALESCE(?, description),
                     available = COALESCE(?, available),
                     updated_at = ?
               WHERE id = ? AND owner_id = ?`
	result, err := db.ExecContext(ctx, query, name, description, available, time.Now().UTC(), itemID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to update item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

// DeleteItemOwned deletes by id with an explicit ownership predicate.
func (db *DB) DeleteItemOwned(ctx context.Context, itemID, ownerID int64) (int64, error) {
	result, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ? AND owner_id = ?`, itemID, ownerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete item: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows, nil
}

func (db *DB) GetItemsByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ? ORDER BY id ASC`
	return db.queryItems(ctx, query, ownerID)
}

// GetItemsByOwnerPage returns one page of the owner's items, newest
// first. page is a zero-based page index.
func (db *DB) GetItemsByOwnerPage(ctx context.Context, ownerID int64, page, size int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE owner_id = ?
              ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, ownerID, size, page*size)
}

// SearchItems finds available items whose name or description contains
// the text, case-insensitive.
func (db *DB) SearchItems(ctx context.Context, text string) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1
                AND (instr(lower(name), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)
              ORDER BY id ASC`
	return db.queryItems(ctx, query, text, text)
}

func (db *DB) SearchItemsPage(ctx context.Context, text string, page, size int) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items
              WHERE available = 1
                AND (instr(lower(name), lower(?)) > 0 OR instr(lower(description), lower(?)) > 0)
              ORDER BY id ASC LIMIT ? OFFSET ?`
	return db.queryItems(ctx, query, text, text, size, page*size)
}

func (db *DB) GetItemsByRequestID(ctx context.Context, requestID int64) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id = ? ORDER BY id ASC`
	return db.queryItems(ctx, query, requestID)
}

// GetItemsWithRequest returns every item that was created against some
// request, for grouping by request id on the caller side.
func (db *DB) GetItemsWithRequest(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE request_id IS NOT NULL ORDER BY id ASC`
	return db.queryItems(ctx, query)
}

// GetItemsByIDs returns the listed items for grouping by id on the
// caller side.
func (db *DB) GetItemsByIDs(ctx context.Context, ids []int64) ([]models.Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + itemColumns + ` FROM items WHERE id IN (` + placeholders(len(ids)) + `) ORDER BY id ASC`
	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}
	return db.queryItems(ctx, query, args...)
}

func (db *DB) GetAllItems(ctx context.Context) ([]models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items ORDER BY id ASC`
	return db.queryItems(ctx, query)
}

func (db *DB) queryItems(ctx context.Context, query string, args ...interface{}) ([]models.Item, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		err := rows.Scan(
			&item.ID, &item.OwnerID, &item.Name, &item.Description,
			&item.Available, &item.RequestID, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// placeholders builds a "?, ?, ?" list for IN clauses.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
