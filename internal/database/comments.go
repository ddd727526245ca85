package database

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/models"
)

const commentColumns = `c.id, c.item_id, c.author_id, c.text, c.created, u.name`

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, text, created) VALUES (?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query, comment.ItemID, comment.AuthorID, comment.Text, now)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	comment.ID = id
	comment.Created = now
	return nil
}

// GetCommentsByItemID returns an item's comments joined with the
// author's display name.
func (db *DB) GetCommentsByItemID(ctx context.Context, itemID int64) ([]models.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments c
              JOIN users u ON u.id = c.author_id
              WHERE c.item_id = ? ORDER BY c.created ASC`
	return db.queryComments(ctx, query, itemID)
}

// GetCommentsByItemIDs returns comments of all listed items for
// grouping by item id on the caller side.
func (db *DB) GetCommentsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + commentColumns + ` FROM comments c
              JOIN users u ON u.id = c.author_id
              WHERE c.item_id IN (` + placeholders(len(itemIDs)) + `) ORDER BY c.created ASC`
	args := make([]interface{}, 0, len(itemIDs))
	for _, id := range itemIDs {
		args = append(args, id)
	}
	return db.queryComments(ctx, query, args...)
}

func (db *DB) queryComments(ctx context.Context, query string, args ...interface{}) ([]models.Comment, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.ItemID, &c.AuthorID, &c.Text, &c.Created, &c.AuthorName); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
