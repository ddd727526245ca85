package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shareit/internal/models"
)

const bookingColumns = `b.id, b.item_id, b.booker_id, b.start_date, b.end_date, b.status, b.created_at, b.updated_at`

func (db *DB) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `INSERT INTO bookings (item_id, booker_id, start_date, end_date, status, created_at, updated_at)
              VALUES (?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := db.ExecContext(ctx, query,
		booking.ItemID,
		booking.BookerID,
		booking.Start.UTC(),
		booking.End.UTC(),
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now
	return nil
}

func (db *DB) GetBookingByID(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = ?`
	var b models.Booking
	err := db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &b, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status models.BookingStatus) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// IsPeriodFree reports whether no WAITING or APPROVED booking of the
// item intersects [start, end]. Boundaries are inclusive: touching
// endpoints count as overlap.
func (db *DB) IsPeriodFree(ctx context.Context, itemID int64, start, end time.Time) (bool, error) {
	query := `SELECT COUNT(*)
                FROM bookings b
               WHERE b.item_id = ?
                 AND b.status IN ('WAITING', 'APPROVED')
                 AND (   b.start_date BETWEEN ? AND ?
                      OR b.end_date   BETWEEN ? AND ?
                      OR ? BETWEEN b.start_date AND b.end_date
                      OR ? BETWEEN b.start_date AND b.end_date)`
	s, e := start.UTC(), end.UTC()
	var count int
	err := db.QueryRowContext(ctx, query, itemID, s, e, s, e, s, e).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check period: %w", err)
	}
	return count == 0, nil
}

// GetUserBookings lists bookings either placed by the user (ownerOnly
// false) or placed against the user's items (ownerOnly true), filtered
// by state relative to now, newest end first.
func (db *DB) GetUserBookings(ctx context.Context, userID int64, ownerOnly bool, filter models.BookingFilter, now time.Time) ([]models.Booking, error) {
	query, args := buildUserBookingsQuery(userID, ownerOnly, filter, now)
	return db.queryBookings(ctx, query, args...)
}

// GetUserBookingsPage is GetUserBookings with a raw LIMIT/OFFSET page.
func (db *DB) GetUserBookingsPage(ctx context.Context, userID int64, ownerOnly bool, filter models.BookingFilter, now time.Time, offset, limit int) ([]models.Booking, error) {
	query, args := buildUserBookingsQuery(userID, ownerOnly, filter, now)
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return db.queryBookings(ctx, query, args...)
}

func buildUserBookingsQuery(userID int64, ownerOnly bool, filter models.BookingFilter, now time.Time) (string, []interface{}) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b`
	args := []interface{}{}
	if ownerOnly {
		query += ` JOIN items i ON i.id = b.item_id WHERE i.owner_id = ?`
	} else {
		query += ` WHERE b.booker_id = ?`
	}
	args = append(args, userID)

	switch filter {
	case models.FilterCurrent:
		query += ` AND ? BETWEEN b.start_date AND b.end_date`
		args = append(args, now.UTC())
	case models.FilterFuture:
		query += ` AND ? < b.start_date`
		args = append(args, now.UTC())
	case models.FilterPast:
		query += ` AND ? > b.end_date`
		args = append(args, now.UTC())
	case models.FilterWaiting:
		query += ` AND b.status = 'WAITING'`
	case models.FilterRejected:
		query += ` AND b.status = 'REJECTED'`
	}

	query += ` ORDER BY b.end_date DESC`
	return query, args
}

// GetApprovedBookingsByItemIDs returns APPROVED bookings of the given
// items, ascending by start, for last/next derivation.
func (db *DB) GetApprovedBookingsByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error) {
	if len(itemIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              WHERE b.status = 'APPROVED' AND b.item_id IN (` + placeholders(len(itemIDs)) + `)
              ORDER BY b.start_date ASC`
	args := make([]interface{}, 0, len(itemIDs))
	for _, id := range itemIDs {
		args = append(args, id)
	}
	return db.queryBookings(ctx, query, args...)
}

// GetUserItemBookings returns the user's bookings of one item with any
// status. Used to gate comments.
func (db *DB) GetUserItemBookings(ctx context.Context, userID, itemID int64) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              WHERE b.booker_id = ? AND b.item_id = ? ORDER BY b.id ASC`
	return db.queryBookings(ctx, query, userID, itemID)
}

// GetBookingsInRange returns bookings whose period intersects
// [start, end], for report export.
func (db *DB) GetBookingsInRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
              WHERE b.start_date <= ? AND b.end_date >= ?
              ORDER BY b.start_date ASC`
	return db.queryBookings(ctx, query, end.UTC(), start.UTC())
}

func (db *DB) queryBookings(ctx context.Context, query string, args ...interface{}) ([]models.Booking, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		var b models.Booking
		err := rows.Scan(&b.ID, &b.ItemID, &b.BookerID, &b.Start, &b.End, &b.Status, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
