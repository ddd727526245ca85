package database

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Name: "user " + email}
	require.NoError(t, db.CreateUser(context.Background(), user))
	return user
}

func createTestItem(t *testing.T, db *DB, ownerID int64, name string, available bool) *models.Item {
	t.Helper()
	item := &models.Item{OwnerID: ownerID, Name: name, Description: name + " description", Available: available}
	require.NoError(t, db.CreateItem(context.Background(), item))
	return item
}

func TestNewDB(t *testing.T) {
	db := newTestDB(t)

	t.Run("ForeignKeysEnforced", func(t *testing.T) {
		item := &models.Item{OwnerID: 999, Name: "orphan"}
		err := db.CreateItem(context.Background(), item)
		assert.Error(t, err)
	})

	t.Run("TablesExist", func(t *testing.T) {
		for _, table := range []string{"users", "items", "bookings", "requests", "comments"} {
			var name string
			err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
			assert.NoError(t, err, table)
		}
	})
}

func TestDB_CascadeDelete(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	booker := createTestUser(t, db, "booker@example.com")
	item := createTestItem(t, db, owner.ID, "drill", true)

	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: booker.ID,
		Start:    time.Now().Add(time.Hour),
		End:      time.Now().Add(2 * time.Hour),
		Status:   models.StatusWaiting,
	}
	require.NoError(t, db.CreateBooking(ctx, booking))

	comment := &models.Comment{ItemID: item.ID, AuthorID: booker.ID, Text: "works great"}
	require.NoError(t, db.CreateComment(ctx, comment))

	// Deleting the owner removes the item and everything hanging off it.
	require.NoError(t, db.DeleteUser(ctx, owner.ID))

	_, err := db.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = db.GetBookingByID(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := db.GetCommentsByItemID(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestDB_ErrorPaths(t *testing.T) {
	logger := zerolog.New(io.Discard)
	db, err := NewDB(":memory:", &logger)
	require.NoError(t, err)
	db.Close() // Close the DB to trigger errors

	ctx := context.Background()

	t.Run("CreateUser_Error", func(t *testing.T) {
		assert.Error(t, db.CreateUser(ctx, &models.User{Email: "x@example.com"}))
	})

	t.Run("GetItemByID_Error", func(t *testing.T) {
		_, err := db.GetItemByID(ctx, 1)
		assert.Error(t, err)
	})

	t.Run("CreateBooking_Error", func(t *testing.T) {
		assert.Error(t, db.CreateBooking(ctx, &models.Booking{}))
	})

	t.Run("IsPeriodFree_Error", func(t *testing.T) {
		_, err := db.IsPeriodFree(ctx, 1, time.Now(), time.Now())
		assert.Error(t, err)
	})
}
