package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDB_UpdateItemOwned(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "drill", true)

	t.Run("PartialUpdate", func(t *testing.T) {
		name := "hammer drill"
		rows, err := db.UpdateItemOwned(ctx, item.ID, owner.ID, &name, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		got, err := db.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, "hammer drill", got.Name)
		assert.Equal(t, "drill description", got.Description)
		assert.True(t, got.Available)
	})

	t.Run("AvailabilityToggle", func(t *testing.T) {
		available := false
		rows, err := db.UpdateItemOwned(ctx, item.ID, owner.ID, nil, nil, &available)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rows)

		got, err := db.GetItemByID(ctx, item.ID)
		require.NoError(t, err)
		assert.False(t, got.Available)
	})

	t.Run("ForeignOwnerTouchesNothing", func(t *testing.T) {
		name := "stolen"
		rows, err := db.UpdateItemOwned(ctx, item.ID, stranger.ID, &name, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, rows)
	})

	t.Run("MissingItem", func(t *testing.T) {
		name := "ghost"
		rows, err := db.UpdateItemOwned(ctx, 9999, owner.ID, &name, nil, nil)
		require.NoError(t, err)
		assert.Zero(t, rows)
	})
}

func TestDB_DeleteItemOwned(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	stranger := createTestUser(t, db, "stranger@example.com")
	item := createTestItem(t, db, owner.ID, "saw", true)

	rows, err := db.DeleteItemOwned(ctx, item.ID, stranger.ID)
	require.NoError(t, err)
	assert.Zero(t, rows)

	rows, err = db.DeleteItemOwned(ctx, item.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	_, err = db.GetItemByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDB_SearchItems(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	createTestItem(t, db, owner.ID, "Cordless Drill", true)
	createTestItem(t, db, owner.ID, "saw", true)

	hidden := &models.Item{OwnerID: owner.ID, Name: "drill press", Description: "heavy", Available: false}
	require.NoError(t, db.CreateItem(ctx, hidden))

	t.Run("CaseInsensitiveName", func(t *testing.T) {
		items, err := db.SearchItems(ctx, "DRILL")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Cordless Drill", items[0].Name)
	})

	t.Run("MatchesDescription", func(t *testing.T) {
		items, err := db.SearchItems(ctx, "saw desc")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "saw", items[0].Name)
	})

	t.Run("UnavailableExcluded", func(t *testing.T) {
		items, err := db.SearchItems(ctx, "press")
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("Page", func(t *testing.T) {
		items, err := db.SearchItemsPage(ctx, "r", 0, 1)
		require.NoError(t, err)
		assert.Len(t, items, 1)
	})
}

func TestDB_GetItemsByOwnerPage(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		createTestItem(t, db, owner.ID, name, true)
	}

	page, err := db.GetItemsByOwnerPage(ctx, owner.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, page, 2)

	last, err := db.GetItemsByOwnerPage(ctx, owner.ID, 2, 2)
	require.NoError(t, err)
	assert.Len(t, last, 1)
}

func TestDB_ItemRequestLink(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	requester := createTestUser(t, db, "requester@example.com")

	request := &models.Request{RequesterID: requester.ID, Description: "need a drill"}
	require.NoError(t, db.CreateRequest(ctx, request))

	item := &models.Item{OwnerID: owner.ID, Name: "drill", Available: true, RequestID: &request.ID}
	require.NoError(t, db.CreateItem(ctx, item))
	createTestItem(t, db, owner.ID, "unrelated", true)

	linked, err := db.GetItemsByRequestID(ctx, request.ID)
	require.NoError(t, err)
	require.Len(t, linked, 1)
	assert.Equal(t, item.ID, linked[0].ID)

	withRequest, err := db.GetItemsWithRequest(ctx)
	require.NoError(t, err)
	assert.Len(t, withRequest, 1)
}
