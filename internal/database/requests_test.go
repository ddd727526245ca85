package database

import (
	"context"
	"testing"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestRequest(t *testing.T, db *DB, requesterID int64, description string) *models.Request {
	t.Helper()
	request := &models.Request{RequesterID: requesterID, Description: description}
	require.NoError(t, db.CreateRequest(context.Background(), request))
	return request
}

func TestDB_Requests(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	first := createTestRequest(t, db, alice.ID, "need a drill")
	second := createTestRequest(t, db, alice.ID, "need a ladder")
	foreign := createTestRequest(t, db, bob.ID, "need a saw")

	t.Run("GetByID", func(t *testing.T) {
		got, err := db.GetRequestByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "need a drill", got.Description)

		_, err = db.GetRequestByID(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("OwnOldestFirst", func(t *testing.T) {
		requests, err := db.GetRequestsByRequester(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, requests, 2)
		assert.Equal(t, first.ID, requests[0].ID)
		assert.Equal(t, second.ID, requests[1].ID)
	})

	t.Run("FromOthersExcludesOwn", func(t *testing.T) {
		requests, err := db.GetRequestsFromOthers(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, requests, 1)
		assert.Equal(t, foreign.ID, requests[0].ID)
	})

	t.Run("FromOthersPage", func(t *testing.T) {
		requests, err := db.GetRequestsFromOthersPage(ctx, bob.ID, 0, 1)
		require.NoError(t, err)
		require.Len(t, requests, 1)

		empty, err := db.GetRequestsFromOthersPage(ctx, bob.ID, 5, 1)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}

func TestDB_Comments(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	owner := createTestUser(t, db, "owner@example.com")
	author := createTestUser(t, db, "author@example.com")
	item := createTestItem(t, db, owner.ID, "drill", true)
	other := createTestItem(t, db, owner.ID, "saw", true)

	comment := &models.Comment{ItemID: item.ID, AuthorID: author.ID, Text: "solid tool"}
	require.NoError(t, db.CreateComment(ctx, comment))
	assert.NotZero(t, comment.ID)

	t.Run("JoinsAuthorName", func(t *testing.T) {
		comments, err := db.GetCommentsByItemID(ctx, item.ID)
		require.NoError(t, err)
		require.Len(t, comments, 1)
		assert.Equal(t, "user author@example.com", comments[0].AuthorName)
	})

	t.Run("ByItemIDs", func(t *testing.T) {
		comments, err := db.GetCommentsByItemIDs(ctx, []int64{item.ID, other.ID})
		require.NoError(t, err)
		assert.Len(t, comments, 1)

		empty, err := db.GetCommentsByItemIDs(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)
	})
}
