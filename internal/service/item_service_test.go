package service

import (
	"context"
	"testing"
	"time"

	"shareit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemService_Create(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	owner := s.createUser(t, "owner@example.com")

	t.Run("Success", func(t *testing.T) {
		item := s.createItem(t, owner.ID, "drill", true)
		assert.NotZero(t, item.ID)
		assert.Equal(t, owner.ID, item.Owner)
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		_, err := s.items.Create(ctx, 9999, &ItemInput{
			Name: strPtr("x"), Description: strPtr("y"), Available: boolPtr(true),
		})
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("MissingFields", func(t *testing.T) {
		_, err := s.items.Create(ctx, owner.ID, &ItemInput{Name: strPtr("drill")})
		require.True(t, IsKind(err, KindValidation))
		e, _ := AsError(err)
		assert.Contains(t, e.Fields, "description")
		assert.Contains(t, e.Fields, "available")
	})

	t.Run("BlankName", func(t *testing.T) {
		_, err := s.items.Create(ctx, owner.ID, &ItemInput{
			Name: strPtr("  "), Description: strPtr("y"), Available: boolPtr(true),
		})
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("UnknownRequestLink", func(t *testing.T) {
		requestID := int64(9999)
		_, err := s.items.Create(ctx, owner.ID, &ItemInput{
			Name: strPtr("x"), Description: strPtr("y"), Available: boolPtr(true), RequestID: &requestID,
		})
		assert.True(t, IsKind(err, KindNotFound))
	})
}

func TestItemService_Update(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	owner := s.createUser(t, "owner@example.com")
	stranger := s.createUser(t, "stranger@example.com")
	item := s.createItem(t, owner.ID, "drill", true)

	t.Run("PartialUpdate", func(t *testing.T) {
		updated, err := s.items.Update(ctx, owner.ID, item.ID, &ItemInput{Available: boolPtr(false)})
		require.NoError(t, err)
		assert.False(t, updated.Available)
		assert.Equal(t, "drill", updated.Name)
	})

	t.Run("StrangerGetsNotFound", func(t *testing.T) {
		_, err := s.items.Update(ctx, stranger.ID, item.ID, &ItemInput{Name: strPtr("mine now")})
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("MissingItem", func(t *testing.T) {
		_, err := s.items.Update(ctx, owner.ID, 9999, &ItemInput{Name: strPtr("ghost")})
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("ZeroID", func(t *testing.T) {
		_, err := s.items.Update(ctx, owner.ID, 0, &ItemInput{Name: strPtr("x")})
		assert.True(t, IsKind(err, KindBadRequest))
	})
}

func TestItemService_Delete(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	owner := s.createUser(t, "owner@example.com")
	stranger := s.createUser(t, "stranger@example.com")
	item := s.createItem(t, owner.ID, "drill", true)

	err := s.items.Delete(ctx, stranger.ID, item.ID)
	assert.True(t, IsKind(err, KindNotFound))

	require.NoError(t, s.items.Delete(ctx, owner.ID, item.ID))

	_, err = s.items.GetByID(ctx, item.ID, owner.ID)
	assert.True(t, IsKind(err, KindNotFound))
}

func TestItemService_Search(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	owner := s.createUser(t, "owner@example.com")
	s.createItem(t, owner.ID, "Cordless Drill", true)
	s.createItem(t, owner.ID, "ladder", false)

	t.Run("FindsByName", func(t *testing.T) {
		items, err := s.items.Search(ctx, "drill", nil, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "Cordless Drill", items[0].Name)
	})

	t.Run("EmptyTextReturnsEmptyList", func(t *testing.T) {
		items, err := s.items.Search(ctx, "   ", nil, nil)
		require.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)
	})

	t.Run("UnavailableHidden", func(t *testing.T) {
		items, err := s.items.Search(ctx, "ladder", nil, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("BadPage", func(t *testing.T) {
		_, err := s.items.Search(ctx, "drill", intPtr(-1), intPtr(5))
		assert.True(t, IsKind(err, KindBadRequest))

		_, err = s.items.Search(ctx, "drill", intPtr(0), intPtr(0))
		assert.True(t, IsKind(err, KindBadRequest))
	})
}

func TestItemService_GetUserItems(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	now := fixedNow()
	s.bookings.now = func() time.Time { return now }
	s.items.now = func() time.Time { return now }

	owner := s.createUser(t, "owner@example.com")
	booker := s.createUser(t, "booker@example.com")
	item := s.createItem(t, owner.ID, "drill", true)

	// One finished and one upcoming APPROVED booking, plus one starting
	// exactly now which must not surface on either side.
	pastID := placeApproved(t, s, booker.ID, item.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))
	nextID := placeApproved(t, s, booker.ID, item.ID, now.Add(24*time.Hour), now.Add(48*time.Hour))
	placeApproved(t, s, booker.ID, item.ID, now, now.Add(12*time.Hour))

	_, err := s.items.AddComment(ctx, booker.ID, item.ID, &CommentInput{Text: "good drill"})
	require.NoError(t, err)

	t.Run("EnrichedListing", func(t *testing.T) {
		items, err := s.items.GetUserItems(ctx, owner.ID, nil, nil)
		require.NoError(t, err)
		require.Len(t, items, 1)

		got := items[0]
		require.NotNil(t, got.LastBooking)
		assert.Equal(t, pastID, got.LastBooking.ID)
		require.NotNil(t, got.NextBooking)
		assert.Equal(t, nextID, got.NextBooking.ID)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, "good drill", got.Comments[0].Text)
	})

	t.Run("NonOwnerViewHidesBookings", func(t *testing.T) {
		got, err := s.items.GetByID(ctx, item.ID, booker.ID)
		require.NoError(t, err)
		assert.Nil(t, got.LastBooking)
		assert.Nil(t, got.NextBooking)
		assert.Len(t, got.Comments, 1)
	})

	t.Run("OwnerViewShowsBookings", func(t *testing.T) {
		got, err := s.items.GetByID(ctx, item.ID, owner.ID)
		require.NoError(t, err)
		require.NotNil(t, got.LastBooking)
		assert.Equal(t, pastID, got.LastBooking.ID)
	})

	t.Run("BadPage", func(t *testing.T) {
		_, err := s.items.GetUserItems(ctx, owner.ID, intPtr(-1), intPtr(2))
		assert.True(t, IsKind(err, KindBadRequest))
	})

	t.Run("UnknownOwner", func(t *testing.T) {
		_, err := s.items.GetUserItems(ctx, 9999, nil, nil)
		assert.True(t, IsKind(err, KindNotFound))
	})
}

// placeApproved inserts an APPROVED booking directly, bypassing the
// service so past periods and occupied slots can be staged.
func placeApproved(t *testing.T, s *testServices, bookerID, itemID int64, start, end time.Time) int64 {
	t.Helper()
	booking := &models.Booking{
		ItemID:   itemID,
		BookerID: bookerID,
		Start:    start,
		End:      end,
		Status:   models.StatusApproved,
	}
	require.NoError(t, s.db.CreateBooking(context.Background(), booking))
	return booking.ID
}

func TestItemService_AddComment(t *testing.T) {
	s := newTestServices(t)
	ctx := context.Background()

	owner := s.createUser(t, "owner@example.com")
	booker := s.createUser(t, "booker@example.com")
	lurker := s.createUser(t, "lurker@example.com")
	item := s.createItem(t, owner.ID, "drill", true)

	now := fixedNow()
	placeApproved(t, s, booker.ID, item.ID, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	t.Run("Success", func(t *testing.T) {
		comment, err := s.items.AddComment(ctx, booker.ID, item.ID, &CommentInput{Text: "worked well"})
		require.NoError(t, err)
		assert.Equal(t, "user booker@example.com", comment.AuthorName)
		assert.Equal(t, item.ID, comment.ItemID)
	})

	t.Run("NoBookingNoComment", func(t *testing.T) {
		_, err := s.items.AddComment(ctx, lurker.ID, item.ID, &CommentInput{Text: "never used it"})
		assert.True(t, IsKind(err, KindBadRequest))
	})

	t.Run("BlankText", func(t *testing.T) {
		_, err := s.items.AddComment(ctx, booker.ID, item.ID, &CommentInput{Text: "  "})
		assert.True(t, IsKind(err, KindValidation))
	})

	t.Run("UnknownItem", func(t *testing.T) {
		_, err := s.items.AddComment(ctx, booker.ID, 9999, &CommentInput{Text: "hello"})
		assert.True(t, IsKind(err, KindNotFound))
	})

	t.Run("UnknownAuthor", func(t *testing.T) {
		_, err := s.items.AddComment(ctx, 9999, item.ID, &CommentInput{Text: "hello"})
		assert.True(t, IsKind(err, KindNotFound))
	})
}
