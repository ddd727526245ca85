package service

import (
	"context"
	"io"
	"testing"
	"time"

	"shareit/internal/database"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	db       *database.DB
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	logger := zerolog.New(io.Discard)
	db, err := database.NewDB(":memory:", &logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := NewUserService(db, &logger)
	items := NewItemService(db, users, &logger)
	bookings := NewBookingService(db, users, &logger)
	requests := NewRequestService(db, users, items, &logger)
	return &testServices{db: db, users: users, items: items, bookings: bookings, requests: requests}
}

func (s *testServices) createUser(t *testing.T, email string) *UserResponse {
	t.Helper()
	name := "user " + email
	user, err := s.users.Create(context.Background(), &UserInput{Email: &email, Name: &name})
	require.NoError(t, err)
	return user
}

func (s *testServices) createItem(t *testing.T, ownerID int64, name string, available bool) *ItemResponse {
	t.Helper()
	description := name + " description"
	item, err := s.items.Create(context.Background(), ownerID, &ItemInput{
		Name:        &name,
		Description: &description,
		Available:   &available,
	})
	require.NoError(t, err)
	return item
}

func strPtr(s string) *string { return &s }
func intPtr(v int) *int       { return &v }
func boolPtr(v bool) *bool    { return &v }

func fixedNow() time.Time {
	return time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC)
}
