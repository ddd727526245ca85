package service

import (
	"context"
	"errors"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	db     *database.DB
	users  *UserService
	logger *zerolog.Logger
	now    func() time.Time
}

func NewBookingService(db *database.DB, users *UserService, logger *zerolog.Logger) *BookingService {
	return &BookingService{db: db, users: users, logger: logger, now: utcNow}
}

// utcNow is the default clock. Wire timestamps carry no zone and are
// read as UTC, so everything compared against them is UTC too.
func utcNow() time.Time { return time.Now().UTC() }

type BookingInput struct {
	ItemID int64                 `json:"itemId"`
	Start  models.DateTime       `json:"start"`
	End    models.DateTime       `json:"end"`
	Status *models.BookingStatus `json:"status"`
}

// Create places a WAITING booking of an available item. The checks run
// in a fixed order so that each failure keeps its classification: a
// missing item, booking one's own item and an occupied period are all
// not-found, an unavailable item is a bad request.
func (s *BookingService) Create(ctx context.Context, bookerID int64, in *BookingInput) (*BookingResponse, error) {
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}
	if fields := s.validateBookingDates(in); len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	item, err := s.db.GetItemByID(ctx, in.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no item with id %d", in.ItemID)
		}
		return nil, err
	}
	booker, err := s.users.user(ctx, bookerID)
	if err != nil {
		return nil, err
	}
	if !item.Available {
		return nil, BadRequestf("item %d is not available", item.ID)
	}
	if item.OwnerID == bookerID {
		return nil, NotFoundf("user %d cannot book their own item", bookerID)
	}
	if in.Status != nil && *in.Status != models.StatusWaiting {
		return nil, BadRequestf("a new booking must have status WAITING")
	}

	start, end := time.Time(in.Start), time.Time(in.End)
	free, err := s.db.IsPeriodFree(ctx, item.ID, start, end)
	if err != nil {
		return nil, err
	}
	if !free {
		return nil, NotFoundf("item %d is already booked for this period", item.ID)
	}

	booking := &models.Booking{
		ItemID:   item.ID,
		BookerID: bookerID,
		Start:    start.UTC(),
		End:      end.UTC(),
		Status:   models.StatusWaiting,
	}
	if err := s.db.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info().
		Int64("booking_id", booking.ID).
		Int64("item_id", item.ID).
		Int64("booker_id", bookerID).
		Msg("booking created")
	return newBookingResponse(booking, newItemResponse(item), newUserResponse(booker)), nil
}

// SetState resolves a WAITING booking. The owner approves or rejects,
// the booker may withdraw by sending approved=false; any other
// combination is reported as not found. An APPROVED booking is final.
func (s *BookingService) SetState(ctx context.Context, userID, bookingID int64, approved bool) (*BookingResponse, error) {
	booking, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.db.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no item with id %d", booking.ItemID)
		}
		return nil, err
	}
	var status models.BookingStatus
	switch {
	case item.OwnerID == userID && approved:
		status = models.StatusApproved
	case item.OwnerID == userID:
		status = models.StatusRejected
	case booking.BookerID == userID && !approved:
		status = models.StatusCanceled
	default:
		return nil, NotFoundf("user %d cannot change booking %d", userID, bookingID)
	}

	// The role check runs first: outsiders get not-found even on a
	// settled booking, participants hit the terminal guard.
	if booking.Status == models.StatusApproved {
		return nil, BadRequestf("booking %d is already approved", bookingID)
	}

	if err := s.db.UpdateBookingStatus(ctx, bookingID, status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no booking with id %d", bookingID)
		}
		return nil, err
	}
	s.logger.Info().
		Int64("booking_id", bookingID).
		Str("status", string(status)).
		Msg("booking state changed")

	booking.Status = status
	booker, err := s.users.user(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}
	return newBookingResponse(booking, newItemResponse(item), newUserResponse(booker)), nil
}

// GetByID returns the booking to its booker or to the item's owner;
// everyone else learns nothing beyond "not found".
func (s *BookingService) GetByID(ctx context.Context, userID, bookingID int64) (*BookingResponse, error) {
	booking, err := s.booking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	item, err := s.db.GetItemByID(ctx, booking.ItemID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no item with id %d", booking.ItemID)
		}
		return nil, err
	}
	if booking.BookerID != userID && item.OwnerID != userID {
		return nil, NotFoundf("user %d has no access to booking %d", userID, bookingID)
	}
	booker, err := s.users.user(ctx, booking.BookerID)
	if err != nil {
		return nil, err
	}
	return newBookingResponse(booking, newItemResponse(item), newUserResponse(booker)), nil
}

// ListForUser lists the caller's bookings, or with ownerOnly the
// bookings of the caller's items, filtered by state and ordered newest
// end first. from and size translate directly to OFFSET and LIMIT.
func (s *BookingService) ListForUser(ctx context.Context, userID int64, ownerOnly bool, state string, from, size *int) ([]BookingResponse, error) {
	if (from != nil && *from <= 0) || (size != nil && *size <= 0) {
		return nil, BadRequestf("no such page")
	}
	filter, err := models.ParseBookingFilter(state)
	if err != nil {
		return nil, BadRequestf("%s", err)
	}
	if _, err := s.users.user(ctx, userID); err != nil {
		return nil, err
	}

	now := s.now()
	var bookings []models.Booking
	if from != nil && size != nil {
		bookings, err = s.db.GetUserBookingsPage(ctx, userID, ownerOnly, filter, now, *from, *size)
	} else {
		bookings, err = s.db.GetUserBookings(ctx, userID, ownerOnly, filter, now)
	}
	if err != nil {
		return nil, err
	}
	return s.buildBookingResponses(ctx, bookings)
}

// buildBookingResponses resolves items and bookers in two batch
// queries and assembles the full response forms.
func (s *BookingService) buildBookingResponses(ctx context.Context, bookings []models.Booking) ([]BookingResponse, error) {
	itemIDs := make([]int64, 0, len(bookings))
	userIDs := make([]int64, 0, len(bookings))
	seenItems := make(map[int64]bool)
	seenUsers := make(map[int64]bool)
	for i := range bookings {
		if !seenItems[bookings[i].ItemID] {
			seenItems[bookings[i].ItemID] = true
			itemIDs = append(itemIDs, bookings[i].ItemID)
		}
		if !seenUsers[bookings[i].BookerID] {
			seenUsers[bookings[i].BookerID] = true
			userIDs = append(userIDs, bookings[i].BookerID)
		}
	}

	items, err := s.db.GetItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, err
	}
	itemByID := make(map[int64]*models.Item, len(items))
	for i := range items {
		itemByID[items[i].ID] = &items[i]
	}

	users, err := s.db.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	userByID := make(map[int64]*models.User, len(users))
	for i := range users {
		userByID[users[i].ID] = &users[i]
	}

	out := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		b := &bookings[i]
		var item *ItemResponse
		if it, ok := itemByID[b.ItemID]; ok {
			item = newItemResponse(it)
		}
		var booker *UserResponse
		if u, ok := userByID[b.BookerID]; ok {
			booker = newUserResponse(u)
		}
		out = append(out, *newBookingResponse(b, item, booker))
	}
	return out, nil
}

func (s *BookingService) booking(ctx context.Context, id int64) (*models.Booking, error) {
	booking, err := s.db.GetBookingByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no booking with id %d", id)
		}
		return nil, err
	}
	return booking, nil
}

// validateBookingDates requires both endpoints, a strictly positive
// duration and a start no earlier than now.
func (s *BookingService) validateBookingDates(in *BookingInput) map[string]string {
	fields := make(map[string]string)
	start, end := time.Time(in.Start), time.Time(in.End)
	if start.IsZero() {
		fields["start"] = "start is required"
	}
	if end.IsZero() {
		fields["end"] = "end is required"
	}
	if len(fields) > 0 {
		return fields
	}
	if !start.Before(end) {
		fields["end"] = "end must be after start"
	}
	if start.Before(s.now()) {
		fields["start"] = "start must not be in the past"
	}
	return fields
}
