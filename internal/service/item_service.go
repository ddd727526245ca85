package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type ItemService struct {
	db     *database.DB
	users  *UserService
	logger *zerolog.Logger
	now    func() time.Time
}

func NewItemService(db *database.DB, users *UserService, logger *zerolog.Logger) *ItemService {
	return &ItemService{db: db, users: users, logger: logger, now: utcNow}
}

// ItemInput carries the create/update payload. Nil fields on update
// keep the stored value.
type ItemInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

type CommentInput struct {
	Text string `json:"text"`
}

// GetUserItems lists the owner's items enriched with comments and the
// derived last/next bookings. from is a zero-based page index.
func (s *ItemService) GetUserItems(ctx context.Context, ownerID int64, from, size *int) ([]ItemResponse, error) {
	if err := checkPage(from, size); err != nil {
		return nil, err
	}
	if _, err := s.users.user(ctx, ownerID); err != nil {
		return nil, err
	}

	var items []models.Item
	var err error
	if from != nil && size != nil {
		items, err = s.db.GetItemsByOwnerPage(ctx, ownerID, *from, *size)
	} else {
		items, err = s.db.GetItemsByOwner(ctx, ownerID)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ID)
	}

	comments, err := s.db.GetCommentsByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentsByItem := make(map[int64][]CommentResponse)
	for i := range comments {
		commentsByItem[comments[i].ItemID] = append(commentsByItem[comments[i].ItemID], newCommentResponse(&comments[i]))
	}

	bookings, err := s.db.GetApprovedBookingsByItemIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	bookingsByItem := make(map[int64][]models.Booking)
	for i := range bookings {
		bookingsByItem[bookings[i].ItemID] = append(bookingsByItem[bookings[i].ItemID], bookings[i])
	}

	now := s.now()
	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		resp := newItemResponse(&items[i])
		resp.Comments = commentsByItem[items[i].ID]
		if resp.Comments == nil {
			resp.Comments = []CommentResponse{}
		}
		attachLastNext(resp, bookingsByItem[items[i].ID], now)
		out = append(out, *resp)
	}
	return out, nil
}

// GetByID returns the item with comments; the derived bookings are
// attached only when the caller owns it.
func (s *ItemService) GetByID(ctx context.Context, itemID, callerID int64) (*ItemResponse, error) {
	item, err := s.item(ctx, itemID)
	if err != nil {
		return nil, err
	}

	resp := newItemResponse(item)
	comments, err := s.db.GetCommentsByItemID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	resp.Comments = newCommentResponses(comments)

	if item.OwnerID == callerID {
		bookings, err := s.db.GetApprovedBookingsByItemIDs(ctx, []int64{itemID})
		if err != nil {
			return nil, err
		}
		attachLastNext(resp, bookings, s.now())
	}
	return resp, nil
}

func (s *ItemService) Create(ctx context.Context, ownerID int64, in *ItemInput) (*ItemResponse, error) {
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}
	if _, err := s.users.user(ctx, ownerID); err != nil {
		return nil, err
	}
	if fields := validateItemInput(in); len(fields) > 0 {
		return nil, ValidationError(fields)
	}

	item := &models.Item{
		OwnerID:     ownerID,
		Name:        *in.Name,
		Description: *in.Description,
		Available:   *in.Available,
	}
	if in.RequestID != nil {
		if _, err := s.db.GetRequestByID(ctx, *in.RequestID); err != nil {
			if errors.Is(err, database.ErrNotFound) {
				return nil, NotFoundf("no request with id %d", *in.RequestID)
			}
			return nil, err
		}
		item.RequestID = in.RequestID
	}

	if err := s.db.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("item_id", item.ID).Int64("owner_id", ownerID).Msg("item created")
	return newItemResponse(item), nil
}

// Update applies a partial update restricted to the caller's items. A
// missing item and a foreign item are both reported as not found.
func (s *ItemService) Update(ctx context.Context, ownerID, itemID int64, in *ItemInput) (*ItemResponse, error) {
	if itemID <= 0 {
		return nil, BadRequestf("item id is not set, update impossible")
	}
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}

	rows, err := s.db.UpdateItemOwned(ctx, itemID, ownerID, in.Name, in.Description, in.Available)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, NotFoundf("no item with id %d owned by user %d", itemID, ownerID)
	}

	item, err := s.item(ctx, itemID)
	if err != nil {
		return nil, err
	}
	return newItemResponse(item), nil
}

func (s *ItemService) Delete(ctx context.Context, ownerID, itemID int64) error {
	rows, err := s.db.DeleteItemOwned(ctx, itemID, ownerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return NotFoundf("no item with id %d owned by user %d", itemID, ownerID)
	}
	s.logger.Info().Int64("item_id", itemID).Int64("owner_id", ownerID).Msg("item deleted")
	return nil
}

// Search finds available items by a case-insensitive substring over
// name or description. Empty text yields an empty result set.
func (s *ItemService) Search(ctx context.Context, text string, from, size *int) ([]ItemResponse, error) {
	if err := checkPage(from, size); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return []ItemResponse{}, nil
	}

	var items []models.Item
	var err error
	if from != nil && size != nil {
		items, err = s.db.SearchItemsPage(ctx, text, *from, *size)
	} else {
		items, err = s.db.SearchItems(ctx, text)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ItemResponse, 0, len(items))
	for i := range items {
		out = append(out, *newItemResponse(&items[i]))
	}
	return out, nil
}

// AddComment stores a renter's comment. The author must have at least
// one booking of the item on record, with any status.
func (s *ItemService) AddComment(ctx context.Context, authorID, itemID int64, in *CommentInput) (*CommentResponse, error) {
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}
	author, err := s.users.user(ctx, authorID)
	if err != nil {
		return nil, err
	}
	if _, err := s.item(ctx, itemID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Text) == "" {
		return nil, ValidationError(map[string]string{"text": "text must not be blank"})
	}

	bookings, err := s.db.GetUserItemBookings(ctx, authorID, itemID)
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return nil, BadRequestf("user %d has nothing to comment on", authorID)
	}

	comment := &models.Comment{ItemID: itemID, AuthorID: authorID, Text: in.Text}
	if err := s.db.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	comment.AuthorName = author.Name
	resp := newCommentResponse(comment)
	return &resp, nil
}

// itemsByRequest groups every request-linked item for board views.
func (s *ItemService) itemsByRequest(ctx context.Context) (map[int64][]ItemResponse, error) {
	items, err := s.db.GetItemsWithRequest(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[int64][]ItemResponse)
	for i := range items {
		id := *items[i].RequestID
		grouped[id] = append(grouped[id], *newItemResponse(&items[i]))
	}
	return grouped, nil
}

func (s *ItemService) item(ctx context.Context, id int64) (*models.Item, error) {
	item, err := s.db.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no item with id %d", id)
		}
		return nil, err
	}
	return item, nil
}

// attachLastNext derives the display bookings from the item's APPROVED
// bookings: last is the latest-ending one started before now, next is
// the earliest-starting one after now. A booking starting exactly at
// now lands in neither partition.
func attachLastNext(resp *ItemResponse, bookings []models.Booking, now time.Time) {
	var last, next *models.Booking
	for i := range bookings {
		b := &bookings[i]
		switch {
		case b.Start.Before(now):
			if last == nil || !b.End.Before(last.End) {
				last = b
			}
		case b.Start.After(now):
			if next == nil || b.Start.Before(next.Start) {
				next = b
			}
		}
	}
	if last != nil {
		resp.LastBooking = newBookingRef(last)
	}
	if next != nil {
		resp.NextBooking = newBookingRef(next)
	}
}

func validateItemInput(in *ItemInput) map[string]string {
	fields := make(map[string]string)
	if in.Name == nil || strings.TrimSpace(*in.Name) == "" {
		fields["name"] = "name must not be blank"
	}
	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		fields["description"] = "description must not be blank"
	}
	if in.Available == nil {
		fields["available"] = "available is required"
	}
	return fields
}

// checkPage validates the page-index pagination used by item and
// request listings: from must be >= 0 and size > 0 when supplied.
func checkPage(from, size *int) error {
	if (from != nil && *from < 0) || (size != nil && *size <= 0) {
		return BadRequestf("no such page")
	}
	return nil
}
