package service

import (
	"shareit/internal/models"
)

// Response shapes mirror the public JSON API. Mapping from entities is
// explicit, one function per pair, no reflection.

type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type CommentResponse struct {
	ID         int64           `json:"id"`
	Text       string          `json:"text"`
	AuthorName string          `json:"authorName"`
	Created    models.DateTime `json:"created"`
	ItemID     int64           `json:"itemId"`
}

// BookingRef is the short booking form embedded into items.
type BookingRef struct {
	ID       int64 `json:"id"`
	BookerID int64 `json:"bookerId"`
}

type ItemResponse struct {
	ID          int64             `json:"id"`
	Owner       int64             `json:"owner"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *int64            `json:"requestId"`
	LastBooking *BookingRef       `json:"lastBooking"`
	NextBooking *BookingRef       `json:"nextBooking"`
	Comments    []CommentResponse `json:"comments"`
}

type BookingResponse struct {
	ID     int64                `json:"id"`
	Start  models.DateTime      `json:"start"`
	End    models.DateTime      `json:"end"`
	Item   *ItemResponse        `json:"item"`
	Booker *UserResponse        `json:"booker"`
	Status models.BookingStatus `json:"status"`
}

type RequestResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Requester   int64           `json:"requester"`
	Created     models.DateTime `json:"created"`
	Items       []ItemResponse  `json:"items"`
}

func newUserResponse(u *models.User) *UserResponse {
	return &UserResponse{ID: u.ID, Email: u.Email, Name: u.Name}
}

func newCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID,
		Text:       c.Text,
		AuthorName: c.AuthorName,
		Created:    models.DateTime(c.Created),
		ItemID:     c.ItemID,
	}
}

func newCommentResponses(comments []models.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentResponse(&comments[i]))
	}
	return out
}

func newItemResponse(it *models.Item) *ItemResponse {
	return &ItemResponse{
		ID:          it.ID,
		Owner:       it.OwnerID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
	}
}

func newBookingRef(b *models.Booking) *BookingRef {
	return &BookingRef{ID: b.ID, BookerID: b.BookerID}
}

func newBookingResponse(b *models.Booking, item *ItemResponse, booker *UserResponse) *BookingResponse {
	return &BookingResponse{
		ID:     b.ID,
		Start:  models.DateTime(b.Start),
		End:    models.DateTime(b.End),
		Item:   item,
		Booker: booker,
		Status: b.Status,
	}
}

func newRequestResponse(r *models.Request, items []ItemResponse) *RequestResponse {
	if items == nil {
		items = []ItemResponse{}
	}
	return &RequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Requester:   r.RequesterID,
		Created:     models.DateTime(r.Created),
		Items:       items,
	}
}
