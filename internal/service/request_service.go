package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/database"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type RequestService struct {
	db     *database.DB
	users  *UserService
	items  *ItemService
	logger *zerolog.Logger
}

func NewRequestService(db *database.DB, users *UserService, items *ItemService, logger *zerolog.Logger) *RequestService {
	return &RequestService{db: db, users: users, items: items, logger: logger}
}

type RequestInput struct {
	Description string `json:"description"`
}

func (s *RequestService) Create(ctx context.Context, requesterID int64, in *RequestInput) (*RequestResponse, error) {
	if in == nil {
		return nil, BadRequestf("request body is empty")
	}
	if _, err := s.users.user(ctx, requesterID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, ValidationError(map[string]string{"description": "description must not be blank"})
	}

	request := &models.Request{RequesterID: requesterID, Description: in.Description}
	if err := s.db.CreateRequest(ctx, request); err != nil {
		return nil, err
	}
	s.logger.Info().Int64("request_id", request.ID).Int64("requester_id", requesterID).Msg("request created")
	return newRequestResponse(request, nil), nil
}

// GetOwn lists the caller's requests oldest first, each with the items
// offered against it.
func (s *RequestService) GetOwn(ctx context.Context, userID int64) ([]RequestResponse, error) {
	if _, err := s.users.user(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.db.GetRequestsByRequester(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.buildRequestResponses(ctx, requests)
}

// GetAllFromOthers lists everyone else's requests newest first. from is
// a zero-based page index.
func (s *RequestService) GetAllFromOthers(ctx context.Context, userID int64, from, size *int) ([]RequestResponse, error) {
	if err := checkPage(from, size); err != nil {
		return nil, err
	}
	if _, err := s.users.user(ctx, userID); err != nil {
		return nil, err
	}

	var requests []models.Request
	var err error
	if from != nil && size != nil {
		requests, err = s.db.GetRequestsFromOthersPage(ctx, userID, *from, *size)
	} else {
		requests, err = s.db.GetRequestsFromOthers(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return s.buildRequestResponses(ctx, requests)
}

func (s *RequestService) GetByID(ctx context.Context, userID, requestID int64) (*RequestResponse, error) {
	if _, err := s.users.user(ctx, userID); err != nil {
		return nil, err
	}
	request, err := s.db.GetRequestByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, NotFoundf("no request with id %d", requestID)
		}
		return nil, err
	}

	items, err := s.db.GetItemsByRequestID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	responses := make([]ItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, *newItemResponse(&items[i]))
	}
	return newRequestResponse(request, responses), nil
}

func (s *RequestService) buildRequestResponses(ctx context.Context, requests []models.Request) ([]RequestResponse, error) {
	grouped, err := s.items.itemsByRequest(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RequestResponse, 0, len(requests))
	for i := range requests {
		out = append(out, *newRequestResponse(&requests[i], grouped[requests[i].ID]))
	}
	return out, nil
}
