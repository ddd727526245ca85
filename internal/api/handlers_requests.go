package api

import (
	"net/http"

	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in service.RequestInput
	if !decodeBody(w, r, &in) {
		return
	}
	request, err := s.requests.Create(r.Context(), uid, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (s *HTTPServer) handleGetOwnRequests(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	requests, err := s.requests.GetOwn(r.Context(), uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetAllRequests(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	from, ok := queryInt(w, r, "from")
	if !ok {
		return
	}
	size, ok := queryInt(w, r, "size")
	if !ok {
		return
	}
	requests, err := s.requests.GetAllFromOthers(r.Context(), uid, from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (s *HTTPServer) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	requestID, ok := pathID(w, chi.URLParam(r, "requestId"))
	if !ok {
		return
	}
	request, err := s.requests.GetByID(r.Context(), uid, requestID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
