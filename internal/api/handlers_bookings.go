package api

import (
	"net/http"
	"strings"

	"shareit/internal/metrics"
	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
)

func (s *HTTPServer) handleCreateBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	var in service.BookingInput
	if !decodeBody(w, r, &in) {
		return
	}
	booking, err := s.bookings.Create(r.Context(), uid, &in)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	metrics.IncBookingCreated()
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleSetBookingState(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, chi.URLParam(r, "bookingId"))
	if !ok {
		return
	}

	if !r.URL.Query().Has("approved") {
		writeError(w, http.StatusBadRequest, "approved query parameter is required")
		return
	}
	raw := r.URL.Query().Get("approved")
	var approved bool
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		writeServiceError(w, service.NotFoundf("unknown state: %s", raw))
		return
	}

	booking, err := s.bookings.SetState(r.Context(), uid, bookingID, approved)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetBooking(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, chi.URLParam(r, "bookingId"))
	if !ok {
		return
	}
	booking, err := s.bookings.GetByID(r.Context(), uid, bookingID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) handleGetUserBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, false)
}

func (s *HTTPServer) handleGetOwnerBookings(w http.ResponseWriter, r *http.Request) {
	s.listBookings(w, r, true)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request, ownerOnly bool) {
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
	bookings, err := s.bookings.ListForUser(r.Context(), uid, ownerOnly, r.URL.Query().Get("state"), from, size)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
