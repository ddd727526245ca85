package models

import (
	"fmt"
	"strings"
)

// BookingStatus is the lifecycle state of a booking.
// WAITING is the only state allowed at creation; APPROVED is terminal.
type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	StatusCanceled BookingStatus = "CANCELED"
)

// BookingFilter selects bookings in list queries.
type BookingFilter string

const (
	FilterAll      BookingFilter = "ALL"
	FilterCurrent  BookingFilter = "CURRENT"
	FilterFuture   BookingFilter = "FUTURE"
	FilterPast     BookingFilter = "PAST"
	FilterWaiting  BookingFilter = "WAITING"
	FilterRejected BookingFilter = "REJECTED"
)

// ParseBookingFilter maps a query value to a filter. Empty means ALL.
func ParseBookingFilter(state string) (BookingFilter, error) {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "", "all":
		return FilterAll, nil
	case "current":
		return FilterCurrent, nil
	case "future":
		return FilterFuture, nil
	case "past":
		return FilterPast, nil
	case "waiting":
		return FilterWaiting, nil
	case "rejected":
		return FilterRejected, nil
	default:
		return "", fmt.Errorf("unknown state: %s", state)
	}
}
