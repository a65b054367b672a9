package dto

import (
	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type CreateBookingRequest struct {
	DesignerID    uuid.UUID `json:"designer_id" binding:"required"`
	BookingDate   string    `json:"booking_date" binding:"required"`
	BookingTime   string    `json:"booking_time" binding:"required"`
	DurationHours float64   `json:"duration_hours" binding:"required,gt=0,lte=24"`
	EventType     string    `json:"event_type" binding:"required,max=100"`
	Location      string    `json:"location" binding:"required,max=300"`
	Notes         *string   `json:"notes"`
}

// UpdateBookingRequest is a partial update; nil fields are left unchanged.
type UpdateBookingRequest struct {
	Status             *string  `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	BookingDate        *string  `json:"booking_date"`
	BookingTime        *string  `json:"booking_time"`
	DurationHours      *float64 `json:"duration_hours" binding:"omitempty,gt=0,lte=24"`
	EventType          *string  `json:"event_type" binding:"omitempty,max=100"`
	Location           *string  `json:"location" binding:"omitempty,max=300"`
	Notes              *string  `json:"notes"`
	EstimatedPrice     *float64 `json:"estimated_price" binding:"omitempty,gte=0"`
	CancellationReason *string  `json:"cancellation_reason"`
}

func (r UpdateBookingRequest) HasDetails() bool {
	return r.BookingDate != nil || r.BookingTime != nil || r.DurationHours != nil ||
		r.EventType != nil || r.Location != nil || r.Notes != nil
}

type CancelBookingRequest struct {
	Reason *string `json:"cancellation_reason"`
}

type ListBookingsQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
}

type DashboardStats struct {
	TotalBookings     int64    `json:"total_bookings"`
	PendingBookings   *int64   `json:"pending_bookings,omitempty"`
	CompletedBookings *int64   `json:"completed_bookings,omitempty"`
	TotalDesigns      *int64   `json:"total_designs,omitempty"`
	AverageRating     *float64 `json:"average_rating,omitempty"`
	FavoriteDesigns   *int64   `json:"favorite_designs,omitempty"`
}
