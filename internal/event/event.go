// Package event holds the domain events emitted by lifecycle operations.
// Each operation returns the events it produced; the notification
// dispatcher turns them into records inside the same transaction.
package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	BookingCreated   Type = "booking_created"
	BookingConfirmed Type = "booking_confirmed"
	BookingCancelled Type = "booking_cancelled"
	// BookingReminder is reserved for an external reminder scheduler.
	BookingReminder  Type = "booking_reminder"
	ReviewReceived   Type = "review_received"
	DesignerApproved Type = "designer_approved"
)

type Event struct {
	Type      Type
	Recipient uuid.UUID
	Title     string
	Message   string
	BookingID *uuid.UUID
}

const dateLayout = "2006-01-02"

func NewBookingCreated(bookingID, designerID uuid.UUID, customerName string, startsAt time.Time) Event {
	return Event{
		Type:      BookingCreated,
		Recipient: designerID,
		Title:     "New Booking Request",
		Message:   fmt.Sprintf("%s has requested a booking on %s", customerName, startsAt.Format(dateLayout)),
		BookingID: &bookingID,
	}
}

func NewBookingConfirmed(bookingID, customerID uuid.UUID, designerName string) Event {
	return Event{
		Type:      BookingConfirmed,
		Recipient: customerID,
		Title:     "Booking Confirmed",
		Message:   fmt.Sprintf("Your booking with %s has been confirmed", designerName),
		BookingID: &bookingID,
	}
}

func NewBookingCancelled(bookingID, recipient uuid.UUID, startsAt time.Time) Event {
	return Event{
		Type:      BookingCancelled,
		Recipient: recipient,
		Title:     "Booking Cancelled",
		Message:   fmt.Sprintf("Booking on %s has been cancelled", startsAt.Format(dateLayout)),
		BookingID: &bookingID,
	}
}

func NewReviewReceived(designerID uuid.UUID, customerName string, rating int) Event {
	return Event{
		Type:      ReviewReceived,
		Recipient: designerID,
		Title:     "New Review",
		Message:   fmt.Sprintf("%s left you a %d-star review", customerName, rating),
	}
}

func NewDesignerApproved(designerID uuid.UUID) Event {
	return Event{
		Type:      DesignerApproved,
		Recipient: designerID,
		Title:     "Account Approved",
		Message:   "Your designer account has been approved!",
	}
}
