package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCompleted = "completed"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;index" json:"customer_id"`
	Customer   *User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	DesignerID uuid.UUID `gorm:"type:uuid;not null;index" json:"designer_id"`
	Designer   *User     `gorm:"foreignKey:DesignerID;constraint:OnDelete:CASCADE" json:"designer,omitempty"`

	// StartsAt is the booking date and time combined, in UTC.
	StartsAt      time.Time `gorm:"not null;index" json:"starts_at"`
	DurationHours float64   `gorm:"not null" json:"duration_hours"`
	EventType     string    `gorm:"size:100;not null" json:"event_type"`
	Location      string    `gorm:"size:300;not null" json:"location"`

	Status         string   `gorm:"size:20;not null;index" json:"status"`
	Notes          *string  `gorm:"type:text" json:"notes,omitempty"`
	EstimatedPrice *float64 `json:"estimated_price,omitempty"`

	CancelledByID      *uuid.UUID `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	CancelledBy        *User      `gorm:"foreignKey:CancelledByID;constraint:OnDelete:SET NULL" json:"-"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID, err = uuid.NewV7()
	}
	return
}

// IsTerminal reports whether no further status transition is possible.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingCompleted || b.Status == BookingCancelled
}

// Counterparty returns the party of the booking that is not actorID.
func (b *Booking) Counterparty(actorID uuid.UUID) uuid.UUID {
	if actorID == b.CustomerID {
		return b.DesignerID
	}
	return b.CustomerID
}

// Involves reports whether userID is the customer or the designer.
func (b *Booking) Involves(userID uuid.UUID) bool {
	return b.CustomerID == userID || b.DesignerID == userID
}
