package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index:idx_notifications_user_read,priority:1" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Type      string     `gorm:"size:50;not null" json:"notification_type"`
	Title     string     `gorm:"size:200;not null" json:"title"`
	Message   string     `gorm:"type:text;not null" json:"message"`
	BookingID *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	Booking   *Booking   `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE" json:"-"`
	IsRead    bool       `gorm:"not null;index:idx_notifications_user_read,priority:2" json:"is_read"`
	// IsEmailed is flipped by the mail relay that consumes unsent notifications.
	IsEmailed bool      `gorm:"not null" json:"is_emailed"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == uuid.Nil {
		n.ID, err = uuid.NewV7()
	}
	return
}
