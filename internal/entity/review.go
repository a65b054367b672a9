package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_customer_designer,priority:1" json:"customer_id"`
	Customer   *User     `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"customer,omitempty"`
	DesignerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_customer_designer,priority:2;index" json:"designer_id"`
	Designer   *User     `gorm:"foreignKey:DesignerID;constraint:OnDelete:CASCADE" json:"designer,omitempty"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `gorm:"type:text;not null" json:"comment"`

	DesignerResponse *string    `gorm:"type:text" json:"designer_response,omitempty"`
	ResponseDate     *time.Time `json:"response_date,omitempty"`

	IsReported   bool    `gorm:"not null;index" json:"is_reported"`
	ReportReason *string `gorm:"type:text" json:"report_reason,omitempty"`
	IsApproved   bool    `gorm:"not null" json:"is_approved"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
