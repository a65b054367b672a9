package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	DesignPending  = "pending"
	DesignApproved = "approved"
	DesignRejected = "rejected"
)

type Design struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	DesignerID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"designer_id"`
	Designer    *User      `gorm:"foreignKey:DesignerID;constraint:OnDelete:CASCADE" json:"designer,omitempty"`
	CategoryID  *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category    *Category  `gorm:"foreignKey:CategoryID;constraint:OnDelete:SET NULL" json:"category,omitempty"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	ImageURL    string     `gorm:"type:text" json:"image"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	Tags        string     `gorm:"size:500" json:"tags"`
	PriceRange  string     `gorm:"size:100" json:"price_range"`

	// Likes and dislikes are owned by the reaction service, views by the view counter.
	ViewsCount    int `gorm:"not null" json:"views_count"`
	LikesCount    int `gorm:"not null" json:"likes_count"`
	DislikesCount int `gorm:"not null" json:"dislikes_count"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Design) BeforeCreate(tx *gorm.DB) (err error) {
	if d.ID == uuid.Nil {
		d.ID, err = uuid.NewV7()
	}
	return
}

// VisibleTo reports whether actor may see d. Unapproved designs are visible
// only to their designer and to admins; actor is nil for anonymous callers.
func (d *Design) VisibleTo(actor *Actor) bool {
	if d.Status == DesignApproved {
		return true
	}
	return actor != nil && (actor.UserID == d.DesignerID || actor.IsAdmin())
}
