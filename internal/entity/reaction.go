package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

type Reaction struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_design,priority:1" json:"user_id"`
	User         *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DesignID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reactions_user_design,priority:2;index" json:"design_id"`
	Design       *Design   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	ReactionType string    `gorm:"size:10;not null" json:"reaction_type"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (r *Reaction) TableName() string {
	return "reactions"
}

func (r *Reaction) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}

func ValidReactionType(t string) bool {
	return t == ReactionLike || t == ReactionDislike
}

type Favorite struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_design,priority:1" json:"user_id"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	DesignID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_design,priority:2" json:"design_id"`
	Design    *Design   `gorm:"constraint:OnDelete:CASCADE" json:"design,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID, err = uuid.NewV7()
	}
	return
}
