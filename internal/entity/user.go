package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleDesigner = "designer"
	RoleAdmin    = "admin"
)

type User struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Username          string    `gorm:"size:150;uniqueIndex;not null" json:"username"`
	Email             string    `gorm:"size:254;uniqueIndex;not null" json:"email"`
	PasswordHash      string    `gorm:"size:255;not null" json:"-"`
	FirstName         string    `gorm:"size:150" json:"first_name"`
	LastName          string    `gorm:"size:150" json:"last_name"`
	Role              string    `gorm:"size:20;not null;index" json:"role"`
	IsSuperuser       bool      `gorm:"not null" json:"-"`
	Phone             *string   `gorm:"size:15" json:"phone,omitempty"`
	ProfilePictureURL *string   `gorm:"type:text" json:"profile_picture,omitempty"`
	Bio               *string   `gorm:"type:text" json:"bio,omitempty"`
	Location          *string   `gorm:"size:200" json:"location,omitempty"`

	// Designer-only
	IsApproved        bool    `gorm:"not null;index" json:"is_approved"`
	YearsOfExperience int     `gorm:"not null" json:"years_of_experience"`
	Specialization    *string `gorm:"size:200" json:"specialization,omitempty"`
	PortfolioURL      *string `gorm:"type:text" json:"portfolio_url,omitempty"`

	TotalBookings int     `gorm:"not null" json:"total_bookings"`
	AverageRating float64 `gorm:"not null" json:"average_rating"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (u *User) IsDesigner() bool {
	return u.Role == RoleDesigner
}

// Actor returns the authenticated-actor view of u.
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, IsSuperuser: u.IsSuperuser}
}

// DisplayName is the full name when one is set, the username otherwise.
func (u *User) DisplayName() string {
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Username
}
