package dto

import (
	"anoa.com/hennahub/internal/entity"
)

type RegisterInput struct {
	Username  string  `json:"username" binding:"required,min=3,max=150"`
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	Password2 string  `json:"password2" binding:"required,eqfield=Password"`
	FirstName string  `json:"first_name" binding:"max=150"`
	LastName  string  `json:"last_name" binding:"max=150"`
	Role      string  `json:"user_type" binding:"required,oneof=customer designer"`
	Phone     *string `json:"phone" binding:"omitempty,max=15"`
}

// LoginInput accepts either the username or the email in Username.
type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        *entity.User `json:"user"`
	Message     string       `json:"message,omitempty"`
}
