package dto

import "github.com/google/uuid"

type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description"`
	Icon        string `json:"icon" binding:"max=50"`
}

type CategoryFilter struct {
	Search string `form:"search"`
}

type CategoryResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	DesignCount int64     `json:"design_count"`
}
