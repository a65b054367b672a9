package dto

import "github.com/google/uuid"

// CreateDesignRequest binds from a multipart form; the image arrives as a
// separate file part or as an already hosted URL.
type CreateDesignRequest struct {
	Title       string     `form:"title" json:"title" binding:"required,max=200"`
	Description string     `form:"description" json:"description"`
	CategoryID  *uuid.UUID `form:"category" json:"category"`
	Tags        string     `form:"tags" json:"tags" binding:"max=500"`
	PriceRange  string     `form:"price_range" json:"price_range" binding:"max=100"`
	ImageURL    string     `form:"image_url" json:"image_url" binding:"omitempty,url"`
}

type DesignFilter struct {
	Category string `form:"category"`
	Designer string `form:"designer"`
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
}

type FavoriteResult struct {
	Favorited bool `json:"favorited"`
}
