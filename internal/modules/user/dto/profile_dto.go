package dto

// UpdateProfileInput binds from JSON or multipart form. Nil fields are left
// unchanged.
type UpdateProfileInput struct {
	FirstName         *string `json:"first_name" form:"first_name" binding:"omitempty,max=150"`
	LastName          *string `json:"last_name" form:"last_name" binding:"omitempty,max=150"`
	Phone             *string `json:"phone" form:"phone" binding:"omitempty,max=15"`
	Bio               *string `json:"bio" form:"bio"`
	Location          *string `json:"location" form:"location" binding:"omitempty,max=200"`
	YearsOfExperience *int    `json:"years_of_experience" form:"years_of_experience" binding:"omitempty,gte=0"`
	Specialization    *string `json:"specialization" form:"specialization" binding:"omitempty,max=200"`
	PortfolioURL      *string `json:"portfolio_url" form:"portfolio_url" binding:"omitempty,url"`
}

func (in UpdateProfileInput) HasDesignerFields() bool {
	return in.YearsOfExperience != nil || in.Specialization != nil || in.PortfolioURL != nil
}

type DesignerQuery struct {
	Search   string `form:"search"`
	Ordering string `form:"ordering"`
}
