package dto

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"required"`
}

type RespondRequest struct {
	Response string `json:"response" binding:"required"`
}

type ReportRequest struct {
	Reason string `json:"reason" binding:"required"`
}
