package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/modules/review/dto"
	review "anoa.com/hennahub/internal/modules/review/service"
	"anoa.com/hennahub/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	service review.ReviewService
}

func NewReviewHandler(service review.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

func (h *ReviewHandler) CreateReview(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	designerID, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.CreateReview(c.Request.Context(), actor, designerID, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *ReviewHandler) ListReviews(c *gin.Context) {
	designerID, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	reviews, err := h.service.ListReviews(c.Request.Context(), designerID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reviews})
}

func (h *ReviewHandler) Respond(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	updated, err := h.service.Respond(c.Request.Context(), actor, id, req.Response)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ReviewHandler) Report(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	if err := h.service.Report(c.Request.Context(), actor, id, req.Reason); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review reported successfully"})
}
