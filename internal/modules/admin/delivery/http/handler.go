package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/modules/admin/dto"
	adminService "anoa.com/hennahub/internal/modules/admin/service"
	"anoa.com/hennahub/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AdminHandler struct {
	adminService adminService.ModerationService
}

func NewAdminHandler(adminService adminService.ModerationService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.adminService.Dashboard(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *AdminHandler) PendingDesigners(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.adminService.PendingDesigners(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) PendingDesigns(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.adminService.PendingDesigns(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (h *AdminHandler) ReportedReviews(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	res, err := h.adminService.ReportedReviews(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

// moderate runs op on the :id target and answers with message.
func (h *AdminHandler) moderate(c *gin.Context, message string, op func(c *gin.Context, id uuid.UUID) error) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	if err := op(c, id); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: message})
}

func (h *AdminHandler) ApproveDesigner(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	h.moderate(c, "Designer approved successfully", func(c *gin.Context, id uuid.UUID) error {
		return h.adminService.ApproveDesigner(c.Request.Context(), actor, id)
	})
}

func (h *AdminHandler) ApproveDesign(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	h.moderate(c, "Design approved successfully", func(c *gin.Context, id uuid.UUID) error {
		return h.adminService.ApproveDesign(c.Request.Context(), actor, id)
	})
}

func (h *AdminHandler) RejectDesign(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	h.moderate(c, "Design rejected", func(c *gin.Context, id uuid.UUID) error {
		return h.adminService.RejectDesign(c.Request.Context(), actor, id)
	})
}

func (h *AdminHandler) HandleReport(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.HandleReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	h.moderate(c, "Review "+req.Action+"d", func(c *gin.Context, id uuid.UUID) error {
		return h.adminService.HandleReport(c.Request.Context(), actor, id, req.Action)
	})
}
