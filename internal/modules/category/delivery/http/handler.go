package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/modules/category/dto"
	category "anoa.com/hennahub/internal/modules/category/service"
	"anoa.com/hennahub/pkg/response"
	"github.com/gin-gonic/gin"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	created, err := h.service.CreateCategory(c.Request.Context(), actor, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	var filter dto.CategoryFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	categories, err := h.service.GetAllCategories(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": categories})
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
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

	if err := h.service.DeleteCategory(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted successfully"})
}
