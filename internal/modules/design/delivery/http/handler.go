package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/design/dto"
	"anoa.com/hennahub/internal/modules/design/service"
	"anoa.com/hennahub/pkg/response"
	"anoa.com/hennahub/pkg/storage"
	"github.com/gin-gonic/gin"
)

type DesignHandler struct {
	service service.DesignService
}

func NewDesignHandler(service service.DesignService) *DesignHandler {
	return &DesignHandler{service: service}
}

func optionalActor(c *gin.Context) *entity.Actor {
	actor, err := response.GetActor(c)
	if err != nil {
		return nil
	}
	return &actor
}

func (h *DesignHandler) CreateDesign(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateDesignRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var image *storage.ImageFile
	if fileHeader, err := c.FormFile("image"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		defer file.Close()

		image = &storage.ImageFile{Reader: file, FileName: fileHeader.Filename}
	}

	design, err := h.service.CreateDesign(c.Request.Context(), actor, req, image)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, design)
}

func (h *DesignHandler) ListDesigns(c *gin.Context) {
	var filter dto.DesignFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BindError(c, err)
		return
	}

	designs, err := h.service.ListDesigns(c.Request.Context(), optionalActor(c), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": designs})
}

func (h *DesignHandler) GetDesign(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	design, err := h.service.GetDesign(c.Request.Context(), optionalActor(c), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, design)
}

func (h *DesignHandler) Trending(c *gin.Context) {
	designs, err := h.service.Trending(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": designs})
}

func (h *DesignHandler) ToggleFavorite(c *gin.Context) {
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

	favorited, err := h.service.ToggleFavorite(c.Request.Context(), actor, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.FavoriteResult{Favorited: favorited})
}

func (h *DesignHandler) ListFavorites(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	favorites, err := h.service.ListFavorites(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": favorites})
}
