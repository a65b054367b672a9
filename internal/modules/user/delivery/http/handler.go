package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/modules/user/dto"
	"anoa.com/hennahub/internal/modules/user/service"
	"anoa.com/hennahub/pkg/response"
	"anoa.com/hennahub/pkg/storage"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(service service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.BindError(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type UserHandler struct {
	service service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.service.GetProfile(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateProfileInput
	if err := c.ShouldBind(&input); err != nil {
		response.BindError(c, err)
		return
	}

	var picture *storage.ImageFile
	if fileHeader, err := c.FormFile("profile_picture"); err == nil && fileHeader != nil {
		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read profile picture"})
			return
		}
		defer file.Close()

		picture = &storage.ImageFile{Reader: file, FileName: fileHeader.Filename}
	}

	user, err := h.service.UpdateProfile(c.Request.Context(), actor, input, picture)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) ListDesigners(c *gin.Context) {
	var query dto.DesignerQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	designers, err := h.service.ListDesigners(c.Request.Context(), query)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": designers})
}

func (h *UserHandler) GetDesigner(c *gin.Context) {
	id, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	designer, err := h.service.GetDesigner(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, designer)
}
