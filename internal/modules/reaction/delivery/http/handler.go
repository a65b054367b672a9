package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/entity"
	"anoa.com/hennahub/internal/modules/reaction/dto"
	reaction "anoa.com/hennahub/internal/modules/reaction/service"
	"anoa.com/hennahub/pkg/response"
	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	service reaction.ReactionService
}

func NewReactionHandler(service reaction.ReactionService) *ReactionHandler {
	return &ReactionHandler{service: service}
}

// SetReaction handles POST /designs/:id/like. An empty body means "like".
func (h *ReactionHandler) SetReaction(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	designID, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	req := dto.ReactionRequest{ReactionType: entity.ReactionLike}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	result, err := h.service.SetReaction(c.Request.Context(), actor, designID, req.ReactionType)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ReactionHandler) GetReactions(c *gin.Context) {
	designID, err := response.ParamUUID(c, "id")
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var actorPtr *entity.Actor
	if actor, err := response.GetActor(c); err == nil {
		actorPtr = &actor
	}

	state, err := h.service.GetReactionState(c.Request.Context(), actorPtr, designID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
