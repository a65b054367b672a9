package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/modules/notification/dto"
	notification "anoa.com/hennahub/internal/modules/notification/service"
	"anoa.com/hennahub/pkg/response"
	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	service notification.NotificationService
}

func NewNotificationHandler(service notification.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query dto.ListNotificationsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	notifications, err := h.service.GetNotifications(c.Request.Context(), actor, query.Page, query.Limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	unread, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NotificationListResponse{Data: notifications, UnreadCount: unread})
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{UnreadCount: count})
}

func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
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

	if err := h.service.MarkAsRead(c.Request.Context(), actor, id); err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	updated, err := h.service.MarkAllAsRead(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Message: "all notifications marked as read", Updated: updated})
}
