package dto

import "anoa.com/hennahub/internal/entity"

type ListNotificationsQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

type NotificationListResponse struct {
	Data        []entity.Notification `json:"data"`
	UnreadCount int64                 `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Message string `json:"message"`
	Updated int64  `json:"updated"`
}
