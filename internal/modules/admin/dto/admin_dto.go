package dto

import "anoa.com/hennahub/internal/entity"

const (
	ReportApprove = "approve"
	ReportReject  = "reject"
)

type HandleReportRequest struct {
	Action string `json:"action" binding:"required"`
}

type UserStats struct {
	Total            int64 `json:"total"`
	Designers        int64 `json:"designers"`
	Customers        int64 `json:"customers"`
	PendingDesigners int64 `json:"pending_designers"`
}

type DesignStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
}

type BookingStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

type ReviewStats struct {
	Reported int64 `json:"reported"`
}

type DashboardResponse struct {
	Users        UserStats       `json:"users"`
	Designs      DesignStats     `json:"designs"`
	Bookings     BookingStats    `json:"bookings"`
	Reviews      ReviewStats     `json:"reviews"`
	TopDesigners []entity.User   `json:"top_designers"`
	TopDesigns   []entity.Design `json:"top_designs"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
