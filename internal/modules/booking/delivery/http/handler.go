package handler

import (
	"net/http"

	"anoa.com/hennahub/internal/modules/booking/dto"
	booking "anoa.com/hennahub/internal/modules/booking/service"
	"anoa.com/hennahub/pkg/response"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingService
}

func NewBookingHandler(service booking.BookingService) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.CreateBooking(c.Request.Context(), actor, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *BookingHandler) ListBookings(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var query dto.ListBookingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BindError(c, err)
		return
	}

	bookings, err := h.service.ListBookings(c.Request.Context(), actor, query.Status)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": bookings})
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
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

	b, err := h.service.GetBooking(c.Request.Context(), actor, id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) UpdateBooking(c *gin.Context) {
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

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, err := h.service.UpdateBooking(c.Request.Context(), actor, id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
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

	var req dto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BindError(c, err)
			return
		}
	}

	b, err := h.service.CancelBooking(c.Request.Context(), actor, id, req.Reason)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled successfully", "booking": b})
}

func (h *BookingHandler) Dashboard(c *gin.Context) {
	actor, err := response.GetActor(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.service.DashboardStats(c.Request.Context(), actor)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
