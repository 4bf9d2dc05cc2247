package api

import (
	"net/http"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/apexshine/detailbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// AdminHandler exposes the staff status workflow. Routes registered through
// it are expected to sit behind AdminAuth.
type AdminHandler struct {
	service booking.BookingUseCase
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func NewAdminHandler(service booking.BookingUseCase) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.PATCH("/bookings/:id/status", h.updateStatus)
}

func (h *AdminHandler) updateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	updated, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), domain.BookingStatus(req.Status))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toBookingResponse(updated)})
}
