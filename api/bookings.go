package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/apexshine/detailbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type addonResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name,omitempty"`
	Price float64 `json:"price"`
}

type bookingResponse struct {
	ID              string          `json:"id"`
	ServiceCategory string          `json:"service_category"`
	PackageID       string          `json:"package_id"`
	PackageName     string          `json:"package_name"`
	VehicleSize     string          `json:"vehicle_size"`
	BasePrice       float64         `json:"base_price"`
	TotalPrice      float64         `json:"total_price"`
	Addons          []addonResponse `json:"addons"`
	AppointmentDate string          `json:"appointment_date"`
	AppointmentTime string          `json:"appointment_time"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	VehicleInfo     string          `json:"vehicle_info,omitempty"`
	Status          string          `json:"status"`
	CreatedAt       string          `json:"created_at,omitempty"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.listByEmail)
	router.GET("/:id", h.get)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	payload := gin.H{
		"success":             true,
		"data":                toBookingResponse(result.Booking),
		"notification_queued": result.NotificationQueued,
	}
	if result.Warning != "" {
		payload["warnings"] = []string{result.Warning}
	}
	c.JSON(http.StatusCreated, payload)
}

func (h *BookingHandler) get(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": toBookingResponse(b)})
}

// listByEmail returns the booking history for a customer. No bookings is an
// empty list, not an error.
func (h *BookingHandler) listByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "email query parameter is required"})
		return
	}

	bookings, err := h.service.CustomerBookings(c.Request.Context(), email)
	if err != nil {
		writeBookingError(c, err)
		return
	}

	responses := make([]bookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, toBookingResponse(&bookings[i]))
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": responses})
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case domain.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, domain.ErrSlotTaken):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "this time slot is no longer available, please pick another one"})
	case errors.Is(err, domain.ErrStatusConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "booking was updated by someone else, please refresh and retry"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "booking not found"})
	case errors.Is(err, domain.ErrStorageUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "service temporarily unavailable, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "an unexpected error occurred"})
	}
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	addons := make([]addonResponse, 0, len(b.Addons))
	for _, a := range b.Addons {
		addons = append(addons, addonResponse{ID: a.ID, Name: a.Name, Price: fromCents(a.PriceCents)})
	}

	resp := bookingResponse{
		ID:              b.ID,
		ServiceCategory: b.ServiceCategory,
		PackageID:       b.PackageID,
		PackageName:     b.PackageName,
		VehicleSize:     b.VehicleSize,
		BasePrice:       fromCents(b.BasePriceCents),
		TotalPrice:      fromCents(b.TotalPriceCents),
		Addons:          addons,
		AppointmentDate: b.AppointmentDate,
		AppointmentTime: b.AppointmentTime,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		VehicleInfo:     b.VehicleInfo,
		Status:          string(b.Status),
	}
	if !b.CreatedAt.IsZero() {
		resp.CreatedAt = b.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func fromCents(c int64) float64 {
	return float64(c) / 100
}
