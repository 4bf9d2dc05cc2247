package api

import (
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/apexshine/detailbooking/internal/metrics"
	"github.com/apexshine/detailbooking/internal/service/availability"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type AvailabilityHandler struct {
	service availability.AvailabilityUseCase
	logger  zerolog.Logger
}

func NewAvailabilityHandler(service availability.AvailabilityUseCase, logger zerolog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{service: service, logger: logger}
}

func (h *AvailabilityHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.get)
}

// get answers GET /api/availability?date=YYYY-MM-DD. Malformed dates are
// rejected here, before the service runs. On a storage outage this read-only
// endpoint degrades to showing every slot available, marked as degraded;
// booking creation re-validates at write time, so over-showing is safe.
func (h *AvailabilityHandler) get(c *gin.Context) {
	date := c.Query("date")
	if !dateRe.MatchString(date) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid date format, use YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "not a valid calendar date"})
		return
	}

	slots, err := h.service.Slots(c.Request.Context(), date)
	if err != nil {
		if domain.IsValidation(err) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		if errors.Is(err, domain.ErrStorageUnavailable) {
			h.logger.Error().Err(err).Str("date", date).Msg("availability lookup degraded to all-open")
			metrics.IncAvailability("degraded")
			c.JSON(http.StatusOK, gin.H{
				"success": true,
				"data":    gin.H{"slots": availability.AllOpen(), "degraded": true},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to check availability"})
		return
	}

	metrics.IncAvailability("ok")
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"slots": slots}})
}
