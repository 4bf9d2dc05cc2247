package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAvailabilityUseCase struct {
	mock.Mock
}

func (m *MockAvailabilityUseCase) Slots(ctx context.Context, date string) ([]domain.TimeSlot, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeSlot), args.Error(1)
}

type availabilityResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Slots    []domain.TimeSlot `json:"slots"`
		Degraded bool              `json:"degraded"`
	} `json:"data"`
	Error string `json:"error"`
}

func newAvailabilityRouter(service *MockAvailabilityUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAvailabilityHandler(service, zerolog.Nop()).Register(router.Group("/api/availability"))
	return router
}

func TestAvailabilityHandler_get(t *testing.T) {
	mockService := &MockAvailabilityUseCase{}
	router := newAvailabilityRouter(mockService)

	slots := []domain.TimeSlot{
		{Time: "08:00 AM", Available: true},
		{Time: "09:00 AM", Available: false},
	}
	mockService.On("Slots", mock.Anything, "2026-03-03").Return(slots, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/availability?date=2026-03-03", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp availabilityResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.False(t, resp.Data.Degraded)
	assert.Equal(t, slots, resp.Data.Slots)
	mockService.AssertExpectations(t)
}

func TestAvailabilityHandler_get_MalformedDate(t *testing.T) {
	cases := []string{"", "03/03/2026", "2026-3-3", "2026-13-45", "tomorrow"}

	for _, date := range cases {
		mockService := &MockAvailabilityUseCase{}
		router := newAvailabilityRouter(mockService)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/api/availability?date="+date, nil))

		assert.Equal(t, http.StatusBadRequest, w.Code, "date %q", date)
		mockService.AssertNotCalled(t, "Slots")
	}
}

func TestAvailabilityHandler_get_DegradesOnStorageOutage(t *testing.T) {
	mockService := &MockAvailabilityUseCase{}
	router := newAvailabilityRouter(mockService)

	mockService.On("Slots", mock.Anything, "2026-03-03").Return(nil, domain.ErrStorageUnavailable).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/availability?date=2026-03-03", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var resp availabilityResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.True(t, resp.Data.Degraded, "fallback answers must be marked degraded")
	assert.Len(t, resp.Data.Slots, len(domain.SlotCatalog))
	for _, slot := range resp.Data.Slots {
		assert.True(t, slot.Available)
	}
}
