package availability

import (
	"context"
	"testing"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSlotSource struct {
	mock.Mock
}

func (m *MockSlotSource) ListActiveTimes(ctx context.Context, date string) ([]string, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func TestAvailabilityService_Slots_MarksBookedTimes(t *testing.T) {
	source := &MockSlotSource{}
	service := NewAvailabilityService(source)

	ctx := context.Background()
	source.On("ListActiveTimes", ctx, "2026-03-03").Return([]string{"11:00 AM", "04:00 PM"}, nil).Once()

	slots, err := service.Slots(ctx, "2026-03-03")

	assert.NoError(t, err)
	assert.Len(t, slots, len(domain.SlotCatalog))
	for i, slot := range slots {
		// Catalog order must be preserved for display.
		assert.Equal(t, domain.SlotCatalog[i], slot.Time)
		if slot.Time == "11:00 AM" || slot.Time == "04:00 PM" {
			assert.False(t, slot.Available, "%s should be booked", slot.Time)
		} else {
			assert.True(t, slot.Available, "%s should be free", slot.Time)
		}
	}
	source.AssertExpectations(t)
}

func TestAvailabilityService_Slots_AllFreeWhenNoBookings(t *testing.T) {
	source := &MockSlotSource{}
	service := NewAvailabilityService(source)

	ctx := context.Background()
	source.On("ListActiveTimes", ctx, "2026-03-03").Return([]string{}, nil).Once()

	slots, err := service.Slots(ctx, "2026-03-03")

	assert.NoError(t, err)
	for _, slot := range slots {
		assert.True(t, slot.Available)
	}
}

func TestAvailabilityService_Slots_ReadsAreIdempotent(t *testing.T) {
	source := &MockSlotSource{}
	service := NewAvailabilityService(source)

	ctx := context.Background()
	source.On("ListActiveTimes", ctx, "2026-03-03").Return([]string{"09:00 AM"}, nil).Times(2)

	first, err1 := service.Slots(ctx, "2026-03-03")
	second, err2 := service.Slots(ctx, "2026-03-03")

	assert.NoError(t, err1)
	assert.NoError(t, err2)
	assert.Equal(t, first, second)
}

func TestAvailabilityService_Slots_SundayClosed(t *testing.T) {
	source := &MockSlotSource{}
	service := NewAvailabilityService(source)

	// 2026-03-08 is a Sunday; the source must not even be queried.
	slots, err := service.Slots(context.Background(), "2026-03-08")

	assert.NoError(t, err)
	assert.Len(t, slots, len(domain.SlotCatalog))
	for _, slot := range slots {
		assert.False(t, slot.Available)
	}
	source.AssertNotCalled(t, "ListActiveTimes")
}

func TestAvailabilityService_Slots_StorageErrorIsNotMasked(t *testing.T) {
	source := &MockSlotSource{}
	service := NewAvailabilityService(source)

	ctx := context.Background()
	source.On("ListActiveTimes", ctx, "2026-03-03").Return(nil, domain.ErrStorageUnavailable).Once()

	slots, err := service.Slots(ctx, "2026-03-03")

	// The service never fabricates an all-available answer; the display
	// boundary decides whether to degrade.
	assert.Nil(t, slots)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
}

func TestAvailabilityService_Slots_BadDate(t *testing.T) {
	source := &MockSlotSource{}
	service := NewAvailabilityService(source)

	slots, err := service.Slots(context.Background(), "2026-13-45")

	assert.Nil(t, slots)
	assert.True(t, domain.IsValidation(err))
	source.AssertNotCalled(t, "ListActiveTimes")
}

func TestAllOpen(t *testing.T) {
	slots := AllOpen()

	assert.Len(t, slots, len(domain.SlotCatalog))
	for i, slot := range slots {
		assert.Equal(t, domain.SlotCatalog[i], slot.Time)
		assert.True(t, slot.Available)
	}
}
