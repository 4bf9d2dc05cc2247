package availability

import (
	"context"
	"time"

	"github.com/apexshine/detailbooking/internal/domain"
)

// SlotSource is the slice of the booking repository this service needs.
type SlotSource interface {
	ListActiveTimes(ctx context.Context, date string) ([]string, error)
}

type AvailabilityUseCase interface {
	Slots(ctx context.Context, date string) ([]domain.TimeSlot, error)
}

type AvailabilityService struct {
	source SlotSource
}

func NewAvailabilityService(source SlotSource) *AvailabilityService {
	return &AvailabilityService{source: source}
}

// Slots resolves the fixed catalog against the day's active bookings. The
// date must already be validated at the boundary as YYYY-MM-DD; a date that
// still fails to parse is a validation error, never a fabricated answer.
//
// Storage failures propagate to the caller. The display handler may choose
// an optimistic fallback, but this service never invents availability: the
// booking write path relies on it.
func (s *AvailabilityService) Slots(ctx context.Context, date string) ([]domain.TimeSlot, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, domain.Invalid("date", "must be a valid YYYY-MM-DD date")
	}

	// The studio is closed on Sundays.
	if day.Weekday() == time.Sunday {
		return catalogSlots(func(string) bool { return false }), nil
	}

	times, err := s.source.ListActiveTimes(ctx, date)
	if err != nil {
		return nil, err
	}

	occupied := make(map[string]bool, len(times))
	for _, t := range times {
		occupied[t] = true
	}
	return catalogSlots(func(label string) bool { return !occupied[label] }), nil
}

// AllOpen is the optimistic answer the display boundary falls back to when
// storage is down: every catalog slot shown available. Harmless for browsing
// because createBooking re-validates at write time.
func AllOpen() []domain.TimeSlot {
	return catalogSlots(func(string) bool { return true })
}

func catalogSlots(available func(label string) bool) []domain.TimeSlot {
	slots := make([]domain.TimeSlot, 0, len(domain.SlotCatalog))
	for _, label := range domain.SlotCatalog {
		slots = append(slots, domain.TimeSlot{Time: label, Available: available(label)})
	}
	return slots
}

var _ AvailabilityUseCase = (*AvailabilityService)(nil)
