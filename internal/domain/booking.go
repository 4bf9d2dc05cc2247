package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Addon is an optional extra selected on top of a package.
type Addon struct {
	ID         string `json:"id"`
	Name       string `json:"name,omitempty"`
	PriceCents int64  `json:"price_cents"`
}

type Booking struct {
	ID              string
	ServiceCategory string
	PackageID       string
	PackageName     string
	VehicleSize     string
	BasePriceCents  int64
	TotalPriceCents int64
	Addons          []Addon
	AppointmentDate string // YYYY-MM-DD
	AppointmentTime string // one of SlotCatalog
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	VehicleInfo     string
	Status          BookingStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Active reports whether the booking occupies its slot. Only pending and
// confirmed bookings block the calendar; cancelled and completed ones keep
// their rows but free the slot.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// CanTransition encodes the staff workflow: pending -> confirmed -> completed,
// with cancellation allowed from pending or confirmed. Completed and cancelled
// are terminal.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	switch s {
	case BookingStatusPending:
		return to == BookingStatusConfirmed || to == BookingStatusCancelled
	case BookingStatusConfirmed:
		return to == BookingStatusCompleted || to == BookingStatusCancelled
	}
	return false
}
