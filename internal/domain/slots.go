package domain

// SlotCatalog is the studio's fixed daily schedule: ten hourly slots.
// Order matters, the frontend renders slots in this order.
var SlotCatalog = []string{
	"08:00 AM", "09:00 AM", "10:00 AM", "11:00 AM",
	"12:00 PM", "01:00 PM", "02:00 PM", "03:00 PM",
	"04:00 PM", "05:00 PM",
}

// TimeSlot is one catalog entry resolved against a day's bookings. It is
// computed per request and never stored.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

func ValidSlot(label string) bool {
	for _, s := range SlotCatalog {
		if s == label {
			return true
		}
	}
	return false
}
