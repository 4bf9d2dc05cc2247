package booking

import (
	"context"
	"errors"
	"math"
	"net/mail"
	"strings"
	"time"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/apexshine/detailbooking/internal/kafka"
	"github.com/apexshine/detailbooking/internal/metrics"
	"github.com/apexshine/detailbooking/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// priceToleranceCents absorbs client-side float rounding when comparing the
// submitted total against the recomputed one. Anything beyond it is treated
// as tampering and rejected.
const priceToleranceCents = 1

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	CustomerBookings(ctx context.Context, email string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type Cache interface {
	AcquireSlotHold(ctx context.Context, date, slot string, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, date, slot string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	cache              Cache
	producer           Producer
	logger             zerolog.Logger
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	storageTimeout     time.Duration
	publishTimeout     time.Duration
	loc                *time.Location
	now                func() time.Time
}

type AddonInput struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CustomerInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	VehicleInfo string `json:"vehicle_info"`
}

type CreateBookingInput struct {
	ServiceCategory string        `json:"service_category"`
	PackageID       string        `json:"package_id"`
	PackageName     string        `json:"package_name"`
	VehicleSize     string        `json:"vehicle_size"`
	BasePrice       float64       `json:"base_price"`
	TotalPrice      float64       `json:"total_price"`
	Addons          []AddonInput  `json:"addons"`
	Date            string        `json:"date"`
	Time            string        `json:"time"`
	Customer        CustomerInput `json:"customer"`
}

// CreateBookingResult carries the persisted booking together with the
// best-effort notification outcome. A false NotificationQueued never means
// the booking failed.
type CreateBookingResult struct {
	Booking            *domain.Booking
	NotificationQueued bool
	Warning            string
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLocation(loc *time.Location) BookingServiceOption {
	return func(s *BookingService) {
		s.loc = loc
	}
}

func WithTimeouts(storage, publish time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.storageTimeout = storage
		s.publishTimeout = publish
	}
}

func withClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	cache Cache,
	producer Producer,
	logger zerolog.Logger,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		cache:          cache,
		producer:       producer,
		logger:         logger,
		bookingTopic:   bookingTopic,
		holdTTL:        holdTTL,
		storageTimeout: 5 * time.Second,
		publishTimeout: 3 * time.Second,
		loc:            time.Local,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking validates the request, persists the booking behind the
// slot-uniqueness guarantee and queues the confirmation notification.
// Persistence success is independent of notification success.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*CreateBookingResult, error) {
	totalCents, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	held := false
	if s.cache != nil {
		ok, err := s.cache.AcquireSlotHold(ctx, input.Date, input.Time, s.holdTTL)
		if err != nil {
			// The hold is an optimization; the unique index still protects
			// the insert, so a redis outage must not block bookings.
			s.logger.Warn().Err(err).Msg("slot hold unavailable, relying on storage constraint")
		} else if !ok {
			metrics.IncSlotConflict()
			return nil, domain.ErrSlotTaken
		} else {
			held = true
		}
	}

	booking := &domain.Booking{
		ID:              uuid.NewString(),
		ServiceCategory: strings.TrimSpace(input.ServiceCategory),
		PackageID:       strings.TrimSpace(input.PackageID),
		PackageName:     strings.TrimSpace(input.PackageName),
		VehicleSize:     strings.TrimSpace(input.VehicleSize),
		BasePriceCents:  toCents(input.BasePrice),
		TotalPriceCents: totalCents,
		Addons:          toAddons(input.Addons),
		AppointmentDate: input.Date,
		AppointmentTime: input.Time,
		CustomerName:    strings.TrimSpace(input.Customer.Name),
		CustomerEmail:   strings.TrimSpace(input.Customer.Email),
		CustomerPhone:   strings.TrimSpace(input.Customer.Phone),
		VehicleInfo:     strings.TrimSpace(input.Customer.VehicleInfo),
		Status:          domain.BookingStatusPending,
	}

	storageCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	if err := s.bookings.Create(storageCtx, booking); err != nil {
		if held {
			_ = s.cache.ReleaseSlotHold(ctx, input.Date, input.Time)
		}
		if errors.Is(err, domain.ErrSlotTaken) {
			metrics.IncSlotConflict()
			return nil, domain.ErrSlotTaken
		}
		return nil, err
	}
	metrics.IncBookingCreated()

	result := &CreateBookingResult{Booking: booking, NotificationQueued: true}
	if err := s.publish(ctx, "booking_created", booking); err != nil {
		metrics.IncNotificationFailure()
		s.logger.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to queue booking confirmation")
		result.NotificationQueued = false
		result.Warning = "booking saved, but the confirmation email could not be queued"
	}
	return result, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	storageCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.bookings.GetByID(storageCtx, id)
}

func (s *BookingService) CustomerBookings(ctx context.Context, email string) ([]domain.Booking, error) {
	storageCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()
	return s.bookings.ListByCustomerEmail(storageCtx, strings.TrimSpace(email))
}

// UpdateStatus is the staff operation behind confirm/complete/cancel. It
// enforces the booking state machine before touching storage.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	if !status.Valid() {
		return nil, domain.Invalid("status", "unknown status")
	}

	storageCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
	defer cancel()

	current, err := s.bookings.GetByID(storageCtx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransition(status) {
		return nil, domain.Invalid("status", "cannot move "+string(current.Status)+" booking to "+string(status))
	}

	updated, err := s.bookings.UpdateStatus(storageCtx, id, current.Status, status)
	if err != nil {
		return nil, err
	}

	if status == domain.BookingStatusCancelled && s.cache != nil {
		// Free the short-lived hold so the slot is bookable right away.
		_ = s.cache.ReleaseSlotHold(ctx, updated.AppointmentDate, updated.AppointmentTime)
	}

	if err := s.publish(ctx, "booking_"+string(status), updated); err != nil {
		metrics.IncNotificationFailure()
		s.logger.Warn().Err(err).Str("booking_id", updated.ID).Msg("failed to queue status notification")
	}
	return updated, nil
}

func (s *BookingService) validate(input CreateBookingInput) (totalCents int64, err error) {
	if strings.TrimSpace(input.ServiceCategory) == "" {
		return 0, domain.Invalid("service_category", "required")
	}
	if strings.TrimSpace(input.PackageID) == "" || strings.TrimSpace(input.PackageName) == "" {
		return 0, domain.Invalid("package", "id and name are required")
	}
	if strings.TrimSpace(input.VehicleSize) == "" {
		return 0, domain.Invalid("vehicle_size", "required")
	}
	if strings.TrimSpace(input.Customer.Name) == "" {
		return 0, domain.Invalid("customer.name", "required")
	}
	if strings.TrimSpace(input.Customer.Phone) == "" {
		return 0, domain.Invalid("customer.phone", "required")
	}
	addr := strings.TrimSpace(input.Customer.Email)
	if addr == "" {
		return 0, domain.Invalid("customer.email", "required")
	}
	if _, err := mail.ParseAddress(addr); err != nil {
		return 0, domain.Invalid("customer.email", "not a valid email address")
	}

	day, err := time.ParseInLocation("2006-01-02", input.Date, s.loc)
	if err != nil {
		return 0, domain.Invalid("date", "must be a valid YYYY-MM-DD date")
	}
	today := s.now().In(s.loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)
	if day.Before(today) {
		return 0, domain.Invalid("date", "cannot book a past date")
	}
	if day.Weekday() == time.Sunday {
		return 0, domain.Invalid("date", "the studio is closed on Sundays")
	}
	if !domain.ValidSlot(input.Time) {
		return 0, domain.Invalid("time", "not one of the bookable time slots")
	}

	if input.BasePrice < 0 {
		return 0, domain.Invalid("base_price", "cannot be negative")
	}
	computed := toCents(input.BasePrice)
	for _, a := range input.Addons {
		if a.Price < 0 {
			return 0, domain.Invalid("addons", "addon price cannot be negative")
		}
		computed += toCents(a.Price)
	}
	submitted := toCents(input.TotalPrice)
	if diff := submitted - computed; diff > priceToleranceCents || diff < -priceToleranceCents {
		return 0, domain.Invalid("total_price", "does not match base price plus addons")
	}
	return computed, nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return errors.New("notifications are not configured")
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		ServiceCategory: booking.ServiceCategory,
		PackageName:     booking.PackageName,
		VehicleSize:     booking.VehicleSize,
		TotalPriceCents: booking.TotalPriceCents,
		AppointmentDate: booking.AppointmentDate,
		AppointmentTime: booking.AppointmentTime,
		CustomerName:    booking.CustomerName,
		CustomerEmail:   booking.CustomerEmail,
		Status:          string(booking.Status),
	}

	publishCtx, cancel := context.WithTimeout(ctx, s.publishTimeout)
	defer cancel()
	if err := s.producer.Publish(publishCtx, s.bookingTopic, booking.ID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(publishCtx, s.notificationsTopic, booking.ID, event)
	}
	return nil
}

func toCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}

func toAddons(inputs []AddonInput) []domain.Addon {
	if len(inputs) == 0 {
		return nil
	}
	addons := make([]domain.Addon, 0, len(inputs))
	for _, a := range inputs {
		addons = append(addons, domain.Addon{ID: a.ID, Name: a.Name, PriceCents: toCents(a.Price)})
	}
	return addons
}

var _ BookingUseCase = (*BookingService)(nil)
