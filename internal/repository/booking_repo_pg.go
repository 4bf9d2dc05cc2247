package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/apexshine/detailbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create inserts the booking iff no active booking holds the same
	// date/time. Returns domain.ErrSlotTaken when the slot is occupied.
	Create(ctx context.Context, booking *domain.Booking) error
	ListActiveTimes(ctx context.Context, date string) ([]string, error)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error)
	// UpdateStatus moves the booking from the expected current status to the
	// new one. Returns domain.ErrStatusConflict when the stored status no
	// longer matches, so racing staff actions cannot apply stale transitions.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, service_category, package_id, package_name, vehicle_size,
	base_price_cents, total_price_cents, addons, appointment_date::text, appointment_time,
	customer_name, customer_email, customer_phone, vehicle_info, status, created_at, updated_at`

// The partial unique index bookings_active_slot_idx on
// (appointment_date, appointment_time) WHERE status IN ('pending','confirmed')
// is what makes this check-and-insert atomic under concurrent submissions.
// Two racing inserts for the same slot cannot both commit; the loser surfaces
// here as a unique violation.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	addons, err := json.Marshal(booking.Addons)
	if err != nil {
		return fmt.Errorf("marshal addons: %w", err)
	}

	booking.Status = domain.BookingStatusPending
	err = r.db.QueryRow(ctx, `INSERT INTO bookings
		(id, service_category, package_id, package_name, vehicle_size,
		 base_price_cents, total_price_cents, addons, appointment_date, appointment_time,
		 customer_name, customer_email, customer_phone, vehicle_info, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`,
		booking.ID, booking.ServiceCategory, booking.PackageID, booking.PackageName, booking.VehicleSize,
		booking.BasePriceCents, booking.TotalPriceCents, addons, booking.AppointmentDate, booking.AppointmentTime,
		booking.CustomerName, booking.CustomerEmail, booking.CustomerPhone, booking.VehicleInfo, string(booking.Status)).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrSlotTaken
		}
		return storageErr("insert booking", err)
	}
	return nil
}

func (r *PGBookingRepository) ListActiveTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := r.db.Query(ctx, `SELECT appointment_time FROM bookings
		WHERE appointment_date=$1 AND status IN ($2, $3)`,
		date, string(domain.BookingStatusPending), string(domain.BookingStatusConfirmed))
	if err != nil {
		return nil, storageErr("list active times", err)
	}
	defer rows.Close()

	times := make([]string, 0)
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, storageErr("scan active time", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list active times", err)
	}
	return times, nil
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storageErr("get booking", err)
	}
	return b, nil
}

func (r *PGBookingRepository) ListByCustomerEmail(ctx context.Context, email string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings
		WHERE customer_email=$1 ORDER BY appointment_date, appointment_time`, email)
	if err != nil {
		return nil, storageErr("list customer bookings", err)
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, storageErr("scan booking", err)
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list customer bookings", err)
	}
	return bookings, nil
}

func (r *PGBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	// The status predicate makes this a compare-and-set: a transition checked
	// against a stale read matches zero rows instead of clobbering a
	// concurrent change.
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now()
		WHERE id=$2 AND status=$3 RETURNING `+bookingColumns, string(to), id, string(from))
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStatusConflict
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// Re-activating the booking would double-book a slot that was
			// taken again in the meantime.
			return nil, domain.ErrSlotTaken
		}
		return nil, storageErr("update booking status", err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	var addons []byte
	if err := row.Scan(&b.ID, &b.ServiceCategory, &b.PackageID, &b.PackageName, &b.VehicleSize,
		&b.BasePriceCents, &b.TotalPriceCents, &addons, &b.AppointmentDate, &b.AppointmentTime,
		&b.CustomerName, &b.CustomerEmail, &b.CustomerPhone, &b.VehicleInfo, &b.Status,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	if len(addons) > 0 {
		if err := json.Unmarshal(addons, &b.Addons); err != nil {
			return nil, fmt.Errorf("unmarshal addons: %w", err)
		}
	}
	return &b, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, domain.ErrStorageUnavailable)
}

var _ BookingRepository = (*PGBookingRepository)(nil)
