package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
)

type pgBookingRepository struct {
	db *sql.DB
}

func NewPgBookingRepository(db *sql.DB) repository.BookingRepository {
	return &pgBookingRepository{db: db}
}

const bookingColumns = `id, user_id, spot_id, city_id, location_id, booking_date, start_time, end_time`

type bookingScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row bookingScanner) (*domain.Booking, error) {
	booking := &domain.Booking{}
	var bookingDate, startTime, endTime time.Time
	err := row.Scan(&booking.ID, &booking.UserID, &booking.SpotID, &booking.CityID, &booking.LocationID,
		&bookingDate, &startTime, &endTime)
	if err != nil {
		return nil, err
	}
	booking.BookingDate = bookingDate.Format(domain.BookingDateLayout)
	booking.StartTime = startTime.Format(domain.BookingTimeLayout)
	booking.EndTime = endTime.Format(domain.BookingTimeLayout)
	return booking, nil
}

// setSpotBooked cập nhật cờ is_booked trong cùng transaction với thao tác booking.
func setSpotBooked(ctx context.Context, tx *sql.Tx, spotID int, booked bool) error {
	_, err := tx.ExecContext(ctx, `UPDATE parking_spots SET is_booked = $1 WHERE id = $2`, booked, spotID)
	if err != nil {
		return fmt.Errorf("cập nhật cờ is_booked cho spot %d: %w", spotID, err)
	}
	return nil
}

func (r *pgBookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.Create (begin tx): %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO bookings (user_id, spot_id, city_id, location_id, booking_date, start_time, end_time)
	           VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err = tx.QueryRowContext(ctx, query, booking.UserID, booking.SpotID, booking.CityID, booking.LocationID,
		booking.BookingDate, booking.StartTime, booking.EndTime).Scan(&booking.ID)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.Create: %w", err)
	}
	if err := setSpotBooked(ctx, tx, booking.SpotID, true); err != nil {
		return nil, fmt.Errorf("BookingRepository.Create: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("BookingRepository.Create (commit): %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) FindByID(ctx context.Context, id int) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	booking, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("BookingRepository.FindByID: %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) FindAll(ctx context.Context) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY id`
	return r.queryBookings(ctx, query)
}

func (r *pgBookingRepository) FindByUserID(ctx context.Context, userID int) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id = $1 ORDER BY id`
	return r.queryBookings(ctx, query, userID)
}

func (r *pgBookingRepository) queryBookings(ctx context.Context, query string, args ...interface{}) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository (query): %w", err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("BookingRepository (scanning row): %w", err)
		}
		bookings = append(bookings, *booking)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("BookingRepository (rows error): %w", err)
	}
	return bookings, nil
}

func (r *pgBookingRepository) Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.Update (begin tx): %w", err)
	}
	defer tx.Rollback()

	var previousSpotID int
	err = tx.QueryRowContext(ctx, `SELECT spot_id FROM bookings WHERE id = $1 FOR UPDATE`, booking.ID).Scan(&previousSpotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("BookingRepository.Update (locking row): %w", err)
	}

	query := `UPDATE bookings SET user_id = $1, spot_id = $2, city_id = $3, location_id = $4,
	           booking_date = $5, start_time = $6, end_time = $7 WHERE id = $8`
	_, err = tx.ExecContext(ctx, query, booking.UserID, booking.SpotID, booking.CityID, booking.LocationID,
		booking.BookingDate, booking.StartTime, booking.EndTime, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("BookingRepository.Update: %w", err)
	}

	// Booking chuyển sang spot khác: nhả spot cũ, giữ spot mới.
	if previousSpotID != booking.SpotID {
		if err := setSpotBooked(ctx, tx, previousSpotID, false); err != nil {
			return nil, fmt.Errorf("BookingRepository.Update: %w", err)
		}
	}
	if err := setSpotBooked(ctx, tx, booking.SpotID, true); err != nil {
		return nil, fmt.Errorf("BookingRepository.Update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("BookingRepository.Update (commit): %w", err)
	}
	return booking, nil
}

func (r *pgBookingRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("BookingRepository.Delete (begin tx): %w", err)
	}
	defer tx.Rollback()

	var spotID int
	err = tx.QueryRowContext(ctx, `DELETE FROM bookings WHERE id = $1 RETURNING spot_id`, id).Scan(&spotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("BookingRepository.Delete: %w", err)
	}
	if err := setSpotBooked(ctx, tx, spotID, false); err != nil {
		return fmt.Errorf("BookingRepository.Delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("BookingRepository.Delete (commit): %w", err)
	}
	return nil
}

func (r *pgBookingRepository) ReplaceForUser(ctx context.Context, booking *domain.Booking) (*domain.Booking, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser (begin tx): %w", err)
	}
	defer tx.Rollback()

	// Khóa hàng user trước: FOR UPDATE trên bookings không chặn được gì khi
	// user chưa có booking nào, hai request đầu tiên chạy song song sẽ cùng
	// đi vào nhánh INSERT và user có hai booking.
	var lockedUserID int
	err = tx.QueryRowContext(ctx, `SELECT id FROM users WHERE id = $1 FOR UPDATE`, booking.UserID).Scan(&lockedUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, fmt.Errorf("%w: người dùng với ID %d không tồn tại", repository.ErrNotFound, booking.UserID)
		}
		return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser (locking user): %w", err)
	}

	var existingID, previousSpotID int
	err = tx.QueryRowContext(ctx,
		`SELECT id, spot_id FROM bookings WHERE user_id = $1 ORDER BY id LIMIT 1 FOR UPDATE`,
		booking.UserID).Scan(&existingID, &previousSpotID)

	created := false
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = true
		insert := `INSERT INTO bookings (user_id, spot_id, city_id, location_id, booking_date, start_time, end_time)
		            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
		err = tx.QueryRowContext(ctx, insert, booking.UserID, booking.SpotID, booking.CityID, booking.LocationID,
			booking.BookingDate, booking.StartTime, booking.EndTime).Scan(&booking.ID)
		if err != nil {
			return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser (insert): %w", err)
		}
	case err != nil:
		return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser (lookup): %w", err)
	default:
		booking.ID = existingID
		update := `UPDATE bookings SET spot_id = $1, city_id = $2, location_id = $3,
		            booking_date = $4, start_time = $5, end_time = $6 WHERE id = $7`
		_, err = tx.ExecContext(ctx, update, booking.SpotID, booking.CityID, booking.LocationID,
			booking.BookingDate, booking.StartTime, booking.EndTime, existingID)
		if err != nil {
			return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser (update): %w", err)
		}
		if previousSpotID != booking.SpotID {
			if err := setSpotBooked(ctx, tx, previousSpotID, false); err != nil {
				return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser: %w", err)
			}
		}
	}

	if err := setSpotBooked(ctx, tx, booking.SpotID, true); err != nil {
		return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("BookingRepository.ReplaceForUser (commit): %w", err)
	}
	return booking, created, nil
}
