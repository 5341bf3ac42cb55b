package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
)

type pgParkingSpotRepository struct {
	db *sql.DB
}

func NewPgParkingSpotRepository(db *sql.DB) repository.ParkingSpotRepository {
	return &pgParkingSpotRepository{db: db}
}

func (r *pgParkingSpotRepository) Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	query := `INSERT INTO parking_spots (spot_number, location_id, is_booked) VALUES ($1, $2, $3) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, spot.SpotNumber, spot.LocationID, spot.IsBooked).Scan(&spot.ID)
	if err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository.Create: %w", err)
	}
	return spot, nil
}

func (r *pgParkingSpotRepository) FindByID(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	spot := &domain.ParkingSpot{}
	query := `SELECT id, spot_number, location_id, is_booked FROM parking_spots WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&spot.ID, &spot.SpotNumber, &spot.LocationID, &spot.IsBooked)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpotRepository.FindByID: %w", err)
	}
	return spot, nil
}

func (r *pgParkingSpotRepository) FindAll(ctx context.Context) ([]domain.ParkingSpot, error) {
	query := `SELECT id, spot_number, location_id, is_booked FROM parking_spots ORDER BY id`
	return r.querySpots(ctx, query)
}

func (r *pgParkingSpotRepository) FindAvailableByLocationID(ctx context.Context, locationID int) ([]domain.ParkingSpot, error) {
	query := `SELECT id, spot_number, location_id, is_booked FROM parking_spots
	           WHERE location_id = $1 AND is_booked = FALSE ORDER BY id`
	return r.querySpots(ctx, query, locationID)
}

func (r *pgParkingSpotRepository) querySpots(ctx context.Context, query string, args ...interface{}) ([]domain.ParkingSpot, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository (query): %w", err)
	}
	defer rows.Close()

	var spots []domain.ParkingSpot
	for rows.Next() {
		var spot domain.ParkingSpot
		if err := rows.Scan(&spot.ID, &spot.SpotNumber, &spot.LocationID, &spot.IsBooked); err != nil {
			return nil, fmt.Errorf("ParkingSpotRepository (scanning row): %w", err)
		}
		spots = append(spots, spot)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ParkingSpotRepository (rows error): %w", err)
	}
	return spots, nil
}

func (r *pgParkingSpotRepository) Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	query := `UPDATE parking_spots SET spot_number = $1, location_id = $2, is_booked = $3 WHERE id = $4 RETURNING id`
	err := r.db.QueryRowContext(ctx, query, spot.SpotNumber, spot.LocationID, spot.IsBooked, spot.ID).Scan(&spot.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("ParkingSpotRepository.Update: %w", err)
	}
	return spot, nil
}

func (r *pgParkingSpotRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM parking_spots WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ParkingSpotRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
