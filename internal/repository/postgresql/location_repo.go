package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
)

type pgLocationRepository struct {
	db *sql.DB
}

func NewPgLocationRepository(db *sql.DB) repository.LocationRepository {
	return &pgLocationRepository{db: db}
}

func (r *pgLocationRepository) Create(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	query := `INSERT INTO locations (location_name, city_id, location_latitude, location_longitude)
	           VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, location.LocationName, location.CityID,
		location.LocationLatitude, location.LocationLongitude).Scan(&location.ID)
	if err != nil {
		return nil, fmt.Errorf("LocationRepository.Create: %w", err)
	}
	return location, nil
}

func (r *pgLocationRepository) FindByID(ctx context.Context, id int) (*domain.Location, error) {
	location := &domain.Location{}
	query := `SELECT id, location_name, city_id, location_latitude, location_longitude FROM locations WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&location.ID, &location.LocationName,
		&location.CityID, &location.LocationLatitude, &location.LocationLongitude)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("LocationRepository.FindByID: %w", err)
	}
	return location, nil
}

func (r *pgLocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	query := `SELECT id, location_name, city_id, location_latitude, location_longitude FROM locations ORDER BY id`
	return r.queryLocations(ctx, query)
}

func (r *pgLocationRepository) FindByCityID(ctx context.Context, cityID int) ([]domain.Location, error) {
	query := `SELECT id, location_name, city_id, location_latitude, location_longitude FROM locations WHERE city_id = $1 ORDER BY id`
	return r.queryLocations(ctx, query, cityID)
}

func (r *pgLocationRepository) queryLocations(ctx context.Context, query string, args ...interface{}) ([]domain.Location, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("LocationRepository (query): %w", err)
	}
	defer rows.Close()

	var locations []domain.Location
	for rows.Next() {
		var location domain.Location
		if err := rows.Scan(&location.ID, &location.LocationName, &location.CityID,
			&location.LocationLatitude, &location.LocationLongitude); err != nil {
			return nil, fmt.Errorf("LocationRepository (scanning row): %w", err)
		}
		locations = append(locations, location)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("LocationRepository (rows error): %w", err)
	}
	return locations, nil
}

func (r *pgLocationRepository) Update(ctx context.Context, location *domain.Location) (*domain.Location, error) {
	query := `UPDATE locations SET location_name = $1, city_id = $2, location_latitude = $3, location_longitude = $4
	           WHERE id = $5 RETURNING id`
	err := r.db.QueryRowContext(ctx, query, location.LocationName, location.CityID,
		location.LocationLatitude, location.LocationLongitude, location.ID).Scan(&location.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("LocationRepository.Update: %w", err)
	}
	return location, nil
}

func (r *pgLocationRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM locations WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("LocationRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("LocationRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
