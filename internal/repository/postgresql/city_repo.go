package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
)

type pgCityRepository struct {
	db *sql.DB
}

func NewPgCityRepository(db *sql.DB) repository.CityRepository {
	return &pgCityRepository{db: db}
}

func (r *pgCityRepository) Create(ctx context.Context, city *domain.City) (*domain.City, error) {
	query := `INSERT INTO cities (city_name) VALUES ($1) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, city.CityName).Scan(&city.ID)
	if err != nil {
		return nil, fmt.Errorf("CityRepository.Create: %w", err)
	}
	return city, nil
}

func (r *pgCityRepository) FindByID(ctx context.Context, id int) (*domain.City, error) {
	city := &domain.City{}
	query := `SELECT id, city_name FROM cities WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&city.ID, &city.CityName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CityRepository.FindByID: %w", err)
	}
	return city, nil
}

func (r *pgCityRepository) FindAll(ctx context.Context) ([]domain.City, error) {
	query := `SELECT id, city_name FROM cities ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CityRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var cities []domain.City
	for rows.Next() {
		var city domain.City
		if err := rows.Scan(&city.ID, &city.CityName); err != nil {
			return nil, fmt.Errorf("CityRepository.FindAll (scanning row): %w", err)
		}
		cities = append(cities, city)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("CityRepository.FindAll (rows error): %w", err)
	}
	return cities, nil
}

func (r *pgCityRepository) Update(ctx context.Context, city *domain.City) (*domain.City, error) {
	query := `UPDATE cities SET city_name = $1 WHERE id = $2 RETURNING id`
	err := r.db.QueryRowContext(ctx, query, city.CityName, city.ID).Scan(&city.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CityRepository.Update: %w", err)
	}
	return city, nil
}

func (r *pgCityRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM cities WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("CityRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("CityRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
