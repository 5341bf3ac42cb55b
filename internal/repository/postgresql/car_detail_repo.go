package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
)

type pgCarDetailRepository struct {
	db *sql.DB
}

func NewPgCarDetailRepository(db *sql.DB) repository.CarDetailRepository {
	return &pgCarDetailRepository{db: db}
}

func (r *pgCarDetailRepository) Create(ctx context.Context, car *domain.CarDetail) (*domain.CarDetail, error) {
	query := `INSERT INTO car_details (user_id, number_plate, make_and_model, year, color)
	           VALUES ($1, $2, $3, $4, $5) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, car.UserID, car.NumberPlate, car.MakeAndModel, car.Year, car.Color).Scan(&car.ID)
	if err != nil {
		return nil, fmt.Errorf("CarDetailRepository.Create: %w", err)
	}
	return car, nil
}

func (r *pgCarDetailRepository) FindByID(ctx context.Context, id int) (*domain.CarDetail, error) {
	car := &domain.CarDetail{}
	query := `SELECT id, user_id, number_plate, make_and_model, year, color FROM car_details WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&car.ID, &car.UserID, &car.NumberPlate, &car.MakeAndModel, &car.Year, &car.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CarDetailRepository.FindByID: %w", err)
	}
	return car, nil
}

func (r *pgCarDetailRepository) FindAll(ctx context.Context) ([]domain.CarDetail, error) {
	query := `SELECT id, user_id, number_plate, make_and_model, year, color FROM car_details ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CarDetailRepository.FindAll: %w", err)
	}
	defer rows.Close()

	var cars []domain.CarDetail
	for rows.Next() {
		var car domain.CarDetail
		if err := rows.Scan(&car.ID, &car.UserID, &car.NumberPlate, &car.MakeAndModel, &car.Year, &car.Color); err != nil {
			return nil, fmt.Errorf("CarDetailRepository.FindAll (scanning row): %w", err)
		}
		cars = append(cars, car)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("CarDetailRepository.FindAll (rows error): %w", err)
	}
	return cars, nil
}

func (r *pgCarDetailRepository) Update(ctx context.Context, car *domain.CarDetail) (*domain.CarDetail, error) {
	query := `UPDATE car_details SET user_id = $1, number_plate = $2, make_and_model = $3, year = $4, color = $5
	           WHERE id = $6 RETURNING id`
	err := r.db.QueryRowContext(ctx, query, car.UserID, car.NumberPlate, car.MakeAndModel, car.Year, car.Color, car.ID).Scan(&car.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("CarDetailRepository.Update: %w", err)
	}
	return car, nil
}

func (r *pgCarDetailRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM car_details WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("CarDetailRepository.Delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("CarDetailRepository.Delete (checking rows affected): %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}
