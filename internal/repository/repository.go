package repository

import (
	"context"
	"errors"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
)

var ErrNotFound = errors.New("không tìm thấy bản ghi")
var ErrDuplicateEntry = errors.New("bản ghi đã tồn tại")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int) (*domain.User, error)
	// FindByEmailOrPhone tìm user đầu tiên có email HOẶC phone_number khớp
	// với identifier (dùng cho login).
	FindByEmailOrPhone(ctx context.Context, identifier string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhoneNumber(ctx context.Context, phoneNumber string) (bool, error)
}

type CityRepository interface {
	Create(ctx context.Context, city *domain.City) (*domain.City, error)
	FindByID(ctx context.Context, id int) (*domain.City, error)
	FindAll(ctx context.Context) ([]domain.City, error)
	Update(ctx context.Context, city *domain.City) (*domain.City, error)
	Delete(ctx context.Context, id int) error
}

type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) (*domain.Location, error)
	FindByID(ctx context.Context, id int) (*domain.Location, error)
	FindAll(ctx context.Context) ([]domain.Location, error)
	FindByCityID(ctx context.Context, cityID int) ([]domain.Location, error)
	Update(ctx context.Context, location *domain.Location) (*domain.Location, error)
	Delete(ctx context.Context, id int) error
}

type ParkingSpotRepository interface {
	Create(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	FindByID(ctx context.Context, id int) (*domain.ParkingSpot, error)
	FindAll(ctx context.Context) ([]domain.ParkingSpot, error)
	// FindAvailableByLocationID chỉ trả về các spot có is_booked = false.
	FindAvailableByLocationID(ctx context.Context, locationID int) ([]domain.ParkingSpot, error)
	Update(ctx context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error)
	Delete(ctx context.Context, id int) error
}

type CarDetailRepository interface {
	Create(ctx context.Context, car *domain.CarDetail) (*domain.CarDetail, error)
	FindByID(ctx context.Context, id int) (*domain.CarDetail, error)
	FindAll(ctx context.Context) ([]domain.CarDetail, error)
	Update(ctx context.Context, car *domain.CarDetail) (*domain.CarDetail, error)
	Delete(ctx context.Context, id int) error
}

// Mọi method ghi của BookingRepository chạy trong một transaction và đồng bộ
// cờ is_booked của parking_spots với vòng đời booking.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	FindByID(ctx context.Context, id int) (*domain.Booking, error)
	FindAll(ctx context.Context) ([]domain.Booking, error)
	FindByUserID(ctx context.Context, userID int) ([]domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	Delete(ctx context.Context, id int) error
	// ReplaceForUser ghi đè booking hiện có của user (nếu có) hoặc tạo mới.
	// Trả về true nếu một bản ghi mới được tạo. Các lời gọi đồng thời cho
	// cùng một user được serialize để user không bao giờ có quá một booking.
	ReplaceForUser(ctx context.Context, booking *domain.Booking) (*domain.Booking, bool, error)
}
