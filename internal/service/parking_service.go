package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"

	"github.com/google/uuid"
	"gopkg.in/guregu/null.v4"
)

// BookingNotifier nhận sự kiện booking (WebSocket manager, SQS publisher).
// Interface đặt ở đây để tránh circular dependency với package handler.
type BookingNotifier interface {
	NotifyBookingEvent(event domain.BookingEventNotification)
}

type ParkingService struct {
	cityRepo     repository.CityRepository
	locationRepo repository.LocationRepository
	spotRepo     repository.ParkingSpotRepository
	carRepo      repository.CarDetailRepository
	bookingRepo  repository.BookingRepository
	userRepo     repository.UserRepository
	notifiers    []BookingNotifier
}

func NewParkingService(
	cityRepo repository.CityRepository,
	locationRepo repository.LocationRepository,
	spotRepo repository.ParkingSpotRepository,
	carRepo repository.CarDetailRepository,
	bookingRepo repository.BookingRepository,
	userRepo repository.UserRepository,
	notifiers ...BookingNotifier,
) *ParkingService {
	return &ParkingService{
		cityRepo:     cityRepo,
		locationRepo: locationRepo,
		spotRepo:     spotRepo,
		carRepo:      carRepo,
		bookingRepo:  bookingRepo,
		userRepo:     userRepo,
		notifiers:    notifiers,
	}
}

// --- City ---

func (s *ParkingService) CreateCity(ctx context.Context, dto domain.CityDTO) (*domain.City, error) {
	city := &domain.City{CityName: dto.CityName}
	return s.cityRepo.Create(ctx, city)
}

func (s *ParkingService) GetCityByID(ctx context.Context, id int) (*domain.City, error) {
	return s.cityRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllCities(ctx context.Context) ([]domain.City, error) {
	return s.cityRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateCity(ctx context.Context, id int, dto domain.CityDTO) (*domain.City, error) {
	city, err := s.cityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	city.CityName = dto.CityName
	return s.cityRepo.Update(ctx, city)
}

func (s *ParkingService) DeleteCity(ctx context.Context, id int) error {
	return s.cityRepo.Delete(ctx, id)
}

// --- Location ---

func (s *ParkingService) CreateLocation(ctx context.Context, dto domain.LocationDTO) (*domain.Location, error) {
	// Location phải tham chiếu đến City tồn tại
	if _, err := s.cityRepo.FindByID(ctx, dto.CityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: thành phố với ID %d không tồn tại", repository.ErrNotFound, dto.CityID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra thành phố: %w", err)
	}

	location := &domain.Location{
		LocationName:      dto.LocationName,
		CityID:            dto.CityID,
		LocationLatitude:  null.NewString(dto.LocationLatitude, dto.LocationLatitude != ""),
		LocationLongitude: null.NewString(dto.LocationLongitude, dto.LocationLongitude != ""),
	}
	return s.locationRepo.Create(ctx, location)
}

func (s *ParkingService) GetLocationByID(ctx context.Context, id int) (*domain.Location, error) {
	return s.locationRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllLocations(ctx context.Context) ([]domain.Location, error) {
	return s.locationRepo.FindAll(ctx)
}

func (s *ParkingService) GetLocationsByCityID(ctx context.Context, cityID int) ([]domain.Location, error) {
	return s.locationRepo.FindByCityID(ctx, cityID)
}

func (s *ParkingService) UpdateLocation(ctx context.Context, id int, dto domain.LocationDTO) (*domain.Location, error) {
	location, err := s.locationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.cityRepo.FindByID(ctx, dto.CityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: thành phố với ID %d không tồn tại", repository.ErrNotFound, dto.CityID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra thành phố: %w", err)
	}
	location.LocationName = dto.LocationName
	location.CityID = dto.CityID
	location.LocationLatitude = null.NewString(dto.LocationLatitude, dto.LocationLatitude != "")
	location.LocationLongitude = null.NewString(dto.LocationLongitude, dto.LocationLongitude != "")
	return s.locationRepo.Update(ctx, location)
}

func (s *ParkingService) DeleteLocation(ctx context.Context, id int) error {
	return s.locationRepo.Delete(ctx, id)
}

// --- ParkingSpot ---

func (s *ParkingService) CreateParkingSpot(ctx context.Context, dto domain.ParkingSpotDTO) (*domain.ParkingSpot, error) {
	if _, err := s.locationRepo.FindByID(ctx, dto.LocationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: địa điểm với ID %d không tồn tại", repository.ErrNotFound, dto.LocationID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra địa điểm: %w", err)
	}

	spot := &domain.ParkingSpot{
		SpotNumber: dto.SpotNumber,
		LocationID: dto.LocationID,
		IsBooked:   dto.IsBooked,
	}
	return s.spotRepo.Create(ctx, spot)
}

func (s *ParkingService) GetParkingSpotByID(ctx context.Context, id int) (*domain.ParkingSpot, error) {
	return s.spotRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllParkingSpots(ctx context.Context) ([]domain.ParkingSpot, error) {
	return s.spotRepo.FindAll(ctx)
}

func (s *ParkingService) GetAvailableSpotsByLocationID(ctx context.Context, locationID int) ([]domain.ParkingSpot, error) {
	return s.spotRepo.FindAvailableByLocationID(ctx, locationID)
}

func (s *ParkingService) UpdateParkingSpot(ctx context.Context, id int, dto domain.ParkingSpotDTO) (*domain.ParkingSpot, error) {
	spot, err := s.spotRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.locationRepo.FindByID(ctx, dto.LocationID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: địa điểm với ID %d không tồn tại", repository.ErrNotFound, dto.LocationID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra địa điểm: %w", err)
	}
	spot.SpotNumber = dto.SpotNumber
	spot.LocationID = dto.LocationID
	spot.IsBooked = dto.IsBooked
	return s.spotRepo.Update(ctx, spot)
}

func (s *ParkingService) DeleteParkingSpot(ctx context.Context, id int) error {
	return s.spotRepo.Delete(ctx, id)
}

// --- CarDetail ---

func (s *ParkingService) CreateCarDetail(ctx context.Context, dto domain.CarDetailDTO) (*domain.CarDetail, error) {
	if _, err := s.userRepo.FindByID(ctx, dto.UserID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: người dùng với ID %d không tồn tại", repository.ErrNotFound, dto.UserID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra người dùng: %w", err)
	}

	car := &domain.CarDetail{
		UserID:       dto.UserID,
		NumberPlate:  dto.NumberPlate,
		MakeAndModel: dto.MakeAndModel,
		Year:         dto.Year,
		Color:        dto.Color,
	}
	return s.carRepo.Create(ctx, car)
}

func (s *ParkingService) GetCarDetailByID(ctx context.Context, id int) (*domain.CarDetail, error) {
	return s.carRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllCarDetails(ctx context.Context) ([]domain.CarDetail, error) {
	return s.carRepo.FindAll(ctx)
}

func (s *ParkingService) UpdateCarDetail(ctx context.Context, id int, dto domain.CarDetailDTO) (*domain.CarDetail, error) {
	car, err := s.carRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	car.UserID = dto.UserID
	car.NumberPlate = dto.NumberPlate
	car.MakeAndModel = dto.MakeAndModel
	car.Year = dto.Year
	car.Color = dto.Color
	return s.carRepo.Update(ctx, car)
}

func (s *ParkingService) DeleteCarDetail(ctx context.Context, id int) error {
	return s.carRepo.Delete(ctx, id)
}

// --- Booking ---

// CreateBooking là đường POST /bookings/ generic: không giới hạn số booking
// mỗi user, user_id lấy từ payload.
func (s *ParkingService) CreateBooking(ctx context.Context, dto domain.BookingDTO) (*domain.Booking, error) {
	if _, err := s.spotRepo.FindByID(ctx, dto.SpotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chỗ đỗ với ID %d không tồn tại", repository.ErrNotFound, dto.SpotID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra chỗ đỗ: %w", err)
	}

	booking := &domain.Booking{
		UserID:      dto.UserID,
		SpotID:      dto.SpotID,
		CityID:      null.IntFromPtr(intPtrToInt64Ptr(dto.CityID)),
		LocationID:  null.IntFromPtr(intPtrToInt64Ptr(dto.LocationID)),
		BookingDate: dto.BookingDate,
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
	}
	created, err := s.bookingRepo.Create(ctx, booking)
	if err != nil {
		return nil, err
	}
	s.notifyBookingEvent(ctx, domain.BookingEventCreated, created)
	return created, nil
}

// ReserveBookingForUser là đường POST /create_booking/: mỗi user tối đa một
// booking, ghi đè bản ghi hiện có nếu đã tồn tại (find-or-update).
func (s *ParkingService) ReserveBookingForUser(ctx context.Context, userID int, dto domain.ReserveBookingDTO) (*domain.Booking, error) {
	if _, err := s.spotRepo.FindByID(ctx, dto.SpotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chỗ đỗ với ID %d không tồn tại", repository.ErrNotFound, dto.SpotID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra chỗ đỗ: %w", err)
	}

	booking := &domain.Booking{
		UserID:      userID,
		SpotID:      dto.SpotID,
		CityID:      null.IntFromPtr(intPtrToInt64Ptr(dto.CityID)),
		LocationID:  null.IntFromPtr(intPtrToInt64Ptr(dto.LocationID)),
		BookingDate: dto.BookingDate,
		StartTime:   dto.StartTime,
		EndTime:     dto.EndTime,
	}
	replaced, created, err := s.bookingRepo.ReplaceForUser(ctx, booking)
	if err != nil {
		return nil, err
	}
	if created {
		s.notifyBookingEvent(ctx, domain.BookingEventCreated, replaced)
	} else {
		s.notifyBookingEvent(ctx, domain.BookingEventUpdated, replaced)
	}
	return replaced, nil
}

func (s *ParkingService) GetBookingByID(ctx context.Context, id int) (*domain.Booking, error) {
	return s.bookingRepo.FindByID(ctx, id)
}

func (s *ParkingService) GetAllBookings(ctx context.Context) ([]domain.Booking, error) {
	return s.bookingRepo.FindAll(ctx)
}

// GetBookingsByUserID dùng cho GET /bookings/ của user thường: chỉ thấy
// booking của chính mình, danh sách đầy đủ dành cho staff.
func (s *ParkingService) GetBookingsByUserID(ctx context.Context, userID int) ([]domain.Booking, error) {
	return s.bookingRepo.FindByUserID(ctx, userID)
}

func (s *ParkingService) UpdateBooking(ctx context.Context, id int, dto domain.BookingDTO) (*domain.Booking, error) {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.spotRepo.FindByID(ctx, dto.SpotID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: chỗ đỗ với ID %d không tồn tại", repository.ErrNotFound, dto.SpotID)
		}
		return nil, fmt.Errorf("lỗi khi kiểm tra chỗ đỗ: %w", err)
	}
	booking.UserID = dto.UserID
	booking.SpotID = dto.SpotID
	booking.CityID = null.IntFromPtr(intPtrToInt64Ptr(dto.CityID))
	booking.LocationID = null.IntFromPtr(intPtrToInt64Ptr(dto.LocationID))
	booking.BookingDate = dto.BookingDate
	booking.StartTime = dto.StartTime
	booking.EndTime = dto.EndTime

	updated, err := s.bookingRepo.Update(ctx, booking)
	if err != nil {
		return nil, err
	}
	s.notifyBookingEvent(ctx, domain.BookingEventUpdated, updated)
	return updated, nil
}

func (s *ParkingService) DeleteBooking(ctx context.Context, id int) error {
	booking, err := s.bookingRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyBookingEvent(ctx, domain.BookingEventDeleted, booking)
	return nil
}

func (s *ParkingService) notifyBookingEvent(ctx context.Context, eventType string, booking *domain.Booking) {
	if len(s.notifiers) == 0 {
		return
	}

	// Consumer (frontend, SQS) cần spot_number để hiển thị, không bắt họ tra lại
	spotNumber := ""
	if spot, err := s.spotRepo.FindByID(ctx, booking.SpotID); err != nil {
		log.Printf("Không thể tra spot %d cho sự kiện booking: %v", booking.SpotID, err)
	} else {
		spotNumber = spot.SpotNumber
	}

	event := domain.BookingEventNotification{
		EventID:     uuid.New().String(),
		EventType:   eventType,
		UserID:      booking.UserID,
		SpotID:      booking.SpotID,
		SpotNumber:  spotNumber,
		LocationID:  booking.LocationID,
		BookingDate: booking.BookingDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
		OccurredAt:  time.Now().UTC(),
	}
	log.Printf("Phát sự kiện booking %s (event_id=%s, user=%d, spot=%d)", eventType, event.EventID, event.UserID, event.SpotID)
	for _, notifier := range s.notifiers {
		notifier.NotifyBookingEvent(event)
	}
}

func intPtrToInt64Ptr(v *int) *int64 {
	if v == nil {
		return nil
	}
	v64 := int64(*v)
	return &v64
}
