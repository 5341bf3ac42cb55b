package domain

import (
	"time"

	"gopkg.in/guregu/null.v4"
)

const (
	BookingDateLayout = "2006-01-02"
	BookingTimeLayout = "15:04:05"
)

type Booking struct {
	ID          int      `json:"id"`
	UserID      int      `json:"user_id"`
	SpotID      int      `json:"spot_id"`
	CityID      null.Int `json:"city_id"`
	LocationID  null.Int `json:"location_id"`
	BookingDate string   `json:"bookingDate"` // YYYY-MM-DD
	StartTime   string   `json:"startTime"`   // HH:MM:SS
	EndTime     string   `json:"endTime"`     // HH:MM:SS
}

// BookingDTO dùng cho POST/PUT /bookings/ (user_id lấy từ payload).
type BookingDTO struct {
	UserID      int    `json:"user_id" binding:"required"`
	SpotID      int    `json:"spot_id" binding:"required"`
	CityID      *int   `json:"city_id"`
	LocationID  *int   `json:"location_id"`
	BookingDate string `json:"bookingDate" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" binding:"required,datetime=15:04:05"`
	EndTime     string `json:"endTime" binding:"required,datetime=15:04:05"`
}

// ReserveBookingDTO dùng cho POST /create_booking/: danh tính người dùng
// lấy từ JWT claims, không bao giờ lấy từ payload.
type ReserveBookingDTO struct {
	SpotID      int    `json:"spot_id" binding:"required"`
	CityID      *int   `json:"city_id"`
	LocationID  *int   `json:"location_id"`
	BookingDate string `json:"bookingDate" binding:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" binding:"required,datetime=15:04:05"`
	EndTime     string `json:"endTime" binding:"required,datetime=15:04:05"`
}

const (
	BookingEventCreated = "booking_created"
	BookingEventUpdated = "booking_updated"
	BookingEventDeleted = "booking_deleted"
)

// BookingEventNotification được broadcast qua WebSocket và đẩy lên SQS
// mỗi khi một booking được tạo, ghi đè hoặc xóa.
type BookingEventNotification struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	UserID      int       `json:"user_id"`
	SpotID      int       `json:"spot_id"`
	SpotNumber  string    `json:"spot_number"`
	LocationID  null.Int  `json:"location_id"`
	BookingDate string    `json:"bookingDate"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	OccurredAt  time.Time `json:"occurred_at"`
}
