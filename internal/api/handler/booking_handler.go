package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bhardwajj01/parkingrevolution/internal/api/middleware"
	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	parkingService *service.ParkingService
}

func NewBookingHandler(ps *service.ParkingService) *BookingHandler {
	return &BookingHandler{parkingService: ps}
}

// GET /bookings/
// Staff thấy toàn bộ booking, user thường chỉ thấy booking của chính mình.
func (h *BookingHandler) GetAllBookings(c *gin.Context) {
	isStaffVal, _ := c.Get(middleware.IsStaffKey)
	isStaff, _ := isStaffVal.(bool)

	var bookings []domain.Booking
	var err error
	if isStaff {
		bookings, err = h.parkingService.GetAllBookings(c.Request.Context())
	} else {
		userIDVal, exists := c.Get(middleware.UserIDKey)
		userID, ok := userIDVal.(int)
		if !exists || !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
			return
		}
		bookings, err = h.parkingService.GetBookingsByUserID(c.Request.Context(), userID)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách booking"})
		return
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	c.JSON(http.StatusOK, bookings)
}

// POST /bookings/
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var dto domain.BookingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.parkingService.CreateBooking(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo booking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": booking})
}

// GET /bookings/:id/
func (h *BookingHandler) GetBookingByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID booking không hợp lệ"})
		return
	}

	booking, err := h.parkingService.GetBookingByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy booking"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy thông tin booking"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// PUT /bookings/:id/
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID booking không hợp lệ"})
		return
	}

	var dto domain.BookingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.parkingService.UpdateBooking(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy booking để cập nhật", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật booking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// DELETE /bookings/:id/
func (h *BookingHandler) DeleteBooking(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID booking không hợp lệ"})
		return
	}

	err = h.parkingService.DeleteBooking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy booking để xóa"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa booking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}

// POST /create_booking/
// Danh tính người dùng lấy từ JWT claims (middleware đã set vào context),
// không bao giờ tin user_id trong payload.
func (h *BookingHandler) ReserveBooking(c *gin.Context) {
	userIDVal, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Không tìm thấy thông tin người dùng"})
		return
	}
	userID, ok := userIDVal.(int)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Thông tin người dùng không hợp lệ"})
		return
	}

	var dto domain.ReserveBookingDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, err := h.parkingService.ReserveBookingForUser(c.Request.Context(), userID, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo booking", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created successfully"})
}
