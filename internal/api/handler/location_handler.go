package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
)

type LocationHandler struct {
	parkingService *service.ParkingService
}

func NewLocationHandler(ps *service.ParkingService) *LocationHandler {
	return &LocationHandler{parkingService: ps}
}

// GET /locations/
func (h *LocationHandler) GetAllLocations(c *gin.Context) {
	locations, err := h.parkingService.GetAllLocations(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách địa điểm"})
		return
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	c.JSON(http.StatusOK, locations)
}

// POST /locations/
func (h *LocationHandler) CreateLocation(c *gin.Context) {
	var dto domain.LocationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.parkingService.CreateLocation(c.Request.Context(), dto)
	if err != nil {
		// City tham chiếu không tồn tại là lỗi payload, không phải lỗi server
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo địa điểm", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, location)
}

// GET /locations/:id/
func (h *LocationHandler) GetLocationByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID địa điểm không hợp lệ"})
		return
	}

	location, err := h.parkingService.GetLocationByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy địa điểm"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy thông tin địa điểm"})
		return
	}
	c.JSON(http.StatusOK, location)
}

// PUT /locations/:id/
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID địa điểm không hợp lệ"})
		return
	}

	var dto domain.LocationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	location, err := h.parkingService.UpdateLocation(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy địa điểm để cập nhật", "details": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật địa điểm", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, location)
}

// DELETE /locations/:id/
func (h *LocationHandler) DeleteLocation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID địa điểm không hợp lệ"})
		return
	}

	err = h.parkingService.DeleteLocation(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy địa điểm để xóa"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa địa điểm", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
