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

type CityHandler struct {
	parkingService *service.ParkingService
}

func NewCityHandler(ps *service.ParkingService) *CityHandler {
	return &CityHandler{parkingService: ps}
}

// GET /cities/
func (h *CityHandler) GetAllCities(c *gin.Context) {
	cities, err := h.parkingService.GetAllCities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách thành phố"})
		return
	}
	if cities == nil {
		cities = []domain.City{}
	}
	c.JSON(http.StatusOK, cities)
}

// POST /cities/
func (h *CityHandler) CreateCity(c *gin.Context) {
	var dto domain.CityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	city, err := h.parkingService.CreateCity(c.Request.Context(), dto)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo thành phố", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, city)
}

// GET /cities/:id/
func (h *CityHandler) GetCityByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID thành phố không hợp lệ"})
		return
	}

	city, err := h.parkingService.GetCityByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thành phố"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy thông tin thành phố"})
		return
	}
	c.JSON(http.StatusOK, city)
}

// PUT /cities/:id/
func (h *CityHandler) UpdateCity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID thành phố không hợp lệ"})
		return
	}

	var dto domain.CityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	city, err := h.parkingService.UpdateCity(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thành phố để cập nhật"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật thành phố", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, city)
}

// DELETE /cities/:id/
func (h *CityHandler) DeleteCity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID thành phố không hợp lệ"})
		return
	}

	err = h.parkingService.DeleteCity(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thành phố để xóa"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa thành phố", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
