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

type CarDetailHandler struct {
	parkingService *service.ParkingService
}

func NewCarDetailHandler(ps *service.ParkingService) *CarDetailHandler {
	return &CarDetailHandler{parkingService: ps}
}

// GET /cardetail/
func (h *CarDetailHandler) GetAllCarDetails(c *gin.Context) {
	cars, err := h.parkingService.GetAllCarDetails(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách xe"})
		return
	}
	if cars == nil {
		cars = []domain.CarDetail{}
	}
	c.JSON(http.StatusOK, cars)
}

// POST /cardetail/
func (h *CarDetailHandler) CreateCarDetail(c *gin.Context) {
	var dto domain.CarDetailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car, err := h.parkingService.CreateCarDetail(c.Request.Context(), dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể tạo thông tin xe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, car)
}

// GET /cardetail/:id/
func (h *CarDetailHandler) GetCarDetailByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID xe không hợp lệ"})
		return
	}

	car, err := h.parkingService.GetCarDetailByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông tin xe"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy thông tin xe"})
		return
	}
	c.JSON(http.StatusOK, car)
}

// PUT /cardetail/:id/
func (h *CarDetailHandler) UpdateCarDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID xe không hợp lệ"})
		return
	}

	var dto domain.CarDetailDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	car, err := h.parkingService.UpdateCarDetail(c.Request.Context(), id, dto)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông tin xe để cập nhật"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể cập nhật thông tin xe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, car)
}

// DELETE /cardetail/:id/
func (h *CarDetailHandler) DeleteCarDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID xe không hợp lệ"})
		return
	}

	err = h.parkingService.DeleteCarDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Không tìm thấy thông tin xe để xóa"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Không thể xóa thông tin xe", "details": err.Error()})
		return
	}
	c.JSON(http.StatusNoContent, nil)
}
