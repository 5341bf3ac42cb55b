package handler

import (
	"net/http"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler phục vụ các API duyệt không cần đăng nhập:
// danh sách thành phố, địa điểm theo thành phố, chỗ đỗ còn trống theo địa điểm.
type AvailabilityHandler struct {
	parkingService *service.ParkingService
}

func NewAvailabilityHandler(ps *service.ParkingService) *AvailabilityHandler {
	return &AvailabilityHandler{parkingService: ps}
}

// GET /get-all-cities/
func (h *AvailabilityHandler) GetAllCities(c *gin.Context) {
	cities, err := h.parkingService.GetAllCities(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách thành phố"})
		return
	}
	if cities == nil {
		cities = []domain.City{}
	}
	c.JSON(http.StatusOK, gin.H{"Cities": cities})
}

// POST /get-locations-by-city/
func (h *AvailabilityHandler) GetLocationsByCity(c *gin.Context) {
	var dto domain.LocationsByCityDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "city_id not provided in the request data"})
		return
	}

	locations, err := h.parkingService.GetLocationsByCityID(c.Request.Context(), dto.CityID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách địa điểm"})
		return
	}
	if locations == nil {
		locations = []domain.Location{}
	}
	c.JSON(http.StatusOK, gin.H{"Locations": locations})
}

// POST /get-spot-numbers-by-location/
func (h *AvailabilityHandler) GetSpotNumbersByLocation(c *gin.Context) {
	var dto domain.SpotsByLocationDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "location_id not provided in the request data"})
		return
	}

	spots, err := h.parkingService.GetAvailableSpotsByLocationID(c.Request.Context(), dto.LocationID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Lỗi khi lấy danh sách chỗ đỗ trống"})
		return
	}
	if spots == nil {
		spots = []domain.ParkingSpot{}
	}
	c.JSON(http.StatusOK, gin.H{"SpotNumbers": spots})
}
