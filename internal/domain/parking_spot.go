package domain

type ParkingSpot struct {
	ID         int    `json:"id"`
	SpotNumber string `json:"spotNumber"`
	LocationID int    `json:"location_id"`
	IsBooked   bool   `json:"lsBooked"`
}

type ParkingSpotDTO struct {
	SpotNumber string `json:"spotNumber" binding:"required,max=50"`
	LocationID int    `json:"location_id" binding:"required"`
	IsBooked   bool   `json:"lsBooked"`
}

// DTO cho API get-spot-numbers-by-location
type SpotsByLocationDTO struct {
	LocationID int `json:"location_id" binding:"required"`
}
