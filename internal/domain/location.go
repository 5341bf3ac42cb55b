package domain

import "gopkg.in/guregu/null.v4"

type Location struct {
	ID                int         `json:"id"`
	LocationName      string      `json:"locationName"`
	CityID            int         `json:"city_id"`
	LocationLatitude  null.String `json:"location_latitude"`
	LocationLongitude null.String `json:"location_longitude"`
}

type LocationDTO struct {
	LocationName      string `json:"locationName" binding:"required,max=255"`
	CityID            int    `json:"city_id" binding:"required"`
	LocationLatitude  string `json:"location_latitude" binding:"omitempty,max=20"`
	LocationLongitude string `json:"location_longitude" binding:"omitempty,max=20"`
}

// DTO cho API get-locations-by-city
type LocationsByCityDTO struct {
	CityID int `json:"city_id" binding:"required"`
}
