package domain

type City struct {
	ID       int    `json:"id"`
	CityName string `json:"cityName"`
}

type CityDTO struct {
	CityName string `json:"cityName" binding:"required,max=255"`
}
