package domain

type CarDetail struct {
	ID           int    `json:"id"`
	UserID       int    `json:"user_id"`
	NumberPlate  string `json:"number_plate"`
	MakeAndModel string `json:"make_and_model"`
	Year         string `json:"year"`
	Color        string `json:"color"`
}

type CarDetailDTO struct {
	UserID       int    `json:"user_id" binding:"required"`
	NumberPlate  string `json:"number_plate" binding:"required,max=10"`
	MakeAndModel string `json:"make_and_model" binding:"required,max=100"`
	Year         string `json:"year" binding:"required,len=4"`
	Color        string `json:"color" binding:"required,max=50"`
}
