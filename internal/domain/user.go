package domain

import "time"

type User struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"` // Bằng email tại thời điểm đăng ký
	Password    string    `json:"-"`        // Không bao giờ trả về password hash trong JSON
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	IsStaff     bool      `json:"is_staff"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	DateJoined  time.Time `json:"date_joined"`
}

type RegisterUserDTO struct {
	FirstName   string `json:"first_name" binding:"required,max=255"`
	LastName    string `json:"last_name" binding:"required,max=255"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required,max=20"`
	Password    string `json:"password" binding:"required"`
	Password2   string `json:"password2" binding:"required"`
}

type LoginUserDTO struct {
	Username string `json:"username" binding:"required"` // Email hoặc số điện thoại
	Password string `json:"password" binding:"required"`
}

type LoginResponseDTO struct {
	Status       bool   `json:"status"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenPairDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}
