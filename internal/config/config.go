package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AWSRegion               string
	SQSBookingEventQueueURL string

	JWTSecret            string        // Secret key cho JWT
	JWTAccessExpiration  time.Duration // Thời gian hết hạn của access token
	JWTRefreshExpiration time.Duration // Thời gian hết hạn của refresh token
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		log.Printf("Cảnh báo: Không thể tải file .env: %v", err)
	}

	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	accessExpMinutes, _ := strconv.Atoi(getEnv("JWT_ACCESS_EXPIRATION_MINUTES", "60"))
	refreshExpHours, _ := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // Mặc định 7 ngày

	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     dbPort,
		DBUser:     getEnv("DB_USER", "youruser"),
		DBPassword: getEnv("DB_PASSWORD", "yourpassword"),
		DBName:     getEnv("DB_NAME", "parking_reservation_db"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		AWSRegion:               getEnv("AWS_REGION", "ap-southeast-1"),
		SQSBookingEventQueueURL: getEnv("SQS_BOOKING_EVENT_QUEUE_URL", ""),

		JWTSecret:            getEnv("JWT_SECRET", "your-very-secret-key-for-jwt-!@#$"),
		JWTAccessExpiration:  time.Duration(accessExpMinutes) * time.Minute,
		JWTRefreshExpiration: time.Duration(refreshExpHours) * time.Hour,
	}
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("Biến môi trường '%s' không được đặt, sử dụng giá trị mặc định: '%s'", key, fallback)
	return fallback
}
