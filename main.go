package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/api"
	"github.com/bhardwajj01/parkingrevolution/internal/api/handler"
	"github.com/bhardwajj01/parkingrevolution/internal/api/middleware"
	"github.com/bhardwajj01/parkingrevolution/internal/config"
	"github.com/bhardwajj01/parkingrevolution/internal/events"
	"github.com/bhardwajj01/parkingrevolution/internal/repository/postgresql"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	awsgo_config "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log.Println("Cấu hình đã được tải.")

	// 2. Setup Database Connection
	db, err := postgresql.NewDB(cfg)
	if err != nil {
		log.Fatalf("Không thể kết nối database: %v", err)
	}
	defer db.Close()
	log.Println("Đã kết nối database thành công!")

	// 3. Initialize Repositories
	userRepo := postgresql.NewPgUserRepository(db)
	cityRepo := postgresql.NewPgCityRepository(db)
	locationRepo := postgresql.NewPgLocationRepository(db)
	spotRepo := postgresql.NewPgParkingSpotRepository(db)
	carDetailRepo := postgresql.NewPgCarDetailRepository(db)
	bookingRepo := postgresql.NewPgBookingRepository(db)

	// 4. Init WebSocket manager
	webSocketManager := handler.NewWebSocketManager()
	go webSocketManager.Start()
	log.Println("WebSocket Manager đã được khởi động.")

	notifiers := []service.BookingNotifier{webSocketManager}

	// 5. Khởi tạo SQS publisher (tùy chọn theo cấu hình)
	if cfg.SQSBookingEventQueueURL == "" {
		log.Println("CẢNH BÁO: SQS_BOOKING_EVENT_QUEUE_URL chưa được cấu hình. Sự kiện booking sẽ không được đẩy lên SQS.")
	} else {
		awsSDKCfg, err := awsgo_config.LoadDefaultConfig(context.TODO(), awsgo_config.WithRegion(cfg.AWSRegion))
		if err != nil {
			log.Fatalf("Không thể tải AWS SDK config: %v", err)
		}
		log.Println("Đã tải AWS SDK config thành công cho region:", cfg.AWSRegion)

		sqsClient := sqs.NewFromConfig(awsSDKCfg)
		notifiers = append(notifiers, events.NewSQSPublisher(sqsClient, cfg))
		log.Println("SQS Publisher đã được khởi tạo cho queue:", cfg.SQSBookingEventQueueURL)
	}

	// 6. Initialize Services
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTAccessExpiration, cfg.JWTRefreshExpiration)
	parkingService := service.NewParkingService(cityRepo, locationRepo, spotRepo, carDetailRepo, bookingRepo, userRepo, notifiers...)

	// 7. Initialize Auth Middleware
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// 8. Setup HTTP Router
	router := api.SetupRouter(authService, parkingService, authMiddleware, webSocketManager)

	// 9. Start HTTP Server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server đang chạy trên port %s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Lỗi ListenAndServe(): %v", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Đang tắt server...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server buộc phải tắt: %v", err)
	}

	log.Println("Server đã tắt.")
}
