package api

import (
	"github.com/bhardwajj01/parkingrevolution/internal/api/handler"
	"github.com/bhardwajj01/parkingrevolution/internal/api/middleware"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRouter(as *service.AuthService, ps *service.ParkingService,
	authMw *middleware.AuthMiddleware, wsManager *handler.WebSocketManager) *gin.Engine {
	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// WebSocket endpoint (không cần auth cho real-time connection)
	wsHandler := handler.NewWebSocketHandler(wsManager)
	r.GET("/ws", wsHandler.HandleWebSocket)

	authHandler := handler.NewAuthHandler(as)
	r.POST("/register/", authHandler.Register)
	r.POST("/login/", authHandler.Login)
	r.POST("/token/refresh/", authHandler.Refresh)

	// API duyệt công khai, không cần đăng nhập
	availabilityHandler := handler.NewAvailabilityHandler(ps)
	r.GET("/get-all-cities/", availabilityHandler.GetAllCities)
	r.POST("/get-locations-by-city/", availabilityHandler.GetLocationsByCity)
	r.POST("/get-spot-numbers-by-location/", availabilityHandler.GetSpotNumbersByLocation)

	// City/Location/ParkingSpot: đọc công khai, ghi yêu cầu staff
	cityHandler := handler.NewCityHandler(ps)
	r.GET("/cities/", cityHandler.GetAllCities)
	r.GET("/cities/:id/", cityHandler.GetCityByID)
	r.POST("/cities/", authMw.Authenticate(), authMw.AuthorizeStaff(), cityHandler.CreateCity)
	r.PUT("/cities/:id/", authMw.Authenticate(), authMw.AuthorizeStaff(), cityHandler.UpdateCity)
	r.DELETE("/cities/:id/", authMw.Authenticate(), authMw.AuthorizeStaff(), cityHandler.DeleteCity)

	locationHandler := handler.NewLocationHandler(ps)
	r.GET("/locations/", locationHandler.GetAllLocations)
	r.GET("/locations/:id/", locationHandler.GetLocationByID)
	r.POST("/locations/", authMw.Authenticate(), authMw.AuthorizeStaff(), locationHandler.CreateLocation)
	r.PUT("/locations/:id/", authMw.Authenticate(), authMw.AuthorizeStaff(), locationHandler.UpdateLocation)
	r.DELETE("/locations/:id/", authMw.Authenticate(), authMw.AuthorizeStaff(), locationHandler.DeleteLocation)

	spotHandler := handler.NewParkingSpotHandler(ps)
	r.GET("/parking-spots/", spotHandler.GetAllParkingSpots)
	r.GET("/parking-spots/:id/", spotHandler.GetParkingSpotByID)
	r.POST("/parking-spots/", authMw.Authenticate(), authMw.AuthorizeStaff(), spotHandler.CreateParkingSpot)
	r.PUT("/parking-spots/:id/", authMw.Authenticate(), authMw.AuthorizeStaff(), spotHandler.UpdateParkingSpot)
	r.DELETE("/parking-spots/:id/", authMw.Authenticate(), authMw.AuthorizeStaff(), spotHandler.DeleteParkingSpot)

	// CarDetail và Booking yêu cầu đăng nhập
	carHandler := handler.NewCarDetailHandler(ps)
	carRoutes := r.Group("/cardetail")
	carRoutes.Use(authMw.Authenticate())
	{
		carRoutes.GET("/", carHandler.GetAllCarDetails)
		carRoutes.POST("/", carHandler.CreateCarDetail)
		carRoutes.GET("/:id/", carHandler.GetCarDetailByID)
		carRoutes.PUT("/:id/", carHandler.UpdateCarDetail)
		carRoutes.DELETE("/:id/", carHandler.DeleteCarDetail)
	}

	bookingHandler := handler.NewBookingHandler(ps)
	bookingRoutes := r.Group("/bookings")
	bookingRoutes.Use(authMw.Authenticate())
	{
		bookingRoutes.GET("/", bookingHandler.GetAllBookings)
		bookingRoutes.POST("/", bookingHandler.CreateBooking)
		bookingRoutes.GET("/:id/", bookingHandler.GetBookingByID)
		bookingRoutes.PUT("/:id/", bookingHandler.UpdateBooking)
		bookingRoutes.DELETE("/:id/", bookingHandler.DeleteBooking)
	}

	r.POST("/create_booking/", authMw.Authenticate(), bookingHandler.ReserveBooking)

	return r
}
