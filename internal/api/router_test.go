package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/api/handler"
	"github.com/bhardwajj01/parkingrevolution/internal/api/middleware"
	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"
	"github.com/bhardwajj01/parkingrevolution/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// --- In-memory repositories cho test HTTP ---

type memUsers struct {
	seq   int
	users map[int]*domain.User
}

func (r *memUsers) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	user.ID = r.seq
	user.DateJoined = time.Now().UTC()
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *memUsers) FindByID(_ context.Context, id int) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (r *memUsers) FindByEmailOrPhone(_ context.Context, identifier string) (*domain.User, error) {
	for id := 1; id <= r.seq; id++ {
		user, ok := r.users[id]
		if ok && (user.Email == identifier || user.PhoneNumber == identifier) {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUsers) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memUsers) ExistsByPhoneNumber(_ context.Context, phoneNumber string) (bool, error) {
	for _, user := range r.users {
		if user.PhoneNumber == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

type memCities struct {
	seq    int
	cities map[int]*domain.City
}

func (r *memCities) Create(_ context.Context, city *domain.City) (*domain.City, error) {
	r.seq++
	city.ID = r.seq
	stored := *city
	r.cities[city.ID] = &stored
	return city, nil
}

func (r *memCities) FindByID(_ context.Context, id int) (*domain.City, error) {
	city, ok := r.cities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *city
	return &found, nil
}

func (r *memCities) FindAll(_ context.Context) ([]domain.City, error) {
	var cities []domain.City
	for id := 1; id <= r.seq; id++ {
		if city, ok := r.cities[id]; ok {
			cities = append(cities, *city)
		}
	}
	return cities, nil
}

func (r *memCities) Update(_ context.Context, city *domain.City) (*domain.City, error) {
	if _, ok := r.cities[city.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *city
	r.cities[city.ID] = &stored
	return city, nil
}

func (r *memCities) Delete(_ context.Context, id int) error {
	if _, ok := r.cities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cities, id)
	return nil
}

type memLocations struct {
	seq       int
	locations map[int]*domain.Location
}

func (r *memLocations) Create(_ context.Context, location *domain.Location) (*domain.Location, error) {
	r.seq++
	location.ID = r.seq
	stored := *location
	r.locations[location.ID] = &stored
	return location, nil
}

func (r *memLocations) FindByID(_ context.Context, id int) (*domain.Location, error) {
	location, ok := r.locations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *location
	return &found, nil
}

func (r *memLocations) FindAll(_ context.Context) ([]domain.Location, error) {
	var locations []domain.Location
	for id := 1; id <= r.seq; id++ {
		if location, ok := r.locations[id]; ok {
			locations = append(locations, *location)
		}
	}
	return locations, nil
}

func (r *memLocations) FindByCityID(_ context.Context, cityID int) ([]domain.Location, error) {
	var locations []domain.Location
	for id := 1; id <= r.seq; id++ {
		if location, ok := r.locations[id]; ok && location.CityID == cityID {
			locations = append(locations, *location)
		}
	}
	return locations, nil
}

func (r *memLocations) Update(_ context.Context, location *domain.Location) (*domain.Location, error) {
	if _, ok := r.locations[location.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *location
	r.locations[location.ID] = &stored
	return location, nil
}

func (r *memLocations) Delete(_ context.Context, id int) error {
	if _, ok := r.locations[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.locations, id)
	return nil
}

type memSpots struct {
	seq   int
	spots map[int]*domain.ParkingSpot
}

func (r *memSpots) Create(_ context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	r.seq++
	spot.ID = r.seq
	stored := *spot
	r.spots[spot.ID] = &stored
	return spot, nil
}

func (r *memSpots) FindByID(_ context.Context, id int) (*domain.ParkingSpot, error) {
	spot, ok := r.spots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *spot
	return &found, nil
}

func (r *memSpots) FindAll(_ context.Context) ([]domain.ParkingSpot, error) {
	var spots []domain.ParkingSpot
	for id := 1; id <= r.seq; id++ {
		if spot, ok := r.spots[id]; ok {
			spots = append(spots, *spot)
		}
	}
	return spots, nil
}

func (r *memSpots) FindAvailableByLocationID(_ context.Context, locationID int) ([]domain.ParkingSpot, error) {
	var spots []domain.ParkingSpot
	for id := 1; id <= r.seq; id++ {
		if spot, ok := r.spots[id]; ok && spot.LocationID == locationID && !spot.IsBooked {
			spots = append(spots, *spot)
		}
	}
	return spots, nil
}

func (r *memSpots) Update(_ context.Context, spot *domain.ParkingSpot) (*domain.ParkingSpot, error) {
	if _, ok := r.spots[spot.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *spot
	r.spots[spot.ID] = &stored
	return spot, nil
}

func (r *memSpots) Delete(_ context.Context, id int) error {
	if _, ok := r.spots[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.spots, id)
	return nil
}

func (r *memSpots) setBooked(id int, booked bool) {
	if spot, ok := r.spots[id]; ok {
		spot.IsBooked = booked
	}
}

type memCars struct {
	seq  int
	cars map[int]*domain.CarDetail
}

func (r *memCars) Create(_ context.Context, car *domain.CarDetail) (*domain.CarDetail, error) {
	r.seq++
	car.ID = r.seq
	stored := *car
	r.cars[car.ID] = &stored
	return car, nil
}

func (r *memCars) FindByID(_ context.Context, id int) (*domain.CarDetail, error) {
	car, ok := r.cars[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *car
	return &found, nil
}

func (r *memCars) FindAll(_ context.Context) ([]domain.CarDetail, error) {
	var cars []domain.CarDetail
	for id := 1; id <= r.seq; id++ {
		if car, ok := r.cars[id]; ok {
			cars = append(cars, *car)
		}
	}
	return cars, nil
}

func (r *memCars) Update(_ context.Context, car *domain.CarDetail) (*domain.CarDetail, error) {
	if _, ok := r.cars[car.ID]; !ok {
		return nil, repository.ErrNotFound
	}
	stored := *car
	r.cars[car.ID] = &stored
	return car, nil
}

func (r *memCars) Delete(_ context.Context, id int) error {
	if _, ok := r.cars[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cars, id)
	return nil
}

// memBookings đồng bộ cờ is_booked của spot như bản PostgreSQL.
type memBookings struct {
	seq      int
	bookings map[int]*domain.Booking
	spots    *memSpots
}

func (r *memBookings) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	r.seq++
	booking.ID = r.seq
	stored := *booking
	r.bookings[booking.ID] = &stored
	r.spots.setBooked(booking.SpotID, true)
	return booking, nil
}

func (r *memBookings) FindByID(_ context.Context, id int) (*domain.Booking, error) {
	booking, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *booking
	return &found, nil
}

func (r *memBookings) FindAll(_ context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for id := 1; id <= r.seq; id++ {
		if booking, ok := r.bookings[id]; ok {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (r *memBookings) FindByUserID(_ context.Context, userID int) ([]domain.Booking, error) {
	var bookings []domain.Booking
	for id := 1; id <= r.seq; id++ {
		if booking, ok := r.bookings[id]; ok && booking.UserID == userID {
			bookings = append(bookings, *booking)
		}
	}
	return bookings, nil
}

func (r *memBookings) Update(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	existing, ok := r.bookings[booking.ID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if existing.SpotID != booking.SpotID {
		r.spots.setBooked(existing.SpotID, false)
	}
	r.spots.setBooked(booking.SpotID, true)
	stored := *booking
	r.bookings[booking.ID] = &stored
	return booking, nil
}

func (r *memBookings) Delete(_ context.Context, id int) error {
	booking, ok := r.bookings[id]
	if !ok {
		return repository.ErrNotFound
	}
	r.spots.setBooked(booking.SpotID, false)
	delete(r.bookings, id)
	return nil
}

func (r *memBookings) ReplaceForUser(_ context.Context, booking *domain.Booking) (*domain.Booking, bool, error) {
	for id := 1; id <= r.seq; id++ {
		existing, ok := r.bookings[id]
		if !ok || existing.UserID != booking.UserID {
			continue
		}
		booking.ID = existing.ID
		if existing.SpotID != booking.SpotID {
			r.spots.setBooked(existing.SpotID, false)
		}
		r.spots.setBooked(booking.SpotID, true)
		stored := *booking
		r.bookings[booking.ID] = &stored
		return booking, false, nil
	}
	r.seq++
	booking.ID = r.seq
	stored := *booking
	r.bookings[booking.ID] = &stored
	r.spots.setBooked(booking.SpotID, true)
	return booking, true, nil
}

// --- Fixture ---

type apiFixture struct {
	users  *memUsers
	router *gin.Engine
}

func newAPIFixture() *apiFixture {
	users := &memUsers{users: make(map[int]*domain.User)}
	cities := &memCities{cities: make(map[int]*domain.City)}
	locations := &memLocations{locations: make(map[int]*domain.Location)}
	spots := &memSpots{spots: make(map[int]*domain.ParkingSpot)}
	cars := &memCars{cars: make(map[int]*domain.CarDetail)}
	bookings := &memBookings{bookings: make(map[int]*domain.Booking), spots: spots}

	authService := service.NewAuthService(users, "test-secret", time.Hour, 24*time.Hour)
	parkingService := service.NewParkingService(cities, locations, spots, cars, bookings, users)
	authMw := middleware.NewAuthMiddleware(authService)
	wsManager := handler.NewWebSocketManager()

	return &apiFixture{
		users:  users,
		router: SetupRouter(authService, parkingService, authMw, wsManager),
	}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(middleware.AuthorizationHeaderKey, middleware.AuthorizationTypeBearer+" "+token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// seedUser ghi thẳng user vào repo với mật khẩu đã hash bcrypt.
func (f *apiFixture) seedUser(t *testing.T, email, phone, password string, isStaff bool) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	_, err = f.users.Create(context.Background(), &domain.User{
		Username:    email,
		Password:    string(hashed),
		FirstName:   "Test",
		LastName:    "User",
		Email:       email,
		PhoneNumber: phone,
		IsStaff:     isStaff,
		IsActive:    true,
	})
	require.NoError(t, err)
}

func (f *apiFixture) login(t *testing.T, username, password string) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/login/", "", gin.H{"username": username, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

// --- Tests ---

func TestRegisterAndLoginFlow(t *testing.T) {
	f := newAPIFixture()

	w := f.do(t, http.MethodPost, "/register/", "", gin.H{
		"first_name":   "An",
		"last_name":    "Nguyen",
		"email":        "an@example.com",
		"phone_number": "0901234567",
		"password":     "Matkhau1!",
		"password2":    "Matkhau1!",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "User created successfully", body["message"])

	t.Run("login by email", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/login/", "", gin.H{"username": "an@example.com", "password": "Matkhau1!"})
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, true, body["status"])
		assert.Equal(t, "an@example.com", body["email"])
		assert.Equal(t, "0901234567", body["phone_number"])
		assert.NotEmpty(t, body["access_token"])
		assert.NotEmpty(t, body["refresh_token"])
	})

	t.Run("login by phone", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/login/", "", gin.H{"username": "0901234567", "password": "Matkhau1!"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/login/", "", gin.H{"username": "an@example.com", "password": "SaiMatkhau1!"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, false, body["status"])
		assert.Equal(t, "Authentication failed. Please try again.", body["error"])
	})

	t.Run("unknown user", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/login/", "", gin.H{"username": "khong@example.com", "password": "Matkhau1!"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "User with this email or phone number does not exist.", body["error"])
	})
}

func TestRegister_ValidationErrors(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "ton.tai@example.com", "0911111111", "Matkhau1!", false)

	t.Run("weak password", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/register/", "", gin.H{
			"first_name":   "An",
			"last_name":    "Nguyen",
			"email":        "moi@example.com",
			"phone_number": "0922222222",
			"password":     "Abcdefgh!",
			"password2":    "Abcdefgh!",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, []any{"Password must contain at least one digit."}, body["password"])
	})

	t.Run("password mismatch", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/register/", "", gin.H{
			"first_name":   "An",
			"last_name":    "Nguyen",
			"email":        "moi@example.com",
			"phone_number": "0922222222",
			"password":     "Matkhau1!",
			"password2":    "Matkhau2!",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, []any{"Password fields did not match."}, body["password2"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/register/", "", gin.H{
			"first_name":   "An",
			"last_name":    "Nguyen",
			"email":        "ton.tai@example.com",
			"phone_number": "0933333333",
			"password":     "Matkhau1!",
			"password2":    "Matkhau1!",
		})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, []any{"User with this email already exists."}, body["email"])
	})
}

func TestTokenRefreshEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "an@example.com", "0901234567", "Matkhau1!", false)

	w := f.do(t, http.MethodPost, "/login/", "", gin.H{"username": "an@example.com", "password": "Matkhau1!"})
	require.Equal(t, http.StatusOK, w.Code)
	refreshToken, _ := decodeBody(t, w)["refresh_token"].(string)
	require.NotEmpty(t, refreshToken)

	w = f.do(t, http.MethodPost, "/token/refresh/", "", gin.H{"refresh_token": refreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["access_token"])
	assert.NotEmpty(t, body["refresh_token"])

	w = f.do(t, http.MethodPost, "/token/refresh/", "", gin.H{"refresh_token": "khong-phai-token"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffAuthorization(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "staff@example.com", "0901111111", "Matkhau1!", true)
	f.seedUser(t, "user@example.com", "0902222222", "Matkhau1!", false)
	staffToken := f.login(t, "staff@example.com", "Matkhau1!")
	userToken := f.login(t, "user@example.com", "Matkhau1!")

	cityBody := gin.H{"cityName": "Hà Nội"}

	t.Run("unauthenticated write rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/cities/", "", cityBody)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non-staff write rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/cities/", userToken, cityBody)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("staff write allowed", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/cities/", staffToken, cityBody)
		assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("delete missing city", func(t *testing.T) {
		w := f.do(t, http.MethodDelete, "/cities/999/", staffToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("public read needs no token", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/cities/", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAvailabilityEndpoints(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "staff@example.com", "0901111111", "Matkhau1!", true)
	staffToken := f.login(t, "staff@example.com", "Matkhau1!")

	w := f.do(t, http.MethodPost, "/cities/", staffToken, gin.H{"cityName": "Hà Nội"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(t, http.MethodPost, "/locations/", staffToken, gin.H{"locationName": "Vincom Bà Triệu", "city_id": 1})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	for _, spotNumber := range []string{"A1", "A2"} {
		w = f.do(t, http.MethodPost, "/parking-spots/", staffToken, gin.H{"spotNumber": spotNumber, "location_id": 1})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	t.Run("get all cities", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/get-all-cities/", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		cities, ok := body["Cities"].([]any)
		require.True(t, ok)
		require.Len(t, cities, 1)
		city := cities[0].(map[string]any)
		assert.Equal(t, "Hà Nội", city["cityName"])
	})

	t.Run("locations by city", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/get-locations-by-city/", "", gin.H{"city_id": 1})
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		locations, ok := body["Locations"].([]any)
		require.True(t, ok)
		require.Len(t, locations, 1)
	})

	t.Run("missing city_id", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/get-locations-by-city/", "", gin.H{})
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "city_id not provided in the request data", body["error"])
	})

	t.Run("spot numbers exclude booked spots", func(t *testing.T) {
		f.seedUser(t, "an@example.com", "0902222222", "Matkhau1!", false)
		userToken := f.login(t, "an@example.com", "Matkhau1!")
		w := f.do(t, http.MethodPost, "/create_booking/", userToken, gin.H{
			"spot_id":     1,
			"bookingDate": "2026-09-15",
			"startTime":   "09:00:00",
			"endTime":     "11:00:00",
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = f.do(t, http.MethodPost, "/get-spot-numbers-by-location/", "", gin.H{"location_id": 1})
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		spots, ok := body["SpotNumbers"].([]any)
		require.True(t, ok)
		require.Len(t, spots, 1)
		spot := spots[0].(map[string]any)
		assert.Equal(t, "A2", spot["spotNumber"])
		assert.Equal(t, false, spot["lsBooked"])
	})
}

func TestReserveBookingEndpoint(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "staff@example.com", "0901111111", "Matkhau1!", true)
	staffToken := f.login(t, "staff@example.com", "Matkhau1!")
	f.seedUser(t, "an@example.com", "0902222222", "Matkhau1!", false)
	userToken := f.login(t, "an@example.com", "Matkhau1!")

	w := f.do(t, http.MethodPost, "/cities/", staffToken, gin.H{"cityName": "Hà Nội"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.do(t, http.MethodPost, "/locations/", staffToken, gin.H{"locationName": "Vincom Bà Triệu", "city_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.do(t, http.MethodPost, "/parking-spots/", staffToken, gin.H{"spotNumber": "A1", "location_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	reserve := gin.H{
		"spot_id":     1,
		"bookingDate": "2026-09-15",
		"startTime":   "09:00:00",
		"endTime":     "11:00:00",
	}

	t.Run("requires token", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/create_booking/", "", reserve)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("find or update keeps one booking per user", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/create_booking/", userToken, reserve)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		body := decodeBody(t, w)
		assert.Equal(t, "Booking created successfully", body["message"])

		// Gọi lần hai: vẫn 201, vẫn chỉ một booking, user_id lấy từ token
		w = f.do(t, http.MethodPost, "/create_booking/", userToken, reserve)
		require.Equal(t, http.StatusCreated, w.Code)

		w = f.do(t, http.MethodGet, "/bookings/", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var bookings []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
		require.Len(t, bookings, 1)
		assert.Equal(t, float64(2), bookings[0]["user_id"], "user_id phải lấy từ JWT, staff là id 1")
	})

	t.Run("unknown spot", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/create_booking/", userToken, gin.H{
			"spot_id":     99,
			"bookingDate": "2026-09-15",
			"startTime":   "09:00:00",
			"endTime":     "11:00:00",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		w := f.do(t, http.MethodPost, "/create_booking/", userToken, gin.H{
			"spot_id":     1,
			"bookingDate": "15-09-2026",
			"startTime":   "09:00:00",
			"endTime":     "11:00:00",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBookingCRUDEndpoints(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "staff@example.com", "0901111111", "Matkhau1!", true)
	staffToken := f.login(t, "staff@example.com", "Matkhau1!")

	w := f.do(t, http.MethodPost, "/cities/", staffToken, gin.H{"cityName": "Hà Nội"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.do(t, http.MethodPost, "/locations/", staffToken, gin.H{"locationName": "Vincom Bà Triệu", "city_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.do(t, http.MethodPost, "/parking-spots/", staffToken, gin.H{"spotNumber": "A1", "location_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("requires token", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/bookings/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	w = f.do(t, http.MethodPost, "/bookings/", staffToken, gin.H{
		"user_id":     1,
		"spot_id":     1,
		"bookingDate": "2026-09-15",
		"startTime":   "09:00:00",
		"endTime":     "11:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2026-09-15", data["bookingDate"])

	w = f.do(t, http.MethodGet, "/bookings/1/", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodDelete, "/bookings/1/", staffToken, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = f.do(t, http.MethodGet, "/bookings/1/", staffToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEndpointsReturnEmptyArray(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "an@example.com", "0901234567", "Matkhau1!", false)
	token := f.login(t, "an@example.com", "Matkhau1!")

	// Bảng rỗng phải trả về [] chứ không phải null
	for _, path := range []string{"/cities/", "/locations/", "/parking-spots/"} {
		w := f.do(t, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String(), path)
	}
	for _, path := range []string{"/cardetail/", "/bookings/"} {
		w := f.do(t, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, "[]", w.Body.String(), path)
	}
}

func TestBookingListScopedToCaller(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "staff@example.com", "0901111111", "Matkhau1!", true)
	staffToken := f.login(t, "staff@example.com", "Matkhau1!")
	f.seedUser(t, "an@example.com", "0902222222", "Matkhau1!", false)
	userToken := f.login(t, "an@example.com", "Matkhau1!")

	w := f.do(t, http.MethodPost, "/cities/", staffToken, gin.H{"cityName": "Hà Nội"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = f.do(t, http.MethodPost, "/locations/", staffToken, gin.H{"locationName": "Vincom Bà Triệu", "city_id": 1})
	require.Equal(t, http.StatusCreated, w.Code)
	for _, spotNumber := range []string{"A1", "A2"} {
		w = f.do(t, http.MethodPost, "/parking-spots/", staffToken, gin.H{"spotNumber": spotNumber, "location_id": 1})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// Staff (id 1) đặt qua đường generic, user (id 2) qua create_booking
	w = f.do(t, http.MethodPost, "/bookings/", staffToken, gin.H{
		"user_id":     1,
		"spot_id":     1,
		"bookingDate": "2026-09-15",
		"startTime":   "09:00:00",
		"endTime":     "11:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	w = f.do(t, http.MethodPost, "/create_booking/", userToken, gin.H{
		"spot_id":     2,
		"bookingDate": "2026-09-15",
		"startTime":   "09:00:00",
		"endTime":     "11:00:00",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	t.Run("non-staff sees only own bookings", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/bookings/", userToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var bookings []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
		require.Len(t, bookings, 1)
		assert.Equal(t, float64(2), bookings[0]["user_id"])
	})

	t.Run("staff sees every booking", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/bookings/", staffToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var bookings []map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &bookings))
		assert.Len(t, bookings, 2)
	})
}

func TestCarDetailEndpoints(t *testing.T) {
	f := newAPIFixture()
	f.seedUser(t, "an@example.com", "0901234567", "Matkhau1!", false)
	token := f.login(t, "an@example.com", "Matkhau1!")

	t.Run("requires token", func(t *testing.T) {
		w := f.do(t, http.MethodGet, "/cardetail/", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	car := gin.H{
		"user_id":        1,
		"number_plate":   "30A-12345",
		"make_and_model": "VinFast VF8",
		"year":           "2024",
		"color":          "xanh",
	}
	w := f.do(t, http.MethodPost, "/cardetail/", token, car)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(t, http.MethodGet, "/cardetail/1/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "30A-12345", got["number_plate"])

	t.Run("unknown user rejected", func(t *testing.T) {
		bad := gin.H{
			"user_id":        42,
			"number_plate":   "30A-99999",
			"make_and_model": "VinFast VF8",
			"year":           "2024",
			"color":          "xanh",
		}
		w := f.do(t, http.MethodPost, "/cardetail/", token, bad)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
