package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("Authentication failed. Please try again.")
var ErrUserNotExists = errors.New("User with this email or phone number does not exist.")
var ErrTokenInvalid = errors.New("token không hợp lệ hoặc đã hết hạn")

// FieldError gắn lỗi validation vào đúng field của payload, để handler trả về
// body dạng {"field": ["message"]} như contract của API đăng ký.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var (
	letterRegexp  = regexp.MustCompile(`[a-zA-Z]`)
	digitRegexp   = regexp.MustCompile(`\d`)
	specialRegexp = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

type AuthService struct {
	userRepo          repository.UserRepository
	jwtSecret         string
	accessExpiration  time.Duration
	refreshExpiration time.Duration
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string,
	accessExpiration, refreshExpiration time.Duration) *AuthService {
	return &AuthService{
		userRepo:          userRepo,
		jwtSecret:         jwtSecret,
		accessExpiration:  accessExpiration,
		refreshExpiration: refreshExpiration,
	}
}

func validatePassword(password string) *FieldError {
	if len(password) < 8 {
		return &FieldError{Field: "password", Message: "Password must be at least 8 characters long."}
	}
	if !letterRegexp.MatchString(password) {
		return &FieldError{Field: "password", Message: "Password must contain at least one alphabet."}
	}
	if !digitRegexp.MatchString(password) {
		return &FieldError{Field: "password", Message: "Password must contain at least one digit."}
	}
	if !specialRegexp.MatchString(password) {
		return &FieldError{Field: "password", Message: "Password must contain at least one special character."}
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, dto domain.RegisterUserDTO) (*domain.User, error) {
	if fieldErr := validatePassword(dto.Password); fieldErr != nil {
		return nil, fieldErr
	}
	if dto.Password != dto.Password2 {
		return nil, &FieldError{Field: "password2", Message: "Password fields did not match."}
	}

	emailTaken, err := s.userRepo.ExistsByEmail(ctx, dto.Email)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi kiểm tra email: %w", err)
	}
	if emailTaken {
		return nil, &FieldError{Field: "email", Message: "User with this email already exists."}
	}

	phoneTaken, err := s.userRepo.ExistsByPhoneNumber(ctx, dto.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi kiểm tra số điện thoại: %w", err)
	}
	if phoneTaken {
		return nil, &FieldError{Field: "phone_number", Message: "User with this phone_number already exists."}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("lỗi hash mật khẩu: %w", err)
	}

	user := &domain.User{
		Username:    dto.Email, // Username đặt bằng email khi đăng ký
		Password:    string(hashedPassword),
		FirstName:   dto.FirstName,
		LastName:    dto.LastName,
		Email:       dto.Email,
		PhoneNumber: dto.PhoneNumber,
		IsActive:    true,
	}

	createdUser, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("lỗi khi tạo người dùng: %w", err)
	}
	createdUser.Password = "" // Không trả về password hash
	return createdUser, nil
}

func (s *AuthService) Login(ctx context.Context, dto domain.LoginUserDTO) (*domain.LoginResponseDTO, error) {
	user, err := s.userRepo.FindByEmailOrPhone(ctx, dto.Username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotExists
		}
		return nil, fmt.Errorf("lỗi khi tìm người dùng: %w", err)
	}

	// So sánh mật khẩu đã hash
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, err
	}

	return &domain.LoginResponseDTO{
		Status:       true,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PhoneNumber:  user.PhoneNumber,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *AuthService) generateTokenPair(user *domain.User) (*domain.TokenPairDTO, error) {
	accessToken, err := s.signToken(user, tokenTypeAccess, s.accessExpiration)
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo access token: %w", err)
	}
	refreshToken, err := s.signToken(user, tokenTypeRefresh, s.refreshExpiration)
	if err != nil {
		return nil, fmt.Errorf("lỗi tạo refresh token: %w", err)
	}
	return &domain.TokenPairDTO{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *AuthService) signToken(user *domain.User, tokenType string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      strconv.Itoa(user.ID),
		"exp":      now.Add(expiration).Unix(),
		"iat":      now.Unix(),
		"typ":      tokenType,
		"email":    user.Email,
		"is_staff": user.IsStaff,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// Refresh cấp một cặp token mới (rotate cả refresh token) từ refresh token hợp lệ.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*domain.TokenPairDTO, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	userIDStr, _ := claims["sub"].(string)
	userID, err := strconv.Atoi(userIDStr)
	if err != nil {
		return nil, fmt.Errorf("%w: subject không hợp lệ", ErrTokenInvalid)
	}

	// User phải còn tồn tại và active thì mới được cấp token mới
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("lỗi khi tìm người dùng: %w", err)
	}
	if !user.IsActive {
		return nil, ErrTokenInvalid
	}

	return s.generateTokenPair(user)
}

// ValidateAccessToken dùng cho middleware; từ chối token không phải loại access.
func (s *AuthService) ValidateAccessToken(tokenString string) (jwt.MapClaims, error) {
	return s.parseToken(tokenString, tokenTypeAccess)
}

func (s *AuthService) parseToken(tokenString string, expectedType string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("phương thức ký không mong muốn: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: token có định dạng sai", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token đã hết hạn", ErrTokenInvalid)
		} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, fmt.Errorf("%w: token chưa hợp lệ", ErrTokenInvalid)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if tokenType, _ := claims["typ"].(string); tokenType != expectedType {
		return nil, fmt.Errorf("%w: sai loại token", ErrTokenInvalid)
	}
	return claims, nil
}
