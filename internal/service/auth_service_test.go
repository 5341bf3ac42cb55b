package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bhardwajj01/parkingrevolution/internal/domain"
	"github.com/bhardwajj01/parkingrevolution/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	seq   int
	users map[int]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.seq++
	user.ID = r.seq
	user.DateJoined = time.Now().UTC()
	stored := *user
	r.users[user.ID] = &stored
	return user, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	found := *user
	return &found, nil
}

func (r *fakeUserRepo) FindByEmailOrPhone(_ context.Context, identifier string) (*domain.User, error) {
	for id := 1; id <= r.seq; id++ {
		user, ok := r.users[id]
		if ok && (user.Email == identifier || user.PhoneNumber == identifier) {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range r.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) ExistsByPhoneNumber(_ context.Context, phoneNumber string) (bool, error) {
	for _, user := range r.users {
		if user.PhoneNumber == phoneNumber {
			return true, nil
		}
	}
	return false, nil
}

func newTestAuthService(userRepo repository.UserRepository) *AuthService {
	return NewAuthService(userRepo, "test-secret", time.Hour, 24*time.Hour)
}

func validRegisterDTO() domain.RegisterUserDTO {
	return domain.RegisterUserDTO{
		FirstName:   "Nguyen",
		LastName:    "An",
		Email:       "an.nguyen@example.com",
		PhoneNumber: "0901234567",
		Password:    "Matkhau1!",
		Password2:   "Matkhau1!",
	}
}

func TestRegister_PasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		password string
		message  string
	}{
		{"too short", "Ab1!", "Password must be at least 8 characters long."},
		{"no letter", "12345678!", "Password must contain at least one alphabet."},
		{"no digit", "Abcdefgh!", "Password must contain at least one digit."},
		{"no special char", "Abcdefg1", "Password must contain at least one special character."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestAuthService(newFakeUserRepo())
			dto := validRegisterDTO()
			dto.Password = tt.password
			dto.Password2 = tt.password

			_, err := s.Register(context.Background(), dto)
			var fieldErr *FieldError
			require.ErrorAs(t, err, &fieldErr)
			assert.Equal(t, "password", fieldErr.Field)
			assert.Equal(t, tt.message, fieldErr.Message)
		})
	}
}

func TestRegister_PasswordConfirmationMismatch(t *testing.T) {
	s := newTestAuthService(newFakeUserRepo())
	dto := validRegisterDTO()
	dto.Password2 = "KhacMatkhau1!"

	_, err := s.Register(context.Background(), dto)
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "password2", fieldErr.Field)
}

func TestRegister_Success(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo)

	user, err := s.Register(context.Background(), validRegisterDTO())
	require.NoError(t, err)
	assert.Equal(t, "an.nguyen@example.com", user.Username, "username phải bằng email")
	assert.Empty(t, user.Password)
	assert.True(t, user.IsActive)

	stored := repo.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "Matkhau1!", stored.Password, "không được lưu plaintext")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("Matkhau1!")))
}

func TestRegister_DuplicateEmailAndPhone(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo)

	_, err := s.Register(context.Background(), validRegisterDTO())
	require.NoError(t, err)

	_, err = s.Register(context.Background(), validRegisterDTO())
	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "email", fieldErr.Field)
	assert.Equal(t, "User with this email already exists.", fieldErr.Message)

	dto := validRegisterDTO()
	dto.Email = "khac@example.com"
	_, err = s.Register(context.Background(), dto)
	require.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, "phone_number", fieldErr.Field)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo)
	_, err := s.Register(context.Background(), validRegisterDTO())
	require.NoError(t, err)

	t.Run("by email", func(t *testing.T) {
		resp, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "an.nguyen@example.com", Password: "Matkhau1!"})
		require.NoError(t, err)
		assert.True(t, resp.Status)
		assert.Equal(t, "Nguyen", resp.FirstName)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
	})

	t.Run("by phone number", func(t *testing.T) {
		resp, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "0901234567", Password: "Matkhau1!"})
		require.NoError(t, err)
		assert.Equal(t, "an.nguyen@example.com", resp.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "an.nguyen@example.com", Password: "SaiMatkhau1!"})
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "khongton@example.com", Password: "Matkhau1!"})
		assert.ErrorIs(t, err, ErrUserNotExists)
	})
}

func TestValidateAccessToken(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo)
	_, err := s.Register(context.Background(), validRegisterDTO())
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "an.nguyen@example.com", Password: "Matkhau1!"})
	require.NoError(t, err)

	claims, err := s.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "1", claims["sub"])
	assert.Equal(t, "an.nguyen@example.com", claims["email"])

	// Refresh token không được chấp nhận như access token
	_, err = s.ValidateAccessToken(resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = s.ValidateAccessToken("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefresh(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo)
	_, err := s.Register(context.Background(), validRegisterDTO())
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "an.nguyen@example.com", Password: "Matkhau1!"})
	require.NoError(t, err)

	pair, err := s.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	_, err = s.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)

	// Access token không dùng được cho refresh
	_, err = s.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// User đã bị xóa thì refresh token không còn giá trị
	delete(repo.users, 1)
	_, err = s.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefresh_InactiveUser(t *testing.T) {
	repo := newFakeUserRepo()
	s := newTestAuthService(repo)
	_, err := s.Register(context.Background(), validRegisterDTO())
	require.NoError(t, err)

	resp, err := s.Login(context.Background(), domain.LoginUserDTO{Username: "an.nguyen@example.com", Password: "Matkhau1!"})
	require.NoError(t, err)

	repo.users[1].IsActive = false
	_, err = s.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestFieldErrorMessage(t *testing.T) {
	err := &FieldError{Field: "email", Message: "User with this email already exists."}
	assert.Equal(t, "email: User with this email already exists.", err.Error())
	assert.False(t, errors.Is(err, ErrUserNotExists))
}
