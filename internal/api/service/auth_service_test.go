package service

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"bookhub/internal/api/models"
	"bookhub/internal/config"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

// MockRefreshTokenRepository mocks the RefreshTokenRepository interface
type MockRefreshTokenRepository struct {
	mock.Mock
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	args := m.Called(token)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) FindByToken(tokenString string) (*models.RefreshToken, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func testAuthService(userRepo *MockUserRepository, tokenRepo *MockRefreshTokenRepository) AuthService {
	cfg := &config.Config{
		JWTSecret:       "test-secret-key-that-is-long-enough",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
	return NewAuthService(userRepo, tokenRepo, cfg)
}

func hashedTestPassword(t *testing.T, password string) string {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := testAuthService(userRepo, new(MockRefreshTokenRepository))

		userRepo.On("FindByUsername", "newuser").Return(nil, gorm.ErrRecordNotFound).Once()
		userRepo.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
		userRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
			return u.Username == "newuser" && u.Role == "user" && u.Password != "secret123"
		})).Return(nil).Once()

		user, err := svc.Register("newuser", "secret123", "new@example.com")

		require.NoError(t, err)
		assert.Equal(t, "user", user.Role)
		assert.NotEmpty(t, user.ID)
		// password is stored hashed and verifies
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("secret123")))
		userRepo.AssertExpectations(t)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := testAuthService(userRepo, new(MockRefreshTokenRepository))

		userRepo.On("FindByUsername", "taken").Return(&models.User{Username: "taken"}, nil).Once()

		_, err := svc.Register("taken", "secret123", "x@example.com")
		assert.ErrorIs(t, err, ErrNameInUse)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := testAuthService(userRepo, new(MockRefreshTokenRepository))

		userRepo.On("FindByUsername", "fresh").Return(nil, gorm.ErrRecordNotFound).Once()
		userRepo.On("FindByEmail", "taken@example.com").Return(&models.User{}, nil).Once()

		_, err := svc.Register("fresh", "secret123", "taken@example.com")
		assert.ErrorIs(t, err, ErrEmailInUse)
	})
}

func TestAuthService_Login(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := testAuthService(userRepo, tokenRepo)

		user := &models.User{
			ID:       "user-1",
			Username: "reader",
			Password: hashedTestPassword(t, "secret123"),
			Role:     "user",
		}
		userRepo.On("FindByUsername", "reader").Return(user, nil).Once()
		tokenRepo.On("Create", mock.MatchedBy(func(rt *models.RefreshToken) bool {
			return rt.UserID == "user-1" && rt.Token != "" && rt.ExpiresAt.After(time.Now())
		})).Return(nil).Once()

		access, refresh, loggedIn, err := svc.Login("reader", "secret123")

		require.NoError(t, err)
		assert.NotEmpty(t, access)
		assert.NotEmpty(t, refresh)
		assert.Equal(t, "reader", loggedIn.Username)

		// the issued access token round-trips through validation
		claims, err := svc.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
		assert.Equal(t, "reader", claims.Username)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := testAuthService(userRepo, new(MockRefreshTokenRepository))

		user := &models.User{ID: "user-1", Username: "reader", Password: hashedTestPassword(t, "secret123")}
		userRepo.On("FindByUsername", "reader").Return(user, nil).Once()

		_, _, _, err := svc.Login("reader", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		svc := testAuthService(userRepo, new(MockRefreshTokenRepository))

		userRepo.On("FindByUsername", "nobody").Return(nil, gorm.ErrRecordNotFound).Once()

		_, _, _, err := svc.Login("nobody", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshAccessToken(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		tokenRepo := new(MockRefreshTokenRepository)
		svc := testAuthService(userRepo, tokenRepo)

		stored := &models.RefreshToken{
			ID:        "token-1",
			UserID:    "user-1",
			Token:     "refresh-abc",
			ExpiresAt: time.Now().Add(time.Hour),
		}
		tokenRepo.On("FindByToken", "refresh-abc").Return(stored, nil).Once()
		userRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1", Username: "reader", Role: "user"}, nil).Once()

		access, err := svc.RefreshAccessToken("refresh-abc")

		require.NoError(t, err)
		claims, err := svc.ValidateToken(access)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("Revoked", func(t *testing.T) {
		tokenRepo := new(MockRefreshTokenRepository)
		svc := testAuthService(new(MockUserRepository), tokenRepo)

		stored := &models.RefreshToken{
			ID:        "token-1",
			UserID:    "user-1",
			Token:     "refresh-abc",
			ExpiresAt: time.Now().Add(time.Hour),
			Revoked:   true,
		}
		tokenRepo.On("FindByToken", "refresh-abc").Return(stored, nil).Once()

		_, err := svc.RefreshAccessToken("refresh-abc")
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		tokenRepo := new(MockRefreshTokenRepository)
		svc := testAuthService(new(MockUserRepository), tokenRepo)

		stored := &models.RefreshToken{
			ID:        "token-1",
			UserID:    "user-1",
			Token:     "refresh-old",
			ExpiresAt: time.Now().Add(-time.Hour),
		}
		tokenRepo.On("FindByToken", "refresh-old").Return(stored, nil).Once()
		tokenRepo.On("Delete", "token-1").Return(nil).Once()

		_, err := svc.RefreshAccessToken("refresh-old")
		assert.Error(t, err)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("Unknown", func(t *testing.T) {
		tokenRepo := new(MockRefreshTokenRepository)
		svc := testAuthService(new(MockUserRepository), tokenRepo)

		tokenRepo.On("FindByToken", "bogus").Return(nil, errors.New("not found")).Once()

		_, err := svc.RefreshAccessToken("bogus")
		assert.Error(t, err)
	})
}

func TestAuthService_RevokeToken(t *testing.T) {
	tokenRepo := new(MockRefreshTokenRepository)
	svc := testAuthService(new(MockUserRepository), tokenRepo)

	stored := &models.RefreshToken{ID: "token-1", Token: "refresh-abc"}
	tokenRepo.On("FindByToken", "refresh-abc").Return(stored, nil).Once()
	tokenRepo.On("Revoke", "token-1").Return(nil).Once()

	assert.NoError(t, svc.RevokeToken("refresh-abc"))
	tokenRepo.AssertExpectations(t)
}

func TestAuthService_ValidateToken(t *testing.T) {
	svc := testAuthService(new(MockUserRepository), new(MockRefreshTokenRepository))

	t.Run("Garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), &config.Config{
			JWTSecret:      "a-completely-different-secret-key!!",
			AccessTokenTTL: time.Minute,
		})
		otherImpl := other.(*authService)
		token, err := otherImpl.generateAccessToken(&models.User{ID: "u", Username: "x", Role: "user"})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
