package service

import (
	"testing"
	"time"

	"leafhub/internal/config"
	"leafhub/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
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

func (m *MockRefreshTokenRepository) FindByToken(token string) (*models.RefreshToken, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshToken), args.Error(1)
}

func (m *MockRefreshTokenRepository) Revoke(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockRefreshTokenRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	svc := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByUsername", "alice").Return(nil, gorm.ErrRecordNotFound).Once()
	mockUserRepo.On("FindByEmail", "alice@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
	mockUserRepo.On("Create", mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "alice" && u.Email == "alice@example.com" && u.Password != "hunter22"
	})).Return(nil).Once()

	user, err := svc.Register("alice", "hunter22", " Alice@Example.COM ")

	assert.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	// Stored password must verify against the plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte("hunter22")))
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	mockUserRepo.On("FindByUsername", "alice").Return(&models.User{Username: "alice"}, nil).Once()

	_, err := svc.Register("alice", "hunter22", "alice@example.com")

	assert.ErrorIs(t, err, ErrNameInUse)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	mockUserRepo.On("FindByUsername", "bob").Return(nil, gorm.ErrRecordNotFound).Once()
	mockUserRepo.On("FindByEmail", "alice@example.com").Return(&models.User{Email: "alice@example.com"}, nil).Once()

	_, err := svc.Register("bob", "hunter22", "alice@example.com")

	assert.ErrorIs(t, err, ErrEmailInUse)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.DefaultCost)
	stored := &models.User{
		ID:       "11111111-1111-1111-1111-111111111111",
		Username: "alice",
		Email:    "alice@example.com",
		Password: string(hashed),
	}

	t.Run("Success", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockRefreshTokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

		mockUserRepo.On("FindByUsername", "alice").Return(stored, nil).Once()
		mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil).Once()

		accessToken, refreshToken, user, err := svc.Login("alice", "hunter22")

		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
		assert.NotEmpty(t, refreshToken)
		assert.Equal(t, stored.ID, user.ID)

		// The access token must round-trip through ValidateToken
		claims, err := svc.ValidateToken(accessToken)
		assert.NoError(t, err)
		assert.Equal(t, stored.ID, claims.UserID)
		assert.Equal(t, "alice", claims.Username)
		assert.Equal(t, "alice@example.com", claims.Email)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

		mockUserRepo.On("FindByUsername", "alice").Return(stored, nil).Once()

		_, _, _, err := svc.Login("alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		svc := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

		mockUserRepo.On("FindByUsername", "mallory").Return(nil, gorm.ErrRecordNotFound).Once()

		_, _, _, err := svc.Login("mallory", "hunter22")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestValidateToken_Garbage(t *testing.T) {
	svc := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testAuthConfig())

	_, err := svc.ValidateToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	stored := &models.User{ID: "11111111-1111-1111-1111-111111111111", Username: "alice"}

	t.Run("Success", func(t *testing.T) {
		mockUserRepo := new(MockUserRepository)
		mockRefreshTokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

		mockRefreshTokenRepo.On("FindByToken", "refresh-1").Return(&models.RefreshToken{
			ID:        "token-id",
			UserID:    stored.ID,
			Token:     "refresh-1",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()
		mockUserRepo.On("FindByID", stored.ID).Return(stored, nil).Once()

		accessToken, err := svc.RefreshAccessToken("refresh-1")
		assert.NoError(t, err)
		assert.NotEmpty(t, accessToken)
	})

	t.Run("Revoked", func(t *testing.T) {
		mockRefreshTokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, testAuthConfig())

		mockRefreshTokenRepo.On("FindByToken", "refresh-2").Return(&models.RefreshToken{
			ID:        "token-id",
			Token:     "refresh-2",
			Revoked:   true,
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil).Once()

		_, err := svc.RefreshAccessToken("refresh-2")
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		mockRefreshTokenRepo := new(MockRefreshTokenRepository)
		svc := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, testAuthConfig())

		mockRefreshTokenRepo.On("FindByToken", "refresh-3").Return(&models.RefreshToken{
			ID:        "token-id",
			Token:     "refresh-3",
			ExpiresAt: time.Now().Add(-time.Hour),
		}, nil).Once()
		mockRefreshTokenRepo.On("Delete", "token-id").Return(nil).Once()

		_, err := svc.RefreshAccessToken("refresh-3")
		assert.Error(t, err)
		mockRefreshTokenRepo.AssertExpectations(t)
	})
}
