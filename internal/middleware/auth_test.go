package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voxpop/internal/auth"
	"voxpop/internal/config"
	"voxpop/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock of the repository.UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func newTestTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService(&config.Config{
		SecretKey:   "test-secret-key-12345678901234567890123456789012",
		Algorithm:   "HS256",
		TokenTTLMin: 30,
	})
	require.NoError(t, err)
	return svc
}

func TestAuthRequired(t *testing.T) {
	tokens := newTestTokenService(t)

	validToken, err := tokens.Issue(123)
	require.NoError(t, err)

	danglingToken, err := tokens.Issue(999)
	require.NoError(t, err)

	past := time.Now().Add(-2 * time.Hour)
	expiredToken, err := tokens.WithTimeFunc(func() time.Time { return past }).Issue(123)
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByID", mock.Anything, uint(123)).
		Return(&models.User{ID: 123, Email: "a@x.com"}, nil)
	mockRepo.On("GetByID", mock.Anything, uint(999)).
		Return(nil, models.NewNotFoundError("User", uint(999)))

	app := fiber.New()
	app.Get("/test", AuthRequired(tokens, mockRepo), func(c *fiber.Ctx) error {
		user := c.Locals("currentUser").(*models.User)
		return c.JSON(fiber.Map{"email": user.Email, "userID": c.Locals("userID")})
	})

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{
			name:           "Happy Path",
			authHeader:     "Bearer " + validToken,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Missing Header",
			authHeader:     "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid Format",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Garbage Token",
			authHeader:     "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Expired Token",
			authHeader:     "Bearer " + expiredToken,
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "User Deleted After Issuance",
			authHeader:     "Bearer " + danglingToken,
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
