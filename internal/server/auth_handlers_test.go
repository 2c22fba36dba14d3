package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxpop/internal/auth"
	"voxpop/internal/config"
	"voxpop/internal/models"
	"voxpop/internal/service"

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

func testTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(&config.Config{
		SecretKey:   "test-secret-key-12345678901234567890123456789012",
		Algorithm:   "HS256",
		TokenTTLMin: 30,
	})
	require.NoError(t, err)
	return tokens
}

func TestLogin(t *testing.T) {
	digest, err := auth.HashPassword("Password123!")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").
		Return(&models.User{ID: 1, Email: "test@example.com", Password: digest}, nil)
	mockRepo.On("GetByEmail", mock.Anything, "unknown@example.com").
		Return(nil, nil)

	s := &Server{
		config:      &config.Config{},
		tokens:      testTokenService(t),
		userRepo:    mockRepo,
		userService: service.NewUserService(mockRepo),
	}

	app := fiber.New()
	app.Post("/login", s.Login)

	tests := []struct {
		name           string
		form           string
		expectedStatus int
	}{
		{
			name:           "Success",
			form:           "username=test@example.com&password=Password123!",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Wrong Password",
			form:           "username=test@example.com&password=wrong",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Unknown Email",
			form:           "username=unknown@example.com&password=Password123!",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Missing Fields",
			form:           "username=test@example.com",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.form))
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body struct {
					AccessToken string `json:"access_token"`
					TokenType   string `json:"token_type"`
				}
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, "bearer", body.TokenType)

				userID, verr := s.tokens.Verify(body.AccessToken)
				require.NoError(t, verr)
				assert.Equal(t, uint(1), userID)
			}
		})
	}
}

func TestLoginFailureDoesNotLeakWhichPartFailed(t *testing.T) {
	digest, err := auth.HashPassword("Password123!")
	require.NoError(t, err)

	mockRepo := new(MockUserRepository)
	mockRepo.On("GetByEmail", mock.Anything, "test@example.com").
		Return(&models.User{ID: 1, Email: "test@example.com", Password: digest}, nil)
	mockRepo.On("GetByEmail", mock.Anything, "unknown@example.com").
		Return(nil, nil)

	s := &Server{
		config:      &config.Config{},
		tokens:      testTokenService(t),
		userRepo:    mockRepo,
		userService: service.NewUserService(mockRepo),
	}

	app := fiber.New()
	app.Post("/login", s.Login)

	readBody := func(form string) string {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		resp, err := app.Test(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(resp.Body)
		return buf.String()
	}

	wrongPassword := readBody("username=test@example.com&password=wrong")
	unknownEmail := readBody("username=unknown@example.com&password=whatever")
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestCreateUser(t *testing.T) {
	mockRepo := new(MockUserRepository)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "new@example.com"
	})).Return(nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Email == "exists@example.com"
	})).Return(models.NewConflictError("User already exists"))

	s := &Server{
		config:      &config.Config{},
		userService: service.NewUserService(mockRepo),
	}

	app := fiber.New()
	app.Post("/users", s.CreateUser)

	tests := []struct {
		name           string
		body           map[string]string
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           map[string]string{"email": "new@example.com", "password": "Password123!"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Duplicate Email",
			body:           map[string]string{"email": "exists@example.com", "password": "Password123!"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Missing Password",
			body:           map[string]string{"email": "new@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid Email",
			body:           map[string]string{"email": "nope", "password": "Password123!"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusCreated {
				raw, _ := io.ReadAll(resp.Body)
				assert.NotContains(t, string(raw), "password")
				assert.NotContains(t, string(raw), "Password123!")
			}
		})
	}
}
