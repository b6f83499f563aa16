package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskboard/internal/audit"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	user := args.Get(0)
	if user == nil {
		return nil, args.Error(1)
	}
	return user.(*model.User), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, q string, limit int) ([]model.User, error) {
	args := m.Called(ctx, q, limit)
	users := args.Get(0)
	if users == nil {
		return nil, args.Error(1)
	}
	return users.([]model.User), args.Error(1)
}

type nopAuditStore struct{}

func (nopAuditStore) Create(context.Context, *model.AuditLog) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:    "test-secret",
		SessionHours: 1,
	}
}

func setupAuthTest() (*gin.Engine, *MockUserRepository) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mockRepo := new(MockUserRepository)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := audit.NewRecorder(nopAuditStore{}, log)
	base := handler.NewBase(mockRepo, nil, recorder)
	authHandler := handler.NewAuthHandler(base, testConfig())

	r.POST("/register", authHandler.Register)
	r.POST("/login", authHandler.Login)

	return r, mockRepo
}

func postJSON(router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	jsonBody, _ := json.Marshal(body)
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewBuffer(jsonBody))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestRegister_Success(t *testing.T) {
	router, mockRepo := setupAuthTest()

	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, nil)
	mockRepo.On("FindByUsername", mock.Anything, "tester").Return(nil, nil)
	mockRepo.On("Count", mock.Anything).Return(int64(3), nil)
	mockRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)

	resp := postJSON(router, "/register", handler.RegisterRequest{
		Username: "tester",
		Email:    "Test@Example.com",
		Name:     "Test User",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, "tester", response.User.Username)
	assert.Equal(t, "test@example.com", response.User.Email)
	assert.Equal(t, model.SystemRoleUser, response.User.SystemRole)

	// Session cookie must be set alongside the body token.
	cookies := resp.Result().Cookies()
	assert.NotEmpty(t, cookies)
	assert.Equal(t, "session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	mockRepo.AssertExpectations(t)
}

func TestRegister_FirstUserBecomesAdmin(t *testing.T) {
	router, mockRepo := setupAuthTest()

	mockRepo.On("FindByEmail", mock.Anything, "first@example.com").Return(nil, nil)
	mockRepo.On("FindByUsername", mock.Anything, "first").Return(nil, nil)
	mockRepo.On("Count", mock.Anything).Return(int64(0), nil)
	mockRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.SystemRole == model.SystemRoleAdmin
	})).Return(nil)

	resp := postJSON(router, "/register", handler.RegisterRequest{
		Username: "first",
		Email:    "first@example.com",
		Name:     "First User",
		Password: "password123",
	})

	assert.Equal(t, http.StatusCreated, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.Equal(t, model.SystemRoleAdmin, response.User.SystemRole)

	mockRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	router, mockRepo := setupAuthTest()

	existing := &model.User{ID: uuid.New(), Email: "taken@example.com"}
	mockRepo.On("FindByEmail", mock.Anything, "taken@example.com").Return(existing, nil)

	resp := postJSON(router, "/register", handler.RegisterRequest{
		Username: "newuser",
		Email:    "taken@example.com",
		Name:     "New User",
		Password: "password123",
	})

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Contains(t, resp.Body.String(), "message")
	mockRepo.AssertExpectations(t)
}

func TestRegister_ValidationErrors(t *testing.T) {
	router, _ := setupAuthTest()

	resp := postJSON(router, "/register", handler.RegisterRequest{
		Username: "ab", // below min
		Email:    "not-an-email",
		Name:     "X",
		Password: "123",
	})

	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var body map[string]any
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Contains(t, body, "message")
	fields, ok := body["fields"].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "password")
}

func TestLogin_Success(t *testing.T) {
	router, mockRepo := setupAuthTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Username:       "tester",
		Email:          "test@example.com",
		Name:           "Test User",
		HashedPassword: string(hash),
		SystemRole:     model.SystemRoleUser,
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "password123",
	})

	assert.Equal(t, http.StatusOK, resp.Code)

	var response handler.AuthResponse
	assert.NoError(t, json.Unmarshal(resp.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
	assert.Equal(t, user.Username, response.User.Username)
	mockRepo.AssertExpectations(t)
}

func TestLogin_WrongPassword(t *testing.T) {
	router, mockRepo := setupAuthTest()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	user := &model.User{
		ID:             uuid.New(),
		Email:          "test@example.com",
		HashedPassword: string(hash),
	}
	mockRepo.On("FindByEmail", mock.Anything, "test@example.com").Return(user, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "test@example.com",
		Password: "wrong-password",
	})

	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
	mockRepo.AssertExpectations(t)
}

func TestLogin_UnknownEmail(t *testing.T) {
	router, mockRepo := setupAuthTest()

	mockRepo.On("FindByEmail", mock.Anything, "missing@example.com").Return(nil, nil)

	resp := postJSON(router, "/login", handler.LoginRequest{
		Email:    "missing@example.com",
		Password: "whatever1",
	})

	// Unknown account and bad password are indistinguishable on the wire.
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
	mockRepo.AssertExpectations(t)
}
