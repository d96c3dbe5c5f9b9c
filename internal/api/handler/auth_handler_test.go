package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/handler"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/service"
)

// MockAuthService mocks the AuthService interface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, username, email string) (*models.User, bool, error) {
	args := m.Called(ctx, username, email)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.User), args.Bool(1), args.Error(2)
}

func (m *MockAuthService) IssueToken(ctx context.Context, username, code string) (string, error) {
	args := m.Called(ctx, username, code)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Claims), args.Error(1)
}

func setupAuthRouter(mockService *MockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	authGroup := r.Group("/api/v1/auth")
	handler.NewAuthHandler(mockService).RegisterRoutes(authGroup)
	return r
}

func TestAuthHandler_Signup_NewUser(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	mockService.On("Signup", mock.Anything, "alice", "alice@example.com").Return(user, true, nil).Once()

	body, _ := json.Marshal(dto.SignupRequest{Username: "alice", Email: "alice@example.com"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.SignupResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "alice", resp.Username)
	assert.Empty(t, resp.Message)
}

func TestAuthHandler_Signup_Resend(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	user := &models.User{Username: "alice", Email: "alice@example.com"}
	mockService.On("Signup", mock.Anything, "alice", "alice@example.com").Return(user, false, nil).Once()

	body, _ := json.Marshal(dto.SignupRequest{Username: "alice", Email: "alice@example.com"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.SignupResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NotEmpty(t, resp.Message)
}

func TestAuthHandler_Signup_ReservedUsername(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	mockService.On("Signup", mock.Anything, "me", "me@example.com").
		Return(nil, false, service.ErrUsernameReserved).Once()

	body, _ := json.Marshal(dto.SignupRequest{Username: "me", Email: "me@example.com"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Signup_BadEmail(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	body, _ := json.Marshal(map[string]string{"username": "alice", "email": "not-an-email"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/signup", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthHandler_Token_Success(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	mockService.On("IssueToken", mock.Anything, "alice", "the-code").Return("signed.jwt.token", nil).Once()

	body, _ := json.Marshal(dto.TokenRequest{Username: "alice", ConfirmationCode: "the-code"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.TokenResponse
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "signed.jwt.token", resp.Token)
}

func TestAuthHandler_Token_UnknownUser(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	mockService.On("IssueToken", mock.Anything, "ghost", "whatever").
		Return("", service.ErrUserNotFound).Once()

	body, _ := json.Marshal(dto.TokenRequest{Username: "ghost", ConfirmationCode: "whatever"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAuthHandler_Token_WrongCode(t *testing.T) {
	mockService := new(MockAuthService)
	r := setupAuthRouter(mockService)

	mockService.On("IssueToken", mock.Anything, "alice", "wrong").
		Return("", service.ErrInvalidCode).Once()

	body, _ := json.Marshal(dto.TokenRequest{Username: "alice", ConfirmationCode: "wrong"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/auth/token", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
