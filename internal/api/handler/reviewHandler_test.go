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
	"reviewhub/internal/api/service"
	"reviewhub/internal/authz"
)

// MockReviewService mocks the ReviewService interface
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PaginatedReviewResponse), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Create(ctx context.Context, actor authz.Actor, titleID int64, req *dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req *dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

func (m *MockReviewService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error {
	args := m.Called(ctx, actor, titleID, reviewID)
	return args.Error(0)
}

func setupReviewRouter(mockService *MockReviewService, actor authz.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(actorMiddleware(actor))
	v1 := r.Group("/api/v1")
	handler.NewReviewHandler(mockService).RegisterRoutes(v1)
	return r
}

func TestReviewHandler_List_Anonymous(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, anonActor)

	expected := dto.NewPaginatedReviewResponse([]dto.ReviewResponse{
		{ID: 1, Text: "great", Author: "alice", Score: 9},
	}, 1, 1, 20)
	mockService.On("ListByTitle", mock.Anything, int64(1), 1, 20).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/titles/1/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &response)
	data := response["data"].([]interface{})
	assert.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "alice", first["author"])
}

func TestReviewHandler_Create_RequiresAuth(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, anonActor)

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "great", Score: intPtr(8)})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandler_Create_Success(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, userActor)

	mockService.On("Create", mock.Anything, userActor, int64(1), mock.MatchedBy(func(req *dto.CreateReviewDTO) bool {
		return req.Text == "great" && *req.Score == 8
	})).Return(&dto.ReviewResponse{ID: 7, Text: "great", Author: "alice", Score: 8}, nil).Once()

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "great", Score: intPtr(8)})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewHandler_Create_Duplicate(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, userActor)

	mockService.On("Create", mock.Anything, userActor, int64(1), mock.Anything).
		Return(nil, service.ErrAlreadyReviewed).Once()

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "again", Score: intPtr(5)})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReviewHandler_Create_MissingScore(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, userActor)

	body, _ := json.Marshal(map[string]interface{}{"text": "no score"})
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/titles/1/reviews", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewHandler_Update_Forbidden(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, userActor)

	mockService.On("Update", mock.Anything, userActor, int64(1), int64(7), mock.Anything).
		Return(nil, service.ErrForbidden).Once()

	body, _ := json.Marshal(dto.UpdateReviewDTO{Score: intPtr(2)})
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/titles/1/reviews/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestReviewHandler_Update_Moderator(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, modActor)

	mockService.On("Update", mock.Anything, modActor, int64(1), int64(7), mock.Anything).
		Return(&dto.ReviewResponse{ID: 7, Text: "removed", Author: "alice", Score: 1}, nil).Once()

	body, _ := json.Marshal(map[string]interface{}{"text": "removed"})
	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/titles/1/reviews/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestReviewHandler_Delete_NotFound(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, userActor)

	mockService.On("Delete", mock.Anything, userActor, int64(1), int64(99)).
		Return(service.ErrReviewNotFound).Once()

	req, _ := http.NewRequest(http.MethodDelete, "/api/v1/titles/1/reviews/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReviewHandler_Put_MethodNotAllowed(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, userActor)

	body, _ := json.Marshal(dto.CreateReviewDTO{Text: "full replace", Score: intPtr(5)})
	req, _ := http.NewRequest(http.MethodPut, "/api/v1/titles/1/reviews/7", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestReviewHandler_InvalidTitleID(t *testing.T) {
	mockService := new(MockReviewService)
	r := setupReviewRouter(mockService, anonActor)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/titles/abc/reviews", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
