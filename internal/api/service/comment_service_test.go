package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/authz"
)

// MockCommentRepository mocks the CommentRepository interface
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Update(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(commentID int64) error {
	args := m.Called(commentID)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(commentID int64) (*models.Comment, error) {
	args := m.Called(commentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) GetByReview(reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	args := m.Called(reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Comment), args.Get(1).(int64), args.Error(2)
}

func newCommentServiceForTest(t *testing.T) (CommentService, *MockCommentRepository, *MockReviewRepository, *MockTitleFinder) {
	t.Helper()
	mockCommentRepo := new(MockCommentRepository)
	mockReviewRepo := new(MockReviewRepository)
	mockTitleFinder := new(MockTitleFinder)
	return NewCommentService(mockCommentRepo, mockReviewRepo, mockTitleFinder), mockCommentRepo, mockReviewRepo, mockTitleFinder
}

func TestCreateComment_Success(t *testing.T) {
	svc, mockCommentRepo, mockReviewRepo, mockTitleFinder := newCommentServiceForTest(t)
	actor := authz.Actor{ID: "user-id", Role: models.RoleUser, Authenticated: true}

	mockTitleFinder.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	mockReviewRepo.On("GetByID", int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)
	mockCommentRepo.On("Create", mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = 3
	}).Return(nil)
	mockCommentRepo.On("GetByID", int64(3)).Return(&models.Comment{
		ID:       3,
		ReviewID: 7,
		AuthorID: "user-id",
		Text:     "agreed",
		Author:   models.User{Username: "alice"},
	}, nil)

	resp, err := svc.Create(context.Background(), actor, 1, 7, &dto.CreateCommentDTO{Text: "agreed"})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), resp.ID)
	assert.Equal(t, "alice", resp.Author)
	mockCommentRepo.AssertExpectations(t)
}

func TestCreateComment_ReviewUnderWrongTitle(t *testing.T) {
	svc, mockCommentRepo, mockReviewRepo, mockTitleFinder := newCommentServiceForTest(t)
	actor := authz.Actor{ID: "user-id", Authenticated: true}

	mockTitleFinder.On("GetByID", mock.Anything, int64(2)).Return(&models.Title{ID: 2}, nil)
	mockReviewRepo.On("GetByID", int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)

	_, err := svc.Create(context.Background(), actor, 2, 7, &dto.CreateCommentDTO{Text: "lost"})

	assert.Equal(t, ErrReviewNotFound, err)
	mockCommentRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestGetComment_WrongReviewIsNotFound(t *testing.T) {
	svc, mockCommentRepo, mockReviewRepo, mockTitleFinder := newCommentServiceForTest(t)

	mockTitleFinder.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	mockReviewRepo.On("GetByID", int64(8)).Return(&models.Review{ID: 8, TitleID: 1}, nil)
	mockCommentRepo.On("GetByID", int64(3)).Return(&models.Comment{ID: 3, ReviewID: 7}, nil)

	_, err := svc.Get(context.Background(), 1, 8, 3)

	assert.Equal(t, ErrCommentNotFound, err)
}

func TestDeleteComment_StrangerForbidden(t *testing.T) {
	svc, mockCommentRepo, mockReviewRepo, mockTitleFinder := newCommentServiceForTest(t)
	actor := authz.Actor{ID: "other-id", Role: models.RoleUser, Authenticated: true}

	mockTitleFinder.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	mockReviewRepo.On("GetByID", int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)
	mockCommentRepo.On("GetByID", int64(3)).Return(&models.Comment{ID: 3, ReviewID: 7, AuthorID: "user-id"}, nil)

	err := svc.Delete(context.Background(), actor, 1, 7, 3)

	assert.Equal(t, ErrForbidden, err)
	mockCommentRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteComment_AdminDeletesAny(t *testing.T) {
	svc, mockCommentRepo, mockReviewRepo, mockTitleFinder := newCommentServiceForTest(t)
	actor := authz.Actor{ID: "admin-id", Role: models.RoleAdmin, Authenticated: true}

	mockTitleFinder.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	mockReviewRepo.On("GetByID", int64(7)).Return(&models.Review{ID: 7, TitleID: 1}, nil)
	mockCommentRepo.On("GetByID", int64(3)).Return(&models.Comment{ID: 3, ReviewID: 7, AuthorID: "user-id"}, nil)
	mockCommentRepo.On("Delete", int64(3)).Return(nil)

	err := svc.Delete(context.Background(), actor, 1, 7, 3)

	assert.NoError(t, err)
	mockCommentRepo.AssertExpectations(t)
}

func TestListComments_TitleGone(t *testing.T) {
	svc, _, _, mockTitleFinder := newCommentServiceForTest(t)

	mockTitleFinder.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.ListByReview(context.Background(), 99, 7, 1, 20)

	assert.Equal(t, ErrTitleNotFound, err)
}
