package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"reviewhub/internal/api/dto"
	"reviewhub/internal/api/models"
	"reviewhub/internal/api/repository"
	"reviewhub/internal/authz"
	"reviewhub/internal/config"
)

type ReviewService interface {
	ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor authz.Actor, titleID int64, req *dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req *dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error
}

// TitleFinder is the slice of the title repository the nested resources need.
type TitleFinder interface {
	GetByID(ctx context.Context, id int64) (*models.Title, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  TitleFinder
	minScore   int
	maxScore   int
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo TitleFinder, cfg *config.Config) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		minScore:   cfg.MinScore,
		maxScore:   cfg.MaxScore,
	}
}

func (s *reviewService) ListByTitle(ctx context.Context, titleID int64, page, pageSize int) (*dto.PaginatedReviewResponse, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginatedReviewResponse(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.resolveReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Create(ctx context.Context, actor authz.Actor, titleID int64, req *dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := s.validateScore(*req.Score); err != nil {
		return nil, err
	}

	// Best-effort pre-check; the unique index is the actual guarantee.
	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(actor.ID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyReviewed
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    *req.Score,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrAlreadyReviewed
		}
		return nil, err
	}

	// Reload with author data
	review, err = s.reviewRepo.GetByID(review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Update(ctx context.Context, actor authz.Actor, titleID, reviewID int64, req *dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.resolveReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !authz.CanEditObject(actor, review.AuthorID) {
		return nil, ErrForbidden
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		if err := s.validateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}

	if err := s.reviewRepo.Update(review); err != nil {
		return nil, err
	}

	review, err = s.reviewRepo.GetByID(reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

func (s *reviewService) Delete(ctx context.Context, actor authz.Actor, titleID, reviewID int64) error {
	review, err := s.resolveReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !authz.CanEditObject(actor, review.AuthorID) {
		return ErrForbidden
	}
	return s.reviewRepo.Delete(review.ID)
}

func (s *reviewService) validateScore(score int) error {
	if score < s.minScore || score > s.maxScore {
		return ErrScoreOutOfRange
	}
	return nil
}

func (s *reviewService) resolveTitle(ctx context.Context, titleID int64) error {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTitleNotFound
		}
		return err
	}
	return nil
}

// resolveReview fetches a review and checks it belongs to the title in the
// URL; a mismatch reads as not found.
func (s *reviewService) resolveReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	if err := s.resolveTitle(ctx, titleID); err != nil {
		return nil, err
	}

	review, err := s.reviewRepo.GetByID(reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewNotFound
	}
	return review, nil
}
