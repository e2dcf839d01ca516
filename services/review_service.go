package services

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/repository"
)

type ReviewService struct {
	store repository.Store
}

func NewReviewService(store repository.Store) *ReviewService {
	return &ReviewService{store: store}
}

func validRating(r int) bool {
	return r >= models.MinRating && r <= models.MaxRating
}

func normalizeComment(c *string) *string {
	if c == nil {
		return nil
	}
	v := strings.TrimSpace(*c)
	if v == "" {
		return nil
	}
	return &v
}

// ListReviews returns the course's reviews newest first.
func (s *ReviewService) ListReviews(ctx context.Context, courseID uuid.UUID) ([]ReviewView, error) {
	reviews, err := s.store.ListReviewsByCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	return s.withReviewers(ctx, reviews)
}

// GetRatingSummary returns the review count and the average rating rounded to
// one decimal.
func (s *ReviewService) GetRatingSummary(ctx context.Context, courseID uuid.UUID) (RatingSummary, error) {
	reviews, err := s.store.ListReviewsByCourse(ctx, courseID)
	if err != nil {
		return RatingSummary{}, err
	}
	summary := RatingSummary{Count: len(reviews)}
	if len(reviews) > 0 {
		total := 0
		for _, r := range reviews {
			total += r.Rating
		}
		summary.Average = math.Round(float64(total)/float64(len(reviews))*10) / 10
	}
	return summary, nil
}

func (s *ReviewService) withReviewers(ctx context.Context, reviews []models.Review) ([]ReviewView, error) {
	ids := make([]uuid.UUID, len(reviews))
	for i, r := range reviews {
		ids[i] = r.UserID
	}
	users, err := s.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		out[i] = ReviewView{Review: r}
		if u, ok := users[r.UserID]; ok {
			out[i].User = &ReviewerInfo{ID: u.ID, FullName: u.FullName, AvatarURL: u.AvatarURL}
		}
	}
	return out, nil
}

// CreateReview checks, in order: course exists, no previous review by this
// user, rating in range.
func (s *ReviewService) CreateReview(ctx context.Context, userID, courseID uuid.UUID, rating int, comment *string) (*ReviewView, error) {
	if _, err := getCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	if _, err := s.store.GetReviewByUserCourse(ctx, userID, courseID); err == nil {
		return nil, ErrDuplicateReview
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if !validRating(rating) {
		return nil, ErrInvalidRating
	}

	review := &models.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   rating,
		Comment:  normalizeComment(comment),
	}
	if err := s.store.CreateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	return s.view(ctx, review)
}

func (s *ReviewService) UpdateReview(ctx context.Context, userID, reviewID uuid.UUID, rating *int, comment *string) (*ReviewView, error) {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, ErrNotReviewOwnerEdit
	}
	if rating != nil {
		if !validRating(*rating) {
			return nil, ErrInvalidRating
		}
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = normalizeComment(comment)
	}
	if err := s.store.UpdateReview(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return s.view(ctx, review)
}

func (s *ReviewService) DeleteReview(ctx context.Context, userID, reviewID uuid.UUID) error {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID {
		return ErrNotReviewOwnerDel
	}
	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	return nil
}

func (s *ReviewService) getReview(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.store.GetReview(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	return review, err
}

func (s *ReviewService) view(ctx context.Context, review *models.Review) (*ReviewView, error) {
	views, err := s.withReviewers(ctx, []models.Review{*review})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}
