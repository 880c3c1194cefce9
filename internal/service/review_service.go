package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/model"
	"github.com/codereviewlab/backend/internal/policy"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ReviewService interface {
	Create(ctx context.Context, reviewerID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewOut, error)
	ListForSubmission(ctx context.Context, userID, submissionID uuid.UUID) (*dto.ReviewListResponse, error)
}

type reviewService struct {
	reviewRepo     repository.ReviewRepository
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	notifications  NotificationService
	redisClient    *redis.Client
	rateLimit      time.Duration
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	notifications NotificationService,
	redisClient *redis.Client,
	rateLimit time.Duration,
) ReviewService {
	return &reviewService{
		reviewRepo:     reviewRepo,
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		notifications:  notifications,
		redisClient:    redisClient,
		rateLimit:      rateLimit,
	}
}

func (s *reviewService) Create(ctx context.Context, reviewerID uuid.UUID, req dto.CreateReviewRequest) (*dto.ReviewOut, error) {
	actor, err := s.userRepo.FindByID(ctx, reviewerID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := policy.CanReview(actor.Role); err != nil {
		return nil, fmt.Errorf("only mentors can create reviews: %w", err)
	}

	sub, err := s.submissionRepo.FindByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission %s not found: %w", req.SubmissionID, apperror.ErrNotFound)
		}
		return nil, err
	}

	allowed, err := CheckAndSetRateLimit(ctx, s.redisClient, reviewerID, "create_review", s.rateLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("please wait before posting another review: %w", apperror.ErrRateLimitExceeded)
	}

	review := &model.Review{
		SubmissionID:   req.SubmissionID,
		ReviewerID:     reviewerID,
		OverallComment: req.OverallComment,
		Rating:         req.Rating,
	}

	annotations := make([]model.Annotation, 0, len(req.Annotations))
	for _, ann := range req.Annotations {
		annotations = append(annotations, model.Annotation{
			LineNumber:  ann.LineNumber,
			CommentText: ann.CommentText,
		})
	}

	// One transaction: review, annotations and the status flip land together
	// or not at all.
	if err := s.reviewRepo.Create(ctx, review, annotations); err != nil {
		_ = ClearRateLimit(ctx, s.redisClient, reviewerID, "create_review")
		return nil, err
	}

	notification := &model.Notification{
		UserID:  sub.UserID,
		Message: fmt.Sprintf("%s reviewed your submission %q", actor.Name, sub.Title),
	}
	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		log.Printf("failed to notify user %s about review %s: %v", sub.UserID, review.ID, err)
	}

	review.Reviewer = *actor
	out := toReviewOut(review)
	return &out, nil
}

func (s *reviewService) ListForSubmission(ctx context.Context, userID, submissionID uuid.UUID) (*dto.ReviewListResponse, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	sub, err := s.submissionRepo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := policy.CanViewReviews(actor, sub); err != nil {
		return nil, fmt.Errorf("not authorized to view reviews for this submission: %w", err)
	}

	reviews, err := s.reviewRepo.FindBySubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ReviewOut, 0, len(reviews))
	for i := range reviews {
		out = append(out, toReviewOut(&reviews[i]))
	}

	return &dto.ReviewListResponse{
		SubmissionID: submissionID,
		Reviews:      out,
	}, nil
}

func toReviewOut(review *model.Review) dto.ReviewOut {
	annotations := make([]dto.AnnotationOut, 0, len(review.Annotations))
	for _, ann := range review.Annotations {
		annotations = append(annotations, dto.AnnotationOut{
			ID:          ann.ID,
			LineNumber:  ann.LineNumber,
			CommentText: ann.CommentText,
		})
	}

	return dto.ReviewOut{
		ID:           review.ID,
		SubmissionID: review.SubmissionID,
		Reviewer: dto.ReviewerOut{
			ID:   review.ReviewerID,
			Name: review.Reviewer.Name,
		},
		OverallComment: review.OverallComment,
		Rating:         review.Rating,
		CreatedAt:      review.CreatedAt,
		Annotations:    annotations,
	}
}
