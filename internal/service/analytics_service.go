package service

import (
	"context"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/policy"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/google/uuid"
)

type AnalyticsService interface {
	Summary(ctx context.Context, userID uuid.UUID) (*dto.AnalyticsSummary, error)
}

type analyticsService struct {
	repo     repository.AnalyticsRepository
	userRepo repository.UserRepository
}

func NewAnalyticsService(repo repository.AnalyticsRepository, userRepo repository.UserRepository) AnalyticsService {
	return &analyticsService{repo: repo, userRepo: userRepo}
}

func (s *analyticsService) Summary(ctx context.Context, userID uuid.UUID) (*dto.AnalyticsSummary, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := policy.CanViewAnalytics(actor.Role); err != nil {
		return nil, err
	}

	usersByRole, err := s.repo.CountUsersByRole(ctx)
	if err != nil {
		return nil, err
	}

	submissionsByStatus, err := s.repo.CountSubmissionsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	totalReviews, err := s.repo.CountReviews(ctx)
	if err != nil {
		return nil, err
	}

	avgRating, err := s.repo.AverageRating(ctx)
	if err != nil {
		return nil, err
	}

	topLanguages, err := s.repo.TopLanguages(ctx, 5)
	if err != nil {
		return nil, err
	}

	summary := &dto.AnalyticsSummary{
		UsersByRole:         usersByRole,
		SubmissionsByStatus: submissionsByStatus,
		TotalReviews:        totalReviews,
		AverageRating:       avgRating,
	}
	for _, count := range usersByRole {
		summary.TotalUsers += count
	}
	for _, count := range submissionsByStatus {
		summary.TotalSubmissions += count
	}
	for _, row := range topLanguages {
		summary.TopLanguages = append(summary.TopLanguages, dto.LanguageCount{
			Language: row.Language,
			Count:    row.Count,
		})
	}

	return summary, nil
}
