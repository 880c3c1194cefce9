package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/codereviewlab/backend/internal/dto"
	"github.com/codereviewlab/backend/internal/policy"
	"github.com/codereviewlab/backend/internal/repository"
	"github.com/codereviewlab/backend/pkg/apperror"
	"github.com/codereviewlab/backend/pkg/llm"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type AIService interface {
	// Analyze runs an LLM pass over a submission's code and returns a summary
	// with per-line findings. Counts against the caller's daily quota.
	Analyze(ctx context.Context, userID uuid.UUID, req dto.AIAnalyzeRequest) (*dto.AIAnalysisOut, error)
	Quota(ctx context.Context, userID uuid.UUID) (*dto.AIQuotaOut, error)
}

type aiService struct {
	submissionRepo repository.SubmissionRepository
	userRepo       repository.UserRepository
	provider       llm.Provider
	redisClient    *redis.Client
	dailyQuota     int
}

func NewAIService(
	submissionRepo repository.SubmissionRepository,
	userRepo repository.UserRepository,
	provider llm.Provider,
	redisClient *redis.Client,
	dailyQuota int,
) AIService {
	return &aiService{
		submissionRepo: submissionRepo,
		userRepo:       userRepo,
		provider:       provider,
		redisClient:    redisClient,
		dailyQuota:     dailyQuota,
	}
}

// aiAnalysisResult is the JSON shape we ask the model for.
type aiAnalysisResult struct {
	Summary  string `json:"summary"`
	Findings []struct {
		LineNumber int    `json:"line_number"`
		Severity   string `json:"severity"`
		Comment    string `json:"comment"`
	} `json:"findings"`
	Suggestions []string `json:"suggestions"`
}

const analyzePrompt = `You are an experienced code reviewer. Analyze the following %s code submission.

Title: %s
Description: %s

Code:
%s

Instructions:
1. Summarize the overall quality and intent of the code in 2-3 sentences.
2. List concrete findings with the 1-based line number they refer to. Severity is one of "info", "warning", "error".
3. List up to 5 actionable improvement suggestions.
4. Output MUST be JSON: {"summary": "...", "findings": [{"line_number": 1, "severity": "warning", "comment": "..."}], "suggestions": ["..."]}`

func (s *aiService) Analyze(ctx context.Context, userID uuid.UUID, req dto.AIAnalyzeRequest) (*dto.AIAnalysisOut, error) {
	actor, err := s.userRepo.FindByID(ctx, userID.String())
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	sub, err := s.submissionRepo.FindByID(ctx, req.SubmissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("submission not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}

	if err := policy.CanViewSubmission(actor, sub); err != nil {
		return nil, err
	}

	if s.provider == nil {
		return nil, fmt.Errorf("ai analysis is not configured: %w", apperror.ErrUpstream)
	}

	used, err := s.consumeQuota(ctx, userID)
	if err != nil {
		return nil, err
	}
	if used > s.dailyQuota {
		return nil, fmt.Errorf("daily ai analysis quota of %d exhausted: %w", s.dailyQuota, apperror.ErrRateLimitExceeded)
	}

	prompt := fmt.Sprintf(analyzePrompt, sub.Language, sub.Title, sub.Description, sub.CodeContent)

	var result aiAnalysisResult
	if err := s.provider.GenerateStructured(ctx, prompt, &result); err != nil {
		// A failed call should not burn quota.
		s.refundQuota(ctx, userID)
		return nil, fmt.Errorf("ai analysis failed: %v: %w", err, apperror.ErrUpstream)
	}

	out := &dto.AIAnalysisOut{
		SubmissionID: sub.ID,
		Summary:      result.Summary,
		Findings:     make([]dto.AIFinding, 0, len(result.Findings)),
		Suggestions:  result.Suggestions,
	}
	for _, f := range result.Findings {
		out.Findings = append(out.Findings, dto.AIFinding{
			LineNumber: f.LineNumber,
			Severity:   f.Severity,
			Comment:    f.Comment,
		})
	}

	return out, nil
}

func (s *aiService) Quota(ctx context.Context, userID uuid.UUID) (*dto.AIQuotaOut, error) {
	if _, err := s.userRepo.FindByID(ctx, userID.String()); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	used := 0
	if s.redisClient != nil {
		val, err := s.redisClient.Get(ctx, s.quotaKey(userID)).Int()
		if err != nil && !errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("failed to read ai quota: %w", err)
		}
		used = val
	}

	remaining := s.dailyQuota - used
	if remaining < 0 {
		remaining = 0
	}

	return &dto.AIQuotaOut{
		Limit:     s.dailyQuota,
		Used:      used,
		Remaining: remaining,
	}, nil
}

func (s *aiService) quotaKey(userID uuid.UUID) string {
	return fmt.Sprintf("ai_quota:user:%s:%s", userID.String(), time.Now().UTC().Format("2006-01-02"))
}

// consumeQuota increments today's counter and returns the post-increment
// count. Without redis the quota is not enforced.
func (s *aiService) consumeQuota(ctx context.Context, userID uuid.UUID) (int, error) {
	if s.redisClient == nil {
		return 1, nil
	}

	key := s.quotaKey(userID)
	used, err := s.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to track ai quota: %w", err)
	}
	if used == 1 {
		s.redisClient.Expire(ctx, key, 24*time.Hour)
	}
	return int(used), nil
}

func (s *aiService) refundQuota(ctx context.Context, userID uuid.UUID) {
	if s.redisClient == nil {
		return
	}
	s.redisClient.Decr(ctx, s.quotaKey(userID))
}
